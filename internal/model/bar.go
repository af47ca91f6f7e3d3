package model

import "time"

// Bar represents a single OHLCV candlestick. Series are always ordered by
// non-decreasing timestamp; bars are normalized at the ingestion boundary
// (broker or data source) and never mutated afterwards.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Closes extracts the close column from a bar series.
func Closes(bars []Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// Volumes extracts the volume column from a bar series.
func Volumes(bars []Bar) []float64 {
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		volumes[i] = b.Volume
	}
	return volumes
}
