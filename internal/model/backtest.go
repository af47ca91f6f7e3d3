package model

import "time"

// EquityPoint is one step of the simulated equity curve. Drawdown is the
// percent decline from the running peak at that step.
type EquityPoint struct {
	Time     time.Time
	Equity   float64
	Drawdown float64
}

// BacktestResult aggregates one simulation run over a single ticker.
// Only completed round-trips count toward the statistics; a position still
// open at the end of the series is reported but not force-closed.
type BacktestResult struct {
	Ticker      string
	TotalTrades int
	Wins        int
	Losses      int
	WinRate     float64
	TotalProfit float64
	AvgProfit   float64

	SharpeRatio        float64
	MaxDrawdown        float64
	MaxDrawdownPercent float64

	ProfitFactor float64
	Expectancy   float64
	AvgWin       float64
	AvgLoss      float64 // positive magnitude
	LargestWin   float64
	LargestLoss  float64

	Score float64

	Trades      []Trade
	EquityCurve []EquityPoint

	// OpenPosition is non-nil when the series ended while still holding.
	OpenPosition *Position
}
