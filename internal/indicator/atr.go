package indicator

import (
	"fmt"
	"math"

	"SwingTrader/internal/model"
)

// ATR computes the Wilder-smoothed Average True Range over the given period.
// True range per bar is max(high-low, |high-prevClose|, |low-prevClose|);
// the seed value is a simple mean of the first `period` true ranges.
// Requires at least period+1 bars.
func ATR(bars []model.Bar, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("atr: period must be positive, got %d", period)
	}
	if len(bars) < period+1 {
		return 0, fmt.Errorf("atr(%d): %w: need %d bars, have %d", period, ErrInsufficientData, period+1, len(bars))
	}

	trueRanges := make([]float64, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		high, low := bars[i].High, bars[i].Low
		prevClose := bars[i-1].Close
		tr := math.Max(high-low, math.Max(math.Abs(high-prevClose), math.Abs(low-prevClose)))
		trueRanges = append(trueRanges, tr)
	}

	atr := 0.0
	for _, tr := range trueRanges[:period] {
		atr += tr
	}
	atr /= float64(period)

	for _, tr := range trueRanges[period:] {
		atr = (atr*float64(period-1) + tr) / float64(period)
	}
	return atr, nil
}
