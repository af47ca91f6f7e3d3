package indicator

import "fmt"

// SMA computes the arithmetic mean of the last `period` closes.
func SMA(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("sma: period must be positive, got %d", period)
	}
	if len(closes) < period {
		return 0, fmt.Errorf("sma(%d): %w: have %d closes", period, ErrInsufficientData, len(closes))
	}
	sum := 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(period), nil
}

// TrendCheck is the result of the SMA trend filter.
type TrendCheck struct {
	SMA      float64
	AboveSMA bool
	Period   int
}

// TrendFilter evaluates whether the latest close sits above a long moving
// average. It prefers SMA(200), falls back to SMA(50) with shorter history,
// and with fewer than 50 closes defaults to neutral-true so thin data never
// blocks an entry on its own.
func TrendFilter(closes []float64) TrendCheck {
	if len(closes) < 50 {
		return TrendCheck{AboveSMA: true}
	}
	period := 50
	if len(closes) >= 200 {
		period = 200
	}
	sma, err := SMA(closes, period)
	if err != nil {
		return TrendCheck{AboveSMA: true}
	}
	current := closes[len(closes)-1]
	return TrendCheck{SMA: sma, AboveSMA: current > sma, Period: period}
}
