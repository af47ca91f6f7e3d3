package indicator

import "fmt"

// DipFromHigh returns the percent change of the latest close from the maximum
// close in the trailing lookback window (inclusive of the current bar).
// The result is never positive: it is 0 when the latest close is the window
// maximum and negative otherwise.
func DipFromHigh(closes []float64, lookback int) (float64, error) {
	if lookback <= 0 {
		return 0, fmt.Errorf("dip: lookback must be positive, got %d", lookback)
	}
	if len(closes) == 0 {
		return 0, fmt.Errorf("dip: %w: empty series", ErrInsufficientData)
	}
	start := len(closes) - lookback
	if start < 0 {
		start = 0
	}
	high := closes[start]
	for _, c := range closes[start:] {
		if c > high {
			high = c
		}
	}
	current := closes[len(closes)-1]
	return (current - high) / high * 100, nil
}
