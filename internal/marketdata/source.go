// Package marketdata fetches historical bar series for backtesting. Bars are
// normalized into model.Bar at this boundary; upstream field-naming quirks
// never reach the indicator code.
package marketdata

import (
	"context"

	"SwingTrader/internal/model"
)

// Source supplies daily historical bars, ascending by time.
type Source interface {
	Fetch(ctx context.Context, ticker string, days int) ([]model.Bar, error)
	Name() string
}
