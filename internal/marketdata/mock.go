package marketdata

import (
	"context"
	"fmt"
	"math"
	"time"

	"SwingTrader/internal/model"
)

// MockSource returns controllable fixed data for development and testing.
// With Bars set it serves those; otherwise it generates a deterministic
// sinusoidal series around BasePrice so backtests produce some signals.
type MockSource struct {
	BasePrice float64
	Bars      map[string][]model.Bar
	Err       error
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Fetch(_ context.Context, ticker string, days int) ([]model.Bar, error) {
	if m.Err != nil {
		return nil, fmt.Errorf("mock fetch %s: %w", ticker, m.Err)
	}
	if bars, ok := m.Bars[ticker]; ok {
		return bars, nil
	}
	base := m.BasePrice
	if base <= 0 {
		base = 100
	}
	return GenerateBars(base, days), nil
}

// GenerateBars builds a deterministic wavy daily series ending today.
func GenerateBars(basePrice float64, count int) []model.Bar {
	bars := make([]model.Bar, count)
	start := time.Now().AddDate(0, 0, -count)
	for i := 0; i < count; i++ {
		wave := math.Sin(float64(i)/9) * 0.08
		drift := float64(i-count/2) * 0.0004
		p := basePrice * (1 + wave + drift)
		bars[i] = model.Bar{
			Time:   start.AddDate(0, 0, i),
			Open:   p * 0.998,
			High:   p * 1.012,
			Low:    p * 0.988,
			Close:  p,
			Volume: 1_000_000 * (1 + 0.5*math.Abs(math.Sin(float64(i)/5))),
		}
	}
	return bars
}
