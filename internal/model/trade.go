package model

import "time"

// Side distinguishes the two halves of a round-trip.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Trade records one executed (or simulated) order. Profit is set only on the
// sell side, computed against the matching buy; buys carry zero.
type Trade struct {
	ID         string
	Ticker     string
	Side       Side
	Price      float64
	Quantity   int
	Profit     float64
	Simulated  bool
	ExecutedAt time.Time
}

// AccountSnapshot is one day's portfolio state, recorded by the daily
// snapshot job for equity-history reporting.
type AccountSnapshot struct {
	Equity         float64
	Cash           float64
	PortfolioValue float64
	TakenAt        time.Time
}

// WatchlistItem is one tracked ticker.
type WatchlistItem struct {
	ID       string
	Ticker   string
	IsActive bool
	AddedAt  time.Time
}
