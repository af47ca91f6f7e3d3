// Package watchlist maintains the set of tickers the bot trades, pruning
// persistent losers automatically so capital rotates toward what works.
package watchlist

import (
	"fmt"
	"log"

	"SwingTrader/internal/model"
	"SwingTrader/internal/scoring"
	"SwingTrader/internal/store"
)

// Manager wraps the store's watchlist with performance-based cleanup.
type Manager struct {
	store store.Store
}

func NewManager(st store.Store) *Manager {
	return &Manager{store: st}
}

// Active returns the tickers currently being traded.
func (m *Manager) Active() ([]model.WatchlistItem, error) {
	return m.store.Watchlist()
}

// Add puts a ticker on the watchlist, reactivating it if it was removed.
func (m *Manager) Add(ticker string) error {
	if ticker == "" {
		return fmt.Errorf("empty ticker")
	}
	return m.store.AddToWatchlist(ticker)
}

// Removal pairs a deactivated ticker with the reason it was dropped.
type Removal struct {
	Ticker string
	Reason string
}

// Cleanup deactivates tickers whose realized track record marks them as
// persistent losers. Unproven tickers are always kept.
func (m *Manager) Cleanup() ([]Removal, error) {
	items, err := m.store.Watchlist()
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}

	var removed []Removal
	for _, item := range items {
		profits, err := m.store.SellProfits(item.Ticker)
		if err != nil {
			log.Printf("[WARN] cleanup: profits for %s: %v", item.Ticker, err)
			continue
		}
		perf := scoring.RankTrades(profits)
		if !scoring.ShouldRemove(perf) {
			continue
		}
		if err := m.store.DeactivateTicker(item.Ticker); err != nil {
			log.Printf("[ERROR] cleanup: deactivate %s: %v", item.Ticker, err)
			continue
		}
		reason := fmt.Sprintf("score %.0f, %.1f%% win rate over %d trades",
			perf.Score, perf.WinRate, perf.CompletedTrades)
		log.Printf("[INFO] watchlist: removed %s (%s)", item.Ticker, reason)
		removed = append(removed, Removal{Ticker: item.Ticker, Reason: reason})
	}
	return removed, nil
}

// Performance scores one watched ticker from its realized trades.
func (m *Manager) Performance(ticker string) (scoring.Performance, error) {
	profits, err := m.store.SellProfits(ticker)
	if err != nil {
		return scoring.Performance{}, fmt.Errorf("profits for %s: %w", ticker, err)
	}
	return scoring.RankTrades(profits), nil
}
