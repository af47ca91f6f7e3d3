package store

import "SwingTrader/internal/model"

// Store persists trades, signals, snapshots and backtest runs for analysis.
type Store interface {
	SaveTrade(trade *model.Trade) error
	TradeHistory(ticker string) ([]model.Trade, error)
	// SellProfits returns the realized profit of every completed round-trip
	// for the ticker, oldest first.
	SellProfits(ticker string) ([]float64, error)

	SaveSignal(sig *model.Signal) error
	SaveSnapshot(snap *model.AccountSnapshot) error
	SaveBacktestResult(result *model.BacktestResult) error

	Watchlist() ([]model.WatchlistItem, error)
	AddToWatchlist(ticker string) error
	DeactivateTicker(ticker string) error

	Close() error
}

// Noop is a no-op implementation used when SQLite is not configured.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (n *Noop) SaveTrade(_ *model.Trade) error                     { return nil }
func (n *Noop) TradeHistory(_ string) ([]model.Trade, error)       { return nil, nil }
func (n *Noop) SellProfits(_ string) ([]float64, error)            { return nil, nil }
func (n *Noop) SaveSignal(_ *model.Signal) error                   { return nil }
func (n *Noop) SaveSnapshot(_ *model.AccountSnapshot) error        { return nil }
func (n *Noop) SaveBacktestResult(_ *model.BacktestResult) error   { return nil }
func (n *Noop) Watchlist() ([]model.WatchlistItem, error)          { return nil, nil }
func (n *Noop) AddToWatchlist(_ string) error                      { return nil }
func (n *Noop) DeactivateTicker(_ string) error                    { return nil }
func (n *Noop) Close() error                                       { return nil }
