// Package trader runs the live paper-trading loop: evaluate every watched
// ticker against current bars, gate buys on track record, size positions by
// performance, and route orders through the broker.
package trader

import (
	"context"
	"fmt"
	"log"
	"time"

	"SwingTrader/internal/broker"
	"SwingTrader/internal/model"
	"SwingTrader/internal/notifier"
	"SwingTrader/internal/scoring"
	"SwingTrader/internal/store"
	"SwingTrader/internal/strategy"
	"SwingTrader/internal/watchlist"
)

const (
	// Enough daily bars for the 200-day trend filter plus warm-up.
	barFetchLimit = 300

	// Bar fetches go out in small batches with a pause between them to
	// stay inside the data API's rate limits.
	fetchBatchSize  = 10
	fetchBatchPause = time.Second

	notifyRetries = 3
)

// Trader wires the strategy engine to the broker, store and notifier.
type Trader struct {
	broker    broker.Gateway
	store     store.Store
	notifier  notifier.Notifier
	watchlist *watchlist.Manager
	engine    strategy.Strategy
	params    strategy.Params
}

// New builds a trader for the given strategy variant.
func New(gw broker.Gateway, st store.Store, nt notifier.Notifier, variant string, params strategy.Params) (*Trader, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	engine, err := strategy.New(variant, params)
	if err != nil {
		return nil, err
	}
	return &Trader{
		broker:    gw,
		store:     st,
		notifier:  nt,
		watchlist: watchlist.NewManager(st),
		engine:    engine,
		params:    params,
	}, nil
}

// Watchlist exposes the manager for the scheduler's cleanup job.
func (t *Trader) Watchlist() *watchlist.Manager { return t.watchlist }

// Run executes one full strategy pass. It is a no-op outside market hours.
func (t *Trader) Run(ctx context.Context) error {
	open, err := t.broker.IsMarketOpen(ctx)
	if err != nil {
		return fmt.Errorf("market clock: %w", err)
	}
	if !open {
		log.Println("[INFO] market closed, skipping run")
		return nil
	}

	removed, err := t.watchlist.Cleanup()
	if err != nil {
		log.Printf("[WARN] watchlist cleanup: %v", err)
	}
	for _, r := range removed {
		t.notify(ctx, notifier.FormatWatchlistChange(r.Ticker, "removed", r.Reason))
	}

	items, err := t.watchlist.Active()
	if err != nil {
		return fmt.Errorf("load watchlist: %w", err)
	}
	if len(items) == 0 {
		log.Println("[INFO] watchlist empty, nothing to do")
		return nil
	}

	account, err := t.broker.GetAccount(ctx)
	if err != nil {
		return fmt.Errorf("get account: %w", err)
	}
	positions, err := t.broker.GetPositions(ctx)
	if err != nil {
		return fmt.Errorf("get positions: %w", err)
	}
	positionMap := make(map[string]*broker.Position, len(positions))
	for i := range positions {
		positionMap[positions[i].Symbol] = &positions[i]
	}

	tickers := make([]string, len(items))
	for i, item := range items {
		tickers[i] = item.Ticker
	}
	barsBySymbol := t.fetchBars(ctx, tickers)

	openPositions := len(positions)
	executed := 0
	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			return err
		}
		bars, ok := barsBySymbol[ticker]
		if !ok {
			continue
		}

		sig := t.engine.Evaluate(ticker, toModelPosition(positionMap[ticker]), bars)
		if err := t.store.SaveSignal(&sig); err != nil {
			log.Printf("[WARN] save signal %s: %v", ticker, err)
		}
		log.Printf("[INFO] %s: %s (%s)", ticker, sig.Action, sig.Reason)

		switch sig.Action {
		case model.ActionBuy:
			if t.executeBuy(ctx, sig, account, openPositions) {
				openPositions++
				executed++
			}
		case model.ActionSell:
			if pos := positionMap[ticker]; pos != nil {
				if t.executeSell(ctx, sig, pos) {
					openPositions--
					executed++
				}
			}
		}
	}

	log.Printf("[INFO] run complete: %d tickers analyzed, %d trades executed", len(tickers), executed)
	return nil
}

func (t *Trader) executeBuy(ctx context.Context, sig model.Signal, account *broker.Account, openPositions int) bool {
	perf, err := t.watchlist.Performance(sig.Ticker)
	if err != nil {
		log.Printf("[WARN] performance %s: %v", sig.Ticker, err)
		return false
	}
	if !scoring.ShouldBuy(perf) {
		log.Printf("[INFO] skipping buy %s: %s performer (score %.0f)", sig.Ticker, perf.Status, perf.Score)
		return false
	}
	if openPositions >= t.params.MaxPositions {
		log.Printf("[INFO] skipping buy %s: max positions reached (%d)", sig.Ticker, t.params.MaxPositions)
		return false
	}

	shares, dollars, sizeReason := PositionSize(perf, sig.Indicators.CurrentPrice, account.PortfolioValue)
	if shares <= 0 {
		log.Printf("[WARN] skipping buy %s: sized to zero shares", sig.Ticker)
		return false
	}
	log.Printf("[INFO] sizing %s: %d shares ($%.0f), %s", sig.Ticker, shares, dollars, sizeReason)

	order, err := t.broker.CreateOrder(ctx, sig.Ticker, shares, model.SideBuy)
	if err != nil {
		log.Printf("[ERROR] buy order %s: %v", sig.Ticker, err)
		return false
	}

	price := order.FilledAvgPrice
	if price == 0 {
		price = sig.Indicators.CurrentPrice
	}
	trade := model.Trade{
		ID:         order.ID,
		Ticker:     sig.Ticker,
		Side:       model.SideBuy,
		Price:      price,
		Quantity:   shares,
		Simulated:  true,
		ExecutedAt: time.Now(),
	}
	if err := t.store.SaveTrade(&trade); err != nil {
		log.Printf("[WARN] save trade %s: %v", sig.Ticker, err)
	}
	log.Printf("[INFO] BUY executed: %s x %d @ %.2f", sig.Ticker, shares, price)
	t.notify(ctx, notifier.FormatTradeExecution(&trade, sig.Reason))
	return true
}

func (t *Trader) executeSell(ctx context.Context, sig model.Signal, pos *broker.Position) bool {
	order, err := t.broker.CreateOrder(ctx, sig.Ticker, pos.Qty, model.SideSell)
	if err != nil {
		log.Printf("[ERROR] sell order %s: %v", sig.Ticker, err)
		return false
	}

	price := order.FilledAvgPrice
	if price == 0 {
		price = sig.Indicators.CurrentPrice
	}
	trade := model.Trade{
		ID:         order.ID,
		Ticker:     sig.Ticker,
		Side:       model.SideSell,
		Price:      price,
		Quantity:   pos.Qty,
		Profit:     (price - pos.AvgEntryPrice) * float64(pos.Qty),
		Simulated:  true,
		ExecutedAt: time.Now(),
	}
	if err := t.store.SaveTrade(&trade); err != nil {
		log.Printf("[WARN] save trade %s: %v", sig.Ticker, err)
	}
	log.Printf("[INFO] SELL executed: %s x %d @ %.2f (P/L %.2f)", sig.Ticker, pos.Qty, price, trade.Profit)
	t.notify(ctx, notifier.FormatTradeExecution(&trade, sig.Reason))
	return true
}

// Snapshot records the daily account state.
func (t *Trader) Snapshot(ctx context.Context) error {
	account, err := t.broker.GetAccount(ctx)
	if err != nil {
		return fmt.Errorf("get account: %w", err)
	}
	snap := model.AccountSnapshot{
		Equity:         account.Equity,
		Cash:           account.Cash,
		PortfolioValue: account.PortfolioValue,
		TakenAt:        time.Now(),
	}
	if err := t.store.SaveSnapshot(&snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	t.notify(ctx, notifier.FormatDailySnapshot(&snap))
	return nil
}

// fetchBars pulls daily bars for every ticker, a batch at a time. Individual
// failures are logged and the ticker skipped; the run continues.
func (t *Trader) fetchBars(ctx context.Context, tickers []string) map[string][]model.Bar {
	out := make(map[string][]model.Bar, len(tickers))
	for i := 0; i < len(tickers); i += fetchBatchSize {
		if i > 0 {
			select {
			case <-ctx.Done():
				return out
			case <-time.After(fetchBatchPause):
			}
		}
		end := i + fetchBatchSize
		if end > len(tickers) {
			end = len(tickers)
		}
		for _, ticker := range tickers[i:end] {
			bars, err := t.broker.GetBars(ctx, ticker, barFetchLimit)
			if err != nil {
				log.Printf("[WARN] fetch bars %s: %v", ticker, err)
				continue
			}
			out[ticker] = bars
		}
	}
	return out
}

func (t *Trader) notify(ctx context.Context, text string) {
	if err := t.notifier.SendWithRetry(ctx, text, notifyRetries); err != nil {
		log.Printf("[WARN] notify: %v", err)
	}
}

// toModelPosition converts the broker's view of a holding into the
// strategy's. EntryATR is unknown for broker positions; the enhanced engine
// falls back to the current ATR.
func toModelPosition(p *broker.Position) *model.Position {
	if p == nil {
		return nil
	}
	return &model.Position{
		Ticker:     p.Symbol,
		EntryPrice: p.AvgEntryPrice,
		Quantity:   p.Qty,
	}
}
