package trader

import (
	"context"
	"testing"
	"time"

	"SwingTrader/internal/broker"
	"SwingTrader/internal/model"
	"SwingTrader/internal/notifier"
	"SwingTrader/internal/strategy"
)

// recordingStore captures what the trader persists.
type recordingStore struct {
	watched []string
	profits map[string][]float64

	trades      []model.Trade
	signals     []model.Signal
	snapshots   []model.AccountSnapshot
	deactivated []string
}

func newRecordingStore(tickers ...string) *recordingStore {
	return &recordingStore{watched: tickers, profits: make(map[string][]float64)}
}

func (r *recordingStore) SaveTrade(t *model.Trade) error {
	r.trades = append(r.trades, *t)
	return nil
}

func (r *recordingStore) TradeHistory(_ string) ([]model.Trade, error) { return nil, nil }

func (r *recordingStore) SellProfits(ticker string) ([]float64, error) {
	return r.profits[ticker], nil
}

func (r *recordingStore) SaveSignal(s *model.Signal) error {
	r.signals = append(r.signals, *s)
	return nil
}

func (r *recordingStore) SaveSnapshot(s *model.AccountSnapshot) error {
	r.snapshots = append(r.snapshots, *s)
	return nil
}

func (r *recordingStore) SaveBacktestResult(_ *model.BacktestResult) error { return nil }

func (r *recordingStore) Watchlist() ([]model.WatchlistItem, error) {
	var items []model.WatchlistItem
	for _, t := range r.watched {
		active := true
		for _, d := range r.deactivated {
			if d == t {
				active = false
			}
		}
		if active {
			items = append(items, model.WatchlistItem{Ticker: t, IsActive: true, AddedAt: time.Now()})
		}
	}
	return items, nil
}

func (r *recordingStore) AddToWatchlist(_ string) error { return nil }

func (r *recordingStore) DeactivateTicker(ticker string) error {
	r.deactivated = append(r.deactivated, ticker)
	return nil
}

func (r *recordingStore) Close() error { return nil }

func barsFromCloses(closes []float64) []model.Bar {
	bars := make([]model.Bar, len(closes))
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = model.Bar{
			Time: start.AddDate(0, 0, i),
			Open: c, High: c + 1, Low: c - 1, Close: c,
			Volume: 1_000_000,
		}
	}
	return bars
}

// declineCloses triggers the basic engine's buy: flat then a steep slide.
func declineCloses() []float64 {
	closes := make([]float64, 0, 34)
	for i := 0; i < 20; i++ {
		closes = append(closes, 100)
	}
	for c := 95.0; c >= 30; c -= 5 {
		closes = append(closes, c)
	}
	return closes
}

func risingCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	return closes
}

func newTestTrader(t *testing.T, st *recordingStore, gw *broker.Mock) *Trader {
	t.Helper()
	tr, err := New(gw, st, notifier.NewNoop(), "basic", strategy.DefaultParams())
	if err != nil {
		t.Fatalf("new trader: %v", err)
	}
	return tr
}

func TestRun_BuySignalPlacesOrder(t *testing.T) {
	st := newRecordingStore("AAPL")
	gw := broker.NewMock()
	gw.Bars["AAPL"] = barsFromCloses(declineCloses())
	gw.Account.PortfolioValue = 10_000

	tr := newTestTrader(t, st, gw)
	if err := tr.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(gw.Orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(gw.Orders))
	}
	order := gw.Orders[0]
	if order.Side != model.SideBuy || order.Symbol != "AAPL" {
		t.Errorf("unexpected order %+v", order)
	}
	// Unproven ticker: $500 floor at price 30.
	if order.Qty != 16 {
		t.Errorf("expected 16 shares, got %d", order.Qty)
	}
	if len(st.trades) != 1 || st.trades[0].Side != model.SideBuy {
		t.Fatalf("trade not persisted: %+v", st.trades)
	}
	if len(st.signals) != 1 {
		t.Errorf("signal not persisted")
	}
}

func TestRun_MarketClosedIsNoop(t *testing.T) {
	st := newRecordingStore("AAPL")
	gw := broker.NewMock()
	gw.Bars["AAPL"] = barsFromCloses(declineCloses())
	gw.MarketOpen = false

	tr := newTestTrader(t, st, gw)
	if err := tr.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(gw.Orders) != 0 || len(st.signals) != 0 {
		t.Error("closed market must not trade or evaluate")
	}
}

func TestRun_SellClosesPosition(t *testing.T) {
	st := newRecordingStore("NVDA")
	gw := broker.NewMock()
	gw.Bars["NVDA"] = barsFromCloses(risingCloses(30))
	gw.Positions["NVDA"] = &broker.Position{
		Symbol: "NVDA", Qty: 10, AvgEntryPrice: 100, CurrentPrice: 129,
	}

	tr := newTestTrader(t, st, gw)
	if err := tr.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(gw.Orders) != 1 || gw.Orders[0].Side != model.SideSell {
		t.Fatalf("expected one sell order, got %+v", gw.Orders)
	}
	if _, still := gw.Positions["NVDA"]; still {
		t.Error("position should be closed")
	}
	if len(st.trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(st.trades))
	}
	trade := st.trades[0]
	// Filled at the last close (129), entered at 100, 10 shares.
	if trade.Profit != 290 {
		t.Errorf("expected profit 290, got %.1f", trade.Profit)
	}
}

func TestRun_PoorPerformerNotBought(t *testing.T) {
	st := newRecordingStore("LOSER")
	// 1 win then heavy losses: poor status, and cleanup will also fire.
	st.profits["LOSER"] = []float64{50, -200, -200, -200, -200, -200}
	gw := broker.NewMock()
	gw.Bars["LOSER"] = barsFromCloses(declineCloses())

	tr := newTestTrader(t, st, gw)
	if err := tr.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(gw.Orders) != 0 {
		t.Errorf("poor performer must not be bought, got %+v", gw.Orders)
	}
	if len(st.deactivated) != 1 || st.deactivated[0] != "LOSER" {
		t.Errorf("cleanup should have deactivated LOSER, got %v", st.deactivated)
	}
}

func TestRun_MaxPositionsBlocksBuy(t *testing.T) {
	st := newRecordingStore("AAPL")
	gw := broker.NewMock()
	gw.Bars["AAPL"] = barsFromCloses(declineCloses())
	for _, sym := range []string{"A", "B", "C", "D", "E"} {
		gw.Positions[sym] = &broker.Position{Symbol: sym, Qty: 1, AvgEntryPrice: 10}
	}

	tr := newTestTrader(t, st, gw) // default max_positions = 5
	if err := tr.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(gw.Orders) != 0 {
		t.Errorf("max positions must block the buy, got %+v", gw.Orders)
	}
}

func TestSnapshot(t *testing.T) {
	st := newRecordingStore()
	gw := broker.NewMock()
	gw.Account = broker.Account{Equity: 10500, Cash: 9000, PortfolioValue: 1500}

	tr := newTestTrader(t, st, gw)
	if err := tr.Snapshot(context.Background()); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(st.snapshots) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(st.snapshots))
	}
	if st.snapshots[0].Equity != 10500 {
		t.Errorf("equity not recorded: %+v", st.snapshots[0])
	}
}
