package backtest

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"SwingTrader/internal/marketdata"
	"SwingTrader/internal/model"
	"SwingTrader/internal/strategy"
)

func testConfig() Config {
	params := strategy.DefaultParams()
	params.LookbackDays = 10
	return Config{Variant: "basic", Params: params}
}

func barsFromCloses(closes []float64) []model.Bar {
	bars := make([]model.Bar, len(closes))
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = model.Bar{
			Time:   base.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

// roundTripCloses triggers exactly one buy (dip to 95 with RSI crushed) and
// one profit-target sell (rally to 103), then goes quiet.
func roundTripCloses() []float64 {
	closes := make([]float64, 0, 50)
	for i := 0; i < 40; i++ {
		closes = append(closes, 100)
	}
	closes = append(closes, 95, 103)
	for i := 0; i < 8; i++ {
		closes = append(closes, 103)
	}
	return closes
}

func TestRun_SingleRoundTrip(t *testing.T) {
	sim, err := NewSimulator(testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := sim.Run(context.Background(), "AAPL", barsFromCloses(roundTripCloses()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Trades) != 2 {
		for _, tr := range result.Trades {
			t.Logf("trade: %s %.2f x%d", tr.Side, tr.Price, tr.Quantity)
		}
		t.Fatalf("expected exactly 2 trades, got %d", len(result.Trades))
	}
	buy, sell := result.Trades[0], result.Trades[1]
	if buy.Side != model.SideBuy || sell.Side != model.SideSell {
		t.Fatalf("expected buy then sell, got %s then %s", buy.Side, sell.Side)
	}
	if buy.Price != 95 || sell.Price != 103 {
		t.Errorf("expected round trip 95 -> 103, got %.2f -> %.2f", buy.Price, sell.Price)
	}

	// floor(1000 / 95) shares at the entry close.
	wantQty := 10
	if buy.Quantity != wantQty {
		t.Errorf("expected %d shares, got %d", wantQty, buy.Quantity)
	}
	wantProfit := (sell.Price - buy.Price) * float64(buy.Quantity)
	if math.Abs(sell.Profit-wantProfit) > 1e-9 {
		t.Errorf("expected profit %.2f, got %.2f", wantProfit, sell.Profit)
	}

	if result.Wins != 1 || result.Losses != 0 {
		t.Errorf("expected 1W/0L, got %dW/%dL", result.Wins, result.Losses)
	}
	if result.WinRate != 100 {
		t.Errorf("expected 100%% win rate, got %.1f", result.WinRate)
	}
	if result.ProfitFactor != profitFactorCap {
		t.Errorf("expected profit factor sentinel %d with no losses, got %.2f", profitFactorCap, result.ProfitFactor)
	}
	// A single trade has no return variance: Sharpe stays 0.
	if result.SharpeRatio != 0 {
		t.Errorf("expected Sharpe 0 for one trade, got %.4f", result.SharpeRatio)
	}
	if result.OpenPosition != nil {
		t.Error("round trip should end flat")
	}
}

func TestRun_ShareCountAndOpenPosition(t *testing.T) {
	// Crash to 50 on the final bar: the buy fires there and the series ends
	// holding. floor(1000/50) = 20 shares exactly; open positions are
	// reported, never force-closed into the stats.
	closes := make([]float64, 44)
	for i := range closes {
		closes[i] = 100
	}
	closes = append(closes, 50)

	sim, err := NewSimulator(testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := sim.Run(context.Background(), "GME", barsFromCloses(closes))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.OpenPosition == nil {
		t.Fatal("expected an open position at series end")
	}
	if result.OpenPosition.Quantity != 20 {
		t.Errorf("expected floor(1000/50) = 20 shares, got %d", result.OpenPosition.Quantity)
	}
	if result.Wins != 0 || result.Losses != 0 || result.WinRate != 0 {
		t.Errorf("open position must not count toward stats: %dW/%dL %.1f%%", result.Wins, result.Losses, result.WinRate)
	}
	if len(result.Trades) != 1 {
		t.Errorf("expected only the buy recorded, got %d trades", len(result.Trades))
	}
}

func TestRun_NoLookahead(t *testing.T) {
	// Decisions up to bar k must be identical whether or not bars beyond k
	// exist: the engine never sees the future.
	bars := marketdata.GenerateBars(100, 320)
	cut := 220

	sim, err := NewSimulator(testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	full, err := sim.Run(context.Background(), "AAPL", bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	truncated, err := sim.Run(context.Background(), "AAPL", bars[:cut])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cutTime := bars[cut].Time
	var fullPrefix []string
	for _, tr := range full.Trades {
		if tr.ExecutedAt.Before(cutTime) {
			fullPrefix = append(fullPrefix, fmt.Sprintf("%s@%.4f", tr.Side, tr.Price))
		}
	}
	var truncAll []string
	for _, tr := range truncated.Trades {
		truncAll = append(truncAll, fmt.Sprintf("%s@%.4f", tr.Side, tr.Price))
	}
	if strings.Join(fullPrefix, ",") != strings.Join(truncAll, ",") {
		t.Errorf("trade prefix diverges:\n full: %v\n trunc: %v", fullPrefix, truncAll)
	}
}

func TestRun_EmptySeries(t *testing.T) {
	sim, err := NewSimulator(testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := sim.Run(context.Background(), "NODATA", nil)
	if err != nil {
		t.Fatalf("empty data must not error: %v", err)
	}
	if result.TotalTrades != 0 || result.Score != 0 || len(result.EquityCurve) != 0 {
		t.Errorf("expected zero result, got %+v", result)
	}
}

func TestRun_Cancellation(t *testing.T) {
	sim, err := NewSimulator(testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := sim.Run(ctx, "AAPL", barsFromCloses(roundTripCloses())); err == nil {
		t.Error("expected cancellation to propagate between bar steps")
	}
}

func TestNewSimulator_Validation(t *testing.T) {
	cfg := testConfig()
	cfg.Params.RSIOversold = 90 // above overbought
	if _, err := NewSimulator(cfg); err == nil {
		t.Error("expected invalid params to be rejected")
	}

	cfg = testConfig()
	cfg.Variant = "quantum"
	if _, err := NewSimulator(cfg); err == nil {
		t.Error("expected unknown variant to be rejected")
	}
}

func TestNewSimulator_VariantDefaults(t *testing.T) {
	basic, err := NewSimulator(testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if basic.cfg.Warmup != basicWarmup || basic.cfg.Window != basicWindow {
		t.Errorf("basic defaults wrong: warmup %d window %d", basic.cfg.Warmup, basic.cfg.Window)
	}

	cfg := testConfig()
	cfg.Variant = "enhanced"
	enhanced, err := NewSimulator(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enhanced.cfg.Warmup != enhancedWarmup || enhanced.cfg.Window != enhancedWindow {
		t.Errorf("enhanced defaults wrong: warmup %d window %d", enhanced.cfg.Warmup, enhanced.cfg.Window)
	}
	if enhanced.cfg.InitialEquity != DefaultInitialEquity {
		t.Errorf("expected default equity, got %.0f", enhanced.cfg.InitialEquity)
	}
}
