// Package backtest replays a strategy bar-by-bar over historical data and
// derives performance statistics from the completed round-trips.
package backtest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"SwingTrader/internal/model"
	"SwingTrader/internal/scoring"
	"SwingTrader/internal/strategy"
)

// Defaults for a simulation run.
const (
	DefaultInitialEquity = 10000.0
	DefaultRiskFreeRate  = 0.02

	// Warm-up offsets: enough history that the indicators are meaningful
	// before the first decision. The enhanced variant needs SMA(200) plus
	// headroom, otherwise the trend filter would always default neutral.
	basicWarmup    = 30
	enhancedWarmup = 250

	// History window handed to the engine at each step.
	basicWindow    = 100
	enhancedWindow = 250
)

// Config tunes one simulation. Zero fields fall back to variant defaults.
type Config struct {
	Variant       string // "basic" or "enhanced"
	Params        strategy.Params
	InitialEquity float64
	RiskFreeRate  float64 // annual
	Warmup        int
	Window        int
}

// Simulator drives a strategy over a fixed historical series. A Simulator
// holds no per-run state: concurrent Run calls on separate bar series are
// safe, which is how batch backtests parallelize across tickers.
type Simulator struct {
	cfg   Config
	strat strategy.Strategy
}

// NewSimulator validates the configuration and builds the engine.
func NewSimulator(cfg Config) (*Simulator, error) {
	if err := cfg.Params.Validate(); err != nil {
		return nil, fmt.Errorf("backtest config: %w", err)
	}
	strat, err := strategy.New(cfg.Variant, cfg.Params)
	if err != nil {
		return nil, fmt.Errorf("backtest config: %w", err)
	}
	if cfg.InitialEquity <= 0 {
		cfg.InitialEquity = DefaultInitialEquity
	}
	if cfg.RiskFreeRate <= 0 {
		cfg.RiskFreeRate = DefaultRiskFreeRate
	}
	if cfg.Warmup <= 0 {
		cfg.Warmup = basicWarmup
		if cfg.Variant == "enhanced" {
			cfg.Warmup = enhancedWarmup
		}
	}
	if cfg.Window <= 0 {
		cfg.Window = basicWindow
		if cfg.Variant == "enhanced" {
			cfg.Window = enhancedWindow
		}
	}
	return &Simulator{cfg: cfg, strat: strat}, nil
}

// Run replays the series day by day. The engine only ever sees bars up to
// and including the current index, never future ones. An empty or too-short
// series yields an explicit zero-trade result rather than an error, so batch
// jobs continue past bad tickers; the only error returned is cancellation.
func (s *Simulator) Run(ctx context.Context, ticker string, bars []model.Bar) (*model.BacktestResult, error) {
	trades := []model.Trade{}
	equityCurve := []model.EquityPoint{}
	var position *model.Position

	equity := s.cfg.InitialEquity
	peak := equity

	for i := s.cfg.Warmup; i < len(bars); i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		current := bars[i]
		start := i + 1 - s.cfg.Window
		if start < 0 {
			start = 0
		}
		window := bars[start : i+1]

		sig := s.strat.Evaluate(ticker, position, window)

		switch {
		case sig.Action == model.ActionBuy && position == nil:
			qty := int(s.cfg.Params.PositionSizeUSD / current.Close)
			if qty > 0 {
				position = &model.Position{
					Ticker:     ticker,
					EntryPrice: current.Close,
					Quantity:   qty,
					EntryATR:   sig.Indicators.ATR,
					OpenedAt:   current.Time,
				}
				trades = append(trades, model.Trade{
					ID:         uuid.NewString(),
					Ticker:     ticker,
					Side:       model.SideBuy,
					Price:      current.Close,
					Quantity:   qty,
					Simulated:  true,
					ExecutedAt: current.Time,
				})
			}
		case sig.Action == model.ActionSell && position != nil:
			profit := (current.Close - position.EntryPrice) * float64(position.Quantity)
			equity += profit
			trades = append(trades, model.Trade{
				ID:         uuid.NewString(),
				Ticker:     ticker,
				Side:       model.SideSell,
				Price:      current.Close,
				Quantity:   position.Quantity,
				Profit:     profit,
				Simulated:  true,
				ExecutedAt: current.Time,
			})
			position = nil
		}

		if equity > peak {
			peak = equity
		}
		equityCurve = append(equityCurve, model.EquityPoint{
			Time:     current.Time,
			Equity:   equity,
			Drawdown: (peak - equity) / peak * 100,
		})
	}

	result := buildResult(ticker, trades, equityCurve, s.cfg.RiskFreeRate)
	// A position still open at the end is reported, not force-closed: the
	// statistics cover completed round-trips only.
	result.OpenPosition = position
	return result, nil
}

// zeroResult is what a ticker with no usable data reports.
func zeroResult(ticker string) *model.BacktestResult {
	return &model.BacktestResult{
		Ticker:      ticker,
		Trades:      []model.Trade{},
		EquityCurve: []model.EquityPoint{},
	}
}

func tradeStats(result *model.BacktestResult) scoring.TradeStats {
	return scoring.TradeStats{
		Wins:         result.Wins,
		Losses:       result.Losses,
		TotalProfit:  result.TotalProfit,
		SharpeRatio:  result.SharpeRatio,
		ProfitFactor: result.ProfitFactor,
	}
}
