// Package strategy implements the signal engines: pure decision functions
// from a bar series and an optional open position to a buy/sell/hold signal.
// Two variants share one interface so backtests can compare them on
// identical data: the basic RSI+dip engine with fixed-percent exits, and the
// enhanced confluence-scored engine with volume/trend filters and ATR exits.
package strategy

import (
	"fmt"

	"SwingTrader/internal/model"
)

const (
	rsiPeriod    = 14
	atrPeriod    = 14
	volumePeriod = 20

	// minBars is the warm-up floor: below this the engines hold without
	// computing indicators at all.
	minBars = 30

	// ATR exit multipliers: stop at entry-2*ATR, target at entry+3*ATR,
	// a 3:2 reward:risk scaled to current volatility.
	atrStopMult   = 2.0
	atrTargetMult = 3.0
)

// Strategy is the single entry point both the live loop and the backtester
// use. Evaluate is a pure function of its inputs: identical inputs always
// yield the identical signal, and it never returns an error. Degenerate
// inputs surface as a hold with an explanatory reason.
type Strategy interface {
	Name() string
	Evaluate(ticker string, position *model.Position, bars []model.Bar) model.Signal
}

// Params is the tunable strategy configuration, passed by value per engine.
type Params struct {
	RSIOversold         float64 `yaml:"rsi_oversold"`
	RSIOverbought       float64 `yaml:"rsi_overbought"`
	DipPercentage       float64 `yaml:"dip_percentage"`
	ProfitTargetPercent float64 `yaml:"profit_target_percent"`
	StopLossPercent     float64 `yaml:"stop_loss_percent"`
	PositionSizeUSD     float64 `yaml:"position_size_usd"`
	MaxPositions        int     `yaml:"max_positions"`
	LookbackDays        int     `yaml:"lookback_days"`
}

// DefaultParams returns the stock configuration.
func DefaultParams() Params {
	return Params{
		RSIOversold:         30,
		RSIOverbought:       70,
		DipPercentage:       5,
		ProfitTargetPercent: 8,
		StopLossPercent:     3,
		PositionSizeUSD:     1000,
		MaxPositions:        5,
		LookbackDays:        20,
	}
}

// Validate rejects configurations that would make the engines misbehave.
// Called at config-load time; no signal is generated from invalid params.
func (p Params) Validate() error {
	if p.RSIOversold <= 0 || p.RSIOversold >= 100 {
		return fmt.Errorf("rsi_oversold must be in (0, 100), got %.1f", p.RSIOversold)
	}
	if p.RSIOverbought <= 0 || p.RSIOverbought >= 100 {
		return fmt.Errorf("rsi_overbought must be in (0, 100), got %.1f", p.RSIOverbought)
	}
	if p.RSIOversold >= p.RSIOverbought {
		return fmt.Errorf("rsi_oversold (%.1f) must be below rsi_overbought (%.1f)", p.RSIOversold, p.RSIOverbought)
	}
	if p.DipPercentage < 0 {
		return fmt.Errorf("dip_percentage must be non-negative, got %.1f", p.DipPercentage)
	}
	if p.ProfitTargetPercent <= 0 {
		return fmt.Errorf("profit_target_percent must be positive, got %.1f", p.ProfitTargetPercent)
	}
	if p.StopLossPercent <= 0 {
		return fmt.Errorf("stop_loss_percent must be positive, got %.1f", p.StopLossPercent)
	}
	if p.PositionSizeUSD <= 0 {
		return fmt.Errorf("position_size_usd must be positive, got %.1f", p.PositionSizeUSD)
	}
	if p.MaxPositions <= 0 {
		return fmt.Errorf("max_positions must be positive, got %d", p.MaxPositions)
	}
	if p.LookbackDays <= 0 {
		return fmt.Errorf("lookback_days must be positive, got %d", p.LookbackDays)
	}
	return nil
}

// New returns the engine for the given variant name ("basic" or "enhanced").
func New(variant string, params Params) (Strategy, error) {
	switch variant {
	case "basic":
		return NewBasic(params), nil
	case "enhanced":
		return NewEnhanced(params), nil
	default:
		return nil, fmt.Errorf("unknown strategy variant %q", variant)
	}
}

func hold(ticker, reason string, ind model.Indicators) model.Signal {
	return model.Signal{Ticker: ticker, Action: model.ActionHold, Reason: reason, Indicators: ind}
}
