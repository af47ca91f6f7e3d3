package strategy

import (
	"fmt"

	"SwingTrader/internal/indicator"
	"SwingTrader/internal/model"
)

// Basic is the original two-factor engine: buy on RSI oversold plus a dip
// from the lookback high, exit on RSI overbought or fixed-percent
// profit/stop levels. Kept as the comparison baseline for the enhanced
// engine.
type Basic struct {
	params Params
}

// NewBasic creates the basic engine.
func NewBasic(params Params) *Basic {
	return &Basic{params: params}
}

func (s *Basic) Name() string { return "basic" }

// Evaluate implements Strategy.
func (s *Basic) Evaluate(ticker string, position *model.Position, bars []model.Bar) model.Signal {
	if len(bars) < minBars {
		return hold(ticker, "Insufficient data", model.Indicators{})
	}

	closes := model.Closes(bars)
	currentPrice := closes[len(closes)-1]

	rsi, err := indicator.RSI(closes, rsiPeriod)
	if err != nil {
		return hold(ticker, fmt.Sprintf("RSI unavailable: %v", err), model.Indicators{CurrentPrice: currentPrice})
	}
	dip, err := indicator.DipFromHigh(closes, s.params.LookbackDays)
	if err != nil {
		return hold(ticker, fmt.Sprintf("Dip unavailable: %v", err), model.Indicators{CurrentPrice: currentPrice})
	}

	ind := model.Indicators{
		RSI:          rsi,
		DipPercent:   dip,
		CurrentPrice: currentPrice,
	}

	if position == nil {
		isOversold := rsi < s.params.RSIOversold
		isDip := dip <= -s.params.DipPercentage

		if isOversold && isDip {
			return model.Signal{
				Ticker:     ticker,
				Action:     model.ActionBuy,
				Reason:     fmt.Sprintf("RSI oversold (%.2f) and %.2f%% dip detected", rsi, -dip),
				Indicators: ind,
			}
		}
		return hold(ticker, fmt.Sprintf("Waiting for buy signal (RSI: %.2f, Dip: %.2f%%)", rsi, dip), ind)
	}

	// Holding: fixed-percent exits.
	entryPrice := position.EntryPrice
	profitPercent := (currentPrice - entryPrice) / entryPrice * 100

	switch {
	case rsi > s.params.RSIOverbought:
		return model.Signal{
			Ticker:     ticker,
			Action:     model.ActionSell,
			Reason:     fmt.Sprintf("RSI overbought (%.2f) - Profit: %.2f%%", rsi, profitPercent),
			Indicators: ind,
		}
	case profitPercent >= s.params.ProfitTargetPercent:
		return model.Signal{
			Ticker:     ticker,
			Action:     model.ActionSell,
			Reason:     fmt.Sprintf("Profit target reached: %.2f%%", profitPercent),
			Indicators: ind,
		}
	case profitPercent <= -s.params.StopLossPercent:
		return model.Signal{
			Ticker:     ticker,
			Action:     model.ActionSell,
			Reason:     fmt.Sprintf("Stop loss triggered: %.2f%%", profitPercent),
			Indicators: ind,
		}
	}

	return hold(ticker, fmt.Sprintf("Holding position (P/L: %.2f%%, RSI: %.2f)", profitPercent, rsi), ind)
}
