package strategy

import (
	"fmt"
	"strings"

	"SwingTrader/internal/indicator"
	"SwingTrader/internal/model"
)

// Confluence weights. RSI and dip are the strategy's primary thesis and
// count double; volume and trend are confirming filters.
const (
	scoreRSI    = 2
	scoreDip    = 2
	scoreVolume = 1
	scoreTrend  = 1
	scoreMax    = scoreRSI + scoreDip + scoreVolume + scoreTrend
	buyScoreMin = 4
)

// Enhanced is the confluence-scored engine. Entries need at least 4 of 6
// weighted points across four factors; exits use ATR-based stop/target
// levels fixed at the entry price rather than the legacy fixed percents.
type Enhanced struct {
	params Params
}

// NewEnhanced creates the enhanced engine.
func NewEnhanced(params Params) *Enhanced {
	return &Enhanced{params: params}
}

func (s *Enhanced) Name() string { return "enhanced" }

// Evaluate implements Strategy.
func (s *Enhanced) Evaluate(ticker string, position *model.Position, bars []model.Bar) model.Signal {
	if len(bars) < minBars {
		return hold(ticker, "Insufficient data", model.Indicators{})
	}

	closes := model.Closes(bars)
	volumes := model.Volumes(bars)
	currentPrice := closes[len(closes)-1]
	currentVolume := volumes[len(volumes)-1]

	rsi, err := indicator.RSI(closes, rsiPeriod)
	if err != nil {
		return hold(ticker, fmt.Sprintf("RSI unavailable: %v", err), model.Indicators{CurrentPrice: currentPrice})
	}
	dip, err := indicator.DipFromHigh(closes, s.params.LookbackDays)
	if err != nil {
		return hold(ticker, fmt.Sprintf("Dip unavailable: %v", err), model.Indicators{CurrentPrice: currentPrice})
	}
	atr, err := indicator.ATR(bars, atrPeriod)
	if err != nil {
		return hold(ticker, fmt.Sprintf("ATR unavailable: %v", err), model.Indicators{CurrentPrice: currentPrice})
	}

	volCheck := indicator.VolumeRatio(volumes[:len(volumes)-1], currentVolume, volumePeriod)
	trend := indicator.TrendFilter(closes)

	ind := model.Indicators{
		RSI:          rsi,
		DipPercent:   dip,
		CurrentPrice: currentPrice,
		Volume:       currentVolume,
		AvgVolume:    volCheck.AvgVolume,
		VolumeRatio:  volCheck.VolumeRatio,
		SMA:          trend.SMA,
		AboveSMA:     trend.AboveSMA,
		ATR:          atr,
	}

	if position == nil {
		return s.evaluateEntry(ticker, ind, volCheck, trend)
	}
	return s.evaluateExit(ticker, position, ind)
}

func (s *Enhanced) evaluateEntry(ticker string, ind model.Indicators, volCheck indicator.VolumeCheck, trend indicator.TrendCheck) model.Signal {
	isOversold := ind.RSI < s.params.RSIOversold
	isDip := ind.DipPercent <= -s.params.DipPercentage

	score := 0
	var passed, failed []string

	if isOversold {
		score += scoreRSI
		passed = append(passed, fmt.Sprintf("RSI oversold (%.2f)", ind.RSI))
	} else {
		failed = append(failed, fmt.Sprintf("RSI %.2f >= %.2f", ind.RSI, s.params.RSIOversold))
	}
	if isDip {
		score += scoreDip
		passed = append(passed, fmt.Sprintf("%.2f%% dip", -ind.DipPercent))
	} else {
		failed = append(failed, fmt.Sprintf("Dip %.2f%% > -%.2f%%", ind.DipPercent, s.params.DipPercentage))
	}
	if volCheck.Confirmed {
		score += scoreVolume
		passed = append(passed, fmt.Sprintf("Volume spike (%.2fx)", volCheck.VolumeRatio))
	} else {
		failed = append(failed, fmt.Sprintf("Volume %.2fx < 1.5x", volCheck.VolumeRatio))
	}
	if trend.AboveSMA {
		score += scoreTrend
		passed = append(passed, "Above SMA")
	} else {
		failed = append(failed, "Below SMA")
	}

	if score >= buyScoreMin {
		ind.ATRStopLoss = ind.CurrentPrice - atrStopMult*ind.ATR
		ind.ATRProfitTarget = ind.CurrentPrice + atrTargetMult*ind.ATR

		strength := "MODERATE BUY"
		switch {
		case score >= scoreMax:
			strength = "STRONG BUY"
		case score >= 5:
			strength = "BUY"
		}
		return model.Signal{
			Ticker:     ticker,
			Action:     model.ActionBuy,
			Reason:     fmt.Sprintf("%s (%d/%d): %s", strength, score, scoreMax, strings.Join(passed, ", ")),
			Indicators: ind,
		}
	}

	passedStr := strings.Join(passed, ", ")
	if passedStr == "" {
		passedStr = "none"
	}
	reason := fmt.Sprintf("Score %d/%d (need >=%d). Passed: %s. Missing: %s",
		score, scoreMax, buyScoreMin, passedStr, strings.Join(failed, "; "))
	return hold(ticker, reason, ind)
}

// evaluateExit applies the ATR exits. Stop and target are anchored to the
// entry price using the ATR captured at fill time, so they do not trail as
// volatility changes; a position recorded without EntryATR falls back to the
// current ATR.
func (s *Enhanced) evaluateExit(ticker string, position *model.Position, ind model.Indicators) model.Signal {
	entryPrice := position.EntryPrice
	profitPercent := (ind.CurrentPrice - entryPrice) / entryPrice * 100

	exitATR := position.EntryATR
	if exitATR <= 0 {
		exitATR = ind.ATR
	}
	atrStopLoss := entryPrice - atrStopMult*exitATR
	atrProfitTarget := entryPrice + atrTargetMult*exitATR
	stopPercent := (atrStopLoss - entryPrice) / entryPrice * 100
	targetPercent := (atrProfitTarget - entryPrice) / entryPrice * 100

	ind.ATRStopLoss = atrStopLoss
	ind.ATRProfitTarget = atrProfitTarget

	switch {
	case ind.RSI > s.params.RSIOverbought:
		return model.Signal{
			Ticker:     ticker,
			Action:     model.ActionSell,
			Reason:     fmt.Sprintf("RSI overbought (%.2f) - Profit: %.2f%%", ind.RSI, profitPercent),
			Indicators: ind,
		}
	case ind.CurrentPrice >= atrProfitTarget:
		return model.Signal{
			Ticker:     ticker,
			Action:     model.ActionSell,
			Reason:     fmt.Sprintf("ATR profit target reached: %.2f%% (Target: %.2f%%)", profitPercent, targetPercent),
			Indicators: ind,
		}
	case ind.CurrentPrice <= atrStopLoss:
		return model.Signal{
			Ticker:     ticker,
			Action:     model.ActionSell,
			Reason:     fmt.Sprintf("ATR stop loss triggered: %.2f%% (Stop: %.2f%%)", profitPercent, stopPercent),
			Indicators: ind,
		}
	}

	reason := fmt.Sprintf("Holding position (P/L: %.2f%%, RSI: %.2f, ATR Stop: %.2f%%, ATR Target: %.2f%%)",
		profitPercent, ind.RSI, stopPercent, targetPercent)
	return hold(ticker, reason, ind)
}
