package backtest

import (
	"math"

	"SwingTrader/internal/model"
	"SwingTrader/internal/scoring"
)

// profitFactorCap stands in for "infinite" when there are no losing trades.
const profitFactorCap = 999

// tradingDaysPerYear annualizes the Sharpe ratio and the risk-free rate.
const tradingDaysPerYear = 252

// buildResult derives the aggregate statistics from the recorded trades and
// equity curve.
func buildResult(ticker string, trades []model.Trade, equityCurve []model.EquityPoint, riskFreeRate float64) *model.BacktestResult {
	result := &model.BacktestResult{
		Ticker:      ticker,
		TotalTrades: len(trades),
		Trades:      trades,
		EquityCurve: equityCurve,
	}

	var grossProfit, grossLoss float64
	var winProfits, lossProfits []float64
	for _, t := range trades {
		if t.Side != model.SideSell {
			continue
		}
		result.TotalProfit += t.Profit
		if t.Profit > 0 {
			result.Wins++
			grossProfit += t.Profit
			winProfits = append(winProfits, t.Profit)
		} else {
			result.Losses++
			grossLoss += -t.Profit
			lossProfits = append(lossProfits, t.Profit)
		}
	}

	completed := result.Wins + result.Losses
	if completed > 0 {
		result.WinRate = float64(result.Wins) / float64(completed) * 100
		result.AvgProfit = result.TotalProfit / float64(completed)
	}

	if len(winProfits) > 0 {
		sum := 0.0
		result.LargestWin = winProfits[0]
		for _, p := range winProfits {
			sum += p
			if p > result.LargestWin {
				result.LargestWin = p
			}
		}
		result.AvgWin = sum / float64(len(winProfits))
	}
	if len(lossProfits) > 0 {
		sum := 0.0
		result.LargestLoss = lossProfits[0]
		for _, p := range lossProfits {
			sum += p
			if p < result.LargestLoss {
				result.LargestLoss = p
			}
		}
		// Stored as a positive magnitude.
		result.AvgLoss = -sum / float64(len(lossProfits))
	}

	switch {
	case grossLoss > 0:
		result.ProfitFactor = grossProfit / grossLoss
	case grossProfit > 0:
		result.ProfitFactor = profitFactorCap
	}

	winProb := result.WinRate / 100
	result.Expectancy = winProb*result.AvgWin - (1-winProb)*result.AvgLoss

	result.SharpeRatio = sharpeRatio(pairReturns(trades), riskFreeRate)
	result.MaxDrawdown, result.MaxDrawdownPercent = maxDrawdown(equityCurve)

	result.Score = scoring.Evaluate(tradeStats(result)).Score
	return result
}

// pairReturns matches each sell with its preceding buy and returns the
// per-trade fractional returns.
func pairReturns(trades []model.Trade) []float64 {
	var returns []float64
	var entry float64
	for _, t := range trades {
		switch t.Side {
		case model.SideBuy:
			entry = t.Price
		case model.SideSell:
			if entry > 0 {
				returns = append(returns, (t.Price-entry)/entry)
				entry = 0
			}
		}
	}
	return returns
}

// sharpeRatio annualizes mean excess return over its standard deviation.
// Zero when there are no returns or no variance.
func sharpeRatio(returns []float64, annualRiskFreeRate float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	dailyRiskFree := annualRiskFreeRate / tradingDaysPerYear

	mean := 0.0
	for _, r := range returns {
		mean += r - dailyRiskFree
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := (r - dailyRiskFree) - mean
		variance += d * d
	}
	variance /= float64(len(returns))
	stdDev := math.Sqrt(variance)
	if stdDev == 0 {
		return 0
	}
	return mean / stdDev * math.Sqrt(tradingDaysPerYear)
}

// maxDrawdown scans the equity curve for the largest peak-to-trough decline,
// returned in currency and as a percent of the peak.
func maxDrawdown(equityCurve []model.EquityPoint) (maxDD, maxDDPercent float64) {
	if len(equityCurve) == 0 {
		return 0, 0
	}
	peak := equityCurve[0].Equity
	for _, p := range equityCurve {
		if p.Equity > peak {
			peak = p.Equity
		}
		dd := peak - p.Equity
		if dd > maxDD {
			maxDD = dd
			maxDDPercent = dd / peak * 100
		}
	}
	return maxDD, maxDDPercent
}
