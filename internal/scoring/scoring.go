// Package scoring converts completed-trade sets into 0-100 performance
// scores and statuses, used both for ranking live tickers and for grading
// backtest runs. Two weight presets coexist deliberately: the original
// system never declared one authoritative, so both are kept selectable
// instead of being collapsed.
package scoring

import "math"

// Status grades a ticker's track record.
type Status string

const (
	StatusUnproven  Status = "unproven"
	StatusExcellent Status = "excellent"
	StatusGood      Status = "good"
	StatusPoor      Status = "poor"
)

// Decision thresholds shared by buy-approval and watchlist cleanup.
const (
	minTradesForEvaluation = 3
	excellentScore         = 70
	poorScore              = 30

	// RemoveScore is the watchlist auto-removal floor.
	RemoveScore = 20
	// LoserMinTrades / LoserWinRate flag consistent losers for removal.
	LoserMinTrades = 5
	LoserWinRate   = 25.0
)

// Performance is the scored summary of a completed-trade set.
type Performance struct {
	CompletedTrades int
	Wins            int
	Losses          int
	WinRate         float64
	TotalProfit     float64
	AvgProfit       float64
	Score           float64
	Status          Status
}

// TradeStats is the raw per-ticker input: aggregates of matched round-trips.
type TradeStats struct {
	Wins        int
	Losses      int
	TotalProfit float64

	// Used only by the backtest preset.
	SharpeRatio  float64
	ProfitFactor float64
}

// RankTrades scores realized round-trip profits with the live-ranking
// preset. An empty history scores a neutral 50, unproven: new tickers are
// neither trusted nor condemned.
func RankTrades(profits []float64) Performance {
	if len(profits) == 0 {
		return Performance{Score: 50, Status: StatusUnproven}
	}
	var stats TradeStats
	for _, p := range profits {
		stats.TotalProfit += p
		if p > 0 {
			stats.Wins++
		} else {
			stats.Losses++
		}
	}
	return Rank(stats)
}

// Rank applies the live-ranking preset: win rate 50%, clipped
// profit-per-trade 30%, trade volume 20%.
func Rank(stats TradeStats) Performance {
	perf := baseline(stats)
	profitScore := clamp(perf.AvgProfit/10, -10, 10) * 3
	volumeScore := math.Min(float64(perf.CompletedTrades)/10, 1) * 20
	perf.Score = clamp(perf.WinRate*0.5+profitScore+volumeScore, 0, 100)
	perf.Status = statusFor(perf.CompletedTrades, perf.Score)
	return perf
}

// Evaluate applies the backtest preset: win rate 30%, Sharpe 30%,
// profit factor 20%, trade volume 20%.
func Evaluate(stats TradeStats) Performance {
	perf := baseline(stats)
	sharpeScore := clamp(stats.SharpeRatio*10, 0, 30)
	pfScore := clamp((stats.ProfitFactor-1)*10, 0, 20)
	volumeScore := math.Min(float64(perf.CompletedTrades)/10, 1) * 20
	perf.Score = clamp(perf.WinRate*0.3+sharpeScore+pfScore+volumeScore, 0, 100)
	perf.Status = statusFor(perf.CompletedTrades, perf.Score)
	return perf
}

// ShouldBuy gates a buy signal on the ticker's track record: proven losers
// are skipped, everything else passes.
func ShouldBuy(perf Performance) bool {
	return perf.Status != StatusPoor
}

// ShouldRemove decides watchlist cleanup. Unproven tickers are always kept.
func ShouldRemove(perf Performance) bool {
	if perf.Status == StatusUnproven {
		return false
	}
	if perf.Score < RemoveScore {
		return true
	}
	return perf.CompletedTrades >= LoserMinTrades && perf.WinRate < LoserWinRate
}

func baseline(stats TradeStats) Performance {
	completed := stats.Wins + stats.Losses
	perf := Performance{
		CompletedTrades: completed,
		Wins:            stats.Wins,
		Losses:          stats.Losses,
		TotalProfit:     stats.TotalProfit,
	}
	if completed > 0 {
		perf.WinRate = float64(stats.Wins) / float64(completed) * 100
		perf.AvgProfit = stats.TotalProfit / float64(completed)
	}
	return perf
}

func statusFor(completed int, score float64) Status {
	switch {
	case completed < minTradesForEvaluation:
		return StatusUnproven
	case score >= excellentScore:
		return StatusExcellent
	case score >= poorScore:
		return StatusGood
	default:
		return StatusPoor
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
