package trader

import (
	"fmt"
	"math"

	"SwingTrader/internal/scoring"
)

// Allocation bounds in USD. Proven performers earn larger slices, unproven
// and poor tickers are held to the minimum.
const (
	basePositionSize    = 1000.0
	minPositionSize     = 500.0
	maxPositionSize     = 5000.0
	goodSizeMultiplier  = 1.5
	maxPortfolioPercent = 0.10
)

// PositionSize converts a ticker's track record into a share count for the
// next buy. The dollar target scales with performance status, is capped at
// 10% of portfolio value, and is clamped to the min/max bounds.
func PositionSize(perf scoring.Performance, currentPrice, portfolioValue float64) (shares int, dollars float64, reason string) {
	if currentPrice <= 0 {
		return 0, 0, "no price"
	}

	size := basePositionSize
	switch perf.Status {
	case scoring.StatusExcellent:
		size = maxPositionSize
	case scoring.StatusGood:
		size = basePositionSize * goodSizeMultiplier
	default:
		// Unproven and poor both get the floor.
		size = minPositionSize
	}

	if limit := portfolioValue * maxPortfolioPercent; limit > 0 && size > limit {
		size = limit
	}
	size = math.Max(minPositionSize, math.Min(maxPositionSize, size))

	shares = int(math.Floor(size / currentPrice))
	dollars = float64(shares) * currentPrice

	switch perf.Status {
	case scoring.StatusExcellent:
		reason = fmt.Sprintf("Max allocation ($%.0f): excellent performer (score %.0f, %.1f%% win rate)",
			dollars, perf.Score, perf.WinRate)
	case scoring.StatusGood:
		reason = fmt.Sprintf("Above-average allocation ($%.0f): good performer (score %.0f)", dollars, perf.Score)
	case scoring.StatusUnproven:
		reason = fmt.Sprintf("Conservative allocation ($%.0f): unproven (%d trades)", dollars, perf.CompletedTrades)
	default:
		reason = fmt.Sprintf("Minimum allocation ($%.0f): poor performer (score %.0f)", dollars, perf.Score)
	}
	return shares, dollars, reason
}
