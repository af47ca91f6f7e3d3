package notifier

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"SwingTrader/internal/model"
)

// FormatTradeExecution formats an executed order into a Telegram message.
func FormatTradeExecution(trade *model.Trade, reason string) string {
	var b strings.Builder

	emoji := "🟢"
	title := "BUY"
	if trade.Side == model.SideSell {
		emoji = "🔴"
		title = "SELL"
	}
	b.WriteString(fmt.Sprintf("%s <b>%s %s</b>\n\n", emoji, title, trade.Ticker))
	b.WriteString(fmt.Sprintf("Price: $%s\n", humanize.CommafWithDigits(trade.Price, 2)))
	b.WriteString(fmt.Sprintf("Quantity: %d\n", trade.Quantity))
	b.WriteString(fmt.Sprintf("Value: $%s\n", humanize.CommafWithDigits(trade.Price*float64(trade.Quantity), 2)))
	if trade.Side == model.SideSell {
		sign := "+"
		if trade.Profit < 0 {
			sign = "-"
		}
		b.WriteString(fmt.Sprintf("P/L: %s$%s\n", sign, humanize.CommafWithDigits(abs(trade.Profit), 2)))
	}
	if reason != "" {
		b.WriteString(fmt.Sprintf("\n%s\n", reason))
	}
	return b.String()
}

// FormatBacktestReport formats a single ticker's backtest result.
func FormatBacktestReport(result *model.BacktestResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Backtest: %s</b>\n\n", result.Ticker))
	b.WriteString(fmt.Sprintf("Trades: %d (%dW / %dL)\n", result.TotalTrades, result.Wins, result.Losses))
	b.WriteString(fmt.Sprintf("Win rate: %.1f%%\n", result.WinRate))
	b.WriteString(fmt.Sprintf("Total P/L: $%s\n", humanize.CommafWithDigits(result.TotalProfit, 2)))
	b.WriteString(fmt.Sprintf("Sharpe: %.2f | Max DD: %.1f%%\n", result.SharpeRatio, result.MaxDrawdownPercent))
	b.WriteString(fmt.Sprintf("Profit factor: %.2f | Expectancy: $%.2f\n", result.ProfitFactor, result.Expectancy))
	b.WriteString(fmt.Sprintf("Score: %.0f/100\n", result.Score))
	if result.OpenPosition != nil {
		b.WriteString(fmt.Sprintf("\nOpen position: %d shares @ $%.2f\n",
			result.OpenPosition.Quantity, result.OpenPosition.EntryPrice))
	}
	return b.String()
}

// FormatBacktestSummary ranks a batch of results by score, best first.
func FormatBacktestSummary(results []*model.BacktestResult) string {
	ranked := make([]*model.BacktestResult, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🏁 <b>Backtest summary</b> | %s\n\n", time.Now().Format("2006-01-02")))
	for i, r := range ranked {
		b.WriteString(fmt.Sprintf("%d. %s: score %.0f, %.1f%% win, $%s\n",
			i+1, r.Ticker, r.Score, r.WinRate, humanize.CommafWithDigits(r.TotalProfit, 0)))
	}
	return b.String()
}

// FormatWatchlistChange reports an automatic watchlist change.
func FormatWatchlistChange(ticker, action, reason string) string {
	return fmt.Sprintf("🗂 <b>Watchlist %s: %s</b>\n\n%s\n", action, ticker, reason)
}

// FormatDailySnapshot formats the end-of-day account snapshot.
func FormatDailySnapshot(snap *model.AccountSnapshot) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 <b>Daily snapshot</b> | %s\n\n", snap.TakenAt.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Equity: $%s\n", humanize.CommafWithDigits(snap.Equity, 2)))
	b.WriteString(fmt.Sprintf("Cash: $%s\n", humanize.CommafWithDigits(snap.Cash, 2)))
	b.WriteString(fmt.Sprintf("Positions: $%s\n", humanize.CommafWithDigits(snap.PortfolioValue, 2)))
	return b.String()
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
