package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"SwingTrader/internal/backtest"
	"SwingTrader/internal/marketdata"
	"SwingTrader/internal/model"
	"SwingTrader/internal/store"
	"SwingTrader/internal/strategy"
)

var (
	flagTickers     []string
	flagDays        int
	flagVariant     string
	flagConcurrency int
	flagSave        bool
	flagDBPath      string
)

func main() {
	log.SetFlags(log.LstdFlags)

	root := &cobra.Command{
		Use:          "backtest",
		Short:        "Backtest the swing-trading strategy over historical daily bars",
		SilenceUsage: true,
	}

	run := &cobra.Command{
		Use:   "run",
		Short: "Run a backtest for one or more tickers",
		RunE:  runBacktest,
	}
	run.Flags().StringSliceVarP(&flagTickers, "tickers", "t", nil, "tickers to backtest (comma separated)")
	run.Flags().IntVarP(&flagDays, "days", "d", 365, "days of history to fetch")
	run.Flags().StringVarP(&flagVariant, "variant", "v", "enhanced", "strategy variant (basic or enhanced)")
	run.Flags().IntVarP(&flagConcurrency, "concurrency", "c", 4, "concurrent backtests")
	run.Flags().BoolVar(&flagSave, "save", false, "persist results to the SQLite store")
	run.Flags().StringVar(&flagDBPath, "db", "data/swingtrader.db", "SQLite path used with --save")
	run.MarkFlagRequired("tickers")

	root.AddCommand(run)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runBacktest(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sim, err := backtest.NewSimulator(backtest.Config{
		Variant: flagVariant,
		Params:  strategy.DefaultParams(),
	})
	if err != nil {
		return err
	}

	source := marketdata.NewYahooSource("")
	log.Printf("[INFO] backtesting %d tickers over %d days (%s, concurrency %d)",
		len(flagTickers), flagDays, flagVariant, flagConcurrency)

	results := backtest.RunBatch(ctx, sim, source, flagTickers, flagDays, flagConcurrency)
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, r := range results {
		printReport(cmd, r)
	}
	printSummary(cmd, results)

	if flagSave {
		st, err := store.NewSQLiteStore(flagDBPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		for _, r := range results {
			if err := st.SaveBacktestResult(r); err != nil {
				return fmt.Errorf("save result %s: %w", r.Ticker, err)
			}
		}
		log.Printf("[INFO] saved %d results to %s", len(results), flagDBPath)
	}
	return nil
}

func printReport(cmd *cobra.Command, r *model.BacktestResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n=== %s ===\n", r.Ticker)
	fmt.Fprintf(out, "Trades:        %d (%dW / %dL)\n", r.TotalTrades, r.Wins, r.Losses)
	fmt.Fprintf(out, "Win rate:      %.1f%%\n", r.WinRate)
	fmt.Fprintf(out, "Total P/L:     $%s\n", humanize.CommafWithDigits(r.TotalProfit, 2))
	fmt.Fprintf(out, "Avg per trade: $%.2f\n", r.AvgProfit)
	fmt.Fprintf(out, "Sharpe:        %.2f\n", r.SharpeRatio)
	fmt.Fprintf(out, "Max drawdown:  $%s (%.1f%%)\n", humanize.CommafWithDigits(r.MaxDrawdown, 2), r.MaxDrawdownPercent)
	fmt.Fprintf(out, "Profit factor: %.2f\n", r.ProfitFactor)
	fmt.Fprintf(out, "Expectancy:    $%.2f\n", r.Expectancy)
	fmt.Fprintf(out, "Score:         %.0f/100\n", r.Score)
	if r.OpenPosition != nil {
		fmt.Fprintf(out, "Open position: %d shares @ $%.2f\n", r.OpenPosition.Quantity, r.OpenPosition.EntryPrice)
	}
}

func printSummary(cmd *cobra.Command, results []*model.BacktestResult) {
	if len(results) < 2 {
		return
	}
	ranked := make([]*model.BacktestResult, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n=== Ranked summary ===\n")
	for i, r := range ranked {
		fmt.Fprintf(out, "%2d. %-6s score %5.1f   %5.1f%% win   $%s\n",
			i+1, r.Ticker, r.Score, r.WinRate, humanize.CommafWithDigits(r.TotalProfit, 0))
	}
}
