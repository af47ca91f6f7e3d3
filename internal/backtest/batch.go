package backtest

import (
	"context"
	"log"
	"sync"

	"SwingTrader/internal/marketdata"
	"SwingTrader/internal/model"
)

// RunBatch backtests many tickers concurrently. Runs are independent: each
// ticker gets its own bar series and accumulator state, so the only bound is
// the worker count (sized to cores and the data source's rate limits). A
// ticker whose fetch fails reports a zero-trade result and the batch
// continues. Results come back in the order of the input tickers.
func RunBatch(ctx context.Context, sim *Simulator, source marketdata.Source, tickers []string, days, concurrency int) []*model.BacktestResult {
	if concurrency <= 0 {
		concurrency = 4
	}

	results := make([]*model.BacktestResult, len(tickers))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, ticker := range tickers {
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				results[i] = zeroResult(ticker)
				return
			}

			bars, err := source.Fetch(ctx, ticker, days)
			if err != nil {
				log.Printf("[WARN] backtest %s: fetch failed: %v", ticker, err)
				results[i] = zeroResult(ticker)
				return
			}

			result, err := sim.Run(ctx, ticker, bars)
			if err != nil {
				log.Printf("[WARN] backtest %s: %v", ticker, err)
				results[i] = zeroResult(ticker)
				return
			}
			results[i] = result
		}(i, ticker)
	}

	wg.Wait()
	return results
}
