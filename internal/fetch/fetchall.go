package fetch

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"stocklens/internal/timeseries"
)

// Result is the outcome of downloading one ticker. Exactly one of Frame
// and Err is set.
type Result struct {
	Ticker string
	Frame  *timeseries.Frame
	Err    error
}

// FetchAll downloads every ticker through provider with at most concurrency
// downloads in flight. Results hold per-ticker outcomes in the same order as
// tickers; one failed download never discards the others.
func FetchAll(ctx context.Context, provider Provider, tickers []string, start, end time.Time, concurrency int) []Result {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]Result, len(tickers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, ticker := range tickers {
		i, ticker := i, ticker // per-iteration copies; required while go.mod targets a pre-1.22 language version
		g.Go(func() error {
			frame, err := provider.History(gctx, ticker, start, end)
			results[i] = Result{Ticker: ticker, Frame: frame, Err: err}
			// Errors stay in the result slot so sibling downloads proceed.
			return nil
		})
	}
	// Workers never return an error.
	_ = g.Wait()

	return results
}
