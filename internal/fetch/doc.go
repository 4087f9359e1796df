// Package fetch downloads daily OHLCV price history from the market-data
// provider's chart API.
//
// This package contains two main components:
//
// Client: HTTP client for the provider's v8 chart endpoint with request
// rate limiting, bounded retries with exponential backoff, and translation
// of the provider's JSON payload into a price table.
//
// FetchAll: Concurrent fan-out that downloads several tickers with a bounded
// worker pool while preserving the requested ticker order in its results.
//
// Example usage:
//
//	client := fetch.NewClient(cfg.Fetch)
//
//	// Download one ticker
//	frame, err := client.History(ctx, "AAPL", start, end)
//
//	// Download many tickers in parallel
//	results := fetch.FetchAll(ctx, client, tickers, start, end, cfg.Fetch.Concurrency)
//
// A ticker with no rows in the requested range yields an empty price table
// rather than an error; callers decide whether that is fatal.
package fetch
