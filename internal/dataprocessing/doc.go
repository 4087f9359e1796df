// Package dataprocessing turns raw per-ticker price tables into the
// cross-ticker closing-price artifacts of a run.
//
// # Architecture
//
// The package is organized into four main components:
//
// 1. Resolver: Locates the closing-price column in a table with uncertain
// column naming, via an ordered chain of strategies
// 2. Aggregate: Outer-joins per-ticker closing series into one wide table
// 3. Reconcile: Writes cleaned closing prices back into the original tables
// 4. Preview: Console rendering of table heads, summary statistics, and
// missing-value counts
//
// # Usage
//
// Resolving and aggregating closes:
//
//	resolver := dataprocessing.NewResolver(logger, "Close")
//	res := resolver.Resolve(ctx, "AAPL", table)
//	wide := dataprocessing.Aggregate([]timeseries.Series{res.Series})
//
// Reconciling cleaned values:
//
//	cleanedTables := dataprocessing.Reconcile(cleaned, originals, resolutions)
//
// # Data Flow
//
// The typical data flow through this package:
//
//	PriceTables → Resolver → ClosePriceSeries → Aggregate → wide table
//	→ (fill, stats in timeseries) → Reconcile → cleaned PriceTables
//
// Resolution never fails: a table without any usable numeric column yields
// an all-missing placeholder series, so one malformed ticker degrades data
// quality instead of aborting the run.
package dataprocessing
