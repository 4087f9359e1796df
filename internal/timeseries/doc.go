// Package timeseries provides the tabular engine for daily price data.
//
// This package contains three main components:
//
// Series: a single named column of daily values over a unique, ascending
// calendar-date index, with NaN marking missing values.
//
// Frame: an ordered set of named columns (float or string) over one shared
// date index. Frames back both per-ticker price tables and cross-ticker
// aggregates, and support outer joins, forward/backward gap filling, and
// head views. Frames are treated as immutable: transforming operations
// return new frames.
//
// Describe / MissingCounts: describe-style summary statistics (count, mean,
// sample std, min, quartiles, max) and per-column missing-value counts.
//
// Example usage:
//
//	s := timeseries.NewSeries("AAPL", dates, closes)
//	agg := timeseries.OuterJoin(s, other)
//	clean := agg.ForwardFill().BackwardFill()
//	summary := timeseries.Describe(agg)
package timeseries
