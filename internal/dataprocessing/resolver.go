package dataprocessing

import (
	"context"
	"log/slog"
	"strings"

	"stocklens/internal/timeseries"
)

// Strategy names the rule that located a closing-price column.
type Strategy string

const (
	// StrategyExact matched the configured column name exactly.
	StrategyExact Strategy = "exact"
	// StrategySubstring matched the first numeric column whose name
	// contains the target case-insensitively.
	StrategySubstring Strategy = "substring"
	// StrategyFirstNumeric fell back to the first numeric column.
	StrategyFirstNumeric Strategy = "first_numeric"
	// StrategyPlaceholder found nothing usable; the series is all-missing.
	StrategyPlaceholder Strategy = "placeholder"
)

// Resolution is the outcome of locating a ticker's closing-price column.
// Series is named after the ticker. SourceColumn is empty only for
// placeholder resolutions.
type Resolution struct {
	Series       timeseries.Series
	SourceColumn string
	Strategy     Strategy
}

// Resolver locates the best candidate closing-price column in a price
// table. Provider schema variants name the column differently, so the
// resolver tries an ordered chain of strategies and degrades to an
// all-missing placeholder rather than failing the pipeline for one
// malformed ticker.
type Resolver struct {
	logger *slog.Logger
	target string
}

// NewResolver creates a resolver for the given target column name.
// An empty target defaults to "Close".
func NewResolver(logger *slog.Logger, target string) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	if target == "" {
		target = "Close"
	}
	return &Resolver{logger: logger, target: target}
}

// namedStrategy pairs a strategy name with its column picker, keeping the
// fallback order auditable in one place.
type namedStrategy struct {
	name Strategy
	pick func(table *timeseries.Frame) (string, bool)
}

func (r *Resolver) chain() []namedStrategy {
	return []namedStrategy{
		{StrategyExact, r.exactMatch},
		{StrategySubstring, r.substringMatch},
		{StrategyFirstNumeric, firstNumeric},
	}
}

// Resolve returns the ticker's closing-price series. Strategies only ever
// pick numeric columns; a table without one resolves to a placeholder over
// the table's own date index.
func (r *Resolver) Resolve(ctx context.Context, ticker string, table *timeseries.Frame) Resolution {
	for _, strategy := range r.chain() {
		name, ok := strategy.pick(table)
		if !ok {
			continue
		}
		series, _ := table.FloatSeries(name)

		if strategy.name != StrategyExact {
			r.logger.InfoContext(ctx, "Close column resolved by fallback",
				slog.String("ticker", ticker),
				slog.String("column", name),
				slog.String("strategy", string(strategy.name)))
		}
		return Resolution{
			Series:       series.Renamed(ticker),
			SourceColumn: name,
			Strategy:     strategy.name,
		}
	}

	r.logger.WarnContext(ctx, "No usable close column, using all-missing placeholder",
		slog.String("ticker", ticker),
		slog.Int("columns", table.Width()))
	return Resolution{
		Series:   timeseries.Placeholder(ticker, table.Dates()),
		Strategy: StrategyPlaceholder,
	}
}

// exactMatch picks the column named exactly like the target.
func (r *Resolver) exactMatch(table *timeseries.Frame) (string, bool) {
	for _, col := range table.Columns() {
		if col.Kind == timeseries.ColFloat && col.Name == r.target {
			return col.Name, true
		}
	}
	return "", false
}

// substringMatch picks the first numeric column containing the target
// case-insensitively, e.g. "Adj Close" or "close_price".
func (r *Resolver) substringMatch(table *timeseries.Frame) (string, bool) {
	want := strings.ToLower(r.target)
	for _, col := range table.Columns() {
		if col.Kind == timeseries.ColFloat && strings.Contains(strings.ToLower(col.Name), want) {
			return col.Name, true
		}
	}
	return "", false
}

// firstNumeric picks the leftmost numeric column of any name.
func firstNumeric(table *timeseries.Frame) (string, bool) {
	for _, col := range table.Columns() {
		if col.Kind == timeseries.ColFloat {
			return col.Name, true
		}
	}
	return "", false
}
