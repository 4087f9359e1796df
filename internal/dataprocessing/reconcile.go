package dataprocessing

import (
	"fmt"

	"stocklens/internal/timeseries"
)

// Reconcile merges cleaned closing prices back into the original price
// tables. For each ticker, only the column the resolver picked is replaced,
// realigned by calendar date against the cleaned table; every other column
// is preserved unchanged. Tickers resolved to a placeholder come back as
// their original table, with no close column invented.
func Reconcile(cleaned *timeseries.Frame, originals []TickerTable, resolutions map[string]Resolution) ([]TickerTable, error) {
	out := make([]TickerTable, 0, len(originals))

	for _, orig := range originals {
		res, ok := resolutions[orig.Ticker]
		if !ok || res.SourceColumn == "" {
			out = append(out, orig)
			continue
		}

		cleanedSeries, ok := cleaned.FloatSeries(orig.Ticker)
		if !ok {
			return nil, fmt.Errorf("cleaned table has no column for ticker %s", orig.Ticker)
		}

		// Dates present in the original but absent from the cleaned table
		// become missing, mirroring an index-aligned column assignment.
		values := make([]float64, orig.Table.Len())
		for i := 0; i < orig.Table.Len(); i++ {
			v, present := cleanedSeries.At(orig.Table.Date(i))
			if !present {
				v = timeseries.Missing()
			}
			values[i] = v
		}

		table, err := orig.Table.WithFloats(res.SourceColumn, values)
		if err != nil {
			return nil, fmt.Errorf("reconcile %s: %w", orig.Ticker, err)
		}
		out = append(out, TickerTable{Ticker: orig.Ticker, Table: table})
	}

	return out, nil
}
