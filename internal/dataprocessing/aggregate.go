package dataprocessing

import (
	"stocklens/internal/timeseries"
)

// TickerTable pairs a ticker with one of its price tables. Slices of
// TickerTable keep the requested ticker order through the pipeline.
type TickerTable struct {
	Ticker string
	Table  *timeseries.Frame
}

// Aggregate combines per-ticker closing series into one wide table with one
// column per ticker, in input order. A single series becomes a one-column
// table built directly from it; several are outer-joined by date, leaving
// missing cells where a ticker had no data.
func Aggregate(closes []timeseries.Series) *timeseries.Frame {
	if len(closes) == 1 {
		s := closes[0]
		frame, _ := timeseries.NewFrame(s.Dates(), []timeseries.Column{
			{Name: s.Name(), Kind: timeseries.ColFloat, Floats: s.Values()},
		})
		return frame
	}
	return timeseries.OuterJoin(closes...)
}
