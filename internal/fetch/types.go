package fetch

import (
	"time"

	"stocklens/internal/timeseries"
)

// Price table column names as the provider reports them.
const (
	ColOpen     = "Open"
	ColHigh     = "High"
	ColLow      = "Low"
	ColClose    = "Close"
	ColAdjClose = "Adj Close"
	ColVolume   = "Volume"
)

// PriceColumns is the column order of every downloaded price table.
var PriceColumns = []string{ColOpen, ColHigh, ColLow, ColClose, ColAdjClose, ColVolume}

// chartResponse mirrors the provider's v8 chart payload. Values inside the
// indicator arrays are pointers because the provider emits JSON null for
// sessions without a quote.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta       chartMeta  `json:"meta"`
	Timestamp  []int64    `json:"timestamp"`
	Indicators indicators `json:"indicators"`
}

type chartMeta struct {
	Currency             string `json:"currency"`
	Symbol               string `json:"symbol"`
	ExchangeTimezoneName string `json:"exchangeTimezoneName"`
}

type indicators struct {
	Quote    []quoteBlock    `json:"quote"`
	AdjClose []adjCloseBlock `json:"adjclose"`
}

type quoteBlock struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

type adjCloseBlock struct {
	AdjClose []*float64 `json:"adjclose"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// frameFromChart converts one chart result into a price table. Bars where
// every indicator is null are dropped; individual nulls become missing cells.
func frameFromChart(result *chartResult) (*timeseries.Frame, error) {
	var quote quoteBlock
	if len(result.Indicators.Quote) > 0 {
		quote = result.Indicators.Quote[0]
	}
	var adj adjCloseBlock
	if len(result.Indicators.AdjClose) > 0 {
		adj = result.Indicators.AdjClose[0]
	}

	// Session timestamps are instants; the calendar date depends on the
	// exchange timezone, not on UTC.
	loc := time.UTC
	if result.Meta.ExchangeTimezoneName != "" {
		if l, err := time.LoadLocation(result.Meta.ExchangeTimezoneName); err == nil {
			loc = l
		}
	}

	n := len(result.Timestamp)
	dates := make([]time.Time, 0, n)
	open := make([]float64, 0, n)
	high := make([]float64, 0, n)
	low := make([]float64, 0, n)
	closes := make([]float64, 0, n)
	adjClose := make([]float64, 0, n)
	volume := make([]float64, 0, n)

	for i, ts := range result.Timestamp {
		o := indicatorValue(quote.Open, i)
		h := indicatorValue(quote.High, i)
		l := indicatorValue(quote.Low, i)
		c := indicatorValue(quote.Close, i)
		a := indicatorValue(adj.AdjClose, i)
		v := indicatorValue(quote.Volume, i)

		if allMissing(o, h, l, c, a, v) {
			continue
		}

		dates = append(dates, sessionDate(ts, loc))
		open = append(open, o)
		high = append(high, h)
		low = append(low, l)
		closes = append(closes, c)
		adjClose = append(adjClose, a)
		volume = append(volume, v)
	}

	return timeseries.NewFrame(dates, []timeseries.Column{
		{Name: ColOpen, Kind: timeseries.ColFloat, Floats: open},
		{Name: ColHigh, Kind: timeseries.ColFloat, Floats: high},
		{Name: ColLow, Kind: timeseries.ColFloat, Floats: low},
		{Name: ColClose, Kind: timeseries.ColFloat, Floats: closes},
		{Name: ColAdjClose, Kind: timeseries.ColFloat, Floats: adjClose},
		{Name: ColVolume, Kind: timeseries.ColFloat, Floats: volume},
	})
}

// EmptyFrame returns a zero-row table that still carries the standard
// columns, so downstream consumers see a consistent shape. The pipeline
// substitutes it for tickers whose download failed outright.
func EmptyFrame() *timeseries.Frame {
	cols := make([]timeseries.Column, len(PriceColumns))
	for i, name := range PriceColumns {
		cols[i] = timeseries.Column{Name: name, Kind: timeseries.ColFloat}
	}
	// Construction of an empty table cannot fail.
	frame, _ := timeseries.NewFrame(nil, cols)
	return frame
}

func indicatorValue(vals []*float64, i int) float64 {
	if i < len(vals) && vals[i] != nil {
		return *vals[i]
	}
	return timeseries.Missing()
}

func allMissing(vals ...float64) bool {
	for _, v := range vals {
		if !timeseries.IsMissing(v) {
			return false
		}
	}
	return true
}

// sessionDate maps a session timestamp to midnight UTC of its trading day
// in the exchange timezone.
func sessionDate(ts int64, loc *time.Location) time.Time {
	y, m, d := time.Unix(ts, 0).In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
