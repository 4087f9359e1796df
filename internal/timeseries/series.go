package timeseries

import (
	"math"
	"sort"
	"time"
)

// Missing returns the marker stored for absent values.
func Missing() float64 {
	return math.NaN()
}

// IsMissing reports whether v marks an absent value. NaN never compares equal
// to itself, so checks must go through this helper rather than ==.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// NormalizeDate truncates t to midnight UTC, the canonical form for every
// date index in this package. Provider timestamps carry session times in
// exchange-local zones; the UTC calendar date is the trading date.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Series is a single named column of daily values. After construction the
// date index is unique and ascending, and missing values are NaN.
type Series struct {
	name  string
	dates []time.Time
	vals  []float64
}

// NewSeries builds a series from parallel date/value slices. Input order is
// not trusted: dates are normalized to midnight UTC and sorted ascending,
// and a duplicated date keeps the value seen last in input order.
// Panics if the slices have different lengths.
func NewSeries(name string, dates []time.Time, values []float64) Series {
	if len(dates) != len(values) {
		panic("timeseries: dates and values length mismatch")
	}
	type row struct {
		date time.Time
		val  float64
	}
	rows := make([]row, len(dates))
	for i, d := range dates {
		rows[i] = row{date: NormalizeDate(d), val: values[i]}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].date.Before(rows[j].date) })

	outDates := make([]time.Time, 0, len(rows))
	outVals := make([]float64, 0, len(rows))
	for _, r := range rows {
		if n := len(outDates); n > 0 && outDates[n-1].Equal(r.date) {
			outVals[n-1] = r.val
			continue
		}
		outDates = append(outDates, r.date)
		outVals = append(outVals, r.val)
	}
	return Series{name: name, dates: outDates, vals: outVals}
}

// Placeholder returns an all-missing series over the given dates. It is the
// degenerate result for tickers whose tables yield no usable price column.
func Placeholder(name string, dates []time.Time) Series {
	vals := make([]float64, len(dates))
	for i := range vals {
		vals[i] = math.NaN()
	}
	return NewSeries(name, dates, vals)
}

// Name returns the series name.
func (s Series) Name() string {
	return s.name
}

// Renamed returns the series under a different name, sharing the same data.
func (s Series) Renamed(name string) Series {
	return Series{name: name, dates: s.dates, vals: s.vals}
}

// Len returns the number of rows.
func (s Series) Len() int {
	return len(s.dates)
}

// Date returns the i-th index date.
func (s Series) Date(i int) time.Time {
	return s.dates[i]
}

// Value returns the i-th value, which may be missing.
func (s Series) Value(i int) float64 {
	return s.vals[i]
}

// Dates returns a copy of the date index.
func (s Series) Dates() []time.Time {
	out := make([]time.Time, len(s.dates))
	copy(out, s.dates)
	return out
}

// Values returns a copy of the values.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.vals))
	copy(out, s.vals)
	return out
}

// At looks up the value for a calendar date. The second return is false when
// the date is not part of the index; a present date may still carry a
// missing value.
func (s Series) At(date time.Time) (float64, bool) {
	want := NormalizeDate(date)
	i := sort.Search(len(s.dates), func(j int) bool { return !s.dates[j].Before(want) })
	if i < len(s.dates) && s.dates[i].Equal(want) {
		return s.vals[i], true
	}
	return math.NaN(), false
}

// NonMissing counts the present values.
func (s Series) NonMissing() int {
	n := 0
	for _, v := range s.vals {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// HasData reports whether at least one value is present.
func (s Series) HasData() bool {
	return s.NonMissing() > 0
}
