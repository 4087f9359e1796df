package timeseries

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// ColumnKind discriminates the storage type of a frame column.
type ColumnKind int

const (
	// ColFloat columns hold numeric values with NaN as the missing marker.
	ColFloat ColumnKind = iota
	// ColString columns carry provider extras verbatim; "" marks missing.
	ColString
)

// Column is one named column of a Frame. The slice matching Kind is
// populated and its length equals the frame's row count. Callers must treat
// returned columns as read-only.
type Column struct {
	Name    string
	Kind    ColumnKind
	Floats  []float64
	Strings []string
}

func (c Column) size() int {
	if c.Kind == ColString {
		return len(c.Strings)
	}
	return len(c.Floats)
}

// Frame is an ordered set of named columns over a shared calendar-date
// index. Frames are treated as immutable: transforming operations return
// new frames, sharing storage with the receiver where rows are unchanged.
type Frame struct {
	dates []time.Time
	cols  []Column
}

// NewFrame builds a frame from row dates and columns. Every column must have
// exactly one value per date. Dates are normalized to midnight UTC and rows
// are sorted ascending; a duplicated date keeps the row seen last in input
// order.
func NewFrame(dates []time.Time, cols []Column) (*Frame, error) {
	for _, c := range cols {
		if c.size() != len(dates) {
			return nil, fmt.Errorf("column %q has %d values for %d dates", c.Name, c.size(), len(dates))
		}
	}

	norm := make([]time.Time, len(dates))
	perm := make([]int, len(dates))
	for i, d := range dates {
		norm[i] = NormalizeDate(d)
		perm[i] = i
	}
	sort.SliceStable(perm, func(i, j int) bool { return norm[perm[i]].Before(norm[perm[j]]) })

	// Stable sort keeps input order among equal dates, so skipping any row
	// whose successor shares its date leaves the last row of each run.
	order := make([]int, 0, len(perm))
	for k, idx := range perm {
		if k+1 < len(perm) && norm[perm[k+1]].Equal(norm[idx]) {
			continue
		}
		order = append(order, idx)
	}

	outDates := make([]time.Time, len(order))
	for i, idx := range order {
		outDates[i] = norm[idx]
	}
	outCols := make([]Column, len(cols))
	for ci, c := range cols {
		nc := Column{Name: c.Name, Kind: c.Kind}
		if c.Kind == ColString {
			vals := make([]string, len(order))
			for i, idx := range order {
				vals[i] = c.Strings[idx]
			}
			nc.Strings = vals
		} else {
			vals := make([]float64, len(order))
			for i, idx := range order {
				vals[i] = c.Floats[idx]
			}
			nc.Floats = vals
		}
		outCols[ci] = nc
	}
	return &Frame{dates: outDates, cols: outCols}, nil
}

// OuterJoin combines series into one frame: the row set is the sorted union
// of all input dates and each series becomes one float column, in argument
// order. Cells where a series lacks a date are missing.
func OuterJoin(series ...Series) *Frame {
	seen := make(map[int64]time.Time)
	for _, s := range series {
		for _, d := range s.dates {
			seen[d.Unix()] = d
		}
	}
	keys := make([]int64, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	dates := make([]time.Time, len(keys))
	for i, k := range keys {
		dates[i] = seen[k]
	}
	cols := make([]Column, len(series))
	for si, s := range series {
		vals := make([]float64, len(dates))
		for i, d := range dates {
			v, ok := s.At(d)
			if !ok {
				v = math.NaN()
			}
			vals[i] = v
		}
		cols[si] = Column{Name: s.name, Kind: ColFloat, Floats: vals}
	}
	return &Frame{dates: dates, cols: cols}
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.dates)
}

// Width returns the number of columns.
func (f *Frame) Width() int {
	return len(f.cols)
}

// Dates returns a copy of the date index.
func (f *Frame) Dates() []time.Time {
	out := make([]time.Time, len(f.dates))
	copy(out, f.dates)
	return out
}

// Date returns the i-th index date.
func (f *Frame) Date(i int) time.Time {
	return f.dates[i]
}

// ColumnNames returns the column names in column order.
func (f *Frame) ColumnNames() []string {
	out := make([]string, len(f.cols))
	for i, c := range f.cols {
		out[i] = c.Name
	}
	return out
}

// Columns returns the columns in order. The column storage is shared with
// the frame and must not be mutated.
func (f *Frame) Columns() []Column {
	out := make([]Column, len(f.cols))
	copy(out, f.cols)
	return out
}

// Column looks up a column by name.
func (f *Frame) Column(name string) (Column, bool) {
	for _, c := range f.cols {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// FloatSeries extracts a float column as a Series over the frame's dates.
func (f *Frame) FloatSeries(name string) (Series, bool) {
	c, ok := f.Column(name)
	if !ok || c.Kind != ColFloat {
		return Series{}, false
	}
	return Series{name: name, dates: f.dates, vals: c.Floats}, true
}

// Head returns the first n rows, or the whole frame when it has fewer. The
// returned frame shares storage with the receiver.
func (f *Frame) Head(n int) *Frame {
	if n >= len(f.dates) {
		return f
	}
	if n < 0 {
		n = 0
	}
	cols := make([]Column, len(f.cols))
	for i, c := range f.cols {
		nc := Column{Name: c.Name, Kind: c.Kind}
		if c.Kind == ColString {
			nc.Strings = c.Strings[:n]
		} else {
			nc.Floats = c.Floats[:n]
		}
		cols[i] = nc
	}
	return &Frame{dates: f.dates[:n], cols: cols}
}

// ForwardFill returns a copy where each missing float cell takes the most
// recent earlier value in its column. A column with no present values stays
// entirely missing. String columns are copied unchanged.
func (f *Frame) ForwardFill() *Frame {
	out := f.clone()
	for ci := range out.cols {
		c := &out.cols[ci]
		if c.Kind != ColFloat {
			continue
		}
		last := math.NaN()
		for i, v := range c.Floats {
			if math.IsNaN(v) {
				c.Floats[i] = last
				continue
			}
			last = v
		}
	}
	return out
}

// BackwardFill returns a copy where each missing float cell takes the
// nearest later value in its column. Combined with ForwardFill first, only
// leading gaps remain for it to fill.
func (f *Frame) BackwardFill() *Frame {
	out := f.clone()
	for ci := range out.cols {
		c := &out.cols[ci]
		if c.Kind != ColFloat {
			continue
		}
		next := math.NaN()
		for i := len(c.Floats) - 1; i >= 0; i-- {
			if math.IsNaN(c.Floats[i]) {
				c.Floats[i] = next
				continue
			}
			next = c.Floats[i]
		}
	}
	return out
}

// WithFloats returns a copy of the frame with the named float column's
// values replaced. Untouched columns share storage with the receiver.
func (f *Frame) WithFloats(name string, values []float64) (*Frame, error) {
	if len(values) != len(f.dates) {
		return nil, fmt.Errorf("column %q replacement has %d values for %d dates", name, len(values), len(f.dates))
	}
	cols := make([]Column, len(f.cols))
	copy(cols, f.cols)
	for i, c := range cols {
		if c.Name == name && c.Kind == ColFloat {
			vals := make([]float64, len(values))
			copy(vals, values)
			cols[i] = Column{Name: c.Name, Kind: ColFloat, Floats: vals}
			return &Frame{dates: f.dates, cols: cols}, nil
		}
	}
	return nil, fmt.Errorf("frame has no float column %q", name)
}

func (f *Frame) clone() *Frame {
	cols := make([]Column, len(f.cols))
	for i, c := range f.cols {
		nc := Column{Name: c.Name, Kind: c.Kind}
		if c.Kind == ColString {
			nc.Strings = append([]string(nil), c.Strings...)
		} else {
			nc.Floats = append([]float64(nil), c.Floats...)
		}
		cols[i] = nc
	}
	return &Frame{dates: f.dates, cols: cols}
}
