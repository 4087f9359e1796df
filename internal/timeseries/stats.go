package timeseries

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// SummaryStatNames lists the summary rows in output order.
var SummaryStatNames = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Summary holds describe-style statistics for the float columns of a frame.
// Values[r][c] pairs SummaryStatNames[r] with Columns[c]; undefined
// statistics are missing.
type Summary struct {
	Columns []string
	Values  [][]float64
}

// ColumnCount pairs a column name with a count of missing cells.
type ColumnCount struct {
	Column string
	Count  int
}

// Describe computes count, mean, sample standard deviation, min, quartiles
// and max per float column, ignoring missing cells. A column with no present
// values gets count 0 and missing for every other statistic; a single
// present value leaves std undefined.
func Describe(f *Frame) Summary {
	var names []string
	var present [][]float64
	for _, c := range f.cols {
		if c.Kind != ColFloat {
			continue
		}
		names = append(names, c.Name)
		vals := make([]float64, 0, len(c.Floats))
		for _, v := range c.Floats {
			if !math.IsNaN(v) {
				vals = append(vals, v)
			}
		}
		sort.Float64s(vals)
		present = append(present, vals)
	}

	sum := Summary{Columns: names, Values: make([][]float64, len(SummaryStatNames))}
	for i := range sum.Values {
		sum.Values[i] = make([]float64, len(names))
	}
	for ci, vals := range present {
		n := len(vals)
		sum.Values[0][ci] = float64(n)
		if n == 0 {
			for ri := 1; ri < len(SummaryStatNames); ri++ {
				sum.Values[ri][ci] = math.NaN()
			}
			continue
		}
		sum.Values[1][ci] = stat.Mean(vals, nil)
		sum.Values[2][ci] = stat.StdDev(vals, nil)
		sum.Values[3][ci] = vals[0]
		sum.Values[4][ci] = quantileLinear(0.25, vals)
		sum.Values[5][ci] = quantileLinear(0.5, vals)
		sum.Values[6][ci] = quantileLinear(0.75, vals)
		sum.Values[7][ci] = vals[n-1]
	}
	return sum
}

// MissingCounts reports missing cells per float column, in column order.
func MissingCounts(f *Frame) []ColumnCount {
	out := make([]ColumnCount, 0, len(f.cols))
	for _, c := range f.cols {
		if c.Kind != ColFloat {
			continue
		}
		n := 0
		for _, v := range c.Floats {
			if math.IsNaN(v) {
				n++
			}
		}
		out = append(out, ColumnCount{Column: c.Name, Count: n})
	}
	return out
}

// quantileLinear computes the p-quantile of ascending sorted values using
// Hyndman-Fan type 7 linear interpolation between closest ranks.
func quantileLinear(p float64, sorted []float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
