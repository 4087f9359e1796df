package exporter

import (
	"math"
	"strconv"
)

// formatFloat formats a float64 value for CSV output. Missing values become
// empty cells so spreadsheet tools show the gap instead of a NaN literal.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}
