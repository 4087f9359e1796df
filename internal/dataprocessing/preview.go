package dataprocessing

import (
	"bytes"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"stocklens/internal/config"
	"stocklens/internal/timeseries"
)

// HeadText renders the first n rows of a table for console output.
func HeadText(frame *timeseries.Frame, n int) string {
	if frame.Len() == 0 {
		return "(no rows)\n"
	}

	var b bytes.Buffer
	table := newTextTable(&b, append([]string{"Date"}, frame.ColumnNames()...))

	head := frame.Head(n)
	cols := head.Columns()
	for i := 0; i < head.Len(); i++ {
		row := make([]string, 0, len(cols)+1)
		row = append(row, head.Date(i).Format(config.DateFormat))
		for _, col := range cols {
			if col.Kind == timeseries.ColString {
				row = append(row, col.Strings[i])
				continue
			}
			row = append(row, formatCell(col.Floats[i], -1))
		}
		table.Append(row)
	}
	table.Render()
	return b.String()
}

// SummaryText renders descriptive statistics, one row per statistic and one
// column per ticker.
func SummaryText(summary timeseries.Summary) string {
	var b bytes.Buffer
	table := newTextTable(&b, append([]string{"Stat"}, summary.Columns...))

	for i, stat := range timeseries.SummaryStatNames {
		row := make([]string, 0, len(summary.Columns)+1)
		row = append(row, stat)
		for j := range summary.Columns {
			row = append(row, formatCell(summary.Values[i][j], 4))
		}
		table.Append(row)
	}
	table.Render()
	return b.String()
}

// MissingText renders per-ticker missing-value counts.
func MissingText(counts []timeseries.ColumnCount) string {
	var b bytes.Buffer
	table := newTextTable(&b, []string{"Ticker", "missing_count"})

	for _, c := range counts {
		table.Append([]string{c.Column, strconv.Itoa(c.Count)})
	}
	table.Render()
	return b.String()
}

func newTextTable(b *bytes.Buffer, heads []string) *tablewriter.Table {
	table := tablewriter.NewWriter(b)
	table.SetHeader(heads)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	return table
}

// formatCell renders one numeric cell. Precision -1 prints the shortest
// round-trip form; missing values print as NaN like the tabular engines do.
func formatCell(v float64, prec int) string {
	if timeseries.IsMissing(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}
