package exporter

import (
	"fmt"

	"stocklens/internal/config"
	"stocklens/internal/timeseries"
)

// TableExporter handles price-table and statistics CSV generation
type TableExporter struct {
	csvWriter *CSVWriter
}

// NewTableExporter creates a new price-table exporter
func NewTableExporter(paths *config.Paths) *TableExporter {
	return &TableExporter{
		csvWriter: NewCSVWriter(paths),
	}
}

// ExportFrame writes a price table to a CSV file, one row per session date.
// The date index becomes a leading "Date" column in ISO format; missing
// numeric cells are written empty.
func (e *TableExporter) ExportFrame(frame *timeseries.Frame, outputPath string) error {
	stream, err := e.csvWriter.CreateStreamWriter(outputPath, frameHeaders(frame))
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	cols := frame.Columns()
	for i := 0; i < frame.Len(); i++ {
		if err := stream.WriteRecord(frameRow(frame, cols, i)); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to close stream: %w", err)
	}
	return nil
}

// ExportSummary writes describe-style statistics to a CSV file, one row per
// statistic with a column per ticker.
func (e *TableExporter) ExportSummary(summary timeseries.Summary, outputPath string) error {
	headers := append([]string{"Stat"}, summary.Columns...)

	records := make([][]string, 0, len(timeseries.SummaryStatNames))
	for ri, stat := range timeseries.SummaryStatNames {
		row := make([]string, 0, len(summary.Columns)+1)
		row = append(row, stat)
		for ci := range summary.Columns {
			row = append(row, formatFloat(summary.Values[ri][ci]))
		}
		records = append(records, row)
	}

	return e.csvWriter.WriteSimpleCSV(outputPath, headers, records)
}

// ExportMissing writes per-ticker missing-cell counts to a CSV file
func (e *TableExporter) ExportMissing(counts []timeseries.ColumnCount, outputPath string) error {
	records := make([][]string, 0, len(counts))
	for _, c := range counts {
		records = append(records, []string{c.Column, formatInt(c.Count)})
	}

	return e.csvWriter.WriteSimpleCSV(outputPath, []string{"Ticker", "missing_count"}, records)
}

// frameHeaders returns the CSV headers for a price table
func frameHeaders(frame *timeseries.Frame) []string {
	return append([]string{"Date"}, frame.ColumnNames()...)
}

// frameRow converts one frame row to a CSV record
func frameRow(frame *timeseries.Frame, cols []timeseries.Column, i int) []string {
	row := make([]string, 0, len(cols)+1)
	row = append(row, frame.Date(i).Format(config.DateFormat))
	for _, col := range cols {
		switch col.Kind {
		case timeseries.ColString:
			row = append(row, col.Strings[i])
		default:
			row = append(row, formatFloat(col.Floats[i]))
		}
	}
	return row
}
