package exporter

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"stocklens/internal/config"
	"stocklens/internal/timeseries"
)

// Workbook sheet names for the analysis report.
const (
	SheetSummary = "Summary"
	SheetMissing = "Missing Values"
	SheetCleaned = "Cleaned Closes"
)

// ExcelExporter handles workbook report generation
type ExcelExporter struct {
	paths *config.Paths
}

// NewExcelExporter creates a new workbook report exporter
func NewExcelExporter(paths *config.Paths) *ExcelExporter {
	return &ExcelExporter{paths: paths}
}

// ExcelReport bundles the tables that go into the workbook.
type ExcelReport struct {
	Summary timeseries.Summary
	Missing []timeseries.ColumnCount
	Cleaned *timeseries.Frame
}

// ExportReport writes summary statistics, missing-value counts and the
// cleaned close table into a single workbook with one sheet per table.
func (e *ExcelExporter) ExportReport(report ExcelReport, outputPath string) error {
	fullPath := outputPath
	if !filepath.IsAbs(fullPath) {
		fullPath = e.paths.Resolve(fullPath)
	}

	slog.Info("Writing workbook report",
		slog.String("full_path", fullPath),
		slog.Int("sheet_count", 3))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	summaryIndex, err := f.NewSheet(SheetSummary)
	if err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetSummary, err)
	}
	if err := writeSummarySheet(f, report.Summary); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetMissing); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetMissing, err)
	}
	if err := writeMissingSheet(f, report.Missing); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetCleaned); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetCleaned, err)
	}
	if err := writeFrameSheet(f, SheetCleaned, report.Cleaned); err != nil {
		return err
	}

	// Drop the default sheet after ours exist; a workbook must always keep
	// at least one visible sheet.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(summaryIndex)

	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeSummarySheet fills the Summary sheet with one row per statistic
func writeSummarySheet(f *excelize.File, summary timeseries.Summary) error {
	if err := setCell(f, SheetSummary, 1, 1, "Stat"); err != nil {
		return err
	}
	for ci, name := range summary.Columns {
		if err := setCell(f, SheetSummary, ci+2, 1, name); err != nil {
			return err
		}
	}

	for ri, stat := range timeseries.SummaryStatNames {
		if err := setCell(f, SheetSummary, 1, ri+2, stat); err != nil {
			return err
		}
		for ci := range summary.Columns {
			v := summary.Values[ri][ci]
			if math.IsNaN(v) {
				continue
			}
			if err := setCell(f, SheetSummary, ci+2, ri+2, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeMissingSheet fills the Missing Values sheet with one row per ticker
func writeMissingSheet(f *excelize.File, counts []timeseries.ColumnCount) error {
	if err := setCell(f, SheetMissing, 1, 1, "Ticker"); err != nil {
		return err
	}
	if err := setCell(f, SheetMissing, 2, 1, "missing_count"); err != nil {
		return err
	}

	for ri, c := range counts {
		if err := setCell(f, SheetMissing, 1, ri+2, c.Column); err != nil {
			return err
		}
		if err := setCell(f, SheetMissing, 2, ri+2, c.Count); err != nil {
			return err
		}
	}
	return nil
}

// writeFrameSheet fills a sheet with a price table, dates in the first column
func writeFrameSheet(f *excelize.File, sheet string, frame *timeseries.Frame) error {
	if err := setCell(f, sheet, 1, 1, "Date"); err != nil {
		return err
	}
	cols := frame.Columns()
	for ci, col := range cols {
		if err := setCell(f, sheet, ci+2, 1, col.Name); err != nil {
			return err
		}
	}

	for i := 0; i < frame.Len(); i++ {
		if err := setCell(f, sheet, 1, i+2, frame.Date(i).Format(config.DateFormat)); err != nil {
			return err
		}
		for ci, col := range cols {
			switch col.Kind {
			case timeseries.ColString:
				if col.Strings[i] == "" {
					continue
				}
				if err := setCell(f, sheet, ci+2, i+2, col.Strings[i]); err != nil {
					return err
				}
			default:
				if math.IsNaN(col.Floats[i]) {
					continue
				}
				if err := setCell(f, sheet, ci+2, i+2, col.Floats[i]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// setCell writes a single cell addressed by column and row coordinates
func setCell(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("failed to name cell (%d,%d): %w", col, row, err)
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s!%s: %w", sheet, cell, err)
	}
	return nil
}
