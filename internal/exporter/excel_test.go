package exporter

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"stocklens/internal/timeseries"
)

func TestExcelExporter_ExportReport(t *testing.T) {
	writer, tempDir, cleanup := setupTestEnv(t)
	defer cleanup()

	frame, err := timeseries.NewFrame(
		[]time.Time{day(3), day(4), day(5)},
		[]timeseries.Column{
			{Name: "AAPL", Kind: timeseries.ColFloat, Floats: []float64{125.07, 126.36, 125.02}},
			{Name: "TSLA", Kind: timeseries.ColFloat, Floats: []float64{108.1, math.NaN(), 110.0}},
		})
	require.NoError(t, err)

	report := ExcelReport{
		Summary: timeseries.Describe(frame),
		Missing: timeseries.MissingCounts(frame),
		Cleaned: frame,
	}

	exporter := NewExcelExporter(writer.paths)
	outputPath := filepath.Join(tempDir, "data", "eda_report.xlsx")
	require.NoError(t, exporter.ExportReport(report, outputPath))

	f, err := excelize.OpenFile(outputPath)
	require.NoError(t, err)
	defer f.Close()

	// The default sheet is gone; ours remain in creation order.
	assert.Equal(t, []string{SheetSummary, SheetMissing, SheetCleaned}, f.GetSheetList())

	cell := func(sheet, axis string) string {
		value, err := f.GetCellValue(sheet, axis)
		require.NoError(t, err)
		return value
	}

	assert.Equal(t, "Stat", cell(SheetSummary, "A1"))
	assert.Equal(t, "AAPL", cell(SheetSummary, "B1"))
	assert.Equal(t, "TSLA", cell(SheetSummary, "C1"))
	assert.Equal(t, "count", cell(SheetSummary, "A2"))
	assert.Equal(t, "3", cell(SheetSummary, "B2"))
	assert.Equal(t, "2", cell(SheetSummary, "C2"))
	assert.Equal(t, "std", cell(SheetSummary, "A4"))
	assert.NotEmpty(t, cell(SheetSummary, "B4"))

	assert.Equal(t, "Ticker", cell(SheetMissing, "A1"))
	assert.Equal(t, "missing_count", cell(SheetMissing, "B1"))
	assert.Equal(t, "AAPL", cell(SheetMissing, "A2"))
	assert.Equal(t, "0", cell(SheetMissing, "B2"))
	assert.Equal(t, "TSLA", cell(SheetMissing, "A3"))
	assert.Equal(t, "1", cell(SheetMissing, "B3"))

	assert.Equal(t, "Date", cell(SheetCleaned, "A1"))
	assert.Equal(t, "AAPL", cell(SheetCleaned, "B1"))
	assert.Equal(t, "2023-01-03", cell(SheetCleaned, "A2"))
	assert.Equal(t, "125.07", cell(SheetCleaned, "B2"))
	// The missing TSLA close stays blank instead of a NaN literal.
	assert.Equal(t, "", cell(SheetCleaned, "C3"))
	assert.Equal(t, "110", cell(SheetCleaned, "C4"))
}

func TestExcelExporter_ExportReport_NoData(t *testing.T) {
	writer, tempDir, cleanup := setupTestEnv(t)
	defer cleanup()

	frame, err := timeseries.NewFrame(nil, nil)
	require.NoError(t, err)

	report := ExcelReport{
		Summary: timeseries.Describe(frame),
		Cleaned: frame,
	}

	exporter := NewExcelExporter(writer.paths)
	outputPath := filepath.Join(tempDir, "data", "empty_report.xlsx")
	require.NoError(t, exporter.ExportReport(report, outputPath))

	f, err := excelize.OpenFile(outputPath)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetMissing, SheetCleaned}, f.GetSheetList())
	assert.Equal(t, "Stat", cellValue(t, f, SheetSummary, "A1"))
	assert.Equal(t, "Ticker", cellValue(t, f, SheetMissing, "A1"))
}

// cellValue reads one cell, failing the test on error
func cellValue(t *testing.T, f *excelize.File, sheet, axis string) string {
	t.Helper()

	value, err := f.GetCellValue(sheet, axis)
	require.NoError(t, err)
	return value
}
