// Package exporter provides CSV and workbook export functionality for the
// analysis artifacts.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing functionality with support for headers, streaming,
// and UTF-8 BOM for Excel compatibility.
//
// TableExporter: Handles price-table CSVs (raw and cleaned per-ticker tables,
// the combined close table) plus the summary-statistics and missing-value
// reports.
//
// ExcelExporter: Bundles the run's tables into a single workbook with one
// sheet per table.
//
// Example usage:
//
//	// Create a table exporter
//	tables := exporter.NewTableExporter(paths)
//
//	// Export a price table
//	err := tables.ExportFrame(frame, paths.RawCSV("AAPL"))
//
//	// Export describe-style statistics
//	err = tables.ExportSummary(summary, paths.SummaryStatsCSV)
//
//	// Bundle everything into the workbook report
//	report := exporter.NewExcelExporter(paths)
//	err = report.ExportReport(exporter.ExcelReport{
//		Summary: summary,
//		Missing: missing,
//		Cleaned: cleaned,
//	}, paths.ExcelReport)
package exporter
