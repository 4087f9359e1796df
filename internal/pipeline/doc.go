// Package pipeline runs the full analysis for one set of run parameters:
// concurrent downloads, close-column resolution, cross-ticker aggregation,
// summary statistics, gap filling, per-ticker reconciliation, chart
// rendering, and the optional workbook report.
//
// Stages execute in a fixed order under a shared run ID. A ticker whose
// download fails stays in the run as an empty table, so it appears as an
// all-missing column in every aggregate artifact instead of silently
// disappearing. The run only aborts early when an artifact cannot be
// written or when no ticker produced data at all.
package pipeline
