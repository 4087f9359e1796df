package pipeline

import (
	"context"
	"time"

	"stocklens/internal/config"
	"stocklens/internal/dataprocessing"
	"stocklens/internal/timeseries"
)

// stage is one named phase of a run
type stage struct {
	name string
	run  func(ctx context.Context, state *runState) error
}

// runState carries intermediate tables between stages. Every requested
// ticker keeps a slot in tables, holding an empty table when its download
// failed, so downstream artifacts cover the full ticker list.
type runState struct {
	tables      []dataprocessing.TickerTable
	resolutions map[string]dataprocessing.Resolution
	closes      []timeseries.Series
	aggregated  *timeseries.Frame
	summary     timeseries.Summary
	missing     []timeseries.ColumnCount
	cleaned     *timeseries.Frame
	result      *Result
}

// Result summarizes a completed run for the caller.
type Result struct {
	// RunID tags every log line of the run.
	RunID string
	// Params are the resolved run parameters the pipeline executed with.
	Params config.RunParams
	// RowCounts maps each ticker to its downloaded row count.
	RowCounts map[string]int
	// FetchErrors maps failed tickers to their download error text.
	FetchErrors map[string]string
	// Strategies records how each ticker's close column resolved.
	Strategies map[string]dataprocessing.Strategy
	// Artifacts lists written files in creation order.
	Artifacts []string
	// SkippedPlots lists tickers whose chart was skipped for lack of data.
	SkippedPlots []string
	// Duration is the wall time of the whole run.
	Duration time.Duration
}

// newResult seeds an empty result for a run
func newResult(runID string, params config.RunParams) *Result {
	return &Result{
		RunID:       runID,
		Params:      params,
		RowCounts:   make(map[string]int),
		FetchErrors: make(map[string]string),
		Strategies:  make(map[string]dataprocessing.Strategy),
	}
}
