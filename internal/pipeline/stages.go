package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"stocklens/internal/dataprocessing"
	apperrors "stocklens/internal/errors"
	"stocklens/internal/exporter"
	"stocklens/internal/fetch"
	"stocklens/internal/timeseries"
)

// stageInitDirs creates the output tree before anything is written.
func (p *Pipeline) stageInitDirs(ctx context.Context, state *runState) error {
	if err := p.paths.EnsureDirectories(); err != nil {
		return apperrors.NewStorageError("failed to prepare output directories", err)
	}
	return nil
}

// stageFetch downloads every ticker and writes its raw price table. A failed
// download is logged and replaced with an empty table so the ticker still
// shows up, all missing, in every later artifact. Only a failed CSV write is
// fatal here.
func (p *Pipeline) stageFetch(ctx context.Context, state *runState) error {
	results := fetch.FetchAll(ctx, p.provider, p.params.Tickers, p.params.Start, p.params.End, p.cfg.Fetch.Concurrency)

	for _, res := range results {
		frame := res.Frame
		switch {
		case res.Err != nil:
			p.logger.WarnContext(ctx, "ticker_fetch_failed",
				slog.String("ticker", res.Ticker),
				slog.String("error", res.Err.Error()))
			state.result.FetchErrors[res.Ticker] = res.Err.Error()
			frame = fetch.EmptyFrame()
		case frame.Len() == 0:
			p.logger.WarnContext(ctx, "ticker_returned_no_rows",
				slog.String("ticker", res.Ticker))
		}

		state.result.RowCounts[res.Ticker] = frame.Len()
		state.tables = append(state.tables, dataprocessing.TickerTable{Ticker: res.Ticker, Table: frame})

		fmt.Fprintf(p.Out, "\n=== %s raw data (first %d rows) ===\n", res.Ticker, previewRows)
		fmt.Fprint(p.Out, dataprocessing.HeadText(frame, previewRows))

		rawPath := p.paths.RawCSV(res.Ticker)
		if err := p.tables.ExportFrame(frame, rawPath); err != nil {
			return apperrors.NewStorageError("failed to write raw prices", err).
				WithContext("ticker", res.Ticker)
		}
		state.result.Artifacts = append(state.result.Artifacts, rawPath)
	}
	return nil
}

// stageGuard stops the run when not a single ticker produced rows.
func (p *Pipeline) stageGuard(ctx context.Context, state *runState) error {
	withRows := 0
	for _, tt := range state.tables {
		if tt.Table.Len() > 0 {
			withRows++
		}
	}
	if withRows == 0 {
		return apperrors.NewNoDataError("no ticker returned any rows").
			WithContext("tickers", strings.Join(p.params.Tickers, ","))
	}
	p.logger.InfoContext(ctx, "tickers_with_data",
		slog.Int("count", withRows),
		slog.Int("requested", len(p.params.Tickers)))
	return nil
}

// stageAggregate resolves each ticker's close series and outer-joins them
// into one table, keeping the requested ticker order.
func (p *Pipeline) stageAggregate(ctx context.Context, state *runState) error {
	state.resolutions = make(map[string]dataprocessing.Resolution, len(state.tables))
	state.closes = make([]timeseries.Series, 0, len(state.tables))

	for _, tt := range state.tables {
		res := p.resolver.Resolve(ctx, tt.Ticker, tt.Table)
		state.resolutions[tt.Ticker] = res
		state.result.Strategies[tt.Ticker] = res.Strategy
		state.closes = append(state.closes, res.Series)
	}

	state.aggregated = dataprocessing.Aggregate(state.closes)
	p.logger.InfoContext(ctx, "closes_aggregated",
		slog.Int("rows", state.aggregated.Len()),
		slog.Int("tickers", state.aggregated.Width()))
	return nil
}

// stageStats prints the summary statistics and missing-value counts and
// writes both as CSV.
func (p *Pipeline) stageStats(ctx context.Context, state *runState) error {
	state.summary = timeseries.Describe(state.aggregated)
	state.missing = timeseries.MissingCounts(state.aggregated)

	fmt.Fprintf(p.Out, "\n=== Summary statistics ===\n")
	fmt.Fprint(p.Out, dataprocessing.SummaryText(state.summary))
	fmt.Fprintf(p.Out, "\n=== Missing values per ticker ===\n")
	fmt.Fprint(p.Out, dataprocessing.MissingText(state.missing))

	if err := p.tables.ExportSummary(state.summary, p.paths.SummaryStatsCSV); err != nil {
		return apperrors.NewStorageError("failed to write summary statistics", err)
	}
	state.result.Artifacts = append(state.result.Artifacts, p.paths.SummaryStatsCSV)

	if err := p.tables.ExportMissing(state.missing, p.paths.MissingValuesCSV); err != nil {
		return apperrors.NewStorageError("failed to write missing-value counts", err)
	}
	state.result.Artifacts = append(state.result.Artifacts, p.paths.MissingValuesCSV)
	return nil
}

// stageFill closes the date gaps left by the outer join, forward fill first
// and backward fill for any leading gap, and writes the cleaned table.
func (p *Pipeline) stageFill(ctx context.Context, state *runState) error {
	state.cleaned = state.aggregated.ForwardFill().BackwardFill()

	filled := 0
	for _, c := range timeseries.MissingCounts(state.cleaned) {
		filled -= c.Count
	}
	for _, c := range state.missing {
		filled += c.Count
	}
	p.logger.InfoContext(ctx, "gaps_filled",
		slog.Int("filled_cells", filled))

	if err := p.tables.ExportFrame(state.cleaned, p.paths.CleanedClosesCSV); err != nil {
		return apperrors.NewStorageError("failed to write cleaned closes", err)
	}
	state.result.Artifacts = append(state.result.Artifacts, p.paths.CleanedClosesCSV)
	return nil
}

// stageReconcile pushes the cleaned closes back into each ticker's original
// table and writes the per-ticker cleaned CSVs.
func (p *Pipeline) stageReconcile(ctx context.Context, state *runState) error {
	reconciled, err := dataprocessing.Reconcile(state.cleaned, state.tables, state.resolutions)
	if err != nil {
		return err
	}

	for _, rec := range reconciled {
		path := p.paths.CleanedCSV(rec.Ticker)
		if err := p.tables.ExportFrame(rec.Table, path); err != nil {
			return apperrors.NewStorageError("failed to write cleaned prices", err).
				WithContext("ticker", rec.Ticker)
		}
		state.result.Artifacts = append(state.result.Artifacts, path)
	}
	return nil
}

// stageRender draws one chart per ticker plus the combined comparison chart.
// Tickers without a single close are skipped with a warning. Every chart is
// attempted; the first failure is reported after the rest have run.
func (p *Pipeline) stageRender(ctx context.Context, state *runState) error {
	var firstErr error

	for _, tt := range state.tables {
		res := state.resolutions[tt.Ticker]
		if !res.Series.HasData() {
			p.logger.WarnContext(ctx, "plot_skipped_no_data",
				slog.String("ticker", tt.Ticker))
			state.result.SkippedPlots = append(state.result.SkippedPlots, tt.Ticker)
			continue
		}

		path := p.paths.TickerChartPNG(tt.Ticker)
		if err := p.renderer.RenderTickerChart(res.Series, path); err != nil {
			p.logger.ErrorContext(ctx, "plot_failed",
				slog.String("ticker", tt.Ticker),
				slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = apperrors.NewPlottingError("failed to render ticker chart", err).
					WithContext("ticker", tt.Ticker)
			}
			continue
		}
		state.result.Artifacts = append(state.result.Artifacts, path)
	}

	if err := p.renderer.RenderCombinedChart(state.cleaned, p.paths.CombinedChartPNG); err != nil {
		p.logger.ErrorContext(ctx, "plot_failed",
			slog.String("chart", "combined"),
			slog.String("error", err.Error()))
		if firstErr == nil {
			firstErr = apperrors.NewPlottingError("failed to render combined chart", err)
		}
	} else {
		state.result.Artifacts = append(state.result.Artifacts, p.paths.CombinedChartPNG)
	}

	return firstErr
}

// stageReport writes the optional workbook report when output.excel is set.
func (p *Pipeline) stageReport(ctx context.Context, state *runState) error {
	if !p.cfg.Output.Excel {
		p.logger.DebugContext(ctx, "workbook_report_disabled")
		return nil
	}

	report := exporter.ExcelReport{
		Summary: state.summary,
		Missing: state.missing,
		Cleaned: state.cleaned,
	}
	if err := p.excel.ExportReport(report, p.paths.ExcelReport); err != nil {
		return apperrors.NewStorageError("failed to write workbook report", err)
	}
	state.result.Artifacts = append(state.result.Artifacts, p.paths.ExcelReport)
	return nil
}
