package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"stocklens/internal/config"
	"stocklens/internal/dataprocessing"
	"stocklens/internal/exporter"
	"stocklens/internal/fetch"
	"stocklens/internal/infrastructure"
	"stocklens/internal/timeseries"
)

// previewRows is how many leading rows of each download are echoed to the
// console.
const previewRows = 5

// ChartRenderer draws the run's charts. *chart.Renderer satisfies it; tests
// substitute lighter implementations.
type ChartRenderer interface {
	RenderTickerChart(series timeseries.Series, outputPath string) error
	RenderCombinedChart(frame *timeseries.Frame, outputPath string) error
}

// Pipeline executes the analysis stages in order for one set of run
// parameters: download, aggregation, statistics, gap filling, reconciliation,
// charts, and the optional workbook report.
type Pipeline struct {
	// Out receives the data previews and statistics tables. Defaults to
	// os.Stdout.
	Out io.Writer

	cfg      *config.Settings
	params   config.RunParams
	logger   *slog.Logger
	provider fetch.Provider
	renderer ChartRenderer
	paths    *config.Paths
	tables   *exporter.TableExporter
	excel    *exporter.ExcelExporter
	resolver *dataprocessing.Resolver
}

// New assembles a pipeline from validated settings and resolved run
// parameters.
func New(cfg *config.Settings, params config.RunParams, logger *slog.Logger, provider fetch.Provider, renderer ChartRenderer) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}
	paths, err := config.GetPaths(cfg.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output paths: %w", err)
	}
	return &Pipeline{
		Out:      os.Stdout,
		cfg:      cfg,
		params:   params,
		logger:   logger,
		provider: provider,
		renderer: renderer,
		paths:    paths,
		tables:   exporter.NewTableExporter(paths),
		excel:    exporter.NewExcelExporter(paths),
		resolver: dataprocessing.NewResolver(logger, ""),
	}, nil
}

// Paths exposes the resolved artifact locations of this pipeline.
func (p *Pipeline) Paths() *config.Paths {
	return p.paths
}

// Run executes all stages in order and returns the run summary. The first
// stage failure aborts the run; the error keeps its stage name and, for
// typed failures, its error classification.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	runID := infrastructure.GetRunID(ctx)
	started := time.Now()

	state := &runState{
		result: newResult(runID, p.params),
	}

	stages := []stage{
		{name: "init-dirs", run: p.stageInitDirs},
		{name: "fetch", run: p.stageFetch},
		{name: "guard", run: p.stageGuard},
		{name: "aggregate", run: p.stageAggregate},
		{name: "stats", run: p.stageStats},
		{name: "fill", run: p.stageFill},
		{name: "reconcile", run: p.stageReconcile},
		{name: "render", run: p.stageRender},
		{name: "report", run: p.stageReport},
	}

	p.logger.InfoContext(ctx, "run_started",
		slog.String("tickers", strings.Join(p.params.Tickers, ",")),
		slog.String("start", p.params.Start.Format(config.DateFormat)),
		slog.String("end", p.params.End.Format(config.DateFormat)),
		slog.String("source", string(p.params.Source)),
		slog.Int("total_stages", len(stages)))

	for i, st := range stages {
		select {
		case <-ctx.Done():
			return state.result, fmt.Errorf("run cancelled before stage %s: %w", st.name, ctx.Err())
		default:
		}

		p.logger.InfoContext(ctx, "executing_stage",
			slog.String("stage", st.name),
			slog.Int("stage_number", i+1),
			slog.Int("total_stages", len(stages)))

		stageStart := time.Now()
		if err := st.run(ctx, state); err != nil {
			p.logger.ErrorContext(ctx, "stage_failed",
				slog.String("stage", st.name),
				slog.Duration("duration", time.Since(stageStart)),
				slog.String("error", err.Error()))
			state.result.Duration = time.Since(started)
			return state.result, fmt.Errorf("stage %s: %w", st.name, err)
		}

		p.logger.InfoContext(ctx, "stage_completed",
			slog.String("stage", st.name),
			slog.Duration("duration", time.Since(stageStart)))
	}

	state.result.Duration = time.Since(started)
	p.logger.InfoContext(ctx, "run_completed",
		slog.Int("artifacts", len(state.result.Artifacts)),
		slog.Duration("duration", state.result.Duration))
	return state.result, nil
}
