package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"stocklens/internal/chart"
	"stocklens/internal/config"
	"stocklens/internal/dataprocessing"
	"stocklens/internal/fetch"
	"stocklens/internal/infrastructure"
	"stocklens/internal/pipeline"
)

const (
	// Version is the release identifier reported at startup.
	Version = "v1.0.0"
	// AppName is the human-readable application name.
	AppName = "stocklens"
)

// Options carries command-line overrides into the application assembly.
// Empty strings mean "not supplied"; boolean flags only ever switch a
// feature on, never off.
type Options struct {
	ConfigFile string
	Tickers    string
	StartDate  string
	EndDate    string
	Auto       bool
	OutputDir  string
	Excel      bool
	LogLevel   string

	// Stdin and Stdout drive the interactive prompt and the console
	// output. Nil values default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
}

// Application wires configuration, logging, the provider client, the chart
// renderer, and the pipeline into one runnable command.
type Application struct {
	Config   *config.Settings
	Params   config.RunParams
	Logger   *slog.Logger
	Pipeline *pipeline.Pipeline

	out io.Writer
}

// NewApplication loads configuration, applies command-line overrides,
// initializes logging, resolves the run parameters, and assembles the
// pipeline. Precedence is flags over environment over config file over
// built-in defaults.
func NewApplication(opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	applyOverrides(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	params, err := config.ResolveRunParams(cfg.Run, config.StdinIsInteractive(), stdin, stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve run parameters: %w", err)
	}
	logger.Info("Run parameters resolved",
		slog.String("tickers", strings.Join(params.Tickers, ",")),
		slog.String("start", params.Start.Format(config.DateFormat)),
		slog.String("end", params.End.Format(config.DateFormat)),
		slog.String("source", string(params.Source)))

	client := fetch.NewClient(cfg.Fetch)
	renderer := chart.NewRenderer(logger, cfg.Chart)

	p, err := pipeline.New(cfg, params, logger, client, renderer)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble pipeline: %w", err)
	}
	p.Out = stdout

	return &Application{
		Config:   cfg,
		Params:   params,
		Logger:   logger,
		Pipeline: p,
		out:      stdout,
	}, nil
}

// applyOverrides lays command-line values over the loaded configuration.
func applyOverrides(cfg *config.Settings, opts Options) {
	if opts.Tickers != "" {
		cfg.Run.Tickers = strings.Split(opts.Tickers, ",")
	}
	if opts.StartDate != "" {
		cfg.Run.StartDate = opts.StartDate
	}
	if opts.EndDate != "" {
		cfg.Run.EndDate = opts.EndDate
	}
	if opts.Auto {
		cfg.Run.Auto = true
	}
	if opts.OutputDir != "" {
		cfg.Output.BaseDir = opts.OutputDir
	}
	if opts.Excel {
		cfg.Output.Excel = true
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
}

// Run executes the pipeline until completion or the first interrupt and
// prints the run summary. A returned error already names the failed stage.
func (a *Application) Run(ctx context.Context) error {
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := a.Pipeline.Run(ctx)
	if err != nil {
		return err
	}

	a.printSummary(result)
	return nil
}

// printSummary echoes what the run produced for people who only watch the
// console, not the log file.
func (a *Application) printSummary(result *pipeline.Result) {
	fmt.Fprintf(a.out, "\n=== Run %s complete in %s ===\n",
		result.RunID, result.Duration.Round(time.Millisecond))
	fmt.Fprintf(a.out, "Tickers: %s (%s)\n",
		strings.Join(result.Params.Tickers, ", "), result.Params.Source)
	fmt.Fprintf(a.out, "Range:   %s to %s\n",
		result.Params.Start.Format(config.DateFormat),
		result.Params.End.Format(config.DateFormat))

	for _, ticker := range result.Params.Tickers {
		line := fmt.Sprintf("  %-8s %4d rows", ticker, result.RowCounts[ticker])
		if strategy, ok := result.Strategies[ticker]; ok && strategy != dataprocessing.StrategyExact {
			line += fmt.Sprintf("  close via %s", strategy)
		}
		if errText, ok := result.FetchErrors[ticker]; ok {
			line += fmt.Sprintf("  download failed: %s", errText)
		}
		fmt.Fprintln(a.out, line)
	}

	if len(result.SkippedPlots) > 0 {
		fmt.Fprintf(a.out, "Charts skipped (no data): %s\n",
			strings.Join(result.SkippedPlots, ", "))
	}

	fmt.Fprintf(a.out, "Artifacts (%d):\n", len(result.Artifacts))
	for _, artifact := range result.Artifacts {
		fmt.Fprintf(a.out, "  %s\n", artifact)
	}
}
