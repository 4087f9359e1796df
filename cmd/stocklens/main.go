package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"stocklens/internal/app"
)

func main() {
	var opts app.Options
	flag.StringVar(&opts.ConfigFile, "config", "", "path to YAML configuration file")
	flag.StringVar(&opts.Tickers, "tickers", "", "comma-separated tickers, e.g. AAPL,TSLA (skips the prompt)")
	flag.StringVar(&opts.StartDate, "start", "", "start date YYYY-MM-DD, inclusive")
	flag.StringVar(&opts.EndDate, "end", "", "end date YYYY-MM-DD, exclusive")
	flag.BoolVar(&opts.Auto, "auto", false, "skip the interactive prompt and use built-in defaults")
	flag.StringVar(&opts.OutputDir, "out", "", "base output directory (defaults to the executable directory)")
	flag.BoolVar(&opts.Excel, "excel", false, "also write the eda_report.xlsx workbook")
	flag.StringVar(&opts.LogLevel, "log-level", "", "log level: debug, info, warn, or error")
	flag.Parse()

	application, err := app.NewApplication(opts)
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		slog.Error("Run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
