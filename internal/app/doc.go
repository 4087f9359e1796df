// Package app provides application initialization and lifecycle management.
// It wires configuration loading, logging, run-parameter resolution, the
// market-data client, the chart renderer, and the pipeline together at
// startup.
//
// # Initialization Flow
//
// The typical initialization sequence:
//
//	1. Load configuration from defaults, the optional YAML file, and
//	   STOCKLENS_* environment variables
//	2. Apply command-line overrides and re-validate
//	3. Initialize the global slog logger
//	4. Resolve tickers and the date range (overrides, automation flag,
//	   interactive prompt, or built-in defaults)
//	5. Assemble the pipeline with its provider client and renderer
//
// # Usage
//
// The main entry point is typically:
//
//	application, err := app.NewApplication(opts)
//	if err != nil {
//	    slog.Error("init failed", slog.String("error", err.Error()))
//	    os.Exit(1)
//	}
//	if err := application.Run(context.Background()); err != nil {
//	    os.Exit(1)
//	}
//
// # Error Handling
//
// All initialization errors are returned to the caller. The package does
// not call os.Exit() itself, so main keeps control over the exit code.
// Run handles SIGINT and SIGTERM by cancelling the pipeline context.
package app
