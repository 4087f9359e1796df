// Package config provides centralized configuration management for stocklens.
// It handles loading settings from multiple sources, validation, and resolves
// the run parameters (tickers and date range) and output paths used by the
// rest of the application.
//
// # Configuration Sources
//
// Settings are loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern STOCKLENS_* for namespacing:
//
//	STOCKLENS_RUN_TICKERS=AAPL,TSLA,MSFT
//	STOCKLENS_RUN_START_DATE=2023-01-01
//	STOCKLENS_RUN_END_DATE=2024-01-31
//	STOCKLENS_RUN_AUTO=true
//	STOCKLENS_LOGGING_LEVEL=debug
//
// # Run Parameters
//
// Tickers and the date range resolve separately from the rest of the
// settings because they may come from an interactive prompt. The precedence
// is: explicit configuration, then the automation flag (defaults without
// prompting), then the prompt, then built-in defaults. ResolveRunParams
// implements this and records which source won in RunParams.Source.
//
// # Path Management
//
// The package provides centralized path management through the Paths type.
// All output paths are anchored at the executable directory unless an
// explicit base directory is configured:
//
//	paths, err := config.GetPaths(cfg.Output)
//	if err != nil {
//	    return err
//	}
//	if err := paths.EnsureDirectories(); err != nil {
//	    return err
//	}
//	csvPath := paths.RawCSV("AAPL")
package config
