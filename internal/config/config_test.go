package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, "https://query1.finance.yahoo.com", cfg.Fetch.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 4.0, cfg.Fetch.RatePerSec)
	assert.Equal(t, 2, cfg.Fetch.Burst)
	assert.Equal(t, 3, cfg.Fetch.Concurrency)
	assert.Equal(t, 3, cfg.Fetch.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Fetch.RetryDelay)
	assert.Equal(t, 30*time.Second, cfg.Fetch.MaxDelay)

	assert.Empty(t, cfg.Run.Tickers)
	assert.Empty(t, cfg.Run.StartDate)
	assert.Empty(t, cfg.Run.EndDate)
	assert.False(t, cfg.Run.Auto)

	assert.Equal(t, "data", cfg.Output.DataDir)
	assert.Equal(t, "plots", cfg.Output.PlotsDir)
	assert.False(t, cfg.Output.Excel)

	assert.Equal(t, 1000, cfg.Chart.Width)
	assert.Equal(t, 500, cfg.Chart.Height)
	assert.Equal(t, 1200, cfg.Chart.CombinedWidth)
	assert.Equal(t, 600, cfg.Chart.CombinedHeight)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "console", cfg.Logging.Output)

	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	writeConfig := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "stocklens.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	tests := []struct {
		name        string
		configFile  func(t *testing.T) string
		env         map[string]string
		wantErr     bool
		errContains string
		validateCfg func(t *testing.T, cfg *Settings)
	}{
		{
			name: "defaults when no file and no env",
			validateCfg: func(t *testing.T, cfg *Settings) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name: "yaml file overlays defaults",
			configFile: func(t *testing.T) string {
				return writeConfig(t, `
run:
  tickers: [aapl, nvda]
  auto: true
output:
  data_dir: out/data
chart:
  width: 800
logging:
  level: debug
`)
			},
			validateCfg: func(t *testing.T, cfg *Settings) {
				assert.Equal(t, []string{"aapl", "nvda"}, cfg.Run.Tickers)
				assert.True(t, cfg.Run.Auto)
				assert.Equal(t, "out/data", cfg.Output.DataDir)
				assert.Equal(t, 800, cfg.Chart.Width)
				assert.Equal(t, "debug", cfg.Logging.Level)
				// Untouched keys keep their defaults.
				assert.Equal(t, "plots", cfg.Output.PlotsDir)
				assert.Equal(t, 500, cfg.Chart.Height)
				assert.Equal(t, "https://query1.finance.yahoo.com", cfg.Fetch.BaseURL)
			},
		},
		{
			name: "environment overlays defaults",
			env: map[string]string{
				"STOCKLENS_RUN_TICKERS":    "AAPL,TSLA",
				"STOCKLENS_RUN_START_DATE": "2024-01-01",
				"STOCKLENS_FETCH_TIMEOUT":  "45s",
				"STOCKLENS_OUTPUT_EXCEL":   "true",
				"STOCKLENS_LOGGING_LEVEL":  "warn",
			},
			validateCfg: func(t *testing.T, cfg *Settings) {
				assert.Equal(t, []string{"AAPL", "TSLA"}, cfg.Run.Tickers)
				assert.Equal(t, "2024-01-01", cfg.Run.StartDate)
				assert.Equal(t, 45*time.Second, cfg.Fetch.Timeout)
				assert.True(t, cfg.Output.Excel)
				assert.Equal(t, "warn", cfg.Logging.Level)
			},
		},
		{
			name: "environment wins over file",
			configFile: func(t *testing.T) string {
				return writeConfig(t, `
logging:
  level: debug
output:
  plots_dir: charts
`)
			},
			env: map[string]string{
				"STOCKLENS_LOGGING_LEVEL": "error",
			},
			validateCfg: func(t *testing.T, cfg *Settings) {
				assert.Equal(t, "error", cfg.Logging.Level)
				// File keys without an env override still apply.
				assert.Equal(t, "charts", cfg.Output.PlotsDir)
			},
		},
		{
			name: "missing file errors",
			configFile: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "nope.yaml")
			},
			wantErr:     true,
			errContains: "failed to load config from file",
		},
		{
			name: "malformed yaml errors",
			configFile: func(t *testing.T) string {
				return writeConfig(t, "run: [this is not\n  a mapping")
			},
			wantErr:     true,
			errContains: "failed to load config from file",
		},
		{
			name: "invalid value fails validation",
			env: map[string]string{
				"STOCKLENS_LOGGING_LEVEL": "verbose",
			},
			wantErr:     true,
			errContains: "config validation failed",
		},
	}

	// Environment variables the cases below may set; cleared up front so
	// the host environment cannot leak into the defaults case.
	knownVars := []string{
		"STOCKLENS_RUN_TICKERS", "STOCKLENS_RUN_START_DATE", "STOCKLENS_RUN_END_DATE",
		"STOCKLENS_RUN_AUTO", "STOCKLENS_FETCH_TIMEOUT", "STOCKLENS_OUTPUT_EXCEL",
		"STOCKLENS_LOGGING_LEVEL",
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range knownVars {
				t.Setenv(key, "")
				os.Unsetenv(key)
			}
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			var file string
			if tt.configFile != nil {
				file = tt.configFile(t)
			}

			cfg, err := Load(file)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Settings)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(cfg *Settings) {},
		},
		{
			name:    "empty base url",
			mutate:  func(cfg *Settings) { cfg.Fetch.BaseURL = "" },
			wantErr: true,
		},
		{
			name:    "base url is not a url",
			mutate:  func(cfg *Settings) { cfg.Fetch.BaseURL = "query1.finance" },
			wantErr: true,
		},
		{
			name:    "zero timeout",
			mutate:  func(cfg *Settings) { cfg.Fetch.Timeout = 0 },
			wantErr: true,
		},
		{
			name:    "zero rate",
			mutate:  func(cfg *Settings) { cfg.Fetch.RatePerSec = 0 },
			wantErr: true,
		},
		{
			name:    "zero concurrency",
			mutate:  func(cfg *Settings) { cfg.Fetch.Concurrency = 0 },
			wantErr: true,
		},
		{
			name: "retry delay above max delay",
			mutate: func(cfg *Settings) {
				cfg.Fetch.RetryDelay = time.Minute
				cfg.Fetch.MaxDelay = time.Second
			},
			wantErr: true,
		},
		{
			name:    "empty data dir",
			mutate:  func(cfg *Settings) { cfg.Output.DataDir = "" },
			wantErr: true,
		},
		{
			name:    "chart too small",
			mutate:  func(cfg *Settings) { cfg.Chart.Width = 100 },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			mutate:  func(cfg *Settings) { cfg.Logging.Level = "trace" },
			wantErr: true,
		},
		{
			name:    "unknown log format",
			mutate:  func(cfg *Settings) { cfg.Logging.Format = "logfmt" },
			wantErr: true,
		},
		{
			name: "file output without file path",
			mutate: func(cfg *Settings) {
				cfg.Logging.Output = "file"
				cfg.Logging.FilePath = ""
			},
			wantErr: true,
		},
		{
			name: "file output with file path",
			mutate: func(cfg *Settings) {
				cfg.Logging.Output = "both"
				cfg.Logging.FilePath = "logs/run.log"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
