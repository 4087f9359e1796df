package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved output locations for one run.
// This is the single source of truth for file paths in the application.
type Paths struct {
	BaseDir  string
	DataDir  string
	PlotsDir string

	// Well-known aggregate artifacts inside DataDir
	SummaryStatsCSV  string
	MissingValuesCSV string
	CleanedClosesCSV string
	ExcelReport      string

	// Combined comparison chart inside PlotsDir
	CombinedChartPNG string
}

// GetPaths resolves the output tree for out. The tree is anchored at
// out.BaseDir when set, otherwise at the executable directory, never the
// current working directory. Nothing is created here; EnsureDirectories
// does that as an explicit step.
func GetPaths(out OutputConfig) (*Paths, error) {
	base := out.BaseDir
	if base == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to get executable path: %v", err)
		}
		// Resolve symlinks to get the actual executable location
		exe, err = filepath.EvalSymlinks(exe)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
		}
		base = filepath.Dir(exe)
	}

	dataDir := resolveUnder(base, out.DataDir)
	plotsDir := resolveUnder(base, out.PlotsDir)

	return &Paths{
		BaseDir:  base,
		DataDir:  dataDir,
		PlotsDir: plotsDir,

		SummaryStatsCSV:  filepath.Join(dataDir, "summary_stats.csv"),
		MissingValuesCSV: filepath.Join(dataDir, "missing_values.csv"),
		CleanedClosesCSV: filepath.Join(dataDir, "closing_prices_cleaned.csv"),
		ExcelReport:      filepath.Join(dataDir, "eda_report.xlsx"),

		CombinedChartPNG: filepath.Join(plotsDir, "combined_closing_prices.png"),
	}, nil
}

// RawCSV returns the raw price table path for a ticker.
func (p *Paths) RawCSV(ticker string) string {
	return filepath.Join(p.DataDir, fmt.Sprintf("%s_raw.csv", ticker))
}

// CleanedCSV returns the reconciled price table path for a ticker.
func (p *Paths) CleanedCSV(ticker string) string {
	return filepath.Join(p.DataDir, fmt.Sprintf("%s_cleaned.csv", ticker))
}

// TickerChartPNG returns the closing-price chart path for a ticker.
func (p *Paths) TickerChartPNG(ticker string) string {
	return filepath.Join(p.PlotsDir, fmt.Sprintf("%s_closing_price.png", ticker))
}

// Resolve anchors a possibly relative path under the base directory.
func (p *Paths) Resolve(path string) string {
	return resolveUnder(p.BaseDir, path)
}

// EnsureDirectories creates the output directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.PlotsDir,
	}

	logger := slog.Default()
	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
		if logger != nil {
			logger.Debug("Ensured directory exists",
				slog.String("directory", dir))
		}
	}
	return nil
}

func resolveUnder(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
