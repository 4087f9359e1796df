package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Built-in run defaults used when nothing else supplies run parameters.
var (
	DefaultTickers   = []string{"AAPL", "TSLA", "MSFT"}
	DefaultStartDate = "2023-01-01"
	DefaultEndDate   = "2024-01-31"
)

// DateFormat is the calendar-date layout for all user-facing dates.
const DateFormat = "2006-01-02"

// Source identifies where the run parameters came from.
type Source string

const (
	// SourceOverride means at least one parameter was set explicitly via
	// flag, environment variable, or config file.
	SourceOverride Source = "override"
	// SourceAuto means the automation flag forced the built-in defaults.
	SourceAuto Source = "automation"
	// SourcePrompt means the parameters were typed at the interactive prompt.
	SourcePrompt Source = "prompt"
	// SourceDefault means the built-in defaults were used.
	SourceDefault Source = "default"
)

// RunParams is the resolved run configuration for one pipeline execution.
// Start is inclusive and End exclusive, matching the provider convention.
type RunParams struct {
	Tickers []string  `validate:"required,min=1,dive,ticker"`
	Start   time.Time `validate:"required"`
	End     time.Time `validate:"required,gtfield=Start"`
	Source  Source    `validate:"-"`
}

// Validate checks ticker syntax and date ordering.
func (p RunParams) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid run parameters: %w", err)
	}
	return nil
}

// ResolveRunParams resolves tickers and the date range from enumerated
// sources in priority order: explicit overrides in rc, the automation flag,
// interactive input read from in, and finally the built-in defaults.
// Supplying any explicit parameter disables the prompt; fields the chosen
// source leaves empty fall back to the defaults.
func ResolveRunParams(rc RunConfig, interactive bool, in io.Reader, out io.Writer) (RunParams, error) {
	tickers := normalizeTickers(rc.Tickers)
	start := strings.TrimSpace(rc.StartDate)
	end := strings.TrimSpace(rc.EndDate)

	source := SourceDefault
	switch {
	case len(tickers) > 0 || start != "" || end != "":
		source = SourceOverride
	case rc.Auto:
		source = SourceAuto
	case interactive:
		var err error
		tickers, start, end, err = promptRunParams(in, out)
		if err != nil {
			return RunParams{}, err
		}
		source = SourcePrompt
		if len(tickers) == 0 && start == "" && end == "" {
			source = SourceDefault
		}
	}

	if len(tickers) == 0 {
		tickers = append([]string(nil), DefaultTickers...)
	}
	if start == "" {
		start = DefaultStartDate
	}
	if end == "" {
		end = DefaultEndDate
	}

	startDate, err := time.Parse(DateFormat, start)
	if err != nil {
		return RunParams{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	endDate, err := time.Parse(DateFormat, end)
	if err != nil {
		return RunParams{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}

	params := RunParams{Tickers: tickers, Start: startDate, End: endDate, Source: source}
	if err := params.Validate(); err != nil {
		return RunParams{}, err
	}
	return params, nil
}

// promptRunParams asks for tickers and a date range in the form
// "T1,T2;YYYY-MM-DD;YYYY-MM-DD". Missing parts are returned empty so the
// caller can fall back per field; EOF behaves like an empty line.
func promptRunParams(in io.Reader, out io.Writer) ([]string, string, string, error) {
	fmt.Fprint(out, "Which stock(s) and date range should I fetch?\n")
	fmt.Fprint(out, "Enter tickers (comma-separated), start date YYYY-MM-DD, end date YYYY-MM-DD\n")
	fmt.Fprintf(out, "Press Enter to use defaults: %s;%s;%s\n> ",
		strings.Join(DefaultTickers, ","), DefaultStartDate, DefaultEndDate)

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, "", "", fmt.Errorf("read run parameters: %w", err)
		}
		return nil, "", "", nil
	}
	line := strings.TrimSpace(scanner.Text())
	if line == "" {
		return nil, "", "", nil
	}

	parts := strings.Split(line, ";")
	tickers := normalizeTickers(strings.Split(parts[0], ","))
	start, end := "", ""
	if len(parts) > 1 {
		start = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		end = strings.TrimSpace(parts[2])
	}
	return tickers, start, end, nil
}

// normalizeTickers trims, uppercases, and drops empty entries.
func normalizeTickers(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// StdinIsInteractive reports whether stdin is attached to a terminal, which
// gates the interactive prompt.
func StdinIsInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
