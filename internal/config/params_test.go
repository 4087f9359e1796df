package config

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(DateFormat, value)
	require.NoError(t, err)
	return parsed
}

func TestResolveRunParams(t *testing.T) {
	tests := []struct {
		name        string
		rc          RunConfig
		interactive bool
		input       string
		wantErr     bool
		wantTickers []string
		wantStart   string
		wantEnd     string
		wantSource  Source
		wantPrompt  bool
	}{
		{
			name:        "explicit tickers win without prompting",
			rc:          RunConfig{Tickers: []string{"nvda", " amd "}},
			interactive: true,
			input:       "IGNORED;2020-01-01;2020-02-01\n",
			wantTickers: []string{"NVDA", "AMD"},
			wantStart:   DefaultStartDate,
			wantEnd:     DefaultEndDate,
			wantSource:  SourceOverride,
		},
		{
			name:        "explicit dates win without prompting",
			rc:          RunConfig{StartDate: "2024-03-01", EndDate: "2024-04-01"},
			interactive: true,
			input:       "IGNORED\n",
			wantTickers: DefaultTickers,
			wantStart:   "2024-03-01",
			wantEnd:     "2024-04-01",
			wantSource:  SourceOverride,
		},
		{
			name:        "explicit beats automation flag",
			rc:          RunConfig{Tickers: []string{"IBM"}, Auto: true},
			wantTickers: []string{"IBM"},
			wantStart:   DefaultStartDate,
			wantEnd:     DefaultEndDate,
			wantSource:  SourceOverride,
		},
		{
			name:        "automation flag forces defaults",
			rc:          RunConfig{Auto: true},
			interactive: true,
			input:       "IGNORED\n",
			wantTickers: DefaultTickers,
			wantStart:   DefaultStartDate,
			wantEnd:     DefaultEndDate,
			wantSource:  SourceAuto,
		},
		{
			name:        "full prompt answer",
			interactive: true,
			input:       "nvda, amd;2024-02-01;2024-03-01\n",
			wantTickers: []string{"NVDA", "AMD"},
			wantStart:   "2024-02-01",
			wantEnd:     "2024-03-01",
			wantSource:  SourcePrompt,
			wantPrompt:  true,
		},
		{
			name:        "prompt tickers only falls back per field",
			interactive: true,
			input:       "ibm\n",
			wantTickers: []string{"IBM"},
			wantStart:   DefaultStartDate,
			wantEnd:     DefaultEndDate,
			wantSource:  SourcePrompt,
			wantPrompt:  true,
		},
		{
			name:        "prompt without end date",
			interactive: true,
			input:       "ibm;2024-02-01\n",
			wantTickers: []string{"IBM"},
			wantStart:   "2024-02-01",
			wantEnd:     DefaultEndDate,
			wantSource:  SourcePrompt,
			wantPrompt:  true,
		},
		{
			name:        "empty prompt line counts as defaults",
			interactive: true,
			input:       "\n",
			wantTickers: DefaultTickers,
			wantStart:   DefaultStartDate,
			wantEnd:     DefaultEndDate,
			wantSource:  SourceDefault,
			wantPrompt:  true,
		},
		{
			name:        "eof counts as defaults",
			interactive: true,
			input:       "",
			wantTickers: DefaultTickers,
			wantStart:   DefaultStartDate,
			wantEnd:     DefaultEndDate,
			wantSource:  SourceDefault,
			wantPrompt:  true,
		},
		{
			name:        "non-interactive without config uses defaults",
			wantTickers: DefaultTickers,
			wantStart:   DefaultStartDate,
			wantEnd:     DefaultEndDate,
			wantSource:  SourceDefault,
		},
		{
			name:    "invalid start date",
			rc:      RunConfig{StartDate: "01/02/2024"},
			wantErr: true,
		},
		{
			name:    "end before start",
			rc:      RunConfig{StartDate: "2024-03-01", EndDate: "2024-02-01"},
			wantErr: true,
		},
		{
			name:    "end equal to start",
			rc:      RunConfig{StartDate: "2024-03-01", EndDate: "2024-03-01"},
			wantErr: true,
		},
		{
			name:        "invalid ticker from prompt",
			interactive: true,
			input:       "bad$ticker\n",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := strings.NewReader(tt.input)
			var out bytes.Buffer

			params, err := ResolveRunParams(tt.rc, tt.interactive, in, &out)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.wantTickers, params.Tickers)
			assert.Equal(t, date(t, tt.wantStart), params.Start)
			assert.Equal(t, date(t, tt.wantEnd), params.End)
			assert.Equal(t, tt.wantSource, params.Source)

			if tt.wantPrompt {
				assert.Contains(t, out.String(), "Press Enter to use defaults")
			} else {
				assert.Empty(t, out.String(), "prompt must stay silent for this source")
			}
		})
	}
}

func TestRunParamsValidate(t *testing.T) {
	valid := RunParams{
		Tickers: []string{"AAPL", "BRK-B", "BF.B", "^GSPC"},
		Start:   time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		End:     time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(p *RunParams)
	}{
		{
			name:   "no tickers",
			mutate: func(p *RunParams) { p.Tickers = nil },
		},
		{
			name:   "lowercase ticker",
			mutate: func(p *RunParams) { p.Tickers = []string{"aapl"} },
		},
		{
			name:   "ticker with invalid character",
			mutate: func(p *RunParams) { p.Tickers = []string{"AA PL"} },
		},
		{
			name:   "zero start",
			mutate: func(p *RunParams) { p.Start = time.Time{} },
		},
		{
			name:   "end not after start",
			mutate: func(p *RunParams) { p.End = p.Start },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			p.Tickers = append([]string(nil), valid.Tickers...)
			tt.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestNormalizeTickers(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "mixed case and spacing", in: []string{" aapl", "Tsla ", "MSFT"}, want: []string{"AAPL", "TSLA", "MSFT"}},
		{name: "drops empties", in: []string{"", "  ", "IBM"}, want: []string{"IBM"}},
		{name: "nil input", in: nil, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeTickers(tt.in))
		})
	}
}
