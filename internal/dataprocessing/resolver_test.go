package dataprocessing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocklens/internal/timeseries"
)

func testDates(n int) []time.Time {
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = time.Date(2023, 1, 3+i, 0, 0, 0, 0, time.UTC)
	}
	return dates
}

func priceTable(t *testing.T, n int, cols ...timeseries.Column) *timeseries.Frame {
	t.Helper()
	frame, err := timeseries.NewFrame(testDates(n), cols)
	require.NoError(t, err)
	return frame
}

func floatCol(name string, vals ...float64) timeseries.Column {
	return timeseries.Column{Name: name, Kind: timeseries.ColFloat, Floats: vals}
}

func stringCol(name string, vals ...string) timeseries.Column {
	return timeseries.Column{Name: name, Kind: timeseries.ColString, Strings: vals}
}

func TestResolverResolve(t *testing.T) {
	tests := []struct {
		name         string
		table        func(t *testing.T) *timeseries.Frame
		wantColumn   string
		wantStrategy Strategy
		wantValues   []float64
	}{
		{
			name: "exact match returns Close unchanged",
			table: func(t *testing.T) *timeseries.Frame {
				return priceTable(t, 3,
					floatCol("Open", 1, 2, 3),
					floatCol("Close", 10, 11, 12),
				)
			},
			wantColumn:   "Close",
			wantStrategy: StrategyExact,
			wantValues:   []float64{10, 11, 12},
		},
		{
			name: "exact match beats earlier close-like column",
			table: func(t *testing.T) *timeseries.Frame {
				return priceTable(t, 3,
					floatCol("Adj Close", 20, 21, 22),
					floatCol("Close", 10, 11, 12),
				)
			},
			wantColumn:   "Close",
			wantStrategy: StrategyExact,
			wantValues:   []float64{10, 11, 12},
		},
		{
			name: "exact match is case-sensitive",
			table: func(t *testing.T) *timeseries.Frame {
				return priceTable(t, 3,
					floatCol("close", 10, 11, 12),
				)
			},
			wantColumn:   "close",
			wantStrategy: StrategySubstring,
			wantValues:   []float64{10, 11, 12},
		},
		{
			name: "substring match finds adjusted close",
			table: func(t *testing.T) *timeseries.Frame {
				return priceTable(t, 3,
					floatCol("Open", 1, 2, 3),
					floatCol("Adjusted Close", 20, 21, 22),
				)
			},
			wantColumn:   "Adjusted Close",
			wantStrategy: StrategySubstring,
			wantValues:   []float64{20, 21, 22},
		},
		{
			name: "string column named Close is skipped",
			table: func(t *testing.T) *timeseries.Frame {
				return priceTable(t, 3,
					stringCol("Close", "a", "b", "c"),
					floatCol("Open", 1, 2, 3),
				)
			},
			wantColumn:   "Open",
			wantStrategy: StrategyFirstNumeric,
			wantValues:   []float64{1, 2, 3},
		},
		{
			name: "first numeric fallback",
			table: func(t *testing.T) *timeseries.Frame {
				return priceTable(t, 3,
					stringCol("Note", "x", "y", "z"),
					floatCol("Volume", 100, 200, 300),
				)
			},
			wantColumn:   "Volume",
			wantStrategy: StrategyFirstNumeric,
			wantValues:   []float64{100, 200, 300},
		},
	}

	resolver := NewResolver(nil, "Close")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := tt.table(t)
			res := resolver.Resolve(context.Background(), "AAPL", table)

			assert.Equal(t, tt.wantColumn, res.SourceColumn)
			assert.Equal(t, tt.wantStrategy, res.Strategy)
			assert.Equal(t, "AAPL", res.Series.Name(), "series is named after the ticker")
			require.Equal(t, table.Len(), res.Series.Len(), "series stays aligned to the table index")
			for i, want := range tt.wantValues {
				assert.Equal(t, want, res.Series.Value(i))
				assert.Equal(t, table.Date(i), res.Series.Date(i))
			}
		})
	}
}

func TestResolverPlaceholder(t *testing.T) {
	resolver := NewResolver(nil, "Close")

	t.Run("no numeric column", func(t *testing.T) {
		table := priceTable(t, 3, stringCol("Note", "x", "y", "z"))
		res := resolver.Resolve(context.Background(), "TSLA", table)

		assert.Equal(t, StrategyPlaceholder, res.Strategy)
		assert.Empty(t, res.SourceColumn)
		assert.Equal(t, "TSLA", res.Series.Name())
		require.Equal(t, 3, res.Series.Len())
		for i := 0; i < res.Series.Len(); i++ {
			assert.True(t, timeseries.IsMissing(res.Series.Value(i)))
		}
	})

	t.Run("empty table", func(t *testing.T) {
		table := priceTable(t, 0)
		res := resolver.Resolve(context.Background(), "TSLA", table)

		assert.Equal(t, StrategyPlaceholder, res.Strategy)
		assert.Equal(t, 0, res.Series.Len())
		assert.False(t, res.Series.HasData())
	})
}

func TestResolverDefaults(t *testing.T) {
	resolver := NewResolver(nil, "")
	table := priceTable(t, 1, floatCol("Close", 5))

	res := resolver.Resolve(context.Background(), "MSFT", table)
	assert.Equal(t, StrategyExact, res.Strategy)
	assert.Equal(t, "Close", res.SourceColumn)
}
