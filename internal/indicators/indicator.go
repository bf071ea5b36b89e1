// Package indicators computes technical indicator columns from daily OHLCV
// bars. Every indicator produces a full series aligned with its input, using
// only past and current bars, with NaN during the warmup stretch.
package indicators

import (
	"math"

	"github.com/quantbay/stockcast/pkg/timeseries"
	"github.com/quantbay/stockcast/pkg/types"
)

// Indicator produces one named column from a bar series.
type Indicator interface {
	// Name is the dataset column this indicator fills.
	Name() string
	// Warmup is the number of leading rows that have no value.
	Warmup() int
	// Compute returns a series aligned with bars; the first Warmup values are NaN.
	Compute(bars []types.OHLCV) []float64
}

// Default periods follow the common talib defaults.
const (
	DefaultMAPeriod       = 30
	DefaultEMAPeriod      = 30
	DefaultAroonPeriod    = 14
	DefaultMFIPeriod      = 14
	DefaultMomentumPeriod = 10
)

// DefaultSet returns the enrichment indicators in dataset column order.
func DefaultSet() []Indicator {
	return []Indicator{
		NewSMA(DefaultMAPeriod),
		NewEMA(DefaultEMAPeriod),
		NewAroonDown(DefaultAroonPeriod),
		NewAroonUp(DefaultAroonPeriod),
		NewMFI(DefaultMFIPeriod),
		NewMomentum(DefaultMomentumPeriod),
	}
}

// Enrich appends every indicator column to the frame and drops the leading
// rows that lack complete indicator data. Rows preceding full lookback
// availability are removed entirely, not filled.
func Enrich(f *timeseries.Frame, set ...Indicator) (*timeseries.Frame, error) {
	if len(set) == 0 {
		set = DefaultSet()
	}
	bars, err := barsFromFrame(f)
	if err != nil {
		return nil, err
	}
	out := f
	maxWarmup := 0
	for _, ind := range set {
		out, err = out.WithColumn(ind.Name(), ind.Compute(bars))
		if err != nil {
			return nil, err
		}
		if ind.Warmup() > maxWarmup {
			maxWarmup = ind.Warmup()
		}
	}
	return out.DropHead(maxWarmup), nil
}

func barsFromFrame(f *timeseries.Frame) ([]types.OHLCV, error) {
	cols := make(map[string][]float64, 5)
	for _, name := range types.OHLCVColumns() {
		series, ok := f.Column(name)
		if !ok {
			return nil, &missingColumnError{name}
		}
		cols[name] = series
	}
	dates := f.Dates()
	bars := make([]types.OHLCV, len(dates))
	for i := range dates {
		bars[i] = types.OHLCV{
			Timestamp: dates[i],
			Open:      cols[types.ColumnOpen][i],
			High:      cols[types.ColumnHigh][i],
			Low:       cols[types.ColumnLow][i],
			Close:     cols[types.ColumnClose][i],
			Volume:    cols[types.ColumnVolume][i],
		}
	}
	return bars, nil
}

type missingColumnError struct{ column string }

func (e *missingColumnError) Error() string {
	return "frame is missing required column " + e.column
}

// nanSeries allocates a series prefilled with NaN.
func nanSeries(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
