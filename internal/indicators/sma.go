package indicators

import "github.com/quantbay/stockcast/pkg/types"

// SMA is the simple moving average of Close.
type SMA struct {
	period int
}

// NewSMA creates a simple moving average indicator over the given period.
func NewSMA(period int) *SMA {
	return &SMA{period: period}
}

func (s *SMA) Name() string { return "MA" }

func (s *SMA) Warmup() int { return s.period - 1 }

// Compute returns the rolling mean of Close; the first period-1 values are NaN.
func (s *SMA) Compute(bars []types.OHLCV) []float64 {
	out := nanSeries(len(bars))
	sum := 0.0
	for i := range bars {
		sum += bars[i].Close
		if i >= s.period {
			sum -= bars[i-s.period].Close
		}
		if i >= s.period-1 {
			out[i] = sum / float64(s.period)
		}
	}
	return out
}
