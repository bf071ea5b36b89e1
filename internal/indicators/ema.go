package indicators

import "github.com/quantbay/stockcast/pkg/types"

// EMA is the exponential moving average of Close, seeded with the simple
// average of the first period values.
type EMA struct {
	period int
	alpha  float64
}

// NewEMA creates an exponential moving average indicator over the given period.
func NewEMA(period int) *EMA {
	return &EMA{
		period: period,
		alpha:  2.0 / float64(period+1),
	}
}

func (e *EMA) Name() string { return "EMA" }

func (e *EMA) Warmup() int { return e.period - 1 }

func (e *EMA) Compute(bars []types.OHLCV) []float64 {
	out := nanSeries(len(bars))
	if len(bars) < e.period {
		return out
	}
	// Seed with the SMA of the first period closes.
	sum := 0.0
	for i := 0; i < e.period; i++ {
		sum += bars[i].Close
	}
	prev := sum / float64(e.period)
	out[e.period-1] = prev
	for i := e.period; i < len(bars); i++ {
		prev = bars[i].Close*e.alpha + prev*(1-e.alpha)
		out[i] = prev
	}
	return out
}
