package indicators

import "github.com/quantbay/stockcast/pkg/types"

// Momentum is the raw change of Close over the lookback period.
type Momentum struct {
	period int
}

// NewMomentum creates a momentum indicator over the given period.
func NewMomentum(period int) *Momentum {
	return &Momentum{period: period}
}

func (m *Momentum) Name() string { return "MOM" }

func (m *Momentum) Warmup() int { return m.period }

func (m *Momentum) Compute(bars []types.OHLCV) []float64 {
	out := nanSeries(len(bars))
	for i := m.period; i < len(bars); i++ {
		out[i] = bars[i].Close - bars[i-m.period].Close
	}
	return out
}
