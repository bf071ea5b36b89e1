package indicators

import "github.com/quantbay/stockcast/pkg/types"

// Aroon measures trend strength from the number of bars since the most
// recent extreme within the lookback window:
//
//	AroonUp   = 100 * (period - barsSinceHighestHigh) / period
//	AroonDown = 100 * (period - barsSinceLowestLow) / period
//
// The window at row i covers the period+1 bars [i-period, i]; ties resolve
// to the most recent bar.
type aroon struct {
	period int
}

func (a aroon) Warmup() int { return a.period }

// sinceHigh returns bars since the highest High in the window ending at i.
func (a aroon) sinceHigh(bars []types.OHLCV, i int) int {
	best := i
	for j := i - 1; j >= i-a.period; j-- {
		if bars[j].High > bars[best].High {
			best = j
		}
	}
	return i - best
}

// sinceLow returns bars since the lowest Low in the window ending at i.
func (a aroon) sinceLow(bars []types.OHLCV, i int) int {
	best := i
	for j := i - 1; j >= i-a.period; j-- {
		if bars[j].Low < bars[best].Low {
			best = j
		}
	}
	return i - best
}

// AroonUp is the up-trend half of the Aroon channel indicator.
type AroonUp struct{ aroon }

// NewAroonUp creates the Aroon-up indicator over the given lookback period.
func NewAroonUp(period int) *AroonUp {
	return &AroonUp{aroon{period: period}}
}

func (a *AroonUp) Name() string { return "AROONUP" }

func (a *AroonUp) Compute(bars []types.OHLCV) []float64 {
	out := nanSeries(len(bars))
	for i := a.period; i < len(bars); i++ {
		out[i] = 100 * float64(a.period-a.sinceHigh(bars, i)) / float64(a.period)
	}
	return out
}

// AroonDown is the down-trend half of the Aroon channel indicator.
type AroonDown struct{ aroon }

// NewAroonDown creates the Aroon-down indicator over the given lookback period.
func NewAroonDown(period int) *AroonDown {
	return &AroonDown{aroon{period: period}}
}

func (a *AroonDown) Name() string { return "AROONDOWN" }

func (a *AroonDown) Compute(bars []types.OHLCV) []float64 {
	out := nanSeries(len(bars))
	for i := a.period; i < len(bars); i++ {
		out[i] = 100 * float64(a.period-a.sinceLow(bars, i)) / float64(a.period)
	}
	return out
}
