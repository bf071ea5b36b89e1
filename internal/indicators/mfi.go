package indicators

import "github.com/quantbay/stockcast/pkg/types"

// MFI is the Money Flow Index, a volume-weighted momentum oscillator:
//
//	Raw Money Flow = Typical Price * Volume
//	Money Ratio    = Positive Money Flow / Negative Money Flow
//	MFI            = 100 - (100 / (1 + Money Ratio))
//
// summed over the last period typical-price changes.
type MFI struct {
	period int
}

// NewMFI creates a Money Flow Index indicator over the given period.
func NewMFI(period int) *MFI {
	return &MFI{period: period}
}

func (m *MFI) Name() string { return "MFI" }

// Warmup needs one extra bar for the first typical-price comparison.
func (m *MFI) Warmup() int { return m.period }

func (m *MFI) Compute(bars []types.OHLCV) []float64 {
	out := nanSeries(len(bars))
	if len(bars) <= m.period {
		return out
	}
	typical := make([]float64, len(bars))
	for i, b := range bars {
		typical[i] = (b.High + b.Low + b.Close) / 3.0
	}
	for i := m.period; i < len(bars); i++ {
		positive, negative := 0.0, 0.0
		for j := i - m.period + 1; j <= i; j++ {
			flow := typical[j] * bars[j].Volume
			switch {
			case typical[j] > typical[j-1]:
				positive += flow
			case typical[j] < typical[j-1]:
				negative += flow
			}
		}
		switch {
		case negative == 0:
			out[i] = 100
		case positive == 0:
			out[i] = 0
		default:
			out[i] = 100 - 100/(1+positive/negative)
		}
	}
	return out
}
