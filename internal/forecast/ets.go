package forecast

import (
	"math"

	pkgerrors "github.com/quantbay/stockcast/internal/errors"
	"github.com/quantbay/stockcast/pkg/timeseries"
)

const etsMinObservations = 10

// ETS is an exponential smoothing engine with additive trend (Holt linear).
// Smoothing parameters are selected automatically by grid search on in-sample
// one-step squared error.
type ETS struct {
	state etsState
}

type etsState struct {
	Fitted   bool
	Alpha    float64
	Beta     float64
	Level    float64
	Trend    float64
	LastDate int64 // unix seconds of the last training date
}

// NewETS creates an empty ETS model.
func NewETS() *ETS { return &ETS{} }

func (m *ETS) Algorithm() Algorithm { return AlgorithmETS }

// Train selects smoothing parameters by SSE and keeps the final level/trend.
func (m *ETS) Train(frame *timeseries.Frame) error {
	y, err := closeSeries(frame)
	if err != nil {
		return pkgerrors.NewModelTrainingError(string(AlgorithmETS), "invalid training table", err)
	}
	if len(y) < etsMinObservations {
		return pkgerrors.NewModelTrainingError(string(AlgorithmETS), "insufficient data", nil)
	}

	grid := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9}
	best := etsState{Alpha: math.NaN()}
	bestSSE := math.Inf(1)
	for _, alpha := range grid {
		for _, beta := range grid {
			level, trend, sse := holtSmooth(y, alpha, beta)
			if sse < bestSSE {
				bestSSE = sse
				best = etsState{Alpha: alpha, Beta: beta, Level: level, Trend: trend}
			}
		}
	}
	if math.IsNaN(best.Alpha) || math.IsInf(bestSSE, 1) {
		return pkgerrors.NewModelTrainingError(string(AlgorithmETS), "smoothing failed to converge", nil)
	}
	best.Fitted = true
	best.LastDate = frame.MaxDate().Unix()
	m.state = best
	return nil
}

// holtSmooth runs Holt linear smoothing and returns the final level, trend
// and the one-step-ahead sum of squared errors.
func holtSmooth(y []float64, alpha, beta float64) (level, trend, sse float64) {
	level = y[0]
	trend = y[1] - y[0]
	for t := 1; t < len(y); t++ {
		forecast := level + trend
		err := y[t] - forecast
		sse += err * err
		prevLevel := level
		level = alpha*y[t] + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
	}
	return level, trend, sse
}

func (m *ETS) Predict(days int) ([]Point, error) {
	if !m.state.Fitted {
		return nil, notFitted(AlgorithmETS)
	}
	dates := horizonDates(timeseries.Day(unixDay(m.state.LastDate)), days)
	out := make([]Point, days)
	for i := range out {
		out[i] = Point{Date: dates[i], Value: m.state.Level + float64(i+1)*m.state.Trend}
	}
	return out, nil
}

func (m *ETS) State() ([]byte, error) {
	if !m.state.Fitted {
		return nil, notFitted(AlgorithmETS)
	}
	return encodeState(m.state)
}

func (m *ETS) Restore(state []byte) error {
	var s etsState
	if err := decodeState(state, &s); err != nil {
		return err
	}
	m.state = s
	return nil
}
