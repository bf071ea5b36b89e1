package forecast

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	pkgerrors "github.com/quantbay/stockcast/internal/errors"
	"github.com/quantbay/stockcast/pkg/timeseries"
)

const (
	prophetMinObservations = 40
	prophetFourierOrder    = 10
	// Changepoints are placed over the first part of the history only, so
	// the final trend segment is estimated from recent data.
	prophetChangepointRange = 0.8
)

// holidayDate is a fixed-date market holiday (month/day recurrence).
type holidayDate struct {
	Month time.Month
	Day   int
}

// Fixed-date US market holidays; the floating ones are left to the yearly
// seasonality terms.
var usMarketHolidays = []holidayDate{
	{time.January, 1},
	{time.June, 19},
	{time.July, 4},
	{time.December, 25},
}

// Prophet is a seasonal-decomposition engine: piecewise-linear trend with a
// changepoint count proportional to the input length, yearly Fourier
// seasonality, and US market holiday effects, fitted jointly by least squares.
type Prophet struct {
	state prophetState
}

type prophetState struct {
	Fitted       bool
	Coef         []float64 // feature coefficients, featureRow layout
	Changepoints []float64 // scaled changepoint locations in [0, 1)
	TrainLen     int
	LastDate     int64
}

// NewProphet creates an empty Prophet-style model.
func NewProphet() *Prophet { return &Prophet{} }

func (m *Prophet) Algorithm() Algorithm { return AlgorithmProphet }

func (m *Prophet) Train(frame *timeseries.Frame) error {
	y, err := closeSeries(frame)
	if err != nil {
		return pkgerrors.NewModelTrainingError(string(AlgorithmProphet), "invalid training table", err)
	}
	n := len(y)
	if n < prophetMinObservations {
		return pkgerrors.NewModelTrainingError(string(AlgorithmProphet), "insufficient data", nil)
	}

	// Changepoint count proportional to input length, clamped so the design
	// stays overdetermined.
	nc := n / 12
	base := 2 + 2*prophetFourierOrder + len(usMarketHolidays)
	if maxNC := n - base - 5; nc > maxNC {
		nc = maxNC
	}
	if nc < 0 {
		nc = 0
	}
	changepoints := make([]float64, nc)
	for j := range changepoints {
		changepoints[j] = prophetChangepointRange * float64(j+1) / float64(nc+1)
	}

	dates := frame.Dates()
	cols := base + nc
	design := mat.NewDense(n, cols, nil)
	target := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		row := featureRow(float64(i)/float64(n-1), dates[i], changepoints)
		design.SetRow(i, row)
		target.SetVec(i, y[i])
	}
	coef, err := solveOLS(design, target)
	if err != nil {
		return pkgerrors.NewModelTrainingError(string(AlgorithmProphet), "least squares failed", err)
	}

	m.state = prophetState{
		Fitted:       true,
		Coef:         coef,
		Changepoints: changepoints,
		TrainLen:     n,
		LastDate:     frame.MaxDate().Unix(),
	}
	return nil
}

// featureRow builds the regression features for one observation: intercept,
// linear trend, changepoint hinge terms, yearly Fourier terms, holiday
// indicators. t is time scaled so the training span maps onto [0, 1].
func featureRow(t float64, date time.Time, changepoints []float64) []float64 {
	row := make([]float64, 0, 2+len(changepoints)+2*prophetFourierOrder+len(usMarketHolidays))
	row = append(row, 1, t)
	for _, cp := range changepoints {
		if t > cp {
			row = append(row, t-cp)
		} else {
			row = append(row, 0)
		}
	}
	doy := float64(date.YearDay())
	for k := 1; k <= prophetFourierOrder; k++ {
		angle := 2 * math.Pi * float64(k) * doy / 365.25
		row = append(row, math.Sin(angle), math.Cos(angle))
	}
	for _, h := range usMarketHolidays {
		if date.Month() == h.Month && date.Day() == h.Day {
			row = append(row, 1)
		} else {
			row = append(row, 0)
		}
	}
	return row
}

func (m *Prophet) Predict(days int) ([]Point, error) {
	if !m.state.Fitted {
		return nil, notFitted(AlgorithmProphet)
	}
	last := timeseries.Day(unixDay(m.state.LastDate))
	dates := horizonDates(last, days)
	out := make([]Point, days)
	for h := 0; h < days; h++ {
		t := float64(m.state.TrainLen-1+h+1) / float64(m.state.TrainLen-1)
		row := featureRow(t, dates[h], m.state.Changepoints)
		v := 0.0
		for i, c := range m.state.Coef {
			v += c * row[i]
		}
		out[h] = Point{Date: dates[h], Value: v}
	}
	return out, nil
}

func (m *Prophet) State() ([]byte, error) {
	if !m.state.Fitted {
		return nil, notFitted(AlgorithmProphet)
	}
	return encodeState(m.state)
}

func (m *Prophet) Restore(state []byte) error {
	var s prophetState
	if err := decodeState(state, &s); err != nil {
		return err
	}
	m.state = s
	return nil
}
