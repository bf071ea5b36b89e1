package forecast

import (
	"math"

	"gonum.org/v1/gonum/mat"

	pkgerrors "github.com/quantbay/stockcast/internal/errors"
	"github.com/quantbay/stockcast/pkg/timeseries"
)

// Fixed SARIMAX order configuration: ARMA(5,0,5) on the Close series.
const (
	sarimaxAROrder = 5
	sarimaxMAOrder = 5
	// Long autoregression used to proxy the innovations in the first
	// Hannan-Rissanen stage.
	sarimaxProxyAROrder = 15
)

const sarimaxMinObservations = 40

// SARIMAX is an ARMA(5,0,5) engine fitted with the two-stage Hannan-Rissanen
// least-squares procedure: a long autoregression estimates the innovation
// series, then the ARMA coefficients come from a single OLS on lagged values
// and lagged innovations.
type SARIMAX struct {
	state sarimaxState
}

type sarimaxState struct {
	Fitted    bool
	Intercept float64
	AR        []float64 // AR coefficients, lag 1..p
	MA        []float64 // MA coefficients, lag 1..q
	RecentY   []float64 // last p observations, oldest first
	RecentE   []float64 // last q innovations, oldest first
	LastDate  int64
}

// NewSARIMAX creates an empty SARIMAX model.
func NewSARIMAX() *SARIMAX { return &SARIMAX{} }

func (m *SARIMAX) Algorithm() Algorithm { return AlgorithmSARIMAX }

func (m *SARIMAX) Train(frame *timeseries.Frame) error {
	y, err := closeSeries(frame)
	if err != nil {
		return pkgerrors.NewModelTrainingError(string(AlgorithmSARIMAX), "invalid training table", err)
	}
	if len(y) < sarimaxMinObservations {
		return pkgerrors.NewModelTrainingError(string(AlgorithmSARIMAX), "insufficient data", nil)
	}

	innovations, err := arResiduals(y, sarimaxProxyAROrder)
	if err != nil {
		return pkgerrors.NewModelTrainingError(string(AlgorithmSARIMAX), "long-AR stage failed", err)
	}

	// Second stage: y_t ~ 1 + y_{t-1..t-p} + e_{t-1..t-q}. Innovations are
	// only defined from sarimaxProxyAROrder on, so rows start after both
	// lag windows are available.
	p, q := sarimaxAROrder, sarimaxMAOrder
	start := sarimaxProxyAROrder + q
	rows := len(y) - start
	cols := 1 + p + q
	if rows <= cols {
		return pkgerrors.NewModelTrainingError(string(AlgorithmSARIMAX), "insufficient data", nil)
	}
	design := mat.NewDense(rows, cols, nil)
	target := mat.NewVecDense(rows, nil)
	for r := 0; r < rows; r++ {
		t := start + r
		design.Set(r, 0, 1)
		for i := 1; i <= p; i++ {
			design.Set(r, i, y[t-i])
		}
		for j := 1; j <= q; j++ {
			design.Set(r, p+j, innovations[t-j])
		}
		target.SetVec(r, y[t])
	}
	coef, err := solveOLS(design, target)
	if err != nil {
		return pkgerrors.NewModelTrainingError(string(AlgorithmSARIMAX), "least squares failed", err)
	}

	s := sarimaxState{
		Intercept: coef[0],
		AR:        coef[1 : 1+p],
		MA:        coef[1+p:],
		RecentY:   append([]float64(nil), y[len(y)-p:]...),
		RecentE:   append([]float64(nil), innovations[len(innovations)-q:]...),
		LastDate:  frame.MaxDate().Unix(),
		Fitted:    true,
	}
	m.state = s
	return nil
}

// arResiduals fits an AR(order) by OLS and returns the residual series,
// aligned with y (zeros before the first fitted row).
func arResiduals(y []float64, order int) ([]float64, error) {
	rows := len(y) - order
	cols := order + 1
	design := mat.NewDense(rows, cols, nil)
	target := mat.NewVecDense(rows, nil)
	for r := 0; r < rows; r++ {
		t := order + r
		design.Set(r, 0, 1)
		for i := 1; i <= order; i++ {
			design.Set(r, i, y[t-i])
		}
		target.SetVec(r, y[t])
	}
	coef, err := solveOLS(design, target)
	if err != nil {
		return nil, err
	}
	residuals := make([]float64, len(y))
	for t := order; t < len(y); t++ {
		pred := coef[0]
		for i := 1; i <= order; i++ {
			pred += coef[i] * y[t-i]
		}
		residuals[t] = y[t] - pred
	}
	return residuals, nil
}

// ridge stabilizes the normal equations against rank-deficient designs
// (constant or collinear regressors), which show up routinely with
// trend-dominated price data.
const ridge = 1e-8

// solveOLS solves min ||A x - b|| through the ridge-damped normal equations.
func solveOLS(a *mat.Dense, b *mat.VecDense) ([]float64, error) {
	_, cols := a.Dims()
	var ata mat.Dense
	ata.Mul(a.T(), a)
	for i := 0; i < cols; i++ {
		ata.Set(i, i, ata.At(i, i)+ridge)
	}
	var atb mat.VecDense
	atb.MulVec(a.T(), b)
	var x mat.VecDense
	if err := x.SolveVec(&ata, &atb); err != nil {
		return nil, err
	}
	out := make([]float64, cols)
	for i := range out {
		v := x.AtVec(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errNonFinite
		}
		out[i] = v
	}
	return out, nil
}

// solveOLSMulti is solveOLS with a multi-column right-hand side.
func solveOLSMulti(a, b *mat.Dense) (*mat.Dense, error) {
	_, cols := a.Dims()
	var ata mat.Dense
	ata.Mul(a.T(), a)
	for i := 0; i < cols; i++ {
		ata.Set(i, i, ata.At(i, i)+ridge)
	}
	var atb mat.Dense
	atb.Mul(a.T(), b)
	var x mat.Dense
	if err := x.Solve(&ata, &atb); err != nil {
		return nil, err
	}
	return &x, nil
}

func (m *SARIMAX) Predict(days int) ([]Point, error) {
	if !m.state.Fitted {
		return nil, notFitted(AlgorithmSARIMAX)
	}
	history := append([]float64(nil), m.state.RecentY...)
	innovations := append([]float64(nil), m.state.RecentE...)
	dates := horizonDates(timeseries.Day(unixDay(m.state.LastDate)), days)
	out := make([]Point, days)
	for h := 0; h < days; h++ {
		pred := m.state.Intercept
		for i, c := range m.state.AR {
			pred += c * history[len(history)-1-i]
		}
		for j, c := range m.state.MA {
			pred += c * innovations[len(innovations)-1-j]
		}
		out[h] = Point{Date: dates[h], Value: pred}
		// Future innovations are zero in expectation.
		history = append(history, pred)
		innovations = append(innovations, 0)
	}
	return out, nil
}

func (m *SARIMAX) State() ([]byte, error) {
	if !m.state.Fitted {
		return nil, notFitted(AlgorithmSARIMAX)
	}
	return encodeState(m.state)
}

func (m *SARIMAX) Restore(state []byte) error {
	var s sarimaxState
	if err := decodeState(state, &s); err != nil {
		return err
	}
	m.state = s
	return nil
}
