package forecast

import (
	"math"

	"gonum.org/v1/gonum/mat"

	pkgerrors "github.com/quantbay/stockcast/internal/errors"
	"github.com/quantbay/stockcast/pkg/timeseries"
	"github.com/quantbay/stockcast/pkg/types"
)

// VARMAX is a multivariate first-order vector autoregression fitted by least
// squares over every dataset column. Prediction iterates the system forward
// and reports the Close component.
type VARMAX struct {
	state varmaxState
}

type varmaxState struct {
	Fitted     bool
	Columns    []string
	CloseIdx   int
	Intercept  []float64   // one per equation
	Coef       [][]float64 // Coef[eq][lagged column]
	LastValues []float64   // last observed row, per column
	LastDate   int64
}

// NewVARMAX creates an empty VARMAX model.
func NewVARMAX() *VARMAX { return &VARMAX{} }

func (m *VARMAX) Algorithm() Algorithm { return AlgorithmVARMAX }

func (m *VARMAX) Train(frame *timeseries.Frame) error {
	cols := frame.Columns()
	closeIdx := -1
	for i, c := range cols {
		if c == types.ColumnClose {
			closeIdx = i
		}
	}
	if closeIdx < 0 {
		return pkgerrors.NewModelTrainingError(string(AlgorithmVARMAX),
			"training table has no Close column", nil)
	}
	n := frame.Len()
	k := len(cols)
	// n-1 usable rows must overdetermine the k+1 parameters per equation.
	if n-1 <= k+1 {
		return pkgerrors.NewModelTrainingError(string(AlgorithmVARMAX), "insufficient data", nil)
	}

	series := make([][]float64, k)
	for i, c := range cols {
		s, _ := frame.Column(c)
		series[i] = s
	}

	rows := n - 1
	design := mat.NewDense(rows, k+1, nil)
	targets := mat.NewDense(rows, k, nil)
	for r := 0; r < rows; r++ {
		design.Set(r, 0, 1)
		for i := 0; i < k; i++ {
			design.Set(r, i+1, series[i][r])
			targets.Set(r, i, series[i][r+1])
		}
	}

	solution, err := solveOLSMulti(design, targets)
	if err != nil {
		return pkgerrors.NewModelTrainingError(string(AlgorithmVARMAX), "least squares failed", err)
	}

	s := varmaxState{
		Columns:    cols,
		CloseIdx:   closeIdx,
		Intercept:  make([]float64, k),
		Coef:       make([][]float64, k),
		LastValues: make([]float64, k),
		LastDate:   frame.MaxDate().Unix(),
		Fitted:     true,
	}
	for eq := 0; eq < k; eq++ {
		s.Intercept[eq] = solution.At(0, eq)
		s.Coef[eq] = make([]float64, k)
		for i := 0; i < k; i++ {
			v := solution.At(i+1, eq)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return pkgerrors.NewModelTrainingError(string(AlgorithmVARMAX),
					"least squares failed", errNonFinite)
			}
			s.Coef[eq][i] = v
		}
		s.LastValues[eq] = series[eq][n-1]
	}
	m.state = s
	return nil
}

func (m *VARMAX) Predict(days int) ([]Point, error) {
	if !m.state.Fitted {
		return nil, notFitted(AlgorithmVARMAX)
	}
	k := len(m.state.Columns)
	current := append([]float64(nil), m.state.LastValues...)
	dates := horizonDates(timeseries.Day(unixDay(m.state.LastDate)), days)
	out := make([]Point, days)
	for h := 0; h < days; h++ {
		next := make([]float64, k)
		for eq := 0; eq < k; eq++ {
			v := m.state.Intercept[eq]
			for i := 0; i < k; i++ {
				v += m.state.Coef[eq][i] * current[i]
			}
			next[eq] = v
		}
		out[h] = Point{Date: dates[h], Value: next[m.state.CloseIdx]}
		current = next
	}
	return out, nil
}

func (m *VARMAX) State() ([]byte, error) {
	if !m.state.Fitted {
		return nil, notFitted(AlgorithmVARMAX)
	}
	return encodeState(m.state)
}

func (m *VARMAX) Restore(state []byte) error {
	var s varmaxState
	if err := decodeState(state, &s); err != nil {
		return err
	}
	m.state = s
	return nil
}
