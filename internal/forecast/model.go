// Package forecast provides a uniform abstraction over several forecasting
// engines. Every engine satisfies the same train/predict/save/load contract
// and keeps its fitted state opaque to the pipeline; the zoo resolves a model
// per (company, algorithm) pair either from persisted weights or by training
// fresh.
package forecast

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/quantbay/stockcast/internal/errors"
	"github.com/quantbay/stockcast/pkg/timeseries"
	"github.com/quantbay/stockcast/pkg/types"
)

// Algorithm names a forecasting engine variant. The set is closed.
type Algorithm string

const (
	AlgorithmETS     Algorithm = "ets"
	AlgorithmSARIMAX Algorithm = "sarimax"
	AlgorithmVARMAX  Algorithm = "varmax"
	AlgorithmProphet Algorithm = "prophet"
)

// Algorithms returns every known algorithm in stable order.
func Algorithms() []Algorithm {
	return []Algorithm{AlgorithmETS, AlgorithmProphet, AlgorithmSARIMAX, AlgorithmVARMAX}
}

// ParseAlgorithm resolves a user-supplied algorithm name.
func ParseAlgorithm(raw string) (Algorithm, error) {
	for _, a := range Algorithms() {
		if string(a) == raw {
			return a, nil
		}
	}
	return "", pkgerrors.NewValidationError("algorithm",
		fmt.Sprintf("unknown algorithm %q", raw))
}

// Point is one forecast observation.
type Point struct {
	Date  time.Time
	Value float64
}

// Model is the capability set shared by every forecasting engine.
// Lifecycle: constructed empty, then either Train (once) or Restore; Predict
// is only valid on a fitted model.
type Model interface {
	// Algorithm identifies the engine variant.
	Algorithm() Algorithm
	// Train fits the engine on the dataset table. It mutates internal state
	// exactly once; training failures leave the model unfitted.
	Train(frame *timeseries.Frame) error
	// Predict returns exactly days points immediately following the last
	// training date, ascending, restricted to the Close target.
	Predict(days int) ([]Point, error)
	// State serializes the fitted state to an opaque blob.
	State() ([]byte, error)
	// Restore reconstructs the fitted state from a blob, in lieu of training.
	Restore(state []byte) error
}

// NewModel constructs an empty model for the given algorithm.
func NewModel(alg Algorithm) (Model, error) {
	switch alg {
	case AlgorithmETS:
		return NewETS(), nil
	case AlgorithmSARIMAX:
		return NewSARIMAX(), nil
	case AlgorithmVARMAX:
		return NewVARMAX(), nil
	case AlgorithmProphet:
		return NewProphet(), nil
	default:
		return nil, pkgerrors.NewValidationError("algorithm",
			fmt.Sprintf("unknown algorithm %q", alg))
	}
}

// closeSeries extracts the Close target column from the training table.
func closeSeries(frame *timeseries.Frame) ([]float64, error) {
	series, ok := frame.Column(types.ColumnClose)
	if !ok {
		return nil, fmt.Errorf("training table has no %s column", types.ColumnClose)
	}
	return series, nil
}

// unixDay converts persisted unix seconds back to a UTC timestamp.
func unixDay(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

// horizonDates returns the days calendar dates immediately after last.
func horizonDates(last time.Time, days int) []time.Time {
	out := make([]time.Time, days)
	for i := range out {
		out[i] = last.AddDate(0, 0, i+1)
	}
	return out
}

func encodeState(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("encode model state: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeState(state []byte, v interface{}) error {
	if err := gob.NewDecoder(bytes.NewReader(state)).Decode(v); err != nil {
		return fmt.Errorf("decode model state: %w", err)
	}
	return nil
}

// errNonFinite marks a least-squares solution containing NaN or Inf.
var errNonFinite = errors.New("least squares produced non-finite coefficients")

func notFitted(alg Algorithm) error {
	return fmt.Errorf("%s: model must be trained or restored before predict", alg)
}
