package errors

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input (ticker symbols, configuration).
// It is raised before any I/O and never silently coerced.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// DataUnavailableError reports that the market-data provider has no data for
// a symbol or is unreachable.
type DataUnavailableError struct {
	Symbol     string
	Underlying error
}

func (e *DataUnavailableError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("market data unavailable for %s: %v", e.Symbol, e.Underlying)
	}
	return fmt.Sprintf("market data unavailable for %s", e.Symbol)
}

func (e *DataUnavailableError) Unwrap() error { return e.Underlying }

func NewDataUnavailableError(symbol string, underlying error) *DataUnavailableError {
	return &DataUnavailableError{Symbol: symbol, Underlying: underlying}
}

// ExternalSeriesUnavailableError reports a macro series ID unknown upstream.
type ExternalSeriesUnavailableError struct {
	SeriesID   string
	Underlying error
}

func (e *ExternalSeriesUnavailableError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("economic series %q unavailable: %v", e.SeriesID, e.Underlying)
	}
	return fmt.Sprintf("economic series %q unavailable", e.SeriesID)
}

func (e *ExternalSeriesUnavailableError) Unwrap() error { return e.Underlying }

func NewExternalSeriesUnavailableError(seriesID string, underlying error) *ExternalSeriesUnavailableError {
	return &ExternalSeriesUnavailableError{SeriesID: seriesID, Underlying: underlying}
}

// ModelTrainingError reports a failed or impossible model fit. A training
// failure aborts the load-or-train cycle without persisting partial state.
type ModelTrainingError struct {
	Algorithm  string
	Message    string
	Underlying error
}

func (e *ModelTrainingError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("training %s failed: %s: %v", e.Algorithm, e.Message, e.Underlying)
	}
	return fmt.Sprintf("training %s failed: %s", e.Algorithm, e.Message)
}

func (e *ModelTrainingError) Unwrap() error { return e.Underlying }

func NewModelTrainingError(algorithm, message string, underlying error) *ModelTrainingError {
	return &ModelTrainingError{Algorithm: algorithm, Message: message, Underlying: underlying}
}

// WeightsNotFoundError reports a reconstruction request for a (company,
// algorithm) pair with no persisted weight record.
type WeightsNotFoundError struct {
	Company   string
	Algorithm string
}

func (e *WeightsNotFoundError) Error() string {
	return fmt.Sprintf("no persisted weights for %s/%s", e.Company, e.Algorithm)
}

func NewWeightsNotFoundError(company, algorithm string) *WeightsNotFoundError {
	return &WeightsNotFoundError{Company: company, Algorithm: algorithm}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsWeightsNotFound reports whether err is a WeightsNotFoundError.
func IsWeightsNotFound(err error) bool {
	var we *WeightsNotFoundError
	return errors.As(err, &we)
}
