package types

import (
	"regexp"

	pkgerrors "github.com/quantbay/stockcast/internal/errors"
)

// TickerSymbol is a validated stock ticker: exactly 4 uppercase ASCII letters.
type TickerSymbol string

var tickerPattern = regexp.MustCompile(`^[A-Z]{4}$`)

// ParseTicker validates a raw ticker string. Validation happens here, before
// any I/O; downstream components accept only TickerSymbol values.
func ParseTicker(raw string) (TickerSymbol, error) {
	if !tickerPattern.MatchString(raw) {
		return "", pkgerrors.NewValidationError("ticker_symbol",
			"must consist of exactly 4 uppercase letters, got: "+raw)
	}
	return TickerSymbol(raw), nil
}

func (t TickerSymbol) String() string { return string(t) }
