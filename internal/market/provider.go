// Package market retrieves daily OHLCV price history for a ticker symbol.
package market

import (
	"context"

	"github.com/quantbay/stockcast/pkg/timeseries"
	"github.com/quantbay/stockcast/pkg/types"
)

// PriceFetcher retrieves the full available daily price history for a symbol.
// The returned frame carries exactly the OHLCV columns with dates truncated
// to calendar days.
type PriceFetcher interface {
	History(ctx context.Context, symbol types.TickerSymbol) (*timeseries.Frame, error)
}
