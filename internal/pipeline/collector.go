// Package pipeline wires the collection stages together: fetch price history,
// enrich with indicators and macro series, densify, persist. One run produces
// exactly one dataset file or no output at all.
package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/quantbay/stockcast/internal/dataset"
	"github.com/quantbay/stockcast/internal/gapfill"
	"github.com/quantbay/stockcast/internal/indicators"
	"github.com/quantbay/stockcast/internal/macro"
	"github.com/quantbay/stockcast/internal/market"
	"github.com/quantbay/stockcast/internal/monitoring"
	"github.com/quantbay/stockcast/pkg/timeseries"
	"github.com/quantbay/stockcast/pkg/types"
)

// Collector runs the full enrichment pipeline for one ticker at a time.
type Collector struct {
	prices market.PriceFetcher
	series macro.SeriesFetcher
	store  *dataset.Store
	macros []string
	log    zerolog.Logger
}

// NewCollector assembles a collector. macroSeries is joined in the given
// order; a different order can produce a different surviving row set.
func NewCollector(prices market.PriceFetcher, series macro.SeriesFetcher,
	store *dataset.Store, macroSeries []string, log zerolog.Logger) *Collector {
	return &Collector{
		prices: prices,
		series: series,
		store:  store,
		macros: append([]string(nil), macroSeries...),
		log:    log,
	}
}

// Collect builds and persists the dataset for one ticker. Any stage failure
// aborts the run before Save, so the store never holds a partial dataset.
func (c *Collector) Collect(ctx context.Context, ticker types.TickerSymbol) (*timeseries.Frame, error) {
	log := c.log.With().Str("ticker", string(ticker)).Logger()

	frame, err := c.prices.History(ctx, ticker)
	if err != nil {
		monitoring.RecordFetchError("market")
		return nil, err
	}
	log.Debug().Int("rows", frame.Len()).
		Time("from", frame.MinDate()).Time("to", frame.MaxDate()).
		Msg("price history fetched")

	frame, err = indicators.Enrich(frame)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("rows", frame.Len()).Msg("indicator columns added")

	frame, err = macro.Enrich(ctx, c.series, frame, c.macros)
	if err != nil {
		monitoring.RecordFetchError("macro")
		return nil, err
	}
	log.Debug().Int("rows", frame.Len()).Strs("series", c.macros).
		Msg("macro series joined")

	frame = gapfill.Fill(frame)

	if err := c.store.Save(frame, string(ticker)); err != nil {
		return nil, err
	}
	monitoring.RecordDatasetCollected(string(ticker))
	log.Info().Int("rows", frame.Len()).Int("columns", len(frame.Columns())).
		Msg("dataset persisted")
	return frame, nil
}
