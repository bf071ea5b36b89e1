package forecast

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/quantbay/stockcast/internal/monitoring"
	"github.com/quantbay/stockcast/internal/weights"
	"github.com/quantbay/stockcast/pkg/timeseries"
)

// Zoo resolves models per (company, algorithm) pair with load-or-train
// semantics: reconstruct from persisted weights when a record exists,
// otherwise train fresh and persist before returning. A cached model is never
// retrained unless its weight record is removed externally.
type Zoo struct {
	store    *weights.Store
	log      zerolog.Logger
	newModel func(Algorithm) (Model, error)
}

// NewZoo creates a zoo backed by the given weight store.
func NewZoo(store *weights.Store, log zerolog.Logger) *Zoo {
	return &Zoo{store: store, log: log, newModel: NewModel}
}

// Resolve returns a fitted model for the pair. The frame is only consulted
// when no persisted weight record exists.
func (z *Zoo) Resolve(company string, alg Algorithm, frame *timeseries.Frame) (Model, error) {
	model, err := z.newModel(alg)
	if err != nil {
		return nil, err
	}

	if z.store.Exists(company, string(alg)) {
		state, err := z.store.Load(company, string(alg))
		if err != nil {
			return nil, err
		}
		if err := model.Restore(state); err != nil {
			return nil, err
		}
		monitoring.RecordWeightCacheHit(string(alg))
		z.log.Debug().Str("company", company).Str("algorithm", string(alg)).
			Msg("model reconstructed from persisted weights")
		return model, nil
	}

	started := time.Now()
	if err := model.Train(frame); err != nil {
		// Nothing is persisted for a failed fit.
		return nil, err
	}
	state, err := model.State()
	if err != nil {
		return nil, err
	}
	if err := z.store.Save(state, company, string(alg)); err != nil {
		return nil, err
	}
	monitoring.RecordModelTrained(string(alg), time.Since(started).Seconds())
	z.log.Info().Str("company", company).Str("algorithm", string(alg)).
		Dur("took", time.Since(started)).Msg("model trained and persisted")
	return model, nil
}
