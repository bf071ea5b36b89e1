package forecast

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/quantbay/stockcast/internal/errors"
	"github.com/quantbay/stockcast/internal/weights"
	"github.com/quantbay/stockcast/pkg/timeseries"
)

type countingModel struct {
	Model
	trains *int
}

func (c *countingModel) Train(frame *timeseries.Frame) error {
	*c.trains++
	return c.Model.Train(frame)
}

func newCountingZoo(t *testing.T) (*Zoo, *weights.Store, *int) {
	t.Helper()
	store := weights.NewStore(t.TempDir())
	zoo := NewZoo(store, zerolog.Nop())
	trains := new(int)
	zoo.newModel = func(alg Algorithm) (Model, error) {
		model, err := NewModel(alg)
		if err != nil {
			return nil, err
		}
		return &countingModel{Model: model, trains: trains}, nil
	}
	return zoo, store, trains
}

func TestZoo_TrainsOnceThenLoads(t *testing.T) {
	zoo, store, trains := newCountingZoo(t)
	frame := linearFrame(t, 30, 100, 1)

	first, err := zoo.Resolve("AAPL", AlgorithmETS, frame)
	require.NoError(t, err)
	assert.Equal(t, 1, *trains)
	assert.True(t, store.Exists("AAPL", "ets"))

	second, err := zoo.Resolve("AAPL", AlgorithmETS, frame)
	require.NoError(t, err)
	assert.Equal(t, 1, *trains, "cached weights must short-circuit training")

	want, err := first.Predict(5)
	require.NoError(t, err)
	got, err := second.Predict(5)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestZoo_PairsAreIndependent(t *testing.T) {
	zoo, store, trains := newCountingZoo(t)
	frame := linearFrame(t, 120, 100, 1)

	_, err := zoo.Resolve("AAPL", AlgorithmETS, frame)
	require.NoError(t, err)
	_, err = zoo.Resolve("AAPL", AlgorithmSARIMAX, frame)
	require.NoError(t, err)
	_, err = zoo.Resolve("MSFT", AlgorithmETS, frame)
	require.NoError(t, err)

	assert.Equal(t, 3, *trains)
	assert.True(t, store.Exists("AAPL", "ets"))
	assert.True(t, store.Exists("AAPL", "sarimax"))
	assert.True(t, store.Exists("MSFT", "ets"))
}

func TestZoo_RemoveForcesRetrain(t *testing.T) {
	zoo, store, trains := newCountingZoo(t)
	frame := linearFrame(t, 30, 100, 1)

	_, err := zoo.Resolve("AAPL", AlgorithmETS, frame)
	require.NoError(t, err)
	require.NoError(t, store.Remove("AAPL", "ets"))

	_, err = zoo.Resolve("AAPL", AlgorithmETS, frame)
	require.NoError(t, err)
	assert.Equal(t, 2, *trains)
}

func TestZoo_FailedTrainingPersistsNothing(t *testing.T) {
	zoo, store, _ := newCountingZoo(t)
	tooShort := linearFrame(t, 3, 100, 1)

	_, err := zoo.Resolve("AAPL", AlgorithmETS, tooShort)

	var trainErr *pkgerrors.ModelTrainingError
	require.ErrorAs(t, err, &trainErr)
	assert.False(t, store.Exists("AAPL", "ets"))
}
