package weights

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/quantbay/stockcast/internal/errors"
)

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())
	state := []byte{0x01, 0x02, 0xff, 0x00, 0x7f}

	require.NoError(t, store.Save(state, "TSLA", "ets"))

	assert.True(t, store.Exists("TSLA", "ets"))
	loaded, err := store.Load("TSLA", "ets")
	require.NoError(t, err)
	assert.Equal(t, state, loaded)
}

func TestStore_LoadMissing(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Load("TSLA", "varmax")

	var notFound *pkgerrors.WeightsNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "TSLA", notFound.Company)
	assert.Equal(t, "varmax", notFound.Algorithm)
	assert.False(t, store.Exists("TSLA", "varmax"))
}

func TestStore_Layout(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	require.NoError(t, store.Save([]byte("blob"), "TSLA", "sarimax"))

	_, err := os.Stat(filepath.Join(dir, "TSLA", "sarimax.ts"))
	assert.NoError(t, err)
}

func TestStore_OverwriteOnRetrain(t *testing.T) {
	store := NewStore(t.TempDir())

	require.NoError(t, store.Save([]byte("old"), "TSLA", "ets"))
	require.NoError(t, store.Save([]byte("new"), "TSLA", "ets"))

	loaded, err := store.Load("TSLA", "ets")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), loaded)
}

func TestStore_Remove(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, store.Save([]byte("blob"), "TSLA", "prophet"))

	require.NoError(t, store.Remove("TSLA", "prophet"))

	assert.False(t, store.Exists("TSLA", "prophet"))
	require.NoError(t, store.Remove("TSLA", "prophet"))
}
