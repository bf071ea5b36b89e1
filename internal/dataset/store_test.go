package dataset

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantbay/stockcast/pkg/timeseries"
)

func sampleFrame(t *testing.T) *timeseries.Frame {
	t.Helper()
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 10
	dates := make([]time.Time, n)
	closes := make([]float64, n)
	sp500 := make([]float64, n)
	for i := 0; i < n; i++ {
		dates[i] = start.AddDate(0, 0, i)
		closes[i] = 10 + float64(i)
		sp500[i] = 3800 + float64(i)
	}
	sp500[3] = math.NaN()
	f, err := timeseries.New(dates, []string{"Close", "SP500"},
		map[string][]float64{"Close": closes, "SP500": sp500})
	require.NoError(t, err)
	return f
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	frame := sampleFrame(t)

	require.NoError(t, store.Save(frame, "TSLA"))
	loaded, err := store.Load("TSLA")
	require.NoError(t, err)

	assert.True(t, frame.Equal(loaded))
}

func TestStore_SaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	frame := sampleFrame(t)

	require.NoError(t, store.Save(frame, "TSLA"))
	smaller := frame.DropHead(5)
	require.NoError(t, store.Save(smaller, "TSLA"))

	loaded, err := store.Load("TSLA")
	require.NoError(t, err)
	assert.True(t, smaller.Equal(loaded))
}

func TestStore_List(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	frame := sampleFrame(t)

	require.NoError(t, store.Save(frame, "TSLA"))
	require.NoError(t, store.Save(frame, "AAPL"))
	// Stray non-dataset files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	keys, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "TSLA"}, keys)
}

func TestStore_HeaderLayout(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(sampleFrame(t), "TSLA"))
	raw, err := os.ReadFile(filepath.Join(dir, "TSLA.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Equal(t, "Date,Close,SP500", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2023-01-01,"))
	// NaN cells persist as empty fields.
	assert.Equal(t, "2023-01-04,13,", lines[4])
}

func TestStore_LoadMissingKey(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("ZZZZ")
	assert.Error(t, err)
}
