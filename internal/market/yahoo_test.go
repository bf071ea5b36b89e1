package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/quantbay/stockcast/internal/errors"
	"github.com/quantbay/stockcast/pkg/types"
)

func mustTicker(t *testing.T, s string) types.TickerSymbol {
	t.Helper()
	sym, err := types.ParseTicker(s)
	require.NoError(t, err)
	return sym
}

func TestYahooFetcher_History(t *testing.T) {
	// Two trading days plus a null bar that must be skipped.
	body := `{"chart":{"result":[{"timestamp":[1672531200,1672617600,1672704000],
		"indicators":{"quote":[{
			"open":[10.0,null,12.0],
			"high":[11.0,null,13.0],
			"low":[9.0,null,11.0],
			"close":[10.5,null,12.5],
			"volume":[1000,null,2000]}]}}],"error":null}}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	fetcher := NewYahooFetcherWithBase(server.Client(), server.URL+"/chart/%s")
	frame, err := fetcher.History(context.Background(), mustTicker(t, "TSLA"))
	require.NoError(t, err)

	assert.Equal(t, 2, frame.Len())
	assert.Equal(t, types.OHLCVColumns(), frame.Columns())
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), frame.MinDate())
	assert.Equal(t, time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC), frame.MaxDate())
	assert.Equal(t, 10.5, frame.Value(0, types.ColumnClose))
	assert.Equal(t, 2000.0, frame.Value(1, types.ColumnVolume))
}

func TestYahooFetcher_UnknownSymbol(t *testing.T) {
	body := `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(body))
	}))
	defer server.Close()

	fetcher := NewYahooFetcherWithBase(server.Client(), server.URL+"/chart/%s")
	_, err := fetcher.History(context.Background(), mustTicker(t, "ZZZZ"))

	var unavailable *pkgerrors.DataUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "ZZZZ", unavailable.Symbol)
}

func TestYahooFetcher_TruncatedQuoteArrays(t *testing.T) {
	// Price arrays shorter than the timestamp axis must fail, not panic.
	body := `{"chart":{"result":[{"timestamp":[1672531200,1672617600,1672704000],
		"indicators":{"quote":[{
			"open":[10.0],
			"high":[11.0],
			"low":[9.0],
			"close":[10.5],
			"volume":[1000]}]}}],"error":null}}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	fetcher := NewYahooFetcherWithBase(server.Client(), server.URL+"/chart/%s")
	_, err := fetcher.History(context.Background(), mustTicker(t, "TSLA"))

	var unavailable *pkgerrors.DataUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "TSLA", unavailable.Symbol)
}

func TestYahooFetcher_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	fetcher := NewYahooFetcherWithBase(nil, server.URL+"/chart/%s")
	_, err := fetcher.History(context.Background(), mustTicker(t, "AAPL"))

	var unavailable *pkgerrors.DataUnavailableError
	assert.ErrorAs(t, err, &unavailable)
}
