package macro

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/quantbay/stockcast/internal/errors"
	"github.com/quantbay/stockcast/pkg/timeseries"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func baseFrame(t *testing.T, n int) *timeseries.Frame {
	t.Helper()
	dates := make([]time.Time, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		dates[i] = day(2023, 1, 1).AddDate(0, 0, i)
		closes[i] = 10 + float64(i)
	}
	f, err := timeseries.New(dates, []string{"Close"}, map[string][]float64{"Close": closes})
	require.NoError(t, err)
	return f
}

// stubFetcher serves canned series and records requested ranges.
type stubFetcher struct {
	series map[string]*timeseries.Frame
	calls  []string
}

func (s *stubFetcher) Series(_ context.Context, id string, start, end time.Time) (*timeseries.Frame, error) {
	s.calls = append(s.calls, id)
	f, ok := s.series[id]
	if !ok {
		return nil, pkgerrors.NewExternalSeriesUnavailableError(id, nil)
	}
	return f, nil
}

func seriesFrame(t *testing.T, id string, dates []time.Time, vals []float64) *timeseries.Frame {
	t.Helper()
	f, err := timeseries.New(dates, []string{id}, map[string][]float64{id: vals})
	require.NoError(t, err)
	return f
}

func TestEnrich_JoinsInOrder(t *testing.T) {
	base := baseFrame(t, 6)
	fetcher := &stubFetcher{series: map[string]*timeseries.Frame{
		"SP500":  seriesFrame(t, "SP500", []time.Time{day(2023, 1, 2), day(2023, 1, 4)}, []float64{100, 102}),
		"T10YIE": seriesFrame(t, "T10YIE", []time.Time{day(2023, 1, 2), day(2023, 1, 4), day(2023, 1, 6)}, []float64{2.1, 2.2, 2.3}),
	}}

	out, err := Enrich(context.Background(), fetcher, base, []string{"T10YIE", "SP500"})
	require.NoError(t, err)

	assert.Equal(t, []string{"T10YIE", "SP500"}, fetcher.calls)
	assert.Equal(t, []string{"Close", "T10YIE", "SP500"}, out.Columns())
	assert.Equal(t, []time.Time{day(2023, 1, 2), day(2023, 1, 4)}, out.Dates())
}

func TestEnrich_DateSetIsOrderIndependent(t *testing.T) {
	fetcher := &stubFetcher{series: map[string]*timeseries.Frame{
		"A": seriesFrame(t, "A", []time.Time{day(2023, 1, 1), day(2023, 1, 3), day(2023, 1, 5)}, []float64{1, 1, 1}),
		"B": seriesFrame(t, "B", []time.Time{day(2023, 1, 3), day(2023, 1, 5), day(2023, 1, 6)}, []float64{2, 2, 2}),
	}}

	ab, err := Enrich(context.Background(), fetcher, baseFrame(t, 6), []string{"A", "B"})
	require.NoError(t, err)
	ba, err := Enrich(context.Background(), fetcher, baseFrame(t, 6), []string{"B", "A"})
	require.NoError(t, err)

	assert.Equal(t, ab.Dates(), ba.Dates())
	assert.Equal(t, []time.Time{day(2023, 1, 3), day(2023, 1, 5)}, ab.Dates())
}

func TestEnrich_UnknownSeriesFailsWholeRun(t *testing.T) {
	fetcher := &stubFetcher{series: map[string]*timeseries.Frame{}}

	_, err := Enrich(context.Background(), fetcher, baseFrame(t, 6), []string{"NOPE_INVALID"})

	var unavailable *pkgerrors.ExternalSeriesUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "NOPE_INVALID", unavailable.SeriesID)
}

func TestFREDClient_Series(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "SP500", r.URL.Query().Get("series_id"))
		assert.Equal(t, "json", r.URL.Query().Get("file_type"))
		assert.Equal(t, "2023-01-01", r.URL.Query().Get("observation_start"))
		w.Write([]byte(`{"observations":[
			{"date":"2023-01-02","value":"3824.14"},
			{"date":"2023-01-03","value":"."},
			{"date":"2023-01-04","value":"3852.97"}]}`))
	}))
	defer server.Close()

	client := NewFREDClientWithBase(server.Client(), server.URL, "test-key")
	frame, err := client.Series(context.Background(), "SP500", day(2023, 1, 1), day(2023, 1, 10))
	require.NoError(t, err)

	// The "." observation is dropped, not parsed as zero.
	assert.Equal(t, 2, frame.Len())
	assert.Equal(t, []string{"SP500"}, frame.Columns())
	assert.Equal(t, 3824.14, frame.Value(0, "SP500"))
	assert.Equal(t, 3852.97, frame.Value(1, "SP500"))
}

func TestFREDClient_UnknownSeries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error_code":400,"error_message":"The series does not exist."}`))
	}))
	defer server.Close()

	client := NewFREDClientWithBase(server.Client(), server.URL, "test-key")
	_, err := client.Series(context.Background(), "NOPE_INVALID", day(2023, 1, 1), day(2023, 1, 10))

	var unavailable *pkgerrors.ExternalSeriesUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Contains(t, unavailable.Error(), "does not exist")
}
