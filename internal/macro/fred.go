// Package macro joins named external economic time series onto a dataset
// frame, in caller-supplied order, by inner join on Date.
package macro

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	pkgerrors "github.com/quantbay/stockcast/internal/errors"
	"github.com/quantbay/stockcast/pkg/timeseries"
)

const fredObservationsURL = "https://api.stlouisfed.org/fred/series/observations"

// SeriesFetcher retrieves one dated numeric series restricted to a date range.
// The returned frame has a single column named after the series ID.
type SeriesFetcher interface {
	Series(ctx context.Context, seriesID string, start, end time.Time) (*timeseries.Frame, error)
}

// FREDClient implements SeriesFetcher against the FRED observations API.
type FREDClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewFREDClient creates a FRED client with the given API key.
func NewFREDClient(apiKey string) *FREDClient {
	return &FREDClient{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: fredObservationsURL,
		apiKey:  apiKey,
	}
}

// NewFREDClientWithBase creates a FRED client against a custom endpoint for tests.
func NewFREDClientWithBase(client *http.Client, baseURL, apiKey string) *FREDClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &FREDClient{client: client, baseURL: baseURL, apiKey: apiKey}
}

type fredResponse struct {
	ErrorMessage string `json:"error_message"`
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// Series fetches observations of one series inside [start, end]. Missing
// observations (FRED emits ".") are skipped.
func (c *FREDClient) Series(ctx context.Context, seriesID string, start, end time.Time) (*timeseries.Frame, error) {
	q := url.Values{}
	q.Set("series_id", seriesID)
	q.Set("api_key", c.apiKey)
	q.Set("file_type", "json")
	q.Set("observation_start", start.Format("2006-01-02"))
	q.Set("observation_end", end.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, pkgerrors.NewExternalSeriesUnavailableError(seriesID, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, pkgerrors.NewExternalSeriesUnavailableError(seriesID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.NewExternalSeriesUnavailableError(seriesID, err)
	}

	var parsed fredResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, pkgerrors.NewExternalSeriesUnavailableError(seriesID, fmt.Errorf("fred decode: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		msg := parsed.ErrorMessage
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return nil, pkgerrors.NewExternalSeriesUnavailableError(seriesID, fmt.Errorf("fred: %s", msg))
	}

	var dates []time.Time
	var values []float64
	for _, obs := range parsed.Observations {
		if obs.Value == "." {
			continue
		}
		d, err := time.Parse("2006-01-02", obs.Date)
		if err != nil {
			return nil, pkgerrors.NewExternalSeriesUnavailableError(seriesID,
				fmt.Errorf("fred: bad observation date %q", obs.Date))
		}
		v, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			return nil, pkgerrors.NewExternalSeriesUnavailableError(seriesID,
				fmt.Errorf("fred: bad observation value %q", obs.Value))
		}
		dates = append(dates, timeseries.Day(d))
		values = append(values, v)
	}
	frame, err := timeseries.New(dates, []string{seriesID}, map[string][]float64{seriesID: values})
	if err != nil {
		return nil, pkgerrors.NewExternalSeriesUnavailableError(seriesID, err)
	}
	return frame, nil
}
