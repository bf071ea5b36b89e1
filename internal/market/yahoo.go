package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	pkgerrors "github.com/quantbay/stockcast/internal/errors"
	"github.com/quantbay/stockcast/pkg/timeseries"
	"github.com/quantbay/stockcast/pkg/types"
)

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=1d&range=max"

// YahooFetcher implements PriceFetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	client  *http.Client
	baseURL string
}

// NewYahooFetcher creates a Yahoo Finance fetcher with a sane default timeout.
func NewYahooFetcher() *YahooFetcher {
	return &YahooFetcher{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: yahooChartURL,
	}
}

// NewYahooFetcherWithBase creates a fetcher against a custom endpoint. Used
// by tests to point at a local server.
func NewYahooFetcherWithBase(client *http.Client, baseURL string) *YahooFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &YahooFetcher{client: client, baseURL: baseURL}
}

// yahooChart is the response envelope of the Yahoo Finance chart API. Price
// arrays use interface{} because Yahoo emits null for missing bars.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// History fetches the provider's full daily history for the symbol.
func (f *YahooFetcher) History(ctx context.Context, symbol types.TickerSymbol) (*timeseries.Frame, error) {
	u := fmt.Sprintf(f.baseURL, url.PathEscape(symbol.String()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, pkgerrors.NewDataUnavailableError(symbol.String(), err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, pkgerrors.NewDataUnavailableError(symbol.String(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.NewDataUnavailableError(symbol.String(), err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.NewDataUnavailableError(symbol.String(),
			fmt.Errorf("yahoo: status %d", resp.StatusCode))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, pkgerrors.NewDataUnavailableError(symbol.String(), fmt.Errorf("yahoo decode: %w", err))
	}
	if chart.Chart.Error != nil {
		return nil, pkgerrors.NewDataUnavailableError(symbol.String(),
			fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description))
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, pkgerrors.NewDataUnavailableError(symbol.String(), fmt.Errorf("yahoo: no data returned"))
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	// Every price array must line up with the timestamp axis.
	for _, series := range [][]interface{}{quote.Open, quote.High, quote.Low, quote.Close, quote.Volume} {
		if len(series) != len(result.Timestamp) {
			return nil, pkgerrors.NewDataUnavailableError(symbol.String(),
				fmt.Errorf("yahoo: quote arrays do not match timestamps"))
		}
	}
	bars := make([]types.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o, h := toFloat(quote.Open[i]), toFloat(quote.High[i])
		l, c := toFloat(quote.Low[i]), toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // null bars (holidays etc.)
		}
		bars = append(bars, types.OHLCV{
			// Time-of-day and timezone are discarded; only the calendar day matters.
			Timestamp: timeseries.Day(time.Unix(ts, 0).UTC()),
			Open:      o,
			High:      h,
			Low:       l,
			Close:     c,
			Volume:    toFloat(quote.Volume[i]),
		})
	}
	if len(bars) == 0 {
		return nil, pkgerrors.NewDataUnavailableError(symbol.String(), fmt.Errorf("yahoo: only null bars returned"))
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp.Before(bars[j].Timestamp) })
	return frameFromBars(dedupeByDay(bars))
}

// dedupeByDay keeps the last bar for each calendar day.
func dedupeByDay(bars []types.OHLCV) []types.OHLCV {
	out := bars[:0]
	for _, b := range bars {
		if len(out) > 0 && out[len(out)-1].Timestamp.Equal(b.Timestamp) {
			out[len(out)-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

func frameFromBars(bars []types.OHLCV) (*timeseries.Frame, error) {
	n := len(bars)
	dates := make([]time.Time, n)
	data := map[string][]float64{
		types.ColumnOpen:   make([]float64, n),
		types.ColumnHigh:   make([]float64, n),
		types.ColumnLow:    make([]float64, n),
		types.ColumnClose:  make([]float64, n),
		types.ColumnVolume: make([]float64, n),
	}
	for i, b := range bars {
		dates[i] = b.Timestamp
		data[types.ColumnOpen][i] = b.Open
		data[types.ColumnHigh][i] = b.High
		data[types.ColumnLow][i] = b.Low
		data[types.ColumnClose][i] = b.Close
		data[types.ColumnVolume][i] = b.Volume
	}
	return timeseries.New(dates, types.OHLCVColumns(), data)
}
