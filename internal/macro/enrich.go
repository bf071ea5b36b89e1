package macro

import (
	"context"

	"github.com/quantbay/stockcast/pkg/timeseries"
)

// Enrich joins each economic series onto the frame, in list order. Every join
// is an inner join on Date restricted to the running frame's date range, so
// each series further narrows the surviving rows; join order must match the
// caller-supplied order exactly.
func Enrich(ctx context.Context, fetcher SeriesFetcher, frame *timeseries.Frame, seriesIDs []string) (*timeseries.Frame, error) {
	out := frame
	for _, id := range seriesIDs {
		series, err := fetcher.Series(ctx, id, out.MinDate(), out.MaxDate())
		if err != nil {
			return nil, err
		}
		out, err = out.InnerJoin(series)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
