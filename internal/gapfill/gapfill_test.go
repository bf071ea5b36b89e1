package gapfill

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantbay/stockcast/pkg/timeseries"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// sparseFrame builds a frame spanning n days with weekends missing, like a
// trading calendar.
func sparseFrame(t *testing.T, n int) *timeseries.Frame {
	t.Helper()
	var dates []time.Time
	var closes []float64
	for i := 0; i < n; i++ {
		d := day(2023, 3, 1).AddDate(0, 0, i)
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		dates = append(dates, d)
		closes = append(closes, 50+float64(i))
	}
	f, err := timeseries.New(dates, []string{"Close"}, map[string][]float64{"Close": closes})
	require.NoError(t, err)
	return f
}

func TestFill_ProducesDenseDailyCalendar(t *testing.T) {
	f := sparseFrame(t, 40)

	filled := Fill(f)

	span := int(filled.MaxDate().Sub(filled.MinDate()).Hours()/24) + 1
	assert.Equal(t, span, filled.Len())
	assert.False(t, filled.HasMissing())
}

func TestFill_Idempotent(t *testing.T) {
	filled := Fill(sparseFrame(t, 40))

	again := Fill(filled)

	assert.True(t, filled.Equal(again))
}

func TestFill_InteriorGapsAlwaysFilled(t *testing.T) {
	// 31+ day span with a single missing interior day.
	var dates []time.Time
	var closes []float64
	for i := 0; i < 35; i++ {
		if i == 17 {
			continue
		}
		dates = append(dates, day(2023, 5, 1).AddDate(0, 0, i))
		closes = append(closes, 100+float64(i))
	}
	f, err := timeseries.New(dates, []string{"Close"}, map[string][]float64{"Close": closes})
	require.NoError(t, err)

	filled := Fill(f)

	assert.Equal(t, 35, filled.Len())
	assert.False(t, filled.HasMissing())
}

func TestFill_KeepsObservedValues(t *testing.T) {
	f := sparseFrame(t, 20)
	filled := Fill(f)

	idx := 0
	for i, d := range filled.Dates() {
		if d.Equal(f.Dates()[idx]) {
			assert.Equal(t, f.Value(idx, "Close"), filled.Value(i, "Close"))
			idx++
			if idx == f.Len() {
				break
			}
		}
	}
	assert.Equal(t, f.Len(), idx)
}
