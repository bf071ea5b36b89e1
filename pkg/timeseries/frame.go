// Package timeseries provides the date-indexed table passed between pipeline
// stages. A Frame holds one row per date and a set of named float64 columns;
// NaN marks a missing cell. Transformations return new Frames so each stage
// owns its output and no mutable state is shared across stages.
package timeseries

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Frame is an ordered-by-date table of named numeric columns.
type Frame struct {
	dates []time.Time
	cols  []string
	data  map[string][]float64
}

// Day truncates a timestamp to calendar-day granularity in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// New builds a Frame from parallel slices. Dates must be strictly ascending
// calendar days and every column must match their length.
func New(dates []time.Time, cols []string, data map[string][]float64) (*Frame, error) {
	for i, d := range dates {
		if !d.Equal(Day(d)) {
			return nil, fmt.Errorf("date at row %d is not truncated to a calendar day: %v", i, d)
		}
		if i > 0 && !dates[i-1].Before(d) {
			return nil, fmt.Errorf("dates must be strictly ascending, row %d: %v after %v", i, d, dates[i-1])
		}
	}
	if len(cols) != len(data) {
		return nil, fmt.Errorf("column list has %d names but data has %d series", len(cols), len(data))
	}
	for _, c := range cols {
		series, ok := data[c]
		if !ok {
			return nil, fmt.Errorf("missing data for column %q", c)
		}
		if len(series) != len(dates) {
			return nil, fmt.Errorf("column %q has %d values for %d dates", c, len(series), len(dates))
		}
	}
	f := &Frame{
		dates: append([]time.Time(nil), dates...),
		cols:  append([]string(nil), cols...),
		data:  make(map[string][]float64, len(cols)),
	}
	for _, c := range cols {
		f.data[c] = append([]float64(nil), data[c]...)
	}
	return f, nil
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.dates) }

// Columns returns the column names in insertion order.
func (f *Frame) Columns() []string { return append([]string(nil), f.cols...) }

// Dates returns the row dates in ascending order.
func (f *Frame) Dates() []time.Time { return append([]time.Time(nil), f.dates...) }

// MinDate returns the first row date. Zero time on an empty frame.
func (f *Frame) MinDate() time.Time {
	if len(f.dates) == 0 {
		return time.Time{}
	}
	return f.dates[0]
}

// MaxDate returns the last row date. Zero time on an empty frame.
func (f *Frame) MaxDate() time.Time {
	if len(f.dates) == 0 {
		return time.Time{}
	}
	return f.dates[len(f.dates)-1]
}

// Column returns a copy of the named series.
func (f *Frame) Column(name string) ([]float64, bool) {
	series, ok := f.data[name]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), series...), true
}

// Value returns the cell at row i of the named column. NaN if absent.
func (f *Frame) Value(i int, name string) float64 {
	series, ok := f.data[name]
	if !ok || i < 0 || i >= len(series) {
		return math.NaN()
	}
	return series[i]
}

func (f *Frame) clone() *Frame {
	out := &Frame{
		dates: append([]time.Time(nil), f.dates...),
		cols:  append([]string(nil), f.cols...),
		data:  make(map[string][]float64, len(f.cols)),
	}
	for _, c := range f.cols {
		out.data[c] = append([]float64(nil), f.data[c]...)
	}
	return out
}

// WithColumn returns a new Frame with an additional column appended.
func (f *Frame) WithColumn(name string, vals []float64) (*Frame, error) {
	if _, exists := f.data[name]; exists {
		return nil, fmt.Errorf("column %q already exists", name)
	}
	if len(vals) != len(f.dates) {
		return nil, fmt.Errorf("column %q has %d values for %d rows", name, len(vals), len(f.dates))
	}
	out := f.clone()
	out.cols = append(out.cols, name)
	out.data[name] = append([]float64(nil), vals...)
	return out, nil
}

// Select returns a new Frame restricted to the given columns, in the given order.
func (f *Frame) Select(cols ...string) (*Frame, error) {
	out := &Frame{
		dates: append([]time.Time(nil), f.dates...),
		cols:  append([]string(nil), cols...),
		data:  make(map[string][]float64, len(cols)),
	}
	for _, c := range cols {
		series, ok := f.data[c]
		if !ok {
			return nil, fmt.Errorf("unknown column %q", c)
		}
		out.data[c] = append([]float64(nil), series...)
	}
	return out, nil
}

// DropHead returns a new Frame with the first n rows removed.
func (f *Frame) DropHead(n int) *Frame {
	if n <= 0 {
		return f.clone()
	}
	if n > len(f.dates) {
		n = len(f.dates)
	}
	out := &Frame{
		dates: append([]time.Time(nil), f.dates[n:]...),
		cols:  append([]string(nil), f.cols...),
		data:  make(map[string][]float64, len(f.cols)),
	}
	for _, c := range f.cols {
		out.data[c] = append([]float64(nil), f.data[c][n:]...)
	}
	return out
}

// InnerJoin combines two frames on Date, keeping only dates present in both.
// Columns of f come first, then columns of other; duplicate names are an error.
func (f *Frame) InnerJoin(other *Frame) (*Frame, error) {
	for _, c := range other.cols {
		if _, exists := f.data[c]; exists {
			return nil, fmt.Errorf("join would duplicate column %q", c)
		}
	}
	rightIdx := make(map[time.Time]int, len(other.dates))
	for i, d := range other.dates {
		rightIdx[d] = i
	}
	var keep []int       // row indices in f
	var rightRows []int  // matching row indices in other
	for i, d := range f.dates {
		if j, ok := rightIdx[d]; ok {
			keep = append(keep, i)
			rightRows = append(rightRows, j)
		}
	}
	out := &Frame{
		dates: make([]time.Time, len(keep)),
		cols:  append(append([]string(nil), f.cols...), other.cols...),
		data:  make(map[string][]float64, len(f.cols)+len(other.cols)),
	}
	for k, i := range keep {
		out.dates[k] = f.dates[i]
	}
	for _, c := range f.cols {
		src := f.data[c]
		series := make([]float64, len(keep))
		for k, i := range keep {
			series[k] = src[i]
		}
		out.data[c] = series
	}
	for _, c := range other.cols {
		src := other.data[c]
		series := make([]float64, len(rightRows))
		for k, j := range rightRows {
			series[k] = src[j]
		}
		out.data[c] = series
	}
	return out, nil
}

// ResampleDaily returns a new Frame with exactly one row per calendar day
// across [MinDate, MaxDate]. Days absent from the source get all-NaN cells.
func (f *Frame) ResampleDaily() *Frame {
	if len(f.dates) == 0 {
		return f.clone()
	}
	srcIdx := make(map[time.Time]int, len(f.dates))
	for i, d := range f.dates {
		srcIdx[d] = i
	}
	var days []time.Time
	for d := f.MinDate(); !d.After(f.MaxDate()); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	out := &Frame{
		dates: days,
		cols:  append([]string(nil), f.cols...),
		data:  make(map[string][]float64, len(f.cols)),
	}
	for _, c := range f.cols {
		src := f.data[c]
		series := make([]float64, len(days))
		for i, d := range days {
			if j, ok := srcIdx[d]; ok {
				series[i] = src[j]
			} else {
				series[i] = math.NaN()
			}
		}
		out.data[c] = series
	}
	return out
}

// RollingMeanCentered computes a centered rolling mean over every column,
// ignoring NaN values inside the window. For an even window w the window at
// row i spans rows [i-w/2, i+w/2-1], clamped to the frame bounds. Cells whose
// window holds fewer than minPeriods observations become NaN.
func (f *Frame) RollingMeanCentered(window, minPeriods int) *Frame {
	if minPeriods < 1 {
		minPeriods = 1
	}
	n := len(f.dates)
	lead := window / 2
	lag := window - lead - 1
	out := f.clone()
	for _, c := range f.cols {
		src := f.data[c]
		series := make([]float64, n)
		for i := 0; i < n; i++ {
			lo := i - lead
			if lo < 0 {
				lo = 0
			}
			hi := i + lag
			if hi >= n {
				hi = n - 1
			}
			sum, count := 0.0, 0
			for j := lo; j <= hi; j++ {
				if !math.IsNaN(src[j]) {
					sum += src[j]
					count++
				}
			}
			if count >= minPeriods {
				series[i] = sum / float64(count)
			} else {
				series[i] = math.NaN()
			}
		}
		out.data[c] = series
	}
	return out
}

// FillMissing returns a new Frame where every NaN cell is replaced by the
// corresponding cell of fill (matched by row position and column name). Cells
// that are NaN in both frames stay NaN.
func (f *Frame) FillMissing(fill *Frame) *Frame {
	out := f.clone()
	for _, c := range f.cols {
		src, ok := fill.data[c]
		if !ok || len(src) != len(f.dates) {
			continue
		}
		dst := out.data[c]
		for i := range dst {
			if math.IsNaN(dst[i]) {
				dst[i] = src[i]
			}
		}
	}
	return out
}

// HasMissing reports whether any cell is NaN.
func (f *Frame) HasMissing() bool {
	for _, c := range f.cols {
		for _, v := range f.data[c] {
			if math.IsNaN(v) {
				return true
			}
		}
	}
	return false
}

// Equal reports whether two frames have identical dates, columns (order
// included) and values. NaN cells compare equal to NaN.
func (f *Frame) Equal(other *Frame) bool {
	if other == nil || len(f.dates) != len(other.dates) || len(f.cols) != len(other.cols) {
		return false
	}
	for i := range f.dates {
		if !f.dates[i].Equal(other.dates[i]) {
			return false
		}
	}
	for i := range f.cols {
		if f.cols[i] != other.cols[i] {
			return false
		}
	}
	for _, c := range f.cols {
		a, b := f.data[c], other.data[c]
		for i := range a {
			if math.IsNaN(a[i]) && math.IsNaN(b[i]) {
				continue
			}
			if a[i] != b[i] {
				return false
			}
		}
	}
	return true
}

// SortedColumns returns the column names sorted alphabetically. Used by
// reporting where a stable order independent of insertion is wanted.
func (f *Frame) SortedColumns() []string {
	cols := f.Columns()
	sort.Strings(cols)
	return cols
}
