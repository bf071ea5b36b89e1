// Package dataset persists enriched time-series tables as one CSV file per
// ticker under a configurable directory.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/quantbay/stockcast/pkg/timeseries"
)

const dateLayout = "2006-01-02"

// Store reads and writes dataset CSV files in a single directory.
type Store struct {
	dir string
}

// NewStore creates a dataset store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create dataset dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".csv")
}

// Save writes the frame to <dir>/<key>.csv, overwriting any prior version.
// The write goes through a temp file and rename so a failed save never
// leaves a partial dataset behind.
func (s *Store) Save(frame *timeseries.Frame, key string) error {
	tmp, err := os.CreateTemp(s.dir, key+".csv.tmp*")
	if err != nil {
		return fmt.Errorf("create temp dataset file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeCSV(tmp, frame); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp dataset file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("commit dataset file: %w", err)
	}
	return nil
}

// List enumerates the available dataset keys by scanning the directory.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("scan dataset dir: %w", err)
	}
	var keys []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(e.Name(), ".csv"))
	}
	sort.Strings(keys)
	return keys, nil
}

// Load reads a previously saved dataset, parsing the Date column and
// re-establishing it as the row key.
func (s *Store) Load(key string) (*timeseries.Frame, error) {
	file, err := os.Open(s.path(key))
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", key, err)
	}
	defer file.Close()
	return readCSV(file)
}

func writeCSV(w io.Writer, frame *timeseries.Frame) error {
	writer := csv.NewWriter(w)
	cols := frame.Columns()
	header := append([]string{"Date"}, cols...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write dataset header: %w", err)
	}
	dates := frame.Dates()
	record := make([]string, len(header))
	for i := range dates {
		record[0] = dates[i].Format(dateLayout)
		for j, c := range cols {
			v := frame.Value(i, c)
			if math.IsNaN(v) {
				record[j+1] = ""
			} else {
				record[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write dataset row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func readCSV(r io.Reader) (*timeseries.Frame, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}
	if len(header) < 2 || header[0] != "Date" {
		return nil, fmt.Errorf("dataset header must start with Date, got %v", header)
	}
	cols := header[1:]
	data := make(map[string][]float64, len(cols))
	for _, c := range cols {
		data[c] = nil
	}
	var dates []time.Time
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset line %d: %w", line, err)
		}
		line++
		d, err := time.Parse(dateLayout, record[0])
		if err != nil {
			return nil, fmt.Errorf("bad date %q at line %d: %w", record[0], line, err)
		}
		dates = append(dates, timeseries.Day(d))
		for j, c := range cols {
			cell := record[j+1]
			if cell == "" {
				data[c] = append(data[c], math.NaN())
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("bad value %q at line %d: %w", cell, line, err)
			}
			data[c] = append(data[c], v)
		}
	}
	return timeseries.New(dates, cols, data)
}
