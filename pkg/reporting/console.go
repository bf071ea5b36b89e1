// Package reporting renders datasets and forecasts for humans: rounded
// console tables and an Excel workbook export.
package reporting

import (
	"fmt"
	"io"
	"math"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/quantbay/stockcast/internal/forecast"
	"github.com/quantbay/stockcast/pkg/timeseries"
)

const dateLayout = "2006-01-02"

// ForecastSet is one algorithm's forecast for a company.
type ForecastSet struct {
	Algorithm forecast.Algorithm
	Points    []forecast.Point
}

// ConsoleReporter writes tables to a single output stream.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a reporter writing to out.
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

// DatasetSummary prints one dataset's shape and date coverage.
func (r *ConsoleReporter) DatasetSummary(key string, frame *timeseries.Frame) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("DATASET " + key)
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"Rows", frame.Len()},
		{"Columns", fmt.Sprintf("%d (%v)", len(frame.Columns()), frame.Columns())},
		{"From", frame.MinDate().Format(dateLayout)},
		{"To", frame.MaxDate().Format(dateLayout)},
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 10, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
	})
	t.Render()
	fmt.Fprintln(r.out)
}

// ForecastTable prints one row per forecast date with a column per algorithm.
// Every set must cover the same horizon.
func (r *ConsoleReporter) ForecastTable(company string, sets []ForecastSet) {
	if len(sets) == 0 {
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("FORECAST " + company)
	t.SetStyle(table.StyleRounded)

	header := table.Row{"Date"}
	for _, s := range sets {
		header = append(header, string(s.Algorithm))
	}
	t.AppendHeader(header)

	for i, p := range sets[0].Points {
		row := table.Row{p.Date.Format(dateLayout)}
		for _, s := range sets {
			row = append(row, formatValue(s.Points[i].Value))
		}
		t.AppendRow(row)
	}
	t.SetColumnConfigs(forecastColumnConfigs(len(sets)))
	t.Render()
	fmt.Fprintln(r.out)
}

func forecastColumnConfigs(algorithms int) []table.ColumnConfig {
	configs := []table.ColumnConfig{{Number: 1, WidthMin: 10, Align: text.AlignLeft}}
	for i := 0; i < algorithms; i++ {
		configs = append(configs, table.ColumnConfig{Number: i + 2, Align: text.AlignRight})
	}
	return configs
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return fmt.Sprintf("%.2f", v)
}
