package reporting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/quantbay/stockcast/pkg/timeseries"
)

// ExcelReporter exports a dataset and its forecasts as an xlsx workbook.
type ExcelReporter struct{}

// NewExcelReporter creates a new Excel reporter.
func NewExcelReporter() *ExcelReporter {
	return &ExcelReporter{}
}

// WriteReport writes a workbook with a Dataset sheet and one Forecast sheet.
func (r *ExcelReporter) WriteReport(path, company string, frame *timeseries.Frame, sets []ForecastSet) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const datasetSheet = "Dataset"
	const forecastSheet = "Forecast"
	fx.SetSheetName(fx.GetSheetName(0), datasetSheet)
	if _, err := fx.NewSheet(forecastSheet); err != nil {
		return fmt.Errorf("create forecast sheet: %w", err)
	}

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF", Family: "Calibri"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2F5496"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := r.writeDatasetSheet(fx, datasetSheet, frame, headerStyle); err != nil {
		return err
	}
	if err := r.writeForecastSheet(fx, forecastSheet, sets, headerStyle); err != nil {
		return err
	}
	return fx.SaveAs(path)
}

func (r *ExcelReporter) writeDatasetSheet(fx *excelize.File, sheet string, frame *timeseries.Frame, headerStyle int) error {
	cols := frame.Columns()
	header := []interface{}{"Date"}
	for _, c := range cols {
		header = append(header, c)
	}
	if err := fx.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write dataset header: %w", err)
	}
	if err := styleHeaderRow(fx, sheet, len(header), headerStyle); err != nil {
		return err
	}

	dates := frame.Dates()
	for i := range dates {
		row := make([]interface{}, 0, len(cols)+1)
		row = append(row, dates[i].Format(dateLayout))
		for _, c := range cols {
			v := frame.Value(i, c)
			if math.IsNaN(v) {
				row = append(row, nil)
			} else {
				row = append(row, v)
			}
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write dataset row %d: %w", i, err)
		}
	}
	return nil
}

func (r *ExcelReporter) writeForecastSheet(fx *excelize.File, sheet string, sets []ForecastSet, headerStyle int) error {
	header := []interface{}{"Date"}
	for _, s := range sets {
		header = append(header, string(s.Algorithm))
	}
	if err := fx.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write forecast header: %w", err)
	}
	if err := styleHeaderRow(fx, sheet, len(header), headerStyle); err != nil {
		return err
	}
	if len(sets) == 0 {
		return nil
	}

	for i, p := range sets[0].Points {
		row := []interface{}{p.Date.Format(dateLayout)}
		for _, s := range sets {
			row = append(row, s.Points[i].Value)
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write forecast row %d: %w", i, err)
		}
	}
	return nil
}

func styleHeaderRow(fx *excelize.File, sheet string, width int, style int) error {
	last, err := excelize.CoordinatesToCellName(width, 1)
	if err != nil {
		return err
	}
	if err := fx.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("style header row: %w", err)
	}
	return nil
}
