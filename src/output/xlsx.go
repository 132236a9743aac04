package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"circle-stats/src/provider"
)

// WorkbookFile is the name of the optional workbook.
const WorkbookFile = "circle-stats.xlsx"

// Sheet is one dataset of a workbook.
type Sheet struct {
	Name   string
	Fields []string
	Rows   []map[string]string
}

// WriteXLSX writes each sheet with a header row, in the same column order as the CSV files.
func WriteXLSX(path string, sheets []Sheet) error {
	book := excelize.NewFile()
	defer book.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := book.SetSheetName("Sheet1", sheet.Name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := book.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet.Name, err)
		}

		if err := populateSheet(book, sheet); err != nil {
			return err
		}
	}

	if err := book.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

// populateSheet fills one row per record.
func populateSheet(book *excelize.File, sheet Sheet) error {
	header := make([]interface{}, len(sheet.Fields))
	for i, f := range sheet.Fields {
		header[i] = f
	}
	if err := book.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet.Name, err)
	}

	for i, row := range sheet.Rows {
		values := make([]interface{}, len(sheet.Fields))
		for j, f := range sheet.Fields {
			v, ok := row[f]
			if !ok {
				return &provider.SchemaError{Field: f, Record: fmt.Sprintf("%s row %d", sheet.Name, i+1)}
			}
			values[j] = v
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := book.SetSheetRow(sheet.Name, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet.Name, i+1, err)
		}
	}
	return nil
}
