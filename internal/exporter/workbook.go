package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet of the report workbook. CurrencyCols are 1-based
// column numbers that get the currency number format.
type Sheet struct {
	Name         string
	Headers      []string
	Rows         [][]any
	CurrencyCols []int
}

const currencyNumFmt = "$#,##0.00"

// WriteWorkbook writes the report sheets to an XLSX file at path
func WriteWorkbook(path string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	numFmt := currencyNumFmt
	currencyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return fmt.Errorf("failed to create currency style: %w", err)
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", sheet.Name, err)
			}
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				return fmt.Errorf("failed to add sheet %s: %w", sheet.Name, err)
			}
		}

		if err := writeSheet(f, sheet, currencyStyle); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet Sheet, currencyStyle int) error {
	for c, header := range sheet.Headers {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet.Name, cell, header); err != nil {
			return fmt.Errorf("failed to write header in %s: %w", sheet.Name, err)
		}
	}

	for r, row := range sheet.Rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet.Name, cell, value); err != nil {
				return fmt.Errorf("failed to write cell %s in %s: %w", cell, sheet.Name, err)
			}
		}
	}

	for _, col := range sheet.CurrencyCols {
		if len(sheet.Rows) == 0 {
			break
		}
		top, err := excelize.CoordinatesToCellName(col, 2)
		if err != nil {
			return err
		}
		bottom, err := excelize.CoordinatesToCellName(col, len(sheet.Rows)+1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet.Name, top, bottom, currencyStyle); err != nil {
			return fmt.Errorf("failed to style column %d in %s: %w", col, sheet.Name, err)
		}
	}

	return nil
}
