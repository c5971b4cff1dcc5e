// Package spreadsheet reads and writes .xlsx workbooks.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrSheetNotFound = errors.New("sheet not found in workbook")
	ErrNoHeader      = errors.New("workbook sheet has no header row")
)

// Read returns the first non-blank row of the sheet as the header and every following row as
// data. Blank rows between data rows come back empty; trailing blank rows are dropped. Cells keep their raw values, so time cells arrive as day fractions. An empty sheet
// name selects the first sheet.
func Read(r io.Reader, sheet string) ([]string, [][]any, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrSheetNotFound
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if !contains(sheets, sheet) {
		return nil, nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	var (
		header []string
		data   [][]any
	)
	for _, row := range rows {
		if header == nil {
			if !isBlank(row) {
				header = row
			}
			continue
		}
		// Blank rows after the header stay in place so row position keeps meaning.
		cells := []any{}
		if !isBlank(row) {
			cells = make([]any, len(row))
			for i, v := range row {
				if strings.TrimSpace(v) != "" {
					cells[i] = v
				}
			}
		}
		data = append(data, cells)
	}
	if header == nil {
		return nil, nil, ErrNoHeader
	}
	for len(data) > 0 && len(data[len(data)-1]) == 0 {
		data = data[:len(data)-1]
	}
	return header, data, nil
}

// Write renders a single-sheet workbook with a bold header row.
func Write(w io.Writer, sheet string, header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if len(header) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
