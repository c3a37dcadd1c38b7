// Package workbook reads spreadsheet exports into named sheets of
// header-keyed rows.
package workbook

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/devicelab-dev/casesheet/pkg/core"
	"github.com/xuri/excelize/v2"
)

// CSVSheetName is the name given to the only sheet of a CSV file.
const CSVSheetName = "Sheet1"

// Row maps every header of its sheet to the cell text ("" when empty).
type Row map[string]string

// Sheet is one named table. Headers come from the first row.
type Sheet struct {
	Name    string
	Headers []string
	Rows    []Row
}

// Workbook is an imported file with its sheets in file order.
type Workbook struct {
	Name   string
	Sheets []Sheet
}

// SheetNames returns the sheet names in file order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}

// Sheet returns the named sheet.
func (w *Workbook) Sheet(name string) (*Sheet, error) {
	for i := range w.Sheets {
		if w.Sheets[i].Name == name {
			return &w.Sheets[i], nil
		}
	}
	return nil, core.ErrSheetNotFound.WithDetails(map[string]interface{}{"sheet": name})
}

// Read parses a spreadsheet. Files named *.csv are read as CSV, anything
// else as xlsx.
func Read(name string, r io.Reader) (*Workbook, error) {
	if r == nil {
		return nil, core.ErrNoFile
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, core.ErrUnreadableWorkbook.WithCause(err)
	}
	if len(data) == 0 {
		return nil, core.ErrUnreadableWorkbook.WithCause(errors.New("file is empty"))
	}

	if strings.EqualFold(filepath.Ext(name), ".csv") {
		return readCSV(name, data)
	}
	return readXLSX(name, data)
}

func readXLSX(name string, data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, core.ErrUnreadableWorkbook.WithCause(err)
	}
	defer f.Close()

	wb := &Workbook{Name: filepath.Base(name)}
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return nil, core.ErrUnreadableWorkbook.WithCause(fmt.Errorf("sheet %s: %w", sheetName, err))
		}
		wb.Sheets = append(wb.Sheets, buildSheet(sheetName, rows))
	}
	return wb, nil
}

func readCSV(name string, data []byte) (*Workbook, error) {
	// Excel writes a BOM in front of UTF-8 CSV exports.
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, core.ErrUnreadableWorkbook.WithCause(err)
	}

	return &Workbook{
		Name:   filepath.Base(name),
		Sheets: []Sheet{buildSheet(CSVSheetName, records)},
	}, nil
}

// buildSheet turns raw cell rows into a header-keyed sheet. Blank header
// cells become __EMPTY, __EMPTY_1, ...; repeated headers get _1, _2, ...
// suffixes. Rows with no text at all are skipped.
func buildSheet(name string, raw [][]string) Sheet {
	sheet := Sheet{Name: name}
	if len(raw) == 0 {
		return sheet
	}

	sheet.Headers = uniqueHeaders(raw[0])
	for _, cells := range raw[1:] {
		if blank(cells) {
			continue
		}
		row := make(Row, len(sheet.Headers))
		for i, h := range sheet.Headers {
			if i < len(cells) {
				row[h] = cells[i]
			} else {
				row[h] = ""
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}

func uniqueHeaders(cells []string) []string {
	// Trailing blank header cells carry no column.
	last := len(cells)
	for last > 0 && strings.TrimSpace(cells[last-1]) == "" {
		last--
	}

	used := make(map[string]bool, last)
	headers := make([]string, 0, last)
	for _, c := range cells[:last] {
		base := strings.TrimSpace(c)
		if base == "" {
			base = "__EMPTY"
		}
		h := base
		for n := 1; used[h]; n++ {
			h = fmt.Sprintf("%s_%d", base, n)
		}
		used[h] = true
		headers = append(headers, h)
	}
	return headers
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
