// Package sheet reads and writes the single-table xlsx workbooks used to
// move pipe schedules in and out of the calculators.
package sheet

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrMissingColumns = errors.New("missing required columns")

// NumFmt applies a custom number format, e.g. "0.00", to the column headed
// Header. Only the display changes; cells keep their full value.
type NumFmt struct {
	Header string
	Code   string
}

// Row is one data row; Text holds the cells of the text columns and Num
// the parsed numeric columns, both in the order requested.
type Row struct {
	Text []string
	Num  []float64
}

// Read loads the first sheet of an xlsx workbook. The header row must name
// every column in text and num. Rows with a blank required cell or a
// non-numeric value in a numeric column are dropped.
func Read(r io.Reader, text, num []string) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	want := append(append([]string(nil), text...), num...)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(want, ", "))
	}
	idx, err := columnIndex(rows[0], want)
	if err != nil {
		return nil, err
	}

	out := make([]Row, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells, ok := pick(row, idx)
		if !ok {
			continue
		}
		nums, ok := parseFloats(cells[len(text):])
		if !ok {
			continue
		}
		out = append(out, Row{Text: cells[:len(text)], Num: nums})
	}
	return out, nil
}

// Write creates a workbook with one sheet named name, a header row and the
// given rows.
func Write(w io.Writer, name string, header []string, rows [][]interface{}, formats ...NumFmt) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return err
	}
	h := make([]interface{}, len(header))
	for i, c := range header {
		h[i] = c
	}
	if err := f.SetSheetRow(name, "A1", &h); err != nil {
		return err
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &rows[i]); err != nil {
			return err
		}
	}
	for _, nf := range formats {
		if err := setNumFmt(f, name, header, nf); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func setNumFmt(f *excelize.File, name string, header []string, nf NumFmt) error {
	idx, err := columnIndex(header, []string{nf.Header})
	if err != nil {
		return err
	}
	col, err := excelize.ColumnNumberToName(idx[0] + 1)
	if err != nil {
		return err
	}
	code := nf.Code
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &code})
	if err != nil {
		return fmt.Errorf("number format %q: %w", code, err)
	}
	return f.SetColStyle(name, col, style)
}

func columnIndex(header, want []string) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(h)] = i
	}
	idx := make([]int, len(want))
	var missing []string
	for i, c := range want {
		p, ok := pos[c]
		if !ok {
			missing = append(missing, c)
			continue
		}
		idx[i] = p
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return idx, nil
}

func pick(row []string, idx []int) ([]string, bool) {
	out := make([]string, len(idx))
	for i, p := range idx {
		if p >= len(row) {
			return nil, false
		}
		v := strings.TrimSpace(row[p])
		if v == "" {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func parseFloats(cells []string) ([]float64, bool) {
	out := make([]float64, len(cells))
	for i, c := range cells {
		v, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
