package workbook

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// ErrInvalidWorkbook is returned when the file cannot be opened as a
// spreadsheet or has no sheets.
var ErrInvalidWorkbook = errors.New("invalid or unreadable workbook")

// Workbook is a read-only cursor over the first sheet of an uploaded
// spreadsheet. Coordinates are 1-based. The underlying file handle is fully
// consumed by Open, so callers may close it immediately.
type Workbook struct {
	rows          [][]string
	mergedAnchors map[[2]int]bool
	hasMergeInfo  bool
	maxRow        int
	maxCol        int
}

// Open reads an .xlsx or legacy .xls workbook from r. Merged-cell anchors are
// only available for .xlsx; for .xls HasMergeInfo reports false and layouts
// that need anchors must reject the file.
func Open(r io.Reader, filename string) (*Workbook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrInvalidWorkbook
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return openXlsx(data)
	case ".xls":
		return openXls(data)
	default:
		return nil, ErrInvalidWorkbook
	}
}

func openXlsx(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidWorkbook
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrInvalidWorkbook
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, ErrInvalidWorkbook
	}

	wb := &Workbook{
		rows:          rows,
		mergedAnchors: make(map[[2]int]bool),
		hasMergeInfo:  true,
	}
	wb.measure()

	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return nil, ErrInvalidWorkbook
	}
	for _, m := range merges {
		col, row, err := excelize.CellNameToCoordinates(m.GetStartAxis())
		if err != nil {
			continue
		}
		wb.mergedAnchors[[2]int{row, col}] = true
	}
	return wb, nil
}

func openXls(data []byte) (*Workbook, error) {
	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil || book == nil {
		return nil, ErrInvalidWorkbook
	}
	sheet := book.GetSheet(0)
	if sheet == nil {
		return nil, ErrInvalidWorkbook
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol()+1)
		for j := 0; j <= row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		rows = append(rows, cells)
	}

	wb := &Workbook{
		rows:          rows,
		mergedAnchors: make(map[[2]int]bool),
		hasMergeInfo:  false,
	}
	wb.measure()
	return wb, nil
}

func (w *Workbook) measure() {
	w.maxRow = len(w.rows)
	for _, row := range w.rows {
		if len(row) > w.maxCol {
			w.maxCol = len(row)
		}
	}
}

// MaxRow returns the number of the last row with content.
func (w *Workbook) MaxRow() int { return w.maxRow }

// MaxCol returns the widest column index seen in the sheet.
func (w *Workbook) MaxCol() int { return w.maxCol }

// HasMergeInfo reports whether merged-cell anchors were available in the
// source format.
func (w *Workbook) HasMergeInfo() bool { return w.hasMergeInfo }

// Cell returns the trimmed text of the cell at (row, col), 1-based. Cells
// outside the sheet are empty.
func (w *Workbook) Cell(row, col int) string {
	if row < 1 || row > len(w.rows) {
		return ""
	}
	r := w.rows[row-1]
	if col < 1 || col > len(r) {
		return ""
	}
	return strings.TrimSpace(r[col-1])
}

// CellFloat parses the cell as a number, tolerating currency prefixes, percent
// suffixes and both Brazilian (1.234,56) and plain (1234.56) separators.
func (w *Workbook) CellFloat(row, col int) (float64, bool) {
	return ParseNumber(w.Cell(row, col))
}

// IsMergedAnchor reports whether (row, col) is the top-left cell of a merged
// range. Always false for formats without merge info.
func (w *Workbook) IsMergedAnchor(row, col int) bool {
	return w.mergedAnchors[[2]int{row, col}]
}

// IsBlankRow reports whether every cell in the row is empty or whitespace.
func (w *Workbook) IsBlankRow(row int) bool {
	if row < 1 || row > len(w.rows) {
		return true
	}
	for _, c := range w.rows[row-1] {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ParseNumber converts spreadsheet text to a float. Returns false for empty
// or non-numeric text.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	// Brazilian format uses '.' for thousands and ',' for decimals
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}
