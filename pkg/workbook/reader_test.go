package workbook

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildXlsx(t *testing.T, fill func(f *excelize.File, sheet string)) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetList()[0]
	fill(f, sheet)
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestOpenXlsx(t *testing.T) {
	r := buildXlsx(t, func(f *excelize.File, sheet string) {
		f.SetCellValue(sheet, "A1", "  RECEITA  ")
		f.SetCellValue(sheet, "B2", "R$ 1.234,56")
		f.SetCellValue(sheet, "C3", 42)
		f.MergeCell(sheet, "A5", "C5")
		f.SetCellValue(sheet, "A5", "GERAL")
	})

	wb, err := Open(r, "planilha.xlsx")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !wb.HasMergeInfo() {
		t.Error("xlsx should expose merge info")
	}
	if got := wb.Cell(1, 1); got != "RECEITA" {
		t.Errorf("Cell(1,1) = %q, want trimmed RECEITA", got)
	}
	if v, ok := wb.CellFloat(2, 2); !ok || v != 1234.56 {
		t.Errorf("CellFloat(2,2) = %v %v, want 1234.56", v, ok)
	}
	if v, ok := wb.CellFloat(3, 3); !ok || v != 42 {
		t.Errorf("CellFloat(3,3) = %v %v, want 42", v, ok)
	}
	if !wb.IsMergedAnchor(5, 1) {
		t.Error("A5 should be a merged anchor")
	}
	if wb.IsMergedAnchor(5, 2) {
		t.Error("B5 is inside a merge but not its anchor")
	}
	if !wb.IsBlankRow(4) {
		t.Error("row 4 should be blank")
	}
	if wb.IsBlankRow(1) {
		t.Error("row 1 should not be blank")
	}
	// out-of-sheet coordinates are empty, not a panic
	if got := wb.Cell(999, 999); got != "" {
		t.Errorf("out-of-sheet cell = %q, want empty", got)
	}
}

func TestOpenRejectsGarbage(t *testing.T) {
	if _, err := Open(strings.NewReader("not a spreadsheet"), "x.xlsx"); err != ErrInvalidWorkbook {
		t.Errorf("garbage xlsx: err = %v, want ErrInvalidWorkbook", err)
	}
	if _, err := Open(strings.NewReader("not a spreadsheet"), "x.xls"); err != ErrInvalidWorkbook {
		t.Errorf("garbage xls: err = %v, want ErrInvalidWorkbook", err)
	}
	if _, err := Open(strings.NewReader("csv,data"), "x.csv"); err != ErrInvalidWorkbook {
		t.Errorf("unknown extension: err = %v, want ErrInvalidWorkbook", err)
	}
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"42", 42, true},
		{"-42", -42, true},
		{"1234.56", 1234.56, true},
		{"1.234,56", 1234.56, true},
		{"1.234.567,89", 1234567.89, true},
		{"R$ 1.500,00", 1500, true},
		{"R$2000", 2000, true},
		{"13,27%", 13.27, true},
		{"18.3%", 18.3, true},
		{"(500)", -500, true},
		{"(1.234,50)", -1234.5, true},
		{"0,5", 0.5, true},
	}
	for _, c := range cases {
		got, ok := ParseNumber(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseNumber(%q) = %v %v, want %v %v", c.in, got, ok, c.want, c.ok)
		}
	}
}
