package monthly

import (
	"errors"
	"testing"
)

func TestParseMonthHeader(t *testing.T) {
	cases := []struct {
		in   string
		want MonthKey
	}{
		{"JANEIRO", MonthKey{2025, 1}},
		{"janeiro", MonthKey{2025, 1}},
		{"Fev/25", MonthKey{2025, 2}},
		{"MARÇO 2024", MonthKey{2024, 3}},
		{"ABR-26", MonthKey{2026, 4}},
		{"MAIO/2023", MonthKey{2023, 5}},
		{"MES DE AGOSTO", MonthKey{2025, 8}},
		{"  Dezembro  ", MonthKey{2025, 12}},
	}
	for _, c := range cases {
		got, err := ParseMonthHeader(c.in, 2025)
		if err != nil {
			t.Errorf("ParseMonthHeader(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseMonthHeader(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestParseMonthHeaderUnknown(t *testing.T) {
	for _, in := range []string{"", "TOTAL", "TRIMESTRE 1", "13/2025"} {
		if _, err := ParseMonthHeader(in, 2025); !errors.Is(err, ErrUnknownMonthHeader) {
			t.Errorf("ParseMonthHeader(%q) err = %v, want ErrUnknownMonthHeader", in, err)
		}
	}
}
