package monthly

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"FinBpoSaas/api/bpo/coa"
	"FinBpoSaas/pkg/workbook"
)

// ErrUnknownMonthHeader means a monthly column group carries no recognizable
// Portuguese month name in the header rows. Fatal: without the month the
// quadruplet cannot be keyed.
var ErrUnknownMonthHeader = errors.New("unrecognized month header")

// monthNames maps folded Portuguese month names and their usual three letter
// abbreviations to 1..12.
var monthNames = map[string]int{
	"JANEIRO": 1, "JAN": 1,
	"FEVEREIRO": 2, "FEV": 2,
	"MARCO": 3, "MAR": 3,
	"ABRIL": 4, "ABR": 4,
	"MAIO": 5, "MAI": 5,
	"JUNHO": 6, "JUN": 6,
	"JULHO": 7, "JUL": 7,
	"AGOSTO": 8, "AGO": 8,
	"SETEMBRO": 9, "SET": 9,
	"OUTUBRO": 10, "OUT": 10,
	"NOVEMBRO": 11, "NOV": 11,
	"DEZEMBRO": 12, "DEZ": 12,
}

var yearSuffixRe = regexp.MustCompile(`(\d{2,4})\s*$`)

// ParseMonthHeader resolves header text like "JANEIRO", "Fev/25" or
// "MARÇO 2025" to a (year, month) pair. When the text carries no year the
// caller's base year is used.
func ParseMonthHeader(text string, baseYear int) (MonthKey, error) {
	folded := coa.Fold(text)
	if folded == "" {
		return MonthKey{}, ErrUnknownMonthHeader
	}

	year := baseYear
	if m := yearSuffixRe.FindStringSubmatch(folded); m != nil {
		if y, err := strconv.Atoi(m[1]); err == nil {
			switch {
			case y >= 1000:
				year = y
			case y < 100:
				year = 2000 + y
			}
		}
	}

	token := folded
	for _, sep := range []string{"/", "-", " "} {
		if i := strings.Index(token, sep); i > 0 {
			token = token[:i]
		}
	}
	if mes, ok := monthNames[token]; ok {
		return MonthKey{Ano: year, Mes: mes}, nil
	}
	// tolerate headers like "MES DE JANEIRO"
	for name, mes := range monthNames {
		if len(name) > 3 && strings.Contains(folded, name) {
			return MonthKey{Ano: year, Mes: mes}, nil
		}
	}
	return MonthKey{}, fmt.Errorf("%w: %q", ErrUnknownMonthHeader, text)
}

// resolveMonths reads header rows 1–3 above each monthly quadruplet and
// resolves every month index to a (year, month) pair.
func resolveMonths(wb *workbook.Workbook, k, baseYear int) ([]MonthKey, error) {
	out := make([]MonthKey, 0, k)
	for i := 0; i < k; i++ {
		startCol := firstMonthCol + quadrupletWidth*i
		var key MonthKey
		var err error
		found := false
		for row := 1; row <= headerRows && !found; row++ {
			for col := startCol; col < startCol+quadrupletWidth; col++ {
				text := wb.Cell(row, col)
				if text == "" {
					continue
				}
				key, err = ParseMonthHeader(text, baseYear)
				if err == nil {
					found = true
					break
				}
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: month column group %d", ErrUnknownMonthHeader, i+1)
		}
		out = append(out, key)
	}
	return out, nil
}
