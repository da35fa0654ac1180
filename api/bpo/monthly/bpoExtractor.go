package monthly

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"

	"FinBpoSaas/api/bpo/coa"
	"FinBpoSaas/pkg/workbook"
)

// ErrUnexpectedLayout means the column count does not fit 3 + 4k + 7 with
// k in [1, 12].
var ErrUnexpectedLayout = errors.New("BPO workbook layout not recognized")

// Fixed layout anchors: A = code/name, B/C = viability pair, then k monthly
// quadruplets (orcado, realizado, %, variacao), then seven aggregate columns.
// Kept as named constants so alternative dialects stay a one-place change.
const (
	fixedLeadCols   = 3
	firstMonthCol   = 4
	quadrupletWidth = 4
	aggregateCols   = 7
	headerRows      = 3
	firstDataRow    = 4
)

var (
	codeRe     = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*$`)
	codeNameRe = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)*)\s*[-–:]?\s+(.+)$`)
)

// Extract parses a monthly BPO workbook. The base year keys month headers
// that carry no explicit year. Unknown chart-of-accounts codes are recorded
// in UnmappedCodes and never abort the extraction.
func Extract(wb *workbook.Workbook, baseYear int) (*Extraction, error) {
	maxCol := wb.MaxCol()
	span := maxCol - fixedLeadCols - aggregateCols
	if span <= 0 || span%quadrupletWidth != 0 {
		return nil, fmt.Errorf("%w: %d columns", ErrUnexpectedLayout, maxCol)
	}
	k := span / quadrupletWidth
	if k < 1 || k > 12 {
		return nil, fmt.Errorf("%w: %d month groups", ErrUnexpectedLayout, k)
	}

	meses, err := resolveMonths(wb, k, baseYear)
	if err != nil {
		return nil, err
	}

	ex := &Extraction{Meses: meses}
	seen := make(map[string]bool)
	unmapped := make(map[string]bool)
	lastCode := ""
	namedSeq := 0

	for row := firstDataRow; row <= wb.MaxRow(); row++ {
		colA := wb.Cell(row, 1)
		hasNumbers := rowHasNumbers(wb, row, maxCol)

		if colA == "" && !hasNumbers {
			continue
		}
		if colA != "" && !hasNumbers {
			// section title, preserved with its position in the item flow
			ex.Secoes = append(ex.Secoes, Section{Indice: len(ex.Itens), Titulo: colA})
			continue
		}

		codigo, nome := classifyRow(colA, &lastCode, &namedSeq)
		if codigo == "" {
			continue
		}
		if seen[codigo] {
			log.Printf("[BpoExtract] duplicate code %s at row %d, keeping first", codigo, row)
			continue
		}
		seen[codigo] = true

		if coa.ClassifyCode(codigo) == coa.FlowUnknown {
			unmapped[codigo] = true
		}

		item := Item{
			Codigo: codigo,
			Nome:   nome,
			Nivel:  coa.HierarchyLevel(codigo),
		}
		pct, _ := wb.CellFloat(row, 2)
		item.Viabilidade.Pct = coa.NormalizePercent(pct)
		item.Viabilidade.Valor, _ = wb.CellFloat(row, 3)

		for i := 0; i < k; i++ {
			base := firstMonthCol + quadrupletWidth*i
			orcado, _ := wb.CellFloat(row, base)
			realizado, _ := wb.CellFloat(row, base+1)
			pctA, _ := wb.CellFloat(row, base+2)
			variacao, _ := wb.CellFloat(row, base+3)
			item.Meses = append(item.Meses, MonthCell{
				Ano:         meses[i].Ano,
				Mes:         meses[i].Mes,
				Orcado:      orcado,
				Realizado:   realizado,
				PctAtingido: coa.NormalizePercent(pctA),
				Variacao:    variacao,
			})
		}

		aggBase := firstMonthCol + quadrupletWidth*k
		item.Totais.OrcadoTotal, _ = wb.CellFloat(row, aggBase)
		item.Totais.RealizadoTotal, _ = wb.CellFloat(row, aggBase+1)
		item.Totais.VariacaoTotal, _ = wb.CellFloat(row, aggBase+2)
		mp, _ := wb.CellFloat(row, aggBase+3)
		item.Totais.MediaPctRealizado = coa.NormalizePercent(mp)
		item.Totais.MediaRealizado, _ = wb.CellFloat(row, aggBase+4)
		mv, _ := wb.CellFloat(row, aggBase+5)
		item.Totais.MediaPctVariacao = coa.NormalizePercent(mv)
		item.Totais.MediaVariacao, _ = wb.CellFloat(row, aggBase+6)

		ex.Itens = append(ex.Itens, item)
	}

	for code := range unmapped {
		ex.UnmappedCodes = append(ex.UnmappedCodes, code)
	}
	sort.Strings(ex.UnmappedCodes)

	computeDre(ex)
	return ex, nil
}

// classifyRow resolves column A into a hierarchical code and a name. Pure
// codes and "1.01 - Vendas" forms advance the carried code prefix; plain
// names become synthetic children of the most recent code.
func classifyRow(colA string, lastCode *string, namedSeq *int) (string, string) {
	text := strings.TrimSpace(colA)
	if text == "" {
		return "", ""
	}
	if codeRe.MatchString(text) {
		*lastCode = text
		*namedSeq = 0
		return text, text
	}
	if m := codeNameRe.FindStringSubmatch(text); m != nil {
		*lastCode = m[1]
		*namedSeq = 0
		return m[1], strings.TrimSpace(m[2])
	}
	// named item at the deepest unknown level under the carried prefix
	parent := *lastCode
	if parent == "" {
		parent = "0"
	}
	*namedSeq++
	return fmt.Sprintf("%s.%03d", parent, *namedSeq), text
}

func rowHasNumbers(wb *workbook.Workbook, row, maxCol int) bool {
	for col := 2; col <= maxCol; col++ {
		if _, ok := wb.CellFloat(row, col); ok {
			return true
		}
	}
	return false
}
