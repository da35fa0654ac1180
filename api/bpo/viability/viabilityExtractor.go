package viability

import (
	"errors"

	"FinBpoSaas/api/bpo/coa"
	"FinBpoSaas/pkg/workbook"
)

var (
	// ErrMissingScenarios means the header row carries none of the three
	// scenario cells.
	ErrMissingScenarios = errors.New("viability workbook has no scenario headers")
	// ErrEmptyExtraction means every block and every special block came out
	// empty.
	ErrEmptyExtraction = errors.New("viability workbook produced no items")
	// ErrNoMergeInfo means the source format cannot expose merged anchors,
	// which the three-scenario layout detection depends on.
	ErrNoMergeInfo = errors.New("viability workbook format has no merged cell info")
)

// scenarioAnchors are the fixed header coordinates of the three scenarios and
// the first column of each scenario's (desc, pct, value) triplet. Kept as a
// table so alternative dialects can be plugged in without code changes.
var scenarioAnchors = []struct {
	headerRow, headerCol int
	descCol              int
}{
	{1, 1, 1}, // A1 → A/B/C
	{1, 5, 5}, // E1 → E/F/G
	{1, 9, 9}, // I1 → I/J/K
}

// subBlockTags are the seven named blocks recognized by merged anchors in
// column A, in sheet order.
var subBlockTags = []coa.Tag{
	coa.TagRevenue,
	coa.TagControl,
	coa.TagObligations,
	coa.TagAdminCosts,
	coa.TagRawMaterial,
	coa.TagOperationalCosts,
	coa.TagPersonnel,
}

type blockSpan struct {
	tag        coa.Tag
	start, end int // inclusive rows
}

// Extract recognizes the three-scenario layout and emits per-scenario line
// items plus the four special blocks. Missing named blocks yield empty
// blocks; a workbook with no items at all fails with ErrEmptyExtraction.
func Extract(wb *workbook.Workbook) (*Extraction, error) {
	if !wb.HasMergeInfo() {
		return nil, ErrNoMergeInfo
	}

	scenarios := readScenarioHeaders(wb)
	if len(scenarios) == 0 {
		return nil, ErrMissingScenarios
	}

	spans := findBlocks(wb)

	out := &Extraction{}
	itemCount := 0
	for _, sc := range scenarios {
		blocks := ScenarioBlocks{
			Nome:   sc.name,
			Blocos: make(map[coa.Tag][]Item),
		}
		for _, tag := range append([]coa.Tag{coa.TagGeneral}, subBlockTags...) {
			blocks.Blocos[tag] = []Item{}
		}
		for _, span := range spans {
			items := readBlockItems(wb, span, sc.descCol)
			blocks.Blocos[span.tag] = items
			itemCount += len(items)
		}
		out.Cenarios = append(out.Cenarios, blocks)
	}

	out.Especiais = readSpecials(wb)

	if itemCount == 0 && out.Especiais.empty() {
		return nil, ErrEmptyExtraction
	}
	return out, nil
}

type scenarioRef struct {
	name    coa.Scenario
	descCol int
}

func readScenarioHeaders(wb *workbook.Workbook) []scenarioRef {
	var out []scenarioRef
	for _, a := range scenarioAnchors {
		raw := wb.Cell(a.headerRow, a.headerCol)
		if raw == "" {
			continue
		}
		name, ok := coa.CanonScenario(raw)
		if !ok {
			continue
		}
		out = append(out, scenarioRef{name: name, descCol: a.descCol})
	}
	return out
}

// findBlocks scans column A for merged anchors whose text equals a known
// sub-block label. Each block opens right below its anchor and closes at the
// row before the next blank row. A synthetic GERAL block spans row 3 to the
// row above the first named block's anchor, capturing the scenario-level
// totals printed above it.
func findBlocks(wb *workbook.Workbook) []blockSpan {
	var spans []blockSpan
	maxRow := wb.MaxRow()

	for row := 1; row <= maxRow; row++ {
		raw := wb.Cell(row, 1)
		if raw == "" || !wb.IsMergedAnchor(row, 1) {
			continue
		}
		tag, ok := coa.Canon(raw)
		if !ok || !isSubBlock(tag) {
			continue
		}
		start := row + 1
		end := maxRow
		for r := start; r <= maxRow; r++ {
			if wb.IsBlankRow(r) {
				end = r - 1
				break
			}
		}
		if end >= start {
			spans = append(spans, blockSpan{tag: tag, start: start, end: end})
		}
	}

	if len(spans) > 0 && spans[0].start-2 >= 3 {
		geral := blockSpan{tag: coa.TagGeneral, start: 3, end: spans[0].start - 2}
		spans = append([]blockSpan{geral}, spans...)
	}
	return spans
}

func isSubBlock(tag coa.Tag) bool {
	for _, t := range subBlockTags {
		if t == tag {
			return true
		}
	}
	return false
}

// readBlockItems reads the (desc, pct, value) triplet of one scenario over a
// block span. Rows with an empty description or one in the ignore set are
// dropped.
func readBlockItems(wb *workbook.Workbook, span blockSpan, descCol int) []Item {
	items := []Item{}
	for row := span.start; row <= span.end; row++ {
		desc := wb.Cell(row, descCol)
		if desc == "" || coa.IsNoise(desc) {
			continue
		}
		pct, _ := wb.CellFloat(row, descCol+1)
		val, _ := wb.CellFloat(row, descCol+2)
		items = append(items, Item{
			Descricao: desc,
			Pct:       coa.NormalizePercent(pct),
			Valor:     val,
		})
	}
	return items
}

// readSpecials scans column A for the four special headers. One title row is
// skipped below each header; rows end at the next blank row. Rows where every
// numeric field is zero are dropped.
func readSpecials(wb *workbook.Workbook) Specials {
	var sp Specials
	maxRow := wb.MaxRow()

	for row := 1; row <= maxRow; row++ {
		tag, ok := coa.Canon(wb.Cell(row, 1))
		if !ok {
			continue
		}
		switch tag {
		case coa.TagDebts, coa.TagInvestments, coa.TagCapitalInvestment:
			// fall through to read below
		case coa.TagOperationalCosts:
			// GASTOS OPERACIONAIS is also a scenario sub-block; as a special
			// header it is never a merged anchor.
			if wb.IsMergedAnchor(row, 1) {
				continue
			}
		default:
			continue
		}

		start := row + 2 // skip one title row
		for r := start; r <= maxRow && !wb.IsBlankRow(r); r++ {
			desc := wb.Cell(r, 1)
			n1, _ := wb.CellFloat(r, 2)
			n2, _ := wb.CellFloat(r, 3)
			n3, _ := wb.CellFloat(r, 4)
			if n1 == 0 && n2 == 0 && n3 == 0 {
				continue
			}
			switch tag {
			case coa.TagDebts:
				sp.Dividas = append(sp.Dividas, DebtItem{
					Descricao: desc, ValorTotal: n1, ParcelaMensal: n2, SaldoDevedor: n3,
				})
			case coa.TagInvestments:
				sp.Investimentos = append(sp.Investimentos, InvestmentItem{
					Descricao: desc, Valor: n1, ParcelaMensal: n2,
				})
			case coa.TagCapitalInvestment:
				sp.InvestimentosGeral = append(sp.InvestimentosGeral, CapitalInvestmentItem{
					Descricao: desc, Valor: n1, Pct: coa.NormalizePercent(n2),
				})
			case coa.TagOperationalCosts:
				sp.GastosOperacionais = append(sp.GastosOperacionais, OperationalCostItem{
					Descricao: desc, Pct: coa.NormalizePercent(n1), Valor: n2,
				})
			}
		}
	}
	return sp
}
