package viability

import "FinBpoSaas/api/bpo/coa"

// Item is one (description, percent, value) line inside a scenario sub-block.
// Percent is always stored as a percentage after normalization; the source
// sign of Valor is preserved.
type Item struct {
	Descricao string  `json:"descricao"`
	Pct       float64 `json:"pct"`
	Valor     float64 `json:"valor"`
}

// ScenarioBlocks holds the line items of one scenario, keyed by canonical
// sub-block tag.
type ScenarioBlocks struct {
	Nome   coa.Scenario       `json:"nome"`
	Blocos map[coa.Tag][]Item `json:"blocos"`
}

// DebtItem is one row of the DIVIDAS special block.
type DebtItem struct {
	Descricao     string  `json:"descricao"`
	ValorTotal    float64 `json:"valor_total"`
	ParcelaMensal float64 `json:"parcela_mensal"`
	SaldoDevedor  float64 `json:"saldo_devedor"`
}

// InvestmentItem is one row of the INVESTIMENTOS special block.
type InvestmentItem struct {
	Descricao     string  `json:"descricao"`
	Valor         float64 `json:"valor"`
	ParcelaMensal float64 `json:"parcela_mensal"`
}

// CapitalInvestmentItem is one row of INVESTIMENTOS GERAL NO NEGOCIO.
type CapitalInvestmentItem struct {
	Descricao string  `json:"descricao"`
	Valor     float64 `json:"valor"`
	Pct       float64 `json:"pct"`
}

// OperationalCostItem is one row of the GASTOS OPERACIONAIS special block.
type OperationalCostItem struct {
	Descricao string  `json:"descricao"`
	Pct       float64 `json:"pct"`
	Valor     float64 `json:"valor"`
}

// Specials bundles the four special sub-blocks read below the scenarios.
type Specials struct {
	Dividas            []DebtItem              `json:"dividas"`
	Investimentos      []InvestmentItem        `json:"investimentos"`
	InvestimentosGeral []CapitalInvestmentItem `json:"investimentos_geral"`
	GastosOperacionais []OperationalCostItem   `json:"gastos_operacionais"`
}

// Extraction is the normalized output of one viability workbook: three
// scenarios of tagged blocks plus the special blocks.
type Extraction struct {
	Cenarios  []ScenarioBlocks `json:"cenarios"`
	Especiais Specials         `json:"especiais"`
}

func (s Specials) empty() bool {
	return len(s.Dividas) == 0 && len(s.Investimentos) == 0 &&
		len(s.InvestimentosGeral) == 0 && len(s.GastosOperacionais) == 0
}
