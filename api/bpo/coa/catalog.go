package coa

import "strings"

// Canonical chart-of-accounts tags. The raw Portuguese labels found in the
// workbooks are mapped here once, at the extraction boundary; everything
// downstream speaks canonical names only.
type Tag string

const (
	TagGeneral           Tag = "General"
	TagRevenue           Tag = "Revenue"
	TagControl           Tag = "Control"
	TagObligations       Tag = "Obligations"
	TagAdminCosts        Tag = "AdminCosts"
	TagRawMaterial       Tag = "RawMaterial"
	TagOperationalCosts  Tag = "OperationalCosts"
	TagPersonnel         Tag = "Personnel"
	TagDebts             Tag = "Debts"
	TagInvestments       Tag = "Investments"
	TagCapitalInvestment Tag = "CapitalInvestment"
)

// Scenario names of a viability analysis.
type Scenario string

const (
	ScenarioReal  Scenario = "Real"
	ScenarioPE    Scenario = "PE"
	ScenarioIdeal Scenario = "Ideal"
)

// labelTable is the fixed raw → canonical mapping. Unknown labels are
// rejected by Canon, never silently retagged.
var labelTable = map[string]Tag{
	"GERAL":    TagGeneral,
	"RECEITA":  TagRevenue,
	"CONTROLE DESPESAS POR NATURESAS SINTETICAS": TagControl,
	"OBRIGACOES":                     TagObligations,
	"GASTOS ADM":                     TagAdminCosts,
	"MATERIA PRIMA":                  TagRawMaterial,
	"GASTOS OPERACIONAIS":            TagOperationalCosts,
	"PESSOAL":                        TagPersonnel,
	"DIVIDAS":                        TagDebts,
	"INVESTIMENTOS":                  TagInvestments,
	"INVESTIMENTOS GERAL NO NEGOCIO": TagCapitalInvestment,
}

var scenarioTable = map[string]Scenario{
	"VIABILIADE FINANCEIRA REAL":                ScenarioReal,
	"VIABILIADE FINANCEIRA PONTO DE EQUILIBRIO": ScenarioPE,
	"VIABILIADE FINANCEIRA IDEAL":               ScenarioIdeal,
}

// ignoreSet holds descriptions that are layout noise, not line items.
var ignoreSet = map[string]bool{
	"RESULTADO REAL":      true,
	"RESULTADO IDEAL":     true,
	"PONTO DE EQUILIBRIO": true,
	"0":                   true,
}

var accentReplacer = strings.NewReplacer(
	"Á", "A", "À", "A", "Â", "A", "Ã", "A",
	"É", "E", "Ê", "E",
	"Í", "I",
	"Ó", "O", "Ô", "O", "Õ", "O",
	"Ú", "U", "Ü", "U",
	"Ç", "C",
	"á", "a", "à", "a", "â", "a", "ã", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u", "ü", "u",
	"ç", "c",
)

// Fold normalizes sheet text for comparison: trimmed, upper-cased,
// accent-stripped, inner whitespace collapsed.
func Fold(s string) string {
	s = accentReplacer.Replace(strings.TrimSpace(s))
	s = strings.ToUpper(s)
	return strings.Join(strings.Fields(s), " ")
}

// Canon maps a raw sub-block label to its canonical tag. ok is false for
// labels outside the fixed table.
func Canon(raw string) (Tag, bool) {
	t, ok := labelTable[Fold(raw)]
	return t, ok
}

// CanonScenario maps a raw scenario header to its canonical name.
func CanonScenario(raw string) (Scenario, bool) {
	s, ok := scenarioTable[Fold(raw)]
	return s, ok
}

// IsNoise reports whether a viability row description belongs to the ignore
// set and must be dropped silently.
func IsNoise(desc string) bool {
	return ignoreSet[Fold(desc)]
}

// NormalizePercent rescales Excel-native percent decimals. A magnitude below
// 1 is a detection signal for a raw decimal (0.1327 → 13.27); values at or
// above 1 are taken as-is, tolerant to human-entered 18.3.
func NormalizePercent(x float64) float64 {
	if x != 0 && x > -1 && x < 1 {
		return x * 100
	}
	return x
}
