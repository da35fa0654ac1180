package coa

import "strings"

// FlowClass groups BPO item codes by their role in the result-of-flow
// computations. The grouping is keyed on the top-level code segment, which is
// how the consultants' chart of accounts is organized.
type FlowClass int

const (
	FlowUnknown FlowClass = iota
	FlowRevenue
	FlowOperational
	FlowFinancial
	FlowInvestment
	FlowRawMaterialNorm
)

// flowTable maps top-level code segments. Kept as a table rather than
// constants so alternative workbook dialects can be plugged in.
var flowTable = map[string]FlowClass{
	"1": FlowRevenue,
	"2": FlowOperational,
	"3": FlowFinancial,
	"4": FlowInvestment,
	"5": FlowRawMaterialNorm,
}

// RawMaterialPaidPrefix is the code of the paid raw-material line inside the
// operational block. The real_mp view substitutes its realized amount with
// the normalized raw-material cost carried by the FlowRawMaterialNorm block;
// the difference captures capital tied in inventory.
const RawMaterialPaidPrefix = "2.02"

// TopLevel returns the first segment of a dot-separated code.
func TopLevel(code string) string {
	if i := strings.IndexByte(code, '.'); i >= 0 {
		return code[:i]
	}
	return code
}

// HierarchyLevel is the number of dot-separated segments in a code.
func HierarchyLevel(code string) int {
	if code == "" {
		return 0
	}
	return strings.Count(code, ".") + 1
}

// ClassifyCode resolves a hierarchical code to its flow class. Unknown
// top-level segments are data, not errors; callers record them in the
// snapshot metadata.
func ClassifyCode(code string) FlowClass {
	return flowTable[TopLevel(code)]
}

// DreView describes one of the three parallel income-statement views as an
// inclusion predicate plus a substitution flag, so the computation site never
// branches on the view name.
type DreView struct {
	Name                  string
	IncludesExpense       map[FlowClass]bool
	SubstituteRawMaterial bool
}

// The three views: cash flow (everything), clean operational P&L (no
// investments, no financial expenses), and operational with the paid
// raw-material amount swapped for the normalized consumption cost.
var Views = []DreView{
	{
		Name: "fluxo_caixa",
		IncludesExpense: map[FlowClass]bool{
			FlowOperational: true,
			FlowFinancial:   true,
			FlowInvestment:  true,
		},
	},
	{
		Name: "real",
		IncludesExpense: map[FlowClass]bool{
			FlowOperational: true,
		},
	},
	{
		Name: "real_mp",
		IncludesExpense: map[FlowClass]bool{
			FlowOperational: true,
		},
		SubstituteRawMaterial: true,
	},
}

// ViewByName returns the view definition for an API-selected name.
func ViewByName(name string) (DreView, bool) {
	for _, v := range Views {
		if v.Name == name {
			return v, true
		}
	}
	return DreView{}, false
}
