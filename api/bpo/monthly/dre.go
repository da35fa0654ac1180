package monthly

import (
	"math"

	"FinBpoSaas/api/bpo/coa"

	"github.com/shopspring/decimal"
)

// cellValue selects one number out of a monthly quadruplet.
type cellValue func(MonthCell) float64

func realizedOf(c MonthCell) float64 { return c.Realizado }
func budgetOf(c MonthCell) float64   { return c.Orcado }

// classMonthSum totals one flow class for one month index. Within a class the
// sheet usually carries both a level-1 total row and its level-2 children;
// only the shallowest level present is summed, so parents and children are
// never double counted.
func classMonthSum(items []Item, class coa.FlowClass, monthIdx int, value cellValue) decimal.Decimal {
	minLevel := math.MaxInt32
	for _, it := range items {
		if coa.ClassifyCode(it.Codigo) == class && it.Nivel < minLevel {
			minLevel = it.Nivel
		}
	}
	sum := decimal.Zero
	if minLevel == math.MaxInt32 {
		return sum
	}
	for _, it := range items {
		if coa.ClassifyCode(it.Codigo) != class || it.Nivel != minLevel {
			continue
		}
		if monthIdx < len(it.Meses) {
			sum = sum.Add(decimal.NewFromFloat(value(it.Meses[monthIdx])))
		}
	}
	return sum
}

// itemMonthValue finds one exact code's value for a month, zero when absent.
func itemMonthValue(items []Item, code string, monthIdx int, value cellValue) decimal.Decimal {
	for _, it := range items {
		if it.Codigo == code && monthIdx < len(it.Meses) {
			return decimal.NewFromFloat(value(it.Meses[monthIdx]))
		}
	}
	return decimal.Zero
}

// viewTotals computes one view's {receita, despesa, geral} for one month.
// Receita keeps its source sign; expense classes are summed absolute.
func viewTotals(items []Item, view coa.DreView, monthIdx int, value cellValue) Totais {
	receita := classMonthSum(items, coa.FlowRevenue, monthIdx, value)

	despesa := decimal.Zero
	for class, ok := range view.IncludesExpense {
		if !ok {
			continue
		}
		despesa = despesa.Add(classMonthSum(items, class, monthIdx, value).Abs())
	}

	if view.SubstituteRawMaterial {
		paid := itemMonthValue(items, coa.RawMaterialPaidPrefix, monthIdx, value).Abs()
		norm := classMonthSum(items, coa.FlowRawMaterialNorm, monthIdx, value).Abs()
		despesa = despesa.Sub(paid).Add(norm)
	}

	geral := receita.Sub(despesa)
	return Totais{
		Receita: receita.InexactFloat64(),
		Despesa: despesa.InexactFloat64(),
		Geral:   geral.InexactFloat64(),
	}
}

func addTotais(a, b Totais) Totais {
	return Totais{
		Receita: decimal.NewFromFloat(a.Receita).Add(decimal.NewFromFloat(b.Receita)).InexactFloat64(),
		Despesa: decimal.NewFromFloat(a.Despesa).Add(decimal.NewFromFloat(b.Despesa)).InexactFloat64(),
		Geral:   decimal.NewFromFloat(a.Geral).Add(decimal.NewFromFloat(b.Geral)).InexactFloat64(),
	}
}

func addTriplet(a, b DreTriplet) DreTriplet {
	return DreTriplet{
		FluxoCaixa: addTotais(a.FluxoCaixa, b.FluxoCaixa),
		Real:       addTotais(a.Real, b.Real),
		RealMP:     addTotais(a.RealMP, b.RealMP),
	}
}

// computeDre fills the per-month and cumulative result-of-flow triples for
// the three parallel views, realized and budgeted.
func computeDre(ex *Extraction) {
	ex.DrePorMes = ex.DrePorMes[:0]
	var acum DreMonth

	for i, mes := range ex.Meses {
		dm := DreMonth{Ano: mes.Ano, Mes: mes.Mes}
		for _, view := range coa.Views {
			realized := viewTotals(ex.Itens, view, i, realizedOf)
			budget := viewTotals(ex.Itens, view, i, budgetOf)
			switch view.Name {
			case "fluxo_caixa":
				dm.Realizado.FluxoCaixa = realized
				dm.Orcado.FluxoCaixa = budget
			case "real":
				dm.Realizado.Real = realized
				dm.Orcado.Real = budget
			case "real_mp":
				dm.Realizado.RealMP = realized
				dm.Orcado.RealMP = budget
			}
		}
		ex.DrePorMes = append(ex.DrePorMes, dm)
		acum.Realizado = addTriplet(acum.Realizado, dm.Realizado)
		acum.Orcado = addTriplet(acum.Orcado, dm.Orcado)
	}
	ex.DreAcumulado = acum
}
