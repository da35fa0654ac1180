package dre

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"FinBpoSaas/api/bpo/coa"
	"FinBpoSaas/api/bpo/monthly"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidRange means the end of the period range is before its start.
	ErrInvalidRange = errors.New("period range end is before its start")
	// ErrInvalidView means the requested dre_view is not one of the three.
	ErrInvalidView = errors.New("unknown dre view")
)

// Period is one fiscal month of the aggregation range.
type Period struct {
	Ano int `json:"ano"`
	Mes int `json:"mes"` // 1..12
}

func (p Period) Before(o Period) bool {
	if p.Ano != o.Ano {
		return p.Ano < o.Ano
	}
	return p.Mes < o.Mes
}

func (p Period) Next() Period {
	if p.Mes == 12 {
		return Period{Ano: p.Ano + 1, Mes: 1}
	}
	return Period{Ano: p.Ano, Mes: p.Mes + 1}
}

func (p Period) Label() string {
	return fmt.Sprintf("%02d/%d", p.Mes, p.Ano)
}

// SnapshotSource loads stored monthly snapshots. Missing months return
// (nil, nil) — the aggregator fills them with zeros rather than failing.
type SnapshotSource interface {
	Load(ctx context.Context, companyID, year, month int) (*monthly.Snapshot, error)
}

// Categoria is one revenue or expense category aggregated over the range.
// Orcado is locked to the first observed month's budget; RealizadoMedia is
// the monthly mean over the months actually present.
type Categoria struct {
	Nome           string  `json:"nome"`
	Orcado         float64 `json:"orcado"`
	RealizadoMedia float64 `json:"realizado_media"`
	Diferenca      float64 `json:"diferenca"`
}

// Series carries the per-month time series of the selected view, aligned
// with Meses; absent months hold zeros to preserve chart alignment.
type Series struct {
	Receita []float64 `json:"receita"`
	Despesa []float64 `json:"despesa"`
	Geral   []float64 `json:"geral"`
}

// Result is the aggregation output consumed by dashboards and reports.
type Result struct {
	Acumulados         monthly.DreTriplet   `json:"acumulados"`
	Orcamento          monthly.DreTriplet   `json:"orcamento"`
	NumMeses           int                  `json:"num_meses"`
	Meses              []string             `json:"meses"`
	Series             Series               `json:"series"`
	CategoriasReceita  map[string]Categoria `json:"categorias_receita"`
	CategoriasDespesa  map[string]Categoria `json:"categorias_despesa"`
	CodigosReceita     []string             `json:"codigos_receita"`
	CodigosDespesa     []string             `json:"codigos_despesa"`
	TotalReceitaOrcado float64              `json:"total_receita_orcado"`
}

type catAccum struct {
	nome      string
	orcado    decimal.Decimal
	orcadoSet bool
	realizado decimal.Decimal
}

// Aggregate walks the inclusive calendar range and folds the stored monthly
// snapshots into cumulative totals, a per-month series for the selected view
// and per-category means. An empty range (no snapshots at all) yields
// NumMeses = 0 and empty series; it is not an error.
func Aggregate(ctx context.Context, src SnapshotSource, companyID int, from, to Period, viewName string) (*Result, error) {
	if to.Before(from) {
		return nil, ErrInvalidRange
	}
	view, ok := coa.ViewByName(viewName)
	if !ok {
		return nil, ErrInvalidView
	}

	res := &Result{
		Series:            Series{Receita: []float64{}, Despesa: []float64{}, Geral: []float64{}},
		Meses:             []string{},
		CategoriasReceita: map[string]Categoria{},
		CategoriasDespesa: map[string]Categoria{},
		CodigosReceita:    []string{},
		CodigosDespesa:    []string{},
	}
	receitaCats := make(map[string]*catAccum)
	despesaCats := make(map[string]*catAccum)

	for p := from; !to.Before(p); p = p.Next() {
		res.Meses = append(res.Meses, p.Label())

		snap, err := src.Load(ctx, companyID, p.Ano, p.Mes)
		if err != nil {
			return nil, err
		}
		if snap == nil {
			res.Series.Receita = append(res.Series.Receita, 0)
			res.Series.Despesa = append(res.Series.Despesa, 0)
			res.Series.Geral = append(res.Series.Geral, 0)
			continue
		}

		res.NumMeses++
		res.Acumulados = addTriplet(res.Acumulados, snap.Dre)
		res.Orcamento = addTriplet(res.Orcamento, snap.DreOrcado)

		sel := selectView(snap.Dre, view.Name)
		res.Series.Receita = append(res.Series.Receita, sel.Receita)
		res.Series.Despesa = append(res.Series.Despesa, sel.Despesa)
		res.Series.Geral = append(res.Series.Geral, sel.Geral)

		accumCategories(snap, receitaCats, despesaCats)
	}

	finishCategories(receitaCats, res.CategoriasReceita, &res.CodigosReceita, res.NumMeses)
	finishCategories(despesaCats, res.CategoriasDespesa, &res.CodigosDespesa, res.NumMeses)

	total := decimal.Zero
	for _, c := range res.CategoriasReceita {
		total = total.Add(decimal.NewFromFloat(c.Orcado))
	}
	res.TotalReceitaOrcado = total.InexactFloat64()

	return res, nil
}

// accumCategories folds the level-2 items of one month: 1.0x prefixes are
// revenue categories, 2.0x are expense categories, anything else (including
// unmapped codes) is skipped. Expense amounts are taken absolute; budgets
// are expected constant across the period, so the first observed month wins.
func accumCategories(snap *monthly.Snapshot, receita, despesa map[string]*catAccum) {
	for _, it := range snap.Itens {
		if it.Nivel != 2 {
			continue
		}
		var bucket map[string]*catAccum
		abs := false
		switch {
		case strings.HasPrefix(it.Codigo, "1."):
			bucket = receita
		case strings.HasPrefix(it.Codigo, "2."):
			bucket = despesa
			abs = true
		default:
			continue
		}

		acc, ok := bucket[it.Codigo]
		if !ok {
			acc = &catAccum{nome: it.Nome}
			bucket[it.Codigo] = acc
		}
		realizado := decimal.NewFromFloat(it.Realizado)
		orcado := decimal.NewFromFloat(it.Orcado)
		if abs {
			realizado = realizado.Abs()
			orcado = orcado.Abs()
		}
		acc.realizado = acc.realizado.Add(realizado)
		if !acc.orcadoSet {
			acc.orcado = orcado
			acc.orcadoSet = true
		}
	}
}

func finishCategories(accums map[string]*catAccum, out map[string]Categoria, codes *[]string, numMeses int) {
	for code, acc := range accums {
		media := decimal.Zero
		if numMeses > 0 {
			media = acc.realizado.Div(decimal.NewFromInt(int64(numMeses)))
		}
		out[code] = Categoria{
			Nome:           acc.nome,
			Orcado:         acc.orcado.InexactFloat64(),
			RealizadoMedia: media.InexactFloat64(),
			Diferenca:      acc.orcado.Sub(media).InexactFloat64(),
		}
		*codes = append(*codes, code)
	}
	sort.Strings(*codes)
}

func selectView(t monthly.DreTriplet, name string) monthly.Totais {
	switch name {
	case "real":
		return t.Real
	case "real_mp":
		return t.RealMP
	default:
		return t.FluxoCaixa
	}
}

func addTotais(a, b monthly.Totais) monthly.Totais {
	return monthly.Totais{
		Receita: decimal.NewFromFloat(a.Receita).Add(decimal.NewFromFloat(b.Receita)).InexactFloat64(),
		Despesa: decimal.NewFromFloat(a.Despesa).Add(decimal.NewFromFloat(b.Despesa)).InexactFloat64(),
		Geral:   decimal.NewFromFloat(a.Geral).Add(decimal.NewFromFloat(b.Geral)).InexactFloat64(),
	}
}

func addTriplet(a, b monthly.DreTriplet) monthly.DreTriplet {
	return monthly.DreTriplet{
		FluxoCaixa: addTotais(a.FluxoCaixa, b.FluxoCaixa),
		Real:       addTotais(a.Real, b.Real),
		RealMP:     addTotais(a.RealMP, b.RealMP),
	}
}
