package dre

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"FinBpoSaas/api/bpo/monthly"
)

// fakeSource serves snapshots from memory, keyed by year/month.
type fakeSource struct {
	snaps map[string]*monthly.Snapshot
	err   error
}

func (f *fakeSource) Load(ctx context.Context, companyID, year, month int) (*monthly.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snaps[fmt.Sprintf("%d-%d", year, month)], nil
}

func newFakeSource(snaps ...*monthly.Snapshot) *fakeSource {
	src := &fakeSource{snaps: map[string]*monthly.Snapshot{}}
	for _, s := range snaps {
		src.snaps[fmt.Sprintf("%d-%d", s.Ano, s.Mes)] = s
	}
	return src
}

func makeSnap(year, month int, vendas, aluguel float64) *monthly.Snapshot {
	receita := vendas
	despesa := math.Abs(aluguel)
	return &monthly.Snapshot{
		CompanyID: 1,
		Ano:       year,
		Mes:       month,
		Itens: []monthly.MonthItem{
			{Codigo: "1", Nome: "RECEITA", Nivel: 1, Realizado: vendas, Orcado: 300},
			{Codigo: "1.01", Nome: "Vendas", Nivel: 2, Realizado: vendas, Orcado: 300},
			{Codigo: "2.01", Nome: "Aluguel", Nivel: 2, Realizado: aluguel, Orcado: -120},
			{Codigo: "9.99", Nome: "Misterioso", Nivel: 2, Realizado: 77, Orcado: 0},
		},
		Dre: monthly.DreTriplet{
			FluxoCaixa: monthly.Totais{Receita: receita, Despesa: despesa, Geral: receita - despesa},
			Real:       monthly.Totais{Receita: receita, Despesa: despesa / 2, Geral: receita - despesa/2},
			RealMP:     monthly.Totais{Receita: receita, Despesa: despesa, Geral: receita - despesa},
		},
		DreOrcado: monthly.DreTriplet{
			FluxoCaixa: monthly.Totais{Receita: 300, Despesa: 120, Geral: 180},
		},
	}
}

func TestAggregateMeansAndCategories(t *testing.T) {
	src := newFakeSource(
		makeSnap(2025, 1, 200, -100),
		makeSnap(2025, 2, 200, -100),
		makeSnap(2025, 3, 200, -100),
	)

	res, err := Aggregate(context.Background(), src, 1, Period{2025, 1}, Period{2025, 3}, "fluxo_caixa")
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if res.NumMeses != 3 {
		t.Errorf("NumMeses = %d, want 3", res.NumMeses)
	}
	if res.Acumulados.FluxoCaixa.Receita != 600 || res.Acumulados.FluxoCaixa.Despesa != 300 {
		t.Errorf("acumulados = %+v", res.Acumulados.FluxoCaixa)
	}
	if res.Orcamento.FluxoCaixa.Receita != 900 {
		t.Errorf("orcamento receita = %v, want 900", res.Orcamento.FluxoCaixa.Receita)
	}

	vendas, ok := res.CategoriasReceita["1.01"]
	if !ok {
		t.Fatalf("category 1.01 missing: %v", res.CodigosReceita)
	}
	if vendas.RealizadoMedia != 200 || vendas.Orcado != 300 || vendas.Diferenca != 100 {
		t.Errorf("vendas = %+v", vendas)
	}
	aluguel, ok := res.CategoriasDespesa["2.01"]
	if !ok {
		t.Fatalf("category 2.01 missing: %v", res.CodigosDespesa)
	}
	// expense amounts aggregate absolute
	if aluguel.RealizadoMedia != 100 || aluguel.Orcado != 120 {
		t.Errorf("aluguel = %+v", aluguel)
	}

	// level-1 rows and unmapped codes never become categories
	if _, ok := res.CategoriasReceita["1"]; ok {
		t.Error("level-1 item must not be a category")
	}
	if len(res.CategoriasReceita) != 1 || len(res.CategoriasDespesa) != 1 {
		t.Errorf("categories = %v / %v", res.CodigosReceita, res.CodigosDespesa)
	}

	if res.TotalReceitaOrcado != 300 {
		t.Errorf("TotalReceitaOrcado = %v, want 300", res.TotalReceitaOrcado)
	}
	if len(res.Meses) != 3 || res.Meses[0] != "01/2025" || res.Meses[2] != "03/2025" {
		t.Errorf("meses = %v", res.Meses)
	}
	if len(res.Series.Geral) != 3 || res.Series.Geral[0] != 100 {
		t.Errorf("series geral = %v", res.Series.Geral)
	}
}

func TestAggregateBudgetFirstMonthWins(t *testing.T) {
	first := makeSnap(2025, 1, 200, -100)
	second := makeSnap(2025, 2, 200, -100)
	second.Itens[1].Orcado = 999

	res, err := Aggregate(context.Background(), newFakeSource(first, second), 1,
		Period{2025, 1}, Period{2025, 2}, "fluxo_caixa")
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if got := res.CategoriasReceita["1.01"].Orcado; got != 300 {
		t.Errorf("orcado = %v, want first observed month's 300", got)
	}
}

func TestAggregateMissingMonths(t *testing.T) {
	src := newFakeSource(makeSnap(2025, 2, 300, -90))

	res, err := Aggregate(context.Background(), src, 1, Period{2025, 1}, Period{2025, 3}, "fluxo_caixa")
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if res.NumMeses != 1 {
		t.Errorf("NumMeses = %d, want 1 (gaps are not months)", res.NumMeses)
	}
	if len(res.Meses) != 3 {
		t.Errorf("labels = %v, want full range", res.Meses)
	}
	wantReceita := []float64{0, 300, 0}
	for i, want := range wantReceita {
		if res.Series.Receita[i] != want {
			t.Errorf("series receita[%d] = %v, want %v", i, res.Series.Receita[i], want)
		}
	}
	// the mean divides by months present, not by range length
	if got := res.CategoriasReceita["1.01"].RealizadoMedia; got != 300 {
		t.Errorf("media = %v, want 300", got)
	}
}

func TestAggregateEmptyRange(t *testing.T) {
	res, err := Aggregate(context.Background(), newFakeSource(), 1,
		Period{2025, 1}, Period{2025, 2}, "real")
	if err != nil {
		t.Fatalf("empty range must not fail: %v", err)
	}
	if res.NumMeses != 0 {
		t.Errorf("NumMeses = %d, want 0", res.NumMeses)
	}
	if len(res.Meses) != 2 || len(res.Series.Receita) != 2 {
		t.Errorf("labels/series = %v / %v", res.Meses, res.Series.Receita)
	}
	if len(res.CategoriasReceita) != 0 || len(res.CodigosReceita) != 0 {
		t.Error("empty range must yield no categories")
	}
}

func TestAggregateYearBoundary(t *testing.T) {
	res, err := Aggregate(context.Background(), newFakeSource(), 1,
		Period{2024, 11}, Period{2025, 2}, "fluxo_caixa")
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	want := []string{"11/2024", "12/2024", "01/2025", "02/2025"}
	if len(res.Meses) != len(want) {
		t.Fatalf("meses = %v, want %v", res.Meses, want)
	}
	for i := range want {
		if res.Meses[i] != want[i] {
			t.Errorf("meses[%d] = %q, want %q", i, res.Meses[i], want[i])
		}
	}
}

func TestAggregateSelectedView(t *testing.T) {
	src := newFakeSource(makeSnap(2025, 1, 200, -100))

	res, err := Aggregate(context.Background(), src, 1, Period{2025, 1}, Period{2025, 1}, "real")
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	// the real view of makeSnap halves the expense
	if res.Series.Despesa[0] != 50 {
		t.Errorf("series despesa = %v, want the real view's 50", res.Series.Despesa)
	}
}

func TestAggregateErrors(t *testing.T) {
	src := newFakeSource()

	if _, err := Aggregate(context.Background(), src, 1, Period{2025, 3}, Period{2025, 1}, "real"); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("inverted range err = %v, want ErrInvalidRange", err)
	}
	if _, err := Aggregate(context.Background(), src, 1, Period{2025, 1}, Period{2025, 1}, "nope"); !errors.Is(err, ErrInvalidView) {
		t.Errorf("bad view err = %v, want ErrInvalidView", err)
	}

	boom := errors.New("connection reset")
	src.err = boom
	if _, err := Aggregate(context.Background(), src, 1, Period{2025, 1}, Period{2025, 1}, "real"); !errors.Is(err, boom) {
		t.Errorf("source error = %v, want propagated", err)
	}
}
