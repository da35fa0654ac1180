package viability

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"FinBpoSaas/api/bpo/coa"
	"FinBpoSaas/pkg/workbook"
)

func buildViabilitySheet(t *testing.T, fill func(f *excelize.File, sheet string)) *workbook.Workbook {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetList()[0]
	fill(f, sheet)
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	wb, err := workbook.Open(bytes.NewReader(buf.Bytes()), "viabilidade.xlsx")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return wb
}

// fillViabilitySheet lays out the three-scenario sheet the consultants use:
// headers on row 1, general totals on rows 3-5, then merged named blocks and
// the special blocks at the bottom.
func fillViabilitySheet(f *excelize.File, sheet string) {
	f.SetCellValue(sheet, "A1", "VIABILIADE FINANCEIRA REAL")
	f.SetCellValue(sheet, "E1", "VIABILIADE FINANCEIRA PONTO DE EQUILÍBRIO")
	f.SetCellValue(sheet, "I1", "VIABILIADE FINANCEIRA IDEAL")

	// general rows, above the first named block
	f.SetCellValue(sheet, "A3", "FATURAMENTO")
	f.SetCellValue(sheet, "B3", 1.0)
	f.SetCellValue(sheet, "C3", 10000.0)
	f.SetCellValue(sheet, "A4", "RESULTADO REAL") // noise, dropped
	f.SetCellValue(sheet, "B4", 0.0)
	f.SetCellValue(sheet, "A5", "LUCRO")
	f.SetCellValue(sheet, "B5", 0.2)
	f.SetCellValue(sheet, "C5", 2000.0)
	f.SetCellValue(sheet, "E3", "FATURAMENTO")
	f.SetCellValue(sheet, "F3", 0.9)
	f.SetCellValue(sheet, "G3", 9000.0)

	f.MergeCell(sheet, "A8", "C8")
	f.SetCellValue(sheet, "A8", "RECEITA")
	f.SetCellValue(sheet, "A9", "Vendas")
	f.SetCellValue(sheet, "B9", 0.5)
	f.SetCellValue(sheet, "C9", 5000.0)
	f.SetCellValue(sheet, "A10", "Serviços")
	f.SetCellValue(sheet, "B10", 0.1)
	f.SetCellValue(sheet, "C10", 1000.0)
	f.SetCellValue(sheet, "E9", "Vendas")
	f.SetCellValue(sheet, "F9", 0.4)
	f.SetCellValue(sheet, "G9", 4000.0)

	f.MergeCell(sheet, "A12", "C12")
	f.SetCellValue(sheet, "A12", "PESSOAL")
	f.SetCellValue(sheet, "A13", "Salários")
	f.SetCellValue(sheet, "B13", 0.3)
	f.SetCellValue(sheet, "C13", 3000.0)

	// special blocks: plain headers, one title row, data until blank
	f.SetCellValue(sheet, "A16", "DÍVIDAS")
	f.SetCellValue(sheet, "A17", "DESCRIÇÃO")
	f.SetCellValue(sheet, "A18", "Financiamento")
	f.SetCellValue(sheet, "B18", 50000.0)
	f.SetCellValue(sheet, "C18", 2000.0)
	f.SetCellValue(sheet, "D18", 30000.0)
	f.SetCellValue(sheet, "A19", "Quitada")
	f.SetCellValue(sheet, "B19", 0.0)
	f.SetCellValue(sheet, "C19", 0.0)
	f.SetCellValue(sheet, "D19", 0.0)

	f.SetCellValue(sheet, "A21", "GASTOS OPERACIONAIS")
	f.SetCellValue(sheet, "A22", "DESCRIÇÃO")
	f.SetCellValue(sheet, "A23", "Energia")
	f.SetCellValue(sheet, "B23", 0.05)
	f.SetCellValue(sheet, "C23", 500.0)
}

func TestExtractScenariosAndBlocks(t *testing.T) {
	wb := buildViabilitySheet(t, fillViabilitySheet)

	ex, err := Extract(wb)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(ex.Cenarios) != 3 {
		t.Fatalf("got %d scenarios, want 3", len(ex.Cenarios))
	}
	wantNames := []coa.Scenario{coa.ScenarioReal, coa.ScenarioPE, coa.ScenarioIdeal}
	for i, name := range wantNames {
		if ex.Cenarios[i].Nome != name {
			t.Errorf("scenario %d = %q, want %q", i, ex.Cenarios[i].Nome, name)
		}
	}

	real := ex.Cenarios[0]
	// every recognized tag is present even when its block came out empty
	for _, tag := range []coa.Tag{coa.TagGeneral, coa.TagRevenue, coa.TagControl,
		coa.TagObligations, coa.TagAdminCosts, coa.TagRawMaterial,
		coa.TagOperationalCosts, coa.TagPersonnel} {
		if _, ok := real.Blocos[tag]; !ok {
			t.Errorf("tag %s missing from scenario blocks", tag)
		}
	}

	geral := real.Blocos[coa.TagGeneral]
	if len(geral) != 2 {
		t.Fatalf("general block = %d items, want 2 (noise row dropped)", len(geral))
	}
	if geral[0].Descricao != "FATURAMENTO" || geral[0].Valor != 10000 {
		t.Errorf("general[0] = %+v", geral[0])
	}
	if geral[1].Descricao != "LUCRO" || geral[1].Pct != 20 {
		t.Errorf("general[1] = %+v, want pct normalized to 20", geral[1])
	}

	receita := real.Blocos[coa.TagRevenue]
	if len(receita) != 2 || receita[0].Descricao != "Vendas" || receita[0].Pct != 50 || receita[0].Valor != 5000 {
		t.Errorf("revenue block = %+v", receita)
	}
	if len(real.Blocos[coa.TagPersonnel]) != 1 {
		t.Errorf("personnel block = %+v", real.Blocos[coa.TagPersonnel])
	}
	if len(real.Blocos[coa.TagRawMaterial]) != 0 {
		t.Errorf("absent named block must be empty, got %+v", real.Blocos[coa.TagRawMaterial])
	}

	// the PE scenario reads the E/F/G triplet of the same rows
	pe := ex.Cenarios[1]
	if len(pe.Blocos[coa.TagGeneral]) != 1 || pe.Blocos[coa.TagGeneral][0].Valor != 9000 {
		t.Errorf("PE general = %+v", pe.Blocos[coa.TagGeneral])
	}
	if len(pe.Blocos[coa.TagRevenue]) != 1 || pe.Blocos[coa.TagRevenue][0].Valor != 4000 {
		t.Errorf("PE revenue = %+v", pe.Blocos[coa.TagRevenue])
	}

	// ideal scenario has its header but no data in I/J/K
	ideal := ex.Cenarios[2]
	if len(ideal.Blocos[coa.TagRevenue]) != 0 {
		t.Errorf("ideal revenue = %+v, want empty", ideal.Blocos[coa.TagRevenue])
	}
}

func TestExtractSpecials(t *testing.T) {
	wb := buildViabilitySheet(t, fillViabilitySheet)

	ex, err := Extract(wb)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	sp := ex.Especiais
	if len(sp.Dividas) != 1 {
		t.Fatalf("dividas = %+v, want the all-zero row dropped", sp.Dividas)
	}
	d := sp.Dividas[0]
	if d.Descricao != "Financiamento" || d.ValorTotal != 50000 || d.ParcelaMensal != 2000 || d.SaldoDevedor != 30000 {
		t.Errorf("debt = %+v", d)
	}

	if len(sp.GastosOperacionais) != 1 {
		t.Fatalf("gastos operacionais = %+v", sp.GastosOperacionais)
	}
	g := sp.GastosOperacionais[0]
	if g.Descricao != "Energia" || g.Pct != 5 || g.Valor != 500 {
		t.Errorf("operational cost = %+v, want pct normalized to 5", g)
	}

	if len(sp.Investimentos) != 0 || len(sp.InvestimentosGeral) != 0 {
		t.Error("absent special blocks must stay empty")
	}
}

func TestExtractGeneralAdjacentToFirstBlock(t *testing.T) {
	// no blank separator: general rows run straight into the first merged
	// header, and the row directly above the anchor must still be captured
	wb := buildViabilitySheet(t, func(f *excelize.File, sheet string) {
		f.SetCellValue(sheet, "A1", "VIABILIADE FINANCEIRA REAL")
		f.SetCellValue(sheet, "A3", "FATURAMENTO")
		f.SetCellValue(sheet, "C3", 10000.0)
		f.SetCellValue(sheet, "A4", "CUSTO FIXO")
		f.SetCellValue(sheet, "C4", 3000.0)
		f.SetCellValue(sheet, "A5", "CUSTO VARIAVEL")
		f.SetCellValue(sheet, "C5", 2000.0)
		f.SetCellValue(sheet, "A6", "MARGEM")
		f.SetCellValue(sheet, "B6", 0.5)
		f.SetCellValue(sheet, "A7", "LUCRO")
		f.SetCellValue(sheet, "C7", 1000.0)
		f.MergeCell(sheet, "A8", "C8")
		f.SetCellValue(sheet, "A8", "RECEITA")
		f.SetCellValue(sheet, "A9", "Vendas")
		f.SetCellValue(sheet, "C9", 5000.0)
	})

	ex, err := Extract(wb)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	geral := ex.Cenarios[0].Blocos[coa.TagGeneral]
	if len(geral) != 5 {
		t.Fatalf("general block = %d items, want all 5 rows above the anchor", len(geral))
	}
	if geral[4].Descricao != "LUCRO" || geral[4].Valor != 1000 {
		t.Errorf("general[4] = %+v, want the row directly above the anchor", geral[4])
	}
	if len(ex.Cenarios[0].Blocos[coa.TagRevenue]) != 1 {
		t.Errorf("revenue block = %+v", ex.Cenarios[0].Blocos[coa.TagRevenue])
	}
}

func TestExtractMissingScenarios(t *testing.T) {
	wb := buildViabilitySheet(t, func(f *excelize.File, sheet string) {
		f.SetCellValue(sheet, "A1", "PLANILHA QUALQUER")
		f.SetCellValue(sheet, "A3", "FATURAMENTO")
		f.SetCellValue(sheet, "C3", 100.0)
	})
	if _, err := Extract(wb); !errors.Is(err, ErrMissingScenarios) {
		t.Errorf("err = %v, want ErrMissingScenarios", err)
	}
}

func TestExtractEmpty(t *testing.T) {
	wb := buildViabilitySheet(t, func(f *excelize.File, sheet string) {
		f.SetCellValue(sheet, "A1", "VIABILIADE FINANCEIRA REAL")
	})
	if _, err := Extract(wb); !errors.Is(err, ErrEmptyExtraction) {
		t.Errorf("err = %v, want ErrEmptyExtraction", err)
	}
}
