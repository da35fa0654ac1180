package coa

import (
	"math"
	"testing"
)

func TestFold(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  Matéria  Prima ", "MATERIA PRIMA"},
		{"OBRIGAÇÕES", "OBRIGACOES"},
		{"gastos adm", "GASTOS ADM"},
		{"Ponto de Equilíbrio", "PONTO DE EQUILIBRIO"},
	}
	for _, c := range cases {
		if got := Fold(c.in); got != c.want {
			t.Errorf("Fold(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCanon(t *testing.T) {
	if tag, ok := Canon("Matéria Prima"); !ok || tag != TagRawMaterial {
		t.Errorf("Canon(Matéria Prima) = %v %v, want RawMaterial", tag, ok)
	}
	if tag, ok := Canon("OBRIGAÇÕES"); !ok || tag != TagObligations {
		t.Errorf("Canon(OBRIGAÇÕES) = %v %v, want Obligations", tag, ok)
	}
	if tag, ok := Canon("INVESTIMENTOS GERAL NO NEGÓCIO"); !ok || tag != TagCapitalInvestment {
		t.Errorf("Canon(INVESTIMENTOS GERAL NO NEGÓCIO) = %v %v, want CapitalInvestment", tag, ok)
	}
	if _, ok := Canon("BLOCO DESCONHECIDO"); ok {
		t.Error("unknown label must not resolve to a tag")
	}
}

func TestCanonScenario(t *testing.T) {
	// the workbooks carry the misspelling VIABILIADE; the table matches it
	if s, ok := CanonScenario("VIABILIADE FINANCEIRA REAL"); !ok || s != ScenarioReal {
		t.Errorf("real scenario = %v %v", s, ok)
	}
	if s, ok := CanonScenario("viabiliade financeira ponto de equilíbrio"); !ok || s != ScenarioPE {
		t.Errorf("PE scenario = %v %v", s, ok)
	}
	if s, ok := CanonScenario("VIABILIADE FINANCEIRA IDEAL"); !ok || s != ScenarioIdeal {
		t.Errorf("ideal scenario = %v %v", s, ok)
	}
	if _, ok := CanonScenario("VIABILIDADE FINANCEIRA REAL"); ok {
		t.Error("corrected spelling is not in the fixed table")
	}
}

func TestIsNoise(t *testing.T) {
	for _, s := range []string{"RESULTADO REAL", "resultado ideal", "Ponto de Equilíbrio", "0"} {
		if !IsNoise(s) {
			t.Errorf("IsNoise(%q) = false, want true", s)
		}
	}
	if IsNoise("Vendas") {
		t.Error("ordinary description flagged as noise")
	}
}

func TestNormalizePercent(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{0.1327, 13.27},
		{-0.5, -50},
		{0.25, 25},
		{1, 1},
		{18.3, 18.3},
		{-25, -25},
	}
	for _, c := range cases {
		if got := NormalizePercent(c.in); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("NormalizePercent(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
