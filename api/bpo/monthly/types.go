package monthly

// MonthKey identifies one fiscal month.
type MonthKey struct {
	Ano int `json:"ano"`
	Mes int `json:"mes"` // 1..12
}

// Less orders month keys in calendar order.
func (m MonthKey) Less(o MonthKey) bool {
	if m.Ano != o.Ano {
		return m.Ano < o.Ano
	}
	return m.Mes < o.Mes
}

// Viabilidade is the per-item pair copied from the viability columns B/C.
type Viabilidade struct {
	Pct   float64 `json:"pct"`
	Valor float64 `json:"valor"`
}

// MonthCell is one monthly quadruplet of an item.
type MonthCell struct {
	Ano         int     `json:"ano"`
	Mes         int     `json:"mes"`
	Orcado      float64 `json:"orcado"`
	Realizado   float64 `json:"realizado"`
	PctAtingido float64 `json:"pct_atingido"`
	Variacao    float64 `json:"variacao"`
}

// ItemTotals are the seven trailing aggregate columns of a row.
type ItemTotals struct {
	OrcadoTotal       float64 `json:"orcado_total"`
	RealizadoTotal    float64 `json:"realizado_total"`
	VariacaoTotal     float64 `json:"variacao_total"`
	MediaPctRealizado float64 `json:"media_pct_realizado"`
	MediaRealizado    float64 `json:"media_realizado"`
	MediaPctVariacao  float64 `json:"media_pct_variacao"`
	MediaVariacao     float64 `json:"media_variacao"`
}

// Item is one hierarchical line of the BPO workbook with all its months.
type Item struct {
	Codigo      string      `json:"codigo"`
	Nome        string      `json:"nome"`
	Nivel       int         `json:"nivel"`
	Viabilidade Viabilidade `json:"viabilidade"`
	Meses       []MonthCell `json:"meses"`
	Totais      ItemTotals  `json:"totais"`
}

// Section is a title row preserved with its position for rendering.
type Section struct {
	Indice int    `json:"indice"`
	Titulo string `json:"titulo"`
}

// Totais is one {receita, despesa, geral} triple; geral = receita − despesa.
// Despesa is stored absolute; geral carries the sign.
type Totais struct {
	Receita float64 `json:"receita"`
	Despesa float64 `json:"despesa"`
	Geral   float64 `json:"geral"`
}

// DreTriplet carries the three parallel views of one result-of-flow figure.
type DreTriplet struct {
	FluxoCaixa Totais `json:"fluxo_caixa"`
	Real       Totais `json:"real"`
	RealMP     Totais `json:"real_mp"`
}

// DreMonth is the per-month result of flow, realized and budgeted.
type DreMonth struct {
	Ano       int        `json:"ano"`
	Mes       int        `json:"mes"`
	Realizado DreTriplet `json:"realizado"`
	Orcado    DreTriplet `json:"orcado"`
}

// Metadata travels with the snapshot; unmapped codes are data, not errors.
type Metadata struct {
	UploadID      string   `json:"upload_id"`
	Arquivo       string   `json:"arquivo"`
	UnmappedCodes []string `json:"unmapped_codes"`
}

// Extraction is the full output of one BPO workbook before it is split into
// per-month snapshots.
type Extraction struct {
	Meses         []MonthKey `json:"meses"`
	Itens         []Item     `json:"itens"`
	Secoes        []Section  `json:"secoes"`
	DrePorMes     []DreMonth `json:"dre_por_mes"`
	DreAcumulado  DreMonth   `json:"dre_acumulado"` // Ano/Mes zeroed
	UnmappedCodes []string   `json:"unmapped_codes"`
}

// MonthItem is one item restricted to a single month, as persisted.
type MonthItem struct {
	Codigo      string      `json:"codigo"`
	Nome        string      `json:"nome"`
	Nivel       int         `json:"nivel"`
	Viabilidade Viabilidade `json:"viabilidade"`
	Orcado      float64     `json:"orcado"`
	Realizado   float64     `json:"realizado"`
	PctAtingido float64     `json:"pct_atingido"`
	Variacao    float64     `json:"variacao"`
	Totais      ItemTotals  `json:"totais"`
}

// Snapshot is the opaque blob persisted per (company, year, month). The
// aggregator reads these and never re-parses source workbooks.
type Snapshot struct {
	CompanyID int         `json:"company_id"`
	Ano       int         `json:"ano"`
	Mes       int         `json:"mes"`
	Itens     []MonthItem `json:"itens"`
	Secoes    []Section   `json:"secoes"`
	Dre       DreTriplet  `json:"dre"`        // realized result of flow
	DreOrcado DreTriplet  `json:"dre_orcado"` // same shape from budget columns
	Metadados Metadata    `json:"metadados"`
}
