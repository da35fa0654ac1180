package viability

import (
	"context"
	"sort"

	"FinBpoSaas/api"
	"FinBpoSaas/api/bpo/coa"
	"FinBpoSaas/internal/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// viabilityTx is the slice of pgx.Tx the writer needs; tests plug an
// in-memory implementation here.
type viabilityTx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

var itemColumns = []string{"company_id", "year", "batch_id", "scenario", "block", "description", "pct", "value"}

// scenarioOrder is the canonical presentation order; storage order is not
// trusted on read-back.
var scenarioOrder = []coa.Scenario{coa.ScenarioReal, coa.ScenarioPE, coa.ScenarioIdeal}

// Save replaces the viability snapshot of (companyID, year) wholesale: the
// previous rows across the five tables are deleted and the new extraction is
// inserted inside one transaction, so no reader ever observes a partially
// replaced snapshot.
func Save(ctx context.Context, pool *pgxpool.Pool, companyID, year int, batchID string, ex *Extraction) error {
	return api.WithTxRetry(ctx, pool, func(ctx context.Context, tx pgx.Tx) error {
		return writeExtraction(ctx, tx, companyID, year, batchID, ex)
	})
}

func writeExtraction(ctx context.Context, tx viabilityTx, companyID, year int, batchID string, ex *Extraction) error {
	tables := []string{
		"viability_items",
		"viability_debts",
		"viability_investments",
		"viability_capital_investment",
		"viability_operational_costs",
	}
	for _, t := range tables {
		if _, err := tx.Exec(ctx, "DELETE FROM "+t+" WHERE company_id=$1 AND year=$2", companyID, year); err != nil {
			return err
		}
	}

	rows := itemRows(companyID, year, batchID, ex)
	for start := 0; start < len(rows); start += config.CopyBatchSize {
		end := start + config.CopyBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"viability_items"}, itemColumns, pgx.CopyFromRows(rows[start:end])); err != nil {
			return err
		}
	}

	for _, d := range ex.Especiais.Dividas {
		if _, err := tx.Exec(ctx, `
			INSERT INTO viability_debts (company_id, year, batch_id, description, total_value, monthly_installment, outstanding_balance)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, companyID, year, batchID, d.Descricao, d.ValorTotal, d.ParcelaMensal, d.SaldoDevedor); err != nil {
			return err
		}
	}
	for _, inv := range ex.Especiais.Investimentos {
		if _, err := tx.Exec(ctx, `
			INSERT INTO viability_investments (company_id, year, batch_id, description, value, monthly_installment)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, companyID, year, batchID, inv.Descricao, inv.Valor, inv.ParcelaMensal); err != nil {
			return err
		}
	}
	for _, ci := range ex.Especiais.InvestimentosGeral {
		if _, err := tx.Exec(ctx, `
			INSERT INTO viability_capital_investment (company_id, year, batch_id, description, value, pct)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, companyID, year, batchID, ci.Descricao, ci.Valor, ci.Pct); err != nil {
			return err
		}
	}
	for _, oc := range ex.Especiais.GastosOperacionais {
		if _, err := tx.Exec(ctx, `
			INSERT INTO viability_operational_costs (company_id, year, batch_id, description, pct, value)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, companyID, year, batchID, oc.Descricao, oc.Pct, oc.Valor); err != nil {
			return err
		}
	}
	return nil
}

// itemRows flattens the scenario blocks into viability_items rows.
func itemRows(companyID, year int, batchID string, ex *Extraction) [][]interface{} {
	out := make([][]interface{}, 0, 64)
	for _, sc := range ex.Cenarios {
		for tag, items := range sc.Blocos {
			for _, it := range items {
				out = append(out, []interface{}{
					companyID, year, batchID, string(sc.Nome), string(tag),
					it.Descricao, it.Pct, it.Valor,
				})
			}
		}
	}
	return out
}

type itemRow struct {
	scenario string
	block    string
	item     Item
}

// nestRows regroups flat item rows per scenario and block, in canonical
// scenario order. Blocks that were empty at extraction time do not come back.
func nestRows(rows []itemRow) []ScenarioBlocks {
	byScenario := make(map[coa.Scenario]*ScenarioBlocks)
	for _, r := range rows {
		sc := coa.Scenario(r.scenario)
		sb, ok := byScenario[sc]
		if !ok {
			sb = &ScenarioBlocks{Nome: sc, Blocos: make(map[coa.Tag][]Item)}
			byScenario[sc] = sb
		}
		tag := coa.Tag(r.block)
		sb.Blocos[tag] = append(sb.Blocos[tag], r.item)
	}

	out := make([]ScenarioBlocks, 0, len(byScenario))
	for _, sc := range scenarioOrder {
		if sb, ok := byScenario[sc]; ok {
			out = append(out, *sb)
			delete(byScenario, sc)
		}
	}
	rest := make([]string, 0, len(byScenario))
	for sc := range byScenario {
		rest = append(rest, string(sc))
	}
	sort.Strings(rest)
	for _, sc := range rest {
		out = append(out, *byScenario[coa.Scenario(sc)])
	}
	return out
}

// Load reads the stored snapshot of (companyID, year) back into the same
// structure the extractor produced, scenarios in canonical order. Returns nil
// when nothing is stored.
func Load(ctx context.Context, pool *pgxpool.Pool, companyID, year int) (*Extraction, error) {
	ex := &Extraction{}
	found := false

	rows, err := pool.Query(ctx, `
		SELECT scenario, block, description, pct, value
		FROM viability_items
		WHERE company_id=$1 AND year=$2
		ORDER BY scenario, block, id
	`, companyID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []itemRow
	for rows.Next() {
		var r itemRow
		if err := rows.Scan(&r.scenario, &r.block, &r.item.Descricao, &r.item.Pct, &r.item.Valor); err != nil {
			return nil, err
		}
		found = true
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(items) > 0 {
		ex.Cenarios = nestRows(items)
	}

	if err := loadSpecials(ctx, pool, companyID, year, ex, &found); err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return ex, nil
}

func loadSpecials(ctx context.Context, pool *pgxpool.Pool, companyID, year int, ex *Extraction, found *bool) error {
	debts, err := pool.Query(ctx, `
		SELECT description, total_value, monthly_installment, outstanding_balance
		FROM viability_debts WHERE company_id=$1 AND year=$2 ORDER BY id
	`, companyID, year)
	if err != nil {
		return err
	}
	for debts.Next() {
		var d DebtItem
		if err := debts.Scan(&d.Descricao, &d.ValorTotal, &d.ParcelaMensal, &d.SaldoDevedor); err != nil {
			debts.Close()
			return err
		}
		ex.Especiais.Dividas = append(ex.Especiais.Dividas, d)
		*found = true
	}
	debts.Close()

	invs, err := pool.Query(ctx, `
		SELECT description, value, monthly_installment
		FROM viability_investments WHERE company_id=$1 AND year=$2 ORDER BY id
	`, companyID, year)
	if err != nil {
		return err
	}
	for invs.Next() {
		var it InvestmentItem
		if err := invs.Scan(&it.Descricao, &it.Valor, &it.ParcelaMensal); err != nil {
			invs.Close()
			return err
		}
		ex.Especiais.Investimentos = append(ex.Especiais.Investimentos, it)
		*found = true
	}
	invs.Close()

	caps, err := pool.Query(ctx, `
		SELECT description, value, pct
		FROM viability_capital_investment WHERE company_id=$1 AND year=$2 ORDER BY id
	`, companyID, year)
	if err != nil {
		return err
	}
	for caps.Next() {
		var ci CapitalInvestmentItem
		if err := caps.Scan(&ci.Descricao, &ci.Valor, &ci.Pct); err != nil {
			caps.Close()
			return err
		}
		ex.Especiais.InvestimentosGeral = append(ex.Especiais.InvestimentosGeral, ci)
		*found = true
	}
	caps.Close()

	ops, err := pool.Query(ctx, `
		SELECT description, pct, value
		FROM viability_operational_costs WHERE company_id=$1 AND year=$2 ORDER BY id
	`, companyID, year)
	if err != nil {
		return err
	}
	for ops.Next() {
		var oc OperationalCostItem
		if err := ops.Scan(&oc.Descricao, &oc.Pct, &oc.Valor); err != nil {
			ops.Close()
			return err
		}
		ex.Especiais.GastosOperacionais = append(ex.Especiais.GastosOperacionais, oc)
		*found = true
	}
	ops.Close()
	return nil
}
