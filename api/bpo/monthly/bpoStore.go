package monthly

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"FinBpoSaas/api"
	"FinBpoSaas/internal/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// snapshotTx is the slice of pgx.Tx the writer needs; tests plug an
// in-memory implementation here.
type snapshotTx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// SplitSnapshots cuts a workbook extraction into the per-month snapshots that
// are persisted, one blob per (company, year, month).
func SplitSnapshots(ex *Extraction, companyID int, batchID, filename string) []*Snapshot {
	snaps := make([]*Snapshot, 0, len(ex.Meses))
	for i, mes := range ex.Meses {
		snap := &Snapshot{
			CompanyID: companyID,
			Ano:       mes.Ano,
			Mes:       mes.Mes,
			Secoes:    ex.Secoes,
			Metadados: Metadata{
				UploadID:      batchID,
				Arquivo:       filename,
				UnmappedCodes: ex.UnmappedCodes,
			},
		}
		if snap.Metadados.UnmappedCodes == nil {
			snap.Metadados.UnmappedCodes = []string{}
		}
		for _, it := range ex.Itens {
			mi := MonthItem{
				Codigo:      it.Codigo,
				Nome:        it.Nome,
				Nivel:       it.Nivel,
				Viabilidade: it.Viabilidade,
				Totais:      it.Totais,
			}
			if i < len(it.Meses) {
				cell := it.Meses[i]
				mi.Orcado = cell.Orcado
				mi.Realizado = cell.Realizado
				mi.PctAtingido = cell.PctAtingido
				mi.Variacao = cell.Variacao
			}
			snap.Itens = append(snap.Itens, mi)
		}
		if i < len(ex.DrePorMes) {
			snap.Dre = ex.DrePorMes[i].Realizado
			snap.DreOrcado = ex.DrePorMes[i].Orcado
		}
		snaps = append(snaps, snap)
	}
	return snaps
}

// Save replaces every month covered by the upload in one transaction:
// delete-then-insert per (company, year, month) so a reader never observes a
// partially replaced period. Retries follow the shared policy.
func Save(ctx context.Context, pool *pgxpool.Pool, batchID string, snaps []*Snapshot) error {
	return api.WithTxRetry(ctx, pool, func(ctx context.Context, tx pgx.Tx) error {
		return writeSnapshots(ctx, tx, batchID, snaps)
	})
}

func writeSnapshots(ctx context.Context, tx snapshotTx, batchID string, snaps []*Snapshot) error {
	for _, snap := range snaps {
		payload, err := json.Marshal(snap)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			DELETE FROM bpo_snapshots WHERE company_id=$1 AND year=$2 AND month=$3
		`, snap.CompanyID, snap.Ano, snap.Mes); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO bpo_snapshots (company_id, year, month, batch_id, payload, uploaded_at)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, snap.CompanyID, snap.Ano, snap.Mes, batchID, payload, time.Now()); err != nil {
			return err
		}
	}
	return nil
}

// LoadSnapshot reads one stored month back. Missing months return (nil, nil);
// transient read failures are retried with backoff before surfacing.
func LoadSnapshot(ctx context.Context, pool *pgxpool.Pool, companyID, year, month int) (*Snapshot, error) {
	var payload []byte
	var lastErr error

	for attempt := 0; attempt <= config.TransientRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, config.DBCallTimeout)
		lastErr = pool.QueryRow(callCtx, `
			SELECT payload FROM bpo_snapshots
			WHERE company_id=$1 AND year=$2 AND month=$3
		`, companyID, year, month).Scan(&payload)
		cancel()

		if lastErr == nil {
			break
		}
		if errors.Is(lastErr, pgx.ErrNoRows) {
			return nil, nil
		}
		if !api.IsTransient(lastErr) || attempt == config.TransientRetries {
			return nil, lastErr
		}
		backoff := config.TransientBackoffBase * time.Duration(1<<attempt)
		log.Printf("[BpoStore] transient read failure, retrying in %s: %v", backoff, lastErr)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
