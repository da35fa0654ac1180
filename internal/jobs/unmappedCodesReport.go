package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"FinBpoSaas/internal/config"
	"FinBpoSaas/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunUnmappedCodesReport scans recent BPO snapshots for chart-of-accounts
// codes that the classifier did not recognize and writes one audit line per
// company. The codes are data, not errors: the chart of accounts evolves
// faster than deployments, so operators need the list, not a failed upload.
func RunUnmappedCodesReport(db *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), config.DBCallTimeout)
	defer cancel()

	rows, err := db.Query(ctx, `
		SELECT company_id, payload->'metadados'->'unmapped_codes'
		FROM bpo_snapshots
		WHERE uploaded_at > now() - interval '40 days'
		  AND jsonb_array_length(COALESCE(payload->'metadados'->'unmapped_codes', '[]'::jsonb)) > 0
	`)
	if err != nil {
		return fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	perCompany := make(map[int]map[string]bool)
	for rows.Next() {
		var companyID int
		var raw []byte
		if err := rows.Scan(&companyID, &raw); err != nil {
			continue
		}
		var codes []string
		if err := json.Unmarshal(raw, &codes); err != nil {
			continue
		}
		if perCompany[companyID] == nil {
			perCompany[companyID] = make(map[string]bool)
		}
		for _, c := range codes {
			perCompany[companyID][c] = true
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	started := time.Now()
	for companyID, set := range perCompany {
		codes := make([]string, 0, len(set))
		for c := range set {
			codes = append(codes, c)
		}
		sort.Strings(codes)
		msg := fmt.Sprintf("company %d has %d unmapped chart-of-accounts codes: %s",
			companyID, len(codes), strings.Join(codes, ", "))
		if logger.GlobalLogger != nil {
			logger.GlobalLogger.LogAudit("[UnmappedCodesReport] " + msg)
		} else {
			log.Println("[UnmappedCodesReport]", msg)
		}
	}
	log.Printf("[UnmappedCodesReport] scanned %d companies in %s", len(perCompany), time.Since(started))
	return nil
}
