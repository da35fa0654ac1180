package dre

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"FinBpoSaas/api"
	"FinBpoSaas/api/bpo/monthly"
	"FinBpoSaas/api/constants"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PgSnapshotSource loads stored monthly snapshots from Postgres.
type PgSnapshotSource struct {
	Pool *pgxpool.Pool
}

func (s *PgSnapshotSource) Load(ctx context.Context, companyID, year, month int) (*monthly.Snapshot, error) {
	return monthly.LoadSnapshot(ctx, s.Pool, companyID, year, month)
}

// GetDreAggregate handles POST /dash/dre/aggregate.
// Body: { user_id, company_id, from: {ano, mes}, to: {ano, mes}, dre_view }
func GetDreAggregate(pgxPool *pgxpool.Pool) http.HandlerFunc {
	type reqBody struct {
		UserID    string `json:"user_id"`
		CompanyID int    `json:"company_id"`
		From      Period `json:"from"`
		To        Period `json:"to"`
		DreView   string `json:"dre_view"`
	}
	src := &PgSnapshotSource{Pool: pgxPool}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, constants.ErrMethodNotAllowed, http.StatusMethodNotAllowed)
			return
		}
		var req reqBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidRequestBody)
			return
		}
		if req.CompanyID <= 0 {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrCompanyIDRequired)
			return
		}
		if req.DreView == "" {
			req.DreView = constants.DreViewFluxoCaixa
		}
		if req.From.Mes < 1 || req.From.Mes > 12 || req.To.Mes < 1 || req.To.Mes > 12 {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidRange)
			return
		}
		if !api.CtxHasCompany(r.Context(), req.CompanyID) {
			api.RespondWithError(w, http.StatusForbidden, constants.ErrUnauthorized)
			return
		}

		res, err := Aggregate(r.Context(), src, req.CompanyID, req.From, req.To, req.DreView)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidRange):
				api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidRange)
			case errors.Is(err, ErrInvalidView):
				api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidDreView)
			default:
				api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB+": "+err.Error())
			}
			return
		}
		api.RespondWithPayload(w, true, "", res)
	}
}
