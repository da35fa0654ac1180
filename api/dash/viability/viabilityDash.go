package viability

import (
	"encoding/json"
	"net/http"

	"FinBpoSaas/api"
	bpoviability "FinBpoSaas/api/bpo/viability"
	"FinBpoSaas/api/constants"

	"github.com/jackc/pgx/v5/pgxpool"
)

// GetViabilitySnapshot handles POST /dash/viability/snapshot.
// Body: { user_id, company_id, year }
// Returns the stored viability snapshot re-nested per scenario and block,
// ready for dashboard rendering.
func GetViabilitySnapshot(pgxPool *pgxpool.Pool) http.HandlerFunc {
	type reqBody struct {
		UserID    string `json:"user_id"`
		CompanyID int    `json:"company_id"`
		Year      int    `json:"year"`
	}
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
		if req.Year < 1000 || req.Year > 9999 {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrYearRequired)
			return
		}
		if !api.CtxHasCompany(r.Context(), req.CompanyID) {
			api.RespondWithError(w, http.StatusForbidden, constants.ErrUnauthorized)
			return
		}

		snap, err := bpoviability.Load(r.Context(), pgxPool, req.CompanyID, req.Year)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB+": "+err.Error())
			return
		}
		if snap == nil {
			api.RespondWithPayload(w, true, "", map[string]interface{}{"found": false})
			return
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"found":    true,
			"snapshot": snap,
		})
	}
}
