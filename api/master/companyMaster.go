package master

import (
	"encoding/json"
	"net/http"
	"strings"

	"FinBpoSaas/api"
	"FinBpoSaas/api/constants"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Company is one client of the consultancy. Companies are soft-inactivated
// for day-to-day use; a hard delete cascades to every snapshot they own.
type Company struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Segment string `json:"segment"`
	Active  bool   `json:"active"`
}

// CreateCompany handles POST /master/companies/create.
// Body: { user_id, name, segment }
func CreateCompany(pgxPool *pgxpool.Pool) http.HandlerFunc {
	type reqBody struct {
		UserID  string `json:"user_id"`
		Name    string `json:"name"`
		Segment string `json:"segment"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req reqBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidRequestBody)
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			api.RespondWithError(w, http.StatusBadRequest, "name is required")
			return
		}

		var c Company
		err := pgxPool.QueryRow(r.Context(), `
			INSERT INTO companies (name, segment, active)
			VALUES ($1, $2, true)
			RETURNING id, name, segment, active
		`, req.Name, req.Segment).Scan(&c.ID, &c.Name, &c.Segment, &c.Active)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB+": "+err.Error())
			return
		}

		// link the creating consultant so the company is visible to them
		if _, err := pgxPool.Exec(r.Context(), `
			INSERT INTO user_companies (user_id, company_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, req.UserID, c.ID); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB+": "+err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", c)
	}
}

// ListCompanies handles POST /master/companies/list. Only the companies in
// the session user's scope are returned.
func ListCompanies(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids := api.CompanyIDsFromCtx(r.Context())
		if len(ids) == 0 {
			api.RespondWithPayload(w, true, "", []Company{})
			return
		}
		rows, err := pgxPool.Query(r.Context(), `
			SELECT id, name, segment, active FROM companies
			WHERE id = ANY($1) ORDER BY id
		`, ids)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB+": "+err.Error())
			return
		}
		defer rows.Close()

		out := make([]Company, 0, len(ids))
		for rows.Next() {
			var c Company
			if err := rows.Scan(&c.ID, &c.Name, &c.Segment, &c.Active); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB+": "+err.Error())
				return
			}
			out = append(out, c)
		}
		api.RespondWithPayload(w, true, "", out)
	}
}

// DeactivateCompany handles POST /master/companies/deactivate. Soft: the
// company keeps its snapshots and disappears from day-to-day listings.
func DeactivateCompany(pgxPool *pgxpool.Pool) http.HandlerFunc {
	type reqBody struct {
		UserID    string `json:"user_id"`
		CompanyID int    `json:"company_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req reqBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidRequestBody)
			return
		}
		if !api.CtxHasCompany(r.Context(), req.CompanyID) {
			api.RespondWithError(w, http.StatusForbidden, constants.ErrUnauthorized)
			return
		}
		if _, err := pgxPool.Exec(r.Context(),
			`UPDATE companies SET active=false WHERE id=$1`, req.CompanyID); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB+": "+err.Error())
			return
		}
		api.RespondWithResult(w, true, "")
	}
}

// DeleteCompany handles POST /master/companies/delete. Hard: the snapshot
// tables cascade on company deletion.
func DeleteCompany(pgxPool *pgxpool.Pool) http.HandlerFunc {
	type reqBody struct {
		UserID    string `json:"user_id"`
		CompanyID int    `json:"company_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req reqBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidRequestBody)
			return
		}
		if !api.CtxHasCompany(r.Context(), req.CompanyID) {
			api.RespondWithError(w, http.StatusForbidden, constants.ErrUnauthorized)
			return
		}
		if _, err := pgxPool.Exec(r.Context(),
			`DELETE FROM companies WHERE id=$1`, req.CompanyID); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB+": "+err.Error())
			return
		}
		api.RespondWithResult(w, true, "")
	}
}
