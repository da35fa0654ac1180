package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"FinBpoSaas/api/auth"
	"FinBpoSaas/api/constants"
	"FinBpoSaas/internal/config"
)

type contextKey string

const (
	// CompanyIDsKey carries the company ids the session user may read.
	CompanyIDsKey contextKey = "companyIDs"
)

// CompanyIDsFromCtx returns the accessible company ids set by
// CompanyAccessMiddleware; empty when the middleware did not run.
func CompanyIDsFromCtx(ctx context.Context) []int {
	if ids, ok := ctx.Value(CompanyIDsKey).([]int); ok {
		return ids
	}
	return []int{}
}

// CtxHasCompany reports whether the request scope includes the company.
func CtxHasCompany(ctx context.Context, companyID int) bool {
	for _, id := range CompanyIDsFromCtx(ctx) {
		if id == companyID {
			return true
		}
	}
	return false
}

// CompanyAccessMiddleware validates the session for the user_id found in the
// request (JSON body or multipart form) and loads the companies linked to
// that consultant into the context. Handlers answer not_authorized from that
// scope instead of querying again.
func CompanyAccessMiddleware(db *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var userID string
			ct := r.Header.Get(constants.ContentTypeText)
			if strings.HasPrefix(ct, constants.ContentTypeJSON) && (r.Method == "POST" || r.Method == "PUT") {
				var bodyMap map[string]interface{}
				_ = json.NewDecoder(r.Body).Decode(&bodyMap)
				if uid, ok := bodyMap[constants.KeyUserID].(string); ok {
					userID = uid
				}
				// Re-marshal and reset body for downstream handlers
				bodyBytes, _ := json.Marshal(bodyMap)
				r.Body = io.NopCloser(strings.NewReader(string(bodyBytes)))
			} else if strings.HasPrefix(ct, "multipart/form-data") && (r.Method == "POST" || r.Method == "PUT") {
				if err := r.ParseMultipartForm(config.MaxUploadBytes); err == nil {
					userID = r.FormValue(constants.KeyUserID)
				}
			}

			if userID == "" {
				RespondWithError(w, http.StatusBadRequest, constants.ErrMissingUserID)
				return
			}

			// Validate session
			found := false
			for _, session := range auth.GetActiveSessions() {
				if session.UserID == userID {
					found = true
					break
				}
			}
			if !found {
				log.Println("[ERROR] Invalid session for user_id:", userID)
				RespondWithError(w, http.StatusUnauthorized, constants.ErrInvalidSession)
				return
			}

			rows, err := db.Query(`
				SELECT c.id
				FROM companies c
				JOIN user_companies uc ON uc.company_id = c.id
				WHERE uc.user_id = $1 AND c.active
				ORDER BY c.id
			`, userID)
			if err != nil {
				RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
				return
			}
			defer rows.Close()

			companyIDs := make([]int, 0)
			for rows.Next() {
				var id int
				if err := rows.Scan(&id); err == nil {
					companyIDs = append(companyIDs, id)
				}
			}

			ctx := context.WithValue(r.Context(), CompanyIDsKey, companyIDs)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
