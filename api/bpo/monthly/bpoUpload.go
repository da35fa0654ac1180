package monthly

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"FinBpoSaas/api"
	"FinBpoSaas/api/constants"
	"FinBpoSaas/internal/config"
	"FinBpoSaas/internal/logger"
	"FinBpoSaas/pkg/workbook"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UploadBpoMonthly handles the monthly BPO workbook.
// Form fields:
// - user_id (required, validated by CompanyAccessMiddleware)
// - company_id (required)
// - year (required, base year for month headers without an explicit year)
// - file (required, .xlsx or .xls)
func UploadBpoMonthly(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[UploadBpoMonthly] Start %s %s", r.Method, r.URL.Path)
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[UploadBpoMonthly] Panic recovered: %v", rec)
				api.RespondWithError(w, http.StatusInternalServerError, constants.ErrInternalServer)
			}
			log.Printf("[UploadBpoMonthly] Finished in %s", time.Since(start))
		}()

		ctx := r.Context()

		if err := r.ParseMultipartForm(config.MaxUploadBytes); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrFailedToParseForm+err.Error())
			return
		}

		companyID, err := strconv.Atoi(r.FormValue(constants.KeyCompanyID))
		if err != nil || companyID <= 0 {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrCompanyIDRequired)
			return
		}
		baseYear, err := strconv.Atoi(r.FormValue(constants.KeyYear))
		if err != nil || baseYear < 1000 || baseYear > 9999 {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrYearRequired)
			return
		}
		if !api.CtxHasCompany(ctx, companyID) {
			api.RespondWithError(w, http.StatusForbidden, constants.ErrUnauthorized)
			return
		}

		files := r.MultipartForm.File[constants.KeyFile]
		if len(files) == 0 {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrNoFileUploaded)
			return
		}
		fh := files[0]
		file, err := fh.Open()
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidWorkbook)
			return
		}
		wb, err := workbook.Open(file, fh.Filename)
		file.Close()
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidWorkbook)
			return
		}

		ex, err := Extract(wb, baseYear)
		if err != nil {
			switch {
			case errors.Is(err, ErrUnexpectedLayout):
				api.RespondWithError(w, http.StatusUnprocessableEntity, constants.ErrUnexpectedLayout)
			case errors.Is(err, ErrUnknownMonthHeader):
				api.RespondWithError(w, http.StatusUnprocessableEntity, constants.ErrUnknownMonthHeader)
			default:
				api.RespondWithError(w, http.StatusInternalServerError, constants.ErrInternalServer)
			}
			return
		}

		batchID := uuid.New().String()
		snaps := SplitSnapshots(ex, companyID, batchID, fh.Filename)
		if err := Save(ctx, pgxPool, batchID, snaps); err != nil {
			if api.IsStorageConflict(err) {
				api.RespondWithError(w, http.StatusConflict, constants.ErrStorageConflict)
				return
			}
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB+": "+err.Error())
			return
		}

		if logger.GlobalLogger != nil {
			logger.GlobalLogger.LogAudit(fmt.Sprintf(
				"BPO upload company=%d baseYear=%d batch=%s meses=%d itens=%d unmapped=%d file=%s",
				companyID, baseYear, batchID, len(ex.Meses), len(ex.Itens), len(ex.UnmappedCodes), fh.Filename))
		}

		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"batch_id":       batchID,
			"meses":          len(ex.Meses),
			"itens":          len(ex.Itens),
			"secoes":         len(ex.Secoes),
			"unmapped_codes": ex.UnmappedCodes,
		})
	}
}
