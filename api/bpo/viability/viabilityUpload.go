package viability

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

// UploadViability handles the yearly viability workbook.
// Form fields:
// - user_id (required, validated by CompanyAccessMiddleware)
// - company_id (required)
// - year (required)
// - file (required, .xlsx — the layout detection needs merged cell anchors)
func UploadViability(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[UploadViability] Start %s %s", r.Method, r.URL.Path)
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[UploadViability] Panic recovered: %v", rec)
				api.RespondWithError(w, http.StatusInternalServerError, constants.ErrInternalServer)
			}
			log.Printf("[UploadViability] Finished in %s", time.Since(start))
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
		year, err := strconv.Atoi(r.FormValue(constants.KeyYear))
		if err != nil || year < 1000 || year > 9999 {
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

		ex, err := Extract(wb)
		if err != nil {
			switch {
			case errors.Is(err, ErrMissingScenarios):
				api.RespondWithError(w, http.StatusUnprocessableEntity, constants.ErrMissingScenarios)
			case errors.Is(err, ErrEmptyExtraction):
				api.RespondWithError(w, http.StatusUnprocessableEntity, constants.ErrEmptyExtraction)
			case errors.Is(err, ErrNoMergeInfo):
				api.RespondWithError(w, http.StatusUnprocessableEntity, constants.ErrInvalidWorkbook)
			default:
				api.RespondWithError(w, http.StatusInternalServerError, constants.ErrInternalServer)
			}
			return
		}

		batchID := uuid.New().String()
		if err := Save(ctx, pgxPool, companyID, year, batchID, ex); err != nil {
			if api.IsStorageConflict(err) {
				api.RespondWithError(w, http.StatusConflict, constants.ErrStorageConflict)
				return
			}
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB+": "+err.Error())
			return
		}

		itemCount := 0
		for _, sc := range ex.Cenarios {
			for _, items := range sc.Blocos {
				itemCount += len(items)
			}
		}
		if logger.GlobalLogger != nil {
			logger.GlobalLogger.LogAudit(fmt.Sprintf(
				"Viability upload company=%d year=%d batch=%s items=%d file=%s",
				companyID, year, batchID, itemCount, fh.Filename))
		}

		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"batch_id":  batchID,
			"cenarios":  len(ex.Cenarios),
			"itens":     itemCount,
			"dividas":   len(ex.Especiais.Dividas),
			"invest":    len(ex.Especiais.Investimentos),
			"inv_geral": len(ex.Especiais.InvestimentosGeral),
			"gastos_op": len(ex.Especiais.GastosOperacionais),
		})
	}
}
