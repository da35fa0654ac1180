package bpo

import (
	"database/sql"
	"log"
	"net/http"

	"FinBpoSaas/api"
	"FinBpoSaas/api/bpo/monthly"
	"FinBpoSaas/api/bpo/viability"

	"github.com/jackc/pgx/v5/pgxpool"
)

func StartBpoService(db *sql.DB, pgxPool *pgxpool.Pool) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bpo/hello", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Hello from BPO Ingestion Service"))
	})

	mux.Handle("/bpo/viability/upload",
		api.CompanyAccessMiddleware(db)(viability.UploadViability(pgxPool)))
	mux.Handle("/bpo/monthly/upload",
		api.CompanyAccessMiddleware(db)(monthly.UploadBpoMonthly(pgxPool)))

	log.Println("BPO Ingestion Service started on :6143")
	err := http.ListenAndServe(":6143", mux)
	if err != nil {
		log.Fatalf("BPO Ingestion Service failed: %v", err)
	}
}
