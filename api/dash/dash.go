package dash

import (
	"database/sql"
	"log"
	"net/http"

	"FinBpoSaas/api"
	"FinBpoSaas/api/dash/dre"
	"FinBpoSaas/api/dash/viability"

	"github.com/jackc/pgx/v5/pgxpool"
)

func StartDashService(db *sql.DB, pgxPool *pgxpool.Pool) {
	mux := http.NewServeMux()
	mux.HandleFunc("/dash/hello", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Hello from Dashboard Service"))
	})

	mux.Handle("/dash/dre/aggregate",
		api.CompanyAccessMiddleware(db)(dre.GetDreAggregate(pgxPool)))
	mux.Handle("/dash/viability/snapshot",
		api.CompanyAccessMiddleware(db)(viability.GetViabilitySnapshot(pgxPool)))

	log.Println("Dashboard Service started on :4143")
	err := http.ListenAndServe(":4143", mux)
	if err != nil {
		log.Fatalf("Dashboard Service failed: %v", err)
	}
}
