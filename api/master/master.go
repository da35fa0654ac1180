package master

import (
	"database/sql"
	"log"
	"net/http"

	"FinBpoSaas/api"

	"github.com/jackc/pgx/v5/pgxpool"
)

func StartMasterService(db *sql.DB, pgxPool *pgxpool.Pool) {
	mux := http.NewServeMux()
	mux.HandleFunc("/master/hello", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Hello from Master Service"))
	})

	mux.Handle("/master/companies/create", api.CompanyAccessMiddleware(db)(CreateCompany(pgxPool)))
	mux.Handle("/master/companies/list", api.CompanyAccessMiddleware(db)(ListCompanies(pgxPool)))
	mux.Handle("/master/companies/deactivate", api.CompanyAccessMiddleware(db)(DeactivateCompany(pgxPool)))
	mux.Handle("/master/companies/delete", api.CompanyAccessMiddleware(db)(DeleteCompany(pgxPool)))

	log.Println("Master Service started on :5143")
	err := http.ListenAndServe(":5143", mux)
	if err != nil {
		log.Fatalf("Master Service failed: %v", err)
	}
}
