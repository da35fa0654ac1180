package master

import (
	"database/sql"

	"FinBpoSaas/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MasterService struct {
	config  map[string]interface{}
	db      *sql.DB
	pgxPool *pgxpool.Pool
}

func NewMasterService(cfg map[string]interface{}, db *sql.DB, pgxPool *pgxpool.Pool) serviceiface.Service {
	return &MasterService{config: cfg, db: db, pgxPool: pgxPool}
}

func (s *MasterService) Name() string {
	return "master"
}

func (s *MasterService) Start() error {
	go StartMasterService(s.db, s.pgxPool)
	return nil
}

func (s *MasterService) Stop() error {
	return nil
}
