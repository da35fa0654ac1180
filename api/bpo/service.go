package bpo

import (
	"database/sql"

	"FinBpoSaas/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

type BpoService struct {
	config  map[string]interface{}
	db      *sql.DB
	pgxPool *pgxpool.Pool
}

func NewBpoService(cfg map[string]interface{}, db *sql.DB, pgxPool *pgxpool.Pool) serviceiface.Service {
	return &BpoService{config: cfg, db: db, pgxPool: pgxPool}
}

func (s *BpoService) Name() string {
	return "bpo"
}

func (s *BpoService) Start() error {
	go StartBpoService(s.db, s.pgxPool)
	return nil
}

func (s *BpoService) Stop() error {
	return nil
}
