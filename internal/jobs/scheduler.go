package jobs

import (
	"fmt"
	"log"
	"time"

	"FinBpoSaas/internal/config"
	"FinBpoSaas/internal/logger"
	"FinBpoSaas/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

type SchedulerService struct {
	config map[string]interface{}
	db     *pgxpool.Pool
	cron   *cron.Cron
}

func NewSchedulerService(cfg map[string]interface{}, db *pgxpool.Pool) serviceiface.Service {
	return &SchedulerService{
		config: cfg,
		db:     db,
	}
}

func (s *SchedulerService) Name() string {
	return "jobs"
}

func (s *SchedulerService) Start() error {
	log.Println("Starting jobs service...")

	schedule := config.DefaultUnmappedCodesSchedule
	if s.config != nil {
		if sch, ok := s.config["unmapped_codes_schedule"].(string); ok && sch != "" {
			schedule = sch
		}
	}

	loc, err := time.LoadLocation(config.DefaultTimeZone)
	if err != nil {
		return fmt.Errorf("invalid timezone for jobs service: %v", err)
	}

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(schedule, func() {
		if err := RunUnmappedCodesReport(s.db); err != nil {
			log.Printf("[UnmappedCodesReport] failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule unmapped codes report: %v", err)
	}
	c.Start()
	s.cron = c

	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit("Jobs service started — unmapped codes report scheduled " + schedule)
	}
	return nil
}

func (s *SchedulerService) Stop() error {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	return nil
}
