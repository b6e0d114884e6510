package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// PenaltySweeper is the slice of the penalty repository the scheduled
// sweep needs.
type PenaltySweeper interface {
	ExpireBefore(ctx context.Context, now time.Time) (int64, error)
}

// CronService runs scheduled housekeeping. Currently one job: deactivating
// penalties whose window has closed, so penalized members regain borrowing
// once the three days are up.
type CronService struct {
	penaltyRepo PenaltySweeper
	cron        *cron.Cron
	now         func() time.Time
}

// NewCronService creates a new cron service
func NewCronService(penaltyRepo PenaltySweeper) *CronService {
	return &CronService{
		penaltyRepo: penaltyRepo,
		cron:        cron.New(),
		now:         time.Now,
	}
}

// Start schedules and launches all jobs
func (s *CronService) Start() {
	// Penalty expiry sweep daily at 00:30
	if _, err := s.cron.AddFunc("30 0 * * *", s.ExpirePenalties); err != nil {
		log.Printf("❌ Failed to schedule penalty expiry job: %v", err)
		return
	}

	s.cron.Start()
	log.Println("🚀 CronService started (penalty expiry @ 00:30 daily)")
}

// Stop stops the scheduler, waiting for running jobs to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 CronService stopped")
}

// ExpirePenalties deactivates active penalties past their end date
func (s *CronService) ExpirePenalties() {
	expired, err := s.penaltyRepo.ExpireBefore(context.Background(), s.now())
	if err != nil {
		log.Printf("❌ Penalty expiry sweep failed: %v", err)
		return
	}
	if expired > 0 {
		log.Printf("✅ Penalty expiry sweep deactivated %d penalties", expired)
	}
}
