package jobs

import (
	"log"

	"github.com/robfig/cron/v3"

	"github.com/ascend-fitness/backend/internal/quests"
)

// Scheduler runs the background maintenance jobs for the quest system.
type Scheduler struct {
	cron   *cron.Cron
	quests *quests.Service
}

func NewScheduler(questSvc *quests.Service) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		quests: questSvc,
	}
}

// Start registers the jobs and launches the scheduler in the background.
func (s *Scheduler) Start() error {
	// Sweep overdue active quests every 10 minutes.
	if _, err := s.cron.AddFunc("@every 10m", s.expireQuests); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("[jobs] scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) expireQuests() {
	expired, err := s.quests.ExpireOverdue()
	if err != nil {
		log.Printf("[jobs] quest expiry sweep failed: %v", err)
		return
	}
	if expired > 0 {
		log.Printf("[jobs] marked %d overdue quests as failed", expired)
	}
}
