package scraper

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"website-chatbot-builder/internal/logger"
)

// Scheduler runs periodic re-ingest jobs so website corpora stay current.
type Scheduler struct {
	scheduler *gocron.Scheduler
	cancel    context.CancelFunc
	ctx       context.Context
}

// NewScheduler creates a scheduler on UTC time.
func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := gocron.NewScheduler(time.UTC)
	s.TagsUnique()

	return &Scheduler{
		scheduler: s,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start starts the scheduler in the background.
func (s *Scheduler) Start() {
	s.scheduler.StartAsync()
}

// Stop stops the scheduler and cancels running jobs.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	if s.cancel != nil {
		s.cancel()
	}
}

// ScheduleCron schedules a job by cron expression under a unique tag.
func (s *Scheduler) ScheduleCron(tag, cronExpr string, job func() error) error {
	_, err := s.scheduler.Cron(cronExpr).Tag(tag).Do(func() {
		if err := job(); err != nil {
			logger.Error("Scheduled job failed", "tag", tag, "error", err)
		}
	})
	return err
}

// Unschedule removes a job by tag.
func (s *Scheduler) Unschedule(tag string) error {
	return s.scheduler.RemoveByTag(tag)
}
