package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/socialpulse/pulse-analytics/internal/config"
)

// Runner is the set of jobs the scheduler triggers
type Runner interface {
	RunCollection() error
	RunViralCheck() error
	RunPrune() error
}

const (
	viralCheckSchedule = "0 15 * * * *" // every hour at :15
	pruneSchedule      = "0 30 3 * * *" // daily at 03:30
)

// Service handles scheduling of collection tasks
type Service struct {
	config *config.Config
	runner Runner
	cron   *cron.Cron
}

// NewService creates a new scheduler service. Schedules are evaluated in the
// configured time zone.
func NewService(cfg *config.Config, runner Runner) *Service {
	return &Service{
		config: cfg,
		runner: runner,
		cron:   cron.New(cron.WithSeconds(), cron.WithLocation(cfg.Location())),
	}
}

// CollectionSchedule returns the cron schedule of the collection job
func (s *Service) CollectionSchedule() string {
	return fmt.Sprintf("@every %dm", s.config.UpdateInterval)
}

// Start registers every job and begins the schedule
func (s *Service) Start() error {
	_, err := s.cron.AddFunc(s.CollectionSchedule(), func() {
		logrus.Info("Starting scheduled collection run")
		if err := s.runner.RunCollection(); err != nil {
			logrus.Errorf("Scheduled collection run failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule collection: %w", err)
	}

	_, err = s.cron.AddFunc(viralCheckSchedule, func() {
		logrus.Info("Starting viral content check (hourly)")
		if err := s.runner.RunViralCheck(); err != nil {
			logrus.Errorf("Viral content check failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule viral check: %w", err)
	}

	_, err = s.cron.AddFunc(pruneSchedule, func() {
		logrus.Info("Starting daily prune")
		if err := s.runner.RunPrune(); err != nil {
			logrus.Errorf("Daily prune failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule prune: %w", err)
	}

	s.cron.Start()
	logrus.Infof("Scheduler started: collection every %d minutes, hourly viral checks, daily prune", s.config.UpdateInterval)
	return nil
}

// Entries returns the number of registered jobs
func (s *Service) Entries() int {
	return len(s.cron.Entries())
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Service) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
		logrus.Info("Scheduler stopped")
	}
}
