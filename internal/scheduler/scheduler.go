// Package scheduler runs background jobs on cron schedules: pruning idle
// sessions and keeping the course cache warm via direct catalog actions.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Runner invokes a catalog action outside any conversation.
type Runner interface {
	RunDirect(ctx context.Context, action string, args map[string]any) (any, error)
}

// Job is one configured scheduled action.
type Job struct {
	Name     string         `yaml:"name"`
	Schedule string         `yaml:"schedule"` // cron spec, or @every <duration>
	Action   string         `yaml:"action"`
	Args     map[string]any `yaml:"args,omitempty"`
}

const jobTimeout = 2 * time.Minute

type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	log    *logrus.Logger
}

func New(runner Runner, log *logrus.Logger) *Scheduler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Scheduler{
		cron:   cron.New(),
		runner: runner,
		log:    log,
	}
}

// AddJob schedules a catalog action. Returns an error for an invalid spec.
func (s *Scheduler) AddJob(job Job) error {
	if job.Name == "" || job.Action == "" {
		return fmt.Errorf("scheduler: job needs a name and an action")
	}
	_, err := s.cron.AddFunc(job.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if _, err := s.runner.RunDirect(ctx, job.Action, job.Args); err != nil {
			s.log.WithError(err).WithField("job", job.Name).Error("scheduled action failed")
			return
		}
		s.log.WithFields(logrus.Fields{"job": job.Name, "action": job.Action}).Info("scheduled action ran")
	})
	if err != nil {
		return fmt.Errorf("scheduler: job %q: %w", job.Name, err)
	}
	return nil
}

// AddFunc schedules an arbitrary maintenance function, such as the session
// store prune.
func (s *Scheduler) AddFunc(name, spec string, fn func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			s.log.WithError(err).WithField("job", name).Error("maintenance job failed")
		}
	})
	if err != nil {
		return fmt.Errorf("scheduler: job %q: %w", name, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
