package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
)

// Scheduler runs backup and cleanup jobs on cron expressions (with a
// seconds field).
type Scheduler struct {
	cron *cron.Cron
}

func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
	}
}

// AddJob schedules a job. Job errors are reported through onError; a
// failed run never stops the schedule.
func (s *Scheduler) AddJob(spec string, job func(context.Context) error, onError func(error)) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := job(context.Background()); err != nil && onError != nil {
			onError(err)
		}
	})
	return err
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
