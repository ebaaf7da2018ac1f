// Package scheduler runs periodic background jobs such as presence refresh.
package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is the callback invoked when a schedule fires.
type Job func()

// Scheduler fires named jobs on cron schedules.
type Scheduler struct {
	cron *cron.Cron
}

// cronParser accepts both standard 5-field cron expressions and 6-field
// expressions with an optional seconds field, plus descriptors such as
// "@every 30m".
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// New creates an idle Scheduler.
func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithParser(cronParser), cron.WithChain(cron.Recover(cron.DiscardLogger))),
	}
}

// Add registers job under name on spec.
func (s *Scheduler) Add(name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		slog.Debug("cron firing job", "name", name)
		job()
	})
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	slog.Info("scheduled job", "name", name, "schedule", spec)
	return nil
}

// Every registers job to fire at a fixed interval. Intervals are rounded
// to whole seconds; anything shorter than a second is rejected.
func (s *Scheduler) Every(name string, interval time.Duration, job Job) error {
	if interval < time.Second {
		return fmt.Errorf("schedule %s: interval %s is shorter than 1s", name, interval)
	}
	return s.Add(name, "@every "+interval.Round(time.Second).String(), job)
}

// Len returns the number of registered jobs.
func (s *Scheduler) Len() int { return len(s.cron.Entries()) }

// Start starts the cron ticker in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the ticker and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
