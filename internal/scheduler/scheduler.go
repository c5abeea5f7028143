// Package scheduler wires recurring jobs (crawl-all, keyword crawl,
// prune) onto cron schedules from configuration.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hoehoe5252-yong/yong2/internal/logger"
)

// jobTimeout bounds one scheduled invocation so a wedged job cannot
// pile up behind the next tick.
const jobTimeout = 30 * time.Minute

// Scheduler runs registered jobs on standard 5-field cron schedules.
type Scheduler struct {
	cron   *cron.Cron
	logger logger.Logger
}

func New(log logger.Logger) *Scheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(cron.WithParser(parser), cron.WithChain(cron.Recover(cron.DefaultLogger)))

	return &Scheduler{
		cron:   c,
		logger: log,
	}
}

// Add registers a job. An empty spec disables the job silently so
// config can leave schedules out.
func (s *Scheduler) Add(name, spec string, job func(ctx context.Context)) error {
	if spec == "" {
		s.logger.Info("Scheduled job disabled", logger.String("job", name))
		return nil
	}

	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		s.logger.Info("Scheduled job starting", logger.String("job", name))
		job(ctx)
		s.logger.Info("Scheduled job finished",
			logger.String("job", name),
			logger.Duration("elapsed", time.Since(start)),
		)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Scheduled job registered",
		logger.String("job", name),
		logger.String("schedule", spec),
	)
	return nil
}

// Start begins running registered jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("Scheduler shutdown timed out with jobs still running")
	}
}
