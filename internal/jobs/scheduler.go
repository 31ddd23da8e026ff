package jobs

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"
)

// Job is a daily job. Run gets the local date the trigger fired on.
type Job struct {
	Name string
	// Lock defaults to Name. Jobs sharing a Lock never run at the same time.
	Lock string
	// At lists the local times of day, as "15:04", the job fires at.
	At  []string
	Run func(ctx context.Context, today time.Time) error
}

func (j Job) lock() string {
	if j.Lock != "" {
		return j.Lock
	}
	return j.Name
}

type clock struct{ hour, minute int }

type scheduled struct {
	job   Job
	times []clock
}

// Scheduler fires jobs at fixed times of day through a Runner.
type Scheduler struct {
	runner *Runner
	loc    *time.Location
	jobs   []scheduled
	logger *log.Logger

	mu      sync.Mutex
	lastRun map[string]time.Time
	wg      sync.WaitGroup
}

// NewScheduler validates the job times. A nil location means UTC.
func NewScheduler(runner *Runner, loc *time.Location, logger *log.Logger, jobs ...Job) (*Scheduler, error) {
	if runner == nil {
		return nil, fmt.Errorf("scheduler: nil runner")
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Scheduler{runner: runner, loc: loc, logger: logger, lastRun: map[string]time.Time{}}
	for _, job := range jobs {
		if job.Name == "" || job.Run == nil {
			return nil, fmt.Errorf("scheduler: job needs a name and a run function")
		}
		sc := scheduled{job: job}
		for _, at := range job.At {
			hour, minute, err := parseDailyAt(at)
			if err != nil {
				return nil, fmt.Errorf("scheduler: job %s: invalid time %q: %w", job.Name, at, err)
			}
			sc.times = append(sc.times, clock{hour, minute})
		}
		s.jobs = append(s.jobs, sc)
	}
	return s, nil
}

// Start ticks every minute until ctx is done, then waits for running jobs.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	defer s.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Tick(ctx, now)
		}
	}
}

// Tick starts every job due at now in its own goroutine. A job fires at most
// once per scheduled minute.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	local := now.In(s.loc)
	minute := local.Truncate(time.Minute)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)

	for _, sc := range s.jobs {
		if !sc.due(local) || !s.markRun(sc.job.Name, minute) {
			continue
		}
		job := sc.job
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			err := s.runner.RunLocked(ctx, job.lock(), job.Name, func(ctx context.Context) error {
				return job.Run(ctx, today)
			})
			if err != nil {
				s.logger.Printf("scheduler: run failed job=%s date=%s err=%v", job.Name, today.Format("2006-01-02"), err)
			}
		}()
	}
}

// Wait blocks until jobs started by Tick have returned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (sc scheduled) due(now time.Time) bool {
	for _, c := range sc.times {
		if now.Hour() == c.hour && now.Minute() == c.minute {
			return true
		}
	}
	return false
}

func (s *Scheduler) markRun(name string, minute time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if last, ok := s.lastRun[name]; ok && last.Equal(minute) {
		return false
	}
	s.lastRun[name] = minute
	return true
}

func parseDailyAt(value string) (int, int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}
