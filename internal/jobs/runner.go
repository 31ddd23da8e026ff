package jobs

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"giro-settlement/internal/metrics"
)

// ErrBusy is returned when a job is started while it is already running.
var ErrBusy = errors.New("jobs: already running")

// Runner runs named jobs, at most one run per name at a time. The HTTP
// triggers and the daily scheduler share one Runner.
type Runner struct {
	mu      sync.Mutex
	running map[string]bool
	logger  *log.Logger
}

// NewRunner creates a Runner. A nil logger discards.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Runner{running: map[string]bool{}, logger: logger}
}

// Running reports whether a job holding the named lock is in progress.
func (r *Runner) Running(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running[name]
}

func (r *Runner) acquire(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running[name] {
		return false
	}
	r.running[name] = true
	return true
}

func (r *Runner) release(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.running, name)
}

// Run calls fn unless a run of the same job is in progress, in which case it
// returns ErrBusy without calling fn.
func (r *Runner) Run(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	return r.RunLocked(ctx, name, name, fn)
}

// RunLocked is Run with the exclusion keyed on lock rather than the job name,
// so different jobs holding the same lock never overlap.
func (r *Runner) RunLocked(ctx context.Context, lock, name string, fn func(ctx context.Context) error) error {
	if !r.acquire(lock) {
		metrics.ObserveJob(name, metrics.ResultBusy, 0)
		r.logger.Printf("jobs: skipped job=%s reason=busy", name)
		return ErrBusy
	}
	defer r.release(lock)

	start := time.Now()
	err := fn(ctx)
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
		r.logger.Printf("jobs: failed job=%s duration=%s err=%v", name, time.Since(start), err)
	} else {
		r.logger.Printf("jobs: done job=%s duration=%s", name, time.Since(start))
	}
	metrics.ObserveJob(name, result, time.Since(start))
	return err
}
