// Package scheduler runs the cache maintenance jobs for blockfront on a
// cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

var (
	// ErrAlreadyStarted is returned by Start on a running scheduler.
	ErrAlreadyStarted = errors.New("scheduler already started")
	// ErrNeverFires is returned for expressions with no future activation,
	// such as the 30th of February.
	ErrNeverFires = errors.New("schedule never fires")
)

// Job is one unit of scheduled work.
type Job interface {
	// Name identifies the job in logs and status.
	Name() string
	// Run executes the job and returns a short result summary.
	Run(ctx context.Context) (string, error)
}

// JobResult is the outcome of the last run of a job.
type JobResult struct {
	Job      string        `json:"job"`
	Result   string        `json:"result,omitempty"`
	Error    string        `json:"error,omitempty"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
}

// Status is a snapshot of the scheduler.
type Status struct {
	Running bool        `json:"running"`
	Cron    string      `json:"cron"`
	NextRun time.Time   `json:"next_run,omitzero"`
	LastRun time.Time   `json:"last_run,omitzero"`
	Results []JobResult `json:"results,omitempty"`
}

// Scheduler runs its jobs in order each time the cron schedule fires.
// Runs never overlap; a tick that arrives while a run is in progress waits
// for the next one.
type Scheduler struct {
	mu sync.RWMutex

	jobs       []Job
	expr       string
	schedule   cron.Schedule
	runOnStart bool
	jobTimeout time.Duration
	logger     *slog.Logger
	now        func() time.Time

	// Running state
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	runMu   sync.Mutex
	nextRun time.Time
	lastRun time.Time
	results []JobResult
}

// parser accepts 6-field expressions with a leading seconds field, and the
// descriptors such as @hourly.
var parser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ValidateCron validates a cron expression.
func ValidateCron(expr string) error {
	_, err := parse(expr)
	return err
}

func parse(expr string) (cron.Schedule, error) {
	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	if schedule.Next(time.Now()).IsZero() {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, ErrNeverFires)
	}
	return schedule, nil
}

// New creates a scheduler for expr.
func New(expr string, jobs ...Job) (*Scheduler, error) {
	schedule, err := parse(expr)
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		jobs:       jobs,
		expr:       expr,
		schedule:   schedule,
		jobTimeout: 30 * time.Minute,
		logger:     slog.Default(),
		now:        time.Now,
	}, nil
}

// WithLogger sets a custom logger.
func (s *Scheduler) WithLogger(logger *slog.Logger) *Scheduler {
	s.logger = logger
	return s
}

// WithRunOnStart makes Start run the jobs once immediately.
func (s *Scheduler) WithRunOnStart(enabled bool) *Scheduler {
	s.runOnStart = enabled
	return s
}

// WithJobTimeout bounds each job run. Zero keeps the default.
func (s *Scheduler) WithJobTimeout(d time.Duration) *Scheduler {
	if d > 0 {
		s.jobTimeout = d
	}
	return s
}

// Start begins the scheduling loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx != nil {
		return ErrAlreadyStarted
	}
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.loop(s.ctx)

	s.logger.Info("scheduler started",
		slog.String("cron", s.expr),
		slog.Int("jobs", len(s.jobs)),
		slog.Bool("run_on_start", s.runOnStart))
	return nil
}

// Stop cancels any run in progress and waits for the loop to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	s.ctx = nil
	s.cancel = nil
	s.nextRun = time.Time{}
	s.mu.Unlock()

	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	if s.runOnStart {
		s.RunNow(ctx)
	}

	for {
		now := s.now()
		next := s.schedule.Next(now)
		if next.IsZero() {
			s.logger.Error("schedule has no further activations, stopping", slog.String("cron", s.expr))
			return
		}
		s.mu.Lock()
		s.nextRun = next
		s.mu.Unlock()

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.RunNow(ctx)
		}
	}
}

// RunNow runs every job once, in order, and returns their results. A job
// failure is logged and does not stop the jobs after it.
func (s *Scheduler) RunNow(ctx context.Context) []JobResult {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	started := s.now()
	results := make([]JobResult, 0, len(s.jobs))
	for _, job := range s.jobs {
		if ctx.Err() != nil {
			break
		}
		results = append(results, s.runJob(ctx, job))
	}

	s.mu.Lock()
	s.lastRun = started
	s.results = results
	s.mu.Unlock()
	return results
}

func (s *Scheduler) runJob(ctx context.Context, job Job) JobResult {
	ctx, cancel := context.WithTimeout(ctx, s.jobTimeout)
	defer cancel()

	start := s.now()
	out, err := job.Run(ctx)
	res := JobResult{
		Job:      job.Name(),
		Result:   out,
		Started:  start,
		Duration: time.Since(start),
	}
	if err != nil {
		res.Error = err.Error()
		s.logger.Error("scheduled job failed",
			slog.String("job", job.Name()),
			slog.Duration("duration", res.Duration),
			slog.Any("error", err))
		return res
	}
	s.logger.Info("scheduled job completed",
		slog.String("job", job.Name()),
		slog.String("result", out),
		slog.Duration("duration", res.Duration))
	return res
}

// Status returns a snapshot of the scheduler state.
func (s *Scheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		Running: s.ctx != nil,
		Cron:    s.expr,
		NextRun: s.nextRun,
		LastRun: s.lastRun,
		Results: append([]JobResult(nil), s.results...),
	}
}
