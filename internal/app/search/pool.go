package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/PabloGalante/travelbot/internal/domain"
	"github.com/PabloGalante/travelbot/internal/observability"
)

var (
	ErrQueueFull   = errors.New("search queue is full")
	ErrPoolStopped = errors.New("search pool is stopped")
)

// Runner executes one search. Fail is called once when Run returns an error,
// panics or times out.
type Runner interface {
	Run(ctx context.Context, job domain.SearchJob) (string, error)
	Fail(ctx context.Context, job domain.SearchJob, cause error)
}

// OutcomeHandler receives every outcome, before the job's future does.
type OutcomeHandler func(ctx context.Context, outcome domain.SearchOutcome)

type PoolConfig struct {
	Workers   int
	QueueSize int
	// Timeout bounds a single search; zero means no limit.
	Timeout      time.Duration
	Runner       Runner
	PanicHandler PanicHandler
}

type queuedJob struct {
	job  domain.SearchJob
	done chan domain.SearchOutcome
}

// Pool runs search jobs on a fixed set of goroutines reading a bounded queue.
type Pool struct {
	cfg       PoolConfig
	jobs      chan queuedJob
	onOutcome OutcomeHandler

	mu      sync.RWMutex
	started bool
	stopped bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPool(cfg PoolConfig) (*Pool, error) {
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1")
	}
	if cfg.Runner == nil {
		return nil, fmt.Errorf("runner is required")
	}
	if cfg.QueueSize < 0 {
		cfg.QueueSize = 0
	}
	if cfg.PanicHandler == nil {
		cfg.PanicHandler = LogPanicHandler{}
	}
	return &Pool{
		cfg:  cfg,
		jobs: make(chan queuedJob, cfg.QueueSize),
	}, nil
}

// Start launches the workers. onOutcome may be nil.
func (p *Pool) Start(ctx context.Context, onOutcome OutcomeHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.stopped {
		return
	}
	p.started = true
	p.onOutcome = onOutcome

	workerCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for id := 1; id <= p.cfg.Workers; id++ {
		p.wg.Add(1)
		go p.work(workerCtx, id)
	}
	observability.LoggerFromContext(ctx).Info("search pool started", "workers", p.cfg.Workers, "queue_size", p.cfg.QueueSize)
}

// Submit enqueues a job without blocking. The returned channel receives
// exactly one outcome.
func (p *Pool) Submit(job domain.SearchJob) (<-chan domain.SearchOutcome, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return nil, ErrPoolStopped
	}

	q := queuedJob{job: job, done: make(chan domain.SearchOutcome, 1)}
	select {
	case p.jobs <- q:
		return q.done, nil
	default:
		return nil, ErrQueueFull
	}
}

// Stop refuses new jobs and waits for queued and running ones to finish. When
// ctx expires first the workers' context is cancelled and ctx.Err is returned.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	close(p.jobs)
	cancel := p.cancel
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if cancel != nil {
			cancel()
		}
		return nil
	case <-ctx.Done():
		if cancel != nil {
			cancel()
		}
		return ctx.Err()
	}
}

func (p *Pool) work(ctx context.Context, id int) {
	defer p.wg.Done()
	for q := range p.jobs {
		outcome := p.execute(ctx, id, q.job)
		if p.onOutcome != nil {
			p.deliver(ctx, id, outcome)
		}
		q.done <- outcome
	}
}

func (p *Pool) execute(ctx context.Context, id int, job domain.SearchJob) domain.SearchOutcome {
	log := observability.WithFields("worker_id", id, "user_id", job.UserID, "search_id", job.ID)
	start := time.Now()

	runCtx := ctx
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	result, err := p.safeRun(runCtx, id, job)
	outcome := domain.SearchOutcome{SearchID: job.ID, UserID: job.UserID, Result: result, Err: err}

	if err != nil {
		// the failure notice must go out even after a timeout or shutdown
		p.cfg.Runner.Fail(context.WithoutCancel(ctx), job, err)
		log.Warn("search finished with error", "elapsed_ms", time.Since(start).Milliseconds(), "error", err)
		return outcome
	}

	log.Info("search finished", "elapsed_ms", time.Since(start).Milliseconds())
	return outcome
}

func (p *Pool) safeRun(ctx context.Context, id int, job domain.SearchJob) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			handleRecoveredPanic(id, r, p.cfg.PanicHandler)
			result, err = "", fmt.Errorf("search panicked: %v", r)
		}
	}()
	return p.cfg.Runner.Run(ctx, job)
}

func (p *Pool) deliver(ctx context.Context, id int, outcome domain.SearchOutcome) {
	defer func() {
		if r := recover(); r != nil {
			handleRecoveredPanic(id, r, p.cfg.PanicHandler)
		}
	}()
	p.onOutcome(context.WithoutCancel(ctx), outcome)
}
