package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	applogger "AssetRadar/pkg/logger"
)

var ErrClosed = errors.New("queue is closed")

// Option configures Queue.
type Option func(*Config)

// Config holds queue configuration.
type Config struct {
	Workers    int
	Buffer     int
	JobTimeout time.Duration
}

// Queue runs jobs on a fixed pool of background workers.
type Queue struct {
	cfg    *Config
	jobs   chan Job
	logger *applogger.Logger

	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New creates a queue and starts its workers.
func New(l *applogger.Logger, opts ...Option) *Queue {
	cfg := &Config{
		Workers:    2,
		Buffer:     64,
		JobTimeout: time.Minute,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	q := &Queue{
		cfg:    cfg,
		jobs:   make(chan Job, cfg.Buffer),
		logger: l,
	}

	for i := 0; i < cfg.Workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}

	return q
}

// Enqueue submits a job. It returns ErrClosed after Close, and an error
// when the buffer is full rather than blocking the caller.
func (q *Queue) Enqueue(job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}

	select {
	case q.jobs <- job:
		return nil
	default:
		return errors.New("queue buffer full")
	}
}

// Close stops accepting jobs and waits for in-flight jobs to finish.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		q.mu.Lock()
		q.closed = true
		close(q.jobs)
		q.mu.Unlock()
	})
	q.wg.Wait()
}

func (q *Queue) worker() {
	defer q.wg.Done()

	for job := range q.jobs {
		q.run(job)
	}
}

func (q *Queue) run(job Job) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("job panicked",
				applogger.String("job", job.Name()),
				applogger.Any("panic", r),
			)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), q.cfg.JobTimeout)
	defer cancel()

	start := time.Now()
	if err := job.Execute(ctx); err != nil {
		q.logger.Error("job failed",
			applogger.String("job", job.Name()),
			applogger.Error(err),
		)
		return
	}

	q.logger.Debug("job done",
		applogger.String("job", job.Name()),
		applogger.Duration("duration_ms", time.Since(start)),
	)
}

// WithWorkers sets the worker count.
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

// WithBuffer sets the job buffer size.
func WithBuffer(n int) Option {
	return func(c *Config) {
		c.Buffer = n
	}
}

// WithJobTimeout sets the per-job execution timeout.
func WithJobTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.JobTimeout = d
	}
}
