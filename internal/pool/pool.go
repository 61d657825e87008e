package pool

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Task is a unit of work executed on a pool worker goroutine
type Task func(ctx context.Context)

// Config configures a worker pool
type Config struct {
	Workers   int
	QueueSize int
	Logger    *slog.Logger
}

// Option configures the worker pool
type Option func(*Config)

// WithWorkers sets the number of worker goroutines
func WithWorkers(workers int) Option {
	return func(c *Config) {
		c.Workers = workers
	}
}

// WithQueueSize sets the size of the task queue
func WithQueueSize(size int) Option {
	return func(c *Config) {
		c.QueueSize = size
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// Pool is a bounded worker pool. Tasks are executed concurrently on a fixed
// number of worker goroutines; Submit blocks only while the task queue is
// full. Stop drains queued tasks before returning, so every accepted task
// runs exactly once.
type Pool struct {
	config    *Config
	tasks     chan Task
	mu        sync.RWMutex
	running   bool
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	submitted atomic.Int64
	completed atomic.Int64
}

// NewPool creates a new worker pool
func NewPool(opts ...Option) (*Pool, error) {
	config := &Config{
		Workers:   4,
		QueueSize: 64,
		Logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(config)
	}

	if config.Workers < 1 {
		return nil, fmt.Errorf("worker count must be positive, got %d", config.Workers)
	}
	if config.QueueSize < 0 {
		return nil, fmt.Errorf("queue size cannot be negative, got %d", config.QueueSize)
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Pool{
		config: config,
		tasks:  make(chan Task, config.QueueSize),
	}, nil
}

// Start starts the worker goroutines
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return fmt.Errorf("pool already running")
	}

	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.Workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	p.running = true
	p.config.Logger.Debug("worker pool started", "workers", p.config.Workers, "queueSize", p.config.QueueSize)

	return nil
}

// Stop stops the pool, draining queued tasks first
func (p *Pool) Stop() error {
	p.mu.Lock()

	if !p.running {
		p.mu.Unlock()
		return fmt.Errorf("pool not running")
	}

	p.running = false
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
	p.cancel()

	p.config.Logger.Debug("worker pool stopped", "completed", p.completed.Load())

	return nil
}

// Submit enqueues a task for execution. It blocks while the queue is full
// and fails once the pool has been stopped.
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return fmt.Errorf("task cannot be nil")
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.running {
		return fmt.Errorf("pool not running")
	}

	p.tasks <- task
	p.submitted.Add(1)

	return nil
}

// Submitted returns the number of tasks accepted by the pool
func (p *Pool) Submitted() int64 {
	return p.submitted.Load()
}

// Completed returns the number of tasks that have finished executing
func (p *Pool) Completed() int64 {
	return p.completed.Load()
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for task := range p.tasks {
		p.runTask(id, task)
	}
}

func (p *Pool) runTask(id int, task Task) {
	defer func() {
		if r := recover(); r != nil {
			p.config.Logger.Error("task panicked", "worker", id, "panic", r)
		}
		p.completed.Add(1)
	}()

	task(p.ctx)
}
