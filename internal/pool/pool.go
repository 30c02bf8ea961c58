package pool

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by Execute once the pool was closed.
var ErrClosed = errors.New("worker pool is closed")

// Task is a single self-contained unit of work. Tasks don't return anything to the submitter,
// so they're responsible for handling their own errors.
type Task func()

// Pool is a fixed set of long-lived workers draining a single bounded queue. Every task is
// delivered to exactly one worker. A worker always finishes its current task before
// noticing the pool is closed, and a panicking task affects neither its worker nor the
// rest of the pool.
type Pool struct {
	queue   chan Task
	mu      sync.RWMutex
	closed  bool
	workers sync.WaitGroup
	busy    atomic.Int64
	logger  *slog.Logger
	onPanic func(recovered any)
}

// New starts n workers. queueSize limits how many tasks may wait for a free worker; once
// the queue is full, Execute blocks the caller.
func New(n, queueSize int, logger *slog.Logger) *Pool {
	if n < 1 {
		panic(fmt.Sprintf("pool: workers number must be positive, got %d", n))
	}

	if logger == nil {
		logger = slog.Default()
	}

	p := &Pool{
		queue:  make(chan Task, queueSize),
		logger: logger,
	}

	p.workers.Add(n)
	for i := 0; i < n; i++ {
		go p.worker(i)
	}

	return p
}

// OnPanic sets a callback, which is called with a recovered value every time a task panics.
// Must be set before any task is submitted.
func (p *Pool) OnPanic(cb func(recovered any)) *Pool {
	p.onPanic = cb
	return p
}

// Execute enqueues the task. The call blocks while the queue is full.
func (p *Pool) Execute(task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrClosed
	}

	p.queue <- task

	return nil
}

// Busy returns the number of workers executing a task at the moment.
func (p *Pool) Busy() int {
	return int(p.busy.Load())
}

// Pending returns the number of queued tasks waiting for a free worker.
func (p *Pool) Pending() int {
	return len(p.queue)
}

// Close stops accepting new tasks. Already queued tasks are still executed. Close doesn't
// wait for workers to terminate, use Wait for that.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		p.closed = true
		close(p.queue)
	}
}

// Wait blocks until every worker is terminated. Makes sense only after Close.
func (p *Pool) Wait() {
	p.workers.Wait()
}

func (p *Pool) worker(id int) {
	defer p.workers.Done()

	for task := range p.queue {
		p.run(id, task)
	}
}

func (p *Pool) run(id int, task Task) {
	p.busy.Add(1)

	defer func() {
		p.busy.Add(-1)

		if r := recover(); r != nil {
			p.logger.Error("task panicked",
				slog.Int("worker", id),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)

			if p.onPanic != nil {
				p.onPanic(r)
			}
		}
	}()

	task()
}
