package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Task represents a unit of work executed by the pool.
// The context is cancelled after taskTimeout or when the pool stops.
type Task func(ctx context.Context)

// Pool runs fire-and-forget tasks off the request path.
type Pool interface {
	// Submit queues t without blocking; it returns false when the queue is full or the pool is stopped.
	Submit(t Task) bool
	Stop()
}

const (
	queuePerWorker = 16
	taskTimeout    = 5 * time.Second
)

// NewPool creates a pool with n workers. n<=0 defaults to 1.
func NewPool(n int, log zerolog.Logger) Pool {
	if n <= 0 {
		n = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &pool{
		jobs:   make(chan Task, n*queuePerWorker),
		ctx:    ctx,
		cancel: cancel,
		log:    log,
	}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				if job != nil {
					p.run(job)
				}
			}
		}()
	}
	return p
}

type pool struct {
	jobs   chan Task
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	log    zerolog.Logger

	mu      sync.RWMutex
	stopped bool
}

func (p *pool) run(t Task) {
	ctx, cancel := context.WithTimeout(p.ctx, taskTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Msg("worker task panicked")
		}
	}()
	t(ctx)
}

func (p *pool) Submit(t Task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return false
	}
	select {
	case p.jobs <- t:
		return true
	default:
		p.log.Warn().Msg("worker queue full, task dropped")
		return false
	}
}

// Stop drains queued tasks and waits for workers to exit.
func (p *pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
	p.cancel()
}
