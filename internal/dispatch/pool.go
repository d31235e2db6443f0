package dispatch

import (
	"log/slog"
	"runtime"
	"sync"
)

// Pool runs units on a fixed set of worker goroutines.
//
// Units queue in a bounded channel; Submit blocks while the queue is full,
// which caps both live goroutines and memory under repeated bursts.
type Pool struct {
	tracker

	queue   chan func()
	workers sync.WaitGroup
	size    int
}

// NewPool creates and starts a worker pool.
func NewPool(opts Options) *Pool {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Queue <= 0 {
		opts.Queue = 4 * opts.Workers
	}

	p := &Pool{
		tracker: tracker{logger: opts.Logger},
		queue:   make(chan func(), opts.Queue),
		size:    opts.Workers,
	}
	for i := 0; i < opts.Workers; i++ {
		p.workers.Add(1)
		go p.worker()
	}
	return p
}

// worker drains the queue until it is closed.
func (p *Pool) worker() {
	defer p.workers.Done()
	for task := range p.queue {
		p.run(task)
	}
}

// Mode returns ModePool.
func (p *Pool) Mode() Mode { return ModePool }

// Size returns the number of workers.
func (p *Pool) Size() int { return p.size }

// Submit enqueues task, blocking while the queue is full.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if err := p.admit(); err != nil {
		return err
	}
	p.queue <- task
	return nil
}

// Wait blocks until every queued unit has finished.
func (p *Pool) Wait() { p.wg.Wait() }

// Close drains the queue and stops the workers.
func (p *Pool) Close() error {
	if p.shut() {
		return nil
	}
	close(p.queue)
	p.workers.Wait()
	return nil
}

// Stats returns the dispatcher counters.
func (p *Pool) Stats() Stats { return p.stats() }
