package worker

import (
	"runtime"
	"sync"

	"github.com/getsentry/sentry-go"
)

// Pool runs CPU intensive work, such as ticking actors, on a fixed amount of goroutines.
type Pool struct {
	queue chan func()
	once  sync.Once
}

// New returns a pool with n workers. If n is zero or less, a worker is started per CPU.
func New(n int) *Pool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	p := &Pool{queue: make(chan func(), n)}
	for i := 0; i < n; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for f := range p.queue {
		run(f)
	}
}

// run runs f, reporting a panic to sentry rather than taking the worker down.
func run(f func()) {
	defer sentry.Recover()
	f()
}

// Submit queues f to be run by a worker. It blocks while every worker is busy and the queue is
// full.
func (p *Pool) Submit(f func()) {
	p.queue <- f
}

// Run runs every function passed on the pool and waits for all of them to return.
func (p *Pool) Run(fs ...func()) {
	var wg sync.WaitGroup
	wg.Add(len(fs))
	for _, f := range fs {
		p.Submit(func() {
			defer wg.Done()
			f()
		})
	}
	wg.Wait()
}

// Close stops the workers once the queued work is done. Submitting after Close panics.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.queue)
	})
}
