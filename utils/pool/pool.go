package pool

import (
	"context"
	"sync"
)

// Pool runs jobs on a bounded number of goroutines.
type Pool struct {
	workerQ chan struct{}
	wg      sync.WaitGroup

	mu  sync.Mutex
	err error
}

// NewPool creates a new worker pool with a goroutine limit.
func NewPool(routines int) *Pool {
	if routines < 1 {
		routines = 1
	}
	q := make(chan struct{}, routines)
	for i := 0; i < routines; i++ {
		q <- struct{}{}
	}
	return &Pool{workerQ: q}
}

// Go blocks until a worker is free and runs job on it. Once ctx is done no
// new job is started.
func (p *Pool) Go(ctx context.Context, job func(ctx context.Context) error) {
	select {
	case <-p.workerQ:
	case <-ctx.Done():
		p.fail(ctx.Err())
		return
	}
	p.wg.Add(1)
	go func() {
		defer func() {
			p.workerQ <- struct{}{}
			p.wg.Done()
		}()
		if err := job(ctx); err != nil {
			p.fail(err)
		}
	}()
}

// Wait waits until the pool is finished and returns the first job error.
func (p *Pool) Wait() error {
	p.wg.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *Pool) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err == nil {
		p.err = err
	}
}
