// Package pool provides the bounded worker pool used to decode frames.
package pool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a fixed set of goroutines draining per-worker queues.
//
// Work is handed out round-robin. A worker whose own queue is empty steals
// from its neighbours before blocking, so one slow decode does not stall
// the frames queued behind it.
//
// Thread safety: Pool is safe for concurrent use.
type Pool struct {
	workers int

	// queues holds one buffered queue per worker.
	queues []chan func()

	// next is the round-robin cursor for Submit.
	next atomic.Uint64

	// done signals workers to stop.
	done chan struct{}

	wg      sync.WaitGroup
	running atomic.Bool
}

// New starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := workers * 4
	if queueSize < 8 {
		queueSize = 8
	}

	p := &Pool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	own := p.queues[id]
	for {
		select {
		case <-p.done:
			return
		case fn := <-own:
			p.run(fn)
			continue
		default:
		}

		if fn := p.steal(id); fn != nil {
			p.run(fn)
			continue
		}

		select {
		case <-p.done:
			return
		case fn := <-own:
			p.run(fn)
		}
	}
}

// run executes fn unless the pool has been closed in the meantime.
func (p *Pool) run(fn func()) {
	if fn == nil || !p.running.Load() {
		return
	}
	fn()
}

// steal takes one item from another worker's queue, or returns nil.
func (p *Pool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case fn := <-p.queues[i]:
			return fn
		default:
		}
	}
	return nil
}

// Submit queues fn for execution. It blocks while the chosen queue is full
// and reports false if the pool is closed before fn could be queued.
func (p *Pool) Submit(fn func()) bool {
	if fn == nil || !p.running.Load() {
		return false
	}

	q := p.queues[p.next.Add(1)%uint64(p.workers)]
	select {
	case q <- fn:
		return true
	case <-p.done:
		return false
	}
}

// Close stops the workers and waits for the items already running.
// Queued items that have not started are discarded.
// Close is safe to call multiple times.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts work.
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}

// Queued returns the approximate number of items waiting in the queues.
func (p *Pool) Queued() int {
	total := 0
	for _, q := range p.queues {
		total += len(q)
	}
	return total
}
