package pool

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	p := New(0)
	defer p.Close()

	if got, want := p.Workers(), runtime.GOMAXPROCS(0); got != want {
		t.Errorf("Workers() = %d, want %d", got, want)
	}
	if !p.IsRunning() {
		t.Error("new pool should be running")
	}
}

func TestSubmitRunsAll(t *testing.T) {
	p := New(4)
	defer p.Close()

	const n = 200
	var count atomic.Int64
	var wg sync.WaitGroup
	wg.Add(n)
	for range n {
		if !p.Submit(func() {
			defer wg.Done()
			count.Add(1)
		}) {
			t.Fatal("Submit returned false on a running pool")
		}
	}
	wg.Wait()

	if got := count.Load(); got != n {
		t.Errorf("executed %d items, want %d", got, n)
	}
}

func TestSubmitNil(t *testing.T) {
	p := New(1)
	defer p.Close()

	if p.Submit(nil) {
		t.Error("Submit(nil) should report false")
	}
}

func TestSubmitAfterClose(t *testing.T) {
	p := New(2)
	p.Close()

	if p.Submit(func() { t.Error("work ran after Close") }) {
		t.Error("Submit after Close should report false")
	}
	if p.IsRunning() {
		t.Error("closed pool should not be running")
	}
}

func TestCloseIdempotent(t *testing.T) {
	p := New(2)
	p.Close()
	p.Close()
}

func TestCloseDiscardsQueued(t *testing.T) {
	p := New(1)

	release := make(chan struct{})
	started := make(chan struct{})
	p.Submit(func() {
		close(started)
		<-release
	})
	<-started

	var ran atomic.Bool
	for range 4 {
		p.Submit(func() { ran.Store(true) })
	}

	closed := make(chan struct{})
	go func() {
		p.Close()
		close(closed)
	}()

	// Give Close time to flip the running flag before the blocker returns.
	time.Sleep(10 * time.Millisecond)
	close(release)
	<-closed

	if ran.Load() {
		t.Error("queued work should be discarded by Close")
	}
}
