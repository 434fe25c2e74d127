package threadpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestFillDefaults(t *testing.T) {
	var o Options
	o.FillDefaults()

	if o.Workers != DefaultMaxWorkers {
		t.Fatalf("Workers = %d; want %d", o.Workers, DefaultMaxWorkers)
	}
	if o.Ctx == nil {
		t.Fatal("expected Ctx to be set by FillDefaults")
	}
	if o.Metrics == nil {
		t.Fatal("expected Metrics to be set by FillDefaults")
	}
}

func TestJobSuccess(t *testing.T) {
	p := New(Options{Workers: 2})
	defer p.Stop()

	done := make(chan struct{})
	if err := p.Submit(func() { close(done) }); err != nil {
		t.Fatalf("submit: %v", err)
	}

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("job did not complete")
	}
}

func TestSizeInvariant(t *testing.T) {
	p := New(Options{Workers: 3})

	if got := p.Size(); got != 3 {
		t.Fatalf("Size() = %d; want 3", got)
	}
	p.Stop()
	if got := p.Size(); got != 3 {
		t.Fatalf("Size() after shutdown = %d; want 3", got)
	}
}

func TestExactlyOnceExecution(t *testing.T) {
	p := New(Options{Workers: 4})

	const n = 100
	counts := make([]int32, n)
	for i := 0; i < n; i++ {
		i := i
		if err := p.Submit(func() { atomic.AddInt32(&counts[i], 1) }); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.Shutdown(ctx, true); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	for i, c := range counts {
		if c != 1 {
			t.Fatalf("job %d ran %d times; want 1", i, c)
		}
	}
	if got := p.Pending(); got != 0 {
		t.Fatalf("Pending() = %d; want 0", got)
	}
}

func TestSingleWorkerFIFO(t *testing.T) {
	p := New(Options{Workers: 1})
	defer p.Stop()

	var mu sync.Mutex
	var got []int
	for i := 1; i <= 3; i++ {
		i := i
		if err := p.Submit(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	p.WaitAll()

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("execution order = %v; want [1 2 3]", got)
	}
}

func TestWaitAllBlocksUntilDrained(t *testing.T) {
	p := New(Options{Workers: 1})
	defer p.Stop()

	gate := make(chan struct{})
	_ = p.Submit(func() { <-gate })

	waited := make(chan struct{})
	go func() {
		p.WaitAll()
		close(waited)
	}()

	select {
	case <-waited:
		t.Fatal("WaitAll returned with a job still executing")
	case <-time.After(50 * time.Millisecond):
	}

	close(gate)

	select {
	case <-waited:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("WaitAll did not return after drain")
	}
	if got := p.Pending(); got != 0 {
		t.Fatalf("Pending() = %d; want 0", got)
	}
}

func TestPendingNeverNegative(t *testing.T) {
	p := New(Options{Workers: 4})
	defer p.Stop()

	go func() {
		for i := 0; i < 200; i++ {
			_ = p.Submit(func() {})
		}
	}()

	for i := 0; i < 200; i++ {
		if got := p.Pending(); got < 0 {
			t.Fatalf("Pending() = %d; want >= 0", got)
		}
	}
	p.WaitAll()
	if got := p.Pending(); got != 0 {
		t.Fatalf("Pending() after drain = %d; want 0", got)
	}
}

func TestIdempotentShutdown(t *testing.T) {
	p := New(Options{Workers: 2})
	for i := 0; i < 10; i++ {
		_ = p.Submit(func() {})
	}
	p.Stop()

	start := time.Now()
	if err := p.Shutdown(context.Background(), true); err != nil {
		t.Fatalf("second shutdown: %v", err)
	}
	if d := time.Since(start); d > 200*time.Millisecond {
		t.Fatalf("second shutdown took %v; want prompt return", d)
	}
}

func TestDropOnFastShutdown(t *testing.T) {
	p := New(Options{Workers: 1})

	started := make(chan struct{})
	var first, second atomic.Bool

	_ = p.Submit(func() {
		close(started)
		time.Sleep(100 * time.Millisecond)
		first.Store(true)
	})
	<-started // worker is executing the first job now
	if err := p.Submit(func() { second.Store(true) }); err != nil {
		t.Fatalf("submit second: %v", err)
	}

	if err := p.Shutdown(context.Background(), false); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	if !first.Load() {
		t.Fatal("in-flight job was not allowed to finish")
	}
	if second.Load() {
		t.Fatal("queued job ran despite non-draining shutdown")
	}
	if got := p.Pending(); got != 0 {
		t.Fatalf("Pending() after shutdown = %d; want 0", got)
	}
}

func TestSubmitAfterShutdown(t *testing.T) {
	p := New(Options{Workers: 1})
	p.Stop()

	err := p.Submit(func() {})
	if !errors.Is(err, ErrPoolClosed) {
		t.Fatalf("Submit on closed pool = %v; want ErrPoolClosed", err)
	}
}

func TestSubmitNilJob(t *testing.T) {
	p := New(Options{Workers: 1})
	defer p.Stop()

	if err := p.Submit(nil); !errors.Is(err, ErrNilJob) {
		t.Fatalf("Submit(nil) = %v; want ErrNilJob", err)
	}
}

func TestPanicRecovery(t *testing.T) {
	var mu sync.Mutex
	var reported []error

	p := New(Options{
		Workers: 1,
		OnJobError: func(err error) {
			mu.Lock()
			reported = append(reported, err)
			mu.Unlock()
		},
	})
	defer p.Stop()

	secondDone := make(chan struct{})

	// first job panics
	_ = p.Submit(func() { panic("boom") })

	// second job should still run on the same worker
	_ = p.Submit(func() { close(secondDone) })

	select {
	case <-secondDone:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("second job did not complete after first panicked")
	}

	p.WaitAll()
	if got := p.Pending(); got != 0 {
		t.Fatalf("Pending() = %d; want 0 after a panicking job", got)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(reported) != 1 {
		t.Fatalf("OnJobError called %d times; want 1", len(reported))
	}
}

func TestShutdownTimeout(t *testing.T) {
	p := New(Options{Workers: 1})

	started := make(chan struct{})
	_ = p.Submit(func() {
		close(started)
		time.Sleep(300 * time.Millisecond)
	})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := p.Shutdown(ctx, true)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Shutdown err = %v; want deadline exceeded", err)
	}

	if err := p.Shutdown(context.Background(), true); err != nil {
		t.Fatalf("second Shutdown err = %v; want nil", err)
	}
}

func TestDeferredStopDrains(t *testing.T) {
	var ran atomic.Int32

	func() {
		p := New(Options{Workers: 2})
		defer p.Stop()

		for i := 0; i < 20; i++ {
			_ = p.Submit(func() {
				time.Sleep(time.Millisecond)
				ran.Add(1)
			})
		}
	}()

	if got := ran.Load(); got != 20 {
		t.Fatalf("jobs run before Stop returned = %d; want 20", got)
	}
}

func TestAtomicMetricsCounts(t *testing.T) {
	m := &AtomicMetrics{}
	p := New(Options{Workers: 2, Metrics: m})

	for i := 0; i < 5; i++ {
		_ = p.Submit(func() {})
	}
	p.Stop()

	if got := m.Submitted(); got != 5 {
		t.Fatalf("Submitted() = %d; want 5", got)
	}
	if got := m.Executed(); got != 5 {
		t.Fatalf("Executed() = %d; want 5", got)
	}
	if got := m.Discarded(); got != 0 {
		t.Fatalf("Discarded() = %d; want 0", got)
	}
}

func TestMetricsDiscardedOnFastShutdown(t *testing.T) {
	m := &AtomicMetrics{}
	p := New(Options{Workers: 1, Metrics: m})

	started := make(chan struct{})
	_ = p.Submit(func() {
		close(started)
		time.Sleep(50 * time.Millisecond)
	})
	<-started
	_ = p.Submit(func() {})
	_ = p.Submit(func() {})

	if err := p.Shutdown(context.Background(), false); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	if got := m.Discarded(); got != 2 {
		t.Fatalf("Discarded() = %d; want 2", got)
	}
	if got := m.Executed(); got != 1 {
		t.Fatalf("Executed() = %d; want 1", got)
	}
}
