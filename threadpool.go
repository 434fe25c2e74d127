package threadpool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	lg "github.com/Andrej220/go-utils/zlog"
)

const DefaultMaxWorkers = 10

var (
	// ErrPoolClosed is returned by Submit once shutdown has been
	// initiated. Jobs are never silently dropped on the submit path.
	ErrPoolClosed = errors.New("threadpool: pool is shut down")

	// ErrNilJob is returned when a submitted Job is nil.
	ErrNilJob = errors.New("threadpool: job is nil")
)

// Job is a caller-supplied unit of work. It takes no arguments and
// returns nothing; any state it needs travels in its closure, and any
// shared state it touches is the caller's to synchronize.
type Job func()

// Pool executes jobs on a fixed set of long-lived workers.
//
// Workers are started at construction and their count never changes.
// Jobs are dequeued in submission order; with more than one worker,
// completion order across jobs is not defined.
type Pool struct {
	opts Options

	mu       sync.Mutex // guards queue and closing
	workCond *sync.Cond // predicate: queue non-empty or closing
	queue    *jobQueue
	closing  bool // one-way; workers stop pulling new jobs

	// pending counts jobs submitted but not yet finished: queued jobs
	// plus jobs a worker has dequeued and is still executing.
	pending atomic.Int64

	drainMu   sync.Mutex
	drainCond *sync.Cond // predicate: pending == 0

	wg        sync.WaitGroup
	stopMu    sync.Mutex // serializes Shutdown
	finalized bool       // workers joined; guarded by stopMu
}

// New creates a pool and starts opts.Workers workers immediately.
// The pool is usable as soon as New returns.
func New(opts Options) *Pool {
	opts.FillDefaults()

	p := &Pool{
		opts:  opts,
		queue: newJobQueue(initialQueueCapacity),
	}
	p.workCond = sync.NewCond(&p.mu)
	p.drainCond = sync.NewCond(&p.drainMu)

	for i := 0; i < opts.Workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	lg.FromContext(opts.Ctx).Info("pool started", lg.Int("workers", opts.Workers))
	return p
}

// Submit appends job to the queue and wakes an idle worker. The queue
// is unbounded, so Submit never blocks the caller.
//
// Once Shutdown has been initiated, Submit fails with ErrPoolClosed.
// A Submit racing a non-draining Shutdown may instead be accepted and
// then discarded unrun; suppressing that race is the caller's job.
func (p *Pool) Submit(job Job) error {
	if job == nil {
		return ErrNilJob
	}
	p.mu.Lock()
	if p.closing {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	p.queue.Push(job)
	p.pending.Add(1)
	p.workCond.Signal()
	p.mu.Unlock()
	p.opts.Metrics.IncSubmitted()
	return nil
}

// Pending reports the number of jobs submitted but not yet finished.
// It is an advisory snapshot, inherently racy against concurrent
// Submit and job completion; do not use it for synchronization.
func (p *Pool) Pending() int { return int(p.pending.Load()) }

// Size returns the fixed worker count.
func (p *Pool) Size() int { return p.opts.Workers }

// WaitAll blocks until every submitted job has finished. It does not
// stop the pool and does not block new submissions: a caller that
// keeps submitting from another goroutine may stretch the wait or
// slip past a momentary zero.
func (p *Pool) WaitAll() {
	p.drainMu.Lock()
	for p.pending.Load() != 0 {
		p.drainCond.Wait()
	}
	p.drainMu.Unlock()
}

// Shutdown stops the pool and blocks until every worker has returned.
//
// With drainFirst true, Shutdown first waits for all pending jobs to
// finish, so everything submitted before the call runs. With
// drainFirst false, jobs already executing finish but jobs still
// queued are discarded and never run; Pending still reaches zero.
//
// Shutdown is idempotent. ctx bounds the wait: on expiry it returns
// ctx.Err() with the teardown incomplete, and a later call may finish
// the job.
func (p *Pool) Shutdown(ctx context.Context, drainFirst bool) error {
	p.stopMu.Lock()
	defer p.stopMu.Unlock()

	if p.finalized {
		return nil
	}

	if drainFirst {
		if err := p.waitDrain(ctx); err != nil {
			return err
		}
	}

	p.mu.Lock()
	var discarded int
	if !p.closing {
		p.closing = true
		discarded = p.queue.Clear()
		p.workCond.Broadcast()
	}
	p.mu.Unlock()

	if discarded > 0 {
		p.opts.Metrics.BatchDiscarded(int64(discarded))
		p.complete(int64(discarded))
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		p.finalized = true
		lg.FromContext(p.opts.Ctx).Info("pool shut down",
			lg.Int("workers", p.opts.Workers),
			lg.Int("discarded", discarded),
		)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop shuts the pool down after draining all pending jobs. It is the
// usual teardown path: defer p.Stop() right after New.
func (p *Pool) Stop() { _ = p.Shutdown(context.Background(), true) }

// waitDrain is WaitAll with a context bound. ctx expiry wakes the
// waiter via the drain condition rather than leaving it parked.
func (p *Pool) waitDrain(ctx context.Context) error {
	if ctx.Done() == nil {
		p.WaitAll()
		return nil
	}
	stop := context.AfterFunc(ctx, func() {
		p.drainMu.Lock()
		p.drainCond.Broadcast()
		p.drainMu.Unlock()
	})
	defer stop()

	p.drainMu.Lock()
	defer p.drainMu.Unlock()
	for p.pending.Load() != 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.drainCond.Wait()
	}
	return nil
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	if p.opts.PinWorkers {
		runtime.LockOSThread()
		if err := PinToCPU(id % runtime.NumCPU()); err != nil {
			lg.FromContext(p.opts.Ctx).Warn("cpu pinning failed",
				lg.Int("worker", id),
				lg.Any("error", err),
			)
		}
	}

	for {
		job, ok := p.next()
		if !ok {
			return
		}
		p.invoke(job)
		p.opts.Metrics.IncExecuted()
		p.complete(1)
	}
}

// next blocks until a job is available or the pool is closing.
// ok is false only when the worker should exit.
func (p *Pool) next() (job Job, ok bool) {
	p.mu.Lock()
	for p.queue.Len() == 0 && !p.closing {
		p.workCond.Wait()
	}
	job, ok = p.queue.Pop()
	p.mu.Unlock()
	return job, ok
}

// invoke runs the job body outside any pool lock. A panicking job is
// recovered and reported so a single faulty job cannot kill a worker
// and shrink the pool.
func (p *Pool) invoke(job Job) {
	defer func() {
		if r := recover(); r != nil {
			lg.FromContext(p.opts.Ctx).Error("job panicked", lg.Any("panic", r))
			p.reportJobError(fmt.Errorf("threadpool: job panicked: %v", r))
		}
	}()
	job()
}

// complete retires n finished (or discarded) jobs and wakes drain
// waiters when the pending counter reaches zero. The broadcast is
// taken under the drain mutex so a waiter between its predicate check
// and Wait cannot miss the wakeup.
func (p *Pool) complete(n int64) {
	left := p.pending.Add(-n)
	if left < 0 {
		panic("threadpool: pending counter underflow")
	}
	if left == 0 {
		p.drainMu.Lock()
		p.drainCond.Broadcast()
		p.drainMu.Unlock()
	}
}
