package threadpool

import (
	"context"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
	lg "github.com/Andrej220/go-utils/zlog"
)

const (
	defaultAttempts     = 3
	defaultInitialRetry = 200 * time.Millisecond
	defaultMaxRetry     = 5 * time.Second
)

// RetryPolicy describes how many times and how often a wrapped job
// should be retried. Zero values are treated as "use defaults".
type RetryPolicy struct {
	// Attempts is the maximum number of tries.
	Attempts int

	// Initial is the first backoff duration.
	Initial time.Duration

	// Max is the cap for backoff duration.
	Max time.Duration
}

// GetDefaultRP returns a pointer to the default retry policy.
// Useful in tests or when tweaking a single field.
func GetDefaultRP() *RetryPolicy {
	rp := RetryPolicy{
		Attempts: defaultAttempts,
		Initial:  defaultInitialRetry,
		Max:      defaultMaxRetry,
	}
	return &rp
}

// WithRetry wraps a fallible function into a Job that retries failed
// attempts with exponential backoff. The pool runs the returned Job
// exactly once; all retrying happens inside the job body.
//
// ctx cancels the wait between attempts, never an attempt already
// running. Errors from the final attempt are logged and dropped, as
// the pool reports nothing back to the submitter.
func WithRetry(ctx context.Context, fn func() error, pol RetryPolicy) Job {
	if ctx == nil {
		ctx = context.Background()
	}
	if pol.Attempts <= 0 {
		pol.Attempts = defaultAttempts
	}
	if pol.Initial <= 0 {
		pol.Initial = defaultInitialRetry
	}
	if pol.Max <= 0 {
		pol.Max = defaultMaxRetry
	}

	return func() {
		logger := lg.FromContext(ctx)
		bo := boff.New(pol.Initial, pol.Max, time.Now().UnixNano())

		for attempt := 1; attempt <= pol.Attempts; attempt++ {
			err := fn()
			if err == nil {
				return
			}
			if attempt == pol.Attempts {
				logger.Error("job failed", lg.Int("attempt", attempt), lg.Any("error", err))
				return
			}
			delay := bo.Next()
			logger.Warn("job attempt failed; backing off",
				lg.Int("attempt", attempt),
				lg.String("sleep", delay.String()),
				lg.Any("error", err),
			)
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				if !timer.Stop() {
					<-timer.C // drain if timer is fired
				}
				logger.Info("job canceled", lg.Any("reason", ctx.Err()))
				return
			}
		}
	}
}
