// Package bulk applies admin operations across many guest records,
// accumulating one success/failure result per run.
package bulk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"
)

// Result is the uniform aggregate every bulk operation returns.
type Result struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

// SkipError marks an item as intentionally not processed (already sent,
// reminder cap reached, missing address). Skips show up in Errors but count
// as neither success nor failure.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string { return e.Reason }

// Skip builds a SkipError.
func Skip(format string, args ...any) error {
	return &SkipError{Reason: fmt.Sprintf(format, args...)}
}

// Item is one unit of work in a run. Key identifies the item in error
// messages.
type Item struct {
	Key string
	Do  func(ctx context.Context) error
}

// Runner executes items with a fixed inter-item delay (external providers
// throttle bursts) and per-item retry with backoff. Concurrency 1 (the
// default) processes items strictly in order.
type Runner struct {
	Concurrency   int
	Delay         time.Duration
	RetryAttempts uint64
	RetryBase     time.Duration

	log zerolog.Logger
}

func NewRunner(log zerolog.Logger) *Runner {
	return &Runner{
		Concurrency:   1,
		Delay:         time.Second,
		RetryAttempts: 2,
		RetryBase:     500 * time.Millisecond,
		log:           log.With().Str("component", "bulk").Logger(),
	}
}

// Run executes the items and aggregates the outcome. Item failures are
// independent; a failed item never stops or rolls back the rest. Context
// cancellation stops the run, recording the remaining items as failed.
func (r *Runner) Run(ctx context.Context, items []Item) Result {
	if r.Concurrency > 1 {
		return r.runConcurrent(ctx, items)
	}

	result := Result{}
	for i, item := range items {
		if i > 0 && r.Delay > 0 {
			if err := sleep(ctx, r.Delay); err != nil {
				r.recordCancelled(&result, items[i:])
				return result
			}
		}
		r.record(&result, item, r.attempt(ctx, item))
		if ctx.Err() != nil {
			r.recordCancelled(&result, items[i+1:])
			return result
		}
	}
	return result
}

// runConcurrent keeps the same aggregation semantics but lets up to
// Concurrency items run at once. Items are still started in order.
func (r *Runner) runConcurrent(ctx context.Context, items []Item) Result {
	result := Result{}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Concurrency)
	for _, item := range items {
		g.Go(func() error {
			err := r.attempt(ctx, item)
			mu.Lock()
			r.record(&result, item, err)
			mu.Unlock()
			if r.Delay > 0 {
				_ = sleep(ctx, r.Delay)
			}
			return nil
		})
	}
	_ = g.Wait()
	return result
}

// attempt runs one item with retry. Only errors the operation marked
// retryable (retry.RetryableError) are retried.
func (r *Runner) attempt(ctx context.Context, item Item) error {
	backoff := retry.WithMaxRetries(r.RetryAttempts, retry.NewFibonacci(r.RetryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		return item.Do(ctx)
	})
}

func (r *Runner) record(result *Result, item Item, err error) {
	var skip *SkipError
	switch {
	case err == nil:
		result.Success++
	case errors.As(err, &skip):
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", item.Key, skip.Reason))
	default:
		result.Failed++
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", item.Key, err))
		r.log.Warn().Str("item", item.Key).Err(err).Msg("bulk item failed")
	}
}

func (r *Runner) recordCancelled(result *Result, remaining []Item) {
	for _, item := range remaining {
		result.Failed++
		result.Errors = append(result.Errors, fmt.Sprintf("%s: cancelled", item.Key))
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
