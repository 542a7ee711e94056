package bulk

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/assert"
)

func newTestRunner() *Runner {
	r := NewRunner(zerolog.Nop())
	r.Delay = 0
	r.RetryBase = time.Millisecond
	return r
}

func TestRunCounts(t *testing.T) {
	r := newTestRunner()

	items := []Item{
		{Key: "ok-1", Do: func(context.Context) error { return nil }},
		{Key: "bad", Do: func(context.Context) error { return errors.New("boom") }},
		{Key: "ok-2", Do: func(context.Context) error { return nil }},
		{Key: "skipped", Do: func(context.Context) error { return Skip("já enviado") }},
	}

	result := r.Run(context.Background(), items)

	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, result.Errors, 2, "failure and skip both leave a message")
	assert.Contains(t, result.Errors[0], "bad: boom")
	assert.Contains(t, result.Errors[1], "skipped: já enviado")
}

func TestRunSkipIsNeitherSuccessNorFailure(t *testing.T) {
	r := newTestRunner()

	result := r.Run(context.Background(), []Item{
		{Key: "a", Do: func(context.Context) error { return Skip("limite atingido") }},
	})

	assert.Equal(t, 0, result.Success)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, []string{"a: limite atingido"}, result.Errors)
}

func TestRunProcessesInOrder(t *testing.T) {
	r := newTestRunner()

	var order []string
	var items []Item
	for _, key := range []string{"a", "b", "c", "d"} {
		items = append(items, Item{Key: key, Do: func(context.Context) error {
			order = append(order, key)
			return nil
		}})
	}

	r.Run(context.Background(), items)
	assert.Equal(t, []string{"a", "b", "c", "d"}, order)
}

func TestRunRetriesRetryableErrors(t *testing.T) {
	r := newTestRunner()

	attempts := 0
	result := r.Run(context.Background(), []Item{
		{Key: "flaky", Do: func(context.Context) error {
			attempts++
			if attempts < 3 {
				return retry.RetryableError(errors.New("transient"))
			}
			return nil
		}},
	})

	assert.Equal(t, 3, attempts)
	assert.Equal(t, 1, result.Success)
	assert.Equal(t, 0, result.Failed)
}

func TestRunDoesNotRetryPermanentErrors(t *testing.T) {
	r := newTestRunner()

	attempts := 0
	result := r.Run(context.Background(), []Item{
		{Key: "broken", Do: func(context.Context) error {
			attempts++
			return errors.New("permanent")
		}},
	})

	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, result.Failed)
}

func TestRunAppliesDelayBetweenItems(t *testing.T) {
	r := newTestRunner()
	r.Delay = 20 * time.Millisecond

	start := time.Now()
	r.Run(context.Background(), []Item{
		{Key: "a", Do: func(context.Context) error { return nil }},
		{Key: "b", Do: func(context.Context) error { return nil }},
		{Key: "c", Do: func(context.Context) error { return nil }},
	})

	// Two gaps of 20ms between three items.
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestRunCancelledContextFailsRemaining(t *testing.T) {
	r := newTestRunner()

	ctx, cancel := context.WithCancel(context.Background())
	result := r.Run(ctx, []Item{
		{Key: "first", Do: func(context.Context) error { cancel(); return nil }},
		{Key: "second", Do: func(context.Context) error { return nil }},
		{Key: "third", Do: func(context.Context) error { return nil }},
	})

	assert.Equal(t, 1, result.Success)
	assert.Equal(t, 2, result.Failed)
	assert.Contains(t, result.Errors[0], "second: cancelled")
	assert.Contains(t, result.Errors[1], "third: cancelled")
}

func TestRunConcurrent(t *testing.T) {
	r := newTestRunner()
	r.Concurrency = 4

	var items []Item
	for range 20 {
		items = append(items, Item{Key: "ok", Do: func(context.Context) error { return nil }})
	}
	items = append(items, Item{Key: "bad", Do: func(context.Context) error { return errors.New("boom") }})

	result := r.Run(context.Background(), items)
	assert.Equal(t, 20, result.Success)
	assert.Equal(t, 1, result.Failed)
}
