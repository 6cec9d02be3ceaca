package adapter

import (
	"context"
	"math/rand"
	"time"

	golemerrors "github.com/golemdb/golemdb-sql-go/errors"
	"github.com/golemdb/golemdb-sql-go/store"
)

// RetryPolicy bounds the exponential backoff applied to read operations
// against the backing store (spec §5): writes are never retried, since a
// retried write could double-apply against a store with no idempotency
// key.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy matches the bounded, jittered backoff spec §5
// describes for reads: a handful of attempts, capped delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   50 * time.Millisecond,
		MaxDelay:    2 * time.Second,
	}
}

// WithRetry runs op, retrying on error with exponential backoff and full
// jitter, up to MaxAttempts. The last error is returned if every attempt
// fails. Retries stop early if ctx is canceled.
func (p RetryPolicy) WithRetry(ctx context.Context, op func() error) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(p.BaseDelay, p.MaxDelay, attempt)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return golemerrors.OperationalError(ctx.Err(), "retry canceled")
			}
		}

		lastErr = op()
		if lastErr == nil {
			return nil
		}
	}
	return lastErr
}

// retryingClient wraps a store.Client so QueryEntities (the only read
// operation) is retried per policy, while every write method passes
// straight through: a retried write against a store with no idempotency
// key could double-apply, so spec §5 confines retry to reads.
type retryingClient struct {
	inner  store.Client
	policy RetryPolicy
}

// WithRetries wraps client so its reads retry per policy.
func WithRetries(client store.Client, policy RetryPolicy) store.Client {
	return retryingClient{inner: client, policy: policy}
}

func (c retryingClient) QueryEntities(ctx context.Context, predicate string) ([]store.QueryResult, error) {
	var results []store.QueryResult
	err := c.policy.WithRetry(ctx, func() error {
		r, err := c.inner.QueryEntities(ctx, predicate)
		if err != nil {
			return err
		}
		results = r
		return nil
	})
	return results, err
}

func (c retryingClient) CreateEntities(ctx context.Context, entities []store.Entity) ([]store.Receipt, error) {
	return c.inner.CreateEntities(ctx, entities)
}

func (c retryingClient) UpdateEntities(ctx context.Context, updates []store.Update) ([]store.Receipt, error) {
	return c.inner.UpdateEntities(ctx, updates)
}

func (c retryingClient) DeleteEntities(ctx context.Context, keys [][]byte) ([]store.Receipt, error) {
	return c.inner.DeleteEntities(ctx, keys)
}

func (c retryingClient) GetAccountAddress(ctx context.Context) (string, error) {
	return c.inner.GetAccountAddress(ctx)
}

func backoffDelay(base, max time.Duration, attempt int) time.Duration {
	d := base << uint(attempt-1)
	if d > max || d <= 0 {
		d = max
	}
	if d <= 0 {
		return 0
	}
	// Full jitter: uniformly distribute over [0, d) so concurrent retriers
	// don't all wake up on the same tick.
	return time.Duration(rand.Int63n(int64(d)))
}
