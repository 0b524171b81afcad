package static

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// ioGate bounds concurrent filesystem work. The zero value is unbounded.
type ioGate struct {
	sem *semaphore.Weighted
}

func newIOGate(n int) ioGate {
	if n <= 0 {
		return ioGate{}
	}
	return ioGate{sem: semaphore.NewWeighted(int64(n))}
}

func gated[T any](ctx context.Context, g ioGate, fn func() (T, error)) (T, error) {
	if g.sem == nil {
		return fn()
	}
	if err := g.sem.Acquire(ctx, 1); err != nil {
		var zero T
		return zero, err
	}
	defer g.sem.Release(1)
	return fn()
}
