package concurrency

import (
	"context"
	"sync"

	"github.com/sourcegraph/conc/pool"
)

// NewPool returns a new pool where each task respects context cancellation.
// Wait() will only return the first error seen.
func NewPool(ctx context.Context, maxGoroutines int) *pool.ContextPool {
	return pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(maxGoroutines)
}

// TrySend sends msg on channel unless the channel is full or nobody is
// ready to receive it. It never blocks.
func TrySend[T any](msg T, channel chan<- T) bool {
	select {
	case channel <- msg:
		return true
	default:
		return false
	}
}

// Drain calls drain for every value received on ch until ch is closed. The
// returned WaitGroup is done once ch has been drained.
func Drain[T any](ch <-chan T, drain func(T)) *sync.WaitGroup {
	wg := &sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for msg := range ch {
			drain(msg)
		}
	}()
	return wg
}
