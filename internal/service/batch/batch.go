// Package batch runs independent units of work concurrently and aggregates
// their outcomes. A failing or panicking item never affects its siblings.
package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultPerItemCost is the nominal per-item latency used for the sequential estimate.
const DefaultPerItemCost = time.Second

// Options tunes a batch run. The zero value dispatches every item at once.
type Options struct {
	// Concurrency caps in-flight items. Zero or negative means unbounded.
	Concurrency int
	// PerItemCost feeds SequentialEstimate. Defaults to DefaultPerItemCost.
	PerItemCost time.Duration
}

// Success pairs an item with the value its operation returned.
type Success[T, R any] struct {
	Item  T
	Value R
}

// Failure pairs an item with the reason its operation failed.
type Failure[T any] struct {
	Item T
	Err  error
}

// Result aggregates a batch. Succeeded and Failed are in completion order.
type Result[T, R any] struct {
	Succeeded          []Success[T, R]
	Failed             []Failure[T]
	ParallelElapsed    time.Duration
	SequentialEstimate time.Duration
}

// Total returns the number of items the batch accounted for.
func (r Result[T, R]) Total() int {
	return len(r.Succeeded) + len(r.Failed)
}

// PanicError carries a recovered panic value as an item failure.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Run dispatches op for every item and waits for all of them. It never returns
// early: len(Succeeded)+len(Failed) == len(items). Items not yet started when ctx
// is done fail with ctx.Err() without invoking op.
//
// op must be independent of every other item and on failure must leave no durable effect.
func Run[T, R any](ctx context.Context, items []T, op func(context.Context, T) (R, error), opts Options) Result[T, R] {
	perItem := opts.PerItemCost
	if perItem <= 0 {
		perItem = DefaultPerItemCost
	}

	res := Result[T, R]{
		Succeeded:          make([]Success[T, R], 0, len(items)),
		Failed:             make([]Failure[T], 0),
		SequentialEstimate: time.Duration(len(items)) * perItem,
	}
	if len(items) == 0 {
		return res
	}

	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}

	start := time.Now()
	for _, item := range items {
		g.Go(func() error {
			value, err := invoke(ctx, item, op)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failed = append(res.Failed, Failure[T]{Item: item, Err: err})
			} else {
				res.Succeeded = append(res.Succeeded, Success[T, R]{Item: item, Value: value})
			}
			// Item failures are data, not group errors.
			return nil
		})
	}
	_ = g.Wait()
	res.ParallelElapsed = time.Since(start)

	return res
}

func invoke[T, R any](ctx context.Context, item T, op func(context.Context, T) (R, error)) (value R, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero R
			value, err = zero, &PanicError{Value: r}
		}
	}()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return value, ctxErr
	}
	return op(ctx, item)
}
