// Package parallel runs named, independent lookups concurrently and
// collects their results by name.
package parallel

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Task produces one named value.
type Task func(ctx context.Context) (any, error)

// Tasks maps result names to the task producing them.
type Tasks map[string]Task

// Results maps result names to task values.
type Results map[string]any

// Run starts every task at once and waits for all of them.
//
// The first failing task cancels ctx for the others and its error is
// returned. Results still holds the values of the tasks that succeeded so
// the index page can show partial counts next to the error. Every other
// caller must discard the results when err is non-nil. An empty Tasks
// returns immediately.
func Run(ctx context.Context, tasks Tasks) (Results, error) {
	results := make(Results, len(tasks))
	if len(tasks) == 0 {
		return results, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for name, task := range tasks {
		g.Go(func() error {
			value, err := task(gctx)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			mu.Lock()
			results[name] = value
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	return results, err
}

// Get reads a typed result. A missing or mistyped value yields the zero T.
func Get[T any](results Results, name string) T {
	v, _ := results[name].(T)
	return v
}
