// Package async provides helpers for running independent tasks in parallel.
package async

import (
	"context"
	"fmt"
	"sync"
)

// Task is a named operation that can run concurrently with its peers.
type Task struct {
	Name string
	Func func(context.Context) error
}

// Run executes all tasks concurrently and waits for every one to finish.
// All failures are collected; one task failing does not stop the others.
// The returned map holds the error (or nil) per task name.
func Run(ctx context.Context, tasks []Task) map[string]error {
	results := make(map[string]error, len(tasks))
	if len(tasks) == 0 {
		return results
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, task := range tasks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := task.Func(ctx)
			mu.Lock()
			results[task.Name] = err
			mu.Unlock()
		}()
	}

	wg.Wait()
	return results
}

// FirstError returns the first non-nil error from results in task order,
// wrapped with the task name, or nil if every task succeeded.
func FirstError(tasks []Task, results map[string]error) error {
	for _, task := range tasks {
		if err := results[task.Name]; err != nil {
			return fmt.Errorf("%s: %w", task.Name, err)
		}
	}
	return nil
}
