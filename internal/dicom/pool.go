package dicom

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// runPool calls fn for every index in [0, n) on up to workers goroutines.
// The first error wins; once it is seen, or ctx is done, no new index is
// dispatched. progress, when set, is called after each completed index.
func runPool(ctx context.Context, workers, n int, fn func(i int) error, progress func(done, total int)) error {
	if n == 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	taskChan := make(chan int)
	resultChan := make(chan struct {
		index int
		err   error
	}, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range taskChan {
				resultChan <- struct {
					index int
					err   error
				}{i, fn(i)}
			}
		}()
	}

	stop := make(chan struct{})
	go func() {
		defer close(taskChan)
		for i := 0; i < n; i++ {
			select {
			case taskChan <- i:
			case <-stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	completed := 0
	var firstErr error
	for result := range resultChan {
		if result.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("task %d: %w", result.index, result.err)
			close(stop)
		}
		completed++
		if progress != nil {
			progress(completed, n)
		}
	}

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}
