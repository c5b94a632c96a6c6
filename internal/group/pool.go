package group

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/substantialcattle5/naib/internal/index"
)

// digestTask and digestResult are the messages between the coordinator and
// the hash workers. Workers never touch shared maps; the coordinator merges
// results alone.
type digestTask struct {
	fd index.FileDescriptor
}

type digestResult struct {
	fd     index.FileDescriptor
	digest string
	err    error
}

// digestFunc computes one digest for one file.
type digestFunc func(ctx context.Context, fd index.FileDescriptor) (string, error)

// runPool hashes every descriptor through a bounded worker pool and returns
// all results in no particular order. Per-file hash failures travel inside
// the results; only context cancellation stops the pool early, and even
// then in-flight hashes are allowed to finish.
func runPool(ctx context.Context, workers int, descriptors []index.FileDescriptor, fn digestFunc, onDone func()) ([]digestResult, error) {
	if workers <= 0 {
		workers = 1
	}

	tasks := make(chan digestTask)
	results := make(chan digestResult, workers)

	g, workerCtx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for task := range tasks {
				digest, err := fn(workerCtx, task.fd)
				results <- digestResult{fd: task.fd, digest: digest, err: err}
			}
			return nil
		})
	}

	go func() {
		defer close(tasks)
		for _, fd := range descriptors {
			select {
			case tasks <- digestTask{fd: fd}:
			case <-workerCtx.Done():
				return
			}
		}
	}()

	go func() {
		// Close results once every worker has drained its tasks.
		_ = g.Wait()
		close(results)
	}()

	collected := make([]digestResult, 0, len(descriptors))
	for res := range results {
		collected = append(collected, res)
		if onDone != nil {
			onDone()
		}
	}

	if err := ctx.Err(); err != nil {
		return collected, err
	}
	return collected, nil
}
