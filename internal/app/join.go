package app

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// JoinAll runs every task concurrently and returns once all of them have
// settled. The first failure cancels the context seen by the remaining tasks
// and is the error returned.
func JoinAll(ctx context.Context, tasks ...func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		task := task
		g.Go(func() error { return task(gctx) })
	}
	return g.Wait()
}
