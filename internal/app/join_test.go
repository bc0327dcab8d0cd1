package app_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"hotel_dashboard/internal/app"
)

func TestJoinAll_WaitsForEveryTask(t *testing.T) {
	var done int32
	task := func(ctx context.Context) error {
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&done, 1)
		return nil
	}
	if err := app.JoinAll(context.Background(), task, task, task); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if atomic.LoadInt32(&done) != 3 {
		t.Fatalf("expected all tasks settled, got %d", done)
	}
}

func TestJoinAll_FirstErrorCancelsOthers(t *testing.T) {
	boom := errors.New("boom")
	var cancelled int32
	err := app.JoinAll(context.Background(),
		func(ctx context.Context) error { return boom },
		func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				atomic.StoreInt32(&cancelled, 1)
				return ctx.Err()
			case <-time.After(2 * time.Second):
				return nil
			}
		},
	)
	if !errors.Is(err, boom) {
		t.Fatalf("expected first error, got %v", err)
	}
	if atomic.LoadInt32(&cancelled) != 1 {
		t.Fatalf("expected sibling task to observe cancellation")
	}
}

func TestJoinAll_NoTasks(t *testing.T) {
	if err := app.JoinAll(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}
