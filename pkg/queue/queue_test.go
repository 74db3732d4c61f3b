package queue

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	applogger "AssetRadar/pkg/logger"
)

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func TestQueueRunsJobs(t *testing.T) {
	q := New(testLogger(t), WithWorkers(2), WithBuffer(8))

	var ran int64
	for i := 0; i < 5; i++ {
		err := q.Enqueue(JobFunc{
			JobName: "count",
			Fn: func(ctx context.Context) error {
				atomic.AddInt64(&ran, 1)
				return nil
			},
		})
		if err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}

	q.Close()
	if got := atomic.LoadInt64(&ran); got != 5 {
		t.Fatalf("expected 5 jobs to run, got %d", got)
	}
}

func TestQueueRejectsAfterClose(t *testing.T) {
	q := New(testLogger(t), WithWorkers(1))
	q.Close()

	err := q.Enqueue(JobFunc{JobName: "late", Fn: func(ctx context.Context) error { return nil }})
	if err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestQueueRecoversFromPanic(t *testing.T) {
	q := New(testLogger(t), WithWorkers(1))

	if err := q.Enqueue(JobFunc{JobName: "boom", Fn: func(ctx context.Context) error { panic("boom") }}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	var ok int64
	if err := q.Enqueue(JobFunc{JobName: "after", Fn: func(ctx context.Context) error {
		atomic.AddInt64(&ok, 1)
		return nil
	}}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	done := make(chan struct{})
	go func() {
		q.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("queue did not drain after panic")
	}

	if atomic.LoadInt64(&ok) != 1 {
		t.Fatal("worker did not survive panicking job")
	}
}
