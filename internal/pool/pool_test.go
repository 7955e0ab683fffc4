package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"dispenser/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func shutdown(t *testing.T, p *Pool) {
	t.Helper()
	if err := p.Shutdown(testutil.Context(t, time.Second)); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

// TestPoolRunsEveryTask ensures each submitted task runs exactly once.
func TestPoolRunsEveryTask(t *testing.T) {
	testutil.RunWithTimeout(t, 2*time.Second, func() {
		p := New(3)
		defer shutdown(t, p)
		ctx := testutil.Context(t, time.Second)

		var ran atomic.Int64
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			if err := p.Submit(ctx, func() {
				defer wg.Done()
				ran.Add(1)
			}); err != nil {
				t.Fatalf("submit: %v", err)
			}
		}
		wg.Wait()
		if ran.Load() != 50 {
			t.Fatalf("ran %d tasks", ran.Load())
		}
	})
}

// TestPoolBoundsParallelism ensures no more than Workers tasks run at once.
func TestPoolBoundsParallelism(t *testing.T) {
	testutil.RunWithTimeout(t, 2*time.Second, func() {
		p := New(2)
		defer shutdown(t, p)
		ctx := testutil.Context(t, time.Second)

		var active, peak atomic.Int64
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			if err := p.Submit(ctx, func() {
				defer wg.Done()
				n := active.Add(1)
				for {
					old := peak.Load()
					if n <= old || peak.CompareAndSwap(old, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				active.Add(-1)
			}); err != nil {
				t.Fatalf("submit: %v", err)
			}
		}
		wg.Wait()
		if peak.Load() > 2 {
			t.Fatalf("peak parallelism %d exceeds 2", peak.Load())
		}
	})
}

// TestPoolIsReusable ensures the same workers serve consecutive rounds.
func TestPoolIsReusable(t *testing.T) {
	testutil.RunWithTimeout(t, 2*time.Second, func() {
		p := New(2)
		defer shutdown(t, p)
		ctx := testutil.Context(t, time.Second)
		for round := 0; round < 3; round++ {
			var wg sync.WaitGroup
			for i := 0; i < 4; i++ {
				wg.Add(1)
				if err := p.Submit(ctx, wg.Done); err != nil {
					t.Fatalf("round %d submit: %v", round, err)
				}
			}
			wg.Wait()
		}
	})
}

// TestPoolRecoversPanics ensures a panicking task is reported and the worker survives.
func TestPoolRecoversPanics(t *testing.T) {
	testutil.RunWithTimeout(t, 2*time.Second, func() {
		reported := make(chan error, 1)
		p := NewWithPanicHandler(1, func(err error) { reported <- err })
		defer shutdown(t, p)
		ctx := testutil.Context(t, time.Second)

		if err := p.Submit(ctx, func() { panic("boom") }); err != nil {
			t.Fatalf("submit: %v", err)
		}
		err := <-reported
		var perr *PanicError
		if !errors.As(err, &perr) || perr.Value != "boom" {
			t.Fatalf("unexpected panic report %v", err)
		}

		done := make(chan struct{})
		if err := p.Submit(ctx, func() { close(done) }); err != nil {
			t.Fatalf("submit after panic: %v", err)
		}
		<-done
	})
}

// TestPoolSubmitAfterShutdown ensures closed pools refuse work.
func TestPoolSubmitAfterShutdown(t *testing.T) {
	p := New(1)
	shutdown(t, p)
	shutdown(t, p)
	if err := p.Submit(context.Background(), func() {}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

// TestPoolSubmitHonorsContext ensures a blocked submit returns when its context ends.
func TestPoolSubmitHonorsContext(t *testing.T) {
	testutil.RunWithTimeout(t, 2*time.Second, func() {
		p := New(1)
		defer shutdown(t, p)
		release := make(chan struct{})
		started := make(chan struct{})
		if err := p.Submit(context.Background(), func() {
			close(started)
			<-release
		}); err != nil {
			t.Fatalf("submit: %v", err)
		}
		<-started

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		err := p.Submit(ctx, func() {})
		close(release)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline exceeded, got %v", err)
		}
	})
}

// TestSize ensures worker counts follow outlets and host parallelism.
func TestSize(t *testing.T) {
	cases := []struct {
		outlets, cpus, want int
	}{
		{outlets: 3, cpus: 8, want: 3},
		{outlets: 8, cpus: 4, want: 3},
		{outlets: 4, cpus: 1, want: 1},
		{outlets: 0, cpus: 8, want: 1},
		{outlets: 1, cpus: 2, want: 1},
	}
	for _, tc := range cases {
		if got := Size(tc.outlets, tc.cpus); got != tc.want {
			t.Fatalf("Size(%d, %d) = %d, want %d", tc.outlets, tc.cpus, got, tc.want)
		}
	}
}
