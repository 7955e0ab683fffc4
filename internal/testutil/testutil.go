package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"
)

// DefaultTimeout bounds unit tests that do not pass their own timeout.
const DefaultTimeout = 5 * time.Second

// Context returns a context that expires before the test deadline and is cancelled on cleanup.
func Context(t testing.TB, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), bound(t, timeout))
	t.Cleanup(cancel)
	return ctx
}

// RunWithTimeout runs fn on the test goroutine, so fn may call t.Fatalf. If fn has not
// returned within timeout the test binary panics with every goroutine's stack.
func RunWithTimeout(t testing.TB, timeout time.Duration, fn func()) {
	t.Helper()
	timeout = bound(t, timeout)
	name := t.Name()
	watchdog := time.AfterFunc(timeout, func() {
		panic(fmt.Sprintf("%s: timed out after %s", name, timeout))
	})
	defer watchdog.Stop()
	fn()
}

// bound clamps timeout so it fires before the test binary's own deadline.
func bound(t testing.TB, timeout time.Duration) time.Duration {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if dt, ok := t.(interface{ Deadline() (time.Time, bool) }); ok {
		if deadline, ok := dt.Deadline(); ok {
			if remaining := time.Until(deadline) - time.Second; remaining > 0 && remaining < timeout {
				timeout = remaining
			}
		}
	}
	return timeout
}
