// Package timing provides the precise wait used between packets. Waits
// sleep until shortly before the deadline and finish on a spin loop against
// the monotonic clock.
package timing

import (
	"context"
	"time"
)

// SpinThreshold is how long before the deadline Wait stops sleeping and
// starts spinning.
const SpinThreshold = 2 * time.Millisecond

// Wait blocks for d.
func Wait(d time.Duration) {
	_ = WaitContext(context.Background(), d)
}

// WaitContext blocks for d or until ctx is done, whichever comes first.
func WaitContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	start := time.Now()

	if coarse := d - SpinThreshold; coarse > 0 {
		t := time.NewTimer(coarse)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}

	done := ctx.Done()
	for time.Since(start) < d {
		select {
		case <-done:
			return ctx.Err()
		default:
		}
	}
	return nil
}
