package timing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWaitDuration(t *testing.T) {
	for _, d := range []time.Duration{0, 500 * time.Microsecond, 5 * time.Millisecond, 20 * time.Millisecond} {
		start := time.Now()
		Wait(d)
		elapsed := time.Since(start)
		assert.GreaterOrEqual(t, elapsed, d)
		assert.Less(t, elapsed, d+50*time.Millisecond)
	}
}

func TestWaitContextCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := WaitContext(ctx, time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestRaiseResolution(t *testing.T) {
	restore := RaiseResolution()
	assert.NotNil(t, restore)
	restore()
}
