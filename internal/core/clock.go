package core

import (
	"context"
	"time"
)

// Clock is the single simulated time source. Now is the simulated time
// elapsed since the clock was created.
type Clock interface {
	Now() time.Duration
	Sleep(ctx context.Context, d time.Duration) error
}

// ScaledClock runs simulated time speed times faster than the monotonic
// wall clock.
type ScaledClock struct {
	origin time.Time
	speed  float64
}

func NewClock(speed float64) *ScaledClock {
	if speed <= 0 {
		speed = 1
	}
	return &ScaledClock{origin: time.Now(), speed: speed}
}

func (c *ScaledClock) Now() time.Duration {
	return time.Duration(float64(time.Since(c.origin)) * c.speed)
}

// Sleep blocks for d of simulated time or until ctx is done.
func (c *ScaledClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(time.Duration(float64(d) / c.speed))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
