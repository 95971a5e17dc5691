package core

import (
	"context"
	"sync"
	"time"

	"os-scheduler/internal/requests"
)

// fakeClock advances only when slept on, so single-core runs are
// deterministic. onSleep runs on the sleeping goroutine after time moved.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Duration
	onSleep func(now time.Duration)
}

func (c *fakeClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil || d <= 0 {
		return err
	}
	c.mu.Lock()
	c.now += d
	now := c.now
	hook := c.onSleep
	c.mu.Unlock()
	if hook != nil {
		hook(now)
	}
	return nil
}

func (c *fakeClock) Set(now time.Duration) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

type fifoPolicy struct{}

func (fifoPolicy) Name() string                { return "fifo" }
func (fifoPolicy) Less(_, _ *Process) bool     { return false }
func (fifoPolicy) Preemptive() bool            { return false }
func (fifoPolicy) Preempts(_, _ *Process) bool { return false }
func (fifoPolicy) TimeSlice() time.Duration    { return 0 }

type remainingPolicy struct{ fifoPolicy }

func (remainingPolicy) Less(a, b *Process) bool { return a.RemainingTime() < b.RemainingTime() }

type priorityPolicy struct{}

func (priorityPolicy) Name() string                { return "priority" }
func (priorityPolicy) Less(a, b *Process) bool     { return a.Priority() < b.Priority() }
func (priorityPolicy) Preemptive() bool            { return true }
func (priorityPolicy) Preempts(r, w *Process) bool { return w.Priority() < r.Priority() }
func (priorityPolicy) TimeSlice() time.Duration    { return 0 }

type slicePolicy struct {
	fifoPolicy
	slice time.Duration
}

func (s slicePolicy) TimeSlice() time.Duration { return s.slice }

func newProcess(pid uint16, arrival uint32, priority uint8, bursts ...uint32) *Process {
	return NewProcess(requests.ProcessDefinition{
		PID:         pid,
		ArrivalTime: arrival,
		Priority:    priority,
		Bursts:      bursts,
	})
}

// ready admits processes so they can be inserted into a queue.
func ready(now time.Duration, processes ...*Process) []*Process {
	for _, p := range processes {
		p.admit(now)
	}
	return processes
}
