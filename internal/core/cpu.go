package core

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"os-scheduler/internal/log"
)

type Outcome string

const (
	OutcomeBlocked      Outcome = "blocked"
	OutcomeTerminated   Outcome = "terminated"
	OutcomePreempted    Outcome = "preempted"
	OutcomeSliceExpired Outcome = "slice_expired"
	OutcomeCancelled    Outcome = "cancelled"
)

// Slice is one uninterrupted stretch of a process on a core. Start and End
// are clock readings, Ran is the CPU progress charged to the process.
type Slice struct {
	Core    int
	PID     uint16
	Start   time.Duration
	End     time.Duration
	Ran     time.Duration
	Outcome Outcome
}

// CpuMetric is what a core reports once it stops.
type CpuMetric struct {
	Core            int
	TotalTime       time.Duration
	BusyTime        time.Duration
	IdleTime        time.Duration
	Dispatches      int
	ContextSwitches int
	Timeline        []Slice
}

type CPUOptions struct {
	ContextSwitch time.Duration
	// Tick is the simulated increment between preemption checks.
	Tick   time.Duration
	Clock  Clock
	Logger *slog.Logger
}

// CPU is one simulated core pulling work from the shared ready queue.
type CPU struct {
	ID int

	queue         *ReadyQueue
	policy        Policy
	clock         Clock
	contextSwitch time.Duration
	tick          time.Duration
	log           *slog.Logger
}

func NewCPU(id int, queue *ReadyQueue, policy Policy, opts CPUOptions) *CPU {
	if opts.Tick <= 0 {
		opts.Tick = time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	return &CPU{
		ID:            id,
		queue:         queue,
		policy:        policy,
		clock:         opts.Clock,
		contextSwitch: opts.ContextSwitch,
		tick:          opts.Tick,
		log:           opts.Logger.With(log.CoreAttr(id)),
	}
}

// CpuExecute runs the core until the queue is closed and sends its metric.
func (c *CPU) CpuExecute(ctx context.Context, wg *sync.WaitGroup, metrics chan<- CpuMetric) {
	defer wg.Done()
	metrics <- c.Execute(ctx)
}

// Execute is the dispatch loop of the core. A context switch is paid every
// time the core loads a process after having unloaded one.
func (c *CPU) Execute(ctx context.Context) CpuMetric {
	metric := CpuMetric{Core: c.ID}
	start := c.clock.Now()

	var current *Process
	unloaded := false
	for ctx.Err() == nil {
		if current == nil {
			p, ok := c.queue.Next(ctx, c.ID)
			if !ok {
				break
			}
			current = p
		}
		if unloaded {
			metric.ContextSwitches++
			if err := c.clock.Sleep(ctx, c.contextSwitch); err != nil {
				break
			}
		}

		metric.Dispatches++
		slice, next := c.run(ctx, current)
		metric.BusyTime += slice.Ran
		metric.Timeline = append(metric.Timeline, slice)
		c.log.Debug("unloaded",
			log.PidAttr(slice.PID),
			log.StringAttr("outcome", string(slice.Outcome)),
			slog.Duration("ran", slice.Ran),
		)

		current = next
		unloaded = true
	}

	metric.TotalTime = c.clock.Now() - start
	metric.IdleTime = metric.TotalTime - metric.BusyTime
	if metric.IdleTime < 0 {
		metric.IdleTime = 0
	}
	return metric
}

// run executes p in tick increments until its CPU burst ends, it runs out of
// CPU time, its slice expires or a more urgent process displaces it. The
// displacing process is returned already dispatched to this core. Sleeps
// target the clock reading the charged progress implies, so scheduling
// overhead does not accumulate as drift.
func (c *CPU) run(ctx context.Context, p *Process) (Slice, *Process) {
	slice := Slice{Core: c.ID, PID: p.pid, Start: c.clock.Now()}
	limit := c.policy.TimeSlice()

	// End is stamped before p is handed to its next owner.
	finish := func(outcome Outcome, now time.Duration) Slice {
		slice.End = now
		slice.Outcome = outcome
		return slice
	}

	for {
		step := c.tick
		if left := p.burstLeft(); left < step {
			step = left
		}
		if r := p.RemainingTime(); r < step {
			step = r
		}
		if limit > 0 && limit-slice.Ran < step {
			step = limit - slice.Ran
		}
		if step > 0 {
			target := slice.Start + slice.Ran + step
			if err := c.clock.Sleep(ctx, target-c.clock.Now()); err != nil {
				return finish(OutcomeCancelled, c.clock.Now()), nil
			}
			p.run(step)
			slice.Ran += step
		}

		now := c.clock.Now()
		switch {
		case p.burstLeft() <= 0:
			s := finish(OutcomeBlocked, now)
			if p.completeCPUBurst(now) == Terminated {
				s.Outcome = OutcomeTerminated
			}
			return s, nil
		case p.RemainingTime() == 0:
			s := finish(OutcomeTerminated, now)
			p.terminate(now)
			return s, nil
		case limit > 0 && slice.Ran >= limit:
			s := finish(OutcomeSliceExpired, now)
			c.queue.Requeue(p)
			return s, nil
		}

		if c.policy.Preemptive() {
			if next, ok := c.queue.Preempt(p, c.ID); ok {
				return finish(OutcomePreempted, now), next
			}
		}
	}
}
