package schedulers

import (
	"context"
	"time"

	"os-scheduler/internal/core"
	"os-scheduler/internal/requests"
	"os-scheduler/internal/responses"
)

// RoundRobin keeps the ready queue FIFO; the CPU requeues a process at the
// tail once it has run for a full time quantum.
type RoundRobin struct {
	TimeQuantum time.Duration
}

func (RoundRobin) Name() string { return string(requests.RoundRobin) }

func (RoundRobin) Less(_, _ *core.Process) bool { return false }

func (RoundRobin) Preemptive() bool { return false }

func (RoundRobin) Preempts(_, _ *core.Process) bool { return false }

func (r RoundRobin) TimeSlice() time.Duration { return r.TimeQuantum }

func ScheduleRoundRobin(ctx context.Context, request requests.ScheduleRequests, opts Options) (responses.ScheduleResponse, error) {
	return Schedule(ctx, request.WithAlgorithm(requests.RoundRobin), opts)
}
