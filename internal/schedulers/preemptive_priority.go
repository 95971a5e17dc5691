package schedulers

import (
	"context"
	"time"

	"os-scheduler/internal/core"
	"os-scheduler/internal/requests"
	"os-scheduler/internal/responses"
)

// PreemptivePriority orders the ready queue by priority, lower value first,
// and displaces a running process as soon as a strictly more urgent one is
// at the head of the queue.
type PreemptivePriority struct{}

func (PreemptivePriority) Name() string { return string(requests.PreemptivePriority) }

func (PreemptivePriority) Less(a, b *core.Process) bool {
	return a.Priority() < b.Priority()
}

func (PreemptivePriority) Preemptive() bool { return true }

func (PreemptivePriority) Preempts(running, waiting *core.Process) bool {
	return waiting.Priority() < running.Priority()
}

func (PreemptivePriority) TimeSlice() time.Duration { return 0 }

func SchedulePreemptivePriority(ctx context.Context, request requests.ScheduleRequests, opts Options) (responses.ScheduleResponse, error) {
	return Schedule(ctx, request.WithAlgorithm(requests.PreemptivePriority), opts)
}
