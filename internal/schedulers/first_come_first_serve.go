package schedulers

import (
	"context"
	"time"

	"os-scheduler/internal/core"
	"os-scheduler/internal/requests"
	"os-scheduler/internal/responses"
)

// nonPreemptive is embedded by policies that never displace a running
// process and have no time slice.
type nonPreemptive struct{}

func (nonPreemptive) Preemptive() bool { return false }

func (nonPreemptive) Preempts(_, _ *core.Process) bool { return false }

func (nonPreemptive) TimeSlice() time.Duration { return 0 }

// FirstComeFirstServe runs processes to the end of their CPU burst in the
// order they became ready.
type FirstComeFirstServe struct {
	nonPreemptive
}

func (FirstComeFirstServe) Name() string { return string(requests.FirstComeFirstServe) }

func (FirstComeFirstServe) Less(_, _ *core.Process) bool { return false }

func ScheduleFirstComeFirstServe(ctx context.Context, request requests.ScheduleRequests, opts Options) (responses.ScheduleResponse, error) {
	return Schedule(ctx, request.WithAlgorithm(requests.FirstComeFirstServe), opts)
}
