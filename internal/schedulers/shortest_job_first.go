package schedulers

import (
	"context"

	"os-scheduler/internal/core"
	"os-scheduler/internal/requests"
	"os-scheduler/internal/responses"
)

// ShortestJobFirst orders the ready queue by remaining CPU time. A running
// process is not displaced.
type ShortestJobFirst struct {
	nonPreemptive
}

func (ShortestJobFirst) Name() string { return string(requests.ShortestJobFirst) }

func (ShortestJobFirst) Less(a, b *core.Process) bool {
	return a.RemainingTime() < b.RemainingTime()
}

func ScheduleShortestJobFirst(ctx context.Context, request requests.ScheduleRequests, opts Options) (responses.ScheduleResponse, error) {
	return Schedule(ctx, request.WithAlgorithm(requests.ShortestJobFirst), opts)
}
