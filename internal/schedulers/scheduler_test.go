package schedulers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"os-scheduler/internal/requests"
	"os-scheduler/internal/responses"
)

// fastOptions runs simulated time ten times faster than the wall clock.
func fastOptions() Options {
	return Options{
		Speed:        10,
		Tick:         10 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
	}
}

func schedule(t *testing.T, request requests.ScheduleRequests) responses.ScheduleResponse {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	response, err := Schedule(ctx, request, fastOptions())
	require.NoError(t, err)
	return response
}

func pids(timeline []responses.Slice) []uint16 {
	out := make([]uint16, 0, len(timeline))
	for _, s := range timeline {
		out = append(out, s.PID)
	}
	return out
}

func status(t *testing.T, response responses.ScheduleResponse, pid uint16) responses.ProcessStatus {
	t.Helper()
	for _, s := range response.Details {
		if s.PID == pid {
			return s
		}
	}
	t.Fatalf("pid %d missing from report", pid)
	return responses.ProcessStatus{}
}

func TestSchedule_FirstComeFirstServe(t *testing.T) {
	response := schedule(t, requests.ScheduleRequests{
		Cores:         1,
		Algorithm:     requests.FirstComeFirstServe,
		ContextSwitch: 10,
		Processes: []requests.ProcessDefinition{
			{PID: 1, Bursts: []uint32{500}},
			{PID: 2, Bursts: []uint32{300}},
		},
	})

	assert.Equal(t, []uint16{1, 2}, pids(response.Timeline))
	p1, p2 := status(t, response, 1), status(t, response, 2)
	assert.Equal(t, "terminated", p1.State)
	assert.Equal(t, "terminated", p2.State)
	assert.Equal(t, 0.5, p1.CpuTime)
	assert.Equal(t, 0.3, p2.CpuTime)
	assert.InDelta(t, 0.0, p1.WaitTime, 0.05)
	assert.InDelta(t, 0.51, p2.WaitTime, 0.1)
	assert.GreaterOrEqual(t, p1.TurnaroundTime, 0.5)
	assert.GreaterOrEqual(t, p2.TurnaroundTime, 0.8)
	assert.Equal(t, "FCFS", response.Algorithm)
}

func TestSchedule_ShortestJobFirst(t *testing.T) {
	response := schedule(t, requests.ScheduleRequests{
		Cores:     1,
		Algorithm: requests.ShortestJobFirst,
		Processes: []requests.ProcessDefinition{
			{PID: 1, Bursts: []uint32{800}},
			{PID: 2, Bursts: []uint32{200}},
			{PID: 3, Bursts: []uint32{500}},
		},
	})

	assert.Equal(t, []uint16{2, 3, 1}, pids(response.Timeline))
}

func TestSchedule_PreemptivePriority(t *testing.T) {
	response := schedule(t, requests.ScheduleRequests{
		Cores:         1,
		Algorithm:     requests.PreemptivePriority,
		ContextSwitch: 5,
		Processes: []requests.ProcessDefinition{
			{PID: 1, Priority: 5, Bursts: []uint32{1000}},
			{PID: 3, ArrivalTime: 100, Priority: 7, Bursts: []uint32{100}},
			{PID: 2, ArrivalTime: 300, Priority: 1, Bursts: []uint32{200}},
		},
	})

	require.Len(t, response.Timeline, 4)
	assert.Equal(t, []uint16{1, 2, 1, 3}, pids(response.Timeline))
	first := response.Timeline[0]
	assert.Equal(t, "preempted", first.Outcome)
	assert.GreaterOrEqual(t, first.Duration, 0.3)
	assert.Less(t, first.Duration, 1.0)
	assert.InDelta(t, 1.0, first.Duration+response.Timeline[2].Duration, 1e-9)
}

func TestSchedule_RoundRobinSingleProcess(t *testing.T) {
	response := schedule(t, requests.ScheduleRequests{
		Cores:         1,
		Algorithm:     requests.RoundRobin,
		ContextSwitch: 20,
		TimeSlice:     100,
		Processes: []requests.ProcessDefinition{
			{PID: 1, Bursts: []uint32{350}},
		},
	})

	require.Len(t, response.Timeline, 4)
	var durations []float64
	var outcomes []string
	for _, s := range response.Timeline {
		durations = append(durations, s.Duration)
		outcomes = append(outcomes, s.Outcome)
	}
	assert.Equal(t, []float64{0.1, 0.1, 0.1, 0.05}, durations)
	assert.Equal(t, []string{"slice_expired", "slice_expired", "slice_expired", "terminated"}, outcomes)
	// three context switches of 20ms separate the four dispatches
	gap := response.Timeline[3].Start - response.Timeline[0].End
	assert.GreaterOrEqual(t, gap, 0.2+0.06-0.005)
}

func TestSchedule_MultiCoreConsistency(t *testing.T) {
	workload := []requests.ProcessDefinition{
		{PID: 1, Priority: 3, Bursts: []uint32{120, 40, 60}},
		{PID: 2, Priority: 1, Bursts: []uint32{200}},
		{PID: 3, ArrivalTime: 30, Priority: 2, Bursts: []uint32{50, 80, 50, 20, 30}},
		{PID: 4, ArrivalTime: 60, Priority: 0, Bursts: []uint32{90}},
		{PID: 5, ArrivalTime: 60, Priority: 4, Bursts: []uint32{70, 10}},
		{PID: 6, ArrivalTime: 150, Priority: 2, Bursts: []uint32{110, 30, 40}},
	}
	for _, algorithm := range requests.Algorithms {
		t.Run(string(algorithm), func(t *testing.T) {
			response := schedule(t, requests.ScheduleRequests{
				Cores:         2,
				Algorithm:     algorithm,
				ContextSwitch: 5,
				TimeSlice:     40,
				Processes:     workload,
			})

			for _, def := range workload {
				s := status(t, response, def.PID)
				assert.Equal(t, "terminated", s.State, "pid %d", def.PID)
				assert.False(t, s.Core.Present(), "pid %d", def.PID)
				assert.Zero(t, s.RemainingTime, "pid %d", def.PID)
				assert.InDelta(t, float64(def.CpuTime())/1000, s.CpuTime, 1e-9, "pid %d", def.PID)
				assert.GreaterOrEqual(t, s.TurnaroundTime, s.CpuTime, "pid %d", def.PID)
			}

			last := map[uint16]responses.Slice{}
			for _, s := range response.Timeline {
				if prev, ok := last[s.PID]; ok {
					assert.GreaterOrEqual(t, s.Start, prev.End, "pid %d ran on two cores at once", s.PID)
				}
				last[s.PID] = s
				if algorithm == requests.RoundRobin {
					assert.LessOrEqual(t, s.Duration, 0.04)
				}
			}

			require.Len(t, response.CpuUtilization, 2)
			for _, u := range response.CpuUtilization {
				v, err := u.Get()
				require.NoError(t, err)
				assert.Greater(t, v, 0.0)
				assert.LessOrEqual(t, v, 100.0)
			}
			for _, v := range []interface{ Present() bool }{
				response.AverageUtilization,
				response.ThroughputFirstHalf,
				response.ThroughputSecondHalf,
				response.CpuThroughput,
				response.AverageTurnAroundTime,
				response.AverageWaitingTime,
				response.AverageResponseTime,
			} {
				assert.True(t, v.Present())
			}
		})
	}
}

func TestSchedule_Degenerate(t *testing.T) {
	t.Run("no processes", func(t *testing.T) {
		response := schedule(t, requests.ScheduleRequests{Cores: 2, Algorithm: requests.FirstComeFirstServe})

		assert.Equal(t, []string{string(requests.WarnNoProcesses)}, response.Warnings)
		assert.False(t, response.CpuThroughput.Present())
		assert.False(t, response.AverageWaitingTime.Present())
		assert.False(t, response.ThroughputFirstHalf.Present())
		assert.Empty(t, response.Details)
	})
	t.Run("no cores", func(t *testing.T) {
		response := schedule(t, requests.ScheduleRequests{
			Algorithm: requests.ShortestJobFirst,
			Processes: []requests.ProcessDefinition{{PID: 1, Bursts: []uint32{10}}},
		})

		assert.Equal(t, []string{string(requests.WarnNoCores)}, response.Warnings)
		assert.Empty(t, response.CpuUtilization)
		assert.False(t, response.AverageUtilization.Present())
		assert.False(t, response.CpuThroughput.Present())
		assert.False(t, response.AverageWaitingTime.Present())
		assert.False(t, response.AverageTurnAroundTime.Present())
		assert.False(t, response.AverageResponseTime.Present())
		require.Len(t, response.Details, 1)
		assert.False(t, response.Details[0].ResponseTime.Present())
		assert.Equal(t, "not started", response.Details[0].State)
	})
}

func TestSchedule_RejectsBadConfig(t *testing.T) {
	_, err := Schedule(context.Background(), requests.ScheduleRequests{
		Cores:     1,
		Algorithm: requests.FirstComeFirstServe,
		Processes: []requests.ProcessDefinition{{PID: 1}},
	}, fastOptions())

	var cfgErr *requests.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.ErrorIs(t, err, requests.ErrNoBursts)
}

func TestSchedule_Cancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := Schedule(ctx, requests.ScheduleRequests{
		Cores:     1,
		Algorithm: requests.FirstComeFirstServe,
		Processes: []requests.ProcessDefinition{{PID: 1, Bursts: []uint32{60000}}},
	}, fastOptions())

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSchedule_ObserverSeesSnapshots(t *testing.T) {
	opts := fastOptions()
	var seen int
	opts.Observer = func(_ time.Duration, statuses []responses.ProcessStatus) {
		seen++
		for _, s := range statuses {
			assert.NotEqual(t, "not started", s.State)
		}
	}
	_, err := Schedule(context.Background(), requests.ScheduleRequests{
		Cores:     1,
		Algorithm: requests.FirstComeFirstServe,
		Processes: []requests.ProcessDefinition{
			{PID: 1, Bursts: []uint32{50}},
			{PID: 2, ArrivalTime: 40, Bursts: []uint32{50}},
		},
	}, opts)
	require.NoError(t, err)
	assert.Greater(t, seen, 1)
}

func TestScheduleAll(t *testing.T) {
	ctx := context.Background()
	all, err := ScheduleAll(ctx, requests.ScheduleRequests{
		Cores:     1,
		TimeSlice: 50,
		Processes: []requests.ProcessDefinition{
			{PID: 1, Priority: 2, Bursts: []uint32{60}},
			{PID: 2, Priority: 1, Bursts: []uint32{30}},
		},
	}, fastOptions())
	require.NoError(t, err)

	require.Len(t, all, 4)
	for _, a := range requests.Algorithms {
		assert.Equal(t, string(a), all[a].Algorithm)
	}
}

func TestScheduleWrappersForceAlgorithm(t *testing.T) {
	request := requests.ScheduleRequests{
		Cores:     1,
		Algorithm: requests.RoundRobin,
		TimeSlice: 10,
		Processes: []requests.ProcessDefinition{{PID: 1, Bursts: []uint32{20}}},
	}
	ctx := context.Background()
	for want, run := range map[string]func(context.Context, requests.ScheduleRequests, Options) (responses.ScheduleResponse, error){
		"FCFS": ScheduleFirstComeFirstServe,
		"SJF":  ScheduleShortestJobFirst,
		"PP":   SchedulePreemptivePriority,
		"RR":   ScheduleRoundRobin,
	} {
		response, err := run(ctx, request, fastOptions())
		require.NoError(t, err)
		assert.Equal(t, want, response.Algorithm)
	}
}

func TestPolicyFor(t *testing.T) {
	p, err := PolicyFor(requests.ScheduleRequests{Algorithm: requests.RoundRobin, TimeSlice: 25})
	require.NoError(t, err)
	assert.Equal(t, 25*time.Millisecond, p.TimeSlice())

	_, err = PolicyFor(requests.ScheduleRequests{Algorithm: "EDF"})
	assert.ErrorIs(t, err, requests.ErrUnknownAlgorithm)
}
