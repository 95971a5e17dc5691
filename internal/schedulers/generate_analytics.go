package schedulers

import (
	"math"
	"sort"

	"github.com/markphelps/optional"

	"os-scheduler/internal/core"
	"os-scheduler/internal/requests"
	"os-scheduler/internal/responses"
	"os-scheduler/internal/util"
)

// Analytics holds the final statistics. Values that cannot be computed,
// such as throughput of an empty workload or averages of a run that never
// scheduled anything, are NaN.
type Analytics struct {
	CoreUtilization      []float64
	AverageUtilization   float64
	ThroughputFirstHalf  float64
	ThroughputSecondHalf float64
	Throughput           float64
	AverageTurnaround    float64
	AverageWait          float64
	AverageResponse      float64
}

// collectAnalytics computes utilization as a percentage and throughput in
// processes per second.
func collectAnalytics(details []responses.ProcessStatus, result core.ClockResult, cpuMetrics []core.CpuMetric) Analytics {
	a := Analytics{
		CoreUtilization:      make([]float64, 0, len(cpuMetrics)),
		ThroughputFirstHalf:  math.NaN(),
		ThroughputSecondHalf: math.NaN(),
	}
	for _, m := range cpuMetrics {
		a.CoreUtilization = append(a.CoreUtilization, util.Ratio(m.BusyTime.Seconds(), m.TotalTime.Seconds())*100)
	}
	a.AverageUtilization = util.Mean(a.CoreUtilization)

	n := len(details)
	half := n / 2
	total := result.TotalTime.Seconds()
	a.Throughput = util.Ratio(n, total)
	if n > 0 {
		halfTime := 0.0
		if result.HalfReached {
			halfTime = result.HalfTime.Seconds()
			a.ThroughputFirstHalf = util.Ratio(half, halfTime)
		}
		a.ThroughputSecondHalf = util.Ratio(n-half, total-halfTime)
	}
	if result.Terminated == 0 || len(cpuMetrics) == 0 {
		a.AverageWait, a.AverageResponse, a.AverageTurnaround = math.NaN(), math.NaN(), math.NaN()
		return a
	}
	a.AverageWait, a.AverageResponse, a.AverageTurnaround = util.CalculateAverage(details)
	return a
}

func generateResponse(algorithm string, processes []*core.Process, result core.ClockResult, cpuMetrics []core.CpuMetric, warnings []requests.Warning) responses.ScheduleResponse {
	details := make([]responses.ProcessStatus, 0, len(processes))
	for _, p := range processes {
		details = append(details, p.Status())
	}
	analytics := collectAnalytics(details, result, cpuMetrics)

	response := responses.ScheduleResponse{
		Algorithm:             algorithm,
		TotalTime:             util.Seconds(result.TotalTime),
		CpuUtilization:        make([]optional.Float64, 0, len(analytics.CoreUtilization)),
		AverageUtilization:    util.Defined(analytics.AverageUtilization),
		ThroughputFirstHalf:   util.Defined(analytics.ThroughputFirstHalf),
		ThroughputSecondHalf:  util.Defined(analytics.ThroughputSecondHalf),
		CpuThroughput:         util.Defined(analytics.Throughput),
		AverageTurnAroundTime: util.Defined(analytics.AverageTurnaround),
		AverageWaitingTime:    util.Defined(analytics.AverageWait),
		AverageResponseTime:   util.Defined(analytics.AverageResponse),
		Details:               details,
		Timeline:              timeline(cpuMetrics),
	}
	for _, u := range analytics.CoreUtilization {
		response.CpuUtilization = append(response.CpuUtilization, util.Defined(u))
	}
	for _, m := range cpuMetrics {
		response.IdleTime += util.Seconds(m.IdleTime)
	}
	for _, w := range warnings {
		response.Warnings = append(response.Warnings, string(w))
	}
	return response
}

// timeline merges the per-core slices ordered by start time.
func timeline(cpuMetrics []core.CpuMetric) []responses.Slice {
	var merged []core.Slice
	for _, m := range cpuMetrics {
		merged = append(merged, m.Timeline...)
	}
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Start < merged[j].Start })

	slices := make([]responses.Slice, 0, len(merged))
	for _, s := range merged {
		slices = append(slices, responses.Slice{
			Core:     s.Core,
			PID:      s.PID,
			Start:    util.Seconds(s.Start),
			End:      util.Seconds(s.End),
			Duration: util.Seconds(s.Ran),
			Outcome:  string(s.Outcome),
		})
	}
	return slices
}
