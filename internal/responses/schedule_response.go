package responses

import (
	"github.com/markphelps/optional"
)

// ProcessStatus is one row of a status snapshot. Times are seconds with
// millisecond resolution.
type ProcessStatus struct {
	PID            uint16           `json:"pid"`
	Priority       uint8            `json:"priority"`
	State          string           `json:"state"`
	Core           optional.Int     `json:"core"`
	TurnaroundTime float64          `json:"turnaround_time"`
	WaitTime       float64          `json:"wait_time"`
	ResponseTime   optional.Float64 `json:"response_time"`
	CpuTime        float64          `json:"cpu_time"`
	RemainingTime  float64          `json:"remaining_time"`
}

// Slice is one uninterrupted stretch of a process on a core.
type Slice struct {
	Core     int     `json:"core"`
	PID      uint16  `json:"pid"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
	Outcome  string  `json:"outcome"`
}

type ScheduleResponse struct {
	Algorithm             string             `json:"algorithm"`
	TotalTime             float64            `json:"total_time"`
	IdleTime              float64            `json:"idle_time"`
	CpuUtilization        []optional.Float64 `json:"cpu_utilization"`
	AverageUtilization    optional.Float64   `json:"average_utilization"`
	ThroughputFirstHalf   optional.Float64   `json:"throughput_first_half"`
	ThroughputSecondHalf  optional.Float64   `json:"throughput_second_half"`
	CpuThroughput         optional.Float64   `json:"cpu_throughput"`
	AverageTurnAroundTime optional.Float64   `json:"average_turn_around_time"`
	AverageWaitingTime    optional.Float64   `json:"average_waiting_time"`
	AverageResponseTime   optional.Float64   `json:"average_response_time"`
	Warnings              []string           `json:"warnings,omitempty"`
	Details               []ProcessStatus    `json:"details"`
	Timeline              []Slice            `json:"timeline"`
}
