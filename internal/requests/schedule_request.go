package requests

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Algorithm string

const (
	FirstComeFirstServe Algorithm = "FCFS"
	ShortestJobFirst    Algorithm = "SJF"
	PreemptivePriority  Algorithm = "PP"
	RoundRobin          Algorithm = "RR"
)

// Algorithms lists every supported algorithm in a stable order.
var Algorithms = []Algorithm{FirstComeFirstServe, ShortestJobFirst, PreemptivePriority, RoundRobin}

// ParseAlgorithm accepts the short names case-insensitively.
func ParseAlgorithm(s string) (Algorithm, error) {
	a := Algorithm(strings.ToUpper(strings.TrimSpace(s)))
	switch a {
	case FirstComeFirstServe, ShortestJobFirst, PreemptivePriority, RoundRobin:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

func (a *Algorithm) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*a = ""
		return nil
	}
	parsed, err := ParseAlgorithm(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ProcessDefinition describes one process. Bursts alternate CPU, IO, CPU, ...
// starting with a CPU burst; all times are milliseconds.
type ProcessDefinition struct {
	PID         uint16   `json:"pid" mapstructure:"pid"`
	ArrivalTime uint32   `json:"arrival_time" mapstructure:"arrival_time"`
	Priority    uint8    `json:"priority" mapstructure:"priority"`
	Bursts      []uint32 `json:"bursts" mapstructure:"bursts"`
}

// CpuTime is the sum of the CPU (even-indexed) bursts.
func (d ProcessDefinition) CpuTime() uint64 {
	var total uint64
	for i := 0; i < len(d.Bursts); i += 2 {
		total += uint64(d.Bursts[i])
	}
	return total
}

type ScheduleRequests struct {
	Cores         int                 `json:"cores" mapstructure:"cores"`
	Algorithm     Algorithm           `json:"algorithm" mapstructure:"algorithm"`
	ContextSwitch uint32              `json:"context_switch" mapstructure:"context_switch"`
	TimeSlice     uint32              `json:"time_slice" mapstructure:"time_slice"`
	Processes     []ProcessDefinition `json:"processes" mapstructure:"processes"`

	// coresMissing is set when a decoded body carried no core count.
	coresMissing bool
}

// UnmarshalJSON tells an absent core count apart from an explicit zero.
func (r *ScheduleRequests) UnmarshalJSON(b []byte) error {
	type plain ScheduleRequests
	aux := struct {
		Cores *int `json:"cores"`
		*plain
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	r.coresMissing = aux.Cores == nil
	if aux.Cores != nil {
		r.Cores = *aux.Cores
	}
	return nil
}

// WithAlgorithm returns a copy running under a.
func (r ScheduleRequests) WithAlgorithm(a Algorithm) ScheduleRequests {
	r.Algorithm = a
	return r
}
