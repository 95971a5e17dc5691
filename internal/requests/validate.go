package requests

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCores     = errors.New("core count is missing or negative")
	ErrUnknownAlgorithm = errors.New("unknown scheduling algorithm")
	ErrMissingTimeSlice = errors.New("round robin needs a positive time slice")
	ErrNoBursts         = errors.New("process has no bursts")
	ErrLeadingIOBurst   = errors.New("process burst list begins with an IO burst")
	ErrDuplicatePID     = errors.New("duplicate pid")
)

// ConfigError is fatal: no simulation starts when one is reported.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Warning reports a degenerate but runnable input.
type Warning string

const (
	WarnNoProcesses Warning = "no processes: statistics are undefined"
	WarnNoCores     Warning = "no cores: processes are never scheduled and statistics are undefined"
)

// Validate checks the request. Errors are *ConfigError; warnings describe
// inputs for which the statistics will be undefined.
func (r ScheduleRequests) Validate() ([]Warning, error) {
	if r.coresMissing || r.Cores < 0 {
		return nil, &ConfigError{Field: "cores", Err: ErrMissingCores}
	}
	if _, err := ParseAlgorithm(string(r.Algorithm)); err != nil {
		return nil, &ConfigError{Field: "algorithm", Err: err}
	}
	if r.Algorithm == RoundRobin && r.TimeSlice == 0 {
		return nil, &ConfigError{Field: "time_slice", Err: ErrMissingTimeSlice}
	}

	seen := make(map[uint16]struct{}, len(r.Processes))
	for i, p := range r.Processes {
		field := fmt.Sprintf("processes[%d]", i)
		if _, dup := seen[p.PID]; dup {
			return nil, &ConfigError{Field: field, Err: fmt.Errorf("%w: %d", ErrDuplicatePID, p.PID)}
		}
		seen[p.PID] = struct{}{}
		if len(p.Bursts) == 0 {
			return nil, &ConfigError{Field: field, Err: ErrNoBursts}
		}
		if p.Bursts[0] == 0 {
			return nil, &ConfigError{Field: field, Err: ErrLeadingIOBurst}
		}
	}

	var warnings []Warning
	if len(r.Processes) == 0 {
		warnings = append(warnings, WarnNoProcesses)
	}
	if r.Cores == 0 {
		warnings = append(warnings, WarnNoCores)
	}
	return warnings, nil
}
