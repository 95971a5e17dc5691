package core

import "time"

// Policy is the algorithm-specific part of scheduling: ready queue order,
// priority preemption and the round robin slice.
type Policy interface {
	Name() string
	// Less reports whether a must run before b. Policies that never
	// return true keep the queue FIFO.
	Less(a, b *Process) bool
	// Preemptive reports whether running processes are checked against the
	// queue head after every increment.
	Preemptive() bool
	// Preempts reports whether waiting displaces running.
	Preempts(running, waiting *Process) bool
	// TimeSlice is the maximum continuous run, zero for unlimited.
	TimeSlice() time.Duration
}
