package core

import "fmt"

type State int32

const (
	NotStarted State = iota
	Ready
	Running
	Blocked
	Terminated
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Blocked:
		return "i/o"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// legal[from][to] lists the only edges a process may take.
var legal = [...][5]bool{
	NotStarted: {Ready: true},
	Ready:      {Running: true},
	Running:    {Ready: true, Blocked: true, Terminated: true},
	Blocked:    {Ready: true},
	Terminated: {},
}

func canTransition(from, to State) bool {
	if from < NotStarted || from > Terminated || to < NotStarted || to > Terminated {
		return false
	}
	return legal[from][to]
}

// TransitionError is the panic value raised on an illegal state change. It
// means two owners touched the same process.
type TransitionError struct {
	PID  uint16
	From State
	To   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("process %d: illegal transition %s -> %s", e.PID, e.From, e.To)
}
