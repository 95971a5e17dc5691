package core

import (
	"sync/atomic"
	"time"

	"github.com/markphelps/optional"

	"os-scheduler/internal/requests"
	"os-scheduler/internal/responses"
	"os-scheduler/internal/util"
)

// NoCore is the assigned core of a process that is not running.
const NoCore = -1

// Process is one simulated process. Run-state fields are owned by exactly
// one of the dispatcher, the ready queue or a CPU at a time; ownership moves
// with the state tag or under the queue lock. Accumulators are atomics so
// status snapshots can be taken from any goroutine.
type Process struct {
	pid      uint16
	arrival  time.Duration
	priority uint8
	bursts   []time.Duration

	state atomic.Int32
	core  atomic.Int32

	burst        int
	burstElapsed time.Duration
	burstStart   time.Duration
	readyEntry   time.Duration
	start        time.Duration
	finish       time.Duration

	turnaround atomic.Int64
	wait       atomic.Int64
	cpu        atomic.Int64
	remaining  atomic.Int64
	// response is the delay from admission to the first dispatch, or
	// notDispatched.
	response atomic.Int64
}

const notDispatched = -1

func NewProcess(d requests.ProcessDefinition) *Process {
	p := &Process{
		pid:      d.PID,
		arrival:  util.Millis(d.ArrivalTime),
		priority: d.Priority,
		bursts:   make([]time.Duration, len(d.Bursts)),
	}
	for i, b := range d.Bursts {
		p.bursts[i] = util.Millis(b)
	}
	p.state.Store(int32(NotStarted))
	p.core.Store(NoCore)
	p.response.Store(notDispatched)
	p.remaining.Store(int64(util.Millis(d.CpuTime())))
	return p
}

func NewProcesses(defs []requests.ProcessDefinition) []*Process {
	processes := make([]*Process, 0, len(defs))
	for _, d := range defs {
		processes = append(processes, NewProcess(d))
	}
	return processes
}

func (p *Process) PID() uint16 {
	return p.pid
}

func (p *Process) Priority() uint8 {
	return p.priority
}

func (p *Process) ArrivalTime() time.Duration {
	return p.arrival
}

func (p *Process) State() State {
	return State(p.state.Load())
}

// Core returns the core running the process, if any.
func (p *Process) Core() (int, bool) {
	c := int(p.core.Load())
	return c, c != NoCore
}

func (p *Process) RemainingTime() time.Duration {
	return time.Duration(p.remaining.Load())
}

func (p *Process) CpuTime() time.Duration {
	return time.Duration(p.cpu.Load())
}

func (p *Process) WaitTime() time.Duration {
	return time.Duration(p.wait.Load())
}

func (p *Process) TurnaroundTime() time.Duration {
	return time.Duration(p.turnaround.Load())
}

// ResponseTime is the delay between admission and the first dispatch. It is
// absent until the process has run.
func (p *Process) ResponseTime() (time.Duration, bool) {
	r := p.response.Load()
	return time.Duration(r), r != notDispatched
}

func (p *Process) setState(to State) {
	from := p.State()
	if !canTransition(from, to) || !p.state.CompareAndSwap(int32(from), int32(to)) {
		panic(&TransitionError{PID: p.pid, From: from, To: to})
	}
}

func (p *Process) admit(now time.Duration) {
	p.start = now
	p.setState(Ready)
}

func (p *Process) dispatch(core int) {
	p.setState(Running)
	p.core.Store(int32(core))
}

// firstDispatch records the response time on the first dispatch only.
func (p *Process) firstDispatch(now time.Duration) {
	if now < p.start {
		now = p.start
	}
	p.response.CompareAndSwap(notDispatched, int64(now-p.start))
}

func (p *Process) unload(to State) {
	p.core.Store(NoCore)
	p.setState(to)
}

func (p *Process) burstLeft() time.Duration {
	if p.burst >= len(p.bursts) {
		return 0
	}
	return p.bursts[p.burst] - p.burstElapsed
}

// run charges d of CPU progress to the in-flight burst.
func (p *Process) run(d time.Duration) {
	if r := p.RemainingTime(); d > r {
		d = r
	}
	p.burstElapsed += d
	p.cpu.Add(int64(d))
	p.remaining.Add(-int64(d))
}

// completeCPUBurst moves past the finished CPU burst and hands the process to
// the dispatcher as either Blocked or Terminated.
func (p *Process) completeCPUBurst(now time.Duration) State {
	p.burst++
	p.burstElapsed = 0
	if p.RemainingTime() == 0 || p.burst >= len(p.bursts) {
		p.terminate(now)
		return Terminated
	}
	p.burstStart = now
	p.unload(Blocked)
	return Blocked
}

func (p *Process) terminate(now time.Duration) {
	p.finish = now
	p.unload(Terminated)
}

// Status reports the process in seconds with millisecond resolution.
func (p *Process) Status() responses.ProcessStatus {
	core := optional.Int{}
	if c, ok := p.Core(); ok {
		core = optional.NewInt(c)
	}
	response := optional.Float64{}
	if r, ok := p.ResponseTime(); ok {
		response = optional.NewFloat64(util.Seconds(r))
	}
	return responses.ProcessStatus{
		PID:            p.pid,
		Priority:       p.priority,
		State:          p.State().String(),
		Core:           core,
		TurnaroundTime: util.Seconds(p.TurnaroundTime()),
		WaitTime:       util.Seconds(p.WaitTime()),
		ResponseTime:   response,
		CpuTime:        util.Seconds(p.CpuTime()),
		RemainingTime:  util.Seconds(p.RemainingTime()),
	}
}
