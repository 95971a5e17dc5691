package core

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"os-scheduler/internal/log"
	"os-scheduler/internal/responses"
)

// Observer receives a status snapshot once per dispatcher pass.
type Observer func(now time.Duration, statuses []responses.ProcessStatus)

// ClockResult is what the dispatcher measured over the whole run.
type ClockResult struct {
	// TotalTime is the termination time of the last process.
	TotalTime time.Duration
	// HalfTime is the termination time of the process that brought the
	// terminated count to half of the population.
	HalfTime    time.Duration
	HalfReached bool
	Terminated  int
}

type DispatcherOptions struct {
	PollInterval time.Duration
	Observer     Observer
	Logger       *slog.Logger
}

// Dispatcher owns simulated time and the NotStarted->Ready and
// Blocked->Ready transitions. It closes the ready queue once every process
// has terminated.
type Dispatcher struct {
	processes []*Process
	queue     *ReadyQueue
	clock     Clock
	poll      time.Duration
	observer  Observer
	log       *slog.Logger

	counted  []bool
	finishes []time.Duration
	result   ClockResult
}

func NewDispatcher(processes []*Process, queue *ReadyQueue, clock Clock, opts DispatcherOptions) *Dispatcher {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 10 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	return &Dispatcher{
		processes: processes,
		queue:     queue,
		clock:     clock,
		poll:      opts.PollInterval,
		observer:  opts.Observer,
		log:       opts.Logger,
		counted:   make([]bool, len(processes)),
	}
}

// Prime admits the processes that are due before any CPU starts.
func (d *Dispatcher) Prime() {
	d.pass(d.clock.Now())
}

// Run repeats dispatcher passes every poll interval until all processes have
// terminated or ctx is done. The ready queue is closed on return either way.
func (d *Dispatcher) Run(ctx context.Context) (ClockResult, error) {
	defer d.queue.Close()
	for {
		d.pass(d.clock.Now())
		if d.done() {
			d.log.Info("all processes terminated",
				log.IntAttr("processes", len(d.processes)),
				slog.Duration("total", d.result.TotalTime),
			)
			return d.result, nil
		}
		if err := d.clock.Sleep(ctx, d.poll); err != nil {
			return d.result, err
		}
	}
}

func (d *Dispatcher) done() bool {
	return d.result.Terminated == len(d.processes)
}

func (d *Dispatcher) pass(now time.Duration) {
	var admitted, blocked []*Process
	for i, p := range d.processes {
		switch p.State() {
		case NotStarted:
			if now >= p.arrival {
				p.admit(now)
				p.turnaround.Store(0)
				admitted = append(admitted, p)
				d.log.Debug("admitted", log.PidAttr(p.pid))
			}
		case Blocked:
			p.turnaround.Store(int64(now - p.start))
			blocked = append(blocked, p)
		case Terminated:
			if !d.counted[i] {
				d.counted[i] = true
				p.turnaround.Store(int64(p.finish - p.start))
				d.countTerminated(p)
			}
		default:
			p.turnaround.Store(int64(now - p.start))
		}
	}
	d.markHalf()

	ready := append(admitted, d.collectIO(now, blocked)...)
	d.queue.Insert(ready...)
	d.queue.AccrueWait(now)

	if d.observer != nil {
		d.observer(now, d.Snapshot())
	}
}

func (d *Dispatcher) countTerminated(p *Process) {
	d.result.Terminated++
	d.finishes = append(d.finishes, p.finish)
	if p.finish > d.result.TotalTime {
		d.result.TotalTime = p.finish
	}
	d.log.Debug("terminated", log.PidAttr(p.pid), slog.Duration("at", p.finish))
}

// markHalf records the half-point completion time once half of the
// population has terminated.
func (d *Dispatcher) markHalf() {
	half := len(d.processes) / 2
	if half == 0 || d.result.HalfReached || d.result.Terminated < half {
		return
	}
	sort.Slice(d.finishes, func(i, j int) bool { return d.finishes[i] < d.finishes[j] })
	d.result.HalfTime = d.finishes[half-1]
	d.result.HalfReached = true
}

// Snapshot lists every process that has been admitted.
func (d *Dispatcher) Snapshot() []responses.ProcessStatus {
	statuses := make([]responses.ProcessStatus, 0, len(d.processes))
	for _, p := range d.processes {
		if p.State() == NotStarted {
			continue
		}
		statuses = append(statuses, p.Status())
	}
	return statuses
}
