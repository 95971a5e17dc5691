package core

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"os-scheduler/internal/log"
)

// ReadyQueue holds processes that may run, ordered by the policy with FIFO
// among equal keys. It never owns the processes it references. Every
// ownership handoff into and out of the queue happens under its lock.
type ReadyQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []*Process
	closed bool

	policy Policy
	clock  Clock
	log    *slog.Logger
}

func NewReadyQueue(policy Policy, clock Clock, logger *slog.Logger) *ReadyQueue {
	if logger == nil {
		logger = log.Discard()
	}
	q := &ReadyQueue{
		items:  make([]*Process, 0),
		policy: policy,
		clock:  clock,
		log:    logger,
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Insert adds processes in order under one lock acquisition, so processes
// that become ready together are ordered by the policy before any CPU can
// take one of them.
func (q *ReadyQueue) Insert(processes ...*Process) {
	if len(processes) == 0 {
		return
	}
	q.mu.Lock()
	now := q.clock.Now()
	for _, p := range processes {
		p.readyEntry = now
		q.insert(p)
	}
	q.mu.Unlock()
	q.cond.Broadcast()
}

// insert places p before the first element with a strictly greater key.
func (q *ReadyQueue) insert(p *Process) {
	i := sort.Search(len(q.items), func(i int) bool {
		return q.policy.Less(p, q.items[i])
	})
	q.place(i, p)
}

// insertAhead places p before the first element that is not strictly more
// urgent, so it goes ahead of waiters with an equal key.
func (q *ReadyQueue) insertAhead(p *Process) {
	i := sort.Search(len(q.items), func(i int) bool {
		return !q.policy.Less(q.items[i], p)
	})
	q.place(i, p)
}

func (q *ReadyQueue) place(i int, p *Process) {
	q.items = append(q.items, nil)
	copy(q.items[i+1:], q.items[i:])
	q.items[i] = p
}

func (q *ReadyQueue) popLocked(now time.Duration) *Process {
	p := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	if now > p.readyEntry {
		p.wait.Add(int64(now - p.readyEntry))
		p.readyEntry = now
	}
	return p
}

// PopFront removes the head without blocking.
func (q *ReadyQueue) PopFront() (*Process, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	return q.popLocked(q.clock.Now()), true
}

// Next blocks until a process is available, then hands it to core as
// Running. It returns false once the queue is closed or ctx is done.
func (q *ReadyQueue) Next(ctx context.Context, core int) (*Process, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed && ctx.Err() == nil {
		q.cond.Wait()
	}
	if q.closed || ctx.Err() != nil || len(q.items) == 0 {
		return nil, false
	}
	now := q.clock.Now()
	p := q.popLocked(now)
	q.dispatchLocked(p, core, now)
	return p, true
}

func (q *ReadyQueue) dispatchLocked(p *Process, core int, now time.Duration) {
	p.dispatch(core)
	p.firstDispatch(now)
}

// Requeue returns a running process to the queue.
func (q *ReadyQueue) Requeue(p *Process) {
	q.mu.Lock()
	p.unload(Ready)
	p.readyEntry = q.clock.Now()
	q.insert(p)
	q.mu.Unlock()
	q.cond.Signal()
}

// Preempt swaps running for the queue head when the policy says the head
// must displace it. The head is returned already dispatched to core and
// running is requeued ahead of waiters with an equal or lower urgency.
func (q *ReadyQueue) Preempt(running *Process, core int) (*Process, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 || !q.policy.Preempts(running, q.items[0]) {
		return nil, false
	}
	now := q.clock.Now()
	next := q.popLocked(now)
	running.unload(Ready)
	running.readyEntry = now
	q.insertAhead(running)
	q.dispatchLocked(next, core, now)
	q.log.Debug("preempted",
		log.PidAttr(running.pid),
		slog.Int("by", int(next.pid)),
		log.CoreAttr(core),
	)
	return next, true
}

// AccrueWait charges every queued process the time since its last sample.
func (q *ReadyQueue) AccrueWait(now time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, p := range q.items {
		if now > p.readyEntry {
			p.wait.Add(int64(now - p.readyEntry))
			p.readyEntry = now
		}
	}
}

// Close wakes every waiter; Next returns false from then on.
func (q *ReadyQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

func (q *ReadyQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// PIDs lists the queued processes head first.
func (q *ReadyQueue) PIDs() []uint16 {
	q.mu.Lock()
	defer q.mu.Unlock()
	pids := make([]uint16, len(q.items))
	for i, p := range q.items {
		pids[i] = p.pid
	}
	return pids
}
