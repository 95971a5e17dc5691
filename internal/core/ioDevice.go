package core

import (
	"time"

	"os-scheduler/internal/log"
)

// ioDone reports whether the IO burst of a blocked process has elapsed at
// now. Only the dispatcher calls it, while it owns the blocked process.
func (p *Process) ioDone(now time.Duration) bool {
	if p.burst >= len(p.bursts) {
		return true
	}
	return now-p.burstStart >= p.bursts[p.burst]
}

// completeIO moves a blocked process past its IO burst and marks it Ready.
// The caller inserts it into the ready queue.
func (p *Process) completeIO() {
	p.burst++
	p.burstElapsed = 0
	p.setState(Ready)
}

// collectIO returns the blocked processes whose IO finished at now, marked
// Ready and waiting to be queued.
func (d *Dispatcher) collectIO(now time.Duration, blocked []*Process) []*Process {
	var done []*Process
	for _, p := range blocked {
		if !p.ioDone(now) {
			continue
		}
		p.completeIO()
		d.log.Debug("io complete", log.PidAttr(p.pid), log.IntAttr("burst", p.burst))
		done = append(done, p)
	}
	return done
}
