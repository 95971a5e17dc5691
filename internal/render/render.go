package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/markphelps/optional"

	"os-scheduler/internal/core"
	"os-scheduler/internal/responses"
)

const clearScreen = "\033[2J\033[1;1H"

// Status writes one snapshot as a table.
func Status(w io.Writer, statuses []responses.ProcessStatus) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PID\tPriority\tState\tCore\tTurn Time\tWait Time\tCPU Time\tRemain Time\t")
	for _, s := range statuses {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%.3f\t%.3f\t%.3f\t%.3f\t\n",
			s.PID, s.Priority, s.State, coreLabel(s.Core),
			s.TurnaroundTime, s.WaitTime, s.CpuTime, s.RemainingTime)
	}
	return tw.Flush()
}

func coreLabel(c optional.Int) string {
	if v, err := c.Get(); err == nil {
		return strconv.Itoa(v)
	}
	return "-"
}

func value(v optional.Float64, format string) string {
	if f, err := v.Get(); err == nil {
		return fmt.Sprintf(format, f)
	}
	return "undefined"
}

// Report writes the final statistics.
func Report(w io.Writer, r responses.ScheduleResponse) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Algorithm: %s\n", r.Algorithm)
	for _, warning := range r.Warnings {
		fmt.Fprintf(&b, "Warning: %s\n", warning)
	}
	b.WriteString("CPU utilization:\n")
	for i, u := range r.CpuUtilization {
		fmt.Fprintf(&b, "  core %d: %s\n", i, value(u, "%.2f%%"))
	}
	fmt.Fprintf(&b, "  average: %s\n", value(r.AverageUtilization, "%.2f%%"))
	b.WriteString("Throughput:\n")
	fmt.Fprintf(&b, "  first 50%% of processes: %s\n", value(r.ThroughputFirstHalf, "%.3f processes/sec"))
	fmt.Fprintf(&b, "  second 50%% of processes: %s\n", value(r.ThroughputSecondHalf, "%.3f processes/sec"))
	fmt.Fprintf(&b, "  overall: %s\n", value(r.CpuThroughput, "%.3f processes/sec"))
	fmt.Fprintf(&b, "Average turnaround time: %s\n", value(r.AverageTurnAroundTime, "%.3f s"))
	fmt.Fprintf(&b, "Average waiting time: %s\n", value(r.AverageWaitingTime, "%.3f s"))
	fmt.Fprintf(&b, "Average response time: %s\n", value(r.AverageResponseTime, "%.3f s"))
	_, err := io.WriteString(w, b.String())
	return err
}

// Live returns an observer that redraws the status table at most once per
// refresh interval of wall time.
func Live(w io.Writer, refresh time.Duration) core.Observer {
	var mu sync.Mutex
	var last time.Time
	return func(now time.Duration, statuses []responses.ProcessStatus) {
		mu.Lock()
		defer mu.Unlock()
		if !last.IsZero() && time.Since(last) < refresh {
			return
		}
		last = time.Now()
		fmt.Fprint(w, clearScreen)
		fmt.Fprintf(w, "t = %.3f s\n", now.Seconds())
		_ = Status(w, statuses)
	}
}
