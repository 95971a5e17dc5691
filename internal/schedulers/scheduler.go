package schedulers

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"os-scheduler/internal/core"
	"os-scheduler/internal/log"
	"os-scheduler/internal/requests"
	"os-scheduler/internal/responses"
	"os-scheduler/internal/util"
)

// Options tune how a simulation is run, not what is simulated.
type Options struct {
	// Speed is the number of simulated milliseconds per wall millisecond.
	Speed float64
	// Tick is the simulated increment a CPU runs between checks.
	Tick time.Duration
	// PollInterval is the simulated period of the dispatcher.
	PollInterval time.Duration
	Observer     core.Observer
	Logger       *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Speed:        1,
		Tick:         time.Millisecond,
		PollInterval: 10 * time.Millisecond,
	}
}

// PolicyFor builds the ready queue policy of the request's algorithm.
func PolicyFor(request requests.ScheduleRequests) (core.Policy, error) {
	switch request.Algorithm {
	case requests.FirstComeFirstServe:
		return FirstComeFirstServe{}, nil
	case requests.ShortestJobFirst:
		return ShortestJobFirst{}, nil
	case requests.PreemptivePriority:
		return PreemptivePriority{}, nil
	case requests.RoundRobin:
		return RoundRobin{TimeQuantum: util.Millis(request.TimeSlice)}, nil
	}
	return nil, &requests.ConfigError{
		Field: "algorithm",
		Err:   fmt.Errorf("%w: %q", requests.ErrUnknownAlgorithm, request.Algorithm),
	}
}

// Schedule validates the request and simulates it with one dispatcher and
// one goroutine per core, returning the final report.
func Schedule(ctx context.Context, request requests.ScheduleRequests, opts Options) (responses.ScheduleResponse, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	warnings, err := request.Validate()
	if err != nil {
		return responses.ScheduleResponse{}, err
	}
	for _, w := range warnings {
		logger.Warn("degenerate input", log.StringAttr("warning", string(w)))
	}
	policy, err := PolicyFor(request)
	if err != nil {
		return responses.ScheduleResponse{}, err
	}

	clock := core.NewClock(opts.Speed)
	processes := core.NewProcesses(request.Processes)
	queue := core.NewReadyQueue(policy, clock, logger)

	if request.Cores == 0 {
		return generateResponse(policy.Name(), processes, core.ClockResult{}, nil, warnings), nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, queue.Close)
	defer stop()

	dispatcher := core.NewDispatcher(processes, queue, clock, core.DispatcherOptions{
		PollInterval: opts.PollInterval,
		Observer:     opts.Observer,
		Logger:       logger,
	})
	dispatcher.Prime()

	logger.Info("simulation started",
		log.StringAttr("algorithm", policy.Name()),
		log.IntAttr("cores", request.Cores),
		log.IntAttr("processes", len(processes)),
	)

	var wg sync.WaitGroup
	metrics := make(chan core.CpuMetric, request.Cores)
	wg.Add(request.Cores)
	for i := 0; i < request.Cores; i++ {
		cpu := core.NewCPU(i, queue, policy, core.CPUOptions{
			ContextSwitch: util.Millis(request.ContextSwitch),
			Tick:          opts.Tick,
			Clock:         clock,
			Logger:        logger,
		})
		go cpu.CpuExecute(ctx, &wg, metrics)
	}

	result, runErr := dispatcher.Run(ctx)
	if runErr != nil {
		cancel()
	}
	wg.Wait()
	close(metrics)

	cpuMetrics := make([]core.CpuMetric, 0, request.Cores)
	for m := range metrics {
		cpuMetrics = append(cpuMetrics, m)
	}
	sort.Slice(cpuMetrics, func(i, j int) bool { return cpuMetrics[i].Core < cpuMetrics[j].Core })

	if runErr != nil {
		return responses.ScheduleResponse{}, fmt.Errorf("simulation %s interrupted: %w", policy.Name(), runErr)
	}

	response := generateResponse(policy.Name(), processes, result, cpuMetrics, warnings)
	logger.Info("simulation finished",
		log.StringAttr("algorithm", policy.Name()),
		slog.Float64("total_time", response.TotalTime),
	)
	return response, nil
}

// ScheduleAll runs the same workload under every algorithm, one after the
// other.
func ScheduleAll(ctx context.Context, request requests.ScheduleRequests, opts Options) (map[requests.Algorithm]responses.ScheduleResponse, error) {
	all := make(map[requests.Algorithm]responses.ScheduleResponse, len(requests.Algorithms))
	for _, a := range requests.Algorithms {
		r := request.WithAlgorithm(a)
		if a == requests.RoundRobin && r.TimeSlice == 0 {
			continue
		}
		response, err := Schedule(ctx, r, opts)
		if err != nil {
			return nil, err
		}
		all[a] = response
	}
	return all, nil
}
