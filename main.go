package main

import (
	"context"
	"encoding/json"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"os-scheduler/api"
	"os-scheduler/config"
	"os-scheduler/internal/log"
	"os-scheduler/internal/render"
	"os-scheduler/internal/schedulers"
)

func main() {
	flags := pflag.NewFlagSet("os-scheduler", pflag.ExitOnError)
	configPath := flags.StringP("config", "c", "config.yaml", "configuration file (yaml, json, toml)")
	serve := flags.Bool("serve", false, "serve the HTTP API instead of running one simulation")
	workloadURL := flags.String("workload-url", "", "fetch the workload as JSON from this URL")
	live := flags.Bool("live", false, "redraw the process table while the simulation runs")
	asJSON := flags.Bool("json", false, "print the final report as JSON")
	flags.Int("port", 9095, "HTTP port for --serve")
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.Float64("speed", 1, "simulated milliseconds per wall millisecond")
	flags.String("algorithm", "", "override the configured algorithm (FCFS, SJF, PP, RR)")
	flags.Int("cores", 0, "override the configured core count")
	_ = flags.Parse(os.Args[1:])

	v, err := config.New(*configPath, *serve || *workloadURL != "")
	if err != nil {
		stdlog.Fatalln(err)
	}
	bind(v, flags)

	cfg, err := config.Load(v, !*serve && *workloadURL == "")
	if err != nil {
		stdlog.Fatalln(err)
	}
	logger := log.BuildLogger(cfg.LogLevel)

	if *serve {
		app := api.NewApp(api.NewSchedulerHandlerImpl(cfg, logger))
		logger.Info("listening", log.IntAttr("port", cfg.Port))
		stdlog.Fatalln(app.Listen(fmt.Sprintf(":%d", cfg.Port)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workload := cfg.Workload
	if *workloadURL != "" {
		workload, err = config.FetchWorkload(ctx, nil, *workloadURL)
		if err != nil {
			stdlog.Fatalln(err)
		}
	}

	opts := cfg.Options()
	opts.Logger = logger
	if *live {
		opts.Observer = render.Live(os.Stdout, 100*time.Millisecond)
	}

	response, err := schedulers.Schedule(ctx, workload, opts)
	if err != nil {
		logger.Error("simulation failed", log.ErrAttr(err))
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(response); err != nil {
			stdlog.Fatalln(err)
		}
		return
	}
	if err := render.Status(os.Stdout, response.Details); err != nil {
		stdlog.Fatalln(err)
	}
	fmt.Println()
	if err := render.Report(os.Stdout, response); err != nil {
		stdlog.Fatalln(err)
	}
}

// bind maps flags onto configuration keys; a flag only wins when set.
func bind(v *viper.Viper, flags *pflag.FlagSet) {
	keys := map[string]string{
		"port":      "port",
		"log-level": "log_level",
		"speed":     "simulation.speed",
		"algorithm": "scheduler.algorithm",
		"cores":     "scheduler.cores",
	}
	for flag, key := range keys {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			stdlog.Fatalln(err)
		}
	}
}
