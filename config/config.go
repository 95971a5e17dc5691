package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"os-scheduler/internal/requests"
	"os-scheduler/internal/schedulers"
	"os-scheduler/internal/util"
)

type SchedulerConfig struct {
	Port     int
	LogLevel string

	Speed          float64
	TickMs         uint32
	PollIntervalMs uint32

	Workload requests.ScheduleRequests
}

// Options converts the simulation tuning into scheduler options.
func (c *SchedulerConfig) Options() schedulers.Options {
	opts := schedulers.DefaultOptions()
	if c.Speed > 0 {
		opts.Speed = c.Speed
	}
	if c.TickMs > 0 {
		opts.Tick = util.Millis(c.TickMs)
	}
	if c.PollIntervalMs > 0 {
		opts.PollInterval = util.Millis(c.PollIntervalMs)
	}
	return opts
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", 9095)
	v.SetDefault("log_level", "info")
	v.SetDefault("simulation.speed", 1.0)
	v.SetDefault("simulation.tick_ms", 1)
	v.SetDefault("simulation.poll_interval_ms", 10)
	v.SetDefault("scheduler.context_switch_ms", 0)
	v.SetDefault("scheduler.time_slice_ms", 0)
}

// New returns a viper instance reading path. A missing file is tolerated
// when optional is set, so flags and defaults alone can configure a server.
func New(path string, optional bool) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if optional && (errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)) {
			return v, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return v, nil
}

// LoadFile reads a configuration file in any format viper understands.
func LoadFile(path string, requireWorkload bool) (*SchedulerConfig, error) {
	v, err := New(path, false)
	if err != nil {
		return nil, err
	}
	return Load(v, requireWorkload)
}

// Load builds the configuration from an already populated viper instance.
// When requireWorkload is set the scheduler section must be complete and
// valid.
func Load(v *viper.Viper, requireWorkload bool) (*SchedulerConfig, error) {
	SetDefaults(v)

	c := &SchedulerConfig{
		Port:           v.GetInt("port"),
		LogLevel:       v.GetString("log_level"),
		Speed:          v.GetFloat64("simulation.speed"),
		TickMs:         v.GetUint32("simulation.tick_ms"),
		PollIntervalMs: v.GetUint32("simulation.poll_interval_ms"),
	}
	if !requireWorkload && !v.IsSet("scheduler.algorithm") {
		return c, nil
	}

	workload, err := loadWorkload(v)
	if err != nil {
		return nil, err
	}
	if _, err := workload.Validate(); err != nil {
		return nil, err
	}
	c.Workload = workload
	return c, nil
}

func loadWorkload(v *viper.Viper) (requests.ScheduleRequests, error) {
	var w requests.ScheduleRequests

	if !v.IsSet("scheduler.cores") {
		return w, &requests.ConfigError{Field: "scheduler.cores", Err: requests.ErrMissingCores}
	}
	cores, err := cast.ToIntE(v.Get("scheduler.cores"))
	if err != nil {
		return w, &requests.ConfigError{Field: "scheduler.cores", Err: errors.Join(requests.ErrMissingCores, err)}
	}
	w.Cores = cores

	algorithm, err := requests.ParseAlgorithm(v.GetString("scheduler.algorithm"))
	if err != nil {
		return w, &requests.ConfigError{Field: "scheduler.algorithm", Err: err}
	}
	w.Algorithm = algorithm
	w.ContextSwitch = v.GetUint32("scheduler.context_switch_ms")
	w.TimeSlice = v.GetUint32("scheduler.time_slice_ms")

	if err := v.UnmarshalKey("scheduler.processes", &w.Processes); err != nil {
		return w, &requests.ConfigError{Field: "scheduler.processes", Err: err}
	}
	return w, nil
}
