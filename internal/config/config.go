// Package config contains all knobs and defaults used to configure livelist
// when running from the command line.
package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/livelist/livelist/pkg/paging"
)

const (
	DefaultLogFormat = "text"
	DefaultLogLevel  = "info"

	DefaultReaders       = 4
	DefaultMessages      = 200
	DefaultPageSize      = 25
	DefaultPages         = 10
	DefaultWriteInterval = 50 * time.Millisecond
	DefaultDuration      = 5 * time.Second

	DefaultMetricsAddr = "0.0.0.0:2112"

	DefaultTraceEndpoint    = "0.0.0.0:4317"
	DefaultTraceSampleRatio = 0.2
)

// LogConfig defines logging settings.
type LogConfig struct {
	// Format is the log format, either 'text' or 'json'.
	Format string

	// Level is the minimum level logged, one of 'none', 'debug', 'info',
	// 'warn' or 'error'.
	Level string
}

// PagingConfig defines the settings of the request coordinator.
type PagingConfig struct {
	// GraceWindow is how long an append answered with None waits for new
	// items arriving at the top of the list.
	GraceWindow time.Duration
}

// SimulationConfig defines the workload of the simulate command.
type SimulationConfig struct {
	// Readers is the number of users paging through their inbox concurrently.
	Readers int

	// Messages is the number of messages seeded before the readers start.
	Messages int

	// PageSize is the number of messages loaded per page.
	PageSize int

	// Pages is the number of pages each reader loads per pass.
	Pages int

	// WriteInterval is the time between two writes of the simulated writer.
	// Zero disables the writer.
	WriteInterval time.Duration

	// FailEvery makes every n-th write also fail the next page load. Zero
	// disables failure injection.
	FailEvery int

	// Duration bounds the simulation.
	Duration time.Duration
}

type MetricsConfig struct {
	// Enabled serves Prometheus metrics on Addr.
	Enabled bool
	Addr    string
}

type TraceConfig struct {
	Enabled     bool
	OTLP        OTLPTraceConfig `mapstructure:"otlp"`
	SampleRatio float64
	ServiceName string
}

type OTLPTraceConfig struct {
	Endpoint string
	TLS      OTLPTraceTLSConfig
}

type OTLPTraceTLSConfig struct {
	Enabled bool
}

type Config struct {
	Log        LogConfig
	Paging     PagingConfig
	Simulation SimulationConfig
	Metrics    MetricsConfig
	Trace      TraceConfig
}

// Verify checks the configuration for invalid values.
func (cfg *Config) Verify() error {
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("config 'log.format' must be one of ['text', 'json']")
	}

	if cfg.Log.Level != "none" &&
		cfg.Log.Level != "debug" &&
		cfg.Log.Level != "info" &&
		cfg.Log.Level != "warn" &&
		cfg.Log.Level != "error" {
		return fmt.Errorf(
			"config 'log.level' must be one of ['none', 'debug', 'info', 'warn', 'error']",
		)
	}

	if cfg.Paging.GraceWindow <= 0 {
		return fmt.Errorf("config 'paging.graceWindow' (%s) must be positive", cfg.Paging.GraceWindow)
	}

	sim := cfg.Simulation
	if sim.Readers < 1 {
		return errors.New("config 'simulation.readers' must be at least 1")
	}
	if sim.Messages < 0 {
		return errors.New("config 'simulation.messages' cannot be negative")
	}
	if sim.PageSize < 1 {
		return errors.New("config 'simulation.pageSize' must be at least 1")
	}
	if sim.Pages < 1 {
		return errors.New("config 'simulation.pages' must be at least 1")
	}
	if sim.WriteInterval < 0 {
		return errors.New("config 'simulation.writeInterval' cannot be negative")
	}
	if sim.FailEvery < 0 {
		return errors.New("config 'simulation.failEvery' cannot be negative")
	}
	if sim.Duration <= 0 {
		return fmt.Errorf("config 'simulation.duration' (%s) must be positive", sim.Duration)
	}

	if cfg.Metrics.Enabled {
		if _, _, err := net.SplitHostPort(cfg.Metrics.Addr); err != nil {
			return fmt.Errorf("config 'metrics.addr' (%s) is not a valid host:port: %w", cfg.Metrics.Addr, err)
		}
	}

	if cfg.Trace.Enabled {
		if cfg.Trace.SampleRatio < 0 || cfg.Trace.SampleRatio > 1 {
			return fmt.Errorf("config 'trace.sampleRatio' (%v) must be within [0, 1]", cfg.Trace.SampleRatio)
		}
		if cfg.Trace.OTLP.Endpoint == "" {
			return errors.New("config 'trace.otlp.endpoint' is required when tracing is enabled")
		}
	}

	return nil
}

// DefaultConfig returns the default livelist configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Format: DefaultLogFormat,
			Level:  DefaultLogLevel,
		},
		Paging: PagingConfig{
			GraceWindow: paging.DefaultGraceWindow,
		},
		Simulation: SimulationConfig{
			Readers:       DefaultReaders,
			Messages:      DefaultMessages,
			PageSize:      DefaultPageSize,
			Pages:         DefaultPages,
			WriteInterval: DefaultWriteInterval,
			Duration:      DefaultDuration,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    DefaultMetricsAddr,
		},
		Trace: TraceConfig{
			Enabled: false,
			OTLP: OTLPTraceConfig{
				Endpoint: DefaultTraceEndpoint,
			},
			SampleRatio: DefaultTraceSampleRatio,
			ServiceName: "livelist",
		},
	}
}
