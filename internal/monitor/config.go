package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Veraticus/extractbench/internal/common"
	"github.com/Veraticus/extractbench/internal/model"
)

// Channel names an alert delivery target.
type Channel string

// Alert channels.
const (
	ChannelConsole  Channel = "console"
	ChannelCallback Channel = "callback"
	ChannelSlack    Channel = "slack"
)

// Thresholds are the operational limits alerts are raised against. A value
// of zero or less disables that check.
type Thresholds struct {
	MaxProcessingTime time.Duration `mapstructure:"max_processing_time"`
	MaxMemoryBytes    uint64        `mapstructure:"max_memory_bytes"`
	MaxQueueLength    int           `mapstructure:"max_queue_length"`
	MaxErrorRate      float64       `mapstructure:"max_error_rate"`
	MinThroughput     float64       `mapstructure:"min_throughput"`
}

// AlertConfig controls when and where alerts are delivered.
type AlertConfig struct {
	Callback        func(model.PerformanceAlert) `mapstructure:"-"`
	SlackWebhookURL string                       `mapstructure:"slack_webhook_url"`
	Channels        []Channel                    `mapstructure:"channels"`
	Thresholds      Thresholds                   `mapstructure:"thresholds"`
	Enabled         bool                         `mapstructure:"enabled"`
}

// MemoryProbe reports the memory currently used by the process in bytes.
type MemoryProbe func(ctx context.Context) (uint64, error)

// Config holds configuration for the performance monitor.
type Config struct {
	// Registerer receives the monitor's Prometheus collectors. Nil leaves
	// them unregistered.
	Registerer prometheus.Registerer `mapstructure:"-"`
	// MemoryProbe defaults to the process resident set size.
	MemoryProbe MemoryProbe `mapstructure:"-"`
	// Now defaults to time.Now.
	Now    func() time.Time `mapstructure:"-"`
	Logger *slog.Logger     `mapstructure:"-"`

	Alerts AlertConfig `mapstructure:",squash"`

	// SampleInterval is how often the sampler records a snapshot (default: 5s).
	SampleInterval time.Duration `mapstructure:"sample_interval"`
	// HistoryWindow is how long snapshots are kept (default: 1h).
	HistoryWindow time.Duration `mapstructure:"history_window"`
	// ProbeTimeout bounds a single memory probe (default: 2s).
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
}

// DefaultThresholds returns production limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxProcessingTime: 30 * time.Second,
		MaxMemoryBytes:    512 << 20,
		MaxQueueLength:    10,
		MaxErrorRate:      10,
		MinThroughput:     1,
	}
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Alerts: AlertConfig{
			Enabled:    true,
			Thresholds: DefaultThresholds(),
			Channels:   []Channel{ChannelConsole},
		},
		SampleInterval: 5 * time.Second,
		HistoryWindow:  time.Hour,
		ProbeTimeout:   2 * time.Second,
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.SampleInterval < 0 {
		return fmt.Errorf("%w: sample interval must not be negative", common.ErrInvalidConfig)
	}
	if c.HistoryWindow < 0 {
		return fmt.Errorf("%w: history window must not be negative", common.ErrInvalidConfig)
	}
	for _, ch := range c.Alerts.Channels {
		switch ch {
		case ChannelConsole, ChannelCallback, ChannelSlack:
		default:
			return fmt.Errorf("%w: unknown alert channel %q", common.ErrInvalidConfig, ch)
		}
	}
	return nil
}

// withDefaults fills unset fields.
func (c *Config) withDefaults() *Config {
	out := *c
	def := DefaultConfig()
	if out.SampleInterval == 0 {
		out.SampleInterval = def.SampleInterval
	}
	if out.HistoryWindow == 0 {
		out.HistoryWindow = def.HistoryWindow
	}
	if out.ProbeTimeout == 0 {
		out.ProbeTimeout = def.ProbeTimeout
	}
	if out.MemoryProbe == nil {
		out.MemoryProbe = ProcessMemory
	}
	if out.Now == nil {
		out.Now = time.Now
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return &out
}
