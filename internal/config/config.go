// Package config loads application settings from viper and resolves
// user supplied paths.
package config

import (
	"fmt"
	"math"

	"github.com/spf13/viper"

	"github.com/Veraticus/extractbench/internal/common"
	"github.com/Veraticus/extractbench/internal/groundtruth"
	"github.com/Veraticus/extractbench/internal/monitor"
	"github.com/Veraticus/extractbench/internal/simulate"
)

// SetDefaults registers default values for every key the application reads.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	mon := monitor.DefaultConfig()
	v.SetDefault("monitor.enabled", mon.Alerts.Enabled)
	v.SetDefault("monitor.sample_interval", mon.SampleInterval)
	v.SetDefault("monitor.history_window", mon.HistoryWindow)
	v.SetDefault("monitor.probe_timeout", mon.ProbeTimeout)
	v.SetDefault("monitor.channels", []string{string(monitor.ChannelConsole)})
	v.SetDefault("monitor.slack_webhook_url", "")
	v.SetDefault("monitor.thresholds.max_processing_time", mon.Alerts.Thresholds.MaxProcessingTime)
	v.SetDefault("monitor.thresholds.max_memory_bytes", mon.Alerts.Thresholds.MaxMemoryBytes)
	v.SetDefault("monitor.thresholds.max_queue_length", mon.Alerts.Thresholds.MaxQueueLength)
	v.SetDefault("monitor.thresholds.max_error_rate", mon.Alerts.Thresholds.MaxErrorRate)
	v.SetDefault("monitor.thresholds.min_throughput", mon.Alerts.Thresholds.MinThroughput)

	v.SetDefault("generator.seed", groundtruth.DefaultSeed)

	sim := simulate.DefaultConfig()
	v.SetDefault("simulate.drop_rate", sim.DropRate)
	v.SetDefault("simulate.corrupt_rate", sim.CorruptRate)
	v.SetDefault("simulate.spurious_rate", sim.SpuriousRate)
	v.SetDefault("simulate.failure_rate", sim.FailureRate)
	v.SetDefault("simulate.min_confidence", sim.MinConfidence)
	v.SetDefault("simulate.max_confidence", sim.MaxConfidence)
	v.SetDefault("simulate.page_delay", sim.PageDelay)
}

// LoadMonitorConfig builds the monitor configuration. Memory thresholds
// accept sizes such as "512mb".
func LoadMonitorConfig(v *viper.Viper) (*monitor.Config, error) {
	if v == nil {
		v = viper.GetViper()
	}

	cfg := monitor.DefaultConfig()
	cfg.Alerts.Enabled = v.GetBool("monitor.enabled")
	cfg.SampleInterval = v.GetDuration("monitor.sample_interval")
	cfg.HistoryWindow = v.GetDuration("monitor.history_window")
	cfg.ProbeTimeout = v.GetDuration("monitor.probe_timeout")
	cfg.Alerts.SlackWebhookURL = v.GetString("monitor.slack_webhook_url")

	cfg.Alerts.Channels = nil
	for _, ch := range v.GetStringSlice("monitor.channels") {
		cfg.Alerts.Channels = append(cfg.Alerts.Channels, monitor.Channel(ch))
	}

	cfg.Alerts.Thresholds = monitor.Thresholds{
		MaxProcessingTime: v.GetDuration("monitor.thresholds.max_processing_time"),
		MaxMemoryBytes:    uint64(v.GetSizeInBytes("monitor.thresholds.max_memory_bytes")),
		MaxQueueLength:    v.GetInt("monitor.thresholds.max_queue_length"),
		MaxErrorRate:      v.GetFloat64("monitor.thresholds.max_error_rate"),
		MinThroughput:     v.GetFloat64("monitor.thresholds.min_throughput"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to load monitor config: %w", err)
	}
	return cfg, nil
}

// LoadPools reads candidate name pools. Missing pools fall back to the
// built-in defaults.
func LoadPools(v *viper.Viper) groundtruth.Pools {
	if v == nil {
		v = viper.GetViper()
	}
	return groundtruth.Pools{
		ProjectNames:     v.GetStringSlice("generator.project_names"),
		TeamNames:        v.GetStringSlice("generator.team_names"),
		RiskDescriptions: v.GetStringSlice("generator.risk_descriptions"),
	}.WithDefaults()
}

// LoadSeed reads the generator seed.
func LoadSeed(v *viper.Viper) (uint32, error) {
	if v == nil {
		v = viper.GetViper()
	}
	seed := v.GetInt64("generator.seed")
	if seed < 0 || seed > math.MaxUint32 {
		return 0, fmt.Errorf("%w: generator.seed must fit in 32 bits, got %d", common.ErrInvalidConfig, seed)
	}
	return uint32(seed), nil
}

// LoadSimulateConfig reads the simulated pipeline noise settings.
func LoadSimulateConfig(v *viper.Viper) (simulate.Config, error) {
	if v == nil {
		v = viper.GetViper()
	}
	cfg := simulate.Config{
		DropRate:      v.GetFloat64("simulate.drop_rate"),
		CorruptRate:   v.GetFloat64("simulate.corrupt_rate"),
		SpuriousRate:  v.GetFloat64("simulate.spurious_rate"),
		FailureRate:   v.GetFloat64("simulate.failure_rate"),
		MinConfidence: v.GetFloat64("simulate.min_confidence"),
		MaxConfidence: v.GetFloat64("simulate.max_confidence"),
		PageDelay:     v.GetDuration("simulate.page_delay"),
	}
	if err := cfg.Validate(); err != nil {
		return simulate.Config{}, fmt.Errorf("failed to load simulate config: %w", err)
	}
	return cfg, nil
}
