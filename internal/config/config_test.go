package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/extractbench/internal/common"
	"github.com/Veraticus/extractbench/internal/groundtruth"
	"github.com/Veraticus/extractbench/internal/monitor"
	"github.com/Veraticus/extractbench/internal/simulate"
)

func newViper(t *testing.T, yaml string) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	if yaml != "" {
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(strings.NewReader(yaml)))
	}
	return v
}

func TestLoadMonitorConfigDefaults(t *testing.T) {
	cfg, err := LoadMonitorConfig(newViper(t, ""))
	require.NoError(t, err)

	def := monitor.DefaultConfig()
	assert.Equal(t, def.Alerts.Thresholds, cfg.Alerts.Thresholds)
	assert.Equal(t, def.SampleInterval, cfg.SampleInterval)
	assert.Equal(t, def.HistoryWindow, cfg.HistoryWindow)
	assert.True(t, cfg.Alerts.Enabled)
	assert.Equal(t, []monitor.Channel{monitor.ChannelConsole}, cfg.Alerts.Channels)
}

func TestLoadMonitorConfigFromFile(t *testing.T) {
	v := newViper(t, `
monitor:
  enabled: false
  sample_interval: 10s
  history_window: 30m
  channels: [console, slack]
  slack_webhook_url: https://hooks.slack.com/services/T000/B000/XXXX
  thresholds:
    max_processing_time: 45s
    max_memory_bytes: 1gb
    max_queue_length: 25
    max_error_rate: 2.5
    min_throughput: 0
`)

	cfg, err := LoadMonitorConfig(v)
	require.NoError(t, err)
	assert.False(t, cfg.Alerts.Enabled)
	assert.Equal(t, 10*time.Second, cfg.SampleInterval)
	assert.Equal(t, 30*time.Minute, cfg.HistoryWindow)
	assert.Equal(t, []monitor.Channel{monitor.ChannelConsole, monitor.ChannelSlack}, cfg.Alerts.Channels)
	assert.Equal(t, "https://hooks.slack.com/services/T000/B000/XXXX", cfg.Alerts.SlackWebhookURL)
	assert.Equal(t, monitor.Thresholds{
		MaxProcessingTime: 45 * time.Second,
		MaxMemoryBytes:    1 << 30,
		MaxQueueLength:    25,
		MaxErrorRate:      2.5,
	}, cfg.Alerts.Thresholds)
}

func TestLoadMonitorConfigRejectsUnknownChannel(t *testing.T) {
	v := newViper(t, "")
	v.Set("monitor.channels", []string{"pager"})
	_, err := LoadMonitorConfig(v)
	require.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestLoadPools(t *testing.T) {
	assert.Equal(t, groundtruth.Pools{}.WithDefaults(), LoadPools(newViper(t, "")))

	v := newViper(t, `
generator:
  project_names: [Atlas, Beacon]
  team_names: [Platform]
`)
	pools := LoadPools(v)
	assert.Equal(t, []string{"Atlas", "Beacon"}, pools.ProjectNames)
	assert.Equal(t, []string{"Platform"}, pools.TeamNames)
	assert.Equal(t, groundtruth.DefaultRiskDescriptions, pools.RiskDescriptions)
}

func TestLoadSeed(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    uint32
		wantErr bool
	}{
		{name: "default", want: groundtruth.DefaultSeed},
		{name: "explicit", value: 7, want: 7},
		{name: "max", value: int64(4294967295), want: 4294967295},
		{name: "negative", value: -1, wantErr: true},
		{name: "too large", value: int64(1) << 33, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper(t, "")
			if tt.value != nil {
				v.Set("generator.seed", tt.value)
			}
			seed, err := LoadSeed(v)
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, seed)
		})
	}
}

func TestLoadSimulateConfig(t *testing.T) {
	cfg, err := LoadSimulateConfig(newViper(t, ""))
	require.NoError(t, err)
	assert.Equal(t, simulate.DefaultConfig(), cfg)

	v := newViper(t, `
simulate:
  drop_rate: 0.3
  page_delay: 50ms
`)
	cfg, err = LoadSimulateConfig(v)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, cfg.DropRate, 1e-9)
	assert.Equal(t, 50*time.Millisecond, cfg.PageDelay)

	v.Set("simulate.failure_rate", 2)
	_, err = LoadSimulateConfig(v)
	require.ErrorIs(t, err, common.ErrInvalidConfig)
}
