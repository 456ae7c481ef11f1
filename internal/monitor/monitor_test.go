package monitor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/extractbench/internal/common"
	"github.com/Veraticus/extractbench/internal/model"
)

type fakeClock struct {
	now time.Time
	mu  sync.Mutex
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recorder struct {
	alerts []model.PerformanceAlert
	mu     sync.Mutex
}

func (r *recorder) record(a model.PerformanceAlert) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, a)
}

func (r *recorder) all() []model.PerformanceAlert {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.PerformanceAlert, len(r.alerts))
	copy(out, r.alerts)
	return out
}

func (r *recorder) byMetric(metric string) []model.PerformanceAlert {
	var out []model.PerformanceAlert
	for _, a := range r.all() {
		if a.Metric == metric {
			out = append(out, a)
		}
	}
	return out
}

type harness struct {
	monitor  *Monitor
	clock    *fakeClock
	registry *prometheus.Registry
	alerts   *recorder
	memory   uint64
}

func newHarness(t *testing.T, thresholds Thresholds, mutate ...func(*Config)) *harness {
	t.Helper()
	h := &harness{
		clock:    newFakeClock(),
		registry: prometheus.NewRegistry(),
		alerts:   &recorder{},
	}

	cfg := &Config{
		Registerer: h.registry,
		MemoryProbe: func(context.Context) (uint64, error) {
			return h.memory, nil
		},
		Now:    h.clock.Now,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Alerts: AlertConfig{
			Enabled:    true,
			Channels:   []Channel{ChannelCallback},
			Callback:   h.alerts.record,
			Thresholds: thresholds,
		},
	}
	for _, fn := range mutate {
		fn(cfg)
	}

	m, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(m.Stop)
	h.monitor = m
	return h
}

func TestMonitorLifecycle(t *testing.T) {
	h := newHarness(t, Thresholds{})
	m := h.monitor

	for _, id := range []string{"op-1", "op-2", "op-3"} {
		require.NoError(t, m.StartOperation(id, "doc-"+id, "steerco-standard"))
	}
	assert.Equal(t, 3, m.ActiveOperations())
	assert.Equal(t, 3, m.QueueLength())

	op, ok := m.Operation("op-2")
	require.True(t, ok)
	assert.Equal(t, model.StageOCR, op.Stage)
	assert.Equal(t, "doc-op-2", op.DocumentID)

	_, err := m.CompleteOperation("op-2", true, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, m.ActiveOperations())
	assert.Equal(t, 2, m.QueueLength())

	_, ok = m.Operation("op-2")
	assert.False(t, ok)

	_, err = m.CompleteOperation("op-2", true, 4)
	require.ErrorIs(t, err, common.ErrOperationNotFound)
	assert.Equal(t, 2, m.ActiveOperations())

	err = m.StartOperation("op-1", "doc", "steerco-standard")
	require.ErrorIs(t, err, common.ErrOperationExists)
	assert.Equal(t, 2, m.QueueLength())
}

func TestUpdateOperationStage(t *testing.T) {
	h := newHarness(t, Thresholds{})
	m := h.monitor

	m.UpdateOperationStage("missing", model.StageMapping)
	assert.Equal(t, 0, m.ActiveOperations())

	require.NoError(t, m.StartOperation("op", "doc", "status-brief"))
	m.UpdateOperationStage("op", model.StageExtraction)
	op, ok := m.Operation("op")
	require.True(t, ok)
	assert.Equal(t, model.StageExtraction, op.Stage)
}

func TestProcessingTimeAlert(t *testing.T) {
	tests := []struct {
		name      string
		elapsed   time.Duration
		wantAlert bool
		severity  model.AlertSeverity
	}{
		{name: "under limit", elapsed: 900 * time.Millisecond},
		{name: "at limit", elapsed: time.Second},
		{name: "slightly over", elapsed: 1200 * time.Millisecond, wantAlert: true, severity: model.SeverityWarning},
		{name: "half again over", elapsed: 1500 * time.Millisecond, wantAlert: true, severity: model.SeverityError},
		{name: "double", elapsed: 2500 * time.Millisecond, wantAlert: true, severity: model.SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, Thresholds{MaxProcessingTime: time.Second})

			require.NoError(t, h.monitor.StartOperation("op", "doc", "steerco-standard"))
			h.clock.Advance(tt.elapsed)
			perf, err := h.monitor.CompleteOperation("op", true, 12)
			require.NoError(t, err)
			h.monitor.Flush()

			assert.Equal(t, tt.elapsed, perf.ProcessingTime)
			alerts := h.alerts.byMetric(model.MetricProcessingTime)
			if !tt.wantAlert {
				assert.Empty(t, alerts)
				return
			}
			require.Len(t, alerts, 1)
			assert.Equal(t, tt.severity, alerts[0].Severity)
			assert.InDelta(t, float64(tt.elapsed.Milliseconds()), alerts[0].CurrentValue, 1e-9)
			assert.InDelta(t, 1000.0, alerts[0].Threshold, 1e-9)
			assert.Equal(t, "op", alerts[0].OperationID)
			assert.NotEmpty(t, alerts[0].Suggestions)
		})
	}
}

func TestThroughput(t *testing.T) {
	h := newHarness(t, Thresholds{MinThroughput: 5})
	m := h.monitor

	require.NoError(t, m.StartOperation("fast", "doc", "status-brief"))
	h.clock.Advance(2 * time.Second)
	perf, err := m.CompleteOperation("fast", true, 20)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, perf.Throughput, 1e-9)

	require.NoError(t, m.StartOperation("slow", "doc", "status-brief"))
	h.clock.Advance(4 * time.Second)
	perf, err = m.CompleteOperation("slow", true, 4)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, perf.Throughput, 1e-9)

	require.NoError(t, m.StartOperation("failed", "doc", "status-brief"))
	h.clock.Advance(4 * time.Second)
	_, err = m.CompleteOperation("failed", false, 0)
	require.NoError(t, err)
	m.Flush()

	alerts := h.alerts.byMetric(model.MetricThroughput)
	require.Len(t, alerts, 1)
	assert.Equal(t, "slow", alerts[0].OperationID)
	assert.Equal(t, model.SeverityCritical, alerts[0].Severity)
}

func TestStageTimings(t *testing.T) {
	t.Run("estimated without transitions", func(t *testing.T) {
		h := newHarness(t, Thresholds{})
		require.NoError(t, h.monitor.StartOperation("op", "doc", "steerco-standard"))
		h.clock.Advance(10 * time.Second)
		perf, err := h.monitor.CompleteOperation("op", true, 1)
		require.NoError(t, err)

		st := perf.StageTimings
		assert.True(t, st.Estimated)
		assert.InDelta(t, float64(7*time.Second), float64(st.OCR), float64(time.Microsecond))
		assert.InDelta(t, float64(2*time.Second), float64(st.Extraction), float64(time.Microsecond))
		assert.InDelta(t, float64(time.Second), float64(st.Mapping), float64(time.Microsecond))
	})

	t.Run("measured from transitions", func(t *testing.T) {
		h := newHarness(t, Thresholds{})
		m := h.monitor
		require.NoError(t, m.StartOperation("op", "doc", "steerco-standard"))
		h.clock.Advance(2 * time.Second)
		m.UpdateOperationStage("op", model.StageExtraction)
		h.clock.Advance(3 * time.Second)
		m.UpdateOperationStage("op", model.StageMapping)
		h.clock.Advance(time.Second)
		perf, err := m.CompleteOperation("op", true, 1)
		require.NoError(t, err)

		assert.Equal(t, model.StageTimings{
			OCR:        2 * time.Second,
			Extraction: 3 * time.Second,
			Mapping:    time.Second,
		}, perf.StageTimings)
	})
}

func TestMemoryDelta(t *testing.T) {
	h := newHarness(t, Thresholds{})
	h.memory = 1000
	require.NoError(t, h.monitor.StartOperation("op", "doc", "steerco-standard"))
	h.memory = 1500
	perf, err := h.monitor.CompleteOperation("op", true, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(500), perf.MemoryUsage)
}

func TestRecordError(t *testing.T) {
	h := newHarness(t, Thresholds{MaxErrorRate: 50})
	m := h.monitor

	require.NoError(t, m.StartOperation("ok", "doc", "status-brief"))
	require.NoError(t, m.StartOperation("bad", "doc", "status-brief"))
	_, err := m.CompleteOperation("ok", true, 3)
	require.NoError(t, err)

	perf, err := m.RecordError("bad", errors.New("ocr engine unavailable"))
	require.NoError(t, err)
	assert.False(t, perf.Success)
	assert.Equal(t, 0, m.ActiveOperations())
	m.Flush()

	alerts := h.alerts.byMetric(model.MetricPipelineError)
	require.Len(t, alerts, 1)
	assert.Equal(t, model.SeverityError, alerts[0].Severity)
	assert.Contains(t, alerts[0].Message, "ocr engine unavailable")
	assert.Equal(t, "bad", alerts[0].OperationID)

	snap := m.CurrentSnapshot(context.Background())
	assert.InDelta(t, 50.0, snap.ErrorRate, 1e-9)

	_, err = m.RecordError("bad", errors.New("again"))
	require.ErrorIs(t, err, common.ErrOperationNotFound)
}

func TestQueueLengthAlert(t *testing.T) {
	h := newHarness(t, Thresholds{MaxQueueLength: 2})
	m := h.monitor

	require.NoError(t, m.StartOperation("a", "doc", "status-brief"))
	require.NoError(t, m.StartOperation("b", "doc", "status-brief"))
	m.Flush()
	assert.Empty(t, h.alerts.byMetric(model.MetricQueueLength))

	require.NoError(t, m.StartOperation("c", "doc", "status-brief"))
	m.Flush()
	alerts := h.alerts.byMetric(model.MetricQueueLength)
	require.Len(t, alerts, 1)
	assert.Equal(t, model.SeverityError, alerts[0].Severity)
	assert.InDelta(t, 3.0, alerts[0].CurrentValue, 1e-9)
}

func TestAlertsDisabled(t *testing.T) {
	h := newHarness(t, Thresholds{MaxQueueLength: 1, MaxProcessingTime: time.Millisecond}, func(c *Config) {
		c.Alerts.Enabled = false
	})
	require.NoError(t, h.monitor.StartOperation("a", "doc", "status-brief"))
	require.NoError(t, h.monitor.StartOperation("b", "doc", "status-brief"))
	h.clock.Advance(time.Second)
	_, err := h.monitor.CompleteOperation("a", true, 1)
	require.NoError(t, err)
	h.monitor.Flush()
	assert.Empty(t, h.alerts.all())
}

func TestPanickingCallbackDoesNotAbortOperation(t *testing.T) {
	h := newHarness(t, Thresholds{MaxProcessingTime: time.Millisecond}, func(c *Config) {
		c.Alerts.Callback = func(model.PerformanceAlert) {
			panic("callback exploded")
		}
	})

	require.NoError(t, h.monitor.StartOperation("op", "doc", "status-brief"))
	h.clock.Advance(time.Second)
	perf, err := h.monitor.CompleteOperation("op", true, 1)
	require.NoError(t, err)
	assert.True(t, perf.Success)
	h.monitor.Flush()
	assert.Equal(t, 0, h.monitor.ActiveOperations())
}

func TestSampleHistory(t *testing.T) {
	h := newHarness(t, Thresholds{}, func(c *Config) {
		c.HistoryWindow = time.Minute
	})
	m := h.monitor
	ctx := context.Background()

	require.NoError(t, m.StartOperation("op", "doc", "status-brief"))
	h.memory = 2048
	first := m.Sample(ctx)
	assert.Equal(t, 1, first.ActiveOperations)
	assert.Equal(t, 1, first.QueueLength)
	assert.Equal(t, uint64(2048), first.MemoryUsage)

	h.clock.Advance(30 * time.Second)
	m.Sample(ctx)
	h.clock.Advance(45 * time.Second)
	last := m.Sample(ctx)

	history := m.History()
	require.Len(t, history, 2)
	assert.Equal(t, last.Timestamp, history[1].Timestamp)
	assert.True(t, history[0].Timestamp.After(first.Timestamp))
}

func TestSamplerRunsUntilStopped(t *testing.T) {
	h := newHarness(t, Thresholds{}, func(c *Config) {
		c.SampleInterval = 5 * time.Millisecond
	})
	m := h.monitor

	m.Start()
	m.Start()
	require.Eventually(t, func() bool {
		return len(m.History()) >= 2
	}, time.Second, 5*time.Millisecond)

	m.Stop()
	n := len(m.History())
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, m.History(), n)
	m.Stop()
}

func TestIsSystemUnderStress(t *testing.T) {
	thresholds := Thresholds{MaxMemoryBytes: 1000, MaxQueueLength: 10, MaxErrorRate: 10}

	tests := []struct {
		name   string
		memory uint64
		ops    int
		want   bool
	}{
		{name: "quiet", memory: 100, ops: 1},
		{name: "queue at 80 percent", memory: 100, ops: 8},
		{name: "queue above 80 percent", memory: 100, ops: 9, want: true},
		{name: "memory above 80 percent", memory: 900, ops: 1, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, thresholds)
			h.memory = tt.memory
			for i := range tt.ops {
				require.NoError(t, h.monitor.StartOperation(string(rune('a'+i)), "doc", "status-brief"))
			}
			assert.Equal(t, tt.want, h.monitor.IsSystemUnderStress(context.Background()))
		})
	}
}

func TestOptimizationRecommendations(t *testing.T) {
	h := newHarness(t, Thresholds{MaxMemoryBytes: 1000, MaxQueueLength: 10, MaxErrorRate: 10})
	m := h.monitor
	ctx := context.Background()

	recs := m.OptimizationRecommendations(ctx)
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "idle")

	require.NoError(t, m.StartOperation("op", "doc", "status-brief"))
	recs = m.OptimizationRecommendations(ctx)
	assert.Equal(t, []string{"Resource usage is within normal limits"}, recs)

	h.memory = 950
	for _, id := range []string{"b", "c", "d", "e", "f"} {
		require.NoError(t, m.StartOperation(id, "doc", "status-brief"))
	}
	recs = m.OptimizationRecommendations(ctx)
	require.Len(t, recs, 2)
	assert.Contains(t, recs[0], "Memory at 95%")
	assert.Contains(t, recs[1], "Queue at 60%")
}

func TestReset(t *testing.T) {
	h := newHarness(t, Thresholds{})
	m := h.monitor

	require.NoError(t, m.StartOperation("a", "doc", "status-brief"))
	require.NoError(t, m.StartOperation("b", "doc", "status-brief"))
	_, err := m.RecordError("b", errors.New("boom"))
	require.NoError(t, err)
	m.Sample(context.Background())

	m.Reset()
	assert.Equal(t, 0, m.ActiveOperations())
	assert.Equal(t, 0, m.QueueLength())
	assert.Empty(t, m.History())
	assert.Zero(t, m.CurrentSnapshot(context.Background()).ErrorRate)
	assert.InDelta(t, 0.0, testutil.ToFloat64(m.metrics.activeOperations), 1e-9)
}

func TestPrometheusMetrics(t *testing.T) {
	h := newHarness(t, Thresholds{MaxProcessingTime: time.Second})
	m := h.monitor

	require.NoError(t, m.StartOperation("a", "doc", "steerco-standard"))
	require.NoError(t, m.StartOperation("b", "doc", "steerco-standard"))
	assert.InDelta(t, 2.0, testutil.ToFloat64(m.metrics.activeOperations), 1e-9)
	assert.InDelta(t, 2.0, testutil.ToFloat64(m.metrics.queueLength), 1e-9)

	h.clock.Advance(3 * time.Second)
	_, err := m.CompleteOperation("a", true, 5)
	require.NoError(t, err)
	_, err = m.CompleteOperation("b", false, 0)
	require.NoError(t, err)
	m.Flush()

	assert.InDelta(t, 1.0, testutil.ToFloat64(m.metrics.operations.WithLabelValues("success")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.metrics.operations.WithLabelValues("failure")), 1e-9)
	assert.InDelta(t, 0.0, testutil.ToFloat64(m.metrics.activeOperations), 1e-9)
	assert.InDelta(t, 50.0, testutil.ToFloat64(m.metrics.errorRate), 1e-9)
	assert.InDelta(t, 2.0, testutil.ToFloat64(m.metrics.alerts.WithLabelValues("critical", model.MetricProcessingTime)), 1e-9)
	assert.Equal(t, 1, testutil.CollectAndCount(m.metrics.processingSeconds))

	count, err := testutil.GatherAndCount(h.registry, "extractbench_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "negative interval", mutate: func(c *Config) { c.SampleInterval = -time.Second }, wantErr: true},
		{name: "negative window", mutate: func(c *Config) { c.HistoryWindow = -time.Second }, wantErr: true},
		{name: "unknown channel", mutate: func(c *Config) { c.Alerts.Channels = []Channel{"pager"} }, wantErr: true},
		{name: "all channels", mutate: func(c *Config) {
			c.Alerts.Channels = []Channel{ChannelConsole, ChannelCallback, ChannelSlack}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
		})
	}

	_, err := New(&Config{Alerts: AlertConfig{Channels: []Channel{"pager"}}})
	require.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestNewWithNilConfig(t *testing.T) {
	m, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, m.cfg.SampleInterval)
	assert.Equal(t, time.Hour, m.cfg.HistoryWindow)
	require.Len(t, m.sinks, 1)
	assert.Equal(t, "console", m.sinks[0].Name())
}

func TestSeverityFor(t *testing.T) {
	tests := []struct {
		ratio float64
		want  model.AlertSeverity
	}{
		{1.01, model.SeverityWarning},
		{1.49, model.SeverityWarning},
		{1.5, model.SeverityError},
		{1.99, model.SeverityError},
		{2, model.SeverityCritical},
		{10, model.SeverityCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, severityFor(tt.ratio), "ratio %v", tt.ratio)
	}
}

func TestFlushDuringEmission(t *testing.T) {
	h := newHarness(t, Thresholds{})
	m := h.monitor

	const emitters, perEmitter = 20, 50
	var emitting, flushing sync.WaitGroup
	stop := make(chan struct{})

	for range 4 {
		flushing.Add(1)
		go func() {
			defer flushing.Done()
			for {
				select {
				case <-stop:
					return
				default:
					m.Flush()
				}
			}
		}()
	}
	for range emitters {
		emitting.Add(1)
		go func() {
			defer emitting.Done()
			for range perEmitter {
				m.emit(testAlert())
			}
		}()
	}

	emitting.Wait()
	close(stop)
	flushing.Wait()
	m.Flush()

	assert.Len(t, h.alerts.all(), emitters*perEmitter)
}

func TestFlushWithNothingPending(t *testing.T) {
	h := newHarness(t, Thresholds{})
	done := make(chan struct{})
	go func() {
		h.monitor.Flush()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Flush blocked with no deliveries in flight")
	}
}
