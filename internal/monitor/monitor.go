// Package monitor tracks in-flight extraction pipeline operations, samples
// process state on a timer and raises alerts when configured limits are
// crossed.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/Veraticus/extractbench/internal/common"
	"github.com/Veraticus/extractbench/internal/model"
)

// Share of total elapsed time attributed to each stage when no stage
// transition was observed.
const (
	estimatedOCRShare        = 0.7
	estimatedExtractionShare = 0.2
	estimatedMappingShare    = 0.1
)

// stressRatio is the fraction of a limit above which the system counts as
// under stress.
const stressRatio = 0.8

const deliveryTimeout = 30 * time.Second

var stageOrder = []model.Stage{model.StageOCR, model.StageExtraction, model.StageMapping, model.StageComplete}

// OperationContext is the lifecycle record of one in-flight operation.
type OperationContext struct {
	StartTime      time.Time
	stageStarts    map[model.Stage]time.Time
	ID             string
	DocumentID     string
	DocumentType   string
	Stage          model.Stage
	MemoryBaseline uint64
}

// Monitor owns the state of all tracked operations. It is safe for
// concurrent use.
type Monitor struct {
	cfg     *Config
	log     *slog.Logger
	metrics *metrics
	sinks   []Sink

	stopCh     chan struct{}
	done       chan struct{}
	active     map[string]*OperationContext
	queue      []string
	history    []model.PerformanceSnapshot
	deliveries pending

	errorCount      int
	totalOperations int

	mu      sync.Mutex
	running bool
}

// New creates a monitor. A nil cfg uses DefaultConfig.
func New(cfg *Config) (*Monitor, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	m := &Monitor{
		cfg:     cfg,
		log:     cfg.Logger,
		metrics: newMetrics(cfg.Registerer),
		sinks:   buildSinks(cfg),
		active:  make(map[string]*OperationContext),
	}
	m.deliveries.idle.L = &m.deliveries.mu
	return m, nil
}

// Start launches the background sampler. Calling Start on a running monitor
// does nothing.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.done = make(chan struct{})

	go m.sampleLoop(m.stopCh, m.done)
	m.log.Info("Performance monitor started", "interval", m.cfg.SampleInterval)
}

func (m *Monitor) sampleLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(m.cfg.SampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Sample(context.Background())
		case <-stop:
			return
		}
	}
}

// Stop halts the sampler and waits for pending alert deliveries.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if m.running {
		close(m.stopCh)
		done := m.done
		m.running = false
		m.mu.Unlock()
		<-done
		m.log.Info("Performance monitor stopped")
	} else {
		m.mu.Unlock()
	}
	m.Flush()
}

// Flush blocks until no alert delivery is in flight. It may be called while
// the sampler is still emitting.
func (m *Monitor) Flush() {
	m.deliveries.wait()
}

// Reset drops all tracked operations, history and counters. The sampler
// keeps running if it was started.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = make(map[string]*OperationContext)
	m.queue = nil
	m.history = nil
	m.errorCount = 0
	m.totalOperations = 0
	m.metrics.reset()
}

// StartOperation begins tracking an operation in the ocr stage and appends
// it to the queue. System thresholds are checked before returning.
func (m *Monitor) StartOperation(id, documentID, documentType string) error {
	baseline := m.memory(context.Background())
	now := m.cfg.Now()

	m.mu.Lock()
	if _, exists := m.active[id]; exists {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", common.ErrOperationExists, id)
	}
	m.active[id] = &OperationContext{
		ID:             id,
		DocumentID:     documentID,
		DocumentType:   documentType,
		StartTime:      now,
		Stage:          model.StageOCR,
		MemoryBaseline: baseline,
		stageStarts:    map[model.Stage]time.Time{model.StageOCR: now},
	}
	m.queue = append(m.queue, id)
	m.totalOperations++
	snap := m.snapshotLocked(now, baseline)
	m.mu.Unlock()

	m.publish(snap)
	m.log.Debug("Operation started", "operation_id", id, "document_id", documentID, "document_type", documentType)
	m.emit(m.checkSystem(snap)...)
	return nil
}

// UpdateOperationStage moves an operation to stage. Unknown ids are ignored.
func (m *Monitor) UpdateOperationStage(id string, stage model.Stage) {
	now := m.cfg.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	op, ok := m.active[id]
	if !ok {
		return
	}
	op.Stage = stage
	if _, seen := op.stageStarts[stage]; !seen {
		op.stageStarts[stage] = now
	}
}

// CompleteOperation stops tracking an operation and returns its metrics.
// Unknown ids return ErrOperationNotFound.
func (m *Monitor) CompleteOperation(id string, success bool, entityCount int) (model.PerformanceMetrics, error) {
	mem := m.memory(context.Background())
	now := m.cfg.Now()

	m.mu.Lock()
	op, ok := m.active[id]
	if !ok {
		m.mu.Unlock()
		return model.PerformanceMetrics{}, fmt.Errorf("failed to complete %s: %w", id, common.ErrOperationNotFound)
	}
	delete(m.active, id)
	if i := slices.Index(m.queue, id); i >= 0 {
		m.queue = slices.Delete(m.queue, i, i+1)
	}
	if !success {
		m.errorCount++
	}
	snap := m.snapshotLocked(now, mem)
	m.mu.Unlock()

	elapsed := now.Sub(op.StartTime)
	perf := model.PerformanceMetrics{
		ProcessingTime: elapsed,
		StageTimings:   stageTimings(op, now),
		MemoryUsage:    int64(mem) - int64(op.MemoryBaseline), //nolint:gosec // byte counts fit in int64
		EntityCount:    entityCount,
		Success:        success,
	}
	if elapsed > 0 {
		perf.Throughput = float64(entityCount) / elapsed.Seconds()
	}

	status := "success"
	if !success {
		status = "failure"
	}
	m.metrics.operations.WithLabelValues(status).Inc()
	m.metrics.processingSeconds.WithLabelValues(op.DocumentType).Observe(elapsed.Seconds())
	m.publish(snap)

	m.log.Debug("Operation completed",
		"operation_id", id,
		"success", success,
		"entities", entityCount,
		"duration", elapsed)

	alerts := m.checkOperation(id, perf)
	if elapsed <= 0 {
		alerts = slices.DeleteFunc(alerts, func(a model.PerformanceAlert) bool {
			return a.Metric == model.MetricThroughput
		})
	}
	m.emit(alerts...)
	return perf, nil
}

// RecordError completes an operation as failed and raises an error alert
// for it.
func (m *Monitor) RecordError(id string, opErr error) (model.PerformanceMetrics, error) {
	perf, err := m.CompleteOperation(id, false, 0)
	if err != nil {
		return perf, err
	}

	snap := m.CurrentSnapshot(context.Background())
	alert := m.newAlert(model.SeverityError, model.MetricPipelineError,
		fmt.Sprintf("Operation %s failed: %v", id, opErr),
		snap.ErrorRate, m.cfg.Alerts.Thresholds.MaxErrorRate)
	alert.OperationID = id
	m.emit(alert)
	return perf, nil
}

// Sample records a snapshot in the history, prunes snapshots outside the
// history window and checks system thresholds.
func (m *Monitor) Sample(ctx context.Context) model.PerformanceSnapshot {
	mem := m.memory(ctx)
	now := m.cfg.Now()
	cutoff := now.Add(-m.cfg.HistoryWindow)

	m.mu.Lock()
	snap := m.snapshotLocked(now, mem)
	m.history = append(m.history, snap)
	keep := sort.Search(len(m.history), func(i int) bool {
		return !m.history[i].Timestamp.Before(cutoff)
	})
	m.history = slices.Clone(m.history[keep:])
	m.mu.Unlock()

	m.publish(snap)
	m.metrics.memoryBytes.Set(float64(snap.MemoryUsage))
	m.emit(m.checkSystem(snap)...)
	return snap
}

// CurrentSnapshot samples state without recording it.
func (m *Monitor) CurrentSnapshot(ctx context.Context) model.PerformanceSnapshot {
	mem := m.memory(ctx)
	now := m.cfg.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked(now, mem)
}

// History returns a copy of the recorded snapshots, oldest first.
func (m *Monitor) History() []model.PerformanceSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.history)
}

// ActiveOperations returns the number of tracked operations.
func (m *Monitor) ActiveOperations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

// QueueLength returns the number of queued operations.
func (m *Monitor) QueueLength() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Operation returns a copy of a tracked operation.
func (m *Monitor) Operation(id string) (OperationContext, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	op, ok := m.active[id]
	if !ok {
		return OperationContext{}, false
	}
	out := *op
	out.stageStarts = nil
	return out, true
}

// IsSystemUnderStress reports whether memory, queue length or error rate is
// above 80% of its limit.
func (m *Monitor) IsSystemUnderStress(ctx context.Context) bool {
	for _, u := range m.usage(m.CurrentSnapshot(ctx)) {
		if u.ratio > stressRatio {
			return true
		}
	}
	return false
}

// OptimizationRecommendations returns advice for the resources closest to
// their limits.
func (m *Monitor) OptimizationRecommendations(ctx context.Context) []string {
	snap := m.CurrentSnapshot(ctx)
	if snap.ActiveOperations == 0 {
		return []string{"System is idle: consider proactive processing of queued documents"}
	}

	usage := m.usage(snap)
	sort.SliceStable(usage, func(i, j int) bool { return usage[i].ratio > usage[j].ratio })

	var recs []string
	for _, u := range usage {
		if u.ratio < 0.5 {
			break
		}
		recs = append(recs, fmt.Sprintf("%s at %.0f%% of limit: %s", u.label, u.ratio*100, suggestions[u.metric][0]))
	}
	if len(recs) == 0 {
		return []string{"Resource usage is within normal limits"}
	}
	return recs
}

type resourceUsage struct {
	metric string
	label  string
	ratio  float64
}

func (m *Monitor) usage(snap model.PerformanceSnapshot) []resourceUsage {
	t := m.cfg.Alerts.Thresholds
	var out []resourceUsage
	if t.MaxMemoryBytes > 0 {
		out = append(out, resourceUsage{model.MetricMemoryUsage, "Memory", float64(snap.MemoryUsage) / float64(t.MaxMemoryBytes)})
	}
	if t.MaxQueueLength > 0 {
		out = append(out, resourceUsage{model.MetricQueueLength, "Queue", float64(snap.QueueLength) / float64(t.MaxQueueLength)})
	}
	if t.MaxErrorRate > 0 {
		out = append(out, resourceUsage{model.MetricErrorRate, "Error rate", snap.ErrorRate / t.MaxErrorRate})
	}
	return out
}

func (m *Monitor) snapshotLocked(now time.Time, mem uint64) model.PerformanceSnapshot {
	snap := model.PerformanceSnapshot{
		Timestamp:        now,
		MemoryUsage:      mem,
		ActiveOperations: len(m.active),
		QueueLength:      len(m.queue),
	}
	if m.totalOperations > 0 {
		snap.ErrorRate = float64(m.errorCount) / float64(m.totalOperations) * 100
	}
	return snap
}

func (m *Monitor) publish(snap model.PerformanceSnapshot) {
	m.metrics.activeOperations.Set(float64(snap.ActiveOperations))
	m.metrics.queueLength.Set(float64(snap.QueueLength))
	m.metrics.errorRate.Set(snap.ErrorRate)
}

func (m *Monitor) memory(ctx context.Context) uint64 {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.ProbeTimeout)
	defer cancel()
	mem, err := m.cfg.MemoryProbe(ctx)
	if err != nil {
		m.log.Debug("Memory probe failed", "error", err)
		return 0
	}
	return mem
}

// emit hands alerts to every sink without waiting for delivery.
func (m *Monitor) emit(alerts ...model.PerformanceAlert) {
	if !m.cfg.Alerts.Enabled {
		return
	}
	for _, alert := range alerts {
		m.metrics.alerts.WithLabelValues(string(alert.Severity), alert.Metric).Inc()
		for _, sink := range m.sinks {
			m.deliveries.add()
			go m.deliver(sink, alert)
		}
	}
}

func (m *Monitor) deliver(sink Sink, alert model.PerformanceAlert) {
	defer m.deliveries.done()
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("Alert sink panicked", "sink", sink.Name(), "metric", alert.Metric, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()
	if err := sink.Deliver(ctx, alert); err != nil {
		m.log.Warn("Failed to deliver alert", "sink", sink.Name(), "metric", alert.Metric, "error", err)
	}
}

// stageTimings measures time spent per stage from observed transitions, or
// estimates it from fixed shares when neither extraction nor mapping was
// ever entered.
func stageTimings(op *OperationContext, end time.Time) model.StageTimings {
	total := end.Sub(op.StartTime)
	_, sawExtraction := op.stageStarts[model.StageExtraction]
	_, sawMapping := op.stageStarts[model.StageMapping]
	if !sawExtraction && !sawMapping {
		return model.StageTimings{
			OCR:        time.Duration(float64(total) * estimatedOCRShare),
			Extraction: time.Duration(float64(total) * estimatedExtractionShare),
			Mapping:    time.Duration(float64(total) * estimatedMappingShare),
			Estimated:  true,
		}
	}

	spent := make(map[model.Stage]time.Duration, len(stageOrder))
	for i, stage := range stageOrder {
		start, ok := op.stageStarts[stage]
		if !ok {
			continue
		}
		stop := end
		for _, next := range stageOrder[i+1:] {
			if t, seen := op.stageStarts[next]; seen {
				stop = t
				break
			}
		}
		if stop.After(start) {
			spent[stage] = stop.Sub(start)
		}
	}
	return model.StageTimings{
		OCR:        spent[model.StageOCR],
		Extraction: spent[model.StageExtraction],
		Mapping:    spent[model.StageMapping],
	}
}

// pending counts in-flight deliveries. Unlike sync.WaitGroup it allows
// add to race with wait.
type pending struct {
	mu    sync.Mutex
	idle  sync.Cond
	count int
}

func (p *pending) add() {
	p.mu.Lock()
	p.count++
	p.mu.Unlock()
}

func (p *pending) done() {
	p.mu.Lock()
	p.count--
	if p.count == 0 {
		p.idle.Broadcast()
	}
	p.mu.Unlock()
}

func (p *pending) wait() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.count > 0 {
		p.idle.Wait()
	}
}
