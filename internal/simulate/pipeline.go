// Package simulate stands in for the external OCR and extraction pipeline.
// It derives extraction results from ground truth with seeded noise so that
// the scorer and monitor can be exercised end to end.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/extractbench/internal/common"
	"github.com/Veraticus/extractbench/internal/groundtruth"
	"github.com/Veraticus/extractbench/internal/model"
	"github.com/Veraticus/extractbench/internal/monitor"
)

// ErrPipelineFailure is returned when a simulated run is made to fail.
var ErrPipelineFailure = errors.New("simulated pipeline failure")

// Config controls how much noise the simulated pipeline adds.
type Config struct {
	// DropRate is the chance an expected entity is not extracted at all.
	DropRate float64 `mapstructure:"drop_rate"`
	// CorruptRate is the chance an extracted entity has a wrong key field.
	CorruptRate float64 `mapstructure:"corrupt_rate"`
	// SpuriousRate is the chance of one invented entity per category.
	SpuriousRate float64 `mapstructure:"spurious_rate"`
	// FailureRate is the chance a whole run fails.
	FailureRate   float64 `mapstructure:"failure_rate"`
	MinConfidence float64 `mapstructure:"min_confidence"`
	MaxConfidence float64 `mapstructure:"max_confidence"`
	// PageDelay is the simulated OCR time per page. Extraction and mapping
	// take a third and a sixth of it.
	PageDelay time.Duration `mapstructure:"page_delay"`
	Seed      uint32        `mapstructure:"seed"`
}

// DefaultConfig returns moderate noise with no delays.
func DefaultConfig() Config {
	return Config{
		DropRate:      0.1,
		CorruptRate:   0.1,
		SpuriousRate:  0.1,
		MinConfidence: 0.55,
		MaxConfidence: 0.99,
	}
}

// Validate rejects rates outside [0,1] and inverted confidence bounds.
func (c Config) Validate() error {
	rates := map[string]float64{
		"drop_rate":      c.DropRate,
		"corrupt_rate":   c.CorruptRate,
		"spurious_rate":  c.SpuriousRate,
		"failure_rate":   c.FailureRate,
		"min_confidence": c.MinConfidence,
		"max_confidence": c.MaxConfidence,
	}
	for name, v := range rates {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s must be between 0 and 1, got %v", common.ErrInvalidConfig, name, v)
		}
	}
	if c.MinConfidence > c.MaxConfidence {
		return fmt.Errorf("%w: min_confidence exceeds max_confidence", common.ErrInvalidConfig)
	}
	if c.PageDelay < 0 {
		return fmt.Errorf("%w: page_delay must not be negative", common.ErrInvalidConfig)
	}
	return nil
}

// Pipeline produces noisy extraction results and reports its stages to a
// monitor.
type Pipeline struct {
	monitor *monitor.Monitor
	cfg     Config
}

// NewPipeline creates a pipeline. A nil monitor disables tracking.
func NewPipeline(cfg Config, m *monitor.Monitor) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg, monitor: m}, nil
}

// Run extracts ds as one tracked operation and returns the result with its
// performance metrics.
func (p *Pipeline) Run(ctx context.Context, ds *model.GroundTruthDataset) (*model.ExtractionResult, model.PerformanceMetrics, error) {
	var perf model.PerformanceMetrics
	run := monitor.Instrument(p.monitor, p.Extract, monitor.InstrumentOptions[*model.GroundTruthDataset, *model.ExtractionResult]{
		DocumentID:   func(ds *model.GroundTruthDataset) string { return ds.DocumentID },
		DocumentType: func(ds *model.GroundTruthDataset) string { return ds.TemplateID },
		EntityCount:  func(r *model.ExtractionResult) int { return r.CountEntities() },
		OnComplete: func(_ *model.GroundTruthDataset, _ *model.ExtractionResult, m model.PerformanceMetrics) {
			perf = m
		},
	})

	result, err := run(ctx, ds)
	return result, perf, err
}

// Extract turns ds into an extraction result, moving through the ocr,
// extraction and mapping stages. The same dataset and seed always yield the
// same result.
func (p *Pipeline) Extract(ctx context.Context, ds *model.GroundTruthDataset) (*model.ExtractionResult, error) {
	if ds == nil {
		return nil, fmt.Errorf("%w: dataset is required", common.ErrInvalidInput)
	}
	rng := groundtruth.NewRandom(noiseSeed(p.cfg.Seed, ds.Seed))
	pages := max(ds.Metadata.PageCount, 1)

	p.monitor.AdvanceStage(ctx, model.StageOCR)
	text, err := groundtruth.RenderDocument(ds)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", ds.DocumentID, err)
	}
	text = degrade(rng, text, ds.Metadata.Quality)
	if err := p.wait(ctx, p.cfg.PageDelay*time.Duration(pages)); err != nil {
		return nil, err
	}

	if rng.Float() < p.cfg.FailureRate {
		return nil, fmt.Errorf("%w: OCR rejected %s", ErrPipelineFailure, ds.DocumentID)
	}

	p.monitor.AdvanceStage(ctx, model.StageExtraction)
	n := noise{rng: rng, cfg: p.cfg}
	result := &model.ExtractionResult{
		DocumentID:      ds.DocumentID,
		RawText:         text,
		ProjectStatuses: n.projectStatuses(ds.ProjectStatuses),
		Risks:           n.risks(ds.Risks),
		Financials:      n.financials(ds.Financials),
		Milestones:      n.milestones(ds.Milestones),
		TeamUpdates:     n.teamUpdates(ds.TeamUpdates),
	}
	if err := p.wait(ctx, p.cfg.PageDelay*time.Duration(pages)/3); err != nil {
		return nil, err
	}

	p.monitor.AdvanceStage(ctx, model.StageMapping)
	if err := p.wait(ctx, p.cfg.PageDelay*time.Duration(pages)/6); err != nil {
		return nil, err
	}

	slog.Debug("Simulated extraction",
		"document_id", ds.DocumentID,
		"expected", ds.TotalExpectedEntities,
		"extracted", result.CountEntities())
	return result, nil
}

func (p *Pipeline) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// noiseSeed combines the pipeline and dataset seeds so that equal seeds do
// not cancel out.
func noiseSeed(pipeline, dataset uint32) uint32 {
	return pipeline*2654435761 ^ dataset
}
