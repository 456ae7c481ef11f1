package model

import "fmt"

// Complexity controls how many entities a template produces per category.
type Complexity string

// Complexity tiers.
const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// Quality describes the scan quality of a source document.
type Quality string

// Quality tiers.
const (
	QualityHigh   Quality = "high"
	QualityMedium Quality = "medium"
	QualityLow    Quality = "low"
)

// DocumentMetadata describes the synthetic document a dataset was built for.
type DocumentMetadata struct {
	Format      string     `json:"format" yaml:"format"`
	Quality     Quality    `json:"quality" yaml:"quality"`
	Complexity  Complexity `json:"complexity" yaml:"complexity"`
	Currency    string     `json:"currency" yaml:"currency"`
	PageCount   int        `json:"page_count" yaml:"page_count"`
	TextDensity float64    `json:"text_density" yaml:"text_density"`
}

// GroundTruthDataset is the expected output for one document. It is built
// once and never mutated afterwards.
type GroundTruthDataset struct {
	DocumentID            string                  `json:"document_id" yaml:"document_id"`
	TemplateID            string                  `json:"template_id" yaml:"template_id"`
	ProjectStatuses       []ExpectedProjectStatus `json:"project_statuses" yaml:"project_statuses"`
	Risks                 []ExpectedRisk          `json:"risks" yaml:"risks"`
	Financials            []ExpectedFinancial     `json:"financials" yaml:"financials"`
	Milestones            []ExpectedMilestone     `json:"milestones" yaml:"milestones"`
	TeamUpdates           []ExpectedTeamUpdate    `json:"team_updates" yaml:"team_updates"`
	Metadata              DocumentMetadata        `json:"metadata" yaml:"metadata"`
	Seed                  uint32                  `json:"seed" yaml:"seed"`
	TotalExpectedEntities int                     `json:"total_expected_entities" yaml:"total_expected_entities"`
}

// CountEntities recomputes the number of expected entities across all categories.
func (d *GroundTruthDataset) CountEntities() int {
	return len(d.ProjectStatuses) + len(d.Risks) + len(d.Financials) +
		len(d.Milestones) + len(d.TeamUpdates)
}

// CategoryCount returns the number of expected entities in one category.
func (d *GroundTruthDataset) CategoryCount(c Category) int {
	switch c {
	case CategoryProjectStatus:
		return len(d.ProjectStatuses)
	case CategoryRisk:
		return len(d.Risks)
	case CategoryFinancial:
		return len(d.Financials)
	case CategoryMilestone:
		return len(d.Milestones)
	case CategoryTeamUpdate:
		return len(d.TeamUpdates)
	default:
		return 0
	}
}

// Validate ensures the stored total matches the category lists.
func (d *GroundTruthDataset) Validate() error {
	if d.DocumentID == "" {
		return fmt.Errorf("document id is required")
	}
	if got := d.CountEntities(); got != d.TotalExpectedEntities {
		return fmt.Errorf("total expected entities is %d but categories hold %d", d.TotalExpectedEntities, got)
	}
	if d.Metadata.TextDensity < 0 || d.Metadata.TextDensity > 1 {
		return fmt.Errorf("text density must be between 0.0 and 1.0, got %.2f", d.Metadata.TextDensity)
	}
	return nil
}
