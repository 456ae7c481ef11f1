package model

// Span carries what the extraction pipeline attaches to every entity.
type Span struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// ExtractedProjectStatus is a project status produced by the extraction pipeline.
type ExtractedProjectStatus struct {
	ProjectName string    `json:"project_name"`
	Status      RAGStatus `json:"status"`
	Reason      string    `json:"reason"`
	Span
}

// ExtractedRisk is a risk produced by the extraction pipeline.
type ExtractedRisk struct {
	Description string `json:"description"`
	Impact      Level  `json:"impact"`
	Probability Level  `json:"probability"`
	Mitigation  string `json:"mitigation"`
	Span
}

// ExtractedFinancial is a budget line produced by the extraction pipeline.
// Amounts are pointers because the pipeline may recover only some of them.
type ExtractedFinancial struct {
	Budget      *float64 `json:"budget,omitempty"`
	Actual      *float64 `json:"actual,omitempty"`
	Forecast    *float64 `json:"forecast,omitempty"`
	ProjectName string   `json:"project_name"`
	Currency    string   `json:"currency"`
	Span
}

// ExtractedMilestone is a milestone produced by the extraction pipeline.
type ExtractedMilestone struct {
	Name        string `json:"name"`
	ProjectName string `json:"project_name"`
	DueDate     string `json:"due_date"`
	Status      string `json:"status"`
	Span
}

// ExtractedTeamUpdate is a team update produced by the extraction pipeline.
type ExtractedTeamUpdate struct {
	TeamName    string  `json:"team_name"`
	Update      string  `json:"update"`
	Utilization float64 `json:"utilization"`
	Headcount   int     `json:"headcount"`
	Span
}

// ExtractionResult is the output of the external OCR and extraction pipeline.
// It is consumed as-is.
type ExtractionResult struct {
	DocumentID      string                   `json:"document_id"`
	RawText         string                   `json:"raw_text"`
	ProjectStatuses []ExtractedProjectStatus `json:"project_statuses"`
	Risks           []ExtractedRisk          `json:"risks"`
	Financials      []ExtractedFinancial     `json:"financials"`
	Milestones      []ExtractedMilestone     `json:"milestones"`
	TeamUpdates     []ExtractedTeamUpdate    `json:"team_updates"`
}

// CountEntities returns the number of extracted entities across all categories.
func (r *ExtractionResult) CountEntities() int {
	return len(r.ProjectStatuses) + len(r.Risks) + len(r.Financials) +
		len(r.Milestones) + len(r.TeamUpdates)
}

// Spans returns the span of every extracted entity in category order.
func (r *ExtractionResult) Spans() []Span {
	spans := make([]Span, 0, r.CountEntities())
	for _, e := range r.ProjectStatuses {
		spans = append(spans, e.Span)
	}
	for _, e := range r.Risks {
		spans = append(spans, e.Span)
	}
	for _, e := range r.Financials {
		spans = append(spans, e.Span)
	}
	for _, e := range r.Milestones {
		spans = append(spans, e.Span)
	}
	for _, e := range r.TeamUpdates {
		spans = append(spans, e.Span)
	}
	return spans
}
