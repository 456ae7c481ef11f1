package groundtruth

import (
	"fmt"
	"sort"

	"github.com/Veraticus/extractbench/internal/common"
	"github.com/Veraticus/extractbench/internal/model"
)

// Template describes a document layout the generator can produce ground
// truth for.
type Template struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Format      string           `json:"format"`
	Quality     model.Quality    `json:"quality"`
	Complexity  model.Complexity `json:"complexity"`
	Currency    string           `json:"currency"`
	Layout      string           `json:"layout"`
	PageCount   int              `json:"page_count"`
	TextDensity float64          `json:"text_density"`
}

var catalog = map[string]Template{
	"steerco-standard": {
		ID:          "steerco-standard",
		Name:        "Standard Steering Committee Report",
		Format:      "pdf",
		Quality:     model.QualityHigh,
		Complexity:  model.ComplexityModerate,
		Currency:    "GBP",
		Layout:      "report",
		PageCount:   4,
		TextDensity: 0.7,
	},
	"steerco-scanned": {
		ID:          "steerco-scanned",
		Name:        "Scanned Steering Committee Pack",
		Format:      "pdf",
		Quality:     model.QualityLow,
		Complexity:  model.ComplexityComplex,
		Currency:    "GBP",
		Layout:      "report",
		PageCount:   6,
		TextDensity: 0.55,
	},
	"status-brief": {
		ID:          "status-brief",
		Name:        "Weekly Status Brief",
		Format:      "docx",
		Quality:     model.QualityHigh,
		Complexity:  model.ComplexitySimple,
		Currency:    "USD",
		Layout:      "brief",
		PageCount:   1,
		TextDensity: 0.4,
	},
	"portfolio-review": {
		ID:          "portfolio-review",
		Name:        "Quarterly Portfolio Review",
		Format:      "pptx",
		Quality:     model.QualityMedium,
		Complexity:  model.ComplexityComplex,
		Currency:    "EUR",
		Layout:      "slides",
		PageCount:   12,
		TextDensity: 0.6,
	},
	"exec-summary": {
		ID:          "exec-summary",
		Name:        "Executive Summary",
		Format:      "pdf",
		Quality:     model.QualityMedium,
		Complexity:  model.ComplexitySimple,
		Currency:    "USD",
		Layout:      "brief",
		PageCount:   2,
		TextDensity: 0.35,
	},
}

// LookupTemplate returns the catalog template with the given id.
func LookupTemplate(id string) (Template, error) {
	t, ok := catalog[id]
	if !ok {
		return Template{}, fmt.Errorf("%w: %q", common.ErrUnknownTemplate, id)
	}
	return t, nil
}

// Templates returns the catalog sorted by id.
func Templates() []Template {
	out := make([]Template, 0, len(catalog))
	for _, t := range catalog {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TemplateIDs returns every catalog id sorted.
func TemplateIDs() []string {
	templates := Templates()
	ids := make([]string, len(templates))
	for i, t := range templates {
		ids[i] = t.ID
	}
	return ids
}

// metadata converts the template into the dataset's document metadata.
func (t Template) metadata() model.DocumentMetadata {
	return model.DocumentMetadata{
		Format:      t.Format,
		Quality:     t.Quality,
		Complexity:  t.Complexity,
		Currency:    t.Currency,
		PageCount:   t.PageCount,
		TextDensity: t.TextDensity,
	}
}
