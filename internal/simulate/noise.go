package simulate

import (
	"fmt"
	"strings"

	"github.com/Veraticus/extractbench/internal/groundtruth"
	"github.com/Veraticus/extractbench/internal/model"
)

// corruptedConfidence scales the confidence of entities with a wrong field.
const corruptedConfidence = 0.6

type noise struct {
	rng *groundtruth.Random
	cfg Config
}

func (n noise) drop() bool    { return n.rng.Float() < n.cfg.DropRate }
func (n noise) corrupt() bool { return n.rng.Float() < n.cfg.CorruptRate }
func (n noise) invent() bool  { return n.rng.Float() < n.cfg.SpuriousRate }

func (n noise) span(text string, corrupted bool) model.Span {
	c := n.rng.Between(n.cfg.MinConfidence, n.cfg.MaxConfidence)
	if corrupted {
		c *= corruptedConfidence
	}
	return model.Span{Text: text, Confidence: c}
}

func (n noise) projectStatuses(expected []model.ExpectedProjectStatus) []model.ExtractedProjectStatus {
	out := make([]model.ExtractedProjectStatus, 0, len(expected))
	for _, e := range expected {
		if n.drop() {
			continue
		}
		status, bad := e.Status, n.corrupt()
		if bad {
			status = otherStatus(status)
		}
		out = append(out, model.ExtractedProjectStatus{
			ProjectName: e.ProjectName,
			Status:      status,
			Reason:      e.Reason,
			Span:        n.span(fmt.Sprintf("%s: %s", e.ProjectName, strings.ToUpper(string(status))), bad),
		})
	}
	if n.invent() {
		out = append(out, model.ExtractedProjectStatus{
			ProjectName: "Unlisted Initiative",
			Status:      model.StatusAmber,
			Span:        n.span("Unlisted Initiative: AMBER", true),
		})
	}
	return out
}

func (n noise) risks(expected []model.ExpectedRisk) []model.ExtractedRisk {
	out := make([]model.ExtractedRisk, 0, len(expected))
	for _, e := range expected {
		if n.drop() {
			continue
		}
		impact, bad := e.Impact, n.corrupt()
		if bad {
			impact = otherLevel(impact)
		}
		out = append(out, model.ExtractedRisk{
			Description: e.Description,
			Impact:      impact,
			Probability: e.Probability,
			Mitigation:  e.Mitigation,
			Span:        n.span(e.Description, bad),
		})
	}
	if n.invent() {
		out = append(out, model.ExtractedRisk{
			Description: "Page footer misread as a risk entry",
			Impact:      model.LevelLow,
			Probability: model.LevelLow,
			Span:        n.span("Confidential", true),
		})
	}
	return out
}

func (n noise) financials(expected []model.ExpectedFinancial) []model.ExtractedFinancial {
	out := make([]model.ExtractedFinancial, 0, len(expected))
	for _, e := range expected {
		if n.drop() {
			continue
		}
		scale, bad := 1.0, n.corrupt()
		if bad {
			scale = 1.5
		}
		budget, actual, forecast := e.Budget*scale, e.Actual*scale, e.Forecast*scale
		f := model.ExtractedFinancial{
			ProjectName: e.ProjectName,
			Currency:    e.Currency,
			Budget:      &budget,
			Actual:      &actual,
			Span:        n.span(fmt.Sprintf("%s budget %.0f actual %.0f", e.ProjectName, budget, actual), bad),
		}
		// Forecast columns are often cut off in scans.
		if n.rng.Float() >= 0.3 {
			f.Forecast = &forecast
		}
		out = append(out, f)
	}
	if n.invent() {
		total := 0.0
		for _, e := range expected {
			total += e.Budget
		}
		out = append(out, model.ExtractedFinancial{
			ProjectName: "Portfolio Total",
			Budget:      &total,
			Span:        n.span(fmt.Sprintf("Total %.0f", total), true),
		})
	}
	return out
}

func (n noise) milestones(expected []model.ExpectedMilestone) []model.ExtractedMilestone {
	out := make([]model.ExtractedMilestone, 0, len(expected))
	for _, e := range expected {
		if n.drop() {
			continue
		}
		project, bad := e.ProjectName, n.corrupt()
		if bad {
			project = "Unassigned"
		}
		out = append(out, model.ExtractedMilestone{
			Name:        e.Name,
			ProjectName: project,
			DueDate:     e.DueDate,
			Status:      e.Status,
			Span:        n.span(fmt.Sprintf("%s %s", e.Name, e.DueDate), bad),
		})
	}
	if n.invent() {
		out = append(out, model.ExtractedMilestone{
			Name:        "Next Steering Committee",
			ProjectName: "Unassigned",
			Span:        n.span("Next SteerCo", true),
		})
	}
	return out
}

func (n noise) teamUpdates(expected []model.ExpectedTeamUpdate) []model.ExtractedTeamUpdate {
	out := make([]model.ExtractedTeamUpdate, 0, len(expected))
	for _, e := range expected {
		if n.drop() {
			continue
		}
		utilization, bad := e.Utilization, n.corrupt()
		if bad {
			utilization += 15
		}
		out = append(out, model.ExtractedTeamUpdate{
			TeamName:    e.TeamName,
			Update:      e.Update,
			Utilization: utilization,
			Headcount:   e.Headcount,
			Span:        n.span(fmt.Sprintf("%s %.0f%%", e.TeamName, utilization), bad),
		})
	}
	if n.invent() {
		out = append(out, model.ExtractedTeamUpdate{
			TeamName:    "Contractors",
			Utilization: 100,
			Span:        n.span("Contractors 100%", true),
		})
	}
	return out
}

func otherStatus(s model.RAGStatus) model.RAGStatus {
	switch s {
	case model.StatusGreen:
		return model.StatusAmber
	case model.StatusAmber:
		return model.StatusRed
	default:
		return model.StatusGreen
	}
}

func otherLevel(l model.Level) model.Level {
	switch l {
	case model.LevelHigh:
		return model.LevelMedium
	case model.LevelMedium:
		return model.LevelLow
	default:
		return model.LevelHigh
	}
}

// scanArtifacts are inserted into low quality scans. Each one trips a
// different noise heuristic of the scorer.
var scanArtifacts = []string{"Il|lI|", "~¬", "      ", "CONFIDENTIALDRAFTCOPYONLY"}

// degrade adds scan artifacts to text according to document quality.
func degrade(rng *groundtruth.Random, text string, q model.Quality) string {
	var count int
	switch q {
	case model.QualityLow:
		count = len(scanArtifacts)
	case model.QualityMedium:
		count = 1
	default:
		return text
	}

	lines := strings.Split(text, "\n")
	for _, artifact := range groundtruth.Shuffle(rng, scanArtifacts)[:count] {
		i := rng.Intn(len(lines))
		lines[i] += " " + artifact
	}
	return strings.Join(lines, "\n")
}

// Perfect returns an extraction result that reproduces ds exactly with full
// confidence.
func Perfect(ds *model.GroundTruthDataset) *model.ExtractionResult {
	text, err := groundtruth.RenderDocument(ds)
	if err != nil {
		text = ""
	}
	r := &model.ExtractionResult{DocumentID: ds.DocumentID, RawText: text}
	full := func(s string) model.Span { return model.Span{Text: s, Confidence: 1} }

	for _, e := range ds.ProjectStatuses {
		r.ProjectStatuses = append(r.ProjectStatuses, model.ExtractedProjectStatus{
			ProjectName: e.ProjectName, Status: e.Status, Reason: e.Reason,
			Span: full(fmt.Sprintf("%s: %s", e.ProjectName, strings.ToUpper(string(e.Status)))),
		})
	}
	for _, e := range ds.Risks {
		r.Risks = append(r.Risks, model.ExtractedRisk{
			Description: e.Description, Impact: e.Impact, Probability: e.Probability, Mitigation: e.Mitigation,
			Span: full(e.Description),
		})
	}
	for _, e := range ds.Financials {
		budget, actual, forecast := e.Budget, e.Actual, e.Forecast
		r.Financials = append(r.Financials, model.ExtractedFinancial{
			ProjectName: e.ProjectName, Currency: e.Currency,
			Budget: &budget, Actual: &actual, Forecast: &forecast,
			Span: full(fmt.Sprintf("%s budget %.0f", e.ProjectName, budget)),
		})
	}
	for _, e := range ds.Milestones {
		r.Milestones = append(r.Milestones, model.ExtractedMilestone{
			Name: e.Name, ProjectName: e.ProjectName, DueDate: e.DueDate, Status: e.Status,
			Span: full(fmt.Sprintf("%s %s", e.Name, e.DueDate)),
		})
	}
	for _, e := range ds.TeamUpdates {
		r.TeamUpdates = append(r.TeamUpdates, model.ExtractedTeamUpdate{
			TeamName: e.TeamName, Update: e.Update, Utilization: e.Utilization, Headcount: e.Headcount,
			Span: full(fmt.Sprintf("%s %.0f%%", e.TeamName, e.Utilization)),
		})
	}
	return r
}
