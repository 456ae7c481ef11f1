// Package groundtruth builds deterministic synthetic ground-truth datasets
// for steering-committee style reports.
package groundtruth

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/Veraticus/extractbench/internal/model"
)

// DefaultSeed is used when no seed option is given.
const DefaultSeed uint32 = 42

// Budget bounds in the document's currency.
const (
	minBudget       = 100_000.0
	budgetSpread    = 1_000_000.0
	maxActualFactor = 1.2
)

var milestoneBaseDate = time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)

var sectionNames = map[model.Category]string{
	model.CategoryProjectStatus: "Project Status",
	model.CategoryRisk:          "Risks and Issues",
	model.CategoryFinancial:     "Financial Summary",
	model.CategoryMilestone:     "Milestones",
	model.CategoryTeamUpdate:    "Team Updates",
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the generator seed.
func WithSeed(seed uint32) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// Generator produces one GroundTruthDataset for a template. Identical
// template, pools and seed always produce identical datasets.
type Generator struct {
	template Template
	pools    Pools
	seed     uint32
}

// NewGenerator creates a generator for a catalog template.
func NewGenerator(templateID string, pools Pools, opts ...Option) (*Generator, error) {
	tmpl, err := LookupTemplate(templateID)
	if err != nil {
		return nil, err
	}

	g := &Generator{
		template: tmpl,
		pools:    pools.WithDefaults(),
		seed:     DefaultSeed,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Template returns the template the generator was built for.
func (g *Generator) Template() Template {
	return g.template
}

// Seed returns the seed in use.
func (g *Generator) Seed() uint32 {
	return g.seed
}

// Generate builds the dataset. Categories draw from one shared random
// source in a fixed order.
func (g *Generator) Generate() *model.GroundTruthDataset {
	rng := NewRandom(g.seed)

	ds := &model.GroundTruthDataset{
		DocumentID: fmt.Sprintf("%s-%08x", g.template.ID, g.seed),
		TemplateID: g.template.ID,
		Seed:       g.seed,
		Metadata:   g.template.metadata(),
	}

	ds.ProjectStatuses = g.projectStatuses(rng)
	ds.Risks = g.risks(rng)
	ds.Financials = g.financials(rng, ds.ProjectStatuses)
	ds.Milestones = g.milestones(rng, ds.ProjectStatuses)
	ds.TeamUpdates = g.teamUpdates(rng)
	ds.TotalExpectedEntities = ds.CountEntities()

	slog.Debug("Generated ground truth dataset",
		"document_id", ds.DocumentID,
		"template", g.template.ID,
		"entities", ds.TotalExpectedEntities)

	return ds
}

// GenerateBatch builds one dataset per template id. Unknown ids are skipped,
// so the result may be shorter than templateIDs. Each dataset uses
// seed+index so documents in a batch differ.
func GenerateBatch(templateIDs []string, pools Pools, seed uint32) []*model.GroundTruthDataset {
	datasets := make([]*model.GroundTruthDataset, 0, len(templateIDs))
	for i, id := range templateIDs {
		g, err := NewGenerator(id, pools, WithSeed(seed+uint32(i)))
		if err != nil {
			slog.Debug("Skipping unknown template", "template", id)
			continue
		}
		datasets = append(datasets, g.Generate())
	}
	return datasets
}

// entityCount decides how many entities to take from a pool of size n.
// Simple documents hold at most limit entities, moderate ones between half
// and all of the pool, complex ones the whole pool.
func (g *Generator) entityCount(rng *Random, n, simpleLimit int) int {
	if n <= 0 {
		return 0
	}
	switch g.template.Complexity {
	case model.ComplexitySimple:
		limit := min(simpleLimit, n)
		return 1 + rng.Intn(limit)
	case model.ComplexityModerate:
		half := (n + 1) / 2
		return half + rng.Intn(n-half+1)
	default:
		return n
	}
}

func (g *Generator) position(rng *Random, c model.Category) model.Position {
	return model.Position{
		Page:    1 + rng.Intn(g.template.PageCount),
		Section: sectionNames[c],
	}
}

func (g *Generator) projectStatuses(rng *Random) []model.ExpectedProjectStatus {
	names := Shuffle(rng, g.pools.ProjectNames)
	count := g.entityCount(rng, len(names), 3)

	statuses := []model.RAGStatus{model.StatusGreen, model.StatusAmber, model.StatusRed}
	out := make([]model.ExpectedProjectStatus, 0, count)
	for _, name := range names[:count] {
		status := Pick(rng, statuses)
		out = append(out, model.ExpectedProjectStatus{
			ProjectName: name,
			Status:      status,
			Reason:      Pick(rng, statusReasons[status]),
			Position:    g.position(rng, model.CategoryProjectStatus),
		})
	}
	return out
}

func (g *Generator) risks(rng *Random) []model.ExpectedRisk {
	descriptions := Shuffle(rng, g.pools.RiskDescriptions)
	count := g.entityCount(rng, len(descriptions), 2)

	levels := []model.Level{model.LevelHigh, model.LevelMedium, model.LevelLow}
	out := make([]model.ExpectedRisk, 0, count)
	for _, desc := range descriptions[:count] {
		out = append(out, model.ExpectedRisk{
			Description: desc,
			Impact:      Pick(rng, levels),
			Probability: Pick(rng, levels),
			Mitigation:  Pick(rng, mitigations),
			Position:    g.position(rng, model.CategoryRisk),
		})
	}
	return out
}

func (g *Generator) financials(rng *Random, projects []model.ExpectedProjectStatus) []model.ExpectedFinancial {
	count := g.entityCount(rng, len(projects), 2)

	out := make([]model.ExpectedFinancial, 0, count)
	for _, p := range projects[:count] {
		budget := math.Round(minBudget + rng.Float()*budgetSpread)
		actual := math.Min(math.Round(budget*rng.Between(0.4, maxActualFactor)), math.Floor(budget*maxActualFactor))
		forecast := math.Round(budget * rng.Between(0.85, 1.15))
		out = append(out, model.ExpectedFinancial{
			ProjectName: p.ProjectName,
			Currency:    g.template.Currency,
			Budget:      budget,
			Actual:      actual,
			Forecast:    forecast,
			Position:    g.position(rng, model.CategoryFinancial),
		})
	}
	return out
}

func (g *Generator) milestones(rng *Random, projects []model.ExpectedProjectStatus) []model.ExpectedMilestone {
	if len(projects) == 0 {
		return []model.ExpectedMilestone{}
	}
	phases := Shuffle(rng, milestonePhases)
	count := g.entityCount(rng, len(phases), 3)

	out := make([]model.ExpectedMilestone, 0, count)
	for _, phase := range phases[:count] {
		due := milestoneBaseDate.AddDate(0, 0, rng.Intn(365))
		out = append(out, model.ExpectedMilestone{
			Name:        phase,
			ProjectName: Pick(rng, projects).ProjectName,
			DueDate:     due.Format("2006-01-02"),
			Status:      Pick(rng, milestoneStatuses),
			Position:    g.position(rng, model.CategoryMilestone),
		})
	}
	return out
}

func (g *Generator) teamUpdates(rng *Random) []model.ExpectedTeamUpdate {
	teams := Shuffle(rng, g.pools.TeamNames)
	count := g.entityCount(rng, len(teams), 2)

	out := make([]model.ExpectedTeamUpdate, 0, count)
	for _, team := range teams[:count] {
		out = append(out, model.ExpectedTeamUpdate{
			TeamName:    team,
			Utilization: float64(50 + rng.Intn(51)),
			Headcount:   3 + rng.Intn(12),
			Update:      Pick(rng, teamUpdates),
			Position:    g.position(rng, model.CategoryTeamUpdate),
		})
	}
	return out
}
