package groundtruth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/extractbench/internal/common"
	"github.com/Veraticus/extractbench/internal/model"
)

func generate(t *testing.T, templateID string, pools Pools, seed uint32) *model.GroundTruthDataset {
	t.Helper()
	g, err := NewGenerator(templateID, pools, WithSeed(seed))
	require.NoError(t, err)
	return g.Generate()
}

func TestGenerator_Deterministic(t *testing.T) {
	for _, id := range TemplateIDs() {
		for _, seed := range []uint32{0, 1, 42, 9999, 4294967295} {
			a := generate(t, id, Pools{}, seed)
			b := generate(t, id, Pools{}, seed)
			assert.Equal(t, a, b, "template %s seed %d", id, seed)

			fa, err := Fingerprint(a)
			require.NoError(t, err)
			fb, err := Fingerprint(b)
			require.NoError(t, err)
			assert.Equal(t, fa, fb)
		}
	}
}

func TestGenerator_SeedChangesOutput(t *testing.T) {
	for _, id := range TemplateIDs() {
		a := generate(t, id, Pools{}, 100)
		b := generate(t, id, Pools{}, 101)

		fa, err := Fingerprint(a)
		require.NoError(t, err)
		fb, err := Fingerprint(b)
		require.NoError(t, err)
		assert.NotEqual(t, fa, fb, "template %s", id)
		assert.NotEqual(t, a.ProjectStatuses, b.ProjectStatuses, "template %s", id)
	}
}

func TestGenerator_CountInvariant(t *testing.T) {
	for _, id := range TemplateIDs() {
		for seed := uint32(0); seed < 50; seed++ {
			ds := generate(t, id, Pools{}, seed)
			assert.Equal(t, ds.CountEntities(), ds.TotalExpectedEntities)
			assert.NoError(t, ds.Validate())
		}
	}
}

func TestGenerator_ComplexityLimits(t *testing.T) {
	for seed := uint32(0); seed < 50; seed++ {
		simple := generate(t, "status-brief", Pools{}, seed)
		assert.LessOrEqual(t, len(simple.ProjectStatuses), 3)
		assert.GreaterOrEqual(t, len(simple.ProjectStatuses), 1)

		complex := generate(t, "portfolio-review", Pools{}, seed)
		assert.Len(t, complex.ProjectStatuses, len(DefaultProjectNames))
		assert.Len(t, complex.TeamUpdates, len(DefaultTeamNames))

		moderate := generate(t, "steerco-standard", Pools{}, seed)
		assert.GreaterOrEqual(t, len(moderate.ProjectStatuses), len(DefaultProjectNames)/2)
		assert.LessOrEqual(t, len(moderate.ProjectStatuses), len(DefaultProjectNames))
	}
}

func TestGenerator_FinancialBounds(t *testing.T) {
	for seed := uint32(0); seed < 100; seed++ {
		ds := generate(t, "steerco-scanned", Pools{}, seed)
		for _, f := range ds.Financials {
			assert.GreaterOrEqual(t, f.Budget, 100_000.0)
			assert.LessOrEqual(t, f.Budget, 1_100_000.0)
			assert.LessOrEqual(t, f.Actual, f.Budget*1.2)
			assert.Equal(t, "GBP", f.Currency)
		}
	}
}

func TestGenerator_UsesSuppliedPools(t *testing.T) {
	pools := Pools{
		ProjectNames:     []string{"Apollo", "Gemini"},
		TeamNames:        []string{"Blue Team"},
		RiskDescriptions: []string{"Launch window slips"},
	}
	ds := generate(t, "portfolio-review", pools, 5)

	require.Len(t, ds.ProjectStatuses, 2)
	names := []string{ds.ProjectStatuses[0].ProjectName, ds.ProjectStatuses[1].ProjectName}
	assert.ElementsMatch(t, []string{"Apollo", "Gemini"}, names)
	require.Len(t, ds.TeamUpdates, 1)
	assert.Equal(t, "Blue Team", ds.TeamUpdates[0].TeamName)
	require.Len(t, ds.Risks, 1)
	assert.Equal(t, "Launch window slips", ds.Risks[0].Description)
}

func TestGenerator_DefaultSeed(t *testing.T) {
	g, err := NewGenerator("exec-summary", Pools{})
	require.NoError(t, err)
	assert.Equal(t, DefaultSeed, g.Seed())

	ds := g.Generate()
	assert.NoError(t, ds.Validate())
	assert.Equal(t, "exec-summary-0000002a", ds.DocumentID)
}

func TestNewGenerator_UnknownTemplate(t *testing.T) {
	_, err := NewGenerator("nope", Pools{})
	assert.ErrorIs(t, err, common.ErrUnknownTemplate)
}

func TestGenerateBatch_SkipsUnknown(t *testing.T) {
	datasets := GenerateBatch([]string{"status-brief", "missing", "exec-summary"}, Pools{}, 10)

	require.Len(t, datasets, 2)
	assert.Equal(t, "status-brief", datasets[0].TemplateID)
	assert.Equal(t, "exec-summary", datasets[1].TemplateID)
	assert.Equal(t, uint32(10), datasets[0].Seed)
	assert.Equal(t, uint32(12), datasets[1].Seed)
}

func TestGenerator_PositionsWithinPages(t *testing.T) {
	ds := generate(t, "portfolio-review", Pools{}, 77)
	for _, p := range ds.ProjectStatuses {
		assert.GreaterOrEqual(t, p.Position.Page, 1)
		assert.LessOrEqual(t, p.Position.Page, ds.Metadata.PageCount)
		assert.Equal(t, "Project Status", p.Position.Section)
	}
}

func TestRenderDocument(t *testing.T) {
	for _, id := range TemplateIDs() {
		t.Run(id, func(t *testing.T) {
			ds := generate(t, id, Pools{}, 3)
			doc, err := RenderDocument(ds)
			require.NoError(t, err)

			assert.Contains(t, doc, ds.DocumentID)
			for _, p := range ds.ProjectStatuses {
				assert.Contains(t, doc, p.ProjectName)
			}
			for _, r := range ds.Risks {
				assert.Contains(t, doc, r.Description)
			}
			for _, tu := range ds.TeamUpdates {
				assert.Contains(t, doc, tu.TeamName)
			}
			assert.NotContains(t, doc, "{{")
		})
	}
}

func TestRenderDocument_NilDataset(t *testing.T) {
	_, err := RenderDocument(nil)
	assert.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		currency string
		amount   float64
		want     string
	}{
		{"GBP", 1234567, "£1,234,567"},
		{"USD", 100000, "$100,000"},
		{"EUR", 999, "€999"},
		{"CHF", 1000, "CHF 1,000"},
		{"GBP", -123, "-£123"},
		{"USD", -1234567, "-$1,234,567"},
		{"EUR", -0.2, "€0"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatAmount(tt.currency, tt.amount))
		})
	}
}

func TestTemplates_Sorted(t *testing.T) {
	ids := TemplateIDs()
	require.NotEmpty(t, ids)
	for i := 1; i < len(ids); i++ {
		assert.True(t, strings.Compare(ids[i-1], ids[i]) < 0)
	}
}
