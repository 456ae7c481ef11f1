package groundtruth

import "github.com/Veraticus/extractbench/internal/model"

// Pools holds the candidate names the generator selects from. Empty pools
// fall back to the built-in defaults.
type Pools struct {
	ProjectNames     []string `mapstructure:"project_names"`
	TeamNames        []string `mapstructure:"team_names"`
	RiskDescriptions []string `mapstructure:"risk_descriptions"`
}

// DefaultProjectNames is used when no project pool is supplied.
var DefaultProjectNames = []string{
	"Atlas Migration",
	"Phoenix CRM Rollout",
	"Data Lake Modernisation",
	"Payments Gateway Upgrade",
	"Customer Portal Redesign",
	"ERP Consolidation",
	"Mobile App Relaunch",
	"Cloud Cost Optimisation",
}

// DefaultTeamNames is used when no team pool is supplied.
var DefaultTeamNames = []string{
	"Platform Engineering",
	"Data Services",
	"Customer Experience",
	"Finance Systems",
	"Security Operations",
	"Quality Assurance",
}

// DefaultRiskDescriptions is used when no risk pool is supplied.
var DefaultRiskDescriptions = []string{
	"Key supplier may miss the integration delivery date",
	"Loss of specialist resources to competing programmes",
	"Regulatory approval for data transfer could be delayed",
	"Legacy system decommissioning exposes data quality gaps",
	"Currency fluctuations increase licence costs beyond budget",
	"Insufficient user acceptance testing capacity before go-live",
}

// WithDefaults returns a copy of p with empty pools replaced by defaults.
func (p Pools) WithDefaults() Pools {
	if len(p.ProjectNames) == 0 {
		p.ProjectNames = DefaultProjectNames
	}
	if len(p.TeamNames) == 0 {
		p.TeamNames = DefaultTeamNames
	}
	if len(p.RiskDescriptions) == 0 {
		p.RiskDescriptions = DefaultRiskDescriptions
	}
	return p
}

var statusReasons = map[model.RAGStatus][]string{
	model.StatusGreen: {
		"On track against baseline plan",
		"All deliverables completed for the period",
		"Ahead of schedule after early vendor handover",
	},
	model.StatusAmber: {
		"Testing window compressed by late environment delivery",
		"Resource gaps in the data migration workstream",
		"Scope change request awaiting approval",
	},
	model.StatusRed: {
		"Critical path slipped by three weeks",
		"Budget overrun requires re-baselining",
		"Vendor contract dispute blocking delivery",
	},
}

var mitigations = []string{
	"Weekly supplier checkpoint with escalation path to sponsor",
	"Backfill roles through the preferred contractor framework",
	"Early engagement with the regulator and legal counsel",
	"Run data profiling and cleansing sprint before cutover",
	"Hedge licence payments and review contract terms",
	"Extend test window and add automated regression coverage",
}

var milestonePhases = []string{
	"Design Sign-off",
	"Build Complete",
	"System Integration Testing",
	"User Acceptance Testing",
	"Go-Live",
	"Hypercare Exit",
	"Data Migration Dry Run",
	"Business Readiness Review",
}

var milestoneStatuses = []string{"completed", "on_track", "at_risk", "delayed"}

var teamUpdates = []string{
	"Onboarded two contractors to cover the migration backlog",
	"Completed security review of the new integration layer",
	"Focus shifting to regression testing next sprint",
	"Knowledge transfer sessions scheduled with operations",
	"Capacity constrained by support rota commitments",
	"Automated deployment pipeline now live for all services",
}
