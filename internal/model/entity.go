// Package model defines the core domain models used throughout the application.
package model

// Category identifies one of the five extraction target types.
type Category string

// Entity category constants.
const (
	CategoryProjectStatus Category = "project_status"
	CategoryRisk          Category = "risk"
	CategoryFinancial     Category = "financial"
	CategoryMilestone     Category = "milestone"
	CategoryTeamUpdate    Category = "team_update"
)

// Categories lists every entity category in generation and scoring order.
var Categories = []Category{
	CategoryProjectStatus,
	CategoryRisk,
	CategoryFinancial,
	CategoryMilestone,
	CategoryTeamUpdate,
}

// DisplayName returns a human readable label for the category.
func (c Category) DisplayName() string {
	switch c {
	case CategoryProjectStatus:
		return "Project Status"
	case CategoryRisk:
		return "Risk"
	case CategoryFinancial:
		return "Financial"
	case CategoryMilestone:
		return "Milestone"
	case CategoryTeamUpdate:
		return "Team Update"
	default:
		return string(c)
	}
}

// RAGStatus is the red/amber/green status reported for a project.
type RAGStatus string

// RAG status constants.
const (
	StatusRed   RAGStatus = "Red"
	StatusAmber RAGStatus = "Amber"
	StatusGreen RAGStatus = "Green"
)

// Level is a three-step rating used for risk impact and probability.
type Level string

// Level constants.
const (
	LevelHigh   Level = "High"
	LevelMedium Level = "Medium"
	LevelLow    Level = "Low"
)

// Position locates an entity in its source document. It is kept for
// traceability only and never takes part in matching.
type Position struct {
	Section string `json:"section" yaml:"section"`
	Page    int    `json:"page" yaml:"page"`
}

// ExpectedProjectStatus is a project status a document should yield.
type ExpectedProjectStatus struct {
	ProjectName string    `json:"project_name" yaml:"project_name"`
	Status      RAGStatus `json:"status" yaml:"status"`
	Reason      string    `json:"reason" yaml:"reason"`
	Position    Position  `json:"position" yaml:"position"`
}

// ExpectedRisk is a risk a document should yield.
type ExpectedRisk struct {
	Description string   `json:"description" yaml:"description"`
	Impact      Level    `json:"impact" yaml:"impact"`
	Probability Level    `json:"probability" yaml:"probability"`
	Mitigation  string   `json:"mitigation" yaml:"mitigation"`
	Position    Position `json:"position" yaml:"position"`
}

// ExpectedFinancial is a budget line a document should yield.
type ExpectedFinancial struct {
	ProjectName string   `json:"project_name" yaml:"project_name"`
	Currency    string   `json:"currency" yaml:"currency"`
	Position    Position `json:"position" yaml:"position"`
	Budget      float64  `json:"budget" yaml:"budget"`
	Actual      float64  `json:"actual" yaml:"actual"`
	Forecast    float64  `json:"forecast" yaml:"forecast"`
}

// ExpectedMilestone is a milestone a document should yield.
type ExpectedMilestone struct {
	Name        string   `json:"name" yaml:"name"`
	ProjectName string   `json:"project_name" yaml:"project_name"`
	DueDate     string   `json:"due_date" yaml:"due_date"`
	Status      string   `json:"status" yaml:"status"`
	Position    Position `json:"position" yaml:"position"`
}

// ExpectedTeamUpdate is a team update a document should yield.
type ExpectedTeamUpdate struct {
	TeamName    string   `json:"team_name" yaml:"team_name"`
	Update      string   `json:"update" yaml:"update"`
	Position    Position `json:"position" yaml:"position"`
	Utilization float64  `json:"utilization" yaml:"utilization"`
	Headcount   int      `json:"headcount" yaml:"headcount"`
}
