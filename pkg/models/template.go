package models

// PlanType represents the planning horizon a template or plan targets.
type PlanType string

const (
	PlanTypeDaily     PlanType = "daily"
	PlanTypeWeekly    PlanType = "weekly"
	PlanTypeMonthly   PlanType = "monthly"
	PlanTypeSeasonal  PlanType = "seasonal"
	PlanTypeOneOff    PlanType = "one_off"
)

// Difficulty rates how demanding a template is to execute.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// PlanTemplate is a reusable plan definition. Templates are authored once
// and read many times; materializing a plan never mutates its template.
type PlanTemplate struct {
	ID               string     `yaml:"id"`
	Name             string     `yaml:"name"`
	Type             PlanType   `yaml:"type"`
	Category         string     `yaml:"category"`
	IsDefault        bool       `yaml:"is_default,omitempty"`
	EstimatedMinutes int        `yaml:"estimated_minutes,omitempty"`
	Difficulty       Difficulty `yaml:"difficulty,omitempty"`
	Tags             []string   `yaml:"tags,omitempty"`
	Note             string     `yaml:"note,omitempty"`
}

// GoalTemplate describes a goal to instantiate when a plan is created from
// the owning template.
type GoalTemplate struct {
	ID           string `yaml:"id"`
	TemplateID   string `yaml:"template_id"`
	Title        string `yaml:"title"`
	Category     string `yaml:"category"`
	TargetMetric string `yaml:"target_metric,omitempty"`
}

// TaskTemplate describes a task to instantiate when a plan is created from
// the owning template. Dependencies reference other TaskTemplate IDs within
// the same template; cross-template references are malformed input.
type TaskTemplate struct {
	ID               string   `yaml:"id"`
	TemplateID       string   `yaml:"template_id"`
	Title            string   `yaml:"title"`
	Category         string   `yaml:"category"`
	Dependencies     []string `yaml:"dependencies,omitempty"`
	EstimatedMinutes int      `yaml:"estimated_minutes,omitempty"`
	Priority         Priority `yaml:"priority,omitempty"`
}
