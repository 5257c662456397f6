// Package models defines the shared domain types for KWACI Grow: plan
// templates, operational plans, the product/ingredient catalog, and the
// sales/expense/asset ledger.
package models

import "time"

// PlanStatus represents the lifecycle state of an operational plan.
type PlanStatus string

const (
	PlanStatusDraft     PlanStatus = "draft"
	PlanStatusActive    PlanStatus = "active"
	PlanStatusCompleted PlanStatus = "completed"
	PlanStatusCancelled PlanStatus = "cancelled"
)

// TaskStatus represents the lifecycle state of a plan task.
type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "not_started"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusBlocked    TaskStatus = "blocked"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// Priority represents the urgency of a plan task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// OperationalPlan is the root aggregate created by materializing a plan
// template. Its goals and tasks are stored as separate records keyed back
// to the plan by PlanID.
type OperationalPlan struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Type        PlanType   `yaml:"type"`
	Status      PlanStatus `yaml:"status"`
	StartDate   time.Time  `yaml:"start_date"`
	EndDate     time.Time  `yaml:"end_date"`
	BranchID    string     `yaml:"branch_id,omitempty"`
	TemplateID  string     `yaml:"template_id,omitempty"`
	Note        string     `yaml:"note,omitempty"`
	Created     time.Time  `yaml:"created"`
	Updated     time.Time  `yaml:"updated"`
}

// PlanGoal is a concrete goal owned by an operational plan.
//
// LinkedTaskIDs is derived, not authored: it always equals the set of the
// plan's tasks whose category matches the goal's category and is recomputed
// whenever tasks change.
type PlanGoal struct {
	ID            string   `yaml:"id"`
	PlanID        string   `yaml:"plan_id"`
	Title         string   `yaml:"title"`
	Category      string   `yaml:"category"`
	TargetMetric  string   `yaml:"target_metric,omitempty"`
	BranchID      string   `yaml:"branch_id"`
	LinkedTaskIDs []string `yaml:"linked_task_ids,omitempty"`
}

// PlanTask is a concrete task owned by an operational plan. Dependencies
// reference other PlanTask IDs within the same plan.
type PlanTask struct {
	ID               string     `yaml:"id"`
	PlanID           string     `yaml:"plan_id"`
	Title            string     `yaml:"title"`
	Category         string     `yaml:"category"`
	Dependencies     []string   `yaml:"dependencies,omitempty"`
	Status           TaskStatus `yaml:"status"`
	Priority         Priority   `yaml:"priority"`
	EstimatedMinutes int        `yaml:"estimated_minutes,omitempty"`
	Created          time.Time  `yaml:"created"`
	Updated          time.Time  `yaml:"updated"`
}
