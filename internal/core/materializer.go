// Package core contains the business logic for KWACI Grow: plan template
// materialization, plan lifecycle management, product costing, asset
// depreciation, the sales ledger, and configuration.
package core

import (
	"fmt"
	"time"

	"github.com/kwacihq/grow/pkg/models"
)

// TemplateSource is the read-only subset of storage.TemplateManager that
// materialization needs. Defining it here keeps core independent of the
// storage package.
type TemplateSource interface {
	GetTemplate(id string) (*models.PlanTemplate, error)
	GetGoalTemplates(templateID string) ([]models.GoalTemplate, error)
	GetTaskTemplates(templateID string) ([]models.TaskTemplate, error)
	Load() error
}

// PlanWriter is the subset of storage.PlanStoreManager that materialization
// writes through. All records of one run are added between a single Load
// and Save, so a failed run persists nothing.
type PlanWriter interface {
	AddPlan(plan models.OperationalPlan) error
	AddGoal(goal models.PlanGoal) error
	AddTask(task models.PlanTask) error
	Load() error
	Save() error
}

// PlanDescriptor carries the caller-supplied fields of a new plan.
type PlanDescriptor struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	BranchID    string
	Note        string
}

// MaterializedPlan is the result of one materialization run: the created
// plan with its goals and tasks.
type MaterializedPlan struct {
	Plan  models.OperationalPlan
	Goals []models.PlanGoal
	Tasks []models.PlanTask
}

// Materializer turns a plan template into a concrete operational plan.
type Materializer interface {
	MaterializePlan(templateID string, desc PlanDescriptor) (*MaterializedPlan, error)
}

type materializer struct {
	templates TemplateSource
	plans     PlanWriter
	idGen     IDGenerator
	now       func() time.Time
}

// NewMaterializer creates a Materializer with all dependencies injected.
// now may be nil, in which case time.Now is used.
func NewMaterializer(templates TemplateSource, plans PlanWriter, idGen IDGenerator, now func() time.Time) Materializer {
	if now == nil {
		now = time.Now
	}
	return &materializer{
		templates: templates,
		plans:     plans,
		idGen:     idGen,
		now:       now,
	}
}

// MaterializePlan loads the template, validates the descriptor, builds the
// plan with its goals and tasks in memory, and persists everything in a
// single store save.
//
// Validation failures surface as *ValidationError before anything is
// written. Task dependencies are resolved in a second pass over a
// template-task-id to concrete-task-id map, because a template task may
// depend on a task that appears later in authored order. Dependency
// entries that do not resolve through the map are dropped; `template lint`
// reports them at authoring time.
func (m *materializer) MaterializePlan(templateID string, desc PlanDescriptor) (*MaterializedPlan, error) {
	if err := m.templates.Load(); err != nil {
		return nil, fmt.Errorf("materializing plan: loading templates: %w", err)
	}

	tmpl, err := m.templates.GetTemplate(templateID)
	if err != nil {
		return nil, NewValidationError("materializing plan", "template %s not found", templateID)
	}

	goalTemplates, err := m.templates.GetGoalTemplates(templateID)
	if err != nil {
		return nil, fmt.Errorf("materializing plan: loading goal templates: %w", err)
	}
	taskTemplates, err := m.templates.GetTaskTemplates(templateID)
	if err != nil {
		return nil, fmt.Errorf("materializing plan: loading task templates: %w", err)
	}

	if len(goalTemplates) > 0 && desc.BranchID == "" {
		return nil, NewValidationError("materializing plan",
			"template %s has goals; a branch is required", templateID)
	}

	planID, err := m.idGen.Next("PLAN")
	if err != nil {
		return nil, fmt.Errorf("materializing plan: generating plan ID: %w", err)
	}

	now := m.now().UTC()
	plan := models.OperationalPlan{
		ID:          planID,
		Name:        desc.Name,
		Description: desc.Description,
		Type:        tmpl.Type,
		Status:      models.PlanStatusActive,
		StartDate:   desc.StartDate,
		EndDate:     desc.EndDate,
		BranchID:    desc.BranchID,
		TemplateID:  tmpl.ID,
		Note:        desc.Note,
		Created:     now,
		Updated:     now,
	}

	idMap, err := m.remapTaskIDs(taskTemplates)
	if err != nil {
		return nil, fmt.Errorf("materializing plan: %w", err)
	}

	tasks := materializeTasks(plan, taskTemplates, idMap, now)
	resolveDependencies(tasks, taskTemplates, idMap)

	goals, err := m.materializeGoals(plan, goalTemplates)
	if err != nil {
		return nil, fmt.Errorf("materializing plan: %w", err)
	}
	linkGoalsByCategory(goals, tasks)

	if err := m.persist(plan, goals, tasks); err != nil {
		return nil, err
	}

	return &MaterializedPlan{Plan: plan, Goals: goals, Tasks: tasks}, nil
}

// remapTaskIDs builds the mapping from template-task IDs to freshly
// generated concrete task IDs, one entry per task template. The map lives
// only for the duration of the run.
func (m *materializer) remapTaskIDs(taskTemplates []models.TaskTemplate) (map[string]string, error) {
	idMap := make(map[string]string, len(taskTemplates))
	for _, tt := range taskTemplates {
		taskID, err := m.idGen.Next("TASK")
		if err != nil {
			return nil, fmt.Errorf("generating task ID: %w", err)
		}
		idMap[tt.ID] = taskID
	}
	return idMap, nil
}

// materializeTasks instantiates one task per task template. Dependencies
// start empty; resolveDependencies fills them once every task ID exists.
func materializeTasks(plan models.OperationalPlan, taskTemplates []models.TaskTemplate, idMap map[string]string, now time.Time) []models.PlanTask {
	tasks := make([]models.PlanTask, 0, len(taskTemplates))
	for _, tt := range taskTemplates {
		priority := tt.Priority
		if priority == "" {
			priority = models.PriorityMedium
		}
		tasks = append(tasks, models.PlanTask{
			ID:               idMap[tt.ID],
			PlanID:           plan.ID,
			Title:            tt.Title,
			Category:         tt.Category,
			Dependencies:     nil,
			Status:           models.TaskStatusNotStarted,
			Priority:         priority,
			EstimatedMinutes: tt.EstimatedMinutes,
			Created:          now,
			Updated:          now,
		})
	}
	return tasks
}

// resolveDependencies rewrites each task's dependency list by translating
// the source template's dependencies through the ID map. Entries with no
// mapping are dropped silently; that only happens when the template itself
// is malformed.
func resolveDependencies(tasks []models.PlanTask, taskTemplates []models.TaskTemplate, idMap map[string]string) {
	for i, tt := range taskTemplates {
		var deps []string
		for _, dep := range tt.Dependencies {
			if concrete, ok := idMap[dep]; ok {
				deps = append(deps, concrete)
			}
		}
		tasks[i].Dependencies = deps
	}
}

// materializeGoals instantiates one goal per goal template, stamping each
// with the plan's branch. The branch precondition was checked before any
// ID was generated; this step does not re-validate.
func (m *materializer) materializeGoals(plan models.OperationalPlan, goalTemplates []models.GoalTemplate) ([]models.PlanGoal, error) {
	goals := make([]models.PlanGoal, 0, len(goalTemplates))
	for _, gt := range goalTemplates {
		goalID, err := m.idGen.Next("GOAL")
		if err != nil {
			return nil, fmt.Errorf("generating goal ID: %w", err)
		}
		goals = append(goals, models.PlanGoal{
			ID:           goalID,
			PlanID:       plan.ID,
			Title:        gt.Title,
			Category:     gt.Category,
			TargetMetric: gt.TargetMetric,
			BranchID:     plan.BranchID,
		})
	}
	return goals, nil
}

// linkGoalsByCategory sets each goal's LinkedTaskIDs to the IDs of the
// run's tasks sharing the goal's category. An empty result is valid.
func linkGoalsByCategory(goals []models.PlanGoal, tasks []models.PlanTask) {
	byCategory := make(map[string][]string)
	for _, task := range tasks {
		byCategory[task.Category] = append(byCategory[task.Category], task.ID)
	}
	for i := range goals {
		goals[i].LinkedTaskIDs = byCategory[goals[i].Category]
	}
}

// persist writes the plan and all of its children in one Load/Save cycle.
func (m *materializer) persist(plan models.OperationalPlan, goals []models.PlanGoal, tasks []models.PlanTask) error {
	if err := m.plans.Load(); err != nil {
		return fmt.Errorf("materializing plan: loading plan store: %w", err)
	}
	if err := m.plans.AddPlan(plan); err != nil {
		return fmt.Errorf("materializing plan: adding plan: %w", err)
	}
	for _, task := range tasks {
		if err := m.plans.AddTask(task); err != nil {
			return fmt.Errorf("materializing plan: adding task %s: %w", task.ID, err)
		}
	}
	for _, goal := range goals {
		if err := m.plans.AddGoal(goal); err != nil {
			return fmt.Errorf("materializing plan: adding goal %s: %w", goal.ID, err)
		}
	}
	if err := m.plans.Save(); err != nil {
		return fmt.Errorf("materializing plan: saving plan store: %w", err)
	}
	return nil
}
