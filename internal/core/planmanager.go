package core

import (
	"fmt"
	"time"

	"github.com/kwacihq/grow/pkg/models"
)

// PlanStore is the subset of storage.PlanStoreManager that plan lifecycle
// operations need.
type PlanStore interface {
	GetPlan(id string) (*models.OperationalPlan, error)
	GetAllPlans() ([]models.OperationalPlan, error)
	UpdatePlan(plan models.OperationalPlan) error
	GetPlanGoals(planID string) ([]models.PlanGoal, error)
	UpdateGoal(goal models.PlanGoal) error
	GetTask(id string) (*models.PlanTask, error)
	GetPlanTasks(planID string) ([]models.PlanTask, error)
	UpdateTask(task models.PlanTask) error
	Load() error
	Save() error
}

// PlanDetail is a plan joined with its goals and tasks.
type PlanDetail struct {
	Plan  models.OperationalPlan
	Goals []models.PlanGoal
	Tasks []models.PlanTask
}

// PlanManager defines the interface for day-to-day plan operations after
// materialization.
type PlanManager interface {
	ListPlans() ([]models.OperationalPlan, error)
	GetPlanDetail(planID string) (*PlanDetail, error)
	UpdatePlanStatus(planID string, status models.PlanStatus) error
	UpdateTaskStatus(taskID string, status models.TaskStatus) error
	UpdateTaskPriority(taskID string, priority models.Priority) error
	RecomputeGoalLinks(planID string) error
}

type planManager struct {
	store PlanStore
	now   func() time.Time
}

// NewPlanManager creates a PlanManager over the given store. now may be
// nil, in which case time.Now is used.
func NewPlanManager(store PlanStore, now func() time.Time) PlanManager {
	if now == nil {
		now = time.Now
	}
	return &planManager{store: store, now: now}
}

func (pm *planManager) ListPlans() ([]models.OperationalPlan, error) {
	if err := pm.store.Load(); err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	plans, err := pm.store.GetAllPlans()
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	return plans, nil
}

func (pm *planManager) GetPlanDetail(planID string) (*PlanDetail, error) {
	if err := pm.store.Load(); err != nil {
		return nil, fmt.Errorf("getting plan %s: %w", planID, err)
	}
	plan, err := pm.store.GetPlan(planID)
	if err != nil {
		return nil, fmt.Errorf("getting plan %s: %w", planID, err)
	}
	goals, err := pm.store.GetPlanGoals(planID)
	if err != nil {
		return nil, fmt.Errorf("getting goals for plan %s: %w", planID, err)
	}
	tasks, err := pm.store.GetPlanTasks(planID)
	if err != nil {
		return nil, fmt.Errorf("getting tasks for plan %s: %w", planID, err)
	}
	return &PlanDetail{Plan: *plan, Goals: goals, Tasks: tasks}, nil
}

func (pm *planManager) UpdatePlanStatus(planID string, status models.PlanStatus) error {
	if err := pm.store.Load(); err != nil {
		return fmt.Errorf("updating plan status %s: %w", planID, err)
	}
	plan, err := pm.store.GetPlan(planID)
	if err != nil {
		return fmt.Errorf("updating plan status %s: %w", planID, err)
	}
	plan.Status = status
	plan.Updated = pm.now().UTC()
	if err := pm.store.UpdatePlan(*plan); err != nil {
		return fmt.Errorf("updating plan status %s: %w", planID, err)
	}
	return pm.store.Save()
}

func (pm *planManager) UpdateTaskStatus(taskID string, status models.TaskStatus) error {
	if err := pm.store.Load(); err != nil {
		return fmt.Errorf("updating task status %s: %w", taskID, err)
	}
	task, err := pm.store.GetTask(taskID)
	if err != nil {
		return fmt.Errorf("updating task status %s: %w", taskID, err)
	}
	task.Status = status
	task.Updated = pm.now().UTC()
	if err := pm.store.UpdateTask(*task); err != nil {
		return fmt.Errorf("updating task status %s: %w", taskID, err)
	}
	return pm.store.Save()
}

func (pm *planManager) UpdateTaskPriority(taskID string, priority models.Priority) error {
	if err := pm.store.Load(); err != nil {
		return fmt.Errorf("updating task priority %s: %w", taskID, err)
	}
	task, err := pm.store.GetTask(taskID)
	if err != nil {
		return fmt.Errorf("updating task priority %s: %w", taskID, err)
	}
	task.Priority = priority
	task.Updated = pm.now().UTC()
	if err := pm.store.UpdateTask(*task); err != nil {
		return fmt.Errorf("updating task priority %s: %w", taskID, err)
	}
	return pm.store.Save()
}

// RecomputeGoalLinks rewrites every goal's LinkedTaskIDs from the plan's
// current tasks. Goal links are derived state; manual task edits call this
// to keep them honest.
func (pm *planManager) RecomputeGoalLinks(planID string) error {
	if err := pm.store.Load(); err != nil {
		return fmt.Errorf("recomputing goal links for %s: %w", planID, err)
	}
	goals, err := pm.store.GetPlanGoals(planID)
	if err != nil {
		return fmt.Errorf("recomputing goal links for %s: %w", planID, err)
	}
	tasks, err := pm.store.GetPlanTasks(planID)
	if err != nil {
		return fmt.Errorf("recomputing goal links for %s: %w", planID, err)
	}

	linkGoalsByCategory(goals, tasks)

	for _, goal := range goals {
		if err := pm.store.UpdateGoal(goal); err != nil {
			return fmt.Errorf("recomputing goal links for %s: updating goal %s: %w", planID, goal.ID, err)
		}
	}
	return pm.store.Save()
}
