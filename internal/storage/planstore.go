package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/kwacihq/grow/pkg/models"
	"gopkg.in/yaml.v3"
)

// PlanFile is the top-level structure of plans.yaml. Plans, goals, and
// tasks are separate collections keyed by their IDs; goals and tasks refer
// back to their plan through PlanID. The storage layer enforces no
// referential integrity; that is the materializer's job.
type PlanFile struct {
	Version string                           `yaml:"version"`
	Plans   map[string]models.OperationalPlan `yaml:"plans"`
	Goals   map[string]models.PlanGoal        `yaml:"goals"`
	Tasks   map[string]models.PlanTask        `yaml:"tasks"`
}

// PlanStoreManager defines the interface for the plans/goals/tasks store.
type PlanStoreManager interface {
	AddPlan(plan models.OperationalPlan) error
	GetPlan(id string) (*models.OperationalPlan, error)
	GetAllPlans() ([]models.OperationalPlan, error)
	UpdatePlan(plan models.OperationalPlan) error
	RemovePlan(id string) error

	AddGoal(goal models.PlanGoal) error
	GetGoal(id string) (*models.PlanGoal, error)
	GetPlanGoals(planID string) ([]models.PlanGoal, error)
	UpdateGoal(goal models.PlanGoal) error

	AddTask(task models.PlanTask) error
	GetTask(id string) (*models.PlanTask, error)
	GetPlanTasks(planID string) ([]models.PlanTask, error)
	UpdateTask(task models.PlanTask) error

	Load() error
	Save() error
}

type filePlanStore struct {
	basePath string
	data     PlanFile
}

// NewPlanStoreManager creates a PlanStoreManager backed by a plans.yaml
// file in the given business data directory.
func NewPlanStoreManager(basePath string) PlanStoreManager {
	return &filePlanStore{
		basePath: basePath,
		data:     emptyPlanFile(),
	}
}

func emptyPlanFile() PlanFile {
	return PlanFile{
		Version: "1.0",
		Plans:   make(map[string]models.OperationalPlan),
		Goals:   make(map[string]models.PlanGoal),
		Tasks:   make(map[string]models.PlanTask),
	}
}

func (s *filePlanStore) filePath() string {
	return filepath.Join(s.basePath, "plans.yaml")
}

func (s *filePlanStore) AddPlan(plan models.OperationalPlan) error {
	if plan.ID == "" {
		return fmt.Errorf("adding plan: ID must not be empty")
	}
	if _, exists := s.data.Plans[plan.ID]; exists {
		return fmt.Errorf("adding plan: plan %s already exists", plan.ID)
	}
	s.data.Plans[plan.ID] = plan
	return nil
}

func (s *filePlanStore) GetPlan(id string) (*models.OperationalPlan, error) {
	plan, exists := s.data.Plans[id]
	if !exists {
		return nil, fmt.Errorf("plan %s not found", id)
	}
	return &plan, nil
}

func (s *filePlanStore) GetAllPlans() ([]models.OperationalPlan, error) {
	plans := make([]models.OperationalPlan, 0, len(s.data.Plans))
	for _, plan := range s.data.Plans {
		plans = append(plans, plan)
	}
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].ID < plans[j].ID
	})
	return plans, nil
}

func (s *filePlanStore) UpdatePlan(plan models.OperationalPlan) error {
	if _, exists := s.data.Plans[plan.ID]; !exists {
		return fmt.Errorf("updating plan: plan %s not found", plan.ID)
	}
	s.data.Plans[plan.ID] = plan
	return nil
}

// RemovePlan deletes a plan together with its goals and tasks.
func (s *filePlanStore) RemovePlan(id string) error {
	if _, exists := s.data.Plans[id]; !exists {
		return fmt.Errorf("removing plan: plan %s not found", id)
	}
	delete(s.data.Plans, id)
	for goalID, goal := range s.data.Goals {
		if goal.PlanID == id {
			delete(s.data.Goals, goalID)
		}
	}
	for taskID, task := range s.data.Tasks {
		if task.PlanID == id {
			delete(s.data.Tasks, taskID)
		}
	}
	return nil
}

func (s *filePlanStore) AddGoal(goal models.PlanGoal) error {
	if goal.ID == "" {
		return fmt.Errorf("adding goal: ID must not be empty")
	}
	if _, exists := s.data.Goals[goal.ID]; exists {
		return fmt.Errorf("adding goal: goal %s already exists", goal.ID)
	}
	s.data.Goals[goal.ID] = goal
	return nil
}

func (s *filePlanStore) GetGoal(id string) (*models.PlanGoal, error) {
	goal, exists := s.data.Goals[id]
	if !exists {
		return nil, fmt.Errorf("goal %s not found", id)
	}
	return &goal, nil
}

func (s *filePlanStore) GetPlanGoals(planID string) ([]models.PlanGoal, error) {
	var goals []models.PlanGoal
	for _, goal := range s.data.Goals {
		if goal.PlanID == planID {
			goals = append(goals, goal)
		}
	}
	sort.Slice(goals, func(i, j int) bool {
		return goals[i].ID < goals[j].ID
	})
	return goals, nil
}

func (s *filePlanStore) UpdateGoal(goal models.PlanGoal) error {
	if _, exists := s.data.Goals[goal.ID]; !exists {
		return fmt.Errorf("updating goal: goal %s not found", goal.ID)
	}
	s.data.Goals[goal.ID] = goal
	return nil
}

func (s *filePlanStore) AddTask(task models.PlanTask) error {
	if task.ID == "" {
		return fmt.Errorf("adding task: ID must not be empty")
	}
	if _, exists := s.data.Tasks[task.ID]; exists {
		return fmt.Errorf("adding task: task %s already exists", task.ID)
	}
	s.data.Tasks[task.ID] = task
	return nil
}

func (s *filePlanStore) GetTask(id string) (*models.PlanTask, error) {
	task, exists := s.data.Tasks[id]
	if !exists {
		return nil, fmt.Errorf("task %s not found", id)
	}
	return &task, nil
}

func (s *filePlanStore) GetPlanTasks(planID string) ([]models.PlanTask, error) {
	var tasks []models.PlanTask
	for _, task := range s.data.Tasks {
		if task.PlanID == planID {
			tasks = append(tasks, task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].ID < tasks[j].ID
	})
	return tasks, nil
}

func (s *filePlanStore) UpdateTask(task models.PlanTask) error {
	if _, exists := s.data.Tasks[task.ID]; !exists {
		return fmt.Errorf("updating task: task %s not found", task.ID)
	}
	s.data.Tasks[task.ID] = task
	return nil
}

func (s *filePlanStore) Load() error {
	data, err := os.ReadFile(s.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			s.data = emptyPlanFile()
			return nil
		}
		return fmt.Errorf("loading plans: %w", err)
	}

	var file PlanFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing plans.yaml: %w", err)
	}
	if file.Plans == nil {
		file.Plans = make(map[string]models.OperationalPlan)
	}
	if file.Goals == nil {
		file.Goals = make(map[string]models.PlanGoal)
	}
	if file.Tasks == nil {
		file.Tasks = make(map[string]models.PlanTask)
	}
	s.data = file
	return nil
}

func (s *filePlanStore) Save() error {
	data, err := yaml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("marshalling plans: %w", err)
	}
	if err := os.MkdirAll(s.basePath, 0o750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(s.filePath(), data, 0o600); err != nil {
		return fmt.Errorf("saving plans.yaml: %w", err)
	}
	return nil
}
