package core

import (
	"fmt"

	"github.com/kwacihq/grow/pkg/models"
)

// fakeTemplateSource is an in-memory TemplateSource for tests.
type fakeTemplateSource struct {
	templates map[string]models.PlanTemplate
	goals     map[string][]models.GoalTemplate
	tasks     map[string][]models.TaskTemplate
	loadErr   error
}

func newFakeTemplateSource() *fakeTemplateSource {
	return &fakeTemplateSource{
		templates: make(map[string]models.PlanTemplate),
		goals:     make(map[string][]models.GoalTemplate),
		tasks:     make(map[string][]models.TaskTemplate),
	}
}

func (f *fakeTemplateSource) GetTemplate(id string) (*models.PlanTemplate, error) {
	tmpl, ok := f.templates[id]
	if !ok {
		return nil, fmt.Errorf("template %s not found", id)
	}
	return &tmpl, nil
}

func (f *fakeTemplateSource) GetGoalTemplates(templateID string) ([]models.GoalTemplate, error) {
	return f.goals[templateID], nil
}

func (f *fakeTemplateSource) GetTaskTemplates(templateID string) ([]models.TaskTemplate, error) {
	return f.tasks[templateID], nil
}

func (f *fakeTemplateSource) Load() error {
	return f.loadErr
}

// memPlanWriter is an in-memory PlanWriter that only exposes records once
// Save has been called, mirroring the file store's staging behavior.
type memPlanWriter struct {
	staged struct {
		plans []models.OperationalPlan
		goals []models.PlanGoal
		tasks []models.PlanTask
	}
	Plans []models.OperationalPlan
	Goals []models.PlanGoal
	Tasks []models.PlanTask

	LoadCalls int
	SaveCalls int
	saveErr   error
}

func (w *memPlanWriter) AddPlan(plan models.OperationalPlan) error {
	w.staged.plans = append(w.staged.plans, plan)
	return nil
}

func (w *memPlanWriter) AddGoal(goal models.PlanGoal) error {
	w.staged.goals = append(w.staged.goals, goal)
	return nil
}

func (w *memPlanWriter) AddTask(task models.PlanTask) error {
	w.staged.tasks = append(w.staged.tasks, task)
	return nil
}

func (w *memPlanWriter) Load() error {
	w.LoadCalls++
	return nil
}

func (w *memPlanWriter) Save() error {
	w.SaveCalls++
	if w.saveErr != nil {
		return w.saveErr
	}
	w.Plans = append(w.Plans, w.staged.plans...)
	w.Goals = append(w.Goals, w.staged.goals...)
	w.Tasks = append(w.Tasks, w.staged.tasks...)
	w.staged.plans = nil
	w.staged.goals = nil
	w.staged.tasks = nil
	return nil
}

// fakeCatalog is an in-memory Catalog for costing and sales tests.
type fakeCatalog struct {
	ingredients map[string]models.Ingredient
	products    map[string]models.Product
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		ingredients: make(map[string]models.Ingredient),
		products:    make(map[string]models.Product),
	}
}

func (f *fakeCatalog) GetProduct(id string) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s not found", id)
	}
	return &p, nil
}

func (f *fakeCatalog) GetIngredient(id string) (*models.Ingredient, error) {
	ing, ok := f.ingredients[id]
	if !ok {
		return nil, fmt.Errorf("ingredient %s not found", id)
	}
	return &ing, nil
}

func (f *fakeCatalog) Load() error { return nil }

// seqIDGen hands out PREFIX-1, PREFIX-2, ... per prefix.
type seqIDGen struct {
	counters map[string]int
}

func newSeqIDGen() *seqIDGen {
	return &seqIDGen{counters: make(map[string]int)}
}

func (g *seqIDGen) Next(prefix string) (string, error) {
	g.counters[prefix]++
	return fmt.Sprintf("%s-%d", prefix, g.counters[prefix]), nil
}
