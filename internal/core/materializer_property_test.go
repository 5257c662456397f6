package core

import (
	"fmt"
	"testing"

	"github.com/kwacihq/grow/pkg/models"
	"pgregory.net/rapid"
)

// drawTemplate generates a template with up to 12 tasks whose dependency
// lists mix valid in-template references and dangling IDs, plus up to 4
// goals sharing the same category pool as the tasks.
func drawTemplate(rt *rapid.T) *fakeTemplateSource {
	src := newFakeTemplateSource()
	src.templates["gen"] = models.PlanTemplate{ID: "gen", Name: "Generated", Type: models.PlanTypeDaily}

	categories := []string{"production", "sales", "inventory", "finance"}
	taskCount := rapid.IntRange(0, 12).Draw(rt, "taskCount")

	taskIDs := make([]string, taskCount)
	for i := range taskIDs {
		taskIDs[i] = fmt.Sprintf("T%d", i+1)
	}

	tasks := make([]models.TaskTemplate, 0, taskCount)
	for i := 0; i < taskCount; i++ {
		var deps []string
		depCount := rapid.IntRange(0, 3).Draw(rt, fmt.Sprintf("depCount%d", i))
		for d := 0; d < depCount; d++ {
			if taskCount > 0 && rapid.Bool().Draw(rt, fmt.Sprintf("depValid%d_%d", i, d)) {
				deps = append(deps, taskIDs[rapid.IntRange(0, taskCount-1).Draw(rt, fmt.Sprintf("depIdx%d_%d", i, d))])
			} else {
				deps = append(deps, fmt.Sprintf("X%d", rapid.IntRange(100, 999).Draw(rt, fmt.Sprintf("dangling%d_%d", i, d))))
			}
		}
		tasks = append(tasks, models.TaskTemplate{
			ID:           taskIDs[i],
			TemplateID:   "gen",
			Title:        fmt.Sprintf("Task %d", i+1),
			Category:     rapid.SampledFrom(categories).Draw(rt, fmt.Sprintf("taskCat%d", i)),
			Dependencies: deps,
		})
	}
	src.tasks["gen"] = tasks

	goalCount := rapid.IntRange(0, 4).Draw(rt, "goalCount")
	goals := make([]models.GoalTemplate, 0, goalCount)
	for i := 0; i < goalCount; i++ {
		goals = append(goals, models.GoalTemplate{
			ID:         fmt.Sprintf("G%d", i+1),
			TemplateID: "gen",
			Title:      fmt.Sprintf("Goal %d", i+1),
			Category:   rapid.SampledFrom(categories).Draw(rt, fmt.Sprintf("goalCat%d", i)),
		})
	}
	src.goals["gen"] = goals

	return src
}

// Property: every ID handed out in one materialization run is unique.
func TestProperty_MaterializedIDsUnique(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := drawTemplate(rt)
		m := NewMaterializer(src, &memPlanWriter{}, newSeqIDGen(), fixedNow)

		result, err := m.MaterializePlan("gen", PlanDescriptor{Name: "run", BranchID: "B1"})
		if err != nil {
			rt.Fatalf("MaterializePlan failed: %v", err)
		}

		seen := map[string]bool{result.Plan.ID: true}
		for _, task := range result.Tasks {
			if seen[task.ID] {
				rt.Fatalf("duplicate ID %s", task.ID)
			}
			seen[task.ID] = true
		}
		for _, goal := range result.Goals {
			if seen[goal.ID] {
				rt.Fatalf("duplicate ID %s", goal.ID)
			}
			seen[goal.ID] = true
		}
	})
}

// Property: every resolved dependency points at a task created in the same
// run; template-local and dangling references never leak through.
func TestProperty_DependenciesStayInBatch(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := drawTemplate(rt)
		m := NewMaterializer(src, &memPlanWriter{}, newSeqIDGen(), fixedNow)

		result, err := m.MaterializePlan("gen", PlanDescriptor{Name: "run", BranchID: "B1"})
		if err != nil {
			rt.Fatalf("MaterializePlan failed: %v", err)
		}

		batch := make(map[string]bool, len(result.Tasks))
		for _, task := range result.Tasks {
			batch[task.ID] = true
		}
		for _, task := range result.Tasks {
			for _, dep := range task.Dependencies {
				if !batch[dep] {
					rt.Fatalf("task %s depends on %s, which is not in this run", task.ID, dep)
				}
			}
		}
	})
}

// Property: the count of resolved dependencies equals the count of
// dependency entries that reference a task template in the same template.
func TestProperty_DanglingDependenciesDropped(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := drawTemplate(rt)
		taskTemplates := src.tasks["gen"]
		known := make(map[string]bool, len(taskTemplates))
		for _, tt := range taskTemplates {
			known[tt.ID] = true
		}

		m := NewMaterializer(src, &memPlanWriter{}, newSeqIDGen(), fixedNow)
		result, err := m.MaterializePlan("gen", PlanDescriptor{Name: "run", BranchID: "B1"})
		if err != nil {
			rt.Fatalf("MaterializePlan failed: %v", err)
		}

		for i, tt := range taskTemplates {
			valid := 0
			for _, dep := range tt.Dependencies {
				if known[dep] {
					valid++
				}
			}
			if got := len(result.Tasks[i].Dependencies); got != valid {
				rt.Fatalf("task %s: %d resolved dependencies, expected %d", result.Tasks[i].ID, got, valid)
			}
		}
	})
}

// Property: every goal carries the plan's branch.
func TestProperty_GoalBranchPropagation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := drawTemplate(rt)
		branch := rapid.StringMatching(`B[0-9]{1,3}`).Draw(rt, "branch")

		m := NewMaterializer(src, &memPlanWriter{}, newSeqIDGen(), fixedNow)
		result, err := m.MaterializePlan("gen", PlanDescriptor{Name: "run", BranchID: branch})
		if err != nil {
			rt.Fatalf("MaterializePlan failed: %v", err)
		}

		if result.Plan.BranchID != branch {
			rt.Fatalf("plan branch %s, expected %s", result.Plan.BranchID, branch)
		}
		for _, goal := range result.Goals {
			if goal.BranchID != branch {
				rt.Fatalf("goal %s branch %s, expected %s", goal.ID, goal.BranchID, branch)
			}
		}
	})
}

// Property: a goal's linked tasks are exactly the run's tasks sharing its
// category, in task order.
func TestProperty_CategoryLinking(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := drawTemplate(rt)
		m := NewMaterializer(src, &memPlanWriter{}, newSeqIDGen(), fixedNow)

		result, err := m.MaterializePlan("gen", PlanDescriptor{Name: "run", BranchID: "B1"})
		if err != nil {
			rt.Fatalf("MaterializePlan failed: %v", err)
		}

		for _, goal := range result.Goals {
			var want []string
			for _, task := range result.Tasks {
				if task.Category == goal.Category {
					want = append(want, task.ID)
				}
			}
			if len(goal.LinkedTaskIDs) != len(want) {
				rt.Fatalf("goal %s linked to %v, expected %v", goal.ID, goal.LinkedTaskIDs, want)
			}
			for i := range want {
				if goal.LinkedTaskIDs[i] != want[i] {
					rt.Fatalf("goal %s linked to %v, expected %v", goal.ID, goal.LinkedTaskIDs, want)
				}
			}
		}
	})
}

// Property: repeated materializations of the same template share no IDs
// and never cross-reference each other's tasks.
func TestProperty_RunsAreIndependent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := drawTemplate(rt)
		runs := rapid.IntRange(2, 5).Draw(rt, "runs")
		m := NewMaterializer(src, &memPlanWriter{}, newSeqIDGen(), fixedNow)

		seen := make(map[string]bool)
		for r := 0; r < runs; r++ {
			result, err := m.MaterializePlan("gen", PlanDescriptor{Name: fmt.Sprintf("run %d", r), BranchID: "B1"})
			if err != nil {
				rt.Fatalf("run %d failed: %v", r, err)
			}

			batch := make(map[string]bool, len(result.Tasks))
			ids := []string{result.Plan.ID}
			for _, task := range result.Tasks {
				ids = append(ids, task.ID)
				batch[task.ID] = true
			}
			for _, goal := range result.Goals {
				ids = append(ids, goal.ID)
			}

			for _, id := range ids {
				if seen[id] {
					rt.Fatalf("run %d reused ID %s", r, id)
				}
				seen[id] = true
			}
			for _, task := range result.Tasks {
				for _, dep := range task.Dependencies {
					if !batch[dep] {
						rt.Fatalf("run %d task %s depends on %s from another run", r, task.ID, dep)
					}
				}
			}
		}
	})
}
