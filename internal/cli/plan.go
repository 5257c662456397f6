package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/kwacihq/grow/internal/core"
	"github.com/kwacihq/grow/internal/observability"
	"github.com/kwacihq/grow/pkg/models"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage operational plans (create, list, show, task)",
	Long: `Create concrete plans from templates and work them day to day.

'plan create' materializes a template: tasks and goals get fresh IDs,
template-local task dependencies are rewritten to the new task IDs, and
each goal is linked to the tasks sharing its category.`,
}

var planCreateCmd = &cobra.Command{
	Use:   "create <template-id>",
	Short: "Create a plan from a template",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Materializer == nil {
			return fmt.Errorf("materializer not initialized")
		}

		templateID := ""
		if len(args) == 1 {
			templateID = args[0]
		} else {
			picked, err := pickTemplate()
			if err != nil {
				return err
			}
			templateID = picked
		}

		nameFlag, _ := cmd.Flags().GetString("name")
		branchFlag, _ := cmd.Flags().GetString("branch")
		startFlag, _ := cmd.Flags().GetString("start")
		endFlag, _ := cmd.Flags().GetString("end")
		noteFlag, _ := cmd.Flags().GetString("note")

		startDate, err := parseDateFlag(startFlag, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("parsing --start: %w", err)
		}
		endDate, err := parseDateFlag(endFlag, startDate)
		if err != nil {
			return fmt.Errorf("parsing --end: %w", err)
		}

		name := nameFlag
		if name == "" {
			name = fmt.Sprintf("%s %s", templateID, startDate.Format("2006-01-02"))
		}

		result, err := Materializer.MaterializePlan(templateID, core.PlanDescriptor{
			Name:      name,
			StartDate: startDate,
			EndDate:   endDate,
			BranchID:  branchFlag,
			Note:      noteFlag,
		})
		if err != nil {
			return fmt.Errorf("creating plan from %s: %w", templateID, err)
		}

		emitEvent(observability.EventPlanMaterialized, "plan created from template", map[string]any{
			"plan_id":     result.Plan.ID,
			"template_id": templateID,
			"goals":       len(result.Goals),
			"tasks":       len(result.Tasks),
		})

		fmt.Printf("Created plan %s (%s)\n", result.Plan.ID, result.Plan.Name)
		fmt.Printf("  Template: %s\n", templateID)
		if result.Plan.BranchID != "" {
			fmt.Printf("  Branch:   %s\n", result.Plan.BranchID)
		}
		fmt.Printf("  Goals:    %d\n", len(result.Goals))
		fmt.Printf("  Tasks:    %d\n", len(result.Tasks))
		return nil
	},
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		if PlanMgr == nil {
			return fmt.Errorf("plan manager not initialized")
		}
		statusFlag, _ := cmd.Flags().GetString("status")

		plans, err := PlanMgr.ListPlans()
		if err != nil {
			return err
		}

		var shown int
		fmt.Printf("%-12s %-10s %-10s %-12s %s\n", "ID", "TYPE", "STATUS", "BRANCH", "NAME")
		for _, plan := range plans {
			if statusFlag != "" && string(plan.Status) != statusFlag {
				continue
			}
			branch := plan.BranchID
			if branch == "" {
				branch = "-"
			}
			fmt.Printf("%-12s %-10s %-10s %-12s %s\n",
				plan.ID, plan.Type, plan.Status, branch, plan.Name)
			shown++
		}
		if shown == 0 {
			fmt.Println("(no plans)")
		}
		return nil
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show <plan-id>",
	Short: "Show a plan with its goals and tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if PlanMgr == nil {
			return fmt.Errorf("plan manager not initialized")
		}
		detail, err := PlanMgr.GetPlanDetail(args[0])
		if err != nil {
			return err
		}

		plan := detail.Plan
		fmt.Printf("%s  %s\n", plan.ID, plan.Name)
		fmt.Printf("  Status: %s  Type: %s\n", plan.Status, plan.Type)
		fmt.Printf("  Dates:  %s .. %s\n",
			plan.StartDate.Format("2006-01-02"), plan.EndDate.Format("2006-01-02"))
		if plan.BranchID != "" {
			fmt.Printf("  Branch: %s\n", plan.BranchID)
		}
		if plan.TemplateID != "" {
			fmt.Printf("  From:   %s\n", plan.TemplateID)
		}

		if len(detail.Goals) > 0 {
			fmt.Println("\nGoals:")
			for _, goal := range detail.Goals {
				linked := "-"
				if len(goal.LinkedTaskIDs) > 0 {
					linked = strings.Join(goal.LinkedTaskIDs, ", ")
				}
				fmt.Printf("  %-12s %-14s %-30s tasks: %s\n", goal.ID, goal.Category, goal.Title, linked)
			}
		}
		if len(detail.Tasks) > 0 {
			fmt.Println("\nTasks:")
			for _, task := range detail.Tasks {
				deps := "-"
				if len(task.Dependencies) > 0 {
					deps = strings.Join(task.Dependencies, ", ")
				}
				fmt.Printf("  %-12s %-12s %-8s %-30s deps: %s\n",
					task.ID, task.Status, task.Priority, task.Title, deps)
			}
		}
		return nil
	},
}

var planStatusCmd = &cobra.Command{
	Use:   "status <plan-id> <status>",
	Short: "Update a plan's status (draft, active, completed, cancelled)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if PlanMgr == nil {
			return fmt.Errorf("plan manager not initialized")
		}
		status := models.PlanStatus(args[1])
		switch status {
		case models.PlanStatusDraft, models.PlanStatusActive, models.PlanStatusCompleted, models.PlanStatusCancelled:
		default:
			return fmt.Errorf("invalid plan status %q", args[1])
		}
		if err := PlanMgr.UpdatePlanStatus(args[0], status); err != nil {
			return err
		}
		emitEvent(observability.EventPlanStatusChanged, "plan status updated", map[string]any{
			"plan_id":    args[0],
			"new_status": args[1],
		})
		fmt.Printf("Plan %s is now %s\n", args[0], status)
		return nil
	},
}

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Work plan tasks (status, priority)",
}

var taskStatusCmd = &cobra.Command{
	Use:   "status <task-id> <status>",
	Short: "Update a task's status (not_started, in_progress, blocked, done, cancelled)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if PlanMgr == nil {
			return fmt.Errorf("plan manager not initialized")
		}
		status := models.TaskStatus(args[1])
		switch status {
		case models.TaskStatusNotStarted, models.TaskStatusInProgress, models.TaskStatusBlocked,
			models.TaskStatusDone, models.TaskStatusCancelled:
		default:
			return fmt.Errorf("invalid task status %q", args[1])
		}
		if err := PlanMgr.UpdateTaskStatus(args[0], status); err != nil {
			return err
		}
		emitEvent(observability.EventTaskStatusChanged, "task status updated", map[string]any{
			"task_id":    args[0],
			"new_status": args[1],
		})
		fmt.Printf("Task %s is now %s\n", args[0], status)
		return nil
	},
}

var taskPriorityCmd = &cobra.Command{
	Use:   "priority <task-id> <priority>",
	Short: "Update a task's priority (low, medium, high)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if PlanMgr == nil {
			return fmt.Errorf("plan manager not initialized")
		}
		priority := models.Priority(args[1])
		switch priority {
		case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		default:
			return fmt.Errorf("invalid priority %q", args[1])
		}
		if err := PlanMgr.UpdateTaskPriority(args[0], priority); err != nil {
			return err
		}
		fmt.Printf("Task %s priority is now %s\n", args[0], priority)
		return nil
	},
}

// parseDateFlag accepts 2006-01-02 dates; empty input yields the fallback.
func parseDateFlag(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use 2006-01-02)", s)
	}
	return t, nil
}

func init() {
	planCreateCmd.Flags().String("name", "", "plan name (default: template ID + start date)")
	planCreateCmd.Flags().String("branch", "", "branch to pin the plan to (required for templates with goals)")
	planCreateCmd.Flags().String("start", "", "start date (2006-01-02, default today)")
	planCreateCmd.Flags().String("end", "", "end date (2006-01-02, default = start)")
	planCreateCmd.Flags().String("note", "", "free-form note")
	planListCmd.Flags().String("status", "", "filter by plan status")

	planCmd.AddCommand(planCreateCmd)
	planCmd.AddCommand(planListCmd)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planStatusCmd)

	taskCmd.AddCommand(taskStatusCmd)
	taskCmd.AddCommand(taskPriorityCmd)
	planCmd.AddCommand(taskCmd)

	rootCmd.AddCommand(planCmd)
}
