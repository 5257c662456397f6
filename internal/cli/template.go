package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/kwacihq/grow/internal/storage"
	"github.com/kwacihq/grow/pkg/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage plan templates (list, show, lint, import, seed, remove)",
	Long: `Plan templates are reusable plan definitions with goal and task
templates. Materialize one into a concrete plan with 'grow plan create'.`,
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List plan templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		if TemplateMgr == nil {
			return fmt.Errorf("template store not initialized")
		}
		if err := TemplateMgr.Load(); err != nil {
			return fmt.Errorf("listing templates: %w", err)
		}
		templates, err := TemplateMgr.GetAllTemplates()
		if err != nil {
			return fmt.Errorf("listing templates: %w", err)
		}
		if len(templates) == 0 {
			fmt.Println("No templates. Import one with 'grow template import <file.yaml>'.")
			return nil
		}

		fmt.Printf("%-20s %-10s %-14s %-12s %s\n", "ID", "TYPE", "CATEGORY", "DIFFICULTY", "NAME")
		for _, tmpl := range templates {
			fmt.Printf("%-20s %-10s %-14s %-12s %s\n",
				tmpl.ID, tmpl.Type, tmpl.Category, tmpl.Difficulty, tmpl.Name)
		}
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <template-id>",
	Short: "Show a template with its goal and task templates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TemplateMgr == nil {
			return fmt.Errorf("template store not initialized")
		}
		if err := TemplateMgr.Load(); err != nil {
			return fmt.Errorf("showing template: %w", err)
		}
		record, err := TemplateMgr.GetRecord(args[0])
		if err != nil {
			return fmt.Errorf("showing template: %w", err)
		}

		tmpl := record.Template
		fmt.Printf("%s  %s\n", tmpl.ID, tmpl.Name)
		fmt.Printf("  Type:       %s\n", tmpl.Type)
		fmt.Printf("  Category:   %s\n", tmpl.Category)
		if tmpl.Difficulty != "" {
			fmt.Printf("  Difficulty: %s\n", tmpl.Difficulty)
		}
		if len(tmpl.Tags) > 0 {
			fmt.Printf("  Tags:       %s\n", strings.Join(tmpl.Tags, ", "))
		}
		if tmpl.Note != "" {
			fmt.Printf("  Note:       %s\n", tmpl.Note)
		}

		if len(record.Goals) > 0 {
			fmt.Println("\nGoals:")
			for _, goal := range record.Goals {
				fmt.Printf("  %-16s %-14s %s\n", goal.ID, goal.Category, goal.Title)
			}
		}
		if len(record.Tasks) > 0 {
			fmt.Println("\nTasks:")
			for _, task := range record.Tasks {
				deps := "-"
				if len(task.Dependencies) > 0 {
					deps = strings.Join(task.Dependencies, ", ")
				}
				fmt.Printf("  %-16s %-14s %-30s deps: %s\n", task.ID, task.Category, task.Title, deps)
			}
		}
		return nil
	},
}

var templateLintCmd = &cobra.Command{
	Use:   "lint <template-id>",
	Short: "Check a template for dangling dependencies and other problems",
	Long: `Lint reports template problems that materialization tolerates
silently, most importantly dependencies on task templates that do not
exist (those entries are dropped when a plan is created).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Linter == nil {
			return fmt.Errorf("template linter not initialized")
		}
		issues, err := Linter.Lint(args[0])
		if err != nil {
			return err
		}
		if len(issues) == 0 {
			fmt.Printf("%s: no issues\n", args[0])
			return nil
		}
		for _, issue := range issues {
			fmt.Println(issue)
		}
		return fmt.Errorf("%d issue(s) found", len(issues))
	},
}

var templateImportCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Import a template definition from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TemplateMgr == nil {
			return fmt.Errorf("template store not initialized")
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("importing template: %w", err)
		}

		var record storage.TemplateRecord
		if err := yaml.Unmarshal(data, &record); err != nil {
			return fmt.Errorf("importing template: parsing %s: %w", args[0], err)
		}
		if record.Template.ID == "" {
			return fmt.Errorf("importing template: template.id must not be empty")
		}

		if err := TemplateMgr.Load(); err != nil {
			return fmt.Errorf("importing template: %w", err)
		}
		if err := TemplateMgr.PutTemplate(record); err != nil {
			return fmt.Errorf("importing template: %w", err)
		}
		if err := TemplateMgr.Save(); err != nil {
			return fmt.Errorf("importing template: %w", err)
		}

		fmt.Printf("Imported template %s (%d goals, %d tasks)\n",
			record.Template.ID, len(record.Goals), len(record.Tasks))
		return nil
	},
}

// starterTemplates are written by 'grow template seed' so a fresh business
// has something to materialize on day one.
func starterTemplates() []storage.TemplateRecord {
	return []storage.TemplateRecord{
		{
			Template: models.PlanTemplate{
				ID:        "daily-ops",
				Name:      "Daily Operations",
				Type:      models.PlanTypeDaily,
				Category:  "operations",
				IsDefault: true,
			},
			Goals: []models.GoalTemplate{
				{ID: "G1", TemplateID: "daily-ops", Title: "Stock ready before opening", Category: "production"},
				{ID: "G2", TemplateID: "daily-ops", Title: "Register reconciled", Category: "sales"},
			},
			Tasks: []models.TaskTemplate{
				{ID: "T1", TemplateID: "daily-ops", Title: "Prep ingredients", Category: "production", Priority: models.PriorityHigh},
				{ID: "T2", TemplateID: "daily-ops", Title: "Produce the day's batch", Category: "production", Dependencies: []string{"T1"}},
				{ID: "T3", TemplateID: "daily-ops", Title: "Open register and float", Category: "sales"},
				{ID: "T4", TemplateID: "daily-ops", Title: "Close out and reconcile", Category: "sales", Dependencies: []string{"T3"}},
			},
		},
		{
			Template: models.PlanTemplate{
				ID:       "weekly-stock",
				Name:     "Weekly Stock Check",
				Type:     models.PlanTypeWeekly,
				Category: "inventory",
			},
			Tasks: []models.TaskTemplate{
				{ID: "T1", TemplateID: "weekly-stock", Title: "Count ingredient stock", Category: "inventory"},
				{ID: "T2", TemplateID: "weekly-stock", Title: "Place supplier orders", Category: "inventory", Dependencies: []string{"T1"}},
			},
		},
		{
			Template: models.PlanTemplate{
				ID:       "monthly-close",
				Name:     "Monthly Close",
				Type:     models.PlanTypeMonthly,
				Category: "finance",
			},
			Tasks: []models.TaskTemplate{
				{ID: "T1", TemplateID: "monthly-close", Title: "Review expense ledger", Category: "finance"},
				{ID: "T2", TemplateID: "monthly-close", Title: "Review margins per product", Category: "finance"},
			},
		},
	}
}

var templateSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write starter templates into the template catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		if TemplateMgr == nil {
			return fmt.Errorf("template store not initialized")
		}
		if err := TemplateMgr.Load(); err != nil {
			return fmt.Errorf("seeding templates: %w", err)
		}

		var written int
		for _, record := range starterTemplates() {
			// Existing templates are left alone so seeding is re-runnable.
			if _, err := TemplateMgr.GetTemplate(record.Template.ID); err == nil {
				continue
			}
			if err := TemplateMgr.PutTemplate(record); err != nil {
				return fmt.Errorf("seeding templates: %w", err)
			}
			written++
		}
		if written == 0 {
			fmt.Println("All starter templates already present.")
			return nil
		}
		if err := TemplateMgr.Save(); err != nil {
			return fmt.Errorf("seeding templates: %w", err)
		}
		fmt.Printf("Seeded %d starter template(s)\n", written)
		return nil
	},
}

var templateRemoveCmd = &cobra.Command{
	Use:   "remove <template-id>",
	Short: "Remove a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TemplateMgr == nil {
			return fmt.Errorf("template store not initialized")
		}
		if err := TemplateMgr.Load(); err != nil {
			return fmt.Errorf("removing template: %w", err)
		}
		if err := TemplateMgr.RemoveTemplate(args[0]); err != nil {
			return err
		}
		if err := TemplateMgr.Save(); err != nil {
			return fmt.Errorf("removing template: %w", err)
		}
		fmt.Printf("Removed template %s\n", args[0])
		return nil
	},
}

func init() {
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
	templateCmd.AddCommand(templateLintCmd)
	templateCmd.AddCommand(templateImportCmd)
	templateCmd.AddCommand(templateSeedCmd)
	templateCmd.AddCommand(templateRemoveCmd)
	rootCmd.AddCommand(templateCmd)
}
