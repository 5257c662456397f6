package core

import (
	"fmt"
)

// LintIssue is one problem found in a template definition.
type LintIssue struct {
	TemplateID string
	TaskID     string
	Message    string
}

func (i LintIssue) String() string {
	if i.TaskID != "" {
		return fmt.Sprintf("%s/%s: %s", i.TemplateID, i.TaskID, i.Message)
	}
	return fmt.Sprintf("%s: %s", i.TemplateID, i.Message)
}

// TemplateLinter checks template definitions for problems that
// materialization tolerates silently, most importantly dangling task
// dependencies. Materialization drops unresolvable dependency entries;
// lint is where authors find out about them.
type TemplateLinter interface {
	Lint(templateID string) ([]LintIssue, error)
}

type templateLinter struct {
	templates TemplateSource
}

// NewTemplateLinter creates a TemplateLinter over the given template source.
func NewTemplateLinter(templates TemplateSource) TemplateLinter {
	return &templateLinter{templates: templates}
}

// Lint loads the template and reports duplicate task IDs, dangling
// dependency references, self-dependencies, and goal templates without a
// category (which can never link to any task).
func (l *templateLinter) Lint(templateID string) ([]LintIssue, error) {
	if err := l.templates.Load(); err != nil {
		return nil, fmt.Errorf("linting template %s: %w", templateID, err)
	}
	if _, err := l.templates.GetTemplate(templateID); err != nil {
		return nil, fmt.Errorf("linting template %s: %w", templateID, err)
	}
	taskTemplates, err := l.templates.GetTaskTemplates(templateID)
	if err != nil {
		return nil, fmt.Errorf("linting template %s: %w", templateID, err)
	}
	goalTemplates, err := l.templates.GetGoalTemplates(templateID)
	if err != nil {
		return nil, fmt.Errorf("linting template %s: %w", templateID, err)
	}

	var issues []LintIssue

	known := make(map[string]bool, len(taskTemplates))
	for _, tt := range taskTemplates {
		if known[tt.ID] {
			issues = append(issues, LintIssue{
				TemplateID: templateID,
				TaskID:     tt.ID,
				Message:    "duplicate task template ID",
			})
		}
		known[tt.ID] = true
	}

	for _, tt := range taskTemplates {
		for _, dep := range tt.Dependencies {
			switch {
			case dep == tt.ID:
				issues = append(issues, LintIssue{
					TemplateID: templateID,
					TaskID:     tt.ID,
					Message:    "task depends on itself",
				})
			case !known[dep]:
				issues = append(issues, LintIssue{
					TemplateID: templateID,
					TaskID:     tt.ID,
					Message:    fmt.Sprintf("dependency %s does not exist in this template (it will be dropped at materialization)", dep),
				})
			}
		}
	}

	for _, gt := range goalTemplates {
		if gt.Category == "" {
			issues = append(issues, LintIssue{
				TemplateID: templateID,
				Message:    fmt.Sprintf("goal template %s has no category and can never link to tasks", gt.ID),
			})
		}
	}

	return issues, nil
}
