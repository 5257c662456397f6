// Package storage provides the file-backed stores for KWACI Grow data:
// plan templates, operational plans, the product catalog, the
// sales/expense/asset ledger, and the business registry. Each store keeps
// one YAML file in the business data directory and follows a
// Load-mutate-Save cycle.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/kwacihq/grow/pkg/models"
	"gopkg.in/yaml.v3"
)

// TemplateRecord bundles a plan template with its goal and task templates.
// Goal and task templates are stored as ordered slices so materialization
// sees them in authored order.
type TemplateRecord struct {
	Template models.PlanTemplate   `yaml:"template"`
	Goals    []models.GoalTemplate `yaml:"goals,omitempty"`
	Tasks    []models.TaskTemplate `yaml:"tasks,omitempty"`
}

// TemplateFile is the top-level structure of templates.yaml.
type TemplateFile struct {
	Version   string                    `yaml:"version"`
	Templates map[string]TemplateRecord `yaml:"templates"`
}

// TemplateManager defines the interface for the plan-template catalog.
// Materialization treats it as read-only; the authoring commands use
// PutTemplate and RemoveTemplate.
type TemplateManager interface {
	GetTemplate(id string) (*models.PlanTemplate, error)
	GetGoalTemplates(templateID string) ([]models.GoalTemplate, error)
	GetTaskTemplates(templateID string) ([]models.TaskTemplate, error)
	GetRecord(id string) (*TemplateRecord, error)
	GetAllTemplates() ([]models.PlanTemplate, error)
	PutTemplate(record TemplateRecord) error
	RemoveTemplate(id string) error
	Load() error
	Save() error
}

type fileTemplateManager struct {
	basePath string
	data     TemplateFile
}

// NewTemplateManager creates a TemplateManager backed by a templates.yaml
// file in the given business data directory.
func NewTemplateManager(basePath string) TemplateManager {
	return &fileTemplateManager{
		basePath: basePath,
		data: TemplateFile{
			Version:   "1.0",
			Templates: make(map[string]TemplateRecord),
		},
	}
}

func (m *fileTemplateManager) filePath() string {
	return filepath.Join(m.basePath, "templates.yaml")
}

func (m *fileTemplateManager) GetTemplate(id string) (*models.PlanTemplate, error) {
	record, exists := m.data.Templates[id]
	if !exists {
		return nil, fmt.Errorf("template %s not found", id)
	}
	tmpl := record.Template
	return &tmpl, nil
}

func (m *fileTemplateManager) GetGoalTemplates(templateID string) ([]models.GoalTemplate, error) {
	record, exists := m.data.Templates[templateID]
	if !exists {
		return nil, fmt.Errorf("template %s not found", templateID)
	}
	goals := make([]models.GoalTemplate, len(record.Goals))
	copy(goals, record.Goals)
	return goals, nil
}

func (m *fileTemplateManager) GetTaskTemplates(templateID string) ([]models.TaskTemplate, error) {
	record, exists := m.data.Templates[templateID]
	if !exists {
		return nil, fmt.Errorf("template %s not found", templateID)
	}
	tasks := make([]models.TaskTemplate, len(record.Tasks))
	copy(tasks, record.Tasks)
	return tasks, nil
}

func (m *fileTemplateManager) GetRecord(id string) (*TemplateRecord, error) {
	record, exists := m.data.Templates[id]
	if !exists {
		return nil, fmt.Errorf("template %s not found", id)
	}
	return &record, nil
}

func (m *fileTemplateManager) GetAllTemplates() ([]models.PlanTemplate, error) {
	templates := make([]models.PlanTemplate, 0, len(m.data.Templates))
	for _, record := range m.data.Templates {
		templates = append(templates, record.Template)
	}
	sort.Slice(templates, func(i, j int) bool {
		return templates[i].ID < templates[j].ID
	})
	return templates, nil
}

func (m *fileTemplateManager) PutTemplate(record TemplateRecord) error {
	if record.Template.ID == "" {
		return fmt.Errorf("putting template: ID must not be empty")
	}
	m.data.Templates[record.Template.ID] = record
	return nil
}

func (m *fileTemplateManager) RemoveTemplate(id string) error {
	if _, exists := m.data.Templates[id]; !exists {
		return fmt.Errorf("removing template: template %s not found", id)
	}
	delete(m.data.Templates, id)
	return nil
}

func (m *fileTemplateManager) Load() error {
	data, err := os.ReadFile(m.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			m.data = TemplateFile{
				Version:   "1.0",
				Templates: make(map[string]TemplateRecord),
			}
			return nil
		}
		return fmt.Errorf("loading templates: %w", err)
	}

	var file TemplateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing templates.yaml: %w", err)
	}
	if file.Templates == nil {
		file.Templates = make(map[string]TemplateRecord)
	}
	m.data = file
	return nil
}

func (m *fileTemplateManager) Save() error {
	data, err := yaml.Marshal(m.data)
	if err != nil {
		return fmt.Errorf("marshalling templates: %w", err)
	}
	if err := os.MkdirAll(m.basePath, 0o750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(m.filePath(), data, 0o600); err != nil {
		return fmt.Errorf("saving templates.yaml: %w", err)
	}
	return nil
}
