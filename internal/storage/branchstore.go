package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/kwacihq/grow/pkg/models"
	"gopkg.in/yaml.v3"
)

// BranchFile is the top-level structure of branches.yaml.
type BranchFile struct {
	Version  string                   `yaml:"version"`
	Branches map[string]models.Branch `yaml:"branches"`
}

// BranchManager defines the interface for a business's branch list.
type BranchManager interface {
	AddBranch(branch models.Branch) error
	GetBranch(id string) (*models.Branch, error)
	GetAllBranches() ([]models.Branch, error)
	RemoveBranch(id string) error
	Load() error
	Save() error
}

type fileBranchManager struct {
	basePath string
	data     BranchFile
}

// NewBranchManager creates a BranchManager backed by a branches.yaml file
// in the given business data directory.
func NewBranchManager(basePath string) BranchManager {
	return &fileBranchManager{
		basePath: basePath,
		data: BranchFile{
			Version:  "1.0",
			Branches: make(map[string]models.Branch),
		},
	}
}

func (m *fileBranchManager) filePath() string {
	return filepath.Join(m.basePath, "branches.yaml")
}

func (m *fileBranchManager) AddBranch(branch models.Branch) error {
	if branch.ID == "" {
		return fmt.Errorf("adding branch: ID must not be empty")
	}
	if _, exists := m.data.Branches[branch.ID]; exists {
		return fmt.Errorf("adding branch: branch %s already exists", branch.ID)
	}
	m.data.Branches[branch.ID] = branch
	return nil
}

func (m *fileBranchManager) GetBranch(id string) (*models.Branch, error) {
	branch, exists := m.data.Branches[id]
	if !exists {
		return nil, fmt.Errorf("branch %s not found", id)
	}
	return &branch, nil
}

func (m *fileBranchManager) GetAllBranches() ([]models.Branch, error) {
	branches := make([]models.Branch, 0, len(m.data.Branches))
	for _, branch := range m.data.Branches {
		branches = append(branches, branch)
	}
	sort.Slice(branches, func(i, j int) bool {
		return branches[i].ID < branches[j].ID
	})
	return branches, nil
}

func (m *fileBranchManager) RemoveBranch(id string) error {
	if _, exists := m.data.Branches[id]; !exists {
		return fmt.Errorf("removing branch: branch %s not found", id)
	}
	delete(m.data.Branches, id)
	return nil
}

func (m *fileBranchManager) Load() error {
	data, err := os.ReadFile(m.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			m.data = BranchFile{
				Version:  "1.0",
				Branches: make(map[string]models.Branch),
			}
			return nil
		}
		return fmt.Errorf("loading branches: %w", err)
	}

	var file BranchFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing branches.yaml: %w", err)
	}
	if file.Branches == nil {
		file.Branches = make(map[string]models.Branch)
	}
	m.data = file
	return nil
}

func (m *fileBranchManager) Save() error {
	data, err := yaml.Marshal(m.data)
	if err != nil {
		return fmt.Errorf("marshalling branches: %w", err)
	}
	if err := os.MkdirAll(m.basePath, 0o750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(m.filePath(), data, 0o600); err != nil {
		return fmt.Errorf("saving branches.yaml: %w", err)
	}
	return nil
}
