package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/kwacihq/grow/pkg/models"
	"gopkg.in/yaml.v3"
)

// RegistryFile is the top-level structure of businesses.yaml, kept at the
// base path (outside any business data directory).
type RegistryFile struct {
	Version    string                     `yaml:"version"`
	Default    string                     `yaml:"default,omitempty"`
	Businesses map[string]models.Business `yaml:"businesses"`
}

// BusinessRegistry defines the interface for the business registry. The
// registry only lists businesses; each business's records live in its own
// data directory resolved via DataDir.
type BusinessRegistry interface {
	AddBusiness(business models.Business) error
	GetBusiness(id string) (*models.Business, error)
	GetAllBusinesses() ([]models.Business, error)
	RemoveBusiness(id string) error
	SetDefault(id string) error
	DefaultBusiness() string
	DataDir(id string) string
	Load() error
	Save() error
}

type fileBusinessRegistry struct {
	basePath string
	data     RegistryFile
}

// NewBusinessRegistry creates a BusinessRegistry backed by businesses.yaml
// in the given base directory.
func NewBusinessRegistry(basePath string) BusinessRegistry {
	return &fileBusinessRegistry{
		basePath: basePath,
		data: RegistryFile{
			Version:    "1.0",
			Businesses: make(map[string]models.Business),
		},
	}
}

func (r *fileBusinessRegistry) filePath() string {
	return filepath.Join(r.basePath, "businesses.yaml")
}

// DataDir returns the isolated data directory for a business. Every store
// for that business is rooted here and nowhere else.
func (r *fileBusinessRegistry) DataDir(id string) string {
	return filepath.Join(r.basePath, "businesses", id)
}

func (r *fileBusinessRegistry) AddBusiness(business models.Business) error {
	if business.ID == "" {
		return fmt.Errorf("adding business: ID must not be empty")
	}
	if _, exists := r.data.Businesses[business.ID]; exists {
		return fmt.Errorf("adding business: business %s already exists", business.ID)
	}
	r.data.Businesses[business.ID] = business
	if r.data.Default == "" {
		r.data.Default = business.ID
	}
	return nil
}

func (r *fileBusinessRegistry) GetBusiness(id string) (*models.Business, error) {
	business, exists := r.data.Businesses[id]
	if !exists {
		return nil, fmt.Errorf("business %s not found", id)
	}
	return &business, nil
}

func (r *fileBusinessRegistry) GetAllBusinesses() ([]models.Business, error) {
	businesses := make([]models.Business, 0, len(r.data.Businesses))
	for _, business := range r.data.Businesses {
		businesses = append(businesses, business)
	}
	sort.Slice(businesses, func(i, j int) bool {
		return businesses[i].ID < businesses[j].ID
	})
	return businesses, nil
}

func (r *fileBusinessRegistry) RemoveBusiness(id string) error {
	if _, exists := r.data.Businesses[id]; !exists {
		return fmt.Errorf("removing business: business %s not found", id)
	}
	delete(r.data.Businesses, id)
	if r.data.Default == id {
		r.data.Default = ""
	}
	return nil
}

func (r *fileBusinessRegistry) SetDefault(id string) error {
	if _, exists := r.data.Businesses[id]; !exists {
		return fmt.Errorf("setting default business: business %s not found", id)
	}
	r.data.Default = id
	return nil
}

func (r *fileBusinessRegistry) DefaultBusiness() string {
	return r.data.Default
}

func (r *fileBusinessRegistry) Load() error {
	data, err := os.ReadFile(r.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			r.data = RegistryFile{
				Version:    "1.0",
				Businesses: make(map[string]models.Business),
			}
			return nil
		}
		return fmt.Errorf("loading business registry: %w", err)
	}

	var file RegistryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing businesses.yaml: %w", err)
	}
	if file.Businesses == nil {
		file.Businesses = make(map[string]models.Business)
	}
	r.data = file
	return nil
}

func (r *fileBusinessRegistry) Save() error {
	data, err := yaml.Marshal(r.data)
	if err != nil {
		return fmt.Errorf("marshalling business registry: %w", err)
	}
	if err := os.MkdirAll(r.basePath, 0o750); err != nil {
		return fmt.Errorf("creating base directory: %w", err)
	}
	if err := os.WriteFile(r.filePath(), data, 0o600); err != nil {
		return fmt.Errorf("saving businesses.yaml: %w", err)
	}
	return nil
}
