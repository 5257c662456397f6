package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/kwacihq/grow/pkg/models"
	"gopkg.in/yaml.v3"
)

// CatalogFile is the top-level structure of catalog.yaml.
type CatalogFile struct {
	Version     string                       `yaml:"version"`
	Ingredients map[string]models.Ingredient `yaml:"ingredients"`
	Products    map[string]models.Product    `yaml:"products"`
}

// CatalogManager defines the interface for the ingredient and product
// catalog used by the cost calculator.
type CatalogManager interface {
	AddIngredient(ingredient models.Ingredient) error
	GetIngredient(id string) (*models.Ingredient, error)
	GetAllIngredients() ([]models.Ingredient, error)
	UpdateIngredient(ingredient models.Ingredient) error
	RemoveIngredient(id string) error

	AddProduct(product models.Product) error
	GetProduct(id string) (*models.Product, error)
	GetAllProducts() ([]models.Product, error)
	UpdateProduct(product models.Product) error
	RemoveProduct(id string) error

	Load() error
	Save() error
}

type fileCatalogManager struct {
	basePath string
	data     CatalogFile
}

// NewCatalogManager creates a CatalogManager backed by a catalog.yaml file
// in the given business data directory.
func NewCatalogManager(basePath string) CatalogManager {
	return &fileCatalogManager{
		basePath: basePath,
		data:     emptyCatalogFile(),
	}
}

func emptyCatalogFile() CatalogFile {
	return CatalogFile{
		Version:     "1.0",
		Ingredients: make(map[string]models.Ingredient),
		Products:    make(map[string]models.Product),
	}
}

func (m *fileCatalogManager) filePath() string {
	return filepath.Join(m.basePath, "catalog.yaml")
}

func (m *fileCatalogManager) AddIngredient(ingredient models.Ingredient) error {
	if ingredient.ID == "" {
		return fmt.Errorf("adding ingredient: ID must not be empty")
	}
	if _, exists := m.data.Ingredients[ingredient.ID]; exists {
		return fmt.Errorf("adding ingredient: ingredient %s already exists", ingredient.ID)
	}
	m.data.Ingredients[ingredient.ID] = ingredient
	return nil
}

func (m *fileCatalogManager) GetIngredient(id string) (*models.Ingredient, error) {
	ingredient, exists := m.data.Ingredients[id]
	if !exists {
		return nil, fmt.Errorf("ingredient %s not found", id)
	}
	return &ingredient, nil
}

func (m *fileCatalogManager) GetAllIngredients() ([]models.Ingredient, error) {
	ingredients := make([]models.Ingredient, 0, len(m.data.Ingredients))
	for _, ingredient := range m.data.Ingredients {
		ingredients = append(ingredients, ingredient)
	}
	sort.Slice(ingredients, func(i, j int) bool {
		return ingredients[i].ID < ingredients[j].ID
	})
	return ingredients, nil
}

func (m *fileCatalogManager) UpdateIngredient(ingredient models.Ingredient) error {
	if _, exists := m.data.Ingredients[ingredient.ID]; !exists {
		return fmt.Errorf("updating ingredient: ingredient %s not found", ingredient.ID)
	}
	m.data.Ingredients[ingredient.ID] = ingredient
	return nil
}

func (m *fileCatalogManager) RemoveIngredient(id string) error {
	if _, exists := m.data.Ingredients[id]; !exists {
		return fmt.Errorf("removing ingredient: ingredient %s not found", id)
	}
	delete(m.data.Ingredients, id)
	return nil
}

func (m *fileCatalogManager) AddProduct(product models.Product) error {
	if product.ID == "" {
		return fmt.Errorf("adding product: ID must not be empty")
	}
	if _, exists := m.data.Products[product.ID]; exists {
		return fmt.Errorf("adding product: product %s already exists", product.ID)
	}
	m.data.Products[product.ID] = product
	return nil
}

func (m *fileCatalogManager) GetProduct(id string) (*models.Product, error) {
	product, exists := m.data.Products[id]
	if !exists {
		return nil, fmt.Errorf("product %s not found", id)
	}
	return &product, nil
}

func (m *fileCatalogManager) GetAllProducts() ([]models.Product, error) {
	products := make([]models.Product, 0, len(m.data.Products))
	for _, product := range m.data.Products {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].ID < products[j].ID
	})
	return products, nil
}

func (m *fileCatalogManager) UpdateProduct(product models.Product) error {
	if _, exists := m.data.Products[product.ID]; !exists {
		return fmt.Errorf("updating product: product %s not found", product.ID)
	}
	m.data.Products[product.ID] = product
	return nil
}

func (m *fileCatalogManager) RemoveProduct(id string) error {
	if _, exists := m.data.Products[id]; !exists {
		return fmt.Errorf("removing product: product %s not found", id)
	}
	delete(m.data.Products, id)
	return nil
}

func (m *fileCatalogManager) Load() error {
	data, err := os.ReadFile(m.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			m.data = emptyCatalogFile()
			return nil
		}
		return fmt.Errorf("loading catalog: %w", err)
	}

	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing catalog.yaml: %w", err)
	}
	if file.Ingredients == nil {
		file.Ingredients = make(map[string]models.Ingredient)
	}
	if file.Products == nil {
		file.Products = make(map[string]models.Product)
	}
	m.data = file
	return nil
}

func (m *fileCatalogManager) Save() error {
	data, err := yaml.Marshal(m.data)
	if err != nil {
		return fmt.Errorf("marshalling catalog: %w", err)
	}
	if err := os.MkdirAll(m.basePath, 0o750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(m.filePath(), data, 0o600); err != nil {
		return fmt.Errorf("saving catalog.yaml: %w", err)
	}
	return nil
}
