package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/kwacihq/grow/pkg/models"
	"gopkg.in/yaml.v3"
)

// LedgerFile is the top-level structure of ledger.yaml: the sales history,
// recurring expenses, and fixed assets of one business.
type LedgerFile struct {
	Version  string                             `yaml:"version"`
	Sales    map[string]models.Sale             `yaml:"sales"`
	Expenses map[string]models.RecurringExpense `yaml:"expenses"`
	Assets   map[string]models.FixedAsset       `yaml:"assets"`
}

// SaleFilter specifies criteria for listing sales. All fields use AND
// logic; zero values mean "no constraint".
type SaleFilter struct {
	ProductID string
	BranchID  string
	From      time.Time
	To        time.Time
}

// LedgerManager defines the interface for the financial ledger store.
type LedgerManager interface {
	AddSale(sale models.Sale) error
	GetSale(id string) (*models.Sale, error)
	FilterSales(filter SaleFilter) ([]models.Sale, error)

	AddExpense(expense models.RecurringExpense) error
	GetExpense(id string) (*models.RecurringExpense, error)
	GetAllExpenses() ([]models.RecurringExpense, error)
	RemoveExpense(id string) error

	AddAsset(asset models.FixedAsset) error
	GetAsset(id string) (*models.FixedAsset, error)
	GetAllAssets() ([]models.FixedAsset, error)
	RemoveAsset(id string) error

	Load() error
	Save() error
}

type fileLedgerManager struct {
	basePath string
	data     LedgerFile
}

// NewLedgerManager creates a LedgerManager backed by a ledger.yaml file in
// the given business data directory.
func NewLedgerManager(basePath string) LedgerManager {
	return &fileLedgerManager{
		basePath: basePath,
		data:     emptyLedgerFile(),
	}
}

func emptyLedgerFile() LedgerFile {
	return LedgerFile{
		Version:  "1.0",
		Sales:    make(map[string]models.Sale),
		Expenses: make(map[string]models.RecurringExpense),
		Assets:   make(map[string]models.FixedAsset),
	}
}

func (m *fileLedgerManager) filePath() string {
	return filepath.Join(m.basePath, "ledger.yaml")
}

func (m *fileLedgerManager) AddSale(sale models.Sale) error {
	if sale.ID == "" {
		return fmt.Errorf("adding sale: ID must not be empty")
	}
	if _, exists := m.data.Sales[sale.ID]; exists {
		return fmt.Errorf("adding sale: sale %s already exists", sale.ID)
	}
	m.data.Sales[sale.ID] = sale
	return nil
}

func (m *fileLedgerManager) GetSale(id string) (*models.Sale, error) {
	sale, exists := m.data.Sales[id]
	if !exists {
		return nil, fmt.Errorf("sale %s not found", id)
	}
	return &sale, nil
}

func (m *fileLedgerManager) FilterSales(filter SaleFilter) ([]models.Sale, error) {
	var sales []models.Sale
	for _, sale := range m.data.Sales {
		if matchesSaleFilter(sale, filter) {
			sales = append(sales, sale)
		}
	}
	sort.Slice(sales, func(i, j int) bool {
		if !sales[i].SoldAt.Equal(sales[j].SoldAt) {
			return sales[i].SoldAt.Before(sales[j].SoldAt)
		}
		return sales[i].ID < sales[j].ID
	})
	return sales, nil
}

func matchesSaleFilter(sale models.Sale, filter SaleFilter) bool {
	if filter.ProductID != "" && sale.ProductID != filter.ProductID {
		return false
	}
	if filter.BranchID != "" && sale.BranchID != filter.BranchID {
		return false
	}
	if !filter.From.IsZero() && sale.SoldAt.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && !sale.SoldAt.Before(filter.To) {
		return false
	}
	return true
}

func (m *fileLedgerManager) AddExpense(expense models.RecurringExpense) error {
	if expense.ID == "" {
		return fmt.Errorf("adding expense: ID must not be empty")
	}
	if _, exists := m.data.Expenses[expense.ID]; exists {
		return fmt.Errorf("adding expense: expense %s already exists", expense.ID)
	}
	m.data.Expenses[expense.ID] = expense
	return nil
}

func (m *fileLedgerManager) GetExpense(id string) (*models.RecurringExpense, error) {
	expense, exists := m.data.Expenses[id]
	if !exists {
		return nil, fmt.Errorf("expense %s not found", id)
	}
	return &expense, nil
}

func (m *fileLedgerManager) GetAllExpenses() ([]models.RecurringExpense, error) {
	expenses := make([]models.RecurringExpense, 0, len(m.data.Expenses))
	for _, expense := range m.data.Expenses {
		expenses = append(expenses, expense)
	}
	sort.Slice(expenses, func(i, j int) bool {
		return expenses[i].ID < expenses[j].ID
	})
	return expenses, nil
}

func (m *fileLedgerManager) RemoveExpense(id string) error {
	if _, exists := m.data.Expenses[id]; !exists {
		return fmt.Errorf("removing expense: expense %s not found", id)
	}
	delete(m.data.Expenses, id)
	return nil
}

func (m *fileLedgerManager) AddAsset(asset models.FixedAsset) error {
	if asset.ID == "" {
		return fmt.Errorf("adding asset: ID must not be empty")
	}
	if _, exists := m.data.Assets[asset.ID]; exists {
		return fmt.Errorf("adding asset: asset %s already exists", asset.ID)
	}
	m.data.Assets[asset.ID] = asset
	return nil
}

func (m *fileLedgerManager) GetAsset(id string) (*models.FixedAsset, error) {
	asset, exists := m.data.Assets[id]
	if !exists {
		return nil, fmt.Errorf("asset %s not found", id)
	}
	return &asset, nil
}

func (m *fileLedgerManager) GetAllAssets() ([]models.FixedAsset, error) {
	assets := make([]models.FixedAsset, 0, len(m.data.Assets))
	for _, asset := range m.data.Assets {
		assets = append(assets, asset)
	}
	sort.Slice(assets, func(i, j int) bool {
		return assets[i].ID < assets[j].ID
	})
	return assets, nil
}

func (m *fileLedgerManager) RemoveAsset(id string) error {
	if _, exists := m.data.Assets[id]; !exists {
		return fmt.Errorf("removing asset: asset %s not found", id)
	}
	delete(m.data.Assets, id)
	return nil
}

func (m *fileLedgerManager) Load() error {
	data, err := os.ReadFile(m.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			m.data = emptyLedgerFile()
			return nil
		}
		return fmt.Errorf("loading ledger: %w", err)
	}

	var file LedgerFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing ledger.yaml: %w", err)
	}
	if file.Sales == nil {
		file.Sales = make(map[string]models.Sale)
	}
	if file.Expenses == nil {
		file.Expenses = make(map[string]models.RecurringExpense)
	}
	if file.Assets == nil {
		file.Assets = make(map[string]models.FixedAsset)
	}
	m.data = file
	return nil
}

func (m *fileLedgerManager) Save() error {
	data, err := yaml.Marshal(m.data)
	if err != nil {
		return fmt.Errorf("marshalling ledger: %w", err)
	}
	if err := os.MkdirAll(m.basePath, 0o750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(m.filePath(), data, 0o600); err != nil {
		return fmt.Errorf("saving ledger.yaml: %w", err)
	}
	return nil
}
