package core

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kwacihq/grow/pkg/models"
)

// Registry is the subset of storage.BusinessRegistry that business
// management needs.
type Registry interface {
	AddBusiness(business models.Business) error
	GetBusiness(id string) (*models.Business, error)
	GetAllBusinesses() ([]models.Business, error)
	SetDefault(id string) error
	DefaultBusiness() string
	DataDir(id string) string
	Load() error
	Save() error
}

// BusinessManager defines the interface for creating and selecting
// businesses. Each business owns an isolated data directory; selecting a
// business decides where every other store reads and writes.
type BusinessManager interface {
	CreateBusiness(id, name, currency string) (*models.Business, error)
	ListBusinesses() ([]models.Business, error)
	UseBusiness(id string) error
	ResolveBusiness(flag string) (string, error)
	DataDir(id string) string
}

type businessManager struct {
	registry Registry
	now      func() time.Time
}

// NewBusinessManager creates a BusinessManager over the given registry.
// now may be nil, in which case time.Now is used.
func NewBusinessManager(registry Registry, now func() time.Time) BusinessManager {
	if now == nil {
		now = time.Now
	}
	return &businessManager{registry: registry, now: now}
}

// CreateBusiness registers a business and creates its data directory. The
// first business created becomes the default.
func (bm *businessManager) CreateBusiness(id, name, currency string) (*models.Business, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, NewValidationError("creating business", "ID must not be empty")
	}
	if strings.ContainsAny(id, "/\\ ") {
		return nil, NewValidationError("creating business", "ID %q must not contain spaces or path separators", id)
	}
	if name == "" {
		name = id
	}
	if currency == "" {
		currency = "IDR"
	}

	business := models.Business{
		ID:       id,
		Name:     name,
		Currency: currency,
		Created:  bm.now().UTC(),
	}

	if err := bm.registry.Load(); err != nil {
		return nil, fmt.Errorf("creating business %s: %w", id, err)
	}
	if err := bm.registry.AddBusiness(business); err != nil {
		return nil, fmt.Errorf("creating business %s: %w", id, err)
	}
	if err := bm.registry.Save(); err != nil {
		return nil, fmt.Errorf("creating business %s: %w", id, err)
	}

	if err := os.MkdirAll(bm.registry.DataDir(id), 0o750); err != nil {
		return nil, fmt.Errorf("creating business %s: creating data directory: %w", id, err)
	}

	return &business, nil
}

func (bm *businessManager) ListBusinesses() ([]models.Business, error) {
	if err := bm.registry.Load(); err != nil {
		return nil, fmt.Errorf("listing businesses: %w", err)
	}
	businesses, err := bm.registry.GetAllBusinesses()
	if err != nil {
		return nil, fmt.Errorf("listing businesses: %w", err)
	}
	return businesses, nil
}

// UseBusiness marks a business as the default for subsequent commands.
func (bm *businessManager) UseBusiness(id string) error {
	if err := bm.registry.Load(); err != nil {
		return fmt.Errorf("selecting business %s: %w", id, err)
	}
	if err := bm.registry.SetDefault(id); err != nil {
		return fmt.Errorf("selecting business %s: %w", id, err)
	}
	return bm.registry.Save()
}

// ResolveBusiness picks the business for a command: the explicit flag if
// given, otherwise the registry default. It verifies the business exists.
func (bm *businessManager) ResolveBusiness(flag string) (string, error) {
	if err := bm.registry.Load(); err != nil {
		return "", fmt.Errorf("resolving business: %w", err)
	}

	id := flag
	if id == "" {
		id = bm.registry.DefaultBusiness()
	}
	if id == "" {
		return "", NewValidationError("resolving business",
			"no business selected (create one with 'grow business add')")
	}
	if _, err := bm.registry.GetBusiness(id); err != nil {
		return "", NewValidationError("resolving business", "business %s not found", id)
	}
	return id, nil
}

func (bm *businessManager) DataDir(id string) string {
	return bm.registry.DataDir(id)
}
