package core

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/kwacihq/grow/pkg/models"
)

// fakeRegistry is an in-memory Registry rooted at a temp dir.
type fakeRegistry struct {
	basePath   string
	businesses map[string]models.Business
	defaultID  string
}

func newFakeRegistry(basePath string) *fakeRegistry {
	return &fakeRegistry{
		basePath:   basePath,
		businesses: make(map[string]models.Business),
	}
}

func (f *fakeRegistry) AddBusiness(business models.Business) error {
	if _, exists := f.businesses[business.ID]; exists {
		return fmt.Errorf("business %s already exists", business.ID)
	}
	f.businesses[business.ID] = business
	if f.defaultID == "" {
		f.defaultID = business.ID
	}
	return nil
}

func (f *fakeRegistry) GetBusiness(id string) (*models.Business, error) {
	b, ok := f.businesses[id]
	if !ok {
		return nil, fmt.Errorf("business %s not found", id)
	}
	return &b, nil
}

func (f *fakeRegistry) GetAllBusinesses() ([]models.Business, error) {
	out := make([]models.Business, 0, len(f.businesses))
	for _, b := range f.businesses {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeRegistry) SetDefault(id string) error {
	if _, ok := f.businesses[id]; !ok {
		return fmt.Errorf("business %s not found", id)
	}
	f.defaultID = id
	return nil
}

func (f *fakeRegistry) DefaultBusiness() string { return f.defaultID }

func (f *fakeRegistry) DataDir(id string) string {
	return filepath.Join(f.basePath, "businesses", id)
}

func (f *fakeRegistry) Load() error { return nil }
func (f *fakeRegistry) Save() error { return nil }

func TestCreateBusiness_CreatesDataDir(t *testing.T) {
	registry := newFakeRegistry(t.TempDir())
	mgr := NewBusinessManager(registry, fixedNow)

	business, err := mgr.CreateBusiness("bakery", "Corner Bakery", "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if business.Name != "Corner Bakery" || business.Currency != "USD" {
		t.Errorf("unexpected business %+v", business)
	}

	info, err := os.Stat(registry.DataDir("bakery"))
	if err != nil || !info.IsDir() {
		t.Errorf("expected data directory to exist: %v", err)
	}
}

func TestCreateBusiness_Defaults(t *testing.T) {
	mgr := NewBusinessManager(newFakeRegistry(t.TempDir()), fixedNow)

	business, err := mgr.CreateBusiness("warung", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if business.Name != "warung" {
		t.Errorf("expected name to default to ID, got %s", business.Name)
	}
	if business.Currency != "IDR" {
		t.Errorf("expected default currency IDR, got %s", business.Currency)
	}
}

func TestCreateBusiness_InvalidIDs(t *testing.T) {
	mgr := NewBusinessManager(newFakeRegistry(t.TempDir()), fixedNow)

	for _, id := range []string{"", "  ", "a b", "a/b", `a\b`} {
		if _, err := mgr.CreateBusiness(id, "", ""); err == nil {
			t.Errorf("expected error for ID %q", id)
		} else if !IsValidation(err) {
			t.Errorf("expected validation error for ID %q, got %v", id, err)
		}
	}
}

func TestResolveBusiness(t *testing.T) {
	registry := newFakeRegistry(t.TempDir())
	mgr := NewBusinessManager(registry, fixedNow)

	if _, err := mgr.ResolveBusiness(""); err == nil {
		t.Error("expected error when no business exists")
	}

	if _, err := mgr.CreateBusiness("bakery", "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := mgr.CreateBusiness("warung", "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// No flag: first business became the default.
	id, err := mgr.ResolveBusiness("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "bakery" {
		t.Errorf("expected default bakery, got %s", id)
	}

	// Explicit flag wins.
	id, err = mgr.ResolveBusiness("warung")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "warung" {
		t.Errorf("expected warung, got %s", id)
	}

	// Unknown flag is a validation error.
	if _, err := mgr.ResolveBusiness("ghost"); err == nil || !IsValidation(err) {
		t.Errorf("expected validation error for unknown business, got %v", err)
	}
}

func TestUseBusiness_ChangesDefault(t *testing.T) {
	registry := newFakeRegistry(t.TempDir())
	mgr := NewBusinessManager(registry, fixedNow)

	if _, err := mgr.CreateBusiness("bakery", "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := mgr.CreateBusiness("warung", "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mgr.UseBusiness("warung"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id, err := mgr.ResolveBusiness("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "warung" {
		t.Errorf("expected default warung after UseBusiness, got %s", id)
	}

	if err := mgr.UseBusiness("ghost"); err == nil {
		t.Error("expected error for unknown business")
	}
}
