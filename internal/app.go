// Package internal provides the App struct that wires all components of
// KWACI Grow together and initializes the CLI layer.
package internal

import (
	"os"
	"path/filepath"

	"github.com/kwacihq/grow/internal/cli"
	"github.com/kwacihq/grow/internal/core"
	"github.com/kwacihq/grow/internal/observability"
	"github.com/kwacihq/grow/internal/storage"
	"github.com/kwacihq/grow/pkg/models"
)

// App holds all service dependencies for KWACI Grow.
type App struct {
	BasePath   string
	BusinessID string

	// Configuration
	ConfigMgr core.ConfigurationManager
	Config    *models.GlobalConfig

	// Business registry (shared across businesses)
	Registry    storage.BusinessRegistry
	BusinessMgr core.BusinessManager

	// Per-business storage layer
	TemplateMgr storage.TemplateManager
	PlanStore   storage.PlanStoreManager
	CatalogMgr  storage.CatalogManager
	LedgerMgr   storage.LedgerManager
	BranchMgr   storage.BranchManager

	// Per-business core services
	IDGen        core.IDGenerator
	Materializer core.Materializer
	PlanMgr      core.PlanManager
	Linter       core.TemplateLinter
	CostCalc     core.CostCalculator
	DepCalc      core.DepreciationCalculator
	SalesMgr     core.SalesManager
	ExpenseMgr   core.ExpenseManager

	// Observability
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
}

// NewApp creates and wires all components. basePath is the root directory
// where the business registry and all business data directories live
// (typically ~/.grow or the directory containing .growconfig).
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadConfig()
	if err != nil {
		cfg = core.DefaultConfig()
	}
	app.Config = cfg

	// --- Business registry ---
	app.Registry = storage.NewBusinessRegistry(basePath)
	app.BusinessMgr = core.NewBusinessManager(app.Registry, nil)

	cli.BasePath = basePath
	cli.Currency = cfg.Currency
	cli.BusinessMgr = app.BusinessMgr
	cli.RewireBusiness = app.wireBusiness

	// Wire the configured business if one can be resolved. Before the
	// first 'grow business add' there is nothing to wire, and every
	// business-scoped command reports itself unavailable.
	if businessID, err := app.BusinessMgr.ResolveBusiness(cfg.DefaultBusiness); err == nil {
		if err := app.wireBusiness(businessID); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// wireBusiness builds the storage and service graph for one business's
// data directory and points the CLI package at it.
func (a *App) wireBusiness(businessID string) error {
	resolved, err := a.BusinessMgr.ResolveBusiness(businessID)
	if err != nil {
		return err
	}
	a.BusinessID = resolved
	dataDir := a.BusinessMgr.DataDir(resolved)

	// The business's own currency wins over the global setting.
	if business, err := a.Registry.GetBusiness(resolved); err == nil && business.Currency != "" {
		cli.Currency = business.Currency
	}

	// --- Storage layer ---
	a.TemplateMgr = storage.NewTemplateManager(dataDir)
	a.PlanStore = storage.NewPlanStoreManager(dataDir)
	a.CatalogMgr = storage.NewCatalogManager(dataDir)
	a.LedgerMgr = storage.NewLedgerManager(dataDir)
	a.BranchMgr = storage.NewBranchManager(dataDir)

	// --- Observability ---
	if a.EventLog != nil {
		_ = a.EventLog.Close()
		a.EventLog = nil
	}
	eventLogPath := filepath.Join(dataDir, ".grow_events.jsonl")
	eventLog, err := observability.NewJSONLEventLog(eventLogPath)
	if err != nil {
		// Non-fatal: disable observability if the log can't be created.
		eventLog = nil
	}
	a.EventLog = eventLog
	a.AlertEngine = nil
	a.MetricsCalc = nil
	if a.EventLog != nil {
		thresholds := observability.DefaultAlertThresholds()
		if a.Config.BlockedTaskHours > 0 {
			thresholds.BlockedHours = a.Config.BlockedTaskHours
		}
		if a.Config.StaleTaskDays > 0 {
			thresholds.StaleTaskDays = a.Config.StaleTaskDays
		}
		if a.Config.MaxOpenPlans > 0 {
			thresholds.MaxOpenPlans = a.Config.MaxOpenPlans
		}
		a.AlertEngine = observability.NewAlertEngine(a.EventLog, thresholds)
		a.MetricsCalc = observability.NewMetricsCalculator(a.EventLog)
	}
	if a.Config.AlertWebhookURL != "" {
		a.Notifier = observability.NewWebhookNotifier(a.Config.AlertWebhookURL)
	}

	// --- Core services ---
	a.IDGen = core.NewIDGenerator(dataDir, a.Config.IDPadWidth)
	a.Materializer = core.NewMaterializer(a.TemplateMgr, a.PlanStore, a.IDGen, nil)
	a.PlanMgr = core.NewPlanManager(a.PlanStore, nil)
	a.Linter = core.NewTemplateLinter(a.TemplateMgr)
	a.CostCalc = core.NewCostCalculator(a.CatalogMgr)
	a.DepCalc = core.NewDepreciationCalculator(a.LedgerMgr)
	a.SalesMgr = core.NewSalesManager(&salesLedgerAdapter{mgr: a.LedgerMgr}, a.CatalogMgr, a.BranchMgr, a.IDGen, nil)
	a.ExpenseMgr = core.NewExpenseManager(a.LedgerMgr, a.IDGen)

	// --- Wire CLI package-level variables ---
	cli.IDGen = a.IDGen
	cli.Materializer = a.Materializer
	cli.PlanMgr = a.PlanMgr
	cli.Linter = a.Linter
	cli.CostCalc = a.CostCalc
	cli.DepCalc = a.DepCalc
	cli.SalesMgr = a.SalesMgr
	cli.ExpenseMgr = a.ExpenseMgr

	cli.TemplateMgr = a.TemplateMgr
	cli.CatalogMgr = a.CatalogMgr
	cli.LedgerMgr = a.LedgerMgr
	cli.BranchMgr = a.BranchMgr

	cli.EventLog = a.EventLog
	cli.AlertEngine = a.AlertEngine
	cli.MetricsCalc = a.MetricsCalc
	cli.Notifier = a.Notifier

	return nil
}

// Close releases resources held by the App, such as the event log file
// handle. It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the base path for the grow data directory.
// It checks the GROW_HOME env var, then walks up from the current
// directory looking for a .growconfig file, then falls back to ~/.grow.
func ResolveBasePath() string {
	if home := os.Getenv("GROW_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err == nil {
		for {
			if _, statErr := os.Stat(filepath.Join(dir, ".growconfig")); statErr == nil {
				return dir
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".grow")
	}
	cwd, _ := os.Getwd()
	return cwd
}

// --- Adapters ---

// salesLedgerAdapter adapts storage.LedgerManager to core.SalesLedger,
// translating between the two filter types.
type salesLedgerAdapter struct {
	mgr storage.LedgerManager
}

func (a *salesLedgerAdapter) AddSale(sale models.Sale) error {
	return a.mgr.AddSale(sale)
}

func (a *salesLedgerAdapter) FilterSales(filter core.SalesFilter) ([]models.Sale, error) {
	return a.mgr.FilterSales(storage.SaleFilter{
		ProductID: filter.ProductID,
		BranchID:  filter.BranchID,
		From:      filter.From,
		To:        filter.To,
	})
}

func (a *salesLedgerAdapter) Load() error {
	return a.mgr.Load()
}

func (a *salesLedgerAdapter) Save() error {
	return a.mgr.Save()
}
