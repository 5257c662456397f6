package cli

import (
	"github.com/kwacihq/grow/internal/core"
	"github.com/kwacihq/grow/internal/observability"
	"github.com/kwacihq/grow/internal/storage"
)

// Service instances, set during app initialization in internal/app.go.
// Commands read these rather than constructing services themselves.
var (
	BasePath string
	Currency string

	// Core services.
	BusinessMgr  core.BusinessManager
	Linter       core.TemplateLinter
	Materializer core.Materializer
	PlanMgr      core.PlanManager
	CostCalc     core.CostCalculator
	DepCalc      core.DepreciationCalculator
	SalesMgr     core.SalesManager
	ExpenseMgr   core.ExpenseManager
	IDGen        core.IDGenerator

	// Authoring goes straight to the stores.
	TemplateMgr storage.TemplateManager
	CatalogMgr  storage.CatalogManager
	LedgerMgr   storage.LedgerManager
	BranchMgr   storage.BranchManager

	// Observability.
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
	AlertEngine observability.AlertEngine
	Notifier    observability.Notifier

	// RewireBusiness rebuilds the per-business services for another
	// business ID. Set by app initialization; used by the --business flag.
	RewireBusiness func(businessID string) error
)
