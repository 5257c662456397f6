package core

import (
	"fmt"
	"time"

	"github.com/kwacihq/grow/pkg/models"
)

// SalesLedger is the subset of storage.LedgerManager that sales recording
// needs. The filter type is redeclared here so core stays independent of
// the storage package.
type SalesLedger interface {
	AddSale(sale models.Sale) error
	FilterSales(filter SalesFilter) ([]models.Sale, error)
	Load() error
	Save() error
}

// SalesFilter mirrors storage.SaleFilter.
type SalesFilter struct {
	ProductID string
	BranchID  string
	From      time.Time
	To        time.Time
}

// BranchChecker validates branch references on incoming sales.
type BranchChecker interface {
	GetBranch(id string) (*models.Branch, error)
	Load() error
}

// SaleInput carries the caller-supplied fields of a new sale.
type SaleInput struct {
	ProductID string
	BranchID  string
	Quantity  models.Quantity
	UnitPrice models.Money // zero means "use the product's sale price"
	SoldAt    time.Time    // zero means now
	Note      string
}

// SalesSummary aggregates a date range of sales. TotalCOGS prices the sold
// quantities at the products' current recipe cost, so GrossProfit reflects
// today's ingredient prices, not those at sale time.
type SalesSummary struct {
	From         time.Time
	To           time.Time
	SaleCount    int
	TotalRevenue models.Money
	TotalCOGS    models.Money
	GrossProfit  models.Money
	ByProduct    map[string]models.Money
	ByBranch     map[string]models.Money
}

// SalesManager records sales and produces revenue summaries.
type SalesManager interface {
	RecordSale(input SaleInput) (*models.Sale, error)
	ListSales(filter SalesFilter) ([]models.Sale, error)
	Summarize(filter SalesFilter) (*SalesSummary, error)
}

type salesManager struct {
	ledger   SalesLedger
	catalog  Catalog
	branches BranchChecker
	idGen    IDGenerator
	now      func() time.Time
}

// NewSalesManager creates a SalesManager with all dependencies injected.
// branches may be nil if branch validation is not wanted; now may be nil,
// in which case time.Now is used.
func NewSalesManager(ledger SalesLedger, catalog Catalog, branches BranchChecker, idGen IDGenerator, now func() time.Time) SalesManager {
	if now == nil {
		now = time.Now
	}
	return &salesManager{
		ledger:   ledger,
		catalog:  catalog,
		branches: branches,
		idGen:    idGen,
		now:      now,
	}
}

// RecordSale validates the product (and branch, if given), prices the sale,
// and appends it to the ledger. The total is computed and stored at record
// time so later price edits never rewrite history.
func (sm *salesManager) RecordSale(input SaleInput) (*models.Sale, error) {
	if !input.Quantity.IsPositive() {
		return nil, NewValidationError("recording sale", "quantity must be positive")
	}

	if err := sm.catalog.Load(); err != nil {
		return nil, fmt.Errorf("recording sale: loading catalog: %w", err)
	}
	product, err := sm.catalog.GetProduct(input.ProductID)
	if err != nil {
		return nil, NewValidationError("recording sale", "product %s not found", input.ProductID)
	}

	if input.BranchID != "" && sm.branches != nil {
		if err := sm.branches.Load(); err != nil {
			return nil, fmt.Errorf("recording sale: loading branches: %w", err)
		}
		if _, err := sm.branches.GetBranch(input.BranchID); err != nil {
			return nil, NewValidationError("recording sale", "branch %s not found", input.BranchID)
		}
	}

	unitPrice := input.UnitPrice
	if unitPrice.IsZero() {
		unitPrice = product.SalePrice
	}

	saleID, err := sm.idGen.Next("SALE")
	if err != nil {
		return nil, fmt.Errorf("recording sale: generating ID: %w", err)
	}

	soldAt := input.SoldAt
	if soldAt.IsZero() {
		soldAt = sm.now().UTC()
	}

	sale := models.Sale{
		ID:        saleID,
		ProductID: product.ID,
		BranchID:  input.BranchID,
		Quantity:  input.Quantity,
		UnitPrice: unitPrice,
		Total:     unitPrice.Mul(input.Quantity.Decimal()),
		SoldAt:    soldAt,
		Note:      input.Note,
	}

	if err := sm.ledger.Load(); err != nil {
		return nil, fmt.Errorf("recording sale: loading ledger: %w", err)
	}
	if err := sm.ledger.AddSale(sale); err != nil {
		return nil, fmt.Errorf("recording sale: %w", err)
	}
	if err := sm.ledger.Save(); err != nil {
		return nil, fmt.Errorf("recording sale: saving ledger: %w", err)
	}

	return &sale, nil
}

func (sm *salesManager) ListSales(filter SalesFilter) ([]models.Sale, error) {
	if err := sm.ledger.Load(); err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	sales, err := sm.ledger.FilterSales(filter)
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	return sales, nil
}

// Summarize totals revenue and cost of goods over the filtered sales, broken
// down by product and by branch. Sales without a branch are grouped under
// "unassigned". A sale referencing a product that can no longer be costed is
// an error, not a silent zero.
func (sm *salesManager) Summarize(filter SalesFilter) (*SalesSummary, error) {
	sales, err := sm.ListSales(filter)
	if err != nil {
		return nil, fmt.Errorf("summarizing sales: %w", err)
	}

	summary := &SalesSummary{
		From:         filter.From,
		To:           filter.To,
		TotalRevenue: models.ZeroMoney(),
		TotalCOGS:    models.ZeroMoney(),
		ByProduct:    make(map[string]models.Money),
		ByBranch:     make(map[string]models.Money),
	}

	costs := NewCostCalculator(sm.catalog)
	unitCosts := make(map[string]models.Money)

	for _, sale := range sales {
		summary.SaleCount++
		summary.TotalRevenue = summary.TotalRevenue.Add(sale.Total)

		unitCost, ok := unitCosts[sale.ProductID]
		if !ok {
			breakdown, err := costs.CostOfGoods(sale.ProductID)
			if err != nil {
				return nil, fmt.Errorf("summarizing sales: %w", err)
			}
			unitCost = breakdown.TotalCost
			unitCosts[sale.ProductID] = unitCost
		}
		summary.TotalCOGS = summary.TotalCOGS.Add(unitCost.Mul(sale.Quantity.Decimal()))

		productTotal, ok := summary.ByProduct[sale.ProductID]
		if !ok {
			productTotal = models.ZeroMoney()
		}
		summary.ByProduct[sale.ProductID] = productTotal.Add(sale.Total)

		branchKey := sale.BranchID
		if branchKey == "" {
			branchKey = "unassigned"
		}
		branchTotal, ok := summary.ByBranch[branchKey]
		if !ok {
			branchTotal = models.ZeroMoney()
		}
		summary.ByBranch[branchKey] = branchTotal.Add(sale.Total)
	}

	summary.GrossProfit = summary.TotalRevenue.Sub(summary.TotalCOGS)

	return summary, nil
}
