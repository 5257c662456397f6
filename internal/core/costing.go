package core

import (
	"fmt"

	"github.com/kwacihq/grow/pkg/models"
)

// Catalog is the subset of storage.CatalogManager that costing needs.
type Catalog interface {
	GetProduct(id string) (*models.Product, error)
	GetIngredient(id string) (*models.Ingredient, error)
	Load() error
}

// CostLine is one recipe line priced out: quantity of an ingredient times
// its unit cost.
type CostLine struct {
	IngredientID string
	Name         string
	Unit         string
	Quantity     models.Quantity
	UnitCost     models.Money
	LineCost     models.Money
}

// CostBreakdown is the full cost of goods for one portion of a product.
type CostBreakdown struct {
	ProductID string
	Name      string
	Lines     []CostLine
	TotalCost models.Money
}

// MarginReport relates a product's sale price to its cost of goods.
type MarginReport struct {
	ProductID   string
	SalePrice   models.Money
	CostOfGoods models.Money
	GrossProfit models.Money
}

// CostCalculator prices product recipes against the ingredient catalog.
type CostCalculator interface {
	CostOfGoods(productID string) (*CostBreakdown, error)
	Margin(productID string) (*MarginReport, error)
}

type costCalculator struct {
	catalog Catalog
}

// NewCostCalculator creates a CostCalculator over the given catalog.
func NewCostCalculator(catalog Catalog) CostCalculator {
	return &costCalculator{catalog: catalog}
}

// CostOfGoods computes the per-portion cost of a product: the sum over its
// recipe of quantity times ingredient unit cost. A recipe line referencing
// a missing ingredient is an error, not a silent zero.
func (c *costCalculator) CostOfGoods(productID string) (*CostBreakdown, error) {
	if err := c.catalog.Load(); err != nil {
		return nil, fmt.Errorf("costing product %s: %w", productID, err)
	}
	product, err := c.catalog.GetProduct(productID)
	if err != nil {
		return nil, fmt.Errorf("costing product %s: %w", productID, err)
	}

	breakdown := &CostBreakdown{
		ProductID: product.ID,
		Name:      product.Name,
		TotalCost: models.ZeroMoney(),
	}

	for _, line := range product.Recipe {
		ingredient, err := c.catalog.GetIngredient(line.IngredientID)
		if err != nil {
			return nil, fmt.Errorf("costing product %s: recipe line: %w", productID, err)
		}
		lineCost := ingredient.UnitCost.Mul(line.Quantity.Decimal())
		breakdown.Lines = append(breakdown.Lines, CostLine{
			IngredientID: ingredient.ID,
			Name:         ingredient.Name,
			Unit:         ingredient.BaseUnit,
			Quantity:     line.Quantity,
			UnitCost:     ingredient.UnitCost,
			LineCost:     lineCost,
		})
		breakdown.TotalCost = breakdown.TotalCost.Add(lineCost)
	}

	return breakdown, nil
}

// Margin reports the gross profit of one portion at the product's current
// sale price.
func (c *costCalculator) Margin(productID string) (*MarginReport, error) {
	breakdown, err := c.CostOfGoods(productID)
	if err != nil {
		return nil, err
	}
	product, err := c.catalog.GetProduct(productID)
	if err != nil {
		return nil, fmt.Errorf("computing margin for %s: %w", productID, err)
	}

	return &MarginReport{
		ProductID:   product.ID,
		SalePrice:   product.SalePrice,
		CostOfGoods: breakdown.TotalCost,
		GrossProfit: product.SalePrice.Sub(breakdown.TotalCost),
	}, nil
}
