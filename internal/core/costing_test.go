package core

import (
	"testing"

	"github.com/kwacihq/grow/pkg/models"
)

func mustMoney(t testing.TB, s string) models.Money {
	t.Helper()
	m, err := models.MoneyFromString(s)
	if err != nil {
		t.Fatalf("bad money literal %q: %v", s, err)
	}
	return m
}

func mustQty(t testing.TB, s string) models.Quantity {
	t.Helper()
	q, err := models.QuantityFromString(s)
	if err != nil {
		t.Fatalf("bad quantity literal %q: %v", s, err)
	}
	return q
}

func latteCatalog(t testing.TB) *fakeCatalog {
	catalog := newFakeCatalog()
	catalog.ingredients["ING-1"] = models.Ingredient{
		ID: "ING-1", Name: "Coffee beans", BaseUnit: "g", UnitCost: mustMoney(t, "0.5"),
	}
	catalog.ingredients["ING-2"] = models.Ingredient{
		ID: "ING-2", Name: "Milk", BaseUnit: "ml", UnitCost: mustMoney(t, "0.02"),
	}
	catalog.products["PROD-1"] = models.Product{
		ID: "PROD-1", Name: "Latte", SalePrice: mustMoney(t, "25"),
		Recipe: []models.RecipeLine{
			{IngredientID: "ING-1", Quantity: mustQty(t, "18")},
			{IngredientID: "ING-2", Quantity: mustQty(t, "150")},
		},
	}
	return catalog
}

func TestCostOfGoods_SumsRecipeLines(t *testing.T) {
	calc := NewCostCalculator(latteCatalog(t))

	breakdown, err := calc.CostOfGoods("PROD-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 18g * 0.5 + 150ml * 0.02 = 9 + 3 = 12.
	if !breakdown.TotalCost.Equal(mustMoney(t, "12")) {
		t.Errorf("expected total cost 12, got %s", breakdown.TotalCost)
	}
	if len(breakdown.Lines) != 2 {
		t.Fatalf("expected 2 cost lines, got %d", len(breakdown.Lines))
	}
	if !breakdown.Lines[0].LineCost.Equal(mustMoney(t, "9")) {
		t.Errorf("expected first line cost 9, got %s", breakdown.Lines[0].LineCost)
	}
}

func TestCostOfGoods_EmptyRecipe(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.products["PROD-1"] = models.Product{ID: "PROD-1", Name: "Bottled water", SalePrice: mustMoney(t, "5")}

	calc := NewCostCalculator(catalog)
	breakdown, err := calc.CostOfGoods("PROD-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !breakdown.TotalCost.IsZero() {
		t.Errorf("expected zero cost, got %s", breakdown.TotalCost)
	}
}

func TestCostOfGoods_MissingIngredientIsError(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.products["PROD-1"] = models.Product{
		ID: "PROD-1", Name: "Mystery drink", SalePrice: mustMoney(t, "10"),
		Recipe: []models.RecipeLine{{IngredientID: "ING-9", Quantity: mustQty(t, "1")}},
	}

	calc := NewCostCalculator(catalog)
	if _, err := calc.CostOfGoods("PROD-1"); err == nil {
		t.Error("expected error for recipe referencing a missing ingredient")
	}
}

func TestCostOfGoods_ProductNotFound(t *testing.T) {
	calc := NewCostCalculator(newFakeCatalog())
	if _, err := calc.CostOfGoods("PROD-404"); err == nil {
		t.Error("expected error for unknown product")
	}
}

func TestMargin_GrossProfit(t *testing.T) {
	calc := NewCostCalculator(latteCatalog(t))

	report, err := calc.Margin("PROD-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.SalePrice.Equal(mustMoney(t, "25")) {
		t.Errorf("expected sale price 25, got %s", report.SalePrice)
	}
	if !report.CostOfGoods.Equal(mustMoney(t, "12")) {
		t.Errorf("expected cost 12, got %s", report.CostOfGoods)
	}
	if !report.GrossProfit.Equal(mustMoney(t, "13")) {
		t.Errorf("expected gross profit 13, got %s", report.GrossProfit)
	}
}

func TestMargin_NegativeWhenSoldBelowCost(t *testing.T) {
	catalog := latteCatalog(t)
	product := catalog.products["PROD-1"]
	product.SalePrice = mustMoney(t, "10")
	catalog.products["PROD-1"] = product

	calc := NewCostCalculator(catalog)
	report, err := calc.Margin("PROD-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.GrossProfit.IsNegative() {
		t.Errorf("expected negative gross profit, got %s", report.GrossProfit)
	}
}
