package models

// Ingredient is a purchasable input to one or more products. UnitCost is
// the cost of a single BaseUnit (e.g. per gram, per ml, per piece).
type Ingredient struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	BaseUnit string `yaml:"base_unit"`
	UnitCost Money  `yaml:"unit_cost"`
	Supplier string `yaml:"supplier,omitempty"`
	Note     string `yaml:"note,omitempty"`
}

// RecipeLine is one ingredient usage within a product's recipe: the
// quantity of the ingredient (in its base unit) consumed per portion sold.
type RecipeLine struct {
	IngredientID string   `yaml:"ingredient_id"`
	Quantity     Quantity `yaml:"quantity"`
}

// Product is a sellable item whose cost of goods is derived from its recipe.
type Product struct {
	ID        string       `yaml:"id"`
	Name      string       `yaml:"name"`
	Category  string       `yaml:"category,omitempty"`
	SalePrice Money        `yaml:"sale_price"`
	Recipe    []RecipeLine `yaml:"recipe,omitempty"`
	Note      string       `yaml:"note,omitempty"`
}
