package models

import "time"

// Sale is one recorded sale of a product at a branch. Total is computed at
// record time as Quantity * UnitPrice and stored, so historical totals are
// unaffected by later price changes.
type Sale struct {
	ID        string    `yaml:"id"`
	ProductID string    `yaml:"product_id"`
	BranchID  string    `yaml:"branch_id,omitempty"`
	Quantity  Quantity  `yaml:"quantity"`
	UnitPrice Money     `yaml:"unit_price"`
	Total     Money     `yaml:"total"`
	SoldAt    time.Time `yaml:"sold_at"`
	Note      string    `yaml:"note,omitempty"`
}

// ExpenseCadence is how often a recurring expense repeats.
type ExpenseCadence string

const (
	CadenceDaily   ExpenseCadence = "daily"
	CadenceWeekly  ExpenseCadence = "weekly"
	CadenceMonthly ExpenseCadence = "monthly"
	CadenceYearly  ExpenseCadence = "yearly"
)

// RecurringExpense is a repeating operating cost (rent, salaries, power).
type RecurringExpense struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name"`
	Category string         `yaml:"category,omitempty"`
	Amount   Money          `yaml:"amount"`
	Cadence  ExpenseCadence `yaml:"cadence"`
	BranchID string         `yaml:"branch_id,omitempty"`
	Note     string         `yaml:"note,omitempty"`
}

// FixedAsset is a depreciable purchase (espresso machine, grinder, van).
// Depreciation is straight-line over UsefulLifeMonths down to SalvageValue.
type FixedAsset struct {
	ID               string    `yaml:"id"`
	Name             string    `yaml:"name"`
	PurchasePrice    Money     `yaml:"purchase_price"`
	SalvageValue     Money     `yaml:"salvage_value"`
	UsefulLifeMonths int       `yaml:"useful_life_months"`
	PurchaseDate     time.Time `yaml:"purchase_date"`
	BranchID         string    `yaml:"branch_id,omitempty"`
	Note             string    `yaml:"note,omitempty"`
}
