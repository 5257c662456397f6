package core

import (
	"fmt"

	"github.com/kwacihq/grow/pkg/models"
	"github.com/shopspring/decimal"
)

// ExpenseLedger is the subset of storage.LedgerManager that expense
// tracking needs.
type ExpenseLedger interface {
	AddExpense(expense models.RecurringExpense) error
	GetAllExpenses() ([]models.RecurringExpense, error)
	RemoveExpense(id string) error
	Load() error
	Save() error
}

// ExpenseInput carries the caller-supplied fields of a new recurring expense.
type ExpenseInput struct {
	Name     string
	Category string
	Amount   models.Money
	Cadence  models.ExpenseCadence
	BranchID string
	Note     string
}

// MonthlyExpenseReport is the monthly-normalized view of all recurring
// expenses.
type MonthlyExpenseReport struct {
	Total    models.Money
	ByBranch map[string]models.Money
	Lines    []MonthlyExpenseLine
}

// MonthlyExpenseLine is one expense normalized to its monthly cost.
type MonthlyExpenseLine struct {
	Expense models.RecurringExpense
	Monthly models.Money
}

// ExpenseManager records recurring expenses and normalizes them to
// monthly figures.
type ExpenseManager interface {
	AddExpense(input ExpenseInput) (*models.RecurringExpense, error)
	ListExpenses() ([]models.RecurringExpense, error)
	RemoveExpense(id string) error
	MonthlyReport() (*MonthlyExpenseReport, error)
}

type expenseManager struct {
	ledger ExpenseLedger
	idGen  IDGenerator
}

// NewExpenseManager creates an ExpenseManager over the given ledger.
func NewExpenseManager(ledger ExpenseLedger, idGen IDGenerator) ExpenseManager {
	return &expenseManager{ledger: ledger, idGen: idGen}
}

func (em *expenseManager) AddExpense(input ExpenseInput) (*models.RecurringExpense, error) {
	if input.Name == "" {
		return nil, NewValidationError("adding expense", "name must not be empty")
	}
	if input.Amount.IsNegative() || input.Amount.IsZero() {
		return nil, NewValidationError("adding expense", "amount must be positive")
	}
	switch input.Cadence {
	case models.CadenceDaily, models.CadenceWeekly, models.CadenceMonthly, models.CadenceYearly:
	default:
		return nil, NewValidationError("adding expense", "unknown cadence %q", input.Cadence)
	}

	expenseID, err := em.idGen.Next("EXP")
	if err != nil {
		return nil, fmt.Errorf("adding expense: generating ID: %w", err)
	}

	expense := models.RecurringExpense{
		ID:       expenseID,
		Name:     input.Name,
		Category: input.Category,
		Amount:   input.Amount,
		Cadence:  input.Cadence,
		BranchID: input.BranchID,
		Note:     input.Note,
	}

	if err := em.ledger.Load(); err != nil {
		return nil, fmt.Errorf("adding expense: loading ledger: %w", err)
	}
	if err := em.ledger.AddExpense(expense); err != nil {
		return nil, fmt.Errorf("adding expense: %w", err)
	}
	if err := em.ledger.Save(); err != nil {
		return nil, fmt.Errorf("adding expense: saving ledger: %w", err)
	}

	return &expense, nil
}

func (em *expenseManager) ListExpenses() ([]models.RecurringExpense, error) {
	if err := em.ledger.Load(); err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	expenses, err := em.ledger.GetAllExpenses()
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	return expenses, nil
}

func (em *expenseManager) RemoveExpense(id string) error {
	if err := em.ledger.Load(); err != nil {
		return fmt.Errorf("removing expense %s: %w", id, err)
	}
	if err := em.ledger.RemoveExpense(id); err != nil {
		return fmt.Errorf("removing expense %s: %w", id, err)
	}
	return em.ledger.Save()
}

// MonthlyReport normalizes every recurring expense to a monthly amount and
// totals them overall and per branch. Branchless expenses group under
// "unassigned".
func (em *expenseManager) MonthlyReport() (*MonthlyExpenseReport, error) {
	expenses, err := em.ListExpenses()
	if err != nil {
		return nil, fmt.Errorf("building monthly expense report: %w", err)
	}

	report := &MonthlyExpenseReport{
		Total:    models.ZeroMoney(),
		ByBranch: make(map[string]models.Money),
	}

	for _, expense := range expenses {
		monthly := normalizeMonthly(expense.Amount, expense.Cadence)
		report.Lines = append(report.Lines, MonthlyExpenseLine{
			Expense: expense,
			Monthly: monthly,
		})
		report.Total = report.Total.Add(monthly)

		branchKey := expense.BranchID
		if branchKey == "" {
			branchKey = "unassigned"
		}
		branchTotal, ok := report.ByBranch[branchKey]
		if !ok {
			branchTotal = models.ZeroMoney()
		}
		report.ByBranch[branchKey] = branchTotal.Add(monthly)
	}

	return report, nil
}

var (
	daysPerMonth  = decimal.NewFromInt(365).Div(decimal.NewFromInt(12))
	weeksPerMonth = decimal.NewFromInt(52).Div(decimal.NewFromInt(12))
	twelve        = decimal.NewFromInt(12)
)

// normalizeMonthly converts an amount at the given cadence to its monthly
// equivalent: daily*365/12, weekly*52/12, yearly/12.
func normalizeMonthly(amount models.Money, cadence models.ExpenseCadence) models.Money {
	switch cadence {
	case models.CadenceDaily:
		return models.NewMoney(amount.Decimal().Mul(daysPerMonth).Round(2))
	case models.CadenceWeekly:
		return models.NewMoney(amount.Decimal().Mul(weeksPerMonth).Round(2))
	case models.CadenceYearly:
		return models.NewMoney(amount.Decimal().Div(twelve).Round(2))
	default:
		return amount
	}
}
