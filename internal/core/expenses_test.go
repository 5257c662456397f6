package core

import (
	"fmt"
	"testing"

	"github.com/kwacihq/grow/pkg/models"
)

// fakeExpenseLedger is an in-memory ExpenseLedger.
type fakeExpenseLedger struct {
	expenses map[string]models.RecurringExpense
	order    []string
}

func newFakeExpenseLedger() *fakeExpenseLedger {
	return &fakeExpenseLedger{expenses: make(map[string]models.RecurringExpense)}
}

func (f *fakeExpenseLedger) AddExpense(expense models.RecurringExpense) error {
	if _, exists := f.expenses[expense.ID]; exists {
		return fmt.Errorf("expense %s already exists", expense.ID)
	}
	f.expenses[expense.ID] = expense
	f.order = append(f.order, expense.ID)
	return nil
}

func (f *fakeExpenseLedger) GetAllExpenses() ([]models.RecurringExpense, error) {
	out := make([]models.RecurringExpense, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.expenses[id])
	}
	return out, nil
}

func (f *fakeExpenseLedger) RemoveExpense(id string) error {
	if _, exists := f.expenses[id]; !exists {
		return fmt.Errorf("expense %s not found", id)
	}
	delete(f.expenses, id)
	for i, oid := range f.order {
		if oid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeExpenseLedger) Load() error { return nil }
func (f *fakeExpenseLedger) Save() error { return nil }

func TestAddExpense_Validation(t *testing.T) {
	mgr := NewExpenseManager(newFakeExpenseLedger(), newSeqIDGen())

	cases := []struct {
		name  string
		input ExpenseInput
	}{
		{"empty name", ExpenseInput{Amount: mustMoney(t, "100"), Cadence: models.CadenceMonthly}},
		{"zero amount", ExpenseInput{Name: "Rent", Amount: mustMoney(t, "0"), Cadence: models.CadenceMonthly}},
		{"negative amount", ExpenseInput{Name: "Rent", Amount: mustMoney(t, "-5"), Cadence: models.CadenceMonthly}},
		{"bad cadence", ExpenseInput{Name: "Rent", Amount: mustMoney(t, "100"), Cadence: "fortnightly"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := mgr.AddExpense(tc.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if !IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAddExpense_PersistsWithID(t *testing.T) {
	ledger := newFakeExpenseLedger()
	mgr := NewExpenseManager(ledger, newSeqIDGen())

	expense, err := mgr.AddExpense(ExpenseInput{
		Name: "Rent", Category: "premises", Amount: mustMoney(t, "5000"), Cadence: models.CadenceMonthly,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expense.ID != "EXP-1" {
		t.Errorf("expected EXP-1, got %s", expense.ID)
	}
	if len(ledger.expenses) != 1 {
		t.Errorf("expected 1 expense persisted, got %d", len(ledger.expenses))
	}
}

func TestMonthlyReport_NormalizesCadences(t *testing.T) {
	ledger := newFakeExpenseLedger()
	mgr := NewExpenseManager(ledger, newSeqIDGen())

	inputs := []ExpenseInput{
		{Name: "Coffee cups", Amount: mustMoney(t, "12"), Cadence: models.CadenceDaily},
		{Name: "Cleaning", Amount: mustMoney(t, "120"), Cadence: models.CadenceWeekly, BranchID: "B1"},
		{Name: "Rent", Amount: mustMoney(t, "5000"), Cadence: models.CadenceMonthly, BranchID: "B1"},
		{Name: "Insurance", Amount: mustMoney(t, "2400"), Cadence: models.CadenceYearly},
	}
	for _, in := range inputs {
		if _, err := mgr.AddExpense(in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	report, err := mgr.MonthlyReport()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// daily 12 * 365/12 = 365, weekly 120 * 52/12 = 520, monthly 5000, yearly 2400/12 = 200.
	wants := []string{"365", "520", "5000", "200"}
	for i, want := range wants {
		if !report.Lines[i].Monthly.Equal(mustMoney(t, want)) {
			t.Errorf("line %d: expected monthly %s, got %s", i, want, report.Lines[i].Monthly)
		}
	}
	if !report.Total.Equal(mustMoney(t, "6085")) {
		t.Errorf("expected total 6085, got %s", report.Total)
	}
	if !report.ByBranch["B1"].Equal(mustMoney(t, "5520")) {
		t.Errorf("expected B1 total 5520, got %s", report.ByBranch["B1"])
	}
	if !report.ByBranch["unassigned"].Equal(mustMoney(t, "565")) {
		t.Errorf("expected unassigned total 565, got %s", report.ByBranch["unassigned"])
	}
}

func TestRemoveExpense(t *testing.T) {
	ledger := newFakeExpenseLedger()
	mgr := NewExpenseManager(ledger, newSeqIDGen())

	expense, err := mgr.AddExpense(ExpenseInput{Name: "Rent", Amount: mustMoney(t, "100"), Cadence: models.CadenceMonthly})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mgr.RemoveExpense(expense.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mgr.RemoveExpense(expense.ID); err == nil {
		t.Error("expected error removing an expense twice")
	}
}
