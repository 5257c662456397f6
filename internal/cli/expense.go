package cli

import (
	"fmt"

	"github.com/kwacihq/grow/internal/core"
	"github.com/kwacihq/grow/internal/observability"
	"github.com/kwacihq/grow/pkg/models"
	"github.com/spf13/cobra"
)

var expenseCmd = &cobra.Command{
	Use:   "expense",
	Short: "Track recurring operating expenses",
}

var expenseAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a recurring expense",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ExpenseMgr == nil {
			return fmt.Errorf("expense manager not initialized")
		}

		amountFlag, _ := cmd.Flags().GetString("amount")
		cadenceFlag, _ := cmd.Flags().GetString("cadence")
		categoryFlag, _ := cmd.Flags().GetString("category")
		branchFlag, _ := cmd.Flags().GetString("branch")
		noteFlag, _ := cmd.Flags().GetString("note")

		amount, err := models.MoneyFromString(amountFlag)
		if err != nil {
			return fmt.Errorf("parsing --amount: %w", err)
		}

		expense, err := ExpenseMgr.AddExpense(core.ExpenseInput{
			Name:     args[0],
			Category: categoryFlag,
			Amount:   amount,
			Cadence:  models.ExpenseCadence(cadenceFlag),
			BranchID: branchFlag,
			Note:     noteFlag,
		})
		if err != nil {
			return err
		}

		emitEvent(observability.EventExpenseAdded, "recurring expense added", map[string]any{
			"expense_id": expense.ID,
			"cadence":    string(expense.Cadence),
			"amount":     expense.Amount.String(),
		})

		fmt.Printf("Added expense %s (%s, %s %s %s)\n",
			expense.ID, expense.Name, Currency, expense.Amount.StringFixed(2), expense.Cadence)
		return nil
	},
}

var expenseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recurring expenses",
	RunE: func(cmd *cobra.Command, args []string) error {
		if ExpenseMgr == nil {
			return fmt.Errorf("expense manager not initialized")
		}
		expenses, err := ExpenseMgr.ListExpenses()
		if err != nil {
			return err
		}
		if len(expenses) == 0 {
			fmt.Println("(no expenses)")
			return nil
		}
		fmt.Printf("%-12s %-24s %-14s %14s %-10s %s\n", "ID", "NAME", "CATEGORY", "AMOUNT", "CADENCE", "BRANCH")
		for _, e := range expenses {
			branch := e.BranchID
			if branch == "" {
				branch = "-"
			}
			fmt.Printf("%-12s %-24s %-14s %14s %-10s %s\n",
				e.ID, e.Name, e.Category, e.Amount.StringFixed(2), e.Cadence, branch)
		}
		return nil
	},
}

var expenseRemoveCmd = &cobra.Command{
	Use:   "remove <expense-id>",
	Short: "Remove a recurring expense",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ExpenseMgr == nil {
			return fmt.Errorf("expense manager not initialized")
		}
		if err := ExpenseMgr.RemoveExpense(args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed expense %s\n", args[0])
		return nil
	},
}

var expenseMonthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Show all expenses normalized to monthly amounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if ExpenseMgr == nil {
			return fmt.Errorf("expense manager not initialized")
		}
		report, err := ExpenseMgr.MonthlyReport()
		if err != nil {
			return err
		}
		if len(report.Lines) == 0 {
			fmt.Println("(no expenses)")
			return nil
		}

		fmt.Printf("%-12s %-24s %-10s %14s %14s\n", "ID", "NAME", "CADENCE", "AMOUNT", "MONTHLY")
		for _, line := range report.Lines {
			fmt.Printf("%-12s %-24s %-10s %14s %14s\n",
				line.Expense.ID, line.Expense.Name, line.Expense.Cadence,
				line.Expense.Amount.StringFixed(2), line.Monthly.StringFixed(2))
		}
		fmt.Printf("\nTotal monthly: %s %s\n", Currency, report.Total.StringFixed(2))

		if len(report.ByBranch) > 1 {
			fmt.Println("\nBy branch:")
			for _, key := range sortedKeys(report.ByBranch) {
				fmt.Printf("  %-16s %14s\n", key, report.ByBranch[key].StringFixed(2))
			}
		}
		return nil
	},
}

func init() {
	expenseAddCmd.Flags().String("amount", "0", "expense amount per cadence period")
	expenseAddCmd.Flags().String("cadence", "monthly", "cadence (daily, weekly, monthly, yearly)")
	expenseAddCmd.Flags().String("category", "", "expense category")
	expenseAddCmd.Flags().String("branch", "", "branch the expense belongs to")
	expenseAddCmd.Flags().String("note", "", "free-form note")

	expenseCmd.AddCommand(expenseAddCmd)
	expenseCmd.AddCommand(expenseListCmd)
	expenseCmd.AddCommand(expenseRemoveCmd)
	expenseCmd.AddCommand(expenseMonthlyCmd)
	rootCmd.AddCommand(expenseCmd)
}
