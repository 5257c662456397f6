package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cogsCmd = &cobra.Command{
	Use:   "cogs <product-id>",
	Short: "Show cost of goods for a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if CostCalc == nil {
			return fmt.Errorf("cost calculator not initialized")
		}
		breakdown, err := CostCalc.CostOfGoods(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s  %s\n\n", breakdown.ProductID, breakdown.Name)
		if len(breakdown.Lines) == 0 {
			fmt.Println("(no recipe)")
		} else {
			fmt.Printf("  %-12s %-24s %10s %14s %14s\n", "INGREDIENT", "NAME", "QTY", "UNIT COST", "LINE COST")
			for _, line := range breakdown.Lines {
				fmt.Printf("  %-12s %-24s %7s %-2s %14s %14s\n",
					line.IngredientID, line.Name, line.Quantity, line.Unit,
					line.UnitCost.StringFixed(2), line.LineCost.StringFixed(2))
			}
			fmt.Println()
		}
		fmt.Printf("  Total cost per portion: %s %s\n", Currency, breakdown.TotalCost.StringFixed(2))
		return nil
	},
}

var marginCmd = &cobra.Command{
	Use:   "margin <product-id>",
	Short: "Show gross profit per portion for a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if CostCalc == nil {
			return fmt.Errorf("cost calculator not initialized")
		}
		report, err := CostCalc.Margin(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", report.ProductID)
		fmt.Printf("  Sale price:    %s %s\n", Currency, report.SalePrice.StringFixed(2))
		fmt.Printf("  Cost of goods: %s %s\n", Currency, report.CostOfGoods.StringFixed(2))
		fmt.Printf("  Gross profit:  %s %s\n", Currency, report.GrossProfit.StringFixed(2))
		if report.GrossProfit.IsNegative() {
			fmt.Println("  Warning: this product sells below cost")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cogsCmd)
	rootCmd.AddCommand(marginCmd)
}
