package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/kwacihq/grow/internal/core"
	"github.com/kwacihq/grow/internal/observability"
	"github.com/kwacihq/grow/pkg/models"
	"github.com/spf13/cobra"
)

var saleCmd = &cobra.Command{
	Use:   "sale",
	Short: "Record and inspect sales",
}

var saleRecordCmd = &cobra.Command{
	Use:   "record <product-id>",
	Short: "Record a sale",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if SalesMgr == nil {
			return fmt.Errorf("sales manager not initialized")
		}

		qtyFlag, _ := cmd.Flags().GetString("qty")
		priceFlag, _ := cmd.Flags().GetString("price")
		branchFlag, _ := cmd.Flags().GetString("branch")
		dateFlag, _ := cmd.Flags().GetString("date")
		noteFlag, _ := cmd.Flags().GetString("note")

		qty, err := models.QuantityFromString(qtyFlag)
		if err != nil {
			return fmt.Errorf("parsing --qty: %w", err)
		}

		input := core.SaleInput{
			ProductID: args[0],
			BranchID:  branchFlag,
			Quantity:  qty,
			Note:      noteFlag,
		}
		if priceFlag != "" {
			price, err := models.MoneyFromString(priceFlag)
			if err != nil {
				return fmt.Errorf("parsing --price: %w", err)
			}
			input.UnitPrice = price
		}
		if dateFlag != "" {
			soldAt, err := parseDateFlag(dateFlag, time.Time{})
			if err != nil {
				return err
			}
			input.SoldAt = soldAt
		}

		sale, err := SalesMgr.RecordSale(input)
		if err != nil {
			return err
		}

		emitEvent(observability.EventSaleRecorded, "sale recorded", map[string]any{
			"sale_id":    sale.ID,
			"product_id": sale.ProductID,
			"branch_id":  sale.BranchID,
			"total":      sale.Total.String(),
		})

		fmt.Printf("Recorded %s: %s x %s = %s %s\n",
			sale.ID, sale.ProductID, sale.Quantity, Currency, sale.Total.StringFixed(2))
		return nil
	},
}

var saleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sales, optionally filtered",
	RunE: func(cmd *cobra.Command, args []string) error {
		if SalesMgr == nil {
			return fmt.Errorf("sales manager not initialized")
		}
		filter, err := saleFilterFromFlags(cmd)
		if err != nil {
			return err
		}
		sales, err := SalesMgr.ListSales(filter)
		if err != nil {
			return err
		}
		if len(sales) == 0 {
			fmt.Println("(no sales)")
			return nil
		}
		fmt.Printf("%-12s %-16s %-12s %-10s %8s %14s %14s\n",
			"ID", "DATE", "PRODUCT", "BRANCH", "QTY", "UNIT PRICE", "TOTAL")
		for _, s := range sales {
			branch := s.BranchID
			if branch == "" {
				branch = "-"
			}
			fmt.Printf("%-12s %-16s %-12s %-10s %8s %14s %14s\n",
				s.ID, s.SoldAt.Format("2006-01-02 15:04"), s.ProductID, branch,
				s.Quantity, s.UnitPrice.StringFixed(2), s.Total.StringFixed(2))
		}
		return nil
	},
}

var saleSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize revenue and gross profit over a date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		if SalesMgr == nil {
			return fmt.Errorf("sales manager not initialized")
		}
		filter, err := saleFilterFromFlags(cmd)
		if err != nil {
			return err
		}
		summary, err := SalesMgr.Summarize(filter)
		if err != nil {
			return err
		}

		fmt.Printf("Sales: %d  Revenue: %s %s\n",
			summary.SaleCount, Currency, summary.TotalRevenue.StringFixed(2))
		fmt.Printf("COGS: %s %s  Gross profit: %s %s\n",
			Currency, summary.TotalCOGS.StringFixed(2),
			Currency, summary.GrossProfit.StringFixed(2))

		if len(summary.ByProduct) > 0 {
			fmt.Println("\nBy product:")
			for _, key := range sortedKeys(summary.ByProduct) {
				fmt.Printf("  %-16s %14s\n", key, summary.ByProduct[key].StringFixed(2))
			}
		}
		if len(summary.ByBranch) > 0 {
			fmt.Println("\nBy branch:")
			for _, key := range sortedKeys(summary.ByBranch) {
				fmt.Printf("  %-16s %14s\n", key, summary.ByBranch[key].StringFixed(2))
			}
		}
		return nil
	},
}

func saleFilterFromFlags(cmd *cobra.Command) (core.SalesFilter, error) {
	productFlag, _ := cmd.Flags().GetString("product")
	branchFlag, _ := cmd.Flags().GetString("branch")
	fromFlag, _ := cmd.Flags().GetString("from")
	toFlag, _ := cmd.Flags().GetString("to")

	filter := core.SalesFilter{ProductID: productFlag, BranchID: branchFlag}
	if fromFlag != "" {
		from, err := parseDateFlag(fromFlag, time.Time{})
		if err != nil {
			return filter, fmt.Errorf("parsing --from: %w", err)
		}
		filter.From = from
	}
	if toFlag != "" {
		to, err := parseDateFlag(toFlag, time.Time{})
		if err != nil {
			return filter, fmt.Errorf("parsing --to: %w", err)
		}
		filter.To = to
	}
	return filter, nil
}

func sortedKeys(m map[string]models.Money) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	saleRecordCmd.Flags().String("qty", "1", "quantity sold")
	saleRecordCmd.Flags().String("price", "", "unit price override (default: product sale price)")
	saleRecordCmd.Flags().String("branch", "", "branch the sale happened at")
	saleRecordCmd.Flags().String("date", "", "sale date (2006-01-02, default now)")
	saleRecordCmd.Flags().String("note", "", "free-form note")

	for _, c := range []*cobra.Command{saleListCmd, saleSummaryCmd} {
		c.Flags().String("product", "", "filter by product ID")
		c.Flags().String("branch", "", "filter by branch ID")
		c.Flags().String("from", "", "start date inclusive (2006-01-02)")
		c.Flags().String("to", "", "end date exclusive (2006-01-02)")
	}

	saleCmd.AddCommand(saleRecordCmd)
	saleCmd.AddCommand(saleListCmd)
	saleCmd.AddCommand(saleSummaryCmd)
	rootCmd.AddCommand(saleCmd)
}
