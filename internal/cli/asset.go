package cli

import (
	"fmt"
	"time"

	"github.com/kwacihq/grow/internal/observability"
	"github.com/kwacihq/grow/pkg/models"
	"github.com/spf13/cobra"
)

var assetCmd = &cobra.Command{
	Use:   "asset",
	Short: "Track fixed assets and their depreciation",
}

var assetAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a fixed asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if LedgerMgr == nil {
			return fmt.Errorf("ledger store not initialized")
		}
		if IDGen == nil {
			return fmt.Errorf("ID generator not initialized")
		}

		priceFlag, _ := cmd.Flags().GetString("price")
		salvageFlag, _ := cmd.Flags().GetString("salvage")
		lifeFlag, _ := cmd.Flags().GetInt("life-months")
		purchasedFlag, _ := cmd.Flags().GetString("purchased")
		branchFlag, _ := cmd.Flags().GetString("branch")
		noteFlag, _ := cmd.Flags().GetString("note")

		price, err := models.MoneyFromString(priceFlag)
		if err != nil {
			return fmt.Errorf("parsing --price: %w", err)
		}
		salvage, err := models.MoneyFromString(salvageFlag)
		if err != nil {
			return fmt.Errorf("parsing --salvage: %w", err)
		}
		if lifeFlag <= 0 {
			return fmt.Errorf("--life-months must be positive")
		}
		purchased, err := parseDateFlag(purchasedFlag, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("parsing --purchased: %w", err)
		}

		id, err := IDGen.Next("ASSET")
		if err != nil {
			return fmt.Errorf("generating asset ID: %w", err)
		}

		asset := models.FixedAsset{
			ID:               id,
			Name:             args[0],
			PurchasePrice:    price,
			SalvageValue:     salvage,
			UsefulLifeMonths: lifeFlag,
			PurchaseDate:     purchased,
			BranchID:         branchFlag,
			Note:             noteFlag,
		}

		if err := LedgerMgr.Load(); err != nil {
			return err
		}
		if err := LedgerMgr.AddAsset(asset); err != nil {
			return err
		}
		if err := LedgerMgr.Save(); err != nil {
			return err
		}

		emitEvent(observability.EventAssetAdded, "fixed asset registered", map[string]any{
			"asset_id": id,
			"price":    price.String(),
		})

		fmt.Printf("Added asset %s (%s, %s %s over %d months)\n",
			id, args[0], Currency, price.StringFixed(2), lifeFlag)
		return nil
	},
}

var assetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List fixed assets",
	RunE: func(cmd *cobra.Command, args []string) error {
		if LedgerMgr == nil {
			return fmt.Errorf("ledger store not initialized")
		}
		if err := LedgerMgr.Load(); err != nil {
			return err
		}
		assets, err := LedgerMgr.GetAllAssets()
		if err != nil {
			return err
		}
		if len(assets) == 0 {
			fmt.Println("(no assets)")
			return nil
		}
		fmt.Printf("%-12s %-24s %14s %14s %6s %-12s\n",
			"ID", "NAME", "PRICE", "SALVAGE", "LIFE", "PURCHASED")
		for _, a := range assets {
			fmt.Printf("%-12s %-24s %14s %14s %6d %-12s\n",
				a.ID, a.Name, a.PurchasePrice.StringFixed(2), a.SalvageValue.StringFixed(2),
				a.UsefulLifeMonths, a.PurchaseDate.Format("2006-01-02"))
		}
		return nil
	},
}

var assetScheduleCmd = &cobra.Command{
	Use:   "schedule <asset-id>",
	Short: "Show an asset's straight-line depreciation schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if DepCalc == nil {
			return fmt.Errorf("depreciation calculator not initialized")
		}
		schedule, err := DepCalc.Schedule(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s  %s (monthly %s %s)\n\n",
			schedule.AssetID, schedule.Name, Currency, schedule.Monthly.StringFixed(2))
		fmt.Printf("  %-10s %14s %14s\n", "MONTH", "DEPRECIATION", "BOOK VALUE")
		for _, entry := range schedule.Entries {
			fmt.Printf("  %-10s %14s %14s\n",
				entry.Month.Format("2006-01"), entry.Depreciation.StringFixed(2), entry.BookValue.StringFixed(2))
		}
		fmt.Printf("\n  Residual value: %s %s\n", Currency, schedule.Residual.StringFixed(2))
		return nil
	},
}

var assetValueCmd = &cobra.Command{
	Use:   "value <asset-id>",
	Short: "Show an asset's book value at a date (default today)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if DepCalc == nil {
			return fmt.Errorf("depreciation calculator not initialized")
		}
		atFlag, _ := cmd.Flags().GetString("at")
		at, err := parseDateFlag(atFlag, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("parsing --at: %w", err)
		}

		value, err := DepCalc.BookValue(args[0], at)
		if err != nil {
			return err
		}
		fmt.Printf("Book value of %s at %s: %s %s\n",
			args[0], at.Format("2006-01-02"), Currency, value.StringFixed(2))
		return nil
	},
}

func init() {
	assetAddCmd.Flags().String("price", "0", "purchase price")
	assetAddCmd.Flags().String("salvage", "0", "salvage value at end of life")
	assetAddCmd.Flags().Int("life-months", 36, "useful life in months")
	assetAddCmd.Flags().String("purchased", "", "purchase date (2006-01-02, default today)")
	assetAddCmd.Flags().String("branch", "", "branch the asset belongs to")
	assetAddCmd.Flags().String("note", "", "free-form note")

	assetValueCmd.Flags().String("at", "", "valuation date (2006-01-02, default today)")

	assetCmd.AddCommand(assetAddCmd)
	assetCmd.AddCommand(assetListCmd)
	assetCmd.AddCommand(assetScheduleCmd)
	assetCmd.AddCommand(assetValueCmd)
	rootCmd.AddCommand(assetCmd)
}
