package cli

import (
	"fmt"

	"github.com/kwacihq/grow/pkg/models"
	"github.com/spf13/cobra"
)

var businessCmd = &cobra.Command{
	Use:   "business",
	Short: "Manage businesses (each owns an isolated data directory)",
}

var businessAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Create a business",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if BusinessMgr == nil {
			return fmt.Errorf("business manager not initialized")
		}
		nameFlag, _ := cmd.Flags().GetString("name")
		currencyFlag, _ := cmd.Flags().GetString("currency")

		business, err := BusinessMgr.CreateBusiness(args[0], nameFlag, currencyFlag)
		if err != nil {
			return err
		}
		fmt.Printf("Created business %s (%s, %s)\n", business.ID, business.Name, business.Currency)
		fmt.Printf("  Data directory: %s\n", BusinessMgr.DataDir(business.ID))
		return nil
	},
}

var businessListCmd = &cobra.Command{
	Use:   "list",
	Short: "List businesses",
	RunE: func(cmd *cobra.Command, args []string) error {
		if BusinessMgr == nil {
			return fmt.Errorf("business manager not initialized")
		}
		businesses, err := BusinessMgr.ListBusinesses()
		if err != nil {
			return err
		}
		if len(businesses) == 0 {
			fmt.Println("(no businesses; create one with 'grow business add <id>')")
			return nil
		}
		fmt.Printf("%-16s %-24s %-8s %s\n", "ID", "NAME", "CURRENCY", "CREATED")
		for _, b := range businesses {
			fmt.Printf("%-16s %-24s %-8s %s\n",
				b.ID, b.Name, b.Currency, b.Created.Format("2006-01-02"))
		}
		return nil
	},
}

var businessUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Select the default business",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if BusinessMgr == nil {
			return fmt.Errorf("business manager not initialized")
		}
		if err := BusinessMgr.UseBusiness(args[0]); err != nil {
			return err
		}
		fmt.Printf("Default business is now %s\n", args[0])
		return nil
	},
}

var branchCmd = &cobra.Command{
	Use:   "branch",
	Short: "Manage branches of the current business",
}

var branchAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if BranchMgr == nil {
			return fmt.Errorf("branch store not initialized")
		}
		if IDGen == nil {
			return fmt.Errorf("ID generator not initialized")
		}
		locationFlag, _ := cmd.Flags().GetString("location")
		noteFlag, _ := cmd.Flags().GetString("note")

		id, err := IDGen.Next("BRANCH")
		if err != nil {
			return fmt.Errorf("generating branch ID: %w", err)
		}

		if err := BranchMgr.Load(); err != nil {
			return err
		}
		branch := models.Branch{
			ID:       id,
			Name:     args[0],
			Location: locationFlag,
			Note:     noteFlag,
		}
		if err := BranchMgr.AddBranch(branch); err != nil {
			return err
		}
		if err := BranchMgr.Save(); err != nil {
			return err
		}
		fmt.Printf("Added branch %s (%s)\n", id, args[0])
		return nil
	},
}

var branchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List branches",
	RunE: func(cmd *cobra.Command, args []string) error {
		if BranchMgr == nil {
			return fmt.Errorf("branch store not initialized")
		}
		if err := BranchMgr.Load(); err != nil {
			return err
		}
		branches, err := BranchMgr.GetAllBranches()
		if err != nil {
			return err
		}
		if len(branches) == 0 {
			fmt.Println("(no branches)")
			return nil
		}
		fmt.Printf("%-14s %-24s %s\n", "ID", "NAME", "LOCATION")
		for _, b := range branches {
			fmt.Printf("%-14s %-24s %s\n", b.ID, b.Name, b.Location)
		}
		return nil
	},
}

func init() {
	businessAddCmd.Flags().String("name", "", "display name (default: the ID)")
	businessAddCmd.Flags().String("currency", "", "currency code (default IDR)")

	branchAddCmd.Flags().String("location", "", "branch location")
	branchAddCmd.Flags().String("note", "", "free-form note")

	businessCmd.AddCommand(businessAddCmd)
	businessCmd.AddCommand(businessListCmd)
	businessCmd.AddCommand(businessUseCmd)
	branchCmd.AddCommand(branchAddCmd)
	branchCmd.AddCommand(branchListCmd)

	rootCmd.AddCommand(businessCmd)
	rootCmd.AddCommand(branchCmd)
}
