package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// businessFlag holds the --business persistent flag value.
var businessFlag string

var rootCmd = &cobra.Command{
	Use:   "grow",
	Short: "KWACI Grow - small-business operations from the terminal",
	Long: `KWACI Grow (grow) keeps a small business's books in plain files:
product and ingredient costing, a sales ledger, recurring expenses,
fixed-asset depreciation, and operational plans created from reusable
templates.

Every business has its own isolated data directory. Use --business to
act on a business other than the default.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if businessFlag == "" || RewireBusiness == nil {
			return nil
		}
		if err := RewireBusiness(businessFlag); err != nil {
			return fmt.Errorf("switching to business %s: %w", businessFlag, err)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("grow %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&businessFlag, "business", "", "business ID to act on (default: the configured business)")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
