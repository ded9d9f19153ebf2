package main

import (
	"fmt"
	"os"

	"credit-preapproval/internal/config"

	"github.com/spf13/cobra"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "preapprovalctl",
		Short: "Operate the loan pre-approval flow from the command line",
		Long: `preapprovalctl runs the pre-approval wizard without the web front end.

Available subcommands:
  lenders - Print the lender catalog
  apply   - Fill a pre-approval from flags and submit it to the loan API`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newLendersCmd())
	root.AddCommand(newApplyCmd(cfg))
	return root
}

func main() {
	if err := newRootCmd(config.Load()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
