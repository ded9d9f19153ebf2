package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"credit-preapproval/internal/domain/lender"

	"github.com/spf13/cobra"
)

func newLendersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lenders",
		Short: "Print the lender catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tRATE\tMAX\tTERM\tFEATURES")
			for _, l := range lender.Defaults() {
				fmt.Fprintf(w, "%s\t%s\t%.1f%%\tM%.0f\t%d-%d\t%s\n",
					l.ID, l.Name, l.Rate, l.MaxAmount, l.MinTerm, l.MaxTerm, strings.Join(l.Features, "; "))
			}
			return w.Flush()
		},
	}
}
