package main

import (
	"github.com/spf13/cobra"

	"finanzplan/internal/report"
)

func newSummaryCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "summary",
		Aliases: []string{"übersicht"},
		Short:   "Monatsübersicht mit verfügbarem Budget",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := e.ledger().MonthReport(cmd.Context(), e.month)
			if err != nil {
				return err
			}
			report.PrintSummary(e.out, r)
			return nil
		},
	}
}
