package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"finanzplan/internal/log"
	"finanzplan/internal/report"
)

func newExportCmd(e *env) *cobra.Command {
	var formatFlag, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Monat als JSON, YAML oder Excel-Datei exportieren",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			if out == "" {
				out = fmt.Sprintf("finanzplan-%s.%s", e.month, format)
			}
			r, err := e.ledger().MonthReport(cmd.Context(), e.month)
			if err != nil {
				return err
			}
			if err := report.ExportFile(out, format, r); err != nil {
				return err
			}
			log.FromContext(cmd.Context()).Info("Month exported",
				log.FieldOperation, log.OpExport, log.FieldMonth, e.month.String(), log.FieldPath, out)
			fmt.Fprintf(e.out, "%s nach %s exportiert\n", report.MonthLabel(e.month), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&formatFlag, "format", "f", string(report.FormatXLSX), "json, yaml oder xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Zieldatei (Standard: finanzplan-YYYY-MM.<format>)")
	return cmd
}
