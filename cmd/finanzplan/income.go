package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"finanzplan/internal/core"
	"finanzplan/internal/ledger"
	"finanzplan/internal/report"
)

func newIncomeCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "income",
		Aliases: []string{"einnahme"},
		Short:   "Einnahmen verwalten",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "ls",
			Short: "Einnahmen des Monats anzeigen",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				list, err := e.ledger().Incomes(cmd.Context(), e.month)
				if err != nil {
					return err
				}
				report.PrintIncomes(e.out, list)
				return nil
			},
		},
		newIncomeAddCmd(e),
		newIncomeEditCmd(e),
		&cobra.Command{
			Use:   "rm ID",
			Short: "Einnahme löschen",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := e.ledger().RemoveIncome(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Einnahme %s gelöscht\n", args[0])
				return nil
			},
		},
	)
	return cmd
}

type incomeFlags struct {
	date, kind, note string
}

func (f *incomeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "Datum YYYY-MM-DD (Standard: heute)")
	cmd.Flags().StringVar(&f.kind, "type", "", fmt.Sprintf("Art, eine von %v", core.IncomeTypes()))
	cmd.Flags().StringVar(&f.note, "note", "", "Notiz")
}

func newIncomeAddCmd(e *env) *cobra.Command {
	var f incomeFlags
	cmd := &cobra.Command{
		Use:   "add BETRAG",
		Short: "Einnahme erfassen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cents, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			date, err := parseDate(f.date)
			if err != nil {
				return err
			}
			inc, err := e.ledger().AddIncome(cmd.Context(), ledger.IncomeInput{
				Date:        date,
				AmountCents: cents,
				Type:        core.IncomeType(f.kind),
				Note:        f.note,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Einnahme %s erfasst: %s am %s\n", inc.ID, core.Money{Cents: inc.AmountCents}, inc.Date)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newIncomeEditCmd(e *env) *cobra.Command {
	var f incomeFlags
	var amount string
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Einnahme ändern; nur angegebene Felder werden überschrieben",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cur, err := e.ledger().Income(ctx, args[0])
			if err != nil {
				return err
			}
			in := ledger.IncomeInput{Date: cur.Date, AmountCents: cur.AmountCents, Type: cur.Type, Note: cur.Note}
			flags := cmd.Flags()
			if flags.Changed("amount") {
				if in.AmountCents, err = parseAmount(amount); err != nil {
					return err
				}
			}
			if flags.Changed("date") {
				if in.Date, err = parseDate(f.date); err != nil {
					return err
				}
			}
			if flags.Changed("type") {
				in.Type = core.IncomeType(f.kind)
			}
			if flags.Changed("note") {
				in.Note = f.note
			}
			inc, err := e.ledger().UpdateIncome(ctx, args[0], in)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Einnahme %s geändert: %s am %s\n", inc.ID, core.Money{Cents: inc.AmountCents}, inc.Date)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&amount, "amount", "", "neuer Betrag")
	return cmd
}
