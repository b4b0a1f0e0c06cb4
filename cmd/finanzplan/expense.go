package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"finanzplan/internal/core"
	"finanzplan/internal/ledger"
	"finanzplan/internal/report"
)

func newExpenseCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expense",
		Aliases: []string{"ausgabe"},
		Short:   "Variable Ausgaben verwalten",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "ls",
			Short: "Ausgaben des Monats anzeigen",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				r, err := e.ledger().MonthReport(cmd.Context(), e.month)
				if err != nil {
					return err
				}
				report.PrintExpenses(e.out, r)
				return nil
			},
		},
		newExpenseAddCmd(e),
		newExpenseEditCmd(e),
		&cobra.Command{
			Use:   "rm ID",
			Short: "Ausgabe löschen",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := e.ledger().RemoveExpense(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Ausgabe %s gelöscht\n", args[0])
				return nil
			},
		},
	)
	return cmd
}

type expenseFlags struct {
	date, category, newCategory, note string
}

func (f *expenseFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "Datum YYYY-MM-DD (Standard: heute)")
	cmd.Flags().StringVar(&f.category, "category", "", "Kategorie-ID (siehe types ls --kind expense)")
	cmd.Flags().StringVar(&f.newCategory, "new-category", "", "neue Kategorie mit diesem Namen anlegen und verwenden")
	cmd.Flags().StringVar(&f.note, "note", "", "Notiz")
	cmd.MarkFlagsMutuallyExclusive("category", "new-category")
}

func newExpenseAddCmd(e *env) *cobra.Command {
	var f expenseFlags
	cmd := &cobra.Command{
		Use:   "add BETRAG",
		Short: "Ausgabe erfassen",
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
			exp, err := e.ledger().AddExpense(cmd.Context(), ledger.ExpenseInput{
				Date:        date,
				AmountCents: cents,
				CategoryID:  f.category,
				NewCategory: f.newCategory,
				Note:        f.note,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Ausgabe %s erfasst: %s am %s\n", exp.ID, core.Money{Cents: exp.AmountCents}, exp.Date)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newExpenseEditCmd(e *env) *cobra.Command {
	var f expenseFlags
	var amount string
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Ausgabe ändern; nur angegebene Felder werden überschrieben",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cur, err := e.ledger().Expense(ctx, args[0])
			if err != nil {
				return err
			}
			in := ledger.ExpenseInput{Date: cur.Date, AmountCents: cur.AmountCents, CategoryID: cur.CategoryID, Note: cur.Note}
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
			if flags.Changed("category") {
				in.CategoryID = f.category
			}
			in.NewCategory = f.newCategory
			if flags.Changed("note") {
				in.Note = f.note
			}
			exp, err := e.ledger().UpdateExpense(ctx, args[0], in)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Ausgabe %s geändert: %s am %s\n", exp.ID, core.Money{Cents: exp.AmountCents}, exp.Date)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&amount, "amount", "", "neuer Betrag")
	return cmd
}
