package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"finanzplan/internal/core"
	"finanzplan/internal/ledger"
	"finanzplan/internal/report"
)

func newSavingsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "savings",
		Aliases: []string{"sparen"},
		Short:   "Sparpläne, Monatsraten und Einzahlungen",
	}
	cmd.AddCommand(
		newSavingsLsCmd(e),
		newSavingsAddCmd(e),
		&cobra.Command{
			Use:   "rate PLAN BETRAG",
			Short: "Rate eines Plans für den gewählten Monat setzen (0 erlaubt)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				cents, err := core.ParseNonNegativeCents(args[1])
				if err != nil {
					return fmt.Errorf("Rate %q: %w", args[1], err)
				}
				r, err := e.ledger().SetRate(cmd.Context(), args[0], e.month, cents)
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Rate für %s: %s\n", r.Month, core.Money{Cents: r.AmountCents})
				return nil
			},
		},
		&cobra.Command{
			Use:   "deposit PLAN",
			Short: "Rate des gewählten Monats einzahlen",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := e.ledger().Deposit(cmd.Context(), args[0], e.month)
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "%s am %s eingezahlt\n", core.Money{Cents: m.AmountCents}, m.Date)
				return nil
			},
		},
		&cobra.Command{
			Use:   "undo PLAN",
			Short: "Einzahlung des gewählten Monats zurücknehmen",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := e.ledger().UndoDeposit(cmd.Context(), args[0], e.month); err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Einzahlung %s zurückgenommen\n", e.month)
				return nil
			},
		},
		newSavingsWithdrawCmd(e),
		&cobra.Command{
			Use:   "rename PLAN NAME",
			Short: "Sparplan umbenennen",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := e.ledger().RenamePlan(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Sparplan %s heißt jetzt %s\n", p.ID, p.Name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "archive PLAN",
			Short: "Sparplan archivieren; der Stand bleibt erhalten",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := e.ledger().ArchivePlan(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Sparplan %s archiviert\n", p.Name)
				return nil
			},
		},
		newSavingsRmCmd(e),
		&cobra.Command{
			Use:   "copy-rates",
			Short: "Raten des Vormonats übernehmen, wenn der Monat noch keine hat",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := e.ledger().CopyRatesFromPreviousMonth(cmd.Context(), e.month)
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "%d Raten nach %s übernommen\n", n, e.month)
				return nil
			},
		},
	)
	return cmd
}

func newSavingsLsCmd(e *env) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "Aktive Sparpläne mit Rate und Stand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			overview, err := e.ledger().SavingsOverview(ctx, e.month)
			if err != nil {
				return err
			}
			report.PrintSavings(e.out, overview)
			if !all {
				return nil
			}
			plans, err := e.ledger().SavingsPlans(ctx, true)
			if err != nil {
				return err
			}
			for _, p := range plans {
				if p.IsArchived {
					fmt.Fprintf(e.out, "archiviert: %s (%s)\n", p.Name, p.ID)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "auch archivierte Pläne auflisten")
	return cmd
}

func newSavingsAddCmd(e *env) *cobra.Command {
	var target, rate string
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Sparplan anlegen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := ledger.PlanInput{Name: args[0]}
			if cmd.Flags().Changed("target") {
				cents, err := parseAmount(target)
				if err != nil {
					return err
				}
				in.TargetCents = &cents
			}
			cents, err := core.ParseNonNegativeCents(rate)
			if err != nil {
				return fmt.Errorf("Rate %q: %w", rate, err)
			}
			in.InitialRateCents = cents

			p, err := e.ledger().AddSavingsPlan(cmd.Context(), e.month, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Sparplan %s angelegt: %s\n", p.ID, p.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "Sparziel")
	cmd.Flags().StringVar(&rate, "rate", "", "Rate für den gewählten Monat")
	return cmd
}

func newSavingsWithdrawCmd(e *env) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "withdraw PLAN BETRAG",
		Short: "Geld aus einem Sparplan entnehmen",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cents, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			d, err := parseDate(date)
			if err != nil {
				return err
			}
			m, err := e.ledger().Withdraw(cmd.Context(), args[0], d, cents)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "%s am %s entnommen\n", core.Money{Cents: m.AmountCents}, m.Date)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Datum YYYY-MM-DD (Standard: heute)")
	return cmd
}

func newSavingsRmCmd(e *env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm PLAN",
		Short: "Sparplan mit allen Raten und Buchungen endgültig löschen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("Sparplan %s wird mit allen Buchungen gelöscht; zum Bestätigen --yes angeben", args[0])
			}
			if err := e.ledger().DeletePlan(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Sparplan %s gelöscht\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Löschen bestätigen")
	return cmd
}
