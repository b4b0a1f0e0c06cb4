package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"finanzplan/internal/fixedcost"
	"finanzplan/internal/ledger"
	"finanzplan/internal/report"
)

func newFixedCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fixed",
		Aliases: []string{"fix"},
		Short:   "Fixkosten verwalten; Änderungen gelten ab einem Monat",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "ls",
			Short: "Fixkosten, die im Monat gelten",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				r, err := e.ledger().MonthReport(cmd.Context(), e.month)
				if err != nil {
					return err
				}
				report.PrintFixedCosts(e.out, r)
				return nil
			},
		},
		&cobra.Command{
			Use:   "history ID",
			Short: "Alle Versionen eines Fixkostenpostens",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				versions, err := e.ledger().FixedHistory(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				report.PrintHistory(e.out, versions)
				return nil
			},
		},
		newFixedAddCmd(e),
		newFixedEditCmd(e),
		newFixedRmCmd(e),
	)
	return cmd
}

func newFixedAddCmd(e *env) *cobra.Command {
	var in ledger.FixedInput
	cmd := &cobra.Command{
		Use:   "add BETRAG",
		Short: "Fixkosten ab dem gewählten Monat anlegen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cents, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			in.AmountCents = cents
			v, err := e.ledger().AddFixedCost(cmd.Context(), e.month, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Fixkosten %s angelegt: %s %s ab %s\n", v.BaseID, v.Name, v.Amount(), v.StartMonth)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "Bezeichnung (Standard: Name des Typs)")
	cmd.Flags().StringVar(&in.TypeID, "type", "", "Typ-ID (siehe types ls --kind fixed)")
	cmd.Flags().StringVar(&in.NewType, "new-type", "", "neuen Typ mit diesem Namen anlegen und verwenden")
	cmd.Flags().StringVar(&in.Note, "note", "", "Notiz")
	cmd.MarkFlagsMutuallyExclusive("type", "new-type")
	return cmd
}

func addFromFlag(cmd *cobra.Command, from *string) {
	cmd.Flags().StringVar(from, "from", "now", "ab wann: now (gewählter Monat) oder next (Folgemonat)")
}

func newFixedEditCmd(e *env) *cobra.Command {
	var (
		from, name, amount, note string
		typeID, newType          string
	)
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Fixkosten ab dem gewählten Monat oder dem Folgemonat ändern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eff, err := fixedcost.ParseEffective(from)
			if err != nil {
				return err
			}
			edit := ledger.FixedEdit{TypeID: typeID, NewType: newType}
			flags := cmd.Flags()
			if flags.Changed("name") {
				edit.Name = &name
			}
			if flags.Changed("amount") {
				cents, err := parseAmount(amount)
				if err != nil {
					return err
				}
				edit.AmountCents = &cents
			}
			if flags.Changed("note") {
				edit.Note = &note
			}
			v, err := e.ledger().EditFixedCost(cmd.Context(), args[0], e.month, eff, edit)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Fixkosten %s geändert: %s %s ab %s\n", v.BaseID, v.Name, v.Amount(), v.StartMonth)
			return nil
		},
	}
	addFromFlag(cmd, &from)
	cmd.Flags().StringVar(&name, "name", "", "neue Bezeichnung")
	cmd.Flags().StringVar(&amount, "amount", "", "neuer Betrag")
	cmd.Flags().StringVar(&note, "note", "", "neue Notiz")
	cmd.Flags().StringVar(&typeID, "type", "", "neuer Typ")
	cmd.Flags().StringVar(&newType, "new-type", "", "neuen Typ mit diesem Namen anlegen und verwenden")
	cmd.MarkFlagsMutuallyExclusive("type", "new-type")
	return cmd
}

func newFixedRmCmd(e *env) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "rm ID",
		Short: "Fixkosten ab dem gewählten Monat oder dem Folgemonat beenden",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eff, err := fixedcost.ParseEffective(from)
			if err != nil {
				return err
			}
			v, err := e.ledger().DeleteFixedCost(cmd.Context(), args[0], e.month, eff)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Fixkosten %s entfallen ab %s\n", v.BaseID, v.StartMonth)
			return nil
		},
	}
	addFromFlag(cmd, &from)
	return cmd
}
