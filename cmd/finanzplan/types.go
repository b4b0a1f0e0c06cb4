package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"finanzplan/internal/ledger"
	"finanzplan/internal/report"
)

func newTypesCmd(e *env) *cobra.Command {
	var kindFlag string
	var kind ledger.Kind

	cmd := &cobra.Command{
		Use:     "types",
		Aliases: []string{"typen"},
		Short:   "Fixkostentypen und Ausgabenkategorien verwalten",
	}
	cmd.PersistentFlags().StringVar(&kindFlag, "kind", string(ledger.KindExpense), "fixed oder expense")

	parseKind := func() error {
		k, err := ledger.ParseKind(kindFlag)
		if err != nil {
			return err
		}
		kind = k
		return nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "ls",
			Short: "Typen mit Anzahl der Verwendungen",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := parseKind(); err != nil {
					return err
				}
				ctx := cmd.Context()
				list, err := e.ledger().Categories(ctx, kind)
				if err != nil {
					return err
				}
				usage := make(map[string]int, len(list))
				for _, c := range list {
					if usage[c.ID], err = e.ledger().CategoryUsage(ctx, kind, c.ID); err != nil {
						return err
					}
				}
				report.PrintCategories(e.out, list, usage)
				return nil
			},
		},
		&cobra.Command{
			Use:   "add NAME",
			Short: "Typ anlegen",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := parseKind(); err != nil {
					return err
				}
				c, err := e.ledger().AddCategory(cmd.Context(), kind, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Typ %s angelegt: %s\n", c.ID, c.Name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rename ID NAME",
			Short: "Typ umbenennen",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := parseKind(); err != nil {
					return err
				}
				c, err := e.ledger().RenameCategory(cmd.Context(), kind, args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Typ %s heißt jetzt %s\n", c.ID, c.Name)
				return nil
			},
		},
		newTypesRmCmd(e, parseKind, &kind),
	)
	return cmd
}

func newTypesRmCmd(e *env, parseKind func() error, kind *ledger.Kind) *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "rm ID",
		Short: "Typ löschen; verwendete Typen werden mit --to umgebucht",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := parseKind(); err != nil {
				return err
			}
			moved, err := e.ledger().DeleteCategory(cmd.Context(), *kind, args[0], to)
			if err != nil {
				return err
			}
			if moved > 0 {
				fmt.Fprintf(e.out, "%d Einträge auf %s umgebucht\n", moved, to)
			}
			fmt.Fprintf(e.out, "Typ %s gelöscht\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Ersatztyp für Einträge, die den Typ verwenden")
	return cmd
}
