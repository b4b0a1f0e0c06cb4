package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// resetConfirmation must be typed to wipe the ledger.
const resetConfirmation = "LÖSCHEN"

func newResetCmd(e *env) *cobra.Command {
	var confirm string
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Alle Daten löschen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if confirm != resetConfirmation {
				return fmt.Errorf("zum Löschen aller Daten --confirm %s angeben", resetConfirmation)
			}
			if err := e.ledger().Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(e.out, "Alle Daten gelöscht")
			return nil
		},
	}
	cmd.Flags().StringVar(&confirm, "confirm", "", "Bestätigung: "+resetConfirmation)
	return cmd
}
