package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"finanzplan/internal/cli"
	"finanzplan/internal/core"
	"finanzplan/internal/fixedcost"
	"finanzplan/internal/ledger"
	"finanzplan/internal/log"
)

// opener builds the application for one command invocation.
type opener func(ctx context.Context) (*cli.App, error)

// env is shared by every command of the tree.
type env struct {
	out       io.Writer
	open      opener
	app       *cli.App
	monthFlag string
	month     core.Month
}

func (e *env) ledger() *ledger.Service { return e.app.Ledger }

// close releases the app opened by the last command, if any.
func (e *env) close() error {
	if e.app == nil {
		return nil
	}
	err := e.app.Close()
	e.app = nil
	return err
}

// newRootCmd builds the command tree. The caller closes the returned env
// after Execute.
func newRootCmd(out io.Writer, open opener) (*cobra.Command, *env) {
	e := &env{out: out, open: open}

	root := &cobra.Command{
		Use:           "finanzplan",
		Short:         "Haushaltsbuch: Einnahmen, Fixkosten, Ausgaben und Sparpläne",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			e.app = app
			cmd.SetContext(log.WithCommand(log.NewContext(cmd.Context(), app.Logger), cmd.CommandPath()))
			if strings.TrimSpace(e.monthFlag) == "" {
				e.month = app.Ledger.CurrentMonth()
				return nil
			}
			m, err := core.ParseMonth(strings.TrimSpace(e.monthFlag))
			if err != nil {
				return fmt.Errorf("--month %q: %w", e.monthFlag, err)
			}
			e.month = m
			return nil
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVarP(&e.monthFlag, "month", "m", "", "Monat im Format YYYY-MM (Standard: aktueller Monat)")

	root.AddCommand(
		newSummaryCmd(e),
		newIncomeCmd(e),
		newFixedCmd(e),
		newExpenseCmd(e),
		newTypesCmd(e),
		newSavingsCmd(e),
		newExportCmd(e),
		newResetCmd(e),
	)
	return root, e
}

// parseAmount reads a positive euro amount like "12,34" or "1.234,56".
func parseAmount(s string) (int64, error) {
	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		return 0, fmt.Errorf("Betrag %q: %w", s, err)
	}
	return cents, nil
}

// parseDate reads YYYY-MM-DD. An empty string is the zero date, which the
// ledger replaces with today.
func parseDate(s string) (core.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(s)
}

// describe turns ledger errors into a message for the terminal.
func describe(err error) string {
	switch {
	case errors.Is(err, ledger.ErrAlreadyDeposited):
		return "Die Rate wurde in diesem Monat bereits eingezahlt."
	case errors.Is(err, ledger.ErrZeroRate):
		return "Für diesen Monat ist keine Rate gesetzt."
	case errors.Is(err, ledger.ErrPlanArchived):
		return "Der Sparplan ist archiviert."
	case errors.Is(err, ledger.ErrNoAlternative):
		return "Der Typ wird verwendet und es gibt keinen anderen, auf den umgebucht werden kann."
	case errors.Is(err, ledger.ErrTypeInUse):
		return "Der Typ wird noch verwendet. Mit --to einen Ersatz angeben."
	case errors.Is(err, ledger.ErrStoredAmountInvalid):
		return "Der gespeicherte Betrag ist ungültig. Mit --amount einen neuen Betrag angeben."
	case errors.Is(err, fixedcost.ErrNotEffective):
		return "Die Fixkosten sind im gewählten Monat nicht aktiv."
	case errors.Is(err, ledger.ErrNotFound):
		return "Nicht gefunden: " + err.Error()
	}
	return err.Error()
}
