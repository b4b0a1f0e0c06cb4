package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"finanzplan/internal/core"
	"finanzplan/internal/ledger"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatXLSX:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown export format %q: must be json, yaml or xlsx", s)
}

// WriteJSON writes the month report as indented JSON.
func WriteJSON(w io.Writer, r ledger.MonthReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteYAML writes the month report as YAML.
func WriteYAML(w io.Writer, r ledger.MonthReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

// ExportFile writes the report to path in the given format.
func ExportFile(path string, format Format, r ledger.MonthReport) error {
	if format == FormatXLSX {
		return WriteXLSX(path, r)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case FormatJSON:
		err = WriteJSON(f, r)
	case FormatYAML:
		err = WriteYAML(f, r)
	default:
		err = fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Sheet names of the workbook written by WriteXLSX.
const (
	SheetSummary  = "Übersicht"
	SheetIncomes  = "Einnahmen"
	SheetFixed    = "Fixkosten"
	SheetExpenses = "Ausgaben"
	SheetSavings  = "Sparen"
)

func euros(cents int64) float64 {
	return core.Money{Cents: cents}.Euros().InexactFloat64()
}

// WriteXLSX writes one sheet per section of the report. Amounts are numbers
// in euros.
func WriteXLSX(path string, r ledger.MonthReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	summary := [][]any{
		{"Monat", r.Summary.Month.String()},
		{"Einnahmen", euros(r.Summary.Income.Cents)},
		{"Fixkosten", euros(r.Summary.Fixed.Cents)},
		{"Ausgaben", euros(r.Summary.Expenses.Cents)},
		{"Sparen", euros(r.Summary.Deposits.Cents)},
		{"Verfügbar", euros(r.Available.Cents)},
	}
	if err := writeRows(f, SheetSummary, nil, summary); err != nil {
		return err
	}

	var incomes [][]any
	for _, inc := range r.Incomes {
		incomes = append(incomes, []any{inc.Date.String(), string(inc.Type), inc.Note, euros(inc.AmountCents)})
	}
	if err := writeRows(f, SheetIncomes, []any{"Datum", "Art", "Notiz", "Betrag"}, incomes); err != nil {
		return err
	}

	var fixed [][]any
	for _, v := range r.FixedCosts {
		fixed = append(fixed, []any{v.Name, r.TypeName(ledger.KindFixed, v.TypeID), v.StartMonth, v.Note, euros(v.AmountCents)})
	}
	if err := writeRows(f, SheetFixed, []any{"Name", "Typ", "Seit", "Notiz", "Betrag"}, fixed); err != nil {
		return err
	}

	var expenses [][]any
	for _, e := range r.Expenses {
		expenses = append(expenses, []any{e.Date.String(), r.TypeName(ledger.KindExpense, e.CategoryID), e.Note, euros(e.AmountCents)})
	}
	if err := writeRows(f, SheetExpenses, []any{"Datum", "Kategorie", "Notiz", "Betrag"}, expenses); err != nil {
		return err
	}

	var savings [][]any
	for _, ps := range r.Savings {
		var target any = ""
		if ps.Plan.TargetCents != nil {
			target = euros(*ps.Plan.TargetCents)
		}
		savings = append(savings, []any{ps.Plan.Name, euros(ps.RateCents), ps.Deposited, euros(ps.Total.Cents), target})
	}
	if err := writeRows(f, SheetSavings, []any{"Plan", "Rate", "Eingezahlt", "Stand", "Ziel"}, savings); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// writeRows fills sheet from A1, creating it if needed. A nil header skips
// the header row.
func writeRows(f *excelize.File, sheet string, header []any, rows [][]any) error {
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	}
	if header != nil {
		rows = append([][]any{header}, rows...)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
