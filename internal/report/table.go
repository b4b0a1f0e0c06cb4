// Package report renders ledger data for the terminal and exports it to
// files.
package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"finanzplan/internal/core"
	"finanzplan/internal/fixedcost"
	"finanzplan/internal/ledger"
)

var monthNames = [...]string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

// MonthLabel formats a month as "Juni 2024".
func MonthLabel(m core.Month) string {
	return fmt.Sprintf("%s %d", monthNames[m.Month()-1], m.Year())
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	return t
}

func rightAlign(cols ...int) []table.ColumnConfig {
	out := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		out[i] = table.ColumnConfig{Number: c, Align: text.AlignRight, AlignFooter: text.AlignRight}
	}
	return out
}

func signed(m core.Money) string {
	if m.Cents < 0 {
		return text.FgRed.Sprint(m.String())
	}
	return text.FgGreen.Sprint(m.String())
}

// PrintSummary prints the totals of a month and the available budget.
func PrintSummary(w io.Writer, r ledger.MonthReport) {
	fmt.Fprintf(w, "%s\n\n", MonthLabel(r.Summary.Month))

	t := newTable(w)
	t.AppendHeader(table.Row{"Posten", "Betrag"})
	t.AppendRow(table.Row{"Einnahmen", r.Summary.Income.String()})
	t.AppendRow(table.Row{"Fixkosten", "-" + r.Summary.Fixed.String()})
	t.AppendRow(table.Row{"Ausgaben", "-" + r.Summary.Expenses.String()})
	t.AppendRow(table.Row{"Sparen", "-" + r.Summary.Deposits.String()})
	t.AppendFooter(table.Row{text.Bold.Sprint("Verfügbar"), text.Bold.Sprint(signed(r.Available))})
	t.SetColumnConfigs(rightAlign(2))
	t.Render()

	if len(r.Summary.ByCategory) > 0 {
		fmt.Fprintln(w)
		c := newTable(w)
		c.AppendHeader(table.Row{"Kategorie", "Ausgaben"})
		for _, ca := range r.Summary.ByCategory {
			c.AppendRow(table.Row{ca.Name, ca.Amount.String()})
		}
		c.SetColumnConfigs(rightAlign(2))
		c.Render()
	}
}

// PrintIncomes lists incomes with their total.
func PrintIncomes(w io.Writer, incomes []core.Income) {
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Datum", "Art", "Notiz", "Betrag"})
	var total core.Money
	for _, inc := range incomes {
		amount := core.Money{Cents: inc.AmountCents}
		total = total.Add(amount)
		t.AppendRow(table.Row{inc.ID, inc.Date.String(), string(inc.Type), inc.Note, amount.String()})
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{"", "", "", text.Bold.Sprint("Summe"), text.Bold.Sprint(total.String())})
	t.SetColumnConfigs(rightAlign(5))
	t.Render()
}

// PrintExpenses lists expenses with category names and their total.
func PrintExpenses(w io.Writer, r ledger.MonthReport) {
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Datum", "Kategorie", "Notiz", "Betrag"})
	var total core.Money
	for _, e := range r.Expenses {
		amount := core.Money{Cents: e.AmountCents}
		total = total.Add(amount)
		t.AppendRow(table.Row{e.ID, e.Date.String(), r.TypeName(ledger.KindExpense, e.CategoryID), e.Note, amount.String()})
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{"", "", "", text.Bold.Sprint("Summe"), text.Bold.Sprint(total.String())})
	t.SetColumnConfigs(rightAlign(5))
	t.Render()
}

// PrintFixedCosts lists the fixed costs in effect in a month. The first
// column is the base id every edit and delete refers to.
func PrintFixedCosts(w io.Writer, r ledger.MonthReport) {
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Name", "Typ", "Seit", "Notiz", "Betrag"})
	for _, v := range r.FixedCosts {
		t.AppendRow(table.Row{v.BaseID, v.Name, r.TypeName(ledger.KindFixed, v.TypeID), v.StartMonth, v.Note, v.Amount().String()})
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{"", "", "", "", text.Bold.Sprint("Summe"), text.Bold.Sprint(fixedcost.Total(r.FixedCosts).String())})
	t.SetColumnConfigs(rightAlign(6))
	t.Render()
}

// PrintHistory lists every version of one fixed cost in write order.
func PrintHistory(w io.Writer, versions []fixedcost.Version) {
	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Version", "Ab", "Name", "Betrag", "Status"})
	for i, v := range versions {
		status := text.FgGreen.Sprint("aktiv")
		if v.Deleted {
			status = text.FgRed.Sprint("gelöscht")
		}
		t.AppendRow(table.Row{i + 1, v.ID, v.StartMonth, v.Name, v.Amount().String(), status})
	}
	t.SetColumnConfigs(rightAlign(1, 5))
	t.Render()
}

// PrintCategories lists a type list with usage counts.
func PrintCategories(w io.Writer, list []core.Category, usage map[string]int) {
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Name", "Verwendet"})
	for _, c := range list {
		t.AppendRow(table.Row{c.ID, c.Name, usage[c.ID]})
	}
	t.SetColumnConfigs(rightAlign(3))
	t.Render()
}

// PrintSavings lists the active plans of a month with rate, deposit state,
// balance and target.
func PrintSavings(w io.Writer, plans []ledger.PlanStatus) {
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Plan", "Rate", "Eingezahlt", "Stand", "Ziel"})
	var rates, totals core.Money
	for _, ps := range plans {
		rate := core.Money{Cents: ps.RateCents}
		rates = rates.Add(rate)
		totals = totals.Add(ps.Total)

		deposited := text.FgHiBlack.Sprint("nein")
		if ps.Deposited {
			deposited = text.FgGreen.Sprint("ja")
		}
		target := "-"
		if ps.Plan.TargetCents != nil {
			goal := core.Money{Cents: *ps.Plan.TargetCents}
			target = fmt.Sprintf("%s (%d%%)", goal.String(), progress(ps.Total, goal))
		}
		t.AppendRow(table.Row{ps.Plan.ID, ps.Plan.Name, rate.String(), deposited, ps.Total.String(), target})
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{"", text.Bold.Sprint("Summe"), text.Bold.Sprint(rates.String()), "", text.Bold.Sprint(totals.String()), ""})
	t.SetColumnConfigs(rightAlign(3, 5, 6))
	t.Render()
}

// progress is the share of goal reached, in whole percent, capped at 100.
func progress(total, goal core.Money) int64 {
	if goal.Cents <= 0 || total.Cents <= 0 {
		return 0
	}
	p := total.Cents * 100 / goal.Cents
	if p > 100 {
		return 100
	}
	return p
}
