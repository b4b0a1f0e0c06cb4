package ledger

import (
	"context"
	"sort"

	"finanzplan/internal/core"
	"finanzplan/internal/fixedcost"
)

// MonthReport bundles everything shown or exported for one month.
type MonthReport struct {
	Summary           core.MonthSummary   `json:"summary" yaml:"summary"`
	Available         core.Money          `json:"availableCents" yaml:"availableCents"`
	Incomes           []core.Income       `json:"incomes" yaml:"incomes"`
	FixedCosts        []fixedcost.Version `json:"fixedCosts" yaml:"fixedCosts"`
	Expenses          []core.Expense      `json:"expenses" yaml:"expenses"`
	Savings           []PlanStatus        `json:"savings" yaml:"savings"`
	FixedTypes        []core.Category     `json:"fixedTypes" yaml:"fixedTypes"`
	ExpenseCategories []core.Category     `json:"expenseCategories" yaml:"expenseCategories"`
}

// TypeName returns the display name of a fixed-cost type or expense category.
func (r MonthReport) TypeName(kind Kind, id string) string {
	list := r.ExpenseCategories
	if kind == KindFixed {
		list = r.FixedTypes
	}
	if name, ok := categoryNames(list)[id]; ok {
		return name
	}
	return id
}

// MonthSummary computes the totals of month:
// available = income - fixed costs - expenses - savings deposits.
func (s *Service) MonthSummary(ctx context.Context, month core.Month) (core.MonthSummary, error) {
	r, err := s.MonthReport(ctx, month)
	if err != nil {
		return core.MonthSummary{}, err
	}
	return r.Summary, nil
}

// MonthReport gathers the entries and totals of month.
func (s *Service) MonthReport(ctx context.Context, month core.Month) (MonthReport, error) {
	var r MonthReport
	var err error
	if r.Incomes, err = s.Incomes(ctx, month); err != nil {
		return r, err
	}
	if r.FixedCosts, err = s.FixedCosts(ctx, month); err != nil {
		return r, err
	}
	if r.Expenses, err = s.Expenses(ctx, month); err != nil {
		return r, err
	}
	if r.Savings, err = s.SavingsOverview(ctx, month); err != nil {
		return r, err
	}
	if r.FixedTypes, err = s.Categories(ctx, KindFixed); err != nil {
		return r, err
	}
	if r.ExpenseCategories, err = s.Categories(ctx, KindExpense); err != nil {
		return r, err
	}
	moves, err := loadList(ctx, s, KeySavingsMoves, empty[core.SavingsMove])
	if err != nil {
		return r, err
	}

	sum := core.MonthSummary{Month: month}
	for _, inc := range r.Incomes {
		sum.Income.Cents += inc.AmountCents
	}
	sum.Fixed = fixedcost.Total(r.FixedCosts)

	byCategory := map[string]int64{}
	for _, e := range r.Expenses {
		sum.Expenses.Cents += e.AmountCents
		byCategory[r.TypeName(KindExpense, e.CategoryID)] += e.AmountCents
	}
	for _, m := range moves {
		if m.Month == month && m.Type == core.MoveDeposit {
			sum.Deposits.Cents += m.AmountCents
		}
	}
	for name, cents := range byCategory {
		sum.ByCategory = append(sum.ByCategory, core.CategoryAmount{Name: name, Amount: core.Money{Cents: cents}})
	}
	sort.Slice(sum.ByCategory, func(i, j int) bool {
		a, b := sum.ByCategory[i], sum.ByCategory[j]
		if a.Amount.Cents != b.Amount.Cents {
			return a.Amount.Cents > b.Amount.Cents
		}
		return a.Name < b.Name
	})

	r.Summary = sum
	r.Available = sum.Available()
	return r, nil
}
