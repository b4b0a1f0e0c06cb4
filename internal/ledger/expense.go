package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"finanzplan/internal/core"
	"finanzplan/internal/log"
)

// ExpenseInput is the editable part of an expense. When NewCategory is set a
// category with that name is created and used instead of CategoryID.
type ExpenseInput struct {
	Date        core.Date
	AmountCents int64
	CategoryID  string
	NewCategory string
	Note        string
}

// Expenses lists the expenses of month, newest first.
func (s *Service) Expenses(ctx context.Context, month core.Month) ([]core.Expense, error) {
	all, err := loadList(ctx, s, KeyExpenses, empty[core.Expense])
	if err != nil {
		return nil, err
	}
	out := make([]core.Expense, 0, len(all))
	for _, e := range all {
		if e.Month == month {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date.Time) })
	return out, nil
}

// expenseFrom validates in and resolves its category, creating it if asked.
func (s *Service) expenseFrom(ctx context.Context, id string, in ExpenseInput) (core.Expense, error) {
	if in.Date.IsZero() {
		in.Date = s.Today()
	}
	categoryID, err := s.resolveCategory(ctx, KindExpense, in.CategoryID, in.NewCategory)
	if err != nil {
		return core.Expense{}, err
	}
	e := core.Expense{
		ID:          id,
		Date:        in.Date,
		Month:       in.Date.CalendarMonth(),
		AmountCents: in.AmountCents,
		CategoryID:  categoryID,
		Note:        strings.TrimSpace(in.Note),
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

func (s *Service) Expense(ctx context.Context, id string) (core.Expense, error) {
	all, err := loadList(ctx, s, KeyExpenses, empty[core.Expense])
	if err != nil {
		return core.Expense{}, err
	}
	idx := indexOf(all, id, func(e core.Expense) string { return e.ID })
	if idx < 0 {
		return core.Expense{}, fmt.Errorf("expense %s: %w", id, ErrNotFound)
	}
	return all[idx], nil
}

func (s *Service) AddExpense(ctx context.Context, in ExpenseInput) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := (core.Money{Cents: in.AmountCents}).Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}
	e, err := s.expenseFrom(ctx, s.newID(prefixExpense), in)
	if err != nil {
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}
	all, err := loadList(ctx, s, KeyExpenses, empty[core.Expense])
	if err != nil {
		return core.Expense{}, err
	}
	if err := saveList(ctx, s, KeyExpenses, append(all, e)); err != nil {
		return core.Expense{}, err
	}
	s.logger.InfoContext(ctx, "Expense added",
		log.FieldID, e.ID, log.FieldCategoryID, e.CategoryID, log.FieldAmountCents, e.AmountCents)
	return e, nil
}

func (s *Service) UpdateExpense(ctx context.Context, id string, in ExpenseInput) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := loadList(ctx, s, KeyExpenses, empty[core.Expense])
	if err != nil {
		return core.Expense{}, err
	}
	idx := indexOf(all, id, func(e core.Expense) string { return e.ID })
	if idx < 0 {
		return core.Expense{}, fmt.Errorf("expense %s: %w", id, ErrNotFound)
	}
	if err := (core.Money{Cents: in.AmountCents}).Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	e, err := s.expenseFrom(ctx, id, in)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	all[idx] = e
	if err := saveList(ctx, s, KeyExpenses, all); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

func (s *Service) RemoveExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := loadList(ctx, s, KeyExpenses, empty[core.Expense])
	if err != nil {
		return err
	}
	idx := indexOf(all, id, func(e core.Expense) string { return e.ID })
	if idx < 0 {
		return fmt.Errorf("expense %s: %w", id, ErrNotFound)
	}
	return saveList(ctx, s, KeyExpenses, append(all[:idx], all[idx+1:]...))
}
