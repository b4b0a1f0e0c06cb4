package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"finanzplan/internal/core"
	"finanzplan/internal/log"
)

// IncomeInput is the editable part of an income. A zero Date means today.
type IncomeInput struct {
	Date        core.Date
	AmountCents int64
	Type        core.IncomeType
	Note        string
}

func (s *Service) incomeFrom(id string, in IncomeInput) (core.Income, error) {
	if in.Date.IsZero() {
		in.Date = s.Today()
	}
	if in.Type == "" {
		in.Type = core.IncomeSalary
	}
	inc := core.Income{
		ID:          id,
		Date:        in.Date,
		Month:       in.Date.CalendarMonth(),
		AmountCents: in.AmountCents,
		Type:        in.Type,
		Note:        strings.TrimSpace(in.Note),
	}
	if err := inc.Validate(); err != nil {
		return core.Income{}, err
	}
	return inc, nil
}

// Incomes lists the incomes of month, newest first.
func (s *Service) Incomes(ctx context.Context, month core.Month) ([]core.Income, error) {
	all, err := loadList(ctx, s, KeyIncomes, empty[core.Income])
	if err != nil {
		return nil, err
	}
	out := make([]core.Income, 0, len(all))
	for _, inc := range all {
		if inc.Month == month {
			out = append(out, inc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date.Time) })
	return out, nil
}

// Income returns the income with the given id, in any month.
func (s *Service) Income(ctx context.Context, id string) (core.Income, error) {
	all, err := loadList(ctx, s, KeyIncomes, empty[core.Income])
	if err != nil {
		return core.Income{}, err
	}
	idx := indexOf(all, id, func(i core.Income) string { return i.ID })
	if idx < 0 {
		return core.Income{}, fmt.Errorf("income %s: %w", id, ErrNotFound)
	}
	return all[idx], nil
}

func (s *Service) AddIncome(ctx context.Context, in IncomeInput) (core.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inc, err := s.incomeFrom(s.newID(prefixIncome), in)
	if err != nil {
		return core.Income{}, fmt.Errorf("add income: %w", err)
	}
	all, err := loadList(ctx, s, KeyIncomes, empty[core.Income])
	if err != nil {
		return core.Income{}, err
	}
	if err := saveList(ctx, s, KeyIncomes, append(all, inc)); err != nil {
		return core.Income{}, err
	}
	s.logger.InfoContext(ctx, "Income added",
		log.FieldID, inc.ID, log.FieldMonth, inc.Month.String(), log.FieldAmountCents, inc.AmountCents)
	return inc, nil
}

// UpdateIncome replaces the income with the given id in place.
func (s *Service) UpdateIncome(ctx context.Context, id string, in IncomeInput) (core.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := loadList(ctx, s, KeyIncomes, empty[core.Income])
	if err != nil {
		return core.Income{}, err
	}
	idx := indexOf(all, id, func(i core.Income) string { return i.ID })
	if idx < 0 {
		return core.Income{}, fmt.Errorf("income %s: %w", id, ErrNotFound)
	}
	inc, err := s.incomeFrom(id, in)
	if err != nil {
		return core.Income{}, fmt.Errorf("update income: %w", err)
	}
	all[idx] = inc
	if err := saveList(ctx, s, KeyIncomes, all); err != nil {
		return core.Income{}, err
	}
	return inc, nil
}

func (s *Service) RemoveIncome(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := loadList(ctx, s, KeyIncomes, empty[core.Income])
	if err != nil {
		return err
	}
	idx := indexOf(all, id, func(i core.Income) string { return i.ID })
	if idx < 0 {
		return fmt.Errorf("income %s: %w", id, ErrNotFound)
	}
	return saveList(ctx, s, KeyIncomes, append(all[:idx], all[idx+1:]...))
}

func indexOf[T any](list []T, id string, idOf func(T) string) int {
	for i, item := range list {
		if idOf(item) == id {
			return i
		}
	}
	return -1
}
