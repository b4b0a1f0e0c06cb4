package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"finanzplan/internal/core"
	"finanzplan/internal/log"
)

// PlanInput describes a new savings plan. InitialRateCents > 0 sets the rate
// of the month the plan is created in.
type PlanInput struct {
	Name             string
	TargetCents      *int64
	InitialRateCents int64
}

// PlanStatus is one row of the savings overview of a month.
type PlanStatus struct {
	Plan      core.SavingsPlan `json:"plan" yaml:"plan"`
	RateCents int64            `json:"rateCents" yaml:"rateCents"`
	Deposited bool             `json:"deposited" yaml:"deposited"`
	Total     core.Money       `json:"totalCents" yaml:"totalCents"`
}

type savingsState struct {
	plans []core.SavingsPlan
	rates []core.SavingsRate
	moves []core.SavingsMove
}

func (s *Service) loadSavings(ctx context.Context) (savingsState, error) {
	var st savingsState
	var err error
	if st.plans, err = loadList(ctx, s, KeySavingsPlans, empty[core.SavingsPlan]); err != nil {
		return st, err
	}
	if st.rates, err = loadList(ctx, s, KeySavingsRates, empty[core.SavingsRate]); err != nil {
		return st, err
	}
	if st.moves, err = loadList(ctx, s, KeySavingsMoves, empty[core.SavingsMove]); err != nil {
		return st, err
	}
	return st, nil
}

func (st savingsState) plan(id string) (int, error) {
	idx := indexOf(st.plans, id, func(p core.SavingsPlan) string { return p.ID })
	if idx < 0 {
		return -1, fmt.Errorf("savings plan %s: %w", id, ErrNotFound)
	}
	return idx, nil
}

func (st savingsState) rate(planID string, month core.Month) int {
	for i, r := range st.rates {
		if r.PlanID == planID && r.Month == month {
			return i
		}
	}
	return -1
}

func (st savingsState) deposit(planID string, month core.Month) int {
	for i, m := range st.moves {
		if m.PlanID == planID && m.Month == month && m.Type == core.MoveDeposit {
			return i
		}
	}
	return -1
}

func (st savingsState) total(planID string) core.Money {
	var total int64
	for _, m := range st.moves {
		if m.PlanID == planID {
			total += m.Signed()
		}
	}
	return core.Money{Cents: total}
}

// SavingsPlans lists the plans, archived ones only when asked.
func (s *Service) SavingsPlans(ctx context.Context, includeArchived bool) ([]core.SavingsPlan, error) {
	plans, err := loadList(ctx, s, KeySavingsPlans, empty[core.SavingsPlan])
	if err != nil {
		return nil, err
	}
	out := plans[:0]
	for _, p := range plans {
		if includeArchived || !p.IsArchived {
			out = append(out, p)
		}
	}
	return out, nil
}

// SavingsOverview returns rate, deposit state and balance of every active
// plan for month.
func (s *Service) SavingsOverview(ctx context.Context, month core.Month) ([]PlanStatus, error) {
	st, err := s.loadSavings(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PlanStatus, 0, len(st.plans))
	for _, p := range st.plans {
		if p.IsArchived {
			continue
		}
		ps := PlanStatus{Plan: p, Deposited: st.deposit(p.ID, month) >= 0, Total: st.total(p.ID)}
		if i := st.rate(p.ID, month); i >= 0 {
			ps.RateCents = st.rates[i].AmountCents
		}
		out = append(out, ps)
	}
	return out, nil
}

// SavingsTotals returns the balance of every active plan: deposits minus
// withdrawals over all months.
func (s *Service) SavingsTotals(ctx context.Context) ([]core.PlanTotal, error) {
	st, err := s.loadSavings(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.PlanTotal, 0, len(st.plans))
	for _, p := range st.plans {
		if p.IsArchived {
			continue
		}
		out = append(out, core.PlanTotal{PlanID: p.ID, Name: p.Name, Total: st.total(p.ID), TargetCents: p.TargetCents})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// AddSavingsPlan creates a plan and, if given, its rate for month.
func (s *Service) AddSavingsPlan(ctx context.Context, month core.Month, in PlanInput) (core.SavingsPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := core.SavingsPlan{ID: s.newID(prefixPlan), Name: strings.TrimSpace(in.Name), TargetCents: in.TargetCents}
	if err := p.Validate(); err != nil {
		return core.SavingsPlan{}, fmt.Errorf("add savings plan: %w", err)
	}
	if in.InitialRateCents < 0 {
		return core.SavingsPlan{}, fmt.Errorf("add savings plan: rate: %w", core.ErrInvalidAmount)
	}
	st, err := s.loadSavings(ctx)
	if err != nil {
		return core.SavingsPlan{}, err
	}
	if err := saveList(ctx, s, KeySavingsPlans, append(st.plans, p)); err != nil {
		return core.SavingsPlan{}, err
	}
	if in.InitialRateCents > 0 {
		r := core.SavingsRate{ID: s.newID(prefixRate), PlanID: p.ID, Month: month, AmountCents: in.InitialRateCents}
		if err := saveList(ctx, s, KeySavingsRates, append(st.rates, r)); err != nil {
			return core.SavingsPlan{}, err
		}
	}
	s.logger.InfoContext(ctx, "Savings plan added", log.FieldPlanID, p.ID)
	return p, nil
}

// SetRate sets the rate of a plan for one month only. Zero is allowed.
func (s *Service) SetRate(ctx context.Context, planID string, month core.Month, cents int64) (core.SavingsRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cents < 0 {
		return core.SavingsRate{}, fmt.Errorf("set rate: %w", core.ErrInvalidAmount)
	}
	st, err := s.loadSavings(ctx)
	if err != nil {
		return core.SavingsRate{}, err
	}
	if _, err := st.plan(planID); err != nil {
		return core.SavingsRate{}, err
	}
	var r core.SavingsRate
	if i := st.rate(planID, month); i >= 0 {
		st.rates[i].AmountCents = cents
		r = st.rates[i]
	} else {
		r = core.SavingsRate{ID: s.newID(prefixRate), PlanID: planID, Month: month, AmountCents: cents}
		st.rates = append(st.rates, r)
	}
	if err := saveList(ctx, s, KeySavingsRates, st.rates); err != nil {
		return core.SavingsRate{}, err
	}
	return r, nil
}

// Deposit books the month's rate of a plan, dated the first of the month.
// A plan is deposited at most once per month.
func (s *Service) Deposit(ctx context.Context, planID string, month core.Month) (core.SavingsMove, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.loadSavings(ctx)
	if err != nil {
		return core.SavingsMove{}, err
	}
	idx, err := st.plan(planID)
	if err != nil {
		return core.SavingsMove{}, err
	}
	if st.plans[idx].IsArchived {
		return core.SavingsMove{}, ErrPlanArchived
	}
	var amount int64
	if i := st.rate(planID, month); i >= 0 {
		amount = st.rates[i].AmountCents
	}
	if amount <= 0 {
		return core.SavingsMove{}, ErrZeroRate
	}
	if st.deposit(planID, month) >= 0 {
		return core.SavingsMove{}, ErrAlreadyDeposited
	}

	m := core.SavingsMove{
		ID:          s.newID(prefixSavingsMove),
		PlanID:      planID,
		Date:        month.FirstDay(),
		Month:       month,
		AmountCents: amount,
		Type:        core.MoveDeposit,
	}
	if err := saveList(ctx, s, KeySavingsMoves, append(st.moves, m)); err != nil {
		return core.SavingsMove{}, err
	}
	s.logger.InfoContext(ctx, "Savings rate deposited",
		log.FieldOperation, log.OpDeposit, log.FieldPlanID, planID,
		log.FieldMonth, month.String(), log.FieldAmountCents, amount)
	return m, nil
}

// Withdraw takes money out of a plan. A zero date means today.
func (s *Service) Withdraw(ctx context.Context, planID string, date core.Date, cents int64) (core.SavingsMove, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if date.IsZero() {
		date = s.Today()
	}
	m := core.SavingsMove{
		ID:          s.newID(prefixSavingsMove),
		PlanID:      planID,
		Date:        date,
		Month:       date.CalendarMonth(),
		AmountCents: cents,
		Type:        core.MoveWithdraw,
	}
	if err := m.Validate(); err != nil {
		return core.SavingsMove{}, fmt.Errorf("withdraw: %w", err)
	}
	st, err := s.loadSavings(ctx)
	if err != nil {
		return core.SavingsMove{}, err
	}
	if _, err := st.plan(planID); err != nil {
		return core.SavingsMove{}, err
	}
	if err := saveList(ctx, s, KeySavingsMoves, append(st.moves, m)); err != nil {
		return core.SavingsMove{}, err
	}
	return m, nil
}

// UndoDeposit removes the month's deposit of a plan.
func (s *Service) UndoDeposit(ctx context.Context, planID string, month core.Month) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	moves, err := loadList(ctx, s, KeySavingsMoves, empty[core.SavingsMove])
	if err != nil {
		return err
	}
	i := savingsState{moves: moves}.deposit(planID, month)
	if i < 0 {
		return fmt.Errorf("deposit of %s in %s: %w", planID, month, ErrNotFound)
	}
	return saveList(ctx, s, KeySavingsMoves, append(moves[:i], moves[i+1:]...))
}

func (s *Service) updatePlan(ctx context.Context, planID string, apply func(*core.SavingsPlan) error) (core.SavingsPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plans, err := loadList(ctx, s, KeySavingsPlans, empty[core.SavingsPlan])
	if err != nil {
		return core.SavingsPlan{}, err
	}
	idx, err := savingsState{plans: plans}.plan(planID)
	if err != nil {
		return core.SavingsPlan{}, err
	}
	if err := apply(&plans[idx]); err != nil {
		return core.SavingsPlan{}, err
	}
	if err := saveList(ctx, s, KeySavingsPlans, plans); err != nil {
		return core.SavingsPlan{}, err
	}
	return plans[idx], nil
}

func (s *Service) RenamePlan(ctx context.Context, planID, name string) (core.SavingsPlan, error) {
	return s.updatePlan(ctx, planID, func(p *core.SavingsPlan) error {
		name = strings.TrimSpace(name)
		if err := core.ValidateName(name); err != nil {
			return err
		}
		p.Name = name
		return nil
	})
}

// ArchivePlan hides a plan from overviews and totals. Its data is kept.
func (s *Service) ArchivePlan(ctx context.Context, planID string) (core.SavingsPlan, error) {
	return s.updatePlan(ctx, planID, func(p *core.SavingsPlan) error {
		p.IsArchived = true
		return nil
	})
}

// DeletePlan removes a plan together with all its rates and moves.
func (s *Service) DeletePlan(ctx context.Context, planID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.loadSavings(ctx)
	if err != nil {
		return err
	}
	idx, err := st.plan(planID)
	if err != nil {
		return err
	}
	rates := st.rates[:0]
	for _, r := range st.rates {
		if r.PlanID != planID {
			rates = append(rates, r)
		}
	}
	moves := st.moves[:0]
	for _, m := range st.moves {
		if m.PlanID != planID {
			moves = append(moves, m)
		}
	}
	if err := saveList(ctx, s, KeySavingsPlans, append(st.plans[:idx], st.plans[idx+1:]...)); err != nil {
		return err
	}
	if err := saveList(ctx, s, KeySavingsRates, rates); err != nil {
		return err
	}
	if err := saveList(ctx, s, KeySavingsMoves, moves); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Savings plan deleted", log.FieldPlanID, planID)
	return nil
}

// CopyRatesFromPreviousMonth gives every active plan the rate it had in the
// month before month. Nothing happens when any active plan already has a
// rate for month. It returns the number of rates created.
func (s *Service) CopyRatesFromPreviousMonth(ctx context.Context, month core.Month) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.loadSavings(ctx)
	if err != nil {
		return 0, err
	}
	var active []core.SavingsPlan
	for _, p := range st.plans {
		if p.IsArchived {
			continue
		}
		if st.rate(p.ID, month) >= 0 {
			return 0, nil
		}
		active = append(active, p)
	}

	prev := month.AddMonths(-1)
	copied := 0
	for _, p := range active {
		i := st.rate(p.ID, prev)
		if i < 0 {
			continue
		}
		st.rates = append(st.rates, core.SavingsRate{
			ID:          s.newID(prefixRate),
			PlanID:      p.ID,
			Month:       month,
			AmountCents: st.rates[i].AmountCents,
		})
		copied++
	}
	if copied == 0 {
		return 0, nil
	}
	if err := saveList(ctx, s, KeySavingsRates, st.rates); err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "Savings rates copied from previous month",
		log.FieldMonth, month.String(), log.FieldCount, copied)
	return copied, nil
}
