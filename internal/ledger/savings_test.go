package ledger

import (
	"errors"
	"testing"

	"finanzplan/internal/core"
)

func TestSavingsDepositOncePerMonth(t *testing.T) {
	env := newTestEnv(t)
	p, err := env.svc.AddSavingsPlan(env.ctx, june, PlanInput{Name: "Auto", TargetCents: ptr[int64](800000), InitialRateCents: 20000})
	if err != nil {
		t.Fatalf("AddSavingsPlan: %v", err)
	}

	m, err := env.svc.Deposit(env.ctx, p.ID, june)
	if err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if m.AmountCents != 20000 || m.Date.String() != "2024-06-01" || m.Type != core.MoveDeposit {
		t.Fatalf("unexpected move %+v", m)
	}
	if _, err := env.svc.Deposit(env.ctx, p.ID, june); !errors.Is(err, ErrAlreadyDeposited) {
		t.Fatalf("expected ErrAlreadyDeposited, got %v", err)
	}
	if _, err := env.svc.Deposit(env.ctx, p.ID, june.Next()); !errors.Is(err, ErrZeroRate) {
		t.Fatalf("expected ErrZeroRate for a month without rate, got %v", err)
	}

	overview, err := env.svc.SavingsOverview(env.ctx, june)
	if err != nil || len(overview) != 1 || !overview[0].Deposited || overview[0].Total.Cents != 20000 {
		t.Fatalf("SavingsOverview = %+v, %v", overview, err)
	}

	if err := env.svc.UndoDeposit(env.ctx, p.ID, june); err != nil {
		t.Fatalf("UndoDeposit: %v", err)
	}
	if err := env.svc.UndoDeposit(env.ctx, p.ID, june); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := env.svc.Deposit(env.ctx, p.ID, june); err != nil {
		t.Fatalf("deposit after undo: %v", err)
	}
}

func TestSavingsSetRate(t *testing.T) {
	env := newTestEnv(t)
	p, _ := env.svc.AddSavingsPlan(env.ctx, june, PlanInput{Name: "Urlaub"})

	r, err := env.svc.SetRate(env.ctx, p.ID, june, 5000)
	if err != nil {
		t.Fatalf("SetRate: %v", err)
	}
	again, err := env.svc.SetRate(env.ctx, p.ID, june, 0)
	if err != nil || again.ID != r.ID || again.AmountCents != 0 {
		t.Fatalf("overwrite = %+v, %v", again, err)
	}
	if _, err := env.svc.Deposit(env.ctx, p.ID, june); !errors.Is(err, ErrZeroRate) {
		t.Fatalf("expected ErrZeroRate, got %v", err)
	}
	if _, err := env.svc.SetRate(env.ctx, p.ID, june, -1); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := env.svc.SetRate(env.ctx, "sp_missing", june, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSavingsPlanValidation(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.svc.AddSavingsPlan(env.ctx, june, PlanInput{Name: ""}); !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if _, err := env.svc.AddSavingsPlan(env.ctx, june, PlanInput{Name: "x", TargetCents: ptr[int64](0)}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestCopyRatesFromPreviousMonth(t *testing.T) {
	env := newTestEnv(t)
	may := june.AddMonths(-1)
	a, _ := env.svc.AddSavingsPlan(env.ctx, may, PlanInput{Name: "A", InitialRateCents: 1000})
	b, _ := env.svc.AddSavingsPlan(env.ctx, may, PlanInput{Name: "B", InitialRateCents: 2000})
	archived, _ := env.svc.AddSavingsPlan(env.ctx, may, PlanInput{Name: "C", InitialRateCents: 3000})
	env.svc.AddSavingsPlan(env.ctx, may, PlanInput{Name: "D"})
	if _, err := env.svc.ArchivePlan(env.ctx, archived.ID); err != nil {
		t.Fatal(err)
	}

	n, err := env.svc.CopyRatesFromPreviousMonth(env.ctx, june)
	if err != nil || n != 2 {
		t.Fatalf("CopyRatesFromPreviousMonth = %d, %v", n, err)
	}
	overview, _ := env.svc.SavingsOverview(env.ctx, june)
	rates := map[string]int64{}
	for _, ps := range overview {
		rates[ps.Plan.ID] = ps.RateCents
	}
	if rates[a.ID] != 1000 || rates[b.ID] != 2000 || len(overview) != 3 {
		t.Fatalf("rates after copy = %v", rates)
	}

	if _, err := env.svc.SetRate(env.ctx, a.ID, june, 1500); err != nil {
		t.Fatal(err)
	}
	if n, _ := env.svc.CopyRatesFromPreviousMonth(env.ctx, june); n != 0 {
		t.Fatalf("month with rates must not be copied into again, copied %d", n)
	}
}

func TestCopyRatesSkipsMonthWithAnyRate(t *testing.T) {
	env := newTestEnv(t)
	may := june.AddMonths(-1)
	a, _ := env.svc.AddSavingsPlan(env.ctx, may, PlanInput{Name: "A", InitialRateCents: 1000})
	b, _ := env.svc.AddSavingsPlan(env.ctx, may, PlanInput{Name: "B", InitialRateCents: 2000})
	env.svc.SetRate(env.ctx, a.ID, june, 0)

	if n, _ := env.svc.CopyRatesFromPreviousMonth(env.ctx, june); n != 0 {
		t.Fatalf("copied %d rates into a month that already had one", n)
	}
	overview, _ := env.svc.SavingsOverview(env.ctx, june)
	for _, ps := range overview {
		if ps.Plan.ID == b.ID && ps.RateCents != 0 {
			t.Fatalf("B should have no June rate, got %d", ps.RateCents)
		}
	}
}

func TestSavingsTotalsAndWithdraw(t *testing.T) {
	env := newTestEnv(t)
	p, _ := env.svc.AddSavingsPlan(env.ctx, june, PlanInput{Name: "Notgroschen", InitialRateCents: 10000})
	env.svc.Deposit(env.ctx, p.ID, june)
	env.svc.SetRate(env.ctx, p.ID, june.Next(), 10000)
	env.svc.Deposit(env.ctx, p.ID, june.Next())

	if _, err := env.svc.Withdraw(env.ctx, p.ID, core.Date{}, 2500); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if _, err := env.svc.Withdraw(env.ctx, p.ID, core.Date{}, 0); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	totals, err := env.svc.SavingsTotals(env.ctx)
	if err != nil || len(totals) != 1 || totals[0].Total.Cents != 17500 {
		t.Fatalf("SavingsTotals = %+v, %v", totals, err)
	}
}

func TestPlanRenameArchiveDelete(t *testing.T) {
	env := newTestEnv(t)
	p, _ := env.svc.AddSavingsPlan(env.ctx, june, PlanInput{Name: "Alt", InitialRateCents: 100})
	other, _ := env.svc.AddSavingsPlan(env.ctx, june, PlanInput{Name: "Other", InitialRateCents: 100})
	env.svc.Deposit(env.ctx, p.ID, june)
	env.svc.Deposit(env.ctx, other.ID, june)

	renamed, err := env.svc.RenamePlan(env.ctx, p.ID, " Neu ")
	if err != nil || renamed.Name != "Neu" {
		t.Fatalf("RenamePlan = %+v, %v", renamed, err)
	}
	if _, err := env.svc.RenamePlan(env.ctx, p.ID, ""); !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}

	if _, err := env.svc.ArchivePlan(env.ctx, p.ID); err != nil {
		t.Fatalf("ArchivePlan: %v", err)
	}
	if active, _ := env.svc.SavingsPlans(env.ctx, false); len(active) != 1 {
		t.Fatalf("archived plan still listed: %+v", active)
	}
	if all, _ := env.svc.SavingsPlans(env.ctx, true); len(all) != 2 {
		t.Fatalf("archived plan missing from full list: %+v", all)
	}
	if _, err := env.svc.Deposit(env.ctx, p.ID, june.Next()); !errors.Is(err, ErrPlanArchived) {
		t.Fatalf("expected ErrPlanArchived, got %v", err)
	}

	if err := env.svc.DeletePlan(env.ctx, p.ID); err != nil {
		t.Fatalf("DeletePlan: %v", err)
	}
	st, _ := env.svc.loadSavings(env.ctx)
	for _, r := range st.rates {
		if r.PlanID == p.ID {
			t.Fatalf("rate of deleted plan kept")
		}
	}
	if len(st.moves) != 1 || st.moves[0].PlanID != other.ID {
		t.Fatalf("moves after delete = %+v", st.moves)
	}
	if err := env.svc.DeletePlan(env.ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
