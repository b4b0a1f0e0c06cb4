package ledger

import (
	"testing"

	"finanzplan/internal/core"
)

func TestMonthSummaryAvailable(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.ctx

	env.svc.AddIncome(ctx, IncomeInput{Date: mustDate(t, "2024-06-01"), AmountCents: 250000, Type: core.IncomeSalary})
	env.svc.AddIncome(ctx, IncomeInput{Date: mustDate(t, "2024-06-10"), AmountCents: 50000, Type: core.IncomeChildBenefit})
	env.svc.AddIncome(ctx, IncomeInput{Date: mustDate(t, "2024-05-10"), AmountCents: 99999, Type: core.IncomeOther})

	env.svc.AddFixedCost(ctx, core.MustParseMonth("2024-01"), FixedInput{AmountCents: 100000, TypeID: "ft_rent"})
	env.svc.AddFixedCost(ctx, june, FixedInput{AmountCents: 20000, TypeID: "ft_power"})
	env.svc.AddFixedCost(ctx, june.Next(), FixedInput{AmountCents: 5000, TypeID: "ft_net"})

	env.svc.AddExpense(ctx, ExpenseInput{Date: mustDate(t, "2024-06-02"), AmountCents: 30000, CategoryID: "ec_food"})
	env.svc.AddExpense(ctx, ExpenseInput{Date: mustDate(t, "2024-06-05"), AmountCents: 15000, CategoryID: "ec_fun"})

	p, _ := env.svc.AddSavingsPlan(ctx, june, PlanInput{Name: "Auto", InitialRateCents: 20000})
	env.svc.Deposit(ctx, p.ID, june)

	sum, err := env.svc.MonthSummary(ctx, june)
	if err != nil {
		t.Fatalf("MonthSummary: %v", err)
	}
	if sum.Income.Cents != 300000 || sum.Fixed.Cents != 120000 || sum.Expenses.Cents != 45000 || sum.Deposits.Cents != 20000 {
		t.Fatalf("unexpected totals %+v", sum)
	}
	if got := sum.Available().Cents; got != 115000 {
		t.Fatalf("Available = %d, want 115000", got)
	}
	if len(sum.ByCategory) != 2 || sum.ByCategory[0].Name != "Lebensmittel" || sum.ByCategory[0].Amount.Cents != 30000 {
		t.Fatalf("ByCategory = %+v", sum.ByCategory)
	}
}

func TestMonthReport(t *testing.T) {
	env := newTestEnv(t)
	env.svc.AddExpense(env.ctx, ExpenseInput{AmountCents: 100, CategoryID: "ec_fuel"})
	env.svc.AddFixedCost(env.ctx, june, FixedInput{AmountCents: 200, TypeID: "ft_ins"})

	r, err := env.svc.MonthReport(env.ctx, june)
	if err != nil {
		t.Fatalf("MonthReport: %v", err)
	}
	if r.Available.Cents != -300 {
		t.Fatalf("Available = %d, want -300", r.Available.Cents)
	}
	if r.TypeName(KindExpense, "ec_fuel") != "Tanken" || r.TypeName(KindFixed, "ft_ins") != "Versicherung" {
		t.Fatalf("type names not resolved")
	}
	if r.TypeName(KindFixed, "ft_gone") != "ft_gone" {
		t.Fatalf("unknown ids should fall back to the id")
	}
}
