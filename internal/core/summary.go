package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string `json:"name" yaml:"name"`
	Amount Money  `json:"amountCents" yaml:"amountCents"`
}

// MonthSummary is the budget overview of one month.
type MonthSummary struct {
	Month      Month            `json:"month" yaml:"month"`
	Income     Money            `json:"incomeCents" yaml:"incomeCents"`
	Fixed      Money            `json:"fixedCents" yaml:"fixedCents"`
	Expenses   Money            `json:"expensesCents" yaml:"expensesCents"`
	Deposits   Money            `json:"depositsCents" yaml:"depositsCents"`
	ByCategory []CategoryAmount `json:"byCategory,omitempty" yaml:"byCategory,omitempty"`
}

// Available is what is left after fixed costs, expenses and savings deposits.
func (s MonthSummary) Available() Money {
	return s.Income.Sub(s.Fixed).Sub(s.Expenses).Sub(s.Deposits)
}

// PlanTotal is the accumulated balance of an active savings plan.
type PlanTotal struct {
	PlanID      string `json:"planId" yaml:"planId"`
	Name        string `json:"name" yaml:"name"`
	Total       Money  `json:"totalCents" yaml:"totalCents"`
	TargetCents *int64 `json:"targetCents,omitempty" yaml:"targetCents,omitempty"`
}
