package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Income types offered by the income form.
const (
	IncomeSalary       IncomeType = "Lohn"
	IncomeChildBenefit IncomeType = "Kindergeld"
	IncomeSideJob      IncomeType = "Nebenjob"
	IncomeOther        IncomeType = "Sonstiges"
)

const (
	MoveDeposit  MoveType = "deposit"
	MoveWithdraw MoveType = "withdraw"
)

type (
	IncomeType string
	MoveType   string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Income struct {
		ID          string     `json:"id" yaml:"id"`
		Date        Date       `json:"date" yaml:"date"`
		Month       Month      `json:"month" yaml:"month"`
		AmountCents int64      `json:"amountCents" yaml:"amountCents"`
		Type        IncomeType `json:"type" yaml:"type"`
		Note        string     `json:"note,omitempty" yaml:"note,omitempty"`
	}

	Expense struct {
		ID          string `json:"id" yaml:"id"`
		Date        Date   `json:"date" yaml:"date"`
		Month       Month  `json:"month" yaml:"month"`
		AmountCents int64  `json:"amountCents" yaml:"amountCents"`
		CategoryID  string `json:"categoryId" yaml:"categoryId"`
		Note        string `json:"note,omitempty" yaml:"note,omitempty"`
	}

	// Category is a fixed-cost type or an expense category.
	Category struct {
		ID   string `json:"id" yaml:"id"`
		Name string `json:"name" yaml:"name"`
	}

	SavingsPlan struct {
		ID          string `json:"id" yaml:"id"`
		Name        string `json:"name" yaml:"name"`
		TargetCents *int64 `json:"targetCents,omitempty" yaml:"targetCents,omitempty"`
		IsArchived  bool   `json:"isArchived" yaml:"isArchived"`
	}

	// SavingsRate is the planned deposit of a plan for one month.
	SavingsRate struct {
		ID          string `json:"id" yaml:"id"`
		PlanID      string `json:"planId" yaml:"planId"`
		Month       Month  `json:"month" yaml:"month"`
		AmountCents int64  `json:"amountCents" yaml:"amountCents"`
	}

	SavingsMove struct {
		ID          string   `json:"id" yaml:"id"`
		PlanID      string   `json:"planId" yaml:"planId"`
		Date        Date     `json:"date" yaml:"date"`
		Month       Month    `json:"month" yaml:"month"`
		AmountCents int64    `json:"amountCents" yaml:"amountCents"`
		Type        MoveType `json:"type" yaml:"type"`
	}
)

var (
	ErrInvalidDay        = errors.New("invalid day")
	ErrInvalidMonth      = errors.New("invalid month")
	ErrInvalidDate       = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyName         = errors.New("empty name")
	ErrNameTooLong       = errors.New("name too long (max 200 characters)")
	ErrInvalidIncomeType = errors.New("invalid income type")
	ErrEmptyCategory     = errors.New("empty category")
	ErrInvalidMoveType   = errors.New("invalid savings move type")
)

// IncomeTypes returns the selectable income types in display order.
func IncomeTypes() []IncomeType {
	return []IncomeType{IncomeSalary, IncomeChildBenefit, IncomeSideJob, IncomeOther}
}

func (t IncomeType) Validate() error {
	for _, known := range IncomeTypes() {
		if t == known {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidIncomeType, string(t))
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

func (d Date) Day() int   { return d.Time.Day() }
func (d Date) Month() int { return int(d.Time.Month()) }
func (d Date) Year() int  { return d.Time.Year() }

// CalendarMonth returns the month the date belongs to.
func (d Date) CalendarMonth() Month {
	return MonthOf(d.Time)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON overrides the RFC 3339 encoding promoted from time.Time.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		*d = Date{}
		return nil
	}
	return d.UnmarshalText([]byte(s))
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateName checks a display label: required, at most 200 characters.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if len(name) > 200 {
		return ErrNameTooLong
	}
	return nil
}

func (i Income) Validate() error {
	if err := i.Date.Validate(); err != nil {
		return err
	}
	if err := (Money{Cents: i.AmountCents}).Validate(); err != nil {
		return err
	}
	return i.Type.Validate()
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := (Money{Cents: e.AmountCents}).Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.CategoryID) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (p SavingsPlan) Validate() error {
	if err := ValidateName(p.Name); err != nil {
		return err
	}
	if p.TargetCents != nil && *p.TargetCents <= 0 {
		return fmt.Errorf("target: %w", ErrInvalidAmount)
	}
	return nil
}

// Signed returns the amount as it affects the plan balance.
func (m SavingsMove) Signed() int64 {
	if m.Type == MoveWithdraw {
		return -m.AmountCents
	}
	return m.AmountCents
}

func (m SavingsMove) Validate() error {
	if m.Type != MoveDeposit && m.Type != MoveWithdraw {
		return fmt.Errorf("%w: %q", ErrInvalidMoveType, string(m.Type))
	}
	return (Money{Cents: m.AmountCents}).Validate()
}
