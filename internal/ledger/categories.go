package ledger

import (
	"context"
	"fmt"
	"strings"

	"finanzplan/internal/core"
	"finanzplan/internal/fixedcost"
	"finanzplan/internal/log"
)

// Kind selects one of the two type lists.
type Kind string

const (
	KindFixed   Kind = "fixed"
	KindExpense Kind = "expense"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindFixed:
		return KindFixed, nil
	case KindExpense:
		return KindExpense, nil
	}
	return "", fmt.Errorf("invalid kind %q: must be fixed or expense", s)
}

func (k Kind) key() string {
	if k == KindFixed {
		return KeyFixedTypes
	}
	return KeyExpenseCategories
}

func (k Kind) prefix() string {
	if k == KindFixed {
		return prefixFixedType
	}
	return prefixCategory
}

// DefaultFixedTypes is the fixed-cost type list of a fresh ledger.
func DefaultFixedTypes() []core.Category {
	return []core.Category{
		{ID: "ft_rent", Name: "Miete"},
		{ID: "ft_power", Name: "Strom"},
		{ID: "ft_net", Name: "Internet/Handy"},
		{ID: "ft_ins", Name: "Versicherung"},
		{ID: "ft_other", Name: "Sonstiges"},
	}
}

// DefaultExpenseCategories is the expense category list of a fresh ledger.
func DefaultExpenseCategories() []core.Category {
	return []core.Category{
		{ID: "ec_food", Name: "Lebensmittel"},
		{ID: "ec_fun", Name: "Freizeit"},
		{ID: "ec_drug", Name: "Drogerie"},
		{ID: "ec_fuel", Name: "Tanken"},
		{ID: "ec_other", Name: "Sonstiges"},
	}
}

func (k Kind) defaults() func() []core.Category {
	if k == KindFixed {
		return DefaultFixedTypes
	}
	return DefaultExpenseCategories
}

// Categories returns the type list of kind in stored order.
func (s *Service) Categories(ctx context.Context, kind Kind) ([]core.Category, error) {
	return loadList(ctx, s, kind.key(), kind.defaults())
}

func (s *Service) AddCategory(ctx context.Context, kind Kind, name string) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addCategory(ctx, kind, name)
}

func (s *Service) addCategory(ctx context.Context, kind Kind, name string) (core.Category, error) {
	name = strings.TrimSpace(name)
	if err := core.ValidateName(name); err != nil {
		return core.Category{}, err
	}
	list, err := s.Categories(ctx, kind)
	if err != nil {
		return core.Category{}, err
	}
	c := core.Category{ID: s.newID(kind.prefix()), Name: name}
	if err := saveList(ctx, s, kind.key(), append(list, c)); err != nil {
		return core.Category{}, err
	}
	s.logger.InfoContext(ctx, "Type added", log.FieldKind, string(kind), log.FieldID, c.ID)
	return c, nil
}

// resolveCategory returns the id to store on an entry: a new category when
// newName is set, otherwise id after checking that it exists.
func (s *Service) resolveCategory(ctx context.Context, kind Kind, id, newName string) (string, error) {
	if strings.TrimSpace(newName) != "" {
		c, err := s.addCategory(ctx, kind, newName)
		if err != nil {
			return "", err
		}
		return c.ID, nil
	}
	if id == "" {
		return "", nil
	}
	list, err := s.Categories(ctx, kind)
	if err != nil {
		return "", err
	}
	if indexOf(list, id, categoryID) < 0 {
		return "", fmt.Errorf("%s type %s: %w", kind, id, ErrNotFound)
	}
	return id, nil
}

func categoryID(c core.Category) string { return c.ID }

func (s *Service) RenameCategory(ctx context.Context, kind Kind, id, name string) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if err := core.ValidateName(name); err != nil {
		return core.Category{}, err
	}
	list, err := s.Categories(ctx, kind)
	if err != nil {
		return core.Category{}, err
	}
	idx := indexOf(list, id, categoryID)
	if idx < 0 {
		return core.Category{}, fmt.Errorf("%s type %s: %w", kind, id, ErrNotFound)
	}
	list[idx].Name = name
	if err := saveList(ctx, s, kind.key(), list); err != nil {
		return core.Category{}, err
	}
	return list[idx], nil
}

// CategoryUsage counts the entries referencing a type. For fixed costs every
// stored version counts.
func (s *Service) CategoryUsage(ctx context.Context, kind Kind, id string) (int, error) {
	if kind == KindFixed {
		l, err := s.loadFixed(ctx)
		if err != nil {
			return 0, err
		}
		return fixedcost.CountType(l.records, id), nil
	}
	expenses, err := loadList(ctx, s, KeyExpenses, empty[core.Expense])
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range expenses {
		if e.CategoryID == id {
			n++
		}
	}
	return n, nil
}

// DeleteCategory removes a type. A type still in use needs a replacement
// "to"; every reference is moved to it first. It returns how many entries
// were moved.
func (s *Service) DeleteCategory(ctx context.Context, kind Kind, id, to string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.Categories(ctx, kind)
	if err != nil {
		return 0, err
	}
	idx := indexOf(list, id, categoryID)
	if idx < 0 {
		return 0, fmt.Errorf("%s type %s: %w", kind, id, ErrNotFound)
	}
	used, err := s.CategoryUsage(ctx, kind, id)
	if err != nil {
		return 0, err
	}

	moved := 0
	if used > 0 {
		if len(list) == 1 {
			return 0, ErrNoAlternative
		}
		if to == "" {
			return 0, fmt.Errorf("%s type %s used by %d entries: %w", kind, id, used, ErrTypeInUse)
		}
		if to == id || indexOf(list, to, categoryID) < 0 {
			return 0, fmt.Errorf("replacement %s type %s: %w", kind, to, ErrNotFound)
		}
		if moved, err = s.remap(ctx, kind, id, to); err != nil {
			return 0, err
		}
	}

	if err := saveList(ctx, s, kind.key(), append(list[:idx], list[idx+1:]...)); err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "Type deleted",
		log.FieldKind, string(kind), log.FieldID, id, "moved", moved)
	return moved, nil
}

func (s *Service) remap(ctx context.Context, kind Kind, from, to string) (int, error) {
	if kind == KindFixed {
		l, err := s.loadFixed(ctx)
		if err != nil {
			return 0, err
		}
		remapped, n := fixedcost.RemapType(l.records, from, to)
		return n, s.saveFixed(ctx, l, remapped)
	}

	expenses, err := loadList(ctx, s, KeyExpenses, empty[core.Expense])
	if err != nil {
		return 0, err
	}
	n := 0
	for i := range expenses {
		if expenses[i].CategoryID == from {
			expenses[i].CategoryID = to
			n++
		}
	}
	return n, saveList(ctx, s, KeyExpenses, expenses)
}

// categoryNames maps type ids to names.
func categoryNames(list []core.Category) map[string]string {
	out := make(map[string]string, len(list))
	for _, c := range list {
		out[c.ID] = c.Name
	}
	return out
}
