package fixedcost

import (
	"errors"
	"fmt"
	"strings"

	"finanzplan/internal/core"
)

var (
	ErrNotEffective     = errors.New("fixed cost is not in effect in the selected month")
	ErrInvalidEffective = errors.New("invalid effective month, expected now or next")
	ErrMissingID        = errors.New("missing version id")
)

// Effective selects the month a change takes effect, relative to the month
// the user is looking at.
type Effective int

const (
	// FromSelectedMonth applies the change to the selected month onwards.
	FromSelectedMonth Effective = iota
	// FromNextMonth leaves the selected month untouched.
	FromNextMonth
)

// ParseEffective accepts "now" and "next".
func ParseEffective(s string) (Effective, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "now", "":
		return FromSelectedMonth, nil
	case "next":
		return FromNextMonth, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidEffective, s)
	}
}

func (e Effective) String() string {
	if e == FromNextMonth {
		return "next"
	}
	return "now"
}

// StartMonth returns the first month the change applies to.
func (e Effective) StartMonth(selected core.Month) core.Month {
	if e == FromNextMonth {
		return selected.Next()
	}
	return selected
}

// Change holds already validated user input for a fixed cost.
type Change struct {
	Name        string
	AmountCents int64
	TypeID      string
	Note        string
}

func (c Change) Validate() error {
	if err := core.ValidateName(c.Name); err != nil {
		return err
	}
	return core.Money{Cents: c.AmountCents}.Validate()
}

// Create appends the first version of a new fixed cost, effective from
// selected. The new version's id doubles as its base id.
func Create(versions []Version, id string, c Change, selected core.Month) ([]Version, Version, error) {
	if id == "" {
		return nil, Version{}, ErrMissingID
	}
	if err := c.Validate(); err != nil {
		return nil, Version{}, err
	}
	v := Version{
		ID:          id,
		BaseID:      id,
		Name:        strings.TrimSpace(c.Name),
		AmountCents: c.AmountCents,
		TypeID:      c.TypeID,
		Note:        c.Note,
		StartMonth:  selected.String(),
	}
	return appendVersion(versions, v), v, nil
}

// Edit appends a version of baseID carrying the change. The cost must be in
// effect in the selected month. An empty TypeID keeps the current type.
func Edit(versions []Version, id, baseID string, c Change, selected core.Month, eff Effective) ([]Version, Version, error) {
	if id == "" {
		return nil, Version{}, ErrMissingID
	}
	if err := c.Validate(); err != nil {
		return nil, Version{}, err
	}
	current, ok := EffectiveVersion(versions, baseID, selected)
	if !ok {
		return nil, Version{}, fmt.Errorf("%w: %s in %s", ErrNotEffective, baseID, selected)
	}
	typeID := c.TypeID
	if typeID == "" {
		typeID = current.TypeID
	}
	v := Version{
		ID:          id,
		BaseID:      baseID,
		Name:        strings.TrimSpace(c.Name),
		AmountCents: c.AmountCents,
		TypeID:      typeID,
		Note:        c.Note,
		StartMonth:  eff.StartMonth(selected).String(),
	}
	return appendVersion(versions, v), v, nil
}

// Delete appends a deletion marker for baseID. It copies the name and amount
// of the version in effect in the selected month.
func Delete(versions []Version, id, baseID string, selected core.Month, eff Effective) ([]Version, Version, error) {
	if id == "" {
		return nil, Version{}, ErrMissingID
	}
	current, ok := EffectiveVersion(versions, baseID, selected)
	if !ok {
		return nil, Version{}, fmt.Errorf("%w: %s in %s", ErrNotEffective, baseID, selected)
	}
	v := current
	v.ID = id
	v.StartMonth = eff.StartMonth(selected).String()
	v.Deleted = true
	return appendVersion(versions, v), v, nil
}

// appendVersion copies versions before appending; the caller's slice is
// never written to.
func appendVersion(versions []Version, v Version) []Version {
	out := make([]Version, len(versions), len(versions)+1)
	copy(out, versions)
	return append(out, v)
}
