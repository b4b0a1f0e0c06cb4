package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"finanzplan/internal/core"
	"finanzplan/internal/fixedcost"
	"finanzplan/internal/log"
)

// FixedInput describes a new fixed cost. An empty Name falls back to the
// name of its type. NewType creates a fixed-cost type on the fly.
type FixedInput struct {
	Name        string
	AmountCents int64
	TypeID      string
	NewType     string
	Note        string
}

// FixedEdit lists the fields to change; nil fields keep the value of the
// version in effect.
type FixedEdit struct {
	Name        *string
	AmountCents *int64
	TypeID      string
	NewType     string
	Note        *string
}

// fixedList is the stored fixed-cost collection. Elements that are not JSON
// objects cannot be versions; they stay in raw at their position and are
// written back unchanged. records holds every other element in order.
type fixedList struct {
	raw     []json.RawMessage // nil where the element is in records
	records []fixedcost.RawRecord
}

// elements merges records back into the stored order. Records beyond the
// loaded ones are appended.
func (l fixedList) elements(records []fixedcost.RawRecord) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(l.raw)+len(records))
	next := 0
	for _, el := range l.raw {
		if el != nil {
			out = append(out, el)
			continue
		}
		if next >= len(records) {
			continue
		}
		b, err := json.Marshal(records[next])
		if err != nil {
			return nil, err
		}
		out = append(out, b)
		next++
	}
	for _, r := range records[next:] {
		b, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// decodeFixedList splits a stored document into versions and foreign
// elements. A document that is not a JSON array yields an empty list.
func (s *Service) decodeFixedList(ctx context.Context, doc string) fixedList {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(doc), &elems); err != nil {
		s.logger.WarnContext(ctx, "Stored collection is corrupt, using defaults",
			log.FieldKey, KeyFixedCosts, log.FieldError, err)
		return fixedList{}
	}
	l := fixedList{raw: make([]json.RawMessage, len(elems))}
	for i, el := range elems {
		var r fixedcost.RawRecord
		if err := json.Unmarshal(el, &r); err != nil || r == nil {
			s.logger.WarnContext(ctx, "Skipping fixed cost that is not an object",
				log.FieldKey, KeyFixedCosts, log.FieldIndex, i)
			l.raw[i] = el
			continue
		}
		l.records = append(l.records, r)
	}
	return l
}

// loadFixed returns the stored fixed-cost collection with its records
// migrated. A migration that changed anything is written back.
func (s *Service) loadFixed(ctx context.Context) (fixedList, error) {
	doc, ok, err := s.store.Get(ctx, KeyFixedCosts)
	if err != nil {
		return fixedList{}, fmt.Errorf("load %s: %w", KeyFixedCosts, err)
	}
	var l fixedList
	if ok && doc != "" {
		l = s.decodeFixedList(ctx, doc)
	}
	migrated, changed := fixedcost.Migrate(l.records, s.sentinel, func() string { return s.newID(prefixFixed) })
	if changed {
		if err := s.saveFixed(ctx, l, migrated); err != nil {
			return fixedList{}, fmt.Errorf("persist migrated fixed costs: %w", err)
		}
		s.logger.InfoContext(ctx, "Fixed costs migrated",
			log.FieldOperation, log.OpMigrate, log.FieldCount, len(migrated))
	}
	l.records = migrated
	return l, nil
}

// saveFixed writes records in place of the loaded ones, keeping foreign
// elements where they were.
func (s *Service) saveFixed(ctx context.Context, l fixedList, records []fixedcost.RawRecord) error {
	elems, err := l.elements(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyFixedCosts, err)
	}
	return saveList(ctx, s, KeyFixedCosts, elems)
}

func (s *Service) appendFixed(ctx context.Context, l fixedList, v fixedcost.Version, eff fixedcost.Effective, op string) error {
	records := append(l.records[:len(l.records):len(l.records)], fixedcost.Encode(v))
	if err := s.saveFixed(ctx, l, records); err != nil {
		return err
	}
	fields := log.NewFields().
		WithOperation(op).
		WithFixedCost(v.ID, v.BaseID, v.StartMonth, v.AmountCents)
	fields[log.FieldEffective] = eff.String()
	s.logger.InfoContext(ctx, "Fixed cost version appended", fields.ToSlice()...)
	return nil
}

// FixedCosts returns the fixed costs in effect in month, sorted by name.
func (s *Service) FixedCosts(ctx context.Context, month core.Month) ([]fixedcost.Version, error) {
	l, err := s.loadFixed(ctx)
	if err != nil {
		return nil, err
	}
	return fixedcost.ResolveEffective(fixedcost.DecodeAll(l.records), month), nil
}

// FixedHistory returns every stored version of a fixed cost in the order they
// were written.
func (s *Service) FixedHistory(ctx context.Context, baseID string) ([]fixedcost.Version, error) {
	l, err := s.loadFixed(ctx)
	if err != nil {
		return nil, err
	}
	h := fixedcost.History(fixedcost.DecodeAll(l.records), baseID)
	if len(h) == 0 {
		return nil, fmt.Errorf("fixed cost %s: %w", baseID, ErrNotFound)
	}
	return h, nil
}

// AddFixedCost creates a fixed cost that applies from month on.
func (s *Service) AddFixedCost(ctx context.Context, month core.Month, in FixedInput) (fixedcost.Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := (core.Money{Cents: in.AmountCents}).Validate(); err != nil {
		return fixedcost.Version{}, fmt.Errorf("add fixed cost: %w", err)
	}
	typeID, err := s.resolveCategory(ctx, KindFixed, in.TypeID, in.NewType)
	if err != nil {
		return fixedcost.Version{}, fmt.Errorf("add fixed cost: %w", err)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" && typeID != "" {
		types, err := s.Categories(ctx, KindFixed)
		if err != nil {
			return fixedcost.Version{}, err
		}
		name = categoryNames(types)[typeID]
	}

	l, err := s.loadFixed(ctx)
	if err != nil {
		return fixedcost.Version{}, err
	}
	change := fixedcost.Change{Name: name, AmountCents: in.AmountCents, TypeID: typeID, Note: strings.TrimSpace(in.Note)}
	_, v, err := fixedcost.Create(fixedcost.DecodeAll(l.records), s.newID(prefixFixed), change, month)
	if err != nil {
		return fixedcost.Version{}, fmt.Errorf("add fixed cost: %w", err)
	}
	if err := s.appendFixed(ctx, l, v, fixedcost.FromSelectedMonth, log.OpCreate); err != nil {
		return fixedcost.Version{}, err
	}
	return v, nil
}

// EditFixedCost appends a version of baseID with the edit applied, effective
// in month or the month after it.
func (s *Service) EditFixedCost(ctx context.Context, baseID string, month core.Month, eff fixedcost.Effective, edit FixedEdit) (fixedcost.Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.loadFixed(ctx)
	if err != nil {
		return fixedcost.Version{}, err
	}
	versions := fixedcost.DecodeAll(l.records)
	current, ok := fixedcost.EffectiveVersion(versions, baseID, month)
	if !ok {
		return fixedcost.Version{}, fmt.Errorf("edit fixed cost: %w: %s in %s", fixedcost.ErrNotEffective, baseID, month)
	}

	change := fixedcost.Change{
		Name:        current.Name,
		AmountCents: current.AmountCents,
		Note:        current.Note,
	}
	if edit.Name != nil {
		change.Name = *edit.Name
	}
	if edit.AmountCents != nil {
		change.AmountCents = *edit.AmountCents
	}
	if edit.Note != nil {
		change.Note = strings.TrimSpace(*edit.Note)
	}
	if err := change.Validate(); err != nil {
		if edit.AmountCents == nil && errors.Is(err, core.ErrInvalidAmount) {
			return fixedcost.Version{}, fmt.Errorf("edit fixed cost %s: %w", baseID, ErrStoredAmountInvalid)
		}
		return fixedcost.Version{}, fmt.Errorf("edit fixed cost: %w", err)
	}
	if change.TypeID, err = s.resolveCategory(ctx, KindFixed, edit.TypeID, edit.NewType); err != nil {
		return fixedcost.Version{}, fmt.Errorf("edit fixed cost: %w", err)
	}

	_, v, err := fixedcost.Edit(versions, s.newID(prefixFixed), baseID, change, month, eff)
	if err != nil {
		return fixedcost.Version{}, fmt.Errorf("edit fixed cost: %w", err)
	}
	if err := s.appendFixed(ctx, l, v, eff, log.OpUpdate); err != nil {
		return fixedcost.Version{}, err
	}
	return v, nil
}

// DeleteFixedCost ends a fixed cost in month or the month after it. Earlier
// months keep it.
func (s *Service) DeleteFixedCost(ctx context.Context, baseID string, month core.Month, eff fixedcost.Effective) (fixedcost.Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.loadFixed(ctx)
	if err != nil {
		return fixedcost.Version{}, err
	}
	_, v, err := fixedcost.Delete(fixedcost.DecodeAll(l.records), s.newID(prefixFixed), baseID, month, eff)
	if err != nil {
		return fixedcost.Version{}, fmt.Errorf("delete fixed cost: %w", err)
	}
	if err := s.appendFixed(ctx, l, v, eff, log.OpDelete); err != nil {
		return fixedcost.Version{}, err
	}
	return v, nil
}
