// Package fixedcost keeps recurring fixed costs as an append-only list of
// versions and resolves which version applies to a given month.
//
// Every change to a fixed cost appends a new version that shares the cost's
// base identity and carries the month it takes effect. Deleting appends a
// version with Deleted set. Nothing is ever rewritten in place.
package fixedcost

import (
	"encoding/json"
	"strconv"
	"strings"

	"finanzplan/internal/core"
)

// Field names of a stored version.
const (
	fieldID          = "id"
	fieldBaseID      = "baseId"
	fieldName        = "name"
	fieldAmountCents = "amountCents"
	fieldStartMonth  = "startMonth"
	fieldDeleted     = "deleted"
	fieldTypeID      = "typeId"
	fieldNote        = "note"

	// amounts of records written before cents were introduced, in euros
	fieldLegacyAmount = "amount"
	fieldLegacyBetrag = "betrag"
)

// Version is one immutable snapshot of a fixed cost.
type Version struct {
	ID          string `json:"id" yaml:"id"`
	BaseID      string `json:"baseId" yaml:"baseId"`
	Name        string `json:"name" yaml:"name"`
	AmountCents int64  `json:"amountCents" yaml:"amountCents"`
	TypeID      string `json:"typeId,omitempty" yaml:"typeId,omitempty"`
	Note        string `json:"note,omitempty" yaml:"note,omitempty"`
	StartMonth  string `json:"startMonth" yaml:"startMonth"`
	Deleted     bool   `json:"deleted" yaml:"deleted"`
}

// Amount returns the version's amount as Money.
func (v Version) Amount() core.Money {
	return core.Money{Cents: v.AmountCents}
}

// RawRecord is a stored version as it was found in storage, possibly written
// by an older release and missing fields. Unknown fields are kept verbatim.
type RawRecord map[string]json.RawMessage

func (r RawRecord) str(key string) (string, bool) {
	b, ok := r[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return "", false
	}
	return s, true
}

func (r RawRecord) nonEmpty(key string) (string, bool) {
	s, ok := r.str(key)
	return s, ok && s != ""
}

func (r RawRecord) boolean(key string) (bool, bool) {
	switch strings.TrimSpace(string(r[key])) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

func (r RawRecord) number(key string) (json.Number, bool) {
	b, ok := r[key]
	if !ok {
		return "", false
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return "", false
	}
	return n, true
}

func (r RawRecord) setString(key, value string) {
	b, _ := json.Marshal(value)
	r[key] = b
}

func (r RawRecord) clone() RawRecord {
	out := make(RawRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Decode converts a stored record into a Version. Missing or mistyped fields
// become zero values; a version without a parsable start month is ignored by
// the resolver.
func Decode(r RawRecord) Version {
	v := Version{}
	v.ID, _ = r.str(fieldID)
	v.BaseID, _ = r.str(fieldBaseID)
	v.Name, _ = r.str(fieldName)
	v.TypeID, _ = r.str(fieldTypeID)
	v.Note, _ = r.str(fieldNote)
	v.StartMonth, _ = r.str(fieldStartMonth)
	v.Deleted, _ = r.boolean(fieldDeleted)
	v.AmountCents = decodeAmount(r)
	return v
}

func decodeAmount(r RawRecord) int64 {
	if n, ok := r.number(fieldAmountCents); ok {
		if cents, err := n.Int64(); err == nil {
			return cents
		}
	}
	for _, key := range []string{fieldLegacyAmount, fieldLegacyBetrag} {
		n, ok := r.number(key)
		if !ok {
			continue
		}
		euros, err := strconv.ParseFloat(n.String(), 64)
		if err == nil {
			return core.EurosToCents(euros)
		}
	}
	return 0
}

// DecodeAll decodes records one to one, keeping their order.
func DecodeAll(records []RawRecord) []Version {
	out := make([]Version, len(records))
	for i, r := range records {
		out[i] = Decode(r)
	}
	return out
}

// Encode converts a version into its stored form.
func Encode(v Version) RawRecord {
	r := RawRecord{}
	r.setString(fieldID, v.ID)
	r.setString(fieldBaseID, v.BaseID)
	r.setString(fieldName, v.Name)
	r[fieldAmountCents] = json.RawMessage(strconv.FormatInt(v.AmountCents, 10))
	r.setString(fieldStartMonth, v.StartMonth)
	if v.Deleted {
		r[fieldDeleted] = json.RawMessage("true")
	} else {
		r[fieldDeleted] = json.RawMessage("false")
	}
	if v.TypeID != "" {
		r.setString(fieldTypeID, v.TypeID)
	}
	if v.Note != "" {
		r.setString(fieldNote, v.Note)
	}
	return r
}

// RemapType points every record of type from at type to. It is the only
// operation that rewrites stored versions: the type is a label, not part of
// the cost's history. Records are copied; the count of rewritten ones is
// returned.
func RemapType(records []RawRecord, from, to string) ([]RawRecord, int) {
	out := make([]RawRecord, len(records))
	n := 0
	for i, r := range records {
		if id, _ := r.str(fieldTypeID); id == from {
			r = r.clone()
			r.setString(fieldTypeID, to)
			n++
		}
		out[i] = r
	}
	return out, n
}

// CountType counts the records referencing the type.
func CountType(records []RawRecord, typeID string) int {
	n := 0
	for _, r := range records {
		if id, _ := r.str(fieldTypeID); id == typeID {
			n++
		}
	}
	return n
}
