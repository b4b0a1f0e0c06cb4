package fixedcost

import (
	"encoding/json"

	"github.com/google/uuid"
)

// NewID returns a fresh version identifier.
func NewID() string {
	return "fix_" + uuid.NewString()
}

// Migrate upgrades stored records so that every one of them carries an id, a
// base id, a start month and a boolean deleted flag. It reports whether any
// record changed so the caller knows to write the list back.
//
// Records are handled independently and in this order: a missing id gets a
// fresh one from newID, a missing base id becomes the record's own id, an
// empty or missing start month becomes sentinel and a non-boolean deleted
// flag becomes false. Running Migrate on its own output changes nothing.
//
// The input slice and its records are not modified.
func Migrate(records []RawRecord, sentinel string, newID func() string) ([]RawRecord, bool) {
	if newID == nil {
		newID = NewID
	}
	out := make([]RawRecord, len(records))
	changed := false
	for i, r := range records {
		upgraded, recordChanged := migrateRecord(r, sentinel, newID)
		out[i] = upgraded
		changed = changed || recordChanged
	}
	return out, changed
}

func migrateRecord(r RawRecord, sentinel string, newID func() string) (RawRecord, bool) {
	out := r.clone()
	changed := false

	id, ok := out.nonEmpty(fieldID)
	if !ok {
		id = newID()
		out.setString(fieldID, id)
		changed = true
	}
	if _, ok := out.nonEmpty(fieldBaseID); !ok {
		out.setString(fieldBaseID, id)
		changed = true
	}
	if _, ok := out.nonEmpty(fieldStartMonth); !ok {
		out.setString(fieldStartMonth, sentinel)
		changed = true
	}
	if _, ok := out.boolean(fieldDeleted); !ok {
		out[fieldDeleted] = json.RawMessage("false")
		changed = true
	}
	return out, changed
}
