package domain

import "slices"

// FieldChange is one row of an overlay comparison: the member's current value
// for a field against the overlay's proposed value.
type FieldChange struct {
	Field   string `json:"field"`
	Old     any    `json:"old"`
	New     any    `json:"new"`
	Changed bool   `json:"changed"`
}

// Diff compares a member's current state against its pending overlay and
// returns one row per field present in the overlay. Slice-valued fields are
// compared element-wise in order; everything else by exact equality. No
// overlay means an empty result, not an error. Pure.
//
// The field list is enumerated explicitly so the overlay stays a typed
// structure rather than a reflected bag of keys.
func Diff(m Member) []FieldChange {
	o := m.PendingOverlay
	if o == nil {
		return nil
	}

	var rows []FieldChange
	str := func(field, old string, proposed *string) {
		if proposed == nil {
			return
		}
		rows = append(rows, FieldChange{
			Field:   field,
			Old:     old,
			New:     *proposed,
			Changed: old != *proposed,
		})
	}

	str("email", m.Email, o.Email)
	str("title", m.Title, o.Title)
	str("first_name", m.FirstName, o.FirstName)
	str("last_name", m.LastName, o.LastName)
	str("city", m.City, o.City)
	str("address", m.Address, o.Address)
	str("phone", m.Phone, o.Phone)

	if o.Specializations != nil {
		rows = append(rows, FieldChange{
			Field:   "specializations",
			Old:     m.Specializations,
			New:     o.Specializations,
			Changed: !slices.Equal(m.Specializations, o.Specializations),
		})
	}

	return rows
}

// ChangedFields returns just the names of the fields whose overlay value
// differs from the current one. Used for audit narration; the merge itself is
// an unconditional key-overwrite and does not depend on this.
func ChangedFields(m Member) []string {
	var fields []string
	for _, row := range Diff(m) {
		if row.Changed {
			fields = append(fields, row.Field)
		}
	}
	return fields
}
