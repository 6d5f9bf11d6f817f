// Package resource defines the wire-level record type shared by the cache,
// the modal controllers and the REST client, plus the per-resource field
// schemas that collapse the three admin dialogs into one code path.
package resource

import (
	"strconv"
	"strings"
)

// Record is one server entity in decoded JSON form.
type Record map[string]any

// PrimaryID derives the record identifier from the server's primary key,
// preferring "_id" over "id". Returns "" when neither is usable; locally
// generated temporary identifiers for unsaved drafts are the caller's
// concern.
func PrimaryID(r Record) string {
	for _, key := range []string{"_id", "id"} {
		switch v := r[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		case int64:
			return strconv.FormatInt(v, 10)
		}
	}
	return ""
}

// Merge returns a new record with base's entries overlaid by patch's
// (patch wins). Neither input is modified; the copy is shallow.
func Merge(base, patch Record) Record {
	out := make(Record, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// Clone returns a shallow copy of r. Clone(nil) returns an empty record.
func Clone(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// CoerceBool normalizes the tri-state values a form control can produce
// (unset, boolean, or a select option serialized as text or number) to a
// strict boolean.
func CoerceBool(v any) bool {
	switch value := v.(type) {
	case bool:
		return value
	case string:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "active":
			return true
		}
		return false
	case float64:
		return value != 0
	case int:
		return value != 0
	}
	return false
}
