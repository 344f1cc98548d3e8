package record

import (
	"fmt"
	"maps"
	"time"
)

// Record is a schema-less JSON object as persisted in a collection file.
type Record map[string]any

// Timestamp field names stamped by the store.
const (
	FieldCreated  = "fechaCreacion"
	FieldUpdated  = "fechaActualizacion"
	FieldDelivery = "fechaEntrega"
)

// TimeLayout matches JavaScript's Date.toISOString (UTC, millisecond precision).
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTime renders t in TimeLayout, always in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// String returns the field value rendered as a string.
// Missing and null fields yield "".
func (r Record) String(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return formatNumber(val)
	default:
		return fmt.Sprint(val)
	}
}

// Has reports whether the field is present with a non-blank value.
func (r Record) Has(field string) bool {
	return !Blank(r.String(field))
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return Record{}
	}
	return maps.Clone(r)
}

// Merge returns old with every field of incoming written over it.
// Fields absent from incoming are preserved.
func Merge(old, incoming Record) Record {
	merged := old.Clone()
	maps.Copy(merged, incoming)
	return merged
}

// FromAny converts a decoded JSON value into a Record.
func FromAny(v any) (Record, bool) {
	switch val := v.(type) {
	case Record:
		return val, true
	case map[string]any:
		return Record(val), true
	default:
		return nil, false
	}
}
