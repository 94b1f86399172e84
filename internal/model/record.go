// Package model defines the core data types shared across the application.
package model

// Record is a single loosely-typed data row, as produced by CSV parsing or a
// database query. Values may be string, float64, int, time.Time, or nil.
// Transforms never mutate a Record; they always build new structures.
type Record map[string]any

// Clone returns a shallow copy of the record. Field values are treated as
// immutable, so a shallow copy is enough to protect the original map.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Field returns the named field value, or nil if it is absent.
func (r Record) Field(name string) any {
	return r[name]
}
