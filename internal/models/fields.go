// Package models defines data structures for Folio
package models

// FieldAccessor exposes a record's named fields to the prompt engine.
// GetField returns nil when the field is unknown or unset; callers treat
// nil as "render nothing" rather than an error.
type FieldAccessor interface {
	GetField(name string) any
}
