package restmodel

import (
	js "github.com/reoring/restmodel/jsonschema"
)

// Field is one schema field descriptor. Descriptors are immutable once
// constructed and may be shared across many models; all configuration is
// captured at construction time.
type Field interface {
	// Format coerces an extracted source value into its output form. It never
	// fails: unconvertible input degrades to the descriptor default.
	Format(v any) any

	// Schema projects the descriptor into a schema fragment.
	Schema() *js.Schema

	IsRequired() bool
	IsDiscriminator() bool
	DefaultValue() any

	// WithDefault returns a copy of the descriptor carrying a new default.
	// Used by model resolution to force a discriminator's default to the
	// model name without mutating the shared descriptor.
	WithDefault(v any) Field

	// SourceAttribute names the source key to read instead of the field name;
	// empty means the field name itself.
	SourceAttribute() string

	// SourceGetter, when non-nil, extracts the value from the source object
	// directly and wins over key/attribute lookup.
	SourceGetter() func(source any) any
}

// NestedDescriptor is implemented by descriptors that embed a sub-schema.
// The marshaller recurses through it instead of calling Format.
type NestedDescriptor interface {
	Field
	NestedSchema() Schema
	AllowsNull() bool
	SkipsNone() bool
}

// ListDescriptor is implemented by descriptors wrapping a homogeneous
// sequence of another descriptor.
type ListDescriptor interface {
	Field
	ItemDescriptor() Field
}

// Schema is anything that can flatten itself into an ordered field map.
// *Model and *FieldMap both qualify; Marshal and Nested accept either.
type Schema interface {
	Resolved() (*FieldMap, error)
}

// FieldMap is an insertion-ordered mapping of field name to descriptor. It is
// the single concrete container behind models, resolved views and bare
// marshalling schemas. The zero value is not usable; call NewFieldMap.
type FieldMap struct {
	keys []string
	m    map[string]Field
}

// NewFieldMap returns an empty ordered field map.
func NewFieldMap() *FieldMap {
	return &FieldMap{m: map[string]Field{}}
}

// Set inserts or replaces a descriptor. Replacing keeps the original
// insertion position, mirroring ordered-dict update semantics.
func (fm *FieldMap) Set(name string, f Field) *FieldMap {
	if _, ok := fm.m[name]; !ok {
		fm.keys = append(fm.keys, name)
	}
	fm.m[name] = f
	return fm
}

// Get returns the descriptor for name.
func (fm *FieldMap) Get(name string) (Field, bool) {
	f, ok := fm.m[name]
	return f, ok
}

// Has reports whether name is present.
func (fm *FieldMap) Has(name string) bool {
	_, ok := fm.m[name]
	return ok
}

// Len returns the number of fields.
func (fm *FieldMap) Len() int { return len(fm.keys) }

// Keys returns the field names in insertion order.
func (fm *FieldMap) Keys() []string {
	return append([]string(nil), fm.keys...)
}

// Update upserts every entry of other into fm, preserving fm's positions for
// names it already has.
func (fm *FieldMap) Update(other *FieldMap) *FieldMap {
	if other == nil {
		return fm
	}
	for _, k := range other.keys {
		fm.Set(k, other.m[k])
	}
	return fm
}

// Clone returns a copy of the map. Descriptors themselves are immutable and
// shared, so a key-level copy is a deep copy for all practical purposes.
func (fm *FieldMap) Clone() *FieldMap {
	out := &FieldMap{
		keys: append([]string(nil), fm.keys...),
		m:    make(map[string]Field, len(fm.m)),
	}
	for k, v := range fm.m {
		out.m[k] = v
	}
	return out
}

// Resolved lets a bare field map act as a Schema.
func (fm *FieldMap) Resolved() (*FieldMap, error) { return fm, nil }
