// Package fields provides the field descriptors registered into models:
// pass-through and typed scalars, homogeneous lists and nested sub-schemas.
// Descriptors are immutable after construction and safe to share across
// models.
package fields

import (
	js "github.com/reoring/restmodel/jsonschema"
)

// Option configures a descriptor at construction time.
type Option func(*base)

// Required marks the field as required for validation.
func Required() Option {
	return func(b *base) { b.required = true }
}

// Default sets the value emitted when the source carries nothing.
func Default(v any) Option {
	return func(b *base) { b.def = v }
}

// Attribute overrides the source key read during marshalling; by default the
// field's own name is used.
func Attribute(name string) Option {
	return func(b *base) { b.attribute = name }
}

// Getter installs a by-callable accessor that extracts the value from the
// source object directly, winning over key and attribute lookup.
func Getter(fn func(source any) any) Option {
	return func(b *base) { b.getter = fn }
}

// AllowNull permits an explicit null where the descriptor would otherwise
// expand or coerce. On Nested it keeps a null sub-value null instead of
// expanding it into an all-null sub-object.
func AllowNull() Option {
	return func(b *base) { b.allowNull = true }
}

// Discriminator marks the field as the polymorphic discriminator. Model
// resolution forces its default to the resolving model's name; a
// discriminator is implicitly required.
func Discriminator() Option {
	return func(b *base) {
		b.discriminator = true
		b.required = true
	}
}

// SkipNone makes a Nested descriptor drop null fields within its own
// sub-object regardless of the outer marshal flag. Ignored elsewhere.
func SkipNone() Option {
	return func(b *base) { b.skipNone = true }
}

// base carries the configuration shared by every descriptor.
type base struct {
	required      bool
	def           any
	attribute     string
	getter        func(any) any
	allowNull     bool
	discriminator bool
	skipNone      bool
}

func newBase(opts []Option) base {
	var b base
	for _, o := range opts {
		o(&b)
	}
	return b
}

func (b *base) IsRequired() bool            { return b.required }
func (b *base) IsDiscriminator() bool       { return b.discriminator }
func (b *base) DefaultValue() any           { return b.def }
func (b *base) SourceAttribute() string     { return b.attribute }
func (b *base) SourceGetter() func(any) any { return b.getter }

// fragment is the common schema-fragment seed.
func (b *base) fragment(typ, format string) *js.Schema {
	return &js.Schema{Type: typ, Format: format, Default: b.def, Nullable: b.allowNull}
}
