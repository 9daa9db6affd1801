package fields

import (
	restmodel "github.com/reoring/restmodel"
	js "github.com/reoring/restmodel/jsonschema"
)

// Nested embeds a sub-schema (a *restmodel.Model or *restmodel.FieldMap).
// Without AllowNull a null or absent source value expands into a full
// sub-object with every nested field null or defaulted; with AllowNull it
// stays null. SkipNone applies inside the sub-object only.
func Nested(schema restmodel.Schema, opts ...Option) restmodel.Field {
	return &nestedField{base: newBase(opts), schema: schema}
}

// Inline embeds a sub-schema marshalled against the enclosing source object
// itself rather than a sub-value, the way an inline field mapping placed
// directly in a schema behaves. The sub-object is assembled from the parent's
// own keys.
func Inline(schema restmodel.Schema, opts ...Option) restmodel.Field {
	f := &nestedField{base: newBase(opts), schema: schema}
	f.getter = func(source any) any { return source }
	return f
}

type nestedField struct {
	base
	schema restmodel.Schema
}

var _ restmodel.NestedDescriptor = (*nestedField)(nil)

func (f *nestedField) NestedSchema() restmodel.Schema { return f.schema }
func (f *nestedField) AllowsNull() bool               { return f.allowNull }
func (f *nestedField) SkipsNone() bool                { return f.skipNone }

// Format is unused for sub-objects; the marshaller recurses through
// NestedSchema.
func (f *nestedField) Format(v any) any { return v }

func (f *nestedField) Schema() *js.Schema {
	res, err := f.schema.Resolved()
	if err != nil {
		s := f.fragment("object", "")
		return s
	}
	s := restmodel.ObjectSchema(res)
	s.Default = f.def
	s.Nullable = f.allowNull
	return s
}

func (f *nestedField) WithDefault(v any) restmodel.Field {
	c := *f
	c.def = v
	return &c
}
