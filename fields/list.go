package fields

import (
	restmodel "github.com/reoring/restmodel"
	js "github.com/reoring/restmodel/jsonschema"
)

// List wraps another descriptor into an ordered homogeneous sequence. The
// marshaller applies the wrapped descriptor to every element, preserving
// order; a single non-sequence source value marshals as a one-element list.
func List(item restmodel.Field, opts ...Option) restmodel.Field {
	return &listField{base: newBase(opts), item: item}
}

type listField struct {
	base
	item restmodel.Field
}

var _ restmodel.ListDescriptor = (*listField)(nil)

func (f *listField) ItemDescriptor() restmodel.Field { return f.item }

// Format is the per-element fallback; sequence handling lives in the
// marshaller, which recurses through ItemDescriptor.
func (f *listField) Format(v any) any { return v }

func (f *listField) Schema() *js.Schema {
	s := f.fragment("array", "")
	s.Items = f.item.Schema()
	return s
}

func (f *listField) WithDefault(v any) restmodel.Field {
	c := *f
	c.def = v
	return &c
}
