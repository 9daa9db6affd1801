package restmodel

import (
	"reflect"
)

// Response carries a payload together with pass-through status and headers.
// Marshal rewrites only the payload; status and headers are untouched.
type Response struct {
	Data    any
	Status  int
	Headers map[string]string
}

type marshalConfig struct {
	envelope string
	skipNone bool
}

// MarshalOption configures one Marshal call.
type MarshalOption func(*marshalConfig)

// Envelope wraps the final result under the given key.
func Envelope(key string) MarshalOption {
	return func(c *marshalConfig) { c.envelope = key }
}

// SkipNone omits every field whose final marshaled value is null, at every
// nesting level.
func SkipNone() MarshalOption {
	return func(c *marshalConfig) { c.skipNone = true }
}

// Marshal projects data through the schema's field set: unknown source fields
// are dropped, declared fields are extracted (by key, attribute or getter),
// coerced and defaulted, and the output preserves schema field order. data
// may be a single object/mapping, a sequence of them, or a Response whose
// payload alone is rewritten. Marshalling is deliberately permissive; missing
// values become defaults or nulls, never errors. The only error sources are
// schema resolution faults.
func Marshal(data any, schema Schema, opts ...MarshalOption) (any, error) {
	var cfg marshalConfig
	for _, o := range opts {
		o(&cfg)
	}
	switch resp := data.(type) {
	case Response:
		out, err := marshalPayload(resp.Data, schema, cfg)
		if err != nil {
			return nil, err
		}
		return Response{Data: out, Status: resp.Status, Headers: resp.Headers}, nil
	case *Response:
		out, err := marshalPayload(resp.Data, schema, cfg)
		if err != nil {
			return nil, err
		}
		return &Response{Data: out, Status: resp.Status, Headers: resp.Headers}, nil
	}
	return marshalPayload(data, schema, cfg)
}

func marshalPayload(data any, schema Schema, cfg marshalConfig) (any, error) {
	fm, err := schema.Resolved()
	if err != nil {
		return nil, err
	}
	var mask *Mask
	if ms, ok := schema.(interface{ DefaultMask() *Mask }); ok {
		mask = ms.DefaultMask()
	}

	var result any
	if isSequence(data) {
		rv := reflect.ValueOf(data)
		seq := make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			seq = append(seq, marshalObject(rv.Index(i).Interface(), fm, mask, cfg.skipNone))
		}
		result = seq
	} else {
		result = marshalObject(data, fm, mask, cfg.skipNone)
	}

	if cfg.envelope != "" {
		return NewOrderedMap().Set(cfg.envelope, result), nil
	}
	return result, nil
}

// marshalObject applies one field map to one source value.
func marshalObject(source any, fm *FieldMap, mask *Mask, skipNone bool) *OrderedMap {
	out := NewOrderedMap()
	for _, name := range fm.Keys() {
		f, _ := fm.Get(name)
		subMask, included := mask.Includes(name)
		if !included {
			continue
		}
		raw := extractField(source, name, f)

		var v any
		switch d := f.(type) {
		case NestedDescriptor:
			v = marshalNested(d, raw, subMask, skipNone)
		case ListDescriptor:
			v = marshalList(d, raw, skipNone)
		default:
			if raw == nil {
				v = f.DefaultValue()
			} else {
				v = f.Format(raw)
			}
		}

		if skipNone && isNone(v) {
			continue
		}
		out.Set(name, v)
	}
	return out
}

func extractField(source any, name string, f Field) any {
	if g := f.SourceGetter(); g != nil {
		if source == nil {
			return nil
		}
		return g(source)
	}
	key := name
	if a := f.SourceAttribute(); a != "" {
		key = a
	}
	raw, _ := extract(source, key)
	return raw
}

func marshalNested(d NestedDescriptor, raw any, subMask *Mask, skipNone bool) any {
	nested, err := d.NestedSchema().Resolved()
	if err != nil {
		return nil
	}
	if subMask == nil {
		if ms, ok := d.NestedSchema().(interface{ DefaultMask() *Mask }); ok {
			subMask = ms.DefaultMask()
		}
	}
	inner := skipNone || d.SkipsNone()
	if raw == nil {
		if d.AllowsNull() {
			return nil
		}
		// Absence is not propagated: expand to a full sub-object with every
		// nested field null or defaulted.
		return marshalObject(nil, nested, subMask, inner)
	}
	return marshalObject(raw, nested, subMask, inner)
}

func marshalList(d ListDescriptor, raw any, skipNone bool) any {
	if raw == nil {
		return d.DefaultValue()
	}
	item := d.ItemDescriptor()
	var elems []any
	if isSequence(raw) {
		rv := reflect.ValueOf(raw)
		elems = make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elems = append(elems, rv.Index(i).Interface())
		}
	} else {
		// A single object marshals as a one-element sequence.
		elems = []any{raw}
	}
	out := make([]any, 0, len(elems))
	for _, el := range elems {
		switch it := item.(type) {
		case NestedDescriptor:
			out = append(out, marshalNested(it, el, nil, skipNone))
		case ListDescriptor:
			out = append(out, marshalList(it, el, skipNone))
		default:
			if el == nil {
				out = append(out, item.DefaultValue())
			} else {
				out = append(out, item.Format(el))
			}
		}
	}
	return out
}

// FormatValue applies a single descriptor outside any field map, for
// handlers that marshal a bare value rather than an object.
func FormatValue(f Field, v any, opts ...MarshalOption) any {
	var cfg marshalConfig
	for _, o := range opts {
		o(&cfg)
	}
	switch d := f.(type) {
	case NestedDescriptor:
		return marshalNested(d, v, nil, cfg.skipNone)
	case ListDescriptor:
		return marshalList(d, v, cfg.skipNone)
	default:
		if v == nil {
			return f.DefaultValue()
		}
		return f.Format(v)
	}
}

// isSequence reports whether v marshals element-wise. Strings and byte
// slices stay scalar.
func isSequence(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.([]byte); ok {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	}
	return false
}

// isNone reports whether a marshaled value counts as null for skip-none
// purposes: nil itself, or a sub-object whose fields were all skipped.
func isNone(v any) bool {
	if v == nil {
		return true
	}
	if om, ok := v.(*OrderedMap); ok {
		return om == nil || om.Len() == 0
	}
	return false
}
