package fields

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	restmodel "github.com/reoring/restmodel"
	js "github.com/reoring/restmodel/jsonschema"
)

// Raw passes source values through unchanged.
func Raw(opts ...Option) restmodel.Field {
	return &rawField{base: newBase(opts)}
}

type rawField struct{ base }

func (f *rawField) Format(v any) any { return v }

func (f *rawField) Schema() *js.Schema { return f.fragment("", "") }

func (f *rawField) WithDefault(v any) restmodel.Field {
	c := *f
	c.def = v
	return &c
}

// String coerces any source value to its string form.
func String(opts ...Option) restmodel.Field {
	return &stringField{base: newBase(opts)}
}

type stringField struct{ base }

func (f *stringField) Format(v any) any {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func (f *stringField) Schema() *js.Schema { return f.fragment("string", "") }

func (f *stringField) WithDefault(v any) restmodel.Field {
	c := *f
	c.def = v
	return &c
}

// Integer coerces numeric source values to int64; unconvertible input
// degrades to the default.
func Integer(opts ...Option) restmodel.Field {
	return &integerField{base: newBase(opts)}
}

type integerField struct{ base }

func (f *integerField) Format(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint:
		return int64(n)
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	case float32:
		return int64(n)
	case float64:
		return int64(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if fl, err := n.Float64(); err == nil {
			return int64(fl)
		}
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i
		}
		if fl, err := strconv.ParseFloat(n, 64); err == nil {
			return int64(fl)
		}
	}
	return f.def
}

func (f *integerField) Schema() *js.Schema { return f.fragment("integer", "") }

func (f *integerField) WithDefault(v any) restmodel.Field {
	c := *f
	c.def = v
	return &c
}

// Float emits numbers as json.Number, preserving the floating-point literal
// shape: 3.0 renders as 3.0, never 3.
func Float(opts ...Option) restmodel.Field {
	return &floatField{base: newBase(opts)}
}

type floatField struct{ base }

func (f *floatField) Format(v any) any {
	switch n := v.(type) {
	case json.Number:
		return n
	case float64:
		return json.Number(floatLiteral(n))
	case float32:
		return json.Number(floatLiteral(float64(n)))
	case int:
		return json.Number(floatLiteral(float64(n)))
	case int64:
		return json.Number(floatLiteral(float64(n)))
	case string:
		if fl, err := strconv.ParseFloat(n, 64); err == nil {
			return json.Number(floatLiteral(fl))
		}
	}
	return f.def
}

func (f *floatField) Schema() *js.Schema { return f.fragment("number", "") }

func (f *floatField) WithDefault(v any) restmodel.Field {
	c := *f
	c.def = v
	return &c
}

// floatLiteral renders the shortest representation that still reads as a
// floating-point literal.
func floatLiteral(fl float64) string {
	s := strconv.FormatFloat(fl, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Boolean coerces source values by truthiness: zero numbers, empty strings
// and empty containers read false, everything else true. A nil source never
// reaches Format; the marshaller emits the default for it.
func Boolean(opts ...Option) restmodel.Field {
	return &booleanField{base: newBase(opts)}
}

type booleanField struct{ base }

func (f *booleanField) Format(v any) any {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b != ""
	case int:
		return b != 0
	case int64:
		return b != 0
	case float64:
		return b != 0
	case json.Number:
		fl, err := b.Float64()
		return err == nil && fl != 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len() > 0
	}
	return true
}

func (f *booleanField) Schema() *js.Schema { return f.fragment("boolean", "") }

func (f *booleanField) WithDefault(v any) restmodel.Field {
	c := *f
	c.def = v
	return &c
}
