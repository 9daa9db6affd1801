package fields

import (
	"time"

	restmodel "github.com/reoring/restmodel"
	js "github.com/reoring/restmodel/jsonschema"
)

// DateTime emits timestamps as canonical RFC3339 strings (UTC, trailing
// zeros trimmed). Accepts time.Time values or RFC3339(-Nano) strings;
// anything else degrades to the default.
func DateTime(opts ...Option) restmodel.Field {
	return &dateTimeField{base: newBase(opts)}
}

type dateTimeField struct{ base }

func (f *dateTimeField) Format(v any) any {
	switch t := v.(type) {
	case time.Time:
		return formatRFC3339Canonical(t)
	case *time.Time:
		if t == nil {
			return f.def
		}
		return formatRFC3339Canonical(*t)
	case string:
		if parsed, err := parseRFC3339(t); err == nil {
			return formatRFC3339Canonical(parsed)
		}
	}
	return f.def
}

func (f *dateTimeField) Schema() *js.Schema { return f.fragment("string", "date-time") }

func (f *dateTimeField) WithDefault(v any) restmodel.Field {
	c := *f
	c.def = v
	return &c
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	// Normalize to UTC and format using RFC3339Nano (Go trims trailing zeros)
	return t.UTC().Format(time.RFC3339Nano)
}
