package restmodel

import (
	"fmt"
	"strings"
)

// Mask is a parsed field-subset filter using the brace syntax
// "{name,owner{name,email},*}". A model may carry one as its default filter;
// it restricts which fields marshalling emits, recursively for nested fields.
type Mask struct {
	entries []maskEntry
	star    bool
}

type maskEntry struct {
	name   string
	nested *Mask
}

// MaskError reports an unparsable mask expression.
type MaskError struct {
	Mask   string
	Reason string
}

func (e *MaskError) Error() string {
	return fmt.Sprintf("restmodel: invalid mask %q: %s", e.Mask, e.Reason)
}

// ParseMask parses a mask expression. Surrounding braces are optional at the
// top level.
func ParseMask(s string) (*Mask, error) {
	in := strings.TrimSpace(s)
	if in == "" {
		return nil, &MaskError{Mask: s, Reason: "empty expression"}
	}
	if strings.HasPrefix(in, "{") {
		if !strings.HasSuffix(in, "}") {
			return nil, &MaskError{Mask: s, Reason: "unclosed brace"}
		}
		in = in[1 : len(in)-1]
	}
	m, rest, err := parseMaskBody(s, in)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(rest) != "" {
		return nil, &MaskError{Mask: s, Reason: "trailing characters"}
	}
	return m, nil
}

// MustParseMask is ParseMask panicking on error; for package-level defaults.
func MustParseMask(s string) *Mask {
	m, err := ParseMask(s)
	if err != nil {
		panic(err)
	}
	return m
}

// parseMaskBody consumes a comma-separated entry list up to an unbalanced '}'
// and returns the unconsumed remainder (the '}' included).
func parseMaskBody(orig, in string) (*Mask, string, error) {
	m := &Mask{}
	for {
		in = strings.TrimLeft(in, " \t")
		i := 0
		for i < len(in) && in[i] != ',' && in[i] != '{' && in[i] != '}' {
			i++
		}
		name := strings.TrimSpace(in[:i])
		in = in[i:]

		var nested *Mask
		if strings.HasPrefix(in, "{") {
			if name == "" || name == "*" {
				return nil, "", &MaskError{Mask: orig, Reason: "nested mask requires a field name"}
			}
			sub, rest, err := parseMaskBody(orig, in[1:])
			if err != nil {
				return nil, "", err
			}
			if !strings.HasPrefix(rest, "}") {
				return nil, "", &MaskError{Mask: orig, Reason: "unclosed brace"}
			}
			nested = sub
			in = rest[1:]
		}

		if name == "" && nested == nil {
			return nil, "", &MaskError{Mask: orig, Reason: "empty field name"}
		}
		if name == "*" {
			m.star = true
		} else {
			m.entries = append(m.entries, maskEntry{name: name, nested: nested})
		}

		in = strings.TrimLeft(in, " \t")
		if strings.HasPrefix(in, ",") {
			in = in[1:]
			continue
		}
		return m, in, nil
	}
}

// String renders the canonical brace form.
func (m *Mask) String() string {
	if m == nil {
		return ""
	}
	b := &strings.Builder{}
	b.WriteByte('{')
	for i, e := range m.entries {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(e.name)
		if e.nested != nil {
			b.WriteString(e.nested.String())
		}
	}
	if m.star {
		if len(m.entries) > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('*')
	}
	b.WriteByte('}')
	return b.String()
}

// Includes reports whether a field passes the mask and returns the nested
// mask to apply below it, if any. A "*" entry admits fields not named
// explicitly.
func (m *Mask) Includes(name string) (*Mask, bool) {
	if m == nil {
		return nil, true
	}
	for _, e := range m.entries {
		if e.name == name {
			return e.nested, true
		}
	}
	if m.star {
		return nil, true
	}
	return nil, false
}
