// Package validator adapts the external JSON-Schema-compatible engine
// (kin-openapi) behind a small surface: fragment in, path-keyed messages out.
// The rest of the module treats the engine as a black box.
package validator

import (
	"regexp"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	js "github.com/reoring/restmodel/jsonschema"
)

var reRequired = regexp.MustCompile(`property "(.+)" is missing`)

// Validate runs doc against the fragment. It returns a mapping from dotted
// field path to message for every violation, or nil when the document
// conforms. The error return is reserved for adapter faults and is nil in
// normal operation.
func Validate(frag *js.Schema, doc any) (map[string]string, error) {
	sch := convert(frag)
	err := sch.VisitJSON(doc, openapi3.MultiErrors())
	if err == nil {
		return nil, nil
	}
	out := map[string]string{}
	collect(err, out)
	return out, nil
}

func collect(err error, out map[string]string) {
	switch e := err.(type) {
	case openapi3.MultiError:
		for _, sub := range e {
			collect(sub, out)
		}
	case *openapi3.SchemaError:
		path := e.JSONPointer()
		// A required violation points at the object; recover the missing
		// property name from the message and extend the path with it. Engines
		// that already mark the key are left alone.
		if e.SchemaField == "required" {
			if m := reRequired.FindStringSubmatch(e.Reason); m != nil {
				if len(path) == 0 || path[len(path)-1] != m[1] {
					path = append(path, m[1])
				}
			}
		}
		key := strings.Join(path, ".")
		if _, dup := out[key]; !dup {
			out[key] = e.Reason
		}
	default:
		if _, dup := out[""]; !dup {
			out[""] = err.Error()
		}
	}
}

// convert maps the export fragment onto the engine's schema model. Callers
// hand in flattened fragments; $ref entries are documentation-only and are
// skipped.
func convert(s *js.Schema) *openapi3.Schema {
	out := &openapi3.Schema{}
	if s == nil {
		return out
	}
	if s.Type != "" {
		out.Type = &openapi3.Types{s.Type}
	}
	out.Format = s.Format
	out.Default = s.Default
	out.Nullable = s.Nullable
	if len(s.Properties) > 0 {
		out.Properties = make(openapi3.Schemas, len(s.Properties))
		for k, v := range s.Properties {
			out.Properties[k] = openapi3.NewSchemaRef("", convert(v))
		}
	}
	if len(s.Required) > 0 {
		out.Required = append([]string(nil), s.Required...)
	}
	if s.Items != nil {
		out.Items = openapi3.NewSchemaRef("", convert(s.Items))
	}
	for _, sub := range s.AllOf {
		if sub.Ref != "" {
			continue
		}
		out.AllOf = append(out.AllOf, openapi3.NewSchemaRef("", convert(sub)))
	}
	return out
}
