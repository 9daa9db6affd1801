package jsonschema

// Schema is a minimal Swagger-compatible schema fragment used for export and
// for handing composed models to the external validator. Keep this struct
// small and extend incrementally.
type Schema struct {
	// Core
	Type    string `json:"type,omitempty"`
	Format  string `json:"format,omitempty"`
	Default any    `json:"default,omitempty"`

	// Object
	Properties map[string]*Schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`

	// Composition (Swagger-style allOf inheritance)
	Ref   string    `json:"$ref,omitempty"`
	AllOf []*Schema `json:"allOf,omitempty"`

	// Polymorphism and masking
	Discriminator string `json:"discriminator,omitempty"`
	XMask         string `json:"x-mask,omitempty"`
	Nullable      bool   `json:"x-nullable,omitempty"`
}

// Clone returns a deep copy of the fragment. Default values are copied by
// reference; fragments treat them as immutable.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	out := *s
	if s.Properties != nil {
		out.Properties = make(map[string]*Schema, len(s.Properties))
		for k, v := range s.Properties {
			out.Properties[k] = v.Clone()
		}
	}
	if s.Required != nil {
		out.Required = append([]string(nil), s.Required...)
	}
	out.Items = s.Items.Clone()
	if s.AllOf != nil {
		out.AllOf = make([]*Schema, len(s.AllOf))
		for i, v := range s.AllOf {
			out.AllOf[i] = v.Clone()
		}
	}
	return &out
}

// RefTo renders the definitions pointer used by composed models.
func RefTo(name string) *Schema {
	return &Schema{Ref: "#/definitions/" + name}
}
