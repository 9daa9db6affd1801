package restmodel

import (
	"sort"
	"sync"

	"github.com/reoring/restmodel/internal/validator"
	js "github.com/reoring/restmodel/jsonschema"
)

// Model is a named, insertion-ordered mapping of field name to descriptor
// that supports Swagger-style allOf composition. Models are built once at
// startup and are then safe for concurrent validation and marshalling; the
// flattening cache is invalidated whenever the field set or mask changes.
type Model struct {
	name    string
	fields  *FieldMap
	parents []*Model
	mask    *Mask

	mu sync.Mutex
	// version increments on every mutation; resolvedAt records the subtree
	// version the cached flattening was computed against, so a parent edit
	// invalidates descendants' caches too.
	version    uint64
	resolvedAt uint64
	resolved   *FieldMap
}

// ModelOption configures a model at construction time.
type ModelOption func(*Model)

// WithMask sets the model's default field-subset filter. The expression must
// parse; an invalid mask is a configuration bug and panics.
func WithMask(expr string) ModelOption {
	m := MustParseMask(expr)
	return func(mo *Model) { mo.mask = m }
}

// NewModel creates an empty model with the given public name. The name is
// used for $ref targets and must be unique within a registration namespace.
func NewModel(name string, opts ...ModelOption) *Model {
	m := &Model{name: name, fields: NewFieldMap()}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Name returns the model's public name.
func (m *Model) Name() string { return m.name }

// Field registers (or overrides) a descriptor and returns the model for
// chaining. Overriding keeps the field's original position.
func (m *Model) Field(name string, f Field) *Model {
	m.mu.Lock()
	m.fields.Set(name, f)
	m.version++
	m.resolved = nil
	m.mu.Unlock()
	return m
}

// SetMask replaces the model's default mask.
func (m *Model) SetMask(mask *Mask) *Model {
	m.mu.Lock()
	m.mask = mask
	m.version++
	m.resolved = nil
	m.mu.Unlock()
	return m
}

// DefaultMask returns the model's mask, nil when unset.
func (m *Model) DefaultMask() *Mask { return m.mask }

// Fields returns a copy of the model's own (non-inherited) field map.
func (m *Model) Fields() *FieldMap {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fields.Clone()
}

// Parents returns the composition parents in declaration order.
func (m *Model) Parents() []*Model {
	return append([]*Model(nil), m.parents...)
}

// Inherit builds a new model composed from parents using the Swagger allOf
// pattern: every parent stays referenced via $ref and the child's own field
// storage starts empty (add extras with Field). Inherited fields are never
// duplicated into the child, so later edits to a parent are visible.
func Inherit(name string, parents ...*Model) (*Model, error) {
	child := NewModel(name)
	for _, p := range parents {
		if _, ok := p.Ancestors()[name]; ok {
			return nil, &CycleError{Model: name}
		}
	}
	child.parents = append([]*Model(nil), parents...)
	return child, nil
}

// Inherit composes the receiver as the first parent:
// m.Inherit(name, extra...) == Inherit(name, m, extra...).
func (m *Model) Inherit(name string, extra ...*Model) (*Model, error) {
	parents := append([]*Model{m}, extra...)
	return Inherit(name, parents...)
}

// Clone deep-copies and merges the own fields of every source into a brand
// new parent-less model. Use it when independence from future parent edits
// is required; Inherit keeps referencing its parents instead.
func Clone(name string, sources ...*Model) *Model {
	out := NewModel(name)
	for _, s := range sources {
		s.mu.Lock()
		out.fields.Update(s.fields.Clone())
		s.mu.Unlock()
	}
	return out
}

// Clone merges the receiver first: m.Clone(name, extra...) ==
// Clone(name, m, extra...).
func (m *Model) Clone(name string, extra ...*Model) *Model {
	sources := append([]*Model{m}, extra...)
	return Clone(name, sources...)
}

// Ancestors returns the transitive closure of model names reachable through
// the parent graph, the model's own name included.
func (m *Model) Ancestors() map[string]struct{} {
	out := map[string]struct{}{}
	m.collectAncestors(out)
	return out
}

func (m *Model) collectAncestors(into map[string]struct{}) {
	if _, seen := into[m.name]; seen {
		return
	}
	into[m.name] = struct{}{}
	for _, p := range m.parents {
		p.collectAncestors(into)
	}
}

// GetParent searches the parent graph depth-first for a model by name.
func (m *Model) GetParent(name string) (*Model, error) {
	if found := m.findParent(name); found != nil {
		return found, nil
	}
	return nil, &ParentNotFoundError{Model: m.name, Name: name}
}

func (m *Model) findParent(name string) *Model {
	if m.name == name {
		return m
	}
	for _, p := range m.parents {
		if found := p.findParent(name); found != nil {
			return found
		}
	}
	return nil
}

// Schema returns the model's schema fragment. Models with parents compose
// through allOf with $ref entries; parent-less models return their own
// fragment directly.
func (m *Model) Schema() *js.Schema {
	own := m.ownSchema()
	if len(m.parents) == 0 {
		return own
	}
	all := make([]*js.Schema, 0, len(m.parents)+1)
	for _, p := range m.parents {
		all = append(all, js.RefTo(p.name))
	}
	all = append(all, own)
	return &js.Schema{AllOf: all}
}

func (m *Model) ownSchema() *js.Schema {
	m.mu.Lock()
	fields := m.fields.Clone()
	mask := m.mask
	m.mu.Unlock()

	props := make(map[string]*js.Schema, fields.Len())
	var required []string
	discriminator := ""
	for _, name := range fields.Keys() {
		f, _ := fields.Get(name)
		props[name] = f.Schema()
		if f.IsRequired() {
			required = append(required, name)
		}
		if f.IsDiscriminator() {
			discriminator = name
		}
	}
	sort.Strings(required)
	out := &js.Schema{Type: "object", Properties: props, Required: required, Discriminator: discriminator}
	if mask != nil {
		out.XMask = mask.String()
	}
	return out
}

// Resolved returns the flattened field map: every inherited field with own
// fields shadowing identically named ones, the discriminator uniqueness
// invariant enforced and its default forced to the model name. The result is
// memoized; concurrent first calls may recompute, which is harmless.
func (m *Model) Resolved() (*FieldMap, error) {
	return m.resolve(map[*Model]bool{})
}

func (m *Model) resolve(trail map[*Model]bool) (*FieldMap, error) {
	if trail[m] {
		return nil, &CycleError{Model: m.name}
	}
	trail[m] = true
	defer delete(trail, m)

	sv := m.subtreeVersion()
	m.mu.Lock()
	if m.resolved != nil && m.resolvedAt == sv {
		res := m.resolved
		m.mu.Unlock()
		return res, nil
	}
	own := m.fields.Clone()
	parents := append([]*Model(nil), m.parents...)
	m.mu.Unlock()

	res := NewFieldMap()
	for _, p := range parents {
		pr, err := p.resolve(trail)
		if err != nil {
			return nil, err
		}
		res.Update(pr)
	}
	res.Update(own)

	var discriminators []string
	for _, name := range res.Keys() {
		f, _ := res.Get(name)
		if f.IsDiscriminator() {
			discriminators = append(discriminators, name)
		}
	}
	switch {
	case len(discriminators) > 1:
		return nil, &DiscriminatorConflictError{Model: m.name, Fields: discriminators}
	case len(discriminators) == 1:
		name := discriminators[0]
		f, _ := res.Get(name)
		res.Set(name, f.WithDefault(m.name))
	}

	m.mu.Lock()
	m.resolved = res
	m.resolvedAt = sv
	m.mu.Unlock()
	return res, nil
}

// subtreeVersion sums the mutation counters of the model and every ancestor,
// so a cached flattening goes stale when any model it drew fields from is
// edited after the fact.
func (m *Model) subtreeVersion() uint64 {
	m.mu.Lock()
	v := m.version
	parents := append([]*Model(nil), m.parents...)
	m.mu.Unlock()
	for _, p := range parents {
		v += p.subtreeVersion()
	}
	return v
}

// Validate runs the composed schema against a decoded document. It returns
// nil on success and a *ValidationError mapping dotted field paths to
// messages on failure. Configuration faults (discriminator conflicts,
// inheritance cycles) surface as their own error types.
func (m *Model) Validate(doc any) error {
	res, err := m.Resolved()
	if err != nil {
		return err
	}
	frag := ObjectSchema(res)
	errs, err := validator.Validate(frag, doc)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return NewValidationError(errs)
	}
	return nil
}

// ObjectSchema builds the self-contained object fragment for a flattened
// field map. Validation applies composition by flattening rather than by
// emitting allOf: the override rule is "self wins", which allOf conjunction
// would not honor. Nested descriptors reuse this for their sub-schemas.
func ObjectSchema(res *FieldMap) *js.Schema {
	props := make(map[string]*js.Schema, res.Len())
	var required []string
	for _, name := range res.Keys() {
		f, _ := res.Get(name)
		props[name] = f.Schema()
		if f.IsRequired() {
			required = append(required, name)
		}
	}
	sort.Strings(required)
	return &js.Schema{Type: "object", Properties: props, Required: required}
}
