package restmodel_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	restmodel "github.com/reoring/restmodel"
	"github.com/reoring/restmodel/fields"
)

func personModel() *restmodel.Model {
	return restmodel.NewModel("Person").
		Field("name", fields.String(fields.Required())).
		Field("age", fields.Integer())
}

func TestModel_ResolvedFlattensParentsFirst(t *testing.T) {
	parent := personModel()
	child, err := parent.Inherit("Child")
	if err != nil {
		t.Fatalf("Inherit: %v", err)
	}
	child.Field("extra", fields.Raw())

	res, err := child.Resolved()
	if err != nil {
		t.Fatalf("Resolved: %v", err)
	}
	want := []string{"name", "age", "extra"}
	if diff := cmp.Diff(want, res.Keys()); diff != "" {
		t.Fatalf("key order (-want +got):\n%s", diff)
	}
}

func TestModel_ChildOverrideShadowsParentField(t *testing.T) {
	parent := personModel()
	child, err := parent.Inherit("Child")
	if err != nil {
		t.Fatalf("Inherit: %v", err)
	}
	child.Field("age", fields.String())

	res, err := child.Resolved()
	if err != nil {
		t.Fatalf("Resolved: %v", err)
	}
	f, ok := res.Get("age")
	if !ok {
		t.Fatalf("age missing from resolved map")
	}
	if got := f.Schema().Type; got != "string" {
		t.Fatalf("override not applied, schema type = %q", got)
	}
	// Overriding keeps the parent's position.
	if keys := res.Keys(); keys[1] != "age" {
		t.Fatalf("override moved the field: %v", keys)
	}
}

func TestModel_InheritSeesLaterParentEdits(t *testing.T) {
	parent := personModel()
	child, err := parent.Inherit("Child")
	if err != nil {
		t.Fatalf("Inherit: %v", err)
	}
	if _, err := child.Resolved(); err != nil {
		t.Fatalf("Resolved: %v", err)
	}

	// Editing the parent after the child resolved must invalidate the
	// child's cached flattening too.
	parent.Field("email", fields.String())
	res, err := child.Resolved()
	if err != nil {
		t.Fatalf("Resolved after parent edit: %v", err)
	}
	if !res.Has("email") {
		t.Fatalf("child does not see parent edit: %v", res.Keys())
	}
}

func TestModel_CloneIsIndependentOfSources(t *testing.T) {
	parent := personModel()
	copied := parent.Clone("Copy")

	parent.Field("email", fields.String())
	res, err := copied.Resolved()
	if err != nil {
		t.Fatalf("Resolved: %v", err)
	}
	if res.Has("email") {
		t.Fatalf("clone sees source edit: %v", res.Keys())
	}
	if len(copied.Parents()) != 0 {
		t.Fatalf("clone must be parent-less")
	}
}

func TestModel_Ancestors(t *testing.T) {
	grandparent := restmodel.NewModel("Grandparent").Field("g", fields.Raw())
	parent, err := grandparent.Inherit("Parent")
	if err != nil {
		t.Fatalf("Inherit: %v", err)
	}
	child, err := parent.Inherit("Child")
	if err != nil {
		t.Fatalf("Inherit: %v", err)
	}
	anc := child.Ancestors()
	for _, name := range []string{"Child", "Parent", "Grandparent"} {
		if _, ok := anc[name]; !ok {
			t.Fatalf("ancestors missing %q: %v", name, anc)
		}
	}
}

func TestModel_GetParent(t *testing.T) {
	grandparent := restmodel.NewModel("Grandparent")
	parent, _ := grandparent.Inherit("Parent")
	child, _ := parent.Inherit("Child")

	found, err := child.GetParent("Grandparent")
	if err != nil {
		t.Fatalf("GetParent: %v", err)
	}
	if found != grandparent {
		t.Fatalf("wrong model returned: %q", found.Name())
	}

	_, err = child.GetParent("Stranger")
	var nf *restmodel.ParentNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected ParentNotFoundError, got %v", err)
	}
}

func TestModel_InheritRejectsCycle(t *testing.T) {
	a := restmodel.NewModel("A")
	b, err := a.Inherit("B")
	if err != nil {
		t.Fatalf("Inherit: %v", err)
	}
	_, err = b.Inherit("A")
	var ce *restmodel.CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CycleError, got %v", err)
	}
}

func TestModel_DiscriminatorDefaultsToModelName(t *testing.T) {
	parent := restmodel.NewModel("Parent").
		Field("type", fields.String(fields.Discriminator())).
		Field("name", fields.String())
	child, err := parent.Inherit("Child")
	if err != nil {
		t.Fatalf("Inherit: %v", err)
	}

	res, err := child.Resolved()
	if err != nil {
		t.Fatalf("Resolved: %v", err)
	}
	f, _ := res.Get("type")
	if got := f.DefaultValue(); got != "Child" {
		t.Fatalf("discriminator default = %v, want Child", got)
	}
	if !f.IsRequired() {
		t.Fatalf("discriminator must be required")
	}

	// The shared descriptor itself stays untouched.
	pres, _ := parent.Resolved()
	pf, _ := pres.Get("type")
	if got := pf.DefaultValue(); got != "Parent" {
		t.Fatalf("parent's discriminator default = %v, want Parent", got)
	}

	out := mustMarshal(t, map[string]any{"name": "x"}, child)
	if got, want := asJSON(t, out), `{"type":"Child","name":"x"}`; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestModel_DiscriminatorConflict(t *testing.T) {
	m := restmodel.NewModel("Broken").
		Field("kind", fields.String(fields.Discriminator())).
		Field("type", fields.String(fields.Discriminator()))
	_, err := m.Resolved()
	var dc *restmodel.DiscriminatorConflictError
	if !errors.As(err, &dc) {
		t.Fatalf("expected DiscriminatorConflictError, got %v", err)
	}
	if len(dc.Fields) != 2 {
		t.Fatalf("conflict fields = %v", dc.Fields)
	}
}

func TestModel_SchemaComposesWithAllOf(t *testing.T) {
	parent := personModel()
	child, err := parent.Inherit("Child")
	if err != nil {
		t.Fatalf("Inherit: %v", err)
	}
	child.Field("extra", fields.Raw())

	sch := child.Schema()
	if len(sch.AllOf) != 2 {
		t.Fatalf("allOf length = %d, want 2", len(sch.AllOf))
	}
	if got, want := sch.AllOf[0].Ref, "#/definitions/Person"; got != want {
		t.Fatalf("parent ref = %q, want %q", got, want)
	}
	own := sch.AllOf[1]
	if own.Type != "object" {
		t.Fatalf("own fragment type = %q", own.Type)
	}
	// Inherited fields stay behind the $ref; only the extras are own.
	if _, ok := own.Properties["extra"]; !ok {
		t.Fatalf("own fragment missing property extra")
	}
	if _, ok := own.Properties["name"]; ok {
		t.Fatalf("inherited field duplicated into own fragment")
	}
}

func TestModel_SchemaWithoutParents(t *testing.T) {
	m := restmodel.NewModel("Person", restmodel.WithMask("{name}")).
		Field("name", fields.String(fields.Required())).
		Field("age", fields.Integer(fields.Required()))

	sch := m.Schema()
	if sch.Type != "object" || len(sch.AllOf) != 0 {
		t.Fatalf("expected plain object fragment, got %+v", sch)
	}
	if diff := cmp.Diff([]string{"age", "name"}, sch.Required); diff != "" {
		t.Fatalf("required must be sorted (-want +got):\n%s", diff)
	}
	if sch.XMask != "{name}" {
		t.Fatalf("x-mask = %q", sch.XMask)
	}
}

func TestModel_FieldMutationInvalidatesCache(t *testing.T) {
	m := personModel()
	if _, err := m.Resolved(); err != nil {
		t.Fatalf("Resolved: %v", err)
	}
	m.Field("email", fields.String())
	res, err := m.Resolved()
	if err != nil {
		t.Fatalf("Resolved: %v", err)
	}
	if !res.Has("email") {
		t.Fatalf("stale resolution cache: %v", res.Keys())
	}
}

func TestModel_MultipleParentsComposeInOrder(t *testing.T) {
	a := restmodel.NewModel("A").Field("a", fields.Raw()).Field("shared", fields.Integer())
	b := restmodel.NewModel("B").Field("b", fields.Raw()).Field("shared", fields.String())
	child, err := restmodel.Inherit("C", a, b)
	if err != nil {
		t.Fatalf("Inherit: %v", err)
	}
	// Nothing is copied into the child's own storage.
	if own := child.Fields(); own.Len() != 0 {
		t.Fatalf("own fields = %v, want none", own.Keys())
	}
	res, err := child.Resolved()
	if err != nil {
		t.Fatalf("Resolved: %v", err)
	}
	if !res.Has("a") || !res.Has("b") {
		t.Fatalf("resolved = %v, want a and b", res.Keys())
	}
	// A later parent overrides an earlier one on shared names.
	f, _ := res.Get("shared")
	if got := f.Schema().Type; got != "string" {
		t.Fatalf("later parent must win, shared type = %q", got)
	}
}
