// Package restmodel provides:
//
//   - Named, composable field schemas (Model) with Swagger-style allOf
//     inheritance, discriminators and cached flattening
//   - Permissive object marshalling that projects arbitrary values into
//     schema-conformant, order-preserving output
//   - Strict payload validation through an external JSON-Schema-compatible
//     engine, surfaced as dotted-path error maps
//   - Quality-weighted Accept-header negotiation over an ordered
//     representation registry
//
// Design policy:
//   - Keep only public APIs in the root package; put the validator adapter
//     under internal/.
//   - Place field descriptors under fields/, the schema fragment under
//     jsonschema/, and the HTTP response boundary under middleware/.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	person := restmodel.NewModel("Person").
//		Field("name", fields.String(fields.Required())).
//		Field("age", fields.Integer())
//
//	if err := person.Validate(payload); err != nil { ... }
//	out, err := restmodel.Marshal(value, person)
//
//	reprs := restmodel.DefaultRepresentations()
//	mediaType, err := reprs.Negotiate(r.Header.Get("Accept"))
package restmodel
