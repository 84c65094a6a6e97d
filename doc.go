// Package qskema provides:
//
// - A typed codec between URL query strings and flat records (Parse/Encode)
// - A compiler that reduces each field schema to a {kind, optional} parse instruction
// - A stable error model via Issues (field path, code, message)
// - Presence metadata for decoded parameters through ParseWithMeta
//
// Design policy:
//   - Keep only public APIs in the root package; concrete validation engines live
//     under dsl/ (the zod-like builder DSL) and engine/playground/.
//   - Coercion never fails. A raw value that cannot be coerced becomes undefined (nil)
//     and the validation engine reports it, so every data error flows through Issues.
//   - Schema misconfiguration (unsupported shapes) fails at construction time.
//
// Typical usage:
//
//	s := g.SearchParams().
//	    Field("query", g.String()).
//	    Field("page", g.Number().Int().Min(1)).
//	    Field("limit", g.Number().Optional()).
//	    Field("active", g.Bool()).
//	    MustBuild()
//
//	rec, err := s.Parse(ctx, "?query=hello&page=1&active=true")
//	// rec == qskema.Record{"query": "hello", "page": 1.0, "limit": nil, "active": true}
//
//	qs := s.Encode(qskema.Record{"query": "world", "page": 2, "active": false}).String()
//	// qs == "query=world&page=2"
package qskema
