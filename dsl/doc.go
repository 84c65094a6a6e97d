// Package dsl is the built-in validation engine for qskema: zod-like,
// immutable schema builders plus a search-params schema builder.
//
// Overview
//   - Primitives: String(), Number(), Bool(), BigInt() with chained constraints
//     (Min/Max/Length/Email/URL/UUID/Regex/StartsWith/EndsWith/ISODate/ISODateTime
//     for strings; Min/Max/Gt/Lt/Int/Positive/NonNegative/MultipleOf for numbers).
//   - Value sets: Literal(values...), Enum(values...), TemplateLiteral(parts...).
//   - Wrappers: Optional(inner) or .Optional(); Nullable(inner) and Date() exist
//     for completeness but cannot be carried by search params, so Build rejects them.
//   - Engine(): implements qskema.Engine. Fields are checked in declared order and
//     every issue carries the field name as its path.
//   - SearchParams(): Field(name, schema)...Build() returns a *qskema.Schema.
//   - JSONSchema(fields): JSON Schema (draft 2020-12) of the decoded record.
//
// Example (quickstart)
//
//	s := g.SearchParams().
//	    Field("name", g.String().Min(2)).
//	    Field("age", g.Number().Int().Min(18)).
//	    Field("email", g.Email().Optional()).
//	    Field("type", g.Enum("admin", "user")).
//	    MustBuild()
//
//	rec, err := s.Parse(ctx, "?name=Al&age=20&type=user")
//	if iss, ok := qskema.AsIssues(err); ok {
//	    for _, it := range iss {
//	        fmt.Println(it.Field(), it.Code, it.Message)
//	    }
//	}
//
// Error model
//   - invalid_type: value missing or of the wrong type ("Invalid input: expected
//     number, received undefined"); Int() reports expected "int".
//   - invalid_value: literal or enum mismatch.
//   - too_small / too_big: length or numeric bounds, with origin/minimum/maximum params.
//   - invalid_format: email, url, uuid, date, datetime, regex, starts_with,
//     ends_with, template_literal.
//   - not_multiple_of: MultipleOf.
//
// Messages come from the i18n package and follow its current language.
package dsl
