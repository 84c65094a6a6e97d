package dsl

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/reoring/qskema"
	js "github.com/reoring/qskema/jsonschema"
)

// StringSchema validates string fields. Builders return modified copies, so a
// base schema can be shared and refined freely.
type StringSchema struct {
	checks []stringCheck
}

type stringCheck struct {
	name string
	arg  any
	fn   func(s string) (qskema.Issue, bool)
	js   func(*js.Schema)
}

// formats backs the tag-based format checks; a Validate is safe for
// concurrent use.
var formats = validator.New(validator.WithRequiredStructEnabled())

var (
	isoDTimeRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}(:\d{2}(\.\d+)?)?(Z|[+-]\d{2}:\d{2})$`)
	maxUUID    = uuid.Must(uuid.Parse("ffffffff-ffff-ffff-ffff-ffffffffffff"))
)

func hasFormat(tag string) func(string) bool {
	return func(v string) bool { return formats.Var(v, tag) == nil }
}

// isUUID accepts hyphenated RFC 9562 UUIDs of versions 1-8 plus the nil and
// max UUIDs.
func isUUID(v string) bool {
	if formats.Var(v, "uuid_rfc4122") != nil {
		return false
	}
	u, err := uuid.Parse(v)
	if err != nil {
		return false
	}
	if u == uuid.Nil || u == maxUUID {
		return true
	}
	return u.Variant() == uuid.RFC4122 && u.Version() >= 1 && u.Version() <= 8
}

// String returns a plain string schema.
func String() StringSchema { return StringSchema{} }

// Email is String().Email().
func Email() StringSchema { return String().Email() }

// ISODate is String().ISODate().
func ISODate() StringSchema { return String().ISODate() }

func (s StringSchema) with(c stringCheck) StringSchema {
	s.checks = append(slices.Clip(s.checks), c)
	return s
}

// Min requires at least n characters.
func (s StringSchema) Min(n int) StringSchema {
	return s.with(stringCheck{
		name: "minLength", arg: n,
		fn: func(v string) (qskema.Issue, bool) {
			if utf16Len(v) >= n {
				return qskema.Issue{}, true
			}
			return newIssue(qskema.CodeTooSmall, map[string]any{"origin": "string", "minimum": n, "inclusive": true}, nil), false
		},
		js: func(o *js.Schema) { o.MinLength = intPtr(n) },
	})
}

// Max allows at most n characters.
func (s StringSchema) Max(n int) StringSchema {
	return s.with(stringCheck{
		name: "maxLength", arg: n,
		fn: func(v string) (qskema.Issue, bool) {
			if utf16Len(v) <= n {
				return qskema.Issue{}, true
			}
			return newIssue(qskema.CodeTooBig, map[string]any{"origin": "string", "maximum": n, "inclusive": true}, nil), false
		},
		js: func(o *js.Schema) { o.MaxLength = intPtr(n) },
	})
}

// Length requires exactly n characters.
func (s StringSchema) Length(n int) StringSchema { return s.Min(n).Max(n) }

// Email requires an email address.
func (s StringSchema) Email() StringSchema {
	return s.format("email", hasFormat("email"), "email")
}

// URL requires an absolute URL.
func (s StringSchema) URL() StringSchema {
	return s.format("url", hasFormat("url"), "uri")
}

// UUID requires a hyphenated UUID with a known version and the RFC variant.
func (s StringSchema) UUID() StringSchema {
	return s.format("uuid", isUUID, "uuid")
}

// ISODate requires a calendar date in YYYY-MM-DD form.
func (s StringSchema) ISODate() StringSchema {
	return s.format("date", hasFormat("datetime="+time.DateOnly), "date")
}

// ISODateTime requires an RFC 3339 timestamp.
func (s StringSchema) ISODateTime() StringSchema {
	return s.format("datetime", func(v string) bool {
		if !isoDTimeRe.MatchString(v) {
			return false
		}
		_, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			// seconds are optional
			_, err = time.Parse("2006-01-02T15:04Z07:00", v)
		}
		return err == nil
	}, "date-time")
}

// Regex requires a match of re.
func (s StringSchema) Regex(re *regexp.Regexp) StringSchema {
	return s.with(stringCheck{
		name: "pattern", arg: re.String(),
		fn: func(v string) (qskema.Issue, bool) {
			if re.MatchString(v) {
				return qskema.Issue{}, true
			}
			return formatIssue("regex", map[string]any{"pattern": "/" + re.String() + "/"}), false
		},
		js: func(o *js.Schema) { addPattern(o, re.String()) },
	})
}

// StartsWith requires the given prefix.
func (s StringSchema) StartsWith(prefix string) StringSchema {
	return s.with(stringCheck{
		name: "startsWith", arg: prefix,
		fn: func(v string) (qskema.Issue, bool) {
			if strings.HasPrefix(v, prefix) {
				return qskema.Issue{}, true
			}
			return formatIssue("starts_with", map[string]any{"prefix": prefix}), false
		},
		js: func(o *js.Schema) { addPattern(o, "^"+regexp.QuoteMeta(prefix)) },
	})
}

// EndsWith requires the given suffix.
func (s StringSchema) EndsWith(suffix string) StringSchema {
	return s.with(stringCheck{
		name: "endsWith", arg: suffix,
		fn: func(v string) (qskema.Issue, bool) {
			if strings.HasSuffix(v, suffix) {
				return qskema.Issue{}, true
			}
			return formatIssue("ends_with", map[string]any{"suffix": suffix}), false
		},
		js: func(o *js.Schema) { addPattern(o, regexp.QuoteMeta(suffix)+"$") },
	})
}

func (s StringSchema) format(name string, ok func(string) bool, jsFormat string) StringSchema {
	return s.with(stringCheck{
		name: "format", arg: name,
		fn: func(v string) (qskema.Issue, bool) {
			if ok(v) {
				return qskema.Issue{}, true
			}
			return formatIssue(name, nil), false
		},
		js: func(o *js.Schema) { addFormat(o, jsFormat) },
	})
}

// Optional wraps the schema so undefined is accepted.
func (s StringSchema) Optional() OptionalSchema { return Optional(s) }

func (s StringSchema) Shape() qskema.Shape {
	c := map[string]any{}
	for _, ck := range s.checks {
		c[ck.name] = ck.arg
	}
	return qskema.Shape{Tag: qskema.ShapeString, Constraints: c}
}

func (s StringSchema) check(v any) qskema.Issues {
	str, ok := v.(string)
	if !ok {
		return typeIssue("string", v)
	}
	var iss qskema.Issues
	for _, ck := range s.checks {
		if it, ok := ck.fn(str); !ok {
			iss = qskema.AppendIssues(iss, it)
		}
	}
	return iss
}

func (s StringSchema) jsonSchema() *js.Schema {
	out := &js.Schema{Type: "string"}
	for _, ck := range s.checks {
		ck.js(out)
	}
	return out
}

// addPattern sets the pattern keyword, moving further patterns into allOf so
// that every one of them applies.
func addPattern(o *js.Schema, p string) {
	if o.Pattern == "" {
		o.Pattern = p
		return
	}
	o.AllOf = append(o.AllOf, &js.Schema{Pattern: p})
}

func addFormat(o *js.Schema, f string) {
	if o.Format == "" || o.Format == f {
		o.Format = f
		return
	}
	o.AllOf = append(o.AllOf, &js.Schema{Format: f})
}

// utf16Len counts UTF-16 code units, which is how string lengths are
// measured by browsers.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}
