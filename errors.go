package qskema

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType   = "invalid_type"
	CodeInvalidValue  = "invalid_value" // literal / enum mismatch
	CodeInvalidFormat = "invalid_format"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeNotMultipleOf = "not_multiple_of"
	CodeCustom        = "custom"
	CodeParseError    = "parse_error"
	// CodeDependencyUnavailable is reported by refinements whose service is
	// missing from the context.
	CodeDependencyUnavailable = "dependency_unavailable"
)

// Issue represents a single validation entry.
type Issue struct {
	Code string `json:"code"`
	// Path holds the segments leading to the offending value. Field-level issues
	// carry a single segment: the field name.
	Path    []string `json:"path"`
	Message string   `json:"message"`
	// Params carries structured parameters (e.g., {"minimum": 5, "origin": "string"})
	// for i18n and observability.
	Params map[string]any `json:"params,omitempty"`
	Cause  error          `json:"-"`
}

// Pointer renders Path as an RFC 6901 JSON Pointer ("/" for the root).
func (it Issue) Pointer() string {
	if len(it.Path) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, p := range it.Path {
		b.WriteByte('/')
		// escape '~' -> '~0', '/' -> '~1'
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(p, "~", "~0"), "/", "~1"))
	}
	return b.String()
}

// Field returns the first path segment, or "" for root-level issues.
func (it Issue) Field() string {
	if len(it.Path) == 0 {
		return ""
	}
	return it.Path[0]
}

// Unwrap exposes the underlying cause, if any.
func (it Issue) Unwrap() error { return it.Cause }

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /page
		fmt.Fprintf(b, "%s at %s", it.Code, it.Pointer())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// ByField groups issues by their first path segment, preserving order.
func (iss Issues) ByField() map[string]Issues {
	out := make(map[string]Issues, len(iss))
	for _, it := range iss {
		out[it.Field()] = append(out[it.Field()], it)
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	return append(dst, more...)
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// Rebase prefixes every issue path with the given segments.
func (iss Issues) Rebase(prefix ...string) Issues {
	if len(prefix) == 0 {
		return iss
	}
	out := make(Issues, len(iss))
	for i, it := range iss {
		p := make([]string, 0, len(prefix)+len(it.Path))
		p = append(p, prefix...)
		it.Path = append(p, it.Path...)
		out[i] = it
	}
	return out
}

// ---- configuration errors ----

var (
	// ErrUnsupportedShape reports a field schema the codec cannot map to a
	// string, number, boolean or bigint instruction.
	ErrUnsupportedShape = errors.New("qskema: unsupported field shape")
	// ErrInvalidField reports a malformed field declaration (empty or duplicate
	// name, missing schema).
	ErrInvalidField = errors.New("qskema: invalid field declaration")
)

// SchemaError describes a configuration problem found while compiling a field
// set. It wraps ErrUnsupportedShape or ErrInvalidField.
type SchemaError struct {
	Field  string
	Tag    ShapeTag
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	b := &strings.Builder{}
	b.WriteString("qskema: field ")
	fmt.Fprintf(b, "%q", e.Field)
	if e.Tag != "" {
		fmt.Fprintf(b, " (shape %q)", string(e.Tag))
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

func (e *SchemaError) Unwrap() error { return e.Err }
