package dsl

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/reoring/qskema"
	"github.com/reoring/qskema/i18n"
	js "github.com/reoring/qskema/jsonschema"
)

// Schema is a field schema of the dsl engine. All schemas in this package
// implement it; schemas from other engines are rejected by Engine().Build.
type Schema interface {
	qskema.FieldSchema
	// check validates one decoded value. Returned issues carry paths relative
	// to the field (empty for the field itself).
	check(v any) qskema.Issues
	jsonSchema() *js.Schema
}

// newIssue builds an issue with a localized message. data overrides the
// message arguments derived from params.
func newIssue(code string, params map[string]any, data map[string]string) qskema.Issue {
	md := make(map[string]string, len(params)+len(data))
	for k, v := range params {
		md[k] = render(v)
	}
	for k, v := range data {
		md[k] = v
	}
	return qskema.Issue{Code: code, Path: []string{}, Message: i18n.T(code, md), Params: params}
}

func typeIssue(expected string, v any) qskema.Issues {
	return qskema.Issues{newIssue(qskema.CodeInvalidType,
		map[string]any{"expected": expected, "received": receivedType(v)}, nil)}
}

// receivedType names the type of a decoded value the way error messages
// report it.
func receivedType(v any) string {
	switch t := v.(type) {
	case nil:
		return "undefined"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64:
		switch {
		case math.IsNaN(t):
			return "NaN"
		case math.IsInf(t, 0):
			return "Infinity"
		}
		return "number"
	case *big.Int:
		return "bigint"
	case time.Time:
		return "date"
	}
	return fmt.Sprintf("%T", v)
}

// render formats a message argument.
func render(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return qskema.FormatNumber(t)
	case int:
		return strconv.Itoa(t)
	case *big.Int:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprint(v)
}

// literalText renders a declared value as it appears in messages: strings
// quoted, bigints suffixed with n.
func literalText(v any) string {
	switch t := v.(type) {
	case string:
		return strconv.Quote(t)
	case *big.Int:
		return t.String() + "n"
	case big.Int:
		return t.String() + "n"
	}
	if f, ok := toFloat(v); ok {
		return qskema.FormatNumber(f)
	}
	return fmt.Sprint(v)
}

func joinLiterals(vals []any) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = literalText(v)
	}
	return strings.Join(parts, "|")
}

func valueIssue(vals []any) qskema.Issues {
	data := map[string]string{"values": joinLiterals(vals)}
	if len(vals) > 1 {
		data["multiple"] = "true"
	}
	return qskema.Issues{newIssue(qskema.CodeInvalidValue, map[string]any{"values": vals}, data)}
}

func formatIssue(format string, extra map[string]any) qskema.Issue {
	params := map[string]any{"origin": "string", "format": format}
	for k, v := range extra {
		params[k] = v
	}
	return newIssue(qskema.CodeInvalidFormat, params, nil)
}

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }
