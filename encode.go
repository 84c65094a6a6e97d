package qskema

import (
	"fmt"
	"iter"
	"math/big"
	"reflect"
	"strconv"
)

// Values is anything the encoder can iterate as key/value pairs.
type Values interface {
	All() iter.Seq2[string, any]
}

// Entry is a single key/value pair to encode.
type Entry struct {
	Key   string
	Value any
}

// Entries encodes in slice order.
type Entries []Entry

// All iterates the entries in order.
func (es Entries) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, e := range es {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// ToSearchParams encodes values into a fresh parameter set.
func ToSearchParams(values Values) *Params {
	return MergeSearchParams(nil, values)
}

// MergeSearchParams encodes values onto a clone of base; base is never
// modified.
//
// For each pair, in iteration order: nil (including typed nil pointers) and
// false remove the key entirely, even when base carried it; any other value
// replaces the key with its string form. Use ParseParams or ParamsFromValues
// to build base from a query string or a multi-map.
func MergeSearchParams(base *Params, values Values) *Params {
	out := base.Clone()
	if values == nil {
		return out
	}
	for k, v := range values.All() {
		s, keep := stringify(v)
		if !keep {
			out.Delete(k)
			continue
		}
		out.Set(k, s)
	}
	return out
}

// stringify renders v the way ECMAScript String(v) would for the supported
// value types. keep is false for values the encoder omits.
func stringify(v any) (s string, keep bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case bool:
		if !t {
			return "", false
		}
		return "true", true
	case float64:
		return FormatNumber(t), true
	case float32:
		return FormatNumber(float64(t)), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case *big.Int:
		if t == nil {
			return "", false
		}
		return t.String(), true
	case big.Int:
		return t.String(), true
	case fmt.Stringer:
		rv := reflect.ValueOf(t)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return "", false
		}
		return t.String(), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "", false
		}
		return stringify(rv.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return FormatNumber(rv.Float()), true
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return stringify(rv.Bool())
	}
	return fmt.Sprint(v), true
}
