package qskema

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strings"
)

var bigIntType = reflect.TypeFor[big.Int]()

// ResolveQueryKey resolves the parameter name of a struct field.
// Priority: query tag > json tag name > field name; "-" disables the field.
func ResolveQueryKey(sf reflect.StructField) string {
	for _, tag := range []string{"query", "json"} {
		t, ok := sf.Tag.Lookup(tag)
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(t, ",")
		if name == "-" {
			return "-"
		}
		if name != "" {
			return name
		}
	}
	return sf.Name
}

// Bind copies a record into a struct of type T. Pointer fields receive nil for
// undefined values; other fields keep their zero value. Number values bind to
// any Go integer or float field, rejecting fractions and overflow for integers.
func Bind[T any](rec Record) (T, error) {
	var out T
	rv := reflect.ValueOf(&out).Elem()
	if rv.Kind() != reflect.Struct {
		return out, fmt.Errorf("qskema: bind target must be a struct, got %s", rv.Type())
	}
	rt := rv.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		key := ResolveQueryKey(sf)
		if key == "-" {
			continue
		}
		v, ok := rec[key]
		if !ok || v == nil {
			continue
		}
		if err := assign(rv.Field(i), v); err != nil {
			return out, fmt.Errorf("qskema: bind %q: %w", key, err)
		}
	}
	return out, nil
}

func assign(dst reflect.Value, v any) error {
	if dst.Kind() == reflect.Interface && reflect.TypeOf(v).AssignableTo(dst.Type()) {
		dst.Set(reflect.ValueOf(v))
		return nil
	}
	if dst.Kind() == reflect.Pointer && dst.Type() != reflect.TypeFor[*big.Int]() {
		elem := reflect.New(dst.Type().Elem())
		if err := assign(elem.Elem(), v); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	}
	switch t := v.(type) {
	case string:
		if dst.Kind() == reflect.String {
			dst.SetString(t)
			return nil
		}
	case bool:
		if dst.Kind() == reflect.Bool {
			dst.SetBool(t)
			return nil
		}
	case float64:
		return assignNumber(dst, t)
	case *big.Int:
		if t == nil {
			return nil
		}
		switch {
		case dst.Type() == reflect.TypeFor[*big.Int]():
			dst.Set(reflect.ValueOf(new(big.Int).Set(t)))
			return nil
		case dst.Type() == bigIntType:
			dst.Set(reflect.ValueOf(*new(big.Int).Set(t)))
			return nil
		case dst.CanInt() && t.IsInt64():
			n := t.Int64()
			if dst.OverflowInt(n) {
				return fmt.Errorf("%s overflows %s", t, dst.Type())
			}
			dst.SetInt(n)
			return nil
		case dst.CanUint() && t.IsUint64():
			n := t.Uint64()
			if dst.OverflowUint(n) {
				return fmt.Errorf("%s overflows %s", t, dst.Type())
			}
			dst.SetUint(n)
			return nil
		}
	}
	return fmt.Errorf("cannot assign %T to %s", v, dst.Type())
}

func assignNumber(dst reflect.Value, f float64) error {
	switch {
	case dst.CanFloat():
		if dst.OverflowFloat(f) {
			return fmt.Errorf("%v overflows %s", f, dst.Type())
		}
		dst.SetFloat(f)
		return nil
	case dst.CanInt():
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%v is not an integer", f)
		}
		if f < math.MinInt64 || f >= math.MaxInt64 || dst.OverflowInt(int64(f)) {
			return fmt.Errorf("%v overflows %s", f, dst.Type())
		}
		dst.SetInt(int64(f))
		return nil
	case dst.CanUint():
		if f != math.Trunc(f) || math.IsInf(f, 0) || f < 0 {
			return fmt.Errorf("%v is not an unsigned integer", f)
		}
		if f >= math.MaxUint64 || dst.OverflowUint(uint64(f)) {
			return fmt.Errorf("%v overflows %s", f, dst.Type())
		}
		dst.SetUint(uint64(f))
		return nil
	}
	return fmt.Errorf("cannot assign number to %s", dst.Type())
}

// FromStruct lists the exported fields of a struct (or pointer to struct) as
// entries in declaration order, ready for ToSearchParams. Nil pointers and
// false booleans are later omitted by the encoder.
func FromStruct(v any) (Entries, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("qskema: FromStruct needs a struct, got %T", v)
	}
	rt := rv.Type()
	out := make(Entries, 0, rt.NumField())
	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		key := ResolveQueryKey(sf)
		if key == "-" {
			continue
		}
		out = append(out, Entry{Key: key, Value: rv.Field(i).Interface()})
	}
	return out, nil
}
