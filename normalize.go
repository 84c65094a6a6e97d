package qskema

import (
	"maps"
	"math/big"
	"reflect"
)

// Normalize converts Go numeric values in rec to the representation decoding
// produces: integer and float32 values of number fields become float64, and
// integer values of bigint fields become *big.Int. Undeclared keys and other
// values are left alone. rec is returned as is when nothing changes;
// otherwise the result is a copy.
func (s *Schema) Normalize(rec Record) Record {
	out, copied := rec, false
	for name, ins := range s.reg.All() {
		v, ok := rec[name]
		if !ok || v == nil {
			continue
		}
		nv, changed := normalizeValue(ins.Kind, v)
		if !changed {
			continue
		}
		if !copied {
			out, copied = maps.Clone(rec), true
		}
		out[name] = nv
	}
	return out
}

func normalizeValue(k Kind, v any) (any, bool) {
	switch t := v.(type) {
	case float64, *big.Int:
		return v, false
	case big.Int:
		if k == KindBigInt {
			return new(big.Int).Set(&t), true
		}
		return v, false
	}
	rv := reflect.ValueOf(v)
	switch k {
	case KindNumber:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return float64(rv.Int()), true
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return float64(rv.Uint()), true
		case reflect.Float32:
			return rv.Float(), true
		}
	case KindBigInt:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return big.NewInt(rv.Int()), true
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return new(big.Int).SetUint64(rv.Uint()), true
		}
	}
	return v, false
}
