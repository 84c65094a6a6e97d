package qskema

import (
	"fmt"
	"iter"
	"maps"
	"net/url"
	"slices"
)

// Record is a decoded parameter set. Values are string, float64, bool,
// *big.Int, or nil for undefined.
type Record map[string]any

// All iterates the record in sorted key order. Go maps carry no order, so
// sorting keeps encoded output deterministic.
func (r Record) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range slices.Sorted(maps.Keys(r)) {
			if !yield(k, r[k]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy.
func (r Record) Clone() Record { return maps.Clone(r) }

// Decode converts input into a record holding one entry per registry field.
//
// Accepted inputs: string (with or without a leading '?'), []byte, *Params,
// url.Values, map[string][]string, map[string]string and *url.URL. When a key
// repeats, the last occurrence wins. Values that cannot be coerced become nil;
// the only error is an unsupported input type.
func Decode(reg *Registry, input any) (Record, error) {
	p, err := AsParams(input)
	if err != nil {
		return nil, err
	}
	rec := make(Record, reg.Len())
	for name, ins := range reg.All() {
		raw, ok := p.Last(name)
		rec[name] = Coerce(ins, raw, ok)
	}
	return rec, nil
}

// DecodeWithMeta is Decode plus per-field presence flags.
func DecodeWithMeta(reg *Registry, input any) (Decoded[Record], error) {
	p, err := AsParams(input)
	if err != nil {
		return Decoded[Record]{}, err
	}
	rec := make(Record, reg.Len())
	pm := make(PresenceMap, reg.Len())
	for name, ins := range reg.All() {
		all := p.GetAll(name)
		present := len(all) > 0
		var raw string
		if present {
			raw = all[len(all)-1]
		}
		v := Coerce(ins, raw, present)
		rec[name] = v

		var flags Presence
		if present {
			flags |= PresenceSeen
			if len(all) > 1 {
				flags |= PresenceDuplicate
			}
			if raw == "" {
				flags |= PresenceEmpty
			}
			if v == nil {
				flags |= PresenceCoerceFailed
			}
		} else if ins.Kind == KindBoolean {
			flags |= PresenceDefaulted
		}
		if flags != 0 {
			pm[name] = flags
		}
	}
	return Decoded[Record]{Value: rec, Presence: pm}, nil
}

// AsParams normalizes the inputs accepted by Decode into a *Params. Map inputs
// are read in sorted key order.
func AsParams(input any) (*Params, error) {
	switch in := input.(type) {
	case *Params:
		if in == nil {
			return NewParams(), nil
		}
		return in, nil
	case string:
		return ParseParams(in), nil
	case []byte:
		return ParseParams(string(in)), nil
	case url.Values:
		return ParamsFromValues(in), nil
	case map[string][]string:
		return ParamsFromValues(url.Values(in)), nil
	case map[string]string:
		p := NewParams()
		for _, k := range slices.Sorted(maps.Keys(in)) {
			p.Append(k, in[k])
		}
		return p, nil
	case *url.URL:
		if in == nil {
			return NewParams(), nil
		}
		return ParseParams(in.RawQuery), nil
	case nil:
		return NewParams(), nil
	}
	return nil, Issues{{
		Code:    CodeParseError,
		Path:    []string{},
		Message: fmt.Sprintf("unsupported search params input of type %T", input),
		Params:  map[string]any{"type": fmt.Sprintf("%T", input)},
	}}
}
