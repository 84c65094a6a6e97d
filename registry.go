package qskema

import (
	"errors"
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Registry is the ordered field name -> parse instruction mapping compiled
// once per schema. It is never mutated after NewRegistry returns, so it is
// safe for concurrent readers.
type Registry struct {
	om *orderedmap.OrderedMap[string, ParseInstruction]
}

// NewRegistry compiles every field in declaration order. All configuration
// problems are reported together via errors.Join.
func NewRegistry(fields []Field) (*Registry, error) {
	om := orderedmap.New[string, ParseInstruction](len(fields))
	var errs []error
	for _, f := range fields {
		if f.Name == "" {
			errs = append(errs, &SchemaError{Reason: "empty field name", Err: ErrInvalidField})
			continue
		}
		if _, dup := om.Get(f.Name); dup {
			errs = append(errs, &SchemaError{Field: f.Name, Reason: "declared more than once", Err: ErrInvalidField})
			continue
		}
		ins, err := compileNamed(f.Name, f.Schema)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		om.Set(f.Name, ins)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &Registry{om: om}, nil
}

// Len returns the number of fields.
func (r *Registry) Len() int { return r.om.Len() }

// Lookup returns the instruction for name.
func (r *Registry) Lookup(name string) (ParseInstruction, bool) { return r.om.Get(name) }

// Names returns the field names in declaration order.
func (r *Registry) Names() []string {
	out := make([]string, 0, r.om.Len())
	for pair := r.om.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// All iterates the fields in declaration order.
func (r *Registry) All() iter.Seq2[string, ParseInstruction] {
	return func(yield func(string, ParseInstruction) bool) {
		for pair := r.om.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}
