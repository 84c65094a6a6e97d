package qskema

import (
	"fmt"
	"math/big"
	"reflect"

	"go.uber.org/zap"
)

// Compile reduces a field schema to its parse instruction.
//
// Optional shapes are unwrapped exactly once; the wrapped schema must be a
// primitive, literal, enum or template-literal shape. Every other shape is a
// configuration error wrapping ErrUnsupportedShape.
func Compile(fs FieldSchema) (ParseInstruction, error) {
	return compileNamed("", fs)
}

func compileNamed(name string, fs FieldSchema) (ParseInstruction, error) {
	if fs == nil {
		return ParseInstruction{}, &SchemaError{Field: name, Reason: "missing schema", Err: ErrInvalidField}
	}
	sh := fs.Shape()
	if sh.Tag != ShapeOptional {
		k, err := primitiveKind(name, sh)
		if err != nil {
			return ParseInstruction{}, err
		}
		return ParseInstruction{Kind: k}, nil
	}
	if sh.Inner == nil {
		return ParseInstruction{}, unsupported(name, sh.Tag, "optional without inner schema")
	}
	inner := sh.Inner.Shape()
	if inner.Tag == ShapeOptional {
		return ParseInstruction{}, unsupported(name, inner.Tag, "nested optional is not supported")
	}
	k, err := primitiveKind(name, inner)
	if err != nil {
		return ParseInstruction{}, err
	}
	return ParseInstruction{Kind: k, Optional: true}, nil
}

func primitiveKind(name string, sh Shape) (Kind, error) {
	switch sh.Tag {
	case ShapeString, ShapeTemplateLiteral, ShapeEnum:
		return KindString, nil
	case ShapeNumber:
		return KindNumber, nil
	case ShapeBoolean:
		return KindBoolean, nil
	case ShapeBigInt:
		return KindBigInt, nil
	case ShapeLiteral:
		if len(sh.Values) == 0 {
			return KindUnresolved, unsupported(name, sh.Tag, "literal without values")
		}
		if k := literalKind(sh.Values[0]); k != KindUnresolved {
			return k, nil
		}
		return KindUnresolved, unsupported(name, sh.Tag, fmt.Sprintf("literal of type %T", sh.Values[0]))
	}
	return KindUnresolved, unsupported(name, sh.Tag, "shape is not supported by search params")
}

// literalKind maps the Go type of a literal value to the kind it decodes as.
func literalKind(v any) Kind {
	switch v.(type) {
	case string:
		return KindString
	case bool:
		return KindBoolean
	case *big.Int, big.Int:
		return KindBigInt
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return KindNumber
	case reflect.String:
		return KindString
	case reflect.Bool:
		return KindBoolean
	}
	return KindUnresolved
}

func unsupported(name string, tag ShapeTag, reason string) error {
	Logger().Warn("field schema rejected",
		zap.String("field", name),
		zap.String("shape", string(tag)),
		zap.String("reason", reason))
	return &SchemaError{Field: name, Tag: tag, Reason: reason, Err: ErrUnsupportedShape}
}
