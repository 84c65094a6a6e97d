package qskema

// Kind is the primitive a raw parameter value is coerced into.
type Kind uint8

const (
	// KindUnresolved is the zero value; the compiler never hands it to the decoder.
	KindUnresolved Kind = iota
	KindString
	KindNumber
	KindBoolean
	KindBigInt
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindBigInt:
		return "bigint"
	default:
		return "unresolved"
	}
}

// ParseInstruction is the minimal summary of a field schema needed to coerce
// its raw value. Optional does not change coercion; it only tells the engine
// whether undefined is acceptable.
type ParseInstruction struct {
	Kind     Kind
	Optional bool
}

// ShapeTag names the shape of a field schema as reported by its engine.
type ShapeTag string

const (
	ShapeString          ShapeTag = "string"
	ShapeNumber          ShapeTag = "number"
	ShapeBoolean         ShapeTag = "boolean"
	ShapeBigInt          ShapeTag = "bigint"
	ShapeLiteral         ShapeTag = "literal"
	ShapeEnum            ShapeTag = "enum"
	ShapeTemplateLiteral ShapeTag = "template_literal"
	ShapeOptional        ShapeTag = "optional"
)

// Shape describes a field schema: its tag, the wrapped schema for optional
// shapes, the declared values for literal and enum shapes, and any engine
// constraints (informational only; the codec never enforces them).
type Shape struct {
	Tag         ShapeTag
	Inner       FieldSchema
	Values      []any
	Constraints map[string]any
}

// FieldSchema is an engine-owned declaration of one parameter.
type FieldSchema interface {
	Shape() Shape
}

// Field pairs a parameter name with its schema.
type Field struct {
	Name   string
	Schema FieldSchema
}

// F is shorthand for Field{Name: name, Schema: s}.
func F(name string, s FieldSchema) Field { return Field{Name: name, Schema: s} }
