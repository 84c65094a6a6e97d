package jsonschema

import (
	"math/big"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func objectSchema() *Schema {
	return &Schema{
		SchemaURI: Draft2020,
		Type:      "object",
		Properties: map[string]*Schema{
			"q":    {Type: "string", MinLength: ptr(1)},
			"page": {Type: "integer", Minimum: ptr(1.0)},
			"id":   {Type: "integer"},
			"role": {Enum: []any{"admin", "user"}},
		},
		Required:             []string{"q"},
		AdditionalProperties: false,
	}
}

func TestSchema_MarshalOmitsEmpty(t *testing.T) {
	raw, err := json.Marshal(&Schema{Type: "string", MinLength: ptr(0)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"string","minLength":0}`, string(raw))
}

func TestCompiled_Validate(t *testing.T) {
	c, err := Compile(objectSchema())
	require.NoError(t, err)

	big1, _ := new(big.Int).SetString("9007199254740993", 10)
	require.NoError(t, c.Validate(map[string]any{"q": "x", "page": 2.0, "id": big1, "role": nil}))

	cases := map[string]map[string]any{
		"missing required": {"page": 1.0},
		"too short":        {"q": ""},
		"fraction":         {"q": "x", "page": 1.5},
		"below minimum":    {"q": "x", "page": 0.0},
		"enum":             {"q": "x", "role": "root"},
		"additional":       {"q": "x", "other": "y"},
	}
	for name, obj := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, c.Validate(obj))
		})
	}
}

func TestCompile_RejectsInvalidSchema(t *testing.T) {
	_, err := Compile(&Schema{Type: "object", Pattern: "("})
	require.Error(t, err)
}
