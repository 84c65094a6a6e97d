package schemafile_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/qskema"
	"github.com/reoring/qskema/schemafile"
)

func TestLoadFile_KeepsFieldOrder(t *testing.T) {
	doc, err := schemafile.LoadFile("testdata/search.yaml")
	require.NoError(t, err)

	names := make([]string, 0, len(doc.Fields))
	for _, f := range doc.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"q", "page", "sort", "debug", "id", "cursor"}, names)
	assert.Equal(t, 2, doc.Fields[0].Line)
	assert.Equal(t, "boolean", doc.Fields[3].Spec.Type)

	s, err := doc.Schema()
	require.NoError(t, err)
	assert.Equal(t, names, s.Registry().Names())

	ins, ok := s.Registry().Lookup("cursor")
	require.True(t, ok)
	assert.Equal(t, qskema.ParseInstruction{Kind: qskema.KindBigInt, Optional: true}, ins)
}

func TestSchema_ParsesQueries(t *testing.T) {
	doc, err := schemafile.LoadFile("testdata/search.yaml")
	require.NoError(t, err)
	s, err := doc.Schema()
	require.NoError(t, err)

	rec, err := s.Parse(context.Background(), "q=shoes&page=2&sort=asc&id=user-7&cursor=9007199254740993")
	require.NoError(t, err)
	assert.Equal(t, "shoes", rec["q"])
	assert.Equal(t, 2.0, rec["page"])
	assert.Equal(t, "asc", rec["sort"])
	assert.Equal(t, false, rec["debug"])
	assert.Equal(t, "user-7", rec["id"])
	want, _ := new(big.Int).SetString("9007199254740993", 10)
	assert.Equal(t, want, rec["cursor"])

	_, err = s.Parse(context.Background(), "q=&page=1.5&sort=up")
	iss, ok := qskema.AsIssues(err)
	require.True(t, ok)
	fields := make([]string, 0, len(iss))
	for _, is := range iss {
		fields = append(fields, is.Field())
	}
	assert.Equal(t, []string{"q", "page", "sort"}, fields)
}

func TestParse_Literals(t *testing.T) {
	doc, err := schemafile.Parse([]byte(`
fields:
  v: {type: literal, values: [1, 2]}
  role: {type: literal, values: [admin]}
`))
	require.NoError(t, err)
	s, err := doc.Schema()
	require.NoError(t, err)

	ins, _ := s.Registry().Lookup("v")
	assert.Equal(t, qskema.KindNumber, ins.Kind)

	rec, err := s.Parse(context.Background(), "v=2&role=admin")
	require.NoError(t, err)
	assert.Equal(t, qskema.Record{"v": 2.0, "role": "admin"}, rec)
}

func TestParse_StringFormats(t *testing.T) {
	doc, err := schemafile.Parse([]byte(`
fields:
  email: {type: string, format: email}
  code: {type: string, pattern: "^[A-Z]{3}$", startsWith: A}
`))
	require.NoError(t, err)
	s, err := doc.Schema()
	require.NoError(t, err)

	_, err = s.Parse(context.Background(), "email=a@example.com&code=ABC")
	require.NoError(t, err)

	_, err = s.Parse(context.Background(), "email=nope&code=abc")
	iss, ok := qskema.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid email address", iss[0].Message)
	assert.Len(t, iss, 3)
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"empty", ``, "empty document"},
		{"not a mapping", `- a`, "top level must be a mapping"},
		{"no fields", `other: 1`, `missing "fields" mapping`},
		{"fields list", `fields: [a]`, `"fields" must be a mapping`},
		{"unknown key", "fields:\n  a: {type: string, mni: 1}", `unknown key "mni"`},
		{"missing type", "fields:\n  a: {min: 1}", `missing "type"`},
		{"bad value", "fields:\n  a: [1]", "field must be a mapping or a type name"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := schemafile.Parse([]byte(tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestParse_DuplicateKey(t *testing.T) {
	_, err := schemafile.Parse([]byte("fields:\n  a: string\n  b: number\n  a: boolean\n"))
	var dup *schemafile.DuplicateKeyError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "a", dup.Key)
	assert.Equal(t, 2, dup.FirstLine)
	assert.Equal(t, 4, dup.Line)
	assert.EqualError(t, err, `duplicate YAML key "a" at 4:3 (first at 2:3)`)
}

func TestSchema_BuildErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"unknown type", "fields:\n  a: date", `unknown type "date"`},
		{"unknown format", "fields:\n  a: {type: string, format: ipv4}", `unknown string format "ipv4"`},
		{"bad pattern", "fields:\n  a: {type: string, pattern: \"(\"}", "pattern:"},
		{"enum of numbers", "fields:\n  a: {type: enum, values: [1]}", "is not a string"},
		{"literal without values", "fields:\n  a: {type: literal}", `literal needs "values"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := schemafile.Parse([]byte(tc.src))
			require.NoError(t, err)
			_, err = doc.Schema()
			var ferr *schemafile.Error
			require.True(t, errors.As(err, &ferr), "got %v", err)
			assert.Equal(t, "a", ferr.Field)
			assert.Equal(t, 2, ferr.Line)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
