package qskema

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requiredEngine rejects undefined values of required fields and keeps only
// declared keys.
var requiredEngine = EngineFunc(func(fields []Field) (Validator, error) {
	return ValidatorFunc(func(ctx context.Context, rec Record) (Record, error) {
		out := Record{}
		var iss Issues
		for _, f := range fields {
			ins, err := Compile(f.Schema)
			if err != nil {
				return nil, err
			}
			if rec[f.Name] == nil && !ins.Optional {
				iss = AppendIssues(iss, IssueAt(f.Name, CodeInvalidType, "required", nil))
				if IsFailFast(ctx) {
					return nil, iss
				}
				continue
			}
			out[f.Name] = rec[f.Name]
		}
		if len(iss) > 0 {
			return nil, iss
		}
		return out, nil
	}), nil
})

func testSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := New(requiredEngine,
		F("q", sString),
		F("page", opt(sNumber)),
		F("debug", sBool),
	)
	require.NoError(t, err)
	return s
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil, F("q", sString))
	require.Error(t, err)

	_, err = New(requiredEngine, F("a", shape{Tag: "array"}))
	require.ErrorIs(t, err, ErrUnsupportedShape)

	boom := errors.New("boom")
	_, err = New(EngineFunc(func([]Field) (Validator, error) { return nil, boom }), F("q", sString))
	require.ErrorIs(t, err, boom)

	assert.Panics(t, func() { MustNew(nil) })
}

func TestSchema_Parse(t *testing.T) {
	s := testSchema(t)
	ctx := context.Background()

	rec, err := s.Parse(ctx, "q=x&page=2&other=1")
	require.NoError(t, err)
	assert.Equal(t, Record{"q": "x", "page": 2.0, "debug": false}, rec)

	_, err = s.Parse(ctx, "page=2")
	iss, ok := AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, []string{"q"}, iss[0].Path)

	assert.Equal(t, []string{"q", "page", "debug"}, s.Registry().Names())
	assert.Len(t, s.Fields(), 3)
}

func TestSchema_Preprocess(t *testing.T) {
	rec, err := testSchema(t).Preprocess("page=abc")
	require.NoError(t, err)
	assert.Equal(t, Record{"q": nil, "page": nil, "debug": false}, rec)
}

func TestSchema_ParseWithMeta(t *testing.T) {
	d, err := testSchema(t).ParseWithMeta(context.Background(), "q=a&q=b")
	require.NoError(t, err)
	assert.Equal(t, "b", d.Value["q"])
	assert.True(t, d.Presence["q"].Has(PresenceDuplicate))

	d, err = testSchema(t).ParseWithMeta(context.Background(), "")
	require.Error(t, err)
	assert.Nil(t, d.Value)
	assert.Equal(t, PresenceDefaulted, d.Presence["debug"])
}

func TestSchema_SafeParse(t *testing.T) {
	s := testSchema(t)
	ctx := context.Background()

	res := s.SafeParse(ctx, "q=x")
	assert.True(t, res.Success)
	assert.Equal(t, "x", res.Data["q"])

	res = s.SafeParse(ctx, "")
	assert.False(t, res.Success)
	require.Len(t, res.Issues, 1)

	res = s.SafeParse(ctx, 3.14)
	assert.False(t, res.Success)
	assert.Equal(t, CodeParseError, res.Issues[0].Code)

	failing := MustNew(EngineFunc(func([]Field) (Validator, error) {
		return ValidatorFunc(func(context.Context, Record) (Record, error) { return nil, errors.New("engine down") }), nil
	}), F("q", sString))
	res = failing.SafeParse(ctx, "q=x")
	require.Len(t, res.Issues, 1)
	assert.Equal(t, CodeCustom, res.Issues[0].Code)
	assert.Equal(t, "engine down", res.Issues[0].Message)
}

func TestSchema_EncodeUsesDeclaredOrder(t *testing.T) {
	s := testSchema(t)
	p := s.Encode(Record{"zeta": "z", "debug": true, "alpha": "a", "q": "x", "page": nil})
	assert.Equal(t, "q=x&debug=true&alpha=a&zeta=z", p.String())

	p = s.EncodeOnto(ParseParams("page=5&keep=1&debug=true"), Record{"page": 1.0, "debug": false})
	assert.Equal(t, "page=1&keep=1", p.String())
}

func TestSchema_RoundTrip(t *testing.T) {
	s := testSchema(t)
	ctx := context.Background()
	rec, err := s.Parse(ctx, "debug=true&page=1e21&q=a+b%26c")
	require.NoError(t, err)

	again, err := s.Parse(ctx, s.Encode(rec).String())
	require.NoError(t, err)
	assert.Equal(t, rec, again)
}

func TestSchema_FailFast(t *testing.T) {
	s, err := New(requiredEngine, F("a", sString), F("b", sString))
	require.NoError(t, err)

	_, err = s.Parse(context.Background(), "")
	iss, _ := AsIssues(err)
	assert.Len(t, iss, 2)

	_, err = s.Parse(WithFailFast(context.Background(), true), "")
	iss, _ = AsIssues(err)
	assert.Len(t, iss, 1)
	assert.False(t, IsFailFast(context.Background()))
}
