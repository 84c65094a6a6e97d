package qskema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listQuery struct {
	Query string   `query:"q"`
	Page  *int     `query:"page"`
	Debug bool     `query:"debug"`
	Extra string   `query:"-"`
	Tags  []string `query:"-"`
}

func TestParseAs(t *testing.T) {
	s := testSchema(t)
	got, err := ParseAs[listQuery](context.Background(), s, "q=x&page=4&debug=true")
	require.NoError(t, err)
	require.NotNil(t, got.Page)
	assert.Equal(t, listQuery{Query: "x", Page: got.Page, Debug: true}, got)
	assert.Equal(t, 4, *got.Page)

	_, err = ParseAs[listQuery](context.Background(), s, "page=4")
	require.Error(t, err)
}

func TestEncodeStruct(t *testing.T) {
	page := 2
	p, err := EncodeStruct(testSchema(t), listQuery{Query: "a b", Page: &page})
	require.NoError(t, err)
	assert.Equal(t, "q=a+b&page=2", p.String())

	_, err = EncodeStruct(testSchema(t), 5)
	require.Error(t, err)
}

func TestIs(t *testing.T) {
	s := testSchema(t)
	assert.True(t, Is(context.Background(), s, "q="))
	assert.False(t, Is(context.Background(), s, "page=1"))
}

func TestIssues(t *testing.T) {
	iss := Issues{
		IssueAt("a", CodeInvalidType, "m1", nil),
		IssueAt("b/c", CodeTooSmall, "m2", nil),
		IssueAt("a", CodeTooBig, "m3", nil),
		{Code: CodeCustom, Path: []string{}},
	}
	assert.Equal(t, "invalid_type at /a; too_small at /b~1c; too_big at /a; ... (total 4)", iss.Error())

	by := iss.ByField()
	assert.Len(t, by["a"], 2)
	assert.Len(t, by[""], 1)

	re := iss[:1].Rebase("outer")
	assert.Equal(t, []string{"outer", "a"}, re[0].Path)
	assert.Equal(t, []string{"a"}, iss[0].Path, "rebase copies")

	var err error = iss
	got, ok := AsIssues(err)
	assert.True(t, ok)
	assert.Len(t, got, 4)
	_, ok = AsIssues(nil)
	assert.False(t, ok)
	assert.Equal(t, "", Issues{}.Error())
}
