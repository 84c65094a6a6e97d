package codec_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/qskema"
	"github.com/reoring/qskema/codec"
	g "github.com/reoring/qskema/dsl"
)

func listSchema() *qskema.Schema {
	return g.SearchParams().
		Field("q", g.String()).
		Field("page", g.Number().Int().Min(1)).
		Field("sort", g.Enum("asc", "desc").Optional()).
		Field("archived", g.Bool()).
		MustBuild()
}

func TestQueryString_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := codec.QueryString(listSchema())

	rec, err := c.Decode(ctx, "?q=go+lang&page=2&sort=desc")
	require.NoError(t, err)
	assert.Equal(t, qskema.Record{"q": "go lang", "page": 2.0, "sort": "desc", "archived": false}, rec)

	out, err := c.Encode(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, "q=go+lang&page=2&sort=desc", out)
}

func TestQueryString_EncodeValidatesFirst(t *testing.T) {
	c := codec.QueryString(listSchema())
	_, err := c.Encode(context.Background(), qskema.Record{"q": "x", "page": 0.0, "archived": false})
	iss, ok := qskema.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, "page", iss[0].Field())
}

func TestParams_DecodeWithMeta(t *testing.T) {
	c := codec.Params(listSchema())
	d, err := c.DecodeWithMeta(context.Background(), qskema.ParseParams("q=a&page=1&page=3"))
	require.NoError(t, err)
	assert.Equal(t, 3.0, d.Value["page"])
	assert.True(t, d.Presence["page"].Has(qskema.PresenceDuplicate))
}

func TestMerge_KeepsUnrelatedParams(t *testing.T) {
	base := qskema.ParseParams("utm=mail&page=5&q=old")
	out, err := codec.Merge(context.Background(), listSchema(), base, qskema.Record{"q": "new", "page": 1.0, "archived": false})
	require.NoError(t, err)
	assert.Equal(t, "utm=mail&page=1&q=new", out.String())
	assert.Equal(t, "utm=mail&page=5&q=old", base.String())
}

type listQuery struct {
	Q        string  `query:"q"`
	Page     int     `query:"page"`
	Sort     *string `query:"sort"`
	Archived bool    `query:"archived"`
}

func TestStruct_Codec(t *testing.T) {
	ctx := context.Background()
	c := codec.Struct[listQuery](listSchema())

	v, err := c.Decode(ctx, "q=x&page=4&archived=true")
	require.NoError(t, err)
	assert.Equal(t, listQuery{Q: "x", Page: 4, Archived: true}, v)

	desc := "desc"
	s, err := c.Encode(ctx, listQuery{Q: "y", Page: 2, Sort: &desc})
	require.NoError(t, err)
	assert.Equal(t, "q=y&page=2&sort=desc", s)

	_, err = c.Encode(ctx, listQuery{Q: "y", Page: 0})
	assert.Error(t, err)
}

func TestQueryString_EncodeAcceptsGoIntegers(t *testing.T) {
	ctx := context.Background()
	c := codec.QueryString(listSchema())

	out, err := c.Encode(ctx, qskema.Record{"q": "x", "page": 1, "archived": false})
	require.NoError(t, err)
	assert.Equal(t, "q=x&page=1", out)

	_, err = c.Encode(ctx, qskema.Record{"q": "x", "page": int64(0), "archived": false})
	iss, ok := qskema.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, "page", iss[0].Field())

	merged, err := codec.Merge(ctx, listSchema(), qskema.ParseParams("page=9"), qskema.Record{"q": "y", "page": uint8(3), "archived": true})
	require.NoError(t, err)
	assert.Equal(t, "page=3&q=y&archived=true", merged.String())
}
