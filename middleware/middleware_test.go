package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/qskema"
	g "github.com/reoring/qskema/dsl"
	"github.com/reoring/qskema/middleware"
)

func searchSchema() *qskema.Schema {
	return g.SearchParams().
		Field("q", g.String().Min(1)).
		Field("page", g.Number().Int().Min(1).Optional()).
		Field("archived", g.Bool()).
		MustBuild()
}

func newRouter() http.Handler {
	r := chi.NewRouter()
	r.With(middleware.Query(searchSchema())).Get("/search", func(w http.ResponseWriter, r *http.Request) {
		rec, ok := middleware.RecordFromContext(r.Context())
		if !ok {
			http.Error(w, "missing record", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(rec)
	})
	type search struct {
		Q        string   `query:"q"`
		Page     *float64 `query:"page"`
		Archived bool     `query:"archived"`
	}
	r.With(middleware.QueryAs[search](searchSchema())).Get("/typed", func(w http.ResponseWriter, r *http.Request) {
		d, ok := middleware.DecodedFromContext[search](r.Context())
		if !ok {
			http.Error(w, "missing value", http.StatusInternalServerError)
			return
		}
		page := 0.0
		if d.Value.Page != nil {
			page = *d.Value.Page
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"q": d.Value.Q, "page": page, "archived": d.Value.Archived})
	})
	return r
}

func TestQuery_StoresRecord(t *testing.T) {
	rr := httptest.NewRecorder()
	newRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/search?q=go&page=2&archived=TRUE", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"q":"go","page":2,"archived":true}`, rr.Body.String())
}

func TestQuery_BadRequestWithIssues(t *testing.T) {
	rr := httptest.NewRecorder()
	newRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/search?page=0", nil))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body struct {
		Issues []struct {
			Code    string   `json:"code"`
			Path    []string `json:"path"`
			Message string   `json:"message"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Issues, 2)
	assert.Equal(t, []string{"q"}, body.Issues[0].Path)
	assert.Equal(t, "invalid_type", body.Issues[0].Code)
	assert.Equal(t, []string{"page"}, body.Issues[1].Path)
	assert.Equal(t, "too_small", body.Issues[1].Code)
}

func TestQueryAs_BindsStruct(t *testing.T) {
	rr := httptest.NewRecorder()
	newRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/typed?q=x&page=3", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"q":"x","page":3,"archived":false}`, rr.Body.String())
}
