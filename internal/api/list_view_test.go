package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/htmx-demo/internal/render"
)

func newTestListView(t *testing.T, items []string, paginateBy int) *ListView[string] {
	t.Helper()
	renderer, err := render.NewFromFS(fstest.MapFS{
		"_base.liquid":   {Data: []byte("BASE[{{ content }}]")},
		"404.liquid":     {Data: []byte("missing: {{ detail }}")},
		"500.liquid":     {Data: []byte("boom: {{ error }}")},
		"full.liquid":    {Data: []byte("full({{ partial }})")},
		"partial.liquid": {Data: []byte("{% for o in object_list %}{{ o.v }};{% endfor %}paginated={{ is_paginated }}")},
	})
	require.NoError(t, err)

	return &ListView[string]{
		Queryset:            func() []string { return items },
		Bind:                func(s string) map[string]any { return map[string]any{"v": s} },
		TemplateName:        "full",
		PartialTemplateName: "partial",
		PaginateBy:          paginateBy,
		pages:               &pages{renderer: renderer, debug: true},
	}
}

func serveList(v http.Handler, target string, htmxRequest bool) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	if htmxRequest {
		r.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	v.ServeHTTP(rec, r)
	return rec
}

func TestListViewFullAndPartial(t *testing.T) {
	v := newTestListView(t, []string{"a", "b", "c"}, 2)

	rec := serveList(v, "/", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "BASE[full(a;b;paginated=true)]", rec.Body.String())

	rec = serveList(v, "/?page=2", true)
	assert.Equal(t, "c;paginated=true", rec.Body.String())
}

func TestListViewWithoutPagination(t *testing.T) {
	v := newTestListView(t, []string{"a", "b", "c"}, 0)
	rec := serveList(v, "/?page=9", true)
	assert.Equal(t, "a;b;c;paginated=false", rec.Body.String())
}

func TestListViewCustomPageKwarg(t *testing.T) {
	v := newTestListView(t, []string{"a", "b", "c"}, 1)
	v.PageKwarg = "p"
	rec := serveList(v, "/?p=last", true)
	assert.Equal(t, "c;paginated=true", rec.Body.String())
}

func TestListViewStrictPages(t *testing.T) {
	v := newTestListView(t, []string{"a", "b", "c"}, 2)

	rec := serveList(v, "/?page=x", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "missing: Page is not 'last', nor can it be converted to an int.", rec.Body.String())

	rec = serveList(v, "/?page=3", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "missing: Invalid page (3): That page contains no results", rec.Body.String())

	rec = serveList(v, "/?page=0", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "missing: Invalid page (0): That page number is less than 1", rec.Body.String())

	rec = serveList(v, "/?page=99999999999999999999", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "missing: Invalid page (99999999999999999999): That page contains no results", rec.Body.String())
}

func TestListViewContextHook(t *testing.T) {
	v := newTestListView(t, []string{"a"}, 1)
	v.ContextHook = func(r *http.Request, ctx map[string]any) error {
		_, ok := ctx["page_obj"]
		assert.True(t, ok)
		ctx["object_list"] = []map[string]any{{"v": "hooked"}}
		return nil
	}
	rec := serveList(v, "/", true)
	assert.Equal(t, "hooked;paginated=false", rec.Body.String())

	v.ContextHook = func(r *http.Request, ctx map[string]any) error {
		return errors.New("hook failed")
	}
	rec = serveList(v, "/", true)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "boom: hook failed", rec.Body.String())
}
