package render

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New()
	require.NoError(t, err)
	return r
}

func TestNewLoadsEmbeddedTemplates(t *testing.T) {
	r := newTestRenderer(t)

	for _, name := range []string{
		LayoutBase, LayoutPartial, "_pagination",
		"index", "csrf-demo", "csrf-demo-checker",
		"error-demo", "middleware-tester", "middleware-tester-table",
		"partial-rendering", "cbv-full-rendering", "cbv-partial-rendering",
		"403_csrf", "404", "500",
	} {
		assert.True(t, r.Has(name), name)
	}
	assert.False(t, r.Has("missing"))
}

func TestNewFromFSParseError(t *testing.T) {
	fsys := fstest.MapFS{
		"broken.liquid": {Data: []byte("{% if x %}never closed")},
	}
	_, err := NewFromFS(fsys)
	assert.Error(t, err)
}

func TestRenderStringMissingTemplate(t *testing.T) {
	r := newTestRenderer(t)
	_, err := r.RenderString("nope", nil)
	assert.ErrorContains(t, err, `template "nope" not found`)
}

func TestPageLayouts(t *testing.T) {
	fsys := fstest.MapFS{
		"_base.liquid":    {Data: []byte("<html>{{ title }}|{{ content }}</html>")},
		"_partial.liquid": {Data: []byte("<title>{{ title }}</title>{{ content }}")},
		"hello.liquid":    {Data: []byte("hello {{ name }}")},
	}
	r, err := NewFromFS(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"_base", "_partial", "hello"}, r.Names())

	b := map[string]any{"title": "T", "name": "world"}

	out, err := r.Page("hello", LayoutBase, b)
	require.NoError(t, err)
	assert.Equal(t, "<html>T|hello world</html>", out)

	out, err = r.Page("hello", LayoutPartial, b)
	require.NoError(t, err)
	assert.Equal(t, "<title>T</title>hello world", out)

	out, err = r.Page("hello", LayoutNone, b)
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)

	_, hasContent := b["content"]
	assert.False(t, hasContent, "caller bindings are not modified")
}

func TestRenderWritesHTML(t *testing.T) {
	r := newTestRenderer(t)
	rec := httptest.NewRecorder()

	err := r.Render(rec, http.StatusNotFound, "404", LayoutBase, map[string]any{"title": "Not Found"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<!DOCTYPE html>")
	assert.Contains(t, rec.Body.String(), "<h1>Not Found</h1>")
}

func TestRenderFailureWritesNothing(t *testing.T) {
	r := newTestRenderer(t)
	rec := httptest.NewRecorder()

	err := r.Render(rec, http.StatusOK, "missing", LayoutBase, nil)
	assert.Error(t, err)
	assert.Empty(t, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Content-Type"))
}

func TestBaseLayoutCarriesCSRFHeader(t *testing.T) {
	r := newTestRenderer(t)
	out, err := r.Page("index", LayoutBase, map[string]any{"csrf_token": "tok123"})
	require.NoError(t, err)
	assert.Contains(t, out, `hx-headers='{"X-CSRFToken": "tok123"}'`)
	assert.NotContains(t, out, "debug.js")

	out, err = r.Page("index", LayoutBase, map[string]any{"debug": true})
	require.NoError(t, err)
	assert.Contains(t, out, "/static/debug.js")
}

func TestCheckerEscapesInput(t *testing.T) {
	r := newTestRenderer(t)
	out, err := r.RenderString("csrf-demo-checker", map[string]any{
		"form": map[string]any{
			"value":    `<script>alert(1)</script>`,
			"is_valid": false,
			"errors":   []string{"Enter a whole number."},
		},
		"number_is_odd": false,
	})
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "Enter a whole number.")
}

func TestStaticFiles(t *testing.T) {
	css, err := fs.ReadFile(Static(), "style.css")
	require.NoError(t, err)
	assert.NotEmpty(t, css)

	_, err = fs.Stat(Static(), "debug.js")
	assert.NoError(t, err)
}
