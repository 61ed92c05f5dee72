// Package render turns the embedded Liquid templates into HTML pages and
// htmx fragments.
//
// Liquid has no template inheritance, so a page is rendered in two passes:
// the named template first, then a layout that receives the result as
// "content". Layouts are "_base" (the full document) and "_partial" (what an
// htmx swap needs).
package render

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/osteele/liquid"

	"github.com/ignite/htmx-demo/internal/pkg/httputil"
)

const (
	LayoutBase    = "_base"
	LayoutPartial = "_partial"
	// LayoutNone renders the template on its own.
	LayoutNone = ""
)

const templateExt = ".liquid"

//go:embed templates/*.liquid
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the stylesheet and script tree served under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Renderer holds the parsed templates. It is read-only after New returns and
// safe for concurrent use.
type Renderer struct {
	engine    *liquid.Engine
	templates map[string]*liquid.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("templates dir: %w", err)
	}
	return NewFromFS(sub)
}

// NewFromFS parses every *.liquid file at the root of fsys. A template is
// named after its file without the extension.
func NewFromFS(fsys fs.FS) (*Renderer, error) {
	r := &Renderer{
		engine:    liquid.NewEngine(),
		templates: make(map[string]*liquid.Template),
	}
	registerFilters(r.engine)

	files, err := fs.Glob(fsys, "*"+templateExt)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	for _, file := range files {
		src, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", file, err)
		}
		tpl, perr := r.engine.ParseTemplate(src)
		if perr != nil {
			return nil, fmt.Errorf("parse template %s: %w", file, perr)
		}
		r.templates[strings.TrimSuffix(path.Base(file), templateExt)] = tpl
	}
	return r, nil
}

// Has reports whether a template called name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Names lists the loaded templates in order.
func (r *Renderer) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RenderString renders one template without a layout.
func (r *Renderer) RenderString(name string, bindings map[string]any) (string, error) {
	tpl, ok := r.templates[name]
	if !ok {
		return "", fmt.Errorf("template %q not found", name)
	}
	out, err := tpl.RenderString(bindings)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return out, nil
}

// Page renders name and wraps it into layout. LayoutNone skips the wrapping.
func (r *Renderer) Page(name, layout string, bindings map[string]any) (string, error) {
	body, err := r.RenderString(name, bindings)
	if err != nil {
		return "", err
	}
	if layout == LayoutNone {
		return body, nil
	}

	outer := make(map[string]any, len(bindings)+1)
	for k, v := range bindings {
		outer[k] = v
	}
	outer["content"] = body
	return r.RenderString(layout, outer)
}

// Render writes the page to w with status. Nothing is written when rendering
// fails, so the caller can still send an error page.
func (r *Renderer) Render(w http.ResponseWriter, status int, name, layout string, bindings map[string]any) error {
	out, err := r.Page(name, layout, bindings)
	if err != nil {
		return err
	}
	httputil.HTML(w, status, out)
	return nil
}
