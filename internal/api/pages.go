package api

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ignite/htmx-demo/internal/csrf"
	"github.com/ignite/htmx-demo/internal/htmx"
	"github.com/ignite/htmx-demo/internal/pkg/httputil"
	"github.com/ignite/htmx-demo/internal/pkg/logger"
	"github.com/ignite/htmx-demo/internal/render"
)

const siteTitle = "htmx demo"

// pages renders templates with the bindings every page shares.
type pages struct {
	renderer *render.Renderer
	debug    bool
}

// bindings returns the shared template context merged with extra.
func (p *pages) bindings(r *http.Request, extra map[string]any) map[string]any {
	b := map[string]any{
		"title":        siteTitle,
		"csrf_token":   csrf.Token(r),
		"debug":        p.debug,
		"htmx":         htmx.FromRequest(r).Bindings(),
		"request_path": r.URL.Path,
		"method":       r.Method,
	}
	for k, v := range extra {
		b[k] = v
	}
	return b
}

// layoutFor picks the layout for error and status pages: htmx gets the bare
// fragment.
func layoutFor(r *http.Request) string {
	if htmx.IsHTMX(r) {
		return render.LayoutNone
	}
	return render.LayoutBase
}

func (p *pages) render(w http.ResponseWriter, r *http.Request, status int, name, layout string, extra map[string]any) {
	if err := p.renderer.Render(w, status, name, layout, p.bindings(r, extra)); err != nil {
		p.internalError(w, r, err)
	}
}

// fragment renders name to a string for embedding in another template.
func (p *pages) fragment(r *http.Request, name string, extra map[string]any) (string, error) {
	return p.renderer.RenderString(name, p.bindings(r, extra))
}

func (p *pages) notFound(w http.ResponseWriter, r *http.Request, detail string) {
	logger.Debug("not found", "path", r.URL.Path, "detail", detail)
	p.render(w, r, http.StatusNotFound, "404", layoutFor(r), map[string]any{
		"title":  "Not Found",
		"detail": detail,
	})
}

func (p *pages) serverError(w http.ResponseWriter, r *http.Request, errText, stack string) {
	err := p.renderer.Render(w, http.StatusInternalServerError, "500", layoutFor(r), p.bindings(r, map[string]any{
		"title":      "Server Error",
		"error":      errText,
		"stack":      stack,
		"request_id": middleware.GetReqID(r.Context()),
	}))
	if err != nil {
		httputil.InternalError(w, r, err)
	}
}

// internalError logs err and renders the 500 page, with err shown only in
// debug mode.
func (p *pages) internalError(w http.ResponseWriter, r *http.Request, err error) {
	logger.Error("request failed",
		"error", err.Error(),
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
	)
	errText := ""
	if p.debug {
		errText = err.Error()
	}
	p.serverError(w, r, errText, "")
}

// csrfFailure is the csrf.Protector failure handler.
func (p *pages) csrfFailure(w http.ResponseWriter, r *http.Request) {
	reason := ""
	if f, ok := csrf.FailureFromRequest(r); ok {
		reason = f.Reason
	}
	p.render(w, r, http.StatusForbidden, "403_csrf", layoutFor(r), map[string]any{
		"title":  "403 Forbidden",
		"reason": reason,
	})
}
