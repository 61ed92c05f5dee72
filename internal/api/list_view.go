package api

import (
	"errors"
	"net/http"

	"github.com/ignite/htmx-demo/internal/htmx"
	"github.com/ignite/htmx-demo/internal/paginate"
	"github.com/ignite/htmx-demo/internal/render"
)

// ListView is a reusable paginated list page. Full page loads render
// TemplateName inside the base layout with the rendered PartialTemplateName
// available as "partial"; htmx requests get PartialTemplateName alone.
//
// The template context holds "object_list", "is_paginated", "paginator" and
// "page_obj". ContextHook may rewrite it before rendering.
type ListView[T any] struct {
	Queryset            func() []T
	Bind                func(T) map[string]any
	TemplateName        string
	PartialTemplateName string
	// PaginateBy of zero lists everything on one page.
	PaginateBy int
	// PageKwarg is the query parameter holding the page number, "page" if
	// empty.
	PageKwarg   string
	ContextHook func(r *http.Request, ctx map[string]any) error

	pages *pages
}

func (v *ListView[T]) pageKwarg() string {
	if v.PageKwarg == "" {
		return "page"
	}
	return v.PageKwarg
}

// contextData builds the template context. Page lookup is strict: a bad
// page number is an error.
func (v *ListView[T]) contextData(r *http.Request) (map[string]any, error) {
	items := v.Queryset()
	ctx := map[string]any{
		"is_paginated": false,
		"paginator":    nil,
		"page_obj":     nil,
	}

	if v.PaginateBy <= 0 {
		list := make([]map[string]any, 0, len(items))
		for _, item := range items {
			list = append(list, v.Bind(item))
		}
		ctx["object_list"] = list
		return ctx, nil
	}

	raw := r.URL.Query().Get(v.pageKwarg())
	if raw == "" {
		raw = "1"
	}
	paginator := paginate.New(items, v.PaginateBy)
	page, err := paginator.PageString(raw)
	if err != nil {
		return nil, err
	}

	pageCtx := page.Bindings(v.Bind)
	ctx["page_obj"] = pageCtx
	ctx["paginator"] = pageCtx["paginator"]
	ctx["object_list"] = pageCtx["object_list"]
	ctx["is_paginated"] = page.HasOtherPages()
	return ctx, nil
}

func (v *ListView[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, err := v.contextData(r)
	if err != nil {
		detail := "Invalid page."
		if errors.Is(err, paginate.ErrPageNotAnInteger) {
			detail = "Page is not 'last', nor can it be converted to an int."
		} else if errors.Is(err, paginate.ErrEmptyPage) {
			detail = "Invalid page (" + r.URL.Query().Get(v.pageKwarg()) + "): " + paginate.Reason(err)
		}
		v.pages.notFound(w, r, detail)
		return
	}
	if v.ContextHook != nil {
		if err := v.ContextHook(r, ctx); err != nil {
			v.pages.internalError(w, r, err)
			return
		}
	}

	w.Header().Add("Vary", htmx.HeaderRequest)
	if htmx.IsHTMX(r) {
		v.pages.render(w, r, http.StatusOK, v.PartialTemplateName, render.LayoutNone, ctx)
		return
	}

	partial, err := v.pages.fragment(r, v.PartialTemplateName, ctx)
	if err != nil {
		v.pages.internalError(w, r, err)
		return
	}
	ctx["partial"] = partial
	v.pages.render(w, r, http.StatusOK, v.TemplateName, render.LayoutBase, ctx)
}
