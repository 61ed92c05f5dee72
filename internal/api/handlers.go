package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ignite/htmx-demo/internal/forms"
	"github.com/ignite/htmx-demo/internal/htmx"
	"github.com/ignite/htmx-demo/internal/paginate"
	"github.com/ignite/htmx-demo/internal/people"
	"github.com/ignite/htmx-demo/internal/pkg/logger"
	"github.com/ignite/htmx-demo/internal/render"
)

const (
	partialRenderingPath    = "/partial-rendering/"
	partialRenderingCBVPath = "/partial-rendering-cbv/"
)

// divisor is the zero the error demo divides by. A variable keeps the
// division a run time panic instead of a compile error.
var divisor = 0

// Handlers contains the demo page handlers.
type Handlers struct {
	*pages
	people     []people.Person
	perPage    int
	now        func() time.Time
	peopleView *ListView[people.Person]
}

// NewHandlers creates the handlers. people is shared read-only between
// requests.
func NewHandlers(renderer *render.Renderer, ppl []people.Person, perPage int, debug bool) *Handlers {
	if perPage < 1 {
		perPage = 10
	}
	h := &Handlers{
		pages:   &pages{renderer: renderer, debug: debug},
		people:  ppl,
		perPage: perPage,
		now:     time.Now,
	}
	h.peopleView = &ListView[people.Person]{
		Queryset:            func() []people.Person { return h.people },
		Bind:                people.Bind,
		TemplateName:        "cbv-full-rendering",
		PartialTemplateName: "cbv-partial-rendering",
		PaginateBy:          perPage,
		ContextHook:         h.peopleContext,
		pages:               h.pages,
	}
	return h
}

// Index renders the landing page.
//
//	GET /
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "index", render.LayoutBase, nil)
}

// CSRFDemo renders the odd number form.
//
//	GET /csrf-demo/
func (h *Handlers) CSRFDemo(w http.ResponseWriter, r *http.Request) {
	checker, err := h.fragment(r, "csrf-demo-checker", map[string]any{
		"form":          forms.NewOddNumberForm(nil).Bindings(),
		"number_is_odd": false,
	})
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "csrf-demo", render.LayoutBase, map[string]any{
		"title":   "CSRF demo",
		"checker": checker,
	})
}

// CSRFDemoChecker validates the posted number and renders the form back.
//
//	POST /csrf-demo/checker/
func (h *Handlers) CSRFDemoChecker(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		logger.Warn("form parse failed", "error", err.Error(), "path", r.URL.Path)
	}
	form := forms.NewOddNumberForm(r.PostForm)

	numberIsOdd := false
	if form.IsValid() {
		n, _ := form.Number()
		numberIsOdd = forms.IsOdd(n)
	}

	h.render(w, r, http.StatusOK, "csrf-demo-checker", render.LayoutNone, map[string]any{
		"form":          form.Bindings(),
		"number_is_odd": numberIsOdd,
	})
}

// ErrorDemo renders the page with the error trigger button.
//
//	GET /error-demo/
func (h *Handlers) ErrorDemo(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "error-demo", render.LayoutBase, map[string]any{
		"title": "Error demo",
	})
}

// ErrorDemoTrigger divides by zero. The panic is left to the recovery
// middleware.
//
//	GET /error-demo/trigger/
func (h *Handlers) ErrorDemoTrigger(w http.ResponseWriter, r *http.Request) {
	quotient := 1 / divisor
	h.render(w, r, http.StatusOK, "error-demo", render.LayoutBase, map[string]any{
		"quotient": quotient,
	})
}

// MiddlewareTester renders the buttons and the initial attribute table.
//
//	GET /middleware-tester/
func (h *Handlers) MiddlewareTester(w http.ResponseWriter, r *http.Request) {
	table, err := h.fragment(r, "middleware-tester-table", map[string]any{
		"timestamp": h.timestamp(),
	})
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "middleware-tester", render.LayoutBase, map[string]any{
		"title": "Middleware tester",
		"table": table,
	})
}

// MiddlewareTesterTable renders the htmx attributes of the request.
//
//	DELETE, POST, PUT /middleware-tester/table/
func (h *Handlers) MiddlewareTesterTable(w http.ResponseWriter, r *http.Request) {
	ts := h.timestamp()
	if err := htmx.TriggerClientEvent(w, "timestampUpdated", map[string]any{"timestamp": ts}, htmx.Receive); err != nil {
		logger.Warn("trigger header failed", "error", err.Error())
	}
	h.render(w, r, http.StatusOK, "middleware-tester-table", render.LayoutNone, map[string]any{
		"timestamp": ts,
	})
}

// timestamp is the current Unix time in fractional seconds.
func (h *Handlers) timestamp() float64 {
	return float64(h.now().UnixNano()) / float64(time.Second)
}

// PartialRendering lists people a page at a time. htmx requests get the
// listing without the page chrome.
//
//	GET /partial-rendering/?page=N
func (h *Handlers) PartialRendering(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		raw = "1"
	}
	page := paginate.New(h.people, h.perPage).GetPage(raw)

	layout := render.LayoutBase
	if htmx.IsHTMX(r) {
		layout = render.LayoutPartial
		htmx.PushURL(w, partialRenderingPath+"?page="+strconv.Itoa(page.Number))
	}
	w.Header().Add("Vary", htmx.HeaderRequest)

	pageCtx := page.Bindings(people.Bind)
	pagination, err := h.fragment(r, "_pagination", map[string]any{
		"page":     pageCtx,
		"base_url": partialRenderingPath,
		"target":   "#main",
	})
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "partial-rendering", layout, map[string]any{
		"title":         fmt.Sprintf("Partial rendering, page %d", page.Number),
		"base_template": layout,
		"page":          pageCtx,
		"pagination":    pagination,
	})
}

// PartialRenderingCBV is the ListView flavour of PartialRendering.
//
//	GET /partial-rendering-cbv/?page=N
func (h *Handlers) PartialRenderingCBV(w http.ResponseWriter, r *http.Request) {
	h.peopleView.ServeHTTP(w, r)
}

// peopleContext exposes page_obj as page so both listings share templates,
// and adds the pagination links.
func (h *Handlers) peopleContext(r *http.Request, ctx map[string]any) error {
	ctx["page"] = ctx["page_obj"]
	delete(ctx, "page_obj")
	ctx["title"] = "Partial rendering (class based)"

	pagination, err := h.fragment(r, "_pagination", map[string]any{
		"page":     ctx["page"],
		"base_url": partialRenderingCBVPath,
		"target":   "#people-listing",
	})
	if err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	ctx["pagination"] = pagination
	return nil
}
