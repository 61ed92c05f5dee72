package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ignite/htmx-demo/internal/csrf"
	"github.com/ignite/htmx-demo/internal/htmx"
	"github.com/ignite/htmx-demo/internal/render"
)

// RouteOptions carries what SetupRoutes needs besides the handlers.
type RouteOptions struct {
	// CSRFStore keeps the per-client secret, a cookie store when nil.
	CSRFStore          csrf.Store
	CSRFHeaderName     string
	CSRFFieldName      string
	CSRFTrustedOrigins []string
	AllowedOrigins     []string
	// Health is optional; /health routes are only mounted when set.
	Health *HealthChecker
}

// route binds a page path to its handler and permitted methods.
type route struct {
	path    string
	methods []string
	handler http.HandlerFunc
}

func (h *Handlers) routes() []route {
	get := []string{http.MethodGet}
	return []route{
		{"/", get, h.Index},
		{"/csrf-demo/", get, h.CSRFDemo},
		{"/csrf-demo/checker/", []string{http.MethodPost}, h.CSRFDemoChecker},
		{"/error-demo/", get, h.ErrorDemo},
		{"/error-demo/trigger/", get, h.ErrorDemoTrigger},
		{"/middleware-tester/", get, h.MiddlewareTester},
		{"/middleware-tester/table/", []string{http.MethodDelete, http.MethodPost, http.MethodPut}, h.MiddlewareTesterTable},
		{partialRenderingPath, get, h.PartialRendering},
		{partialRenderingCBVPath, get, h.PartialRenderingCBV},
	}
}

// SetupRoutes configures the middleware stack and all routes.
func SetupRoutes(h *Handlers, opts RouteOptions) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(h.recoverer)

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Server-Identity", "htmx-demo")
			next.ServeHTTP(w, req)
		})
	})

	// CORS - credentials allowed so the CSRF cookie travels with htmx requests
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-CSRFToken",
			htmx.HeaderRequest, htmx.HeaderBoosted, htmx.HeaderCurrentURL, htmx.HeaderHistoryRestoreRequest,
			htmx.HeaderPrompt, htmx.HeaderTarget, htmx.HeaderTrigger, htmx.HeaderTriggerName, htmx.HeaderTriggeringEvent},
		ExposedHeaders: []string{htmx.HeaderTrigger, htmx.HeaderPushURL,
			htmx.HeaderTriggerAfterSettle, htmx.HeaderTriggerAfterSwap},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health checks and static files skip CSRF
	if opts.Health != nil {
		r.Get("/health", opts.Health.HandleHealth)
		r.Get("/health/live", opts.Health.HandleLiveness)
		r.Get("/health/ready", opts.Health.HandleReadiness)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(render.Static()))))

	protector := csrf.New(csrf.Options{
		Store:          opts.CSRFStore,
		HeaderName:     opts.CSRFHeaderName,
		FieldName:      opts.CSRFFieldName,
		TrustedOrigins: opts.CSRFTrustedOrigins,
		FailureHandler: http.HandlerFunc(h.csrfFailure),
	})

	known := make(map[string]bool)
	r.Group(func(r chi.Router) {
		r.Use(htmx.Middleware)
		r.Use(protector.Handler)

		for _, rt := range h.routes() {
			known[rt.path] = true
			r.Handle(rt.path, requireMethods(rt.methods...)(rt.handler))
		}
	})

	r.NotFound(h.appendSlash(known))

	return r
}
