package api

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ignite/htmx-demo/internal/pkg/httputil"
	"github.com/ignite/htmx-demo/internal/pkg/logger"
)

// recoverer turns a panic into the 500 page. The panic value and stack are
// always logged and only shown on the page in debug mode.
func (p *pages) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			stack := string(debug.Stack())
			errText := fmt.Sprint(rec)
			if err, ok := rec.(error); ok {
				errText = err.Error()
			}
			logger.Error("panic recovered",
				"error", errText,
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", middleware.GetReqID(r.Context()),
			)
			logger.Debug("panic stack", "stack", stack)

			if !p.debug {
				errText, stack = "", ""
			}
			p.serverError(w, r, errText, stack)
		}()
		next.ServeHTTP(w, r)
	})
}

// requireMethods answers 405 with an Allow header for any method not listed.
func requireMethods(methods ...string) func(http.HandlerFunc) http.Handler {
	allow := strings.Join(methods, ", ")
	return func(next http.HandlerFunc) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, m := range methods {
				if r.Method == m {
					next(w, r)
					return
				}
			}
			logger.Warn("method not allowed", "method", r.Method, "path", r.URL.Path)
			httputil.MethodNotAllowed(w, allow)
		})
	}
}

// appendSlash redirects "/csrf-demo" to "/csrf-demo/" when only the slashed
// path is routed, and renders the 404 page otherwise.
func (p *pages) appendSlash(known map[string]bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		redirectable := r.Method == http.MethodGet || r.Method == http.MethodHead
		if redirectable && !strings.HasSuffix(path, "/") && known[path+"/"] {
			target := path + "/"
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusMovedPermanently)
			return
		}
		p.notFound(w, r, "")
	}
}
