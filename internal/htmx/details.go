// Package htmx reads the request headers sent by the htmx front-end library
// and writes the response headers it understands.
//
// Middleware parses the HX-* headers once per request; handlers call
// IsHTMX or FromRequest to decide between a full page and a fragment.
package htmx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Request header names.
const (
	HeaderRequest               = "HX-Request"
	HeaderBoosted               = "HX-Boosted"
	HeaderCurrentURL            = "HX-Current-URL"
	HeaderHistoryRestoreRequest = "HX-History-Restore-Request"
	HeaderPrompt                = "HX-Prompt"
	HeaderTarget                = "HX-Target"
	HeaderTrigger               = "HX-Trigger"
	HeaderTriggerName           = "HX-Trigger-Name"
	HeaderTriggeringEvent       = "Triggering-Event"
)

// Details describes an incoming request as seen by htmx. The zero value
// describes an ordinary browser request.
type Details struct {
	Request               bool
	Boosted               bool
	CurrentURL            string
	CurrentURLAbsPath     string
	HistoryRestoreRequest bool
	Prompt                string
	Target                string
	Trigger               string
	TriggerName           string
	TriggeringEvent       any
}

// Parse reads Details from r's headers.
func Parse(r *http.Request) Details {
	d := Details{
		Request:               header(r, HeaderRequest) == "true",
		Boosted:               header(r, HeaderBoosted) == "true",
		CurrentURL:            header(r, HeaderCurrentURL),
		HistoryRestoreRequest: header(r, HeaderHistoryRestoreRequest) == "true",
		Prompt:                header(r, HeaderPrompt),
		Target:                header(r, HeaderTarget),
		Trigger:               header(r, HeaderTrigger),
		TriggerName:           header(r, HeaderTriggerName),
	}
	d.CurrentURLAbsPath = sameOriginPath(r, d.CurrentURL)

	if raw := header(r, HeaderTriggeringEvent); raw != "" {
		var ev any
		if err := json.Unmarshal([]byte(raw), &ev); err == nil {
			d.TriggeringEvent = ev
		}
	}
	return d
}

// header returns the named header, URL-unescaped when htmx flagged it with
// a "<name>-URI-AutoEncoded: true" companion header.
func header(r *http.Request, name string) string {
	v := r.Header.Get(name)
	if v == "" {
		return ""
	}
	if r.Header.Get(name+"-URI-AutoEncoded") == "true" {
		if decoded, err := url.QueryUnescape(v); err == nil {
			return decoded
		}
	}
	return v
}

// sameOriginPath returns the path and query of current when it points at
// the same scheme and host as r, and "" otherwise.
func sameOriginPath(r *http.Request, current string) string {
	if current == "" {
		return ""
	}
	u, err := url.Parse(current)
	if err != nil || u.Host == "" {
		return ""
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if u.Scheme != scheme || u.Host != r.Host {
		return ""
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return path
}

// Bindings exposes the details to templates.
func (d Details) Bindings() map[string]any {
	var event string
	if d.TriggeringEvent != nil {
		if b, err := json.Marshal(d.TriggeringEvent); err == nil {
			event = string(b)
		}
	}
	return map[string]any{
		"request":                 d.Request,
		"boosted":                 d.Boosted,
		"current_url":             d.CurrentURL,
		"current_url_abs_path":    d.CurrentURLAbsPath,
		"history_restore_request": d.HistoryRestoreRequest,
		"prompt":                  d.Prompt,
		"target":                  d.Target,
		"trigger":                 d.Trigger,
		"trigger_name":            d.TriggerName,
		"triggering_event":        event,
	}
}

type contextKey struct{}

// Middleware parses Details for every request and stores them in the
// request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := Parse(r)
		ctx := context.WithValue(r.Context(), contextKey{}, d)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the Details stored by Middleware.
func FromContext(ctx context.Context) (Details, bool) {
	d, ok := ctx.Value(contextKey{}).(Details)
	return d, ok
}

// FromRequest returns the Details stored by Middleware, parsing the headers
// directly when the middleware did not run.
func FromRequest(r *http.Request) Details {
	if d, ok := FromContext(r.Context()); ok {
		return d
	}
	return Parse(r)
}

// IsHTMX reports whether r was issued by htmx.
func IsHTMX(r *http.Request) bool {
	return FromRequest(r).Request
}
