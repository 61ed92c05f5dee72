package csrf

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ignite/htmx-demo/internal/pkg/logger"
)

// Sentinel errors wrapped by *Failure.
var (
	ErrBadOrigin      = errors.New("csrf: origin not trusted")
	ErrBadReferer     = errors.New("csrf: referer not trusted")
	ErrNoCookie       = errors.New("csrf: secret not set")
	ErrTokenMissing   = errors.New("csrf: token missing")
	ErrTokenFormat    = errors.New("csrf: token malformed")
	ErrTokenIncorrect = errors.New("csrf: token incorrect")
)

// Failure describes a rejected request. Reason is the text shown to users.
type Failure struct {
	Reason string
	Err    error
}

func (f *Failure) Error() string { return f.Reason }
func (f *Failure) Unwrap() error { return f.Err }

const (
	DefaultHeaderName = "X-CSRFToken"
	DefaultFieldName  = "csrfmiddlewaretoken"
)

// Options configure a Protector.
type Options struct {
	Store          Store
	HeaderName     string
	FieldName      string
	TrustedOrigins []string
	// FailureHandler renders rejected requests. FailureFromRequest gives the
	// reason. Defaults to a plain text 403.
	FailureHandler http.Handler
}

// Protector is the CSRF middleware.
type Protector struct {
	store          Store
	headerName     string
	fieldName      string
	trustedOrigins []string
	failure        http.Handler
}

// New creates a Protector. A nil Store means a CookieStore with the
// "csrftoken" cookie.
func New(opts Options) *Protector {
	p := &Protector{
		store:          opts.Store,
		headerName:     opts.HeaderName,
		fieldName:      opts.FieldName,
		trustedOrigins: opts.TrustedOrigins,
		failure:        opts.FailureHandler,
	}
	if p.store == nil {
		p.store = NewCookieStore(CookieOptions{Name: "csrftoken", SameSite: http.SameSiteLaxMode})
	}
	if p.headerName == "" {
		p.headerName = DefaultHeaderName
	}
	if p.fieldName == "" {
		p.fieldName = DefaultFieldName
	}
	if p.failure == nil {
		p.failure = http.HandlerFunc(defaultFailure)
	}
	return p
}

type ctxKey int

const (
	secretKey ctxKey = iota
	failureKey
)

// Token returns a freshly masked token for the secret of r, or "" when the
// request did not pass through a Protector.
func Token(r *http.Request) string {
	secret, _ := r.Context().Value(secretKey).(string)
	if secret == "" {
		return ""
	}
	return MaskSecret(secret)
}

// FailureFromRequest returns the failure that caused the FailureHandler to
// run.
func FailureFromRequest(r *http.Request) (*Failure, bool) {
	f, ok := r.Context().Value(failureKey).(*Failure)
	return f, ok
}

func defaultFailure(w http.ResponseWriter, r *http.Request) {
	reason := "CSRF verification failed."
	if f, ok := FailureFromRequest(r); ok {
		reason += " " + f.Reason
	}
	http.Error(w, reason, http.StatusForbidden)
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

// Handler wraps next with CSRF protection.
func (p *Protector) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secret, err := p.store.Load(r)
		if err != nil {
			logger.Warn("csrf secret lookup failed", "error", err.Error(), "path", r.URL.Path)
			secret = ""
		}
		var badSecret error
		if secret != "" {
			badSecret = checkSecret(secret)
			if badSecret != nil {
				// Unusable secret; safe requests get a new one.
				secret = ""
			}
		}

		if !isSafeMethod(r.Method) {
			if f := p.check(r, secret, badSecret); f != nil {
				logger.Warn("csrf verification failed",
					"reason", f.Reason,
					"method", r.Method,
					"path", r.URL.Path,
				)
				ctx := context.WithValue(r.Context(), failureKey, f)
				p.failure.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		if secret == "" {
			secret = NewSecret()
			if err := p.store.Save(w, r, secret); err != nil {
				logger.Error("csrf secret save failed", "error", err.Error(), "path", r.URL.Path)
			}
		}

		ctx := context.WithValue(r.Context(), secretKey, secret)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// checkSecret validates a stored secret, which is never masked.
func checkSecret(secret string) error {
	if len(secret) != secretLength {
		return errTokenLength
	}
	return checkFormat(secret)
}

// check verifies an unsafe request. badSecret is why a stored secret was
// rejected, nil when none was stored.
func (p *Protector) check(r *http.Request, secret string, badSecret error) *Failure {
	if origin := r.Header.Get("Origin"); origin != "" {
		if !p.originAllowed(r, origin) {
			return &Failure{
				Reason: fmt.Sprintf("Origin checking failed - %s does not match any trusted origins.", origin),
				Err:    ErrBadOrigin,
			}
		}
	} else if r.TLS != nil {
		if f := p.checkReferer(r); f != nil {
			return f
		}
	}

	if badSecret != nil {
		return &Failure{Reason: fmt.Sprintf("CSRF cookie %s.", badSecret), Err: ErrTokenFormat}
	}
	if secret == "" {
		return &Failure{Reason: "CSRF cookie not set.", Err: ErrNoCookie}
	}

	token, source := "", "POST"
	if r.Method == http.MethodPost {
		token = r.PostFormValue(p.fieldName)
	}
	if token == "" {
		token = r.Header.Get(p.headerName)
		source = fmt.Sprintf("the '%s' HTTP header", p.headerName)
	}
	if token == "" {
		return &Failure{Reason: "CSRF token missing.", Err: ErrTokenMissing}
	}
	if err := checkFormat(token); err != nil {
		return &Failure{
			Reason: fmt.Sprintf("CSRF token from %s %s.", source, err),
			Err:    ErrTokenFormat,
		}
	}
	if !tokenMatches(token, secret) {
		return &Failure{
			Reason: fmt.Sprintf("CSRF token from %s incorrect.", source),
			Err:    ErrTokenIncorrect,
		}
	}
	return nil
}

func requestScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

func (p *Protector) originAllowed(r *http.Request, origin string) bool {
	if origin == requestScheme(r)+"://"+r.Host {
		return true
	}
	for _, trusted := range p.trustedOrigins {
		if matchOrigin(trusted, origin) {
			return true
		}
	}
	return false
}

// matchOrigin compares origin with a trusted pattern such as
// "https://example.com" or "https://*.example.com".
func matchOrigin(pattern, origin string) bool {
	if strings.EqualFold(pattern, origin) {
		return true
	}
	ps, phost, ok := strings.Cut(pattern, "://")
	if !ok || !strings.HasPrefix(phost, "*.") {
		return false
	}
	scheme, ohost, ok := strings.Cut(origin, "://")
	if !ok || !strings.EqualFold(ps, scheme) {
		return false
	}
	suffix := strings.ToLower(phost[1:])
	ohost = strings.ToLower(ohost)
	return strings.HasSuffix(ohost, suffix) || ohost == suffix[1:]
}

func (p *Protector) checkReferer(r *http.Request) *Failure {
	referer := r.Header.Get("Referer")
	if referer == "" {
		return &Failure{Reason: "Referer checking failed - no Referer.", Err: ErrBadReferer}
	}
	u, err := url.Parse(referer)
	if err != nil || u.Host == "" {
		return &Failure{Reason: "Referer checking failed - Referer is malformed.", Err: ErrBadReferer}
	}
	if u.Scheme != "https" {
		return &Failure{
			Reason: "Referer checking failed - Referer is insecure while host is secure.",
			Err:    ErrBadReferer,
		}
	}
	if strings.EqualFold(u.Host, r.Host) {
		return nil
	}
	refOrigin := u.Scheme + "://" + u.Host
	for _, trusted := range p.trustedOrigins {
		if matchOrigin(trusted, refOrigin) {
			return nil
		}
	}
	return &Failure{
		Reason: fmt.Sprintf("Referer checking failed - %s does not match any trusted origins.", referer),
		Err:    ErrBadReferer,
	}
}
