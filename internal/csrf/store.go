package csrf

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps the per-client CSRF secret between requests.
type Store interface {
	// Load returns the secret for r, or "" when the client has none.
	Load(r *http.Request) (string, error)
	// Save persists secret for the client and writes any cookie it needs.
	Save(w http.ResponseWriter, r *http.Request, secret string) error
}

// CookieOptions are the attributes shared by the cookies this package sets.
type CookieOptions struct {
	Name     string
	MaxAge   time.Duration
	Secure   bool
	SameSite http.SameSite
}

func (o CookieOptions) write(w http.ResponseWriter, value string) {
	c := &http.Cookie{
		Name:     o.Name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: o.SameSite,
	}
	// Zero MaxAge leaves a browser-session cookie.
	if o.MaxAge > 0 {
		c.MaxAge = int(o.MaxAge.Seconds())
		c.Expires = time.Now().Add(o.MaxAge)
	}
	http.SetCookie(w, c)
}

func (o CookieOptions) read(r *http.Request) string {
	c, err := r.Cookie(o.Name)
	if err != nil {
		return ""
	}
	return c.Value
}

// ParseSameSite maps "strict", "none" and "lax" to http.SameSite. Anything
// else is lax.
func ParseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// CookieStore keeps the secret in a cookie on the client.
type CookieStore struct {
	Cookie CookieOptions
}

// NewCookieStore creates a CookieStore.
func NewCookieStore(opts CookieOptions) *CookieStore {
	return &CookieStore{Cookie: opts}
}

func (s *CookieStore) Load(r *http.Request) (string, error) {
	return s.Cookie.read(r), nil
}

func (s *CookieStore) Save(w http.ResponseWriter, r *http.Request, secret string) error {
	s.Cookie.write(w, secret)
	return nil
}

// SessionBackend stores secrets server side, keyed by session ID.
type SessionBackend interface {
	// Get returns "" and no error for unknown or expired sessions.
	Get(ctx context.Context, sessionID string) (string, error)
	Set(ctx context.Context, sessionID, secret string, ttl time.Duration) error
}

// SessionStore keeps the secret in a SessionBackend. The client only holds
// an opaque session ID cookie.
type SessionStore struct {
	Cookie  CookieOptions
	Backend SessionBackend
	TTL     time.Duration
}

// NewSessionStore creates a SessionStore.
func NewSessionStore(cookie CookieOptions, backend SessionBackend, ttl time.Duration) *SessionStore {
	return &SessionStore{Cookie: cookie, Backend: backend, TTL: ttl}
}

func (s *SessionStore) Load(r *http.Request) (string, error) {
	sid := s.Cookie.read(r)
	if sid == "" {
		return "", nil
	}
	if _, err := uuid.Parse(sid); err != nil {
		return "", nil
	}
	secret, err := s.Backend.Get(r.Context(), sid)
	if err != nil {
		return "", fmt.Errorf("load csrf session: %w", err)
	}
	return secret, nil
}

func (s *SessionStore) Save(w http.ResponseWriter, r *http.Request, secret string) error {
	sid := s.Cookie.read(r)
	if _, err := uuid.Parse(sid); err != nil {
		sid = uuid.NewString()
	}
	if err := s.Backend.Set(r.Context(), sid, secret, s.TTL); err != nil {
		return fmt.Errorf("save csrf session: %w", err)
	}
	s.Cookie.write(w, sid)
	return nil
}

type memoryEntry struct {
	secret  string
	expires time.Time
}

// MemoryBackend is a process-local SessionBackend.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryBackend) Get(_ context.Context, sessionID string) (string, error) {
	m.mu.RLock()
	e, ok := m.entries[sessionID]
	m.mu.RUnlock()
	if !ok {
		return "", nil
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		m.mu.Lock()
		delete(m.entries, sessionID)
		m.mu.Unlock()
		return "", nil
	}
	return e.secret, nil
}

func (m *MemoryBackend) Set(_ context.Context, sessionID, secret string, ttl time.Duration) error {
	var expires time.Time
	if ttl > 0 {
		expires = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[sessionID] = memoryEntry{secret: secret, expires: expires}
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
