package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	CSRF       CSRFConfig       `yaml:"csrf"`
	Redis      RedisConfig      `yaml:"redis"`
	Fixtures   FixturesConfig   `yaml:"fixtures"`
	Pagination PaginationConfig `yaml:"pagination"`
	CORS       CORSConfig       `yaml:"cors"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port                   int    `yaml:"port"`
	Host                   string `yaml:"host"`
	Debug                  bool   `yaml:"debug"` // show panic details on the error page
	ReadTimeoutSeconds     int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int    `yaml:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
}

// GetHost returns the server host, with container detection
func (c ServerConfig) GetHost() string {
	// Inside a container, listen on all interfaces
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" || os.Getenv("ECS_CONTAINER_METADATA_URI") != "" {
		return "0.0.0.0"
	}
	// Allow override via environment
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// Addr is the listen address, host as resolved by GetHost.
func (c ServerConfig) Addr() string {
	return c.GetHost() + ":" + strconv.Itoa(c.Port)
}

// ReadTimeout returns the configured read timeout as a duration
func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the configured write timeout as a duration
func (c ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns the graceful shutdown deadline as a duration
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level         string `yaml:"level"` // "debug", "info", "warn", "error"
	RedactSecrets *bool  `yaml:"redact_secrets"`
}

// ShouldRedact reports whether secrets are masked in log output (default true).
func (c LogConfig) ShouldRedact() bool {
	return c.RedactSecrets == nil || *c.RedactSecrets
}

// CSRFConfig holds CSRF protection settings
type CSRFConfig struct {
	Storage           string   `yaml:"storage"`         // "cookie" or "session"
	SessionBackend    string   `yaml:"session_backend"` // "memory" or "redis", used when storage is "session"
	CookieName        string   `yaml:"cookie_name"`
	SessionCookieName string   `yaml:"session_cookie_name"`
	HeaderName        string   `yaml:"header_name"`
	FieldName         string   `yaml:"field_name"`
	CookieMaxAgeDays  int      `yaml:"cookie_max_age_days"`
	CookieSecure      bool     `yaml:"cookie_secure"`
	CookieSameSite    string   `yaml:"cookie_same_site"` // "lax", "strict", "none"
	SessionTTLMinutes int      `yaml:"session_ttl_minutes"`
	TrustedOrigins    []string `yaml:"trusted_origins"`
}

// CookieMaxAge returns the CSRF cookie lifetime as a duration
func (c CSRFConfig) CookieMaxAge() time.Duration {
	return time.Duration(c.CookieMaxAgeDays) * 24 * time.Hour
}

// SessionTTL returns the server-side secret lifetime as a duration
func (c CSRFConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// RedisConfig holds Redis connection settings for the CSRF session backend
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// Enabled reports whether a Redis address is configured
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// FixturesConfig controls the generated Person fixtures
type FixturesConfig struct {
	PeopleCount int    `yaml:"people_count"`
	Seed        uint64 `yaml:"seed"`
}

// PaginationConfig holds list page sizes
type PaginationConfig struct {
	PerPage int `yaml:"per_page"`
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a configuration with every default applied, for running
// without a config file.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.ReadTimeoutSeconds == 0 {
		cfg.Server.ReadTimeoutSeconds = 15
	}
	if cfg.Server.WriteTimeoutSeconds == 0 {
		cfg.Server.WriteTimeoutSeconds = 30
	}
	if cfg.Server.ShutdownTimeoutSeconds == 0 {
		cfg.Server.ShutdownTimeoutSeconds = 10
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.CSRF.Storage == "" {
		cfg.CSRF.Storage = "cookie"
	}
	if cfg.CSRF.SessionBackend == "" {
		cfg.CSRF.SessionBackend = "memory"
	}
	if cfg.CSRF.CookieName == "" {
		cfg.CSRF.CookieName = "csrftoken"
	}
	if cfg.CSRF.SessionCookieName == "" {
		cfg.CSRF.SessionCookieName = "sessionid"
	}
	if cfg.CSRF.HeaderName == "" {
		cfg.CSRF.HeaderName = "X-CSRFToken"
	}
	if cfg.CSRF.FieldName == "" {
		cfg.CSRF.FieldName = "csrfmiddlewaretoken"
	}
	if cfg.CSRF.CookieMaxAgeDays == 0 {
		cfg.CSRF.CookieMaxAgeDays = 365
	}
	if cfg.CSRF.CookieSameSite == "" {
		cfg.CSRF.CookieSameSite = "lax"
	}
	if cfg.CSRF.SessionTTLMinutes == 0 {
		cfg.CSRF.SessionTTLMinutes = 14 * 24 * 60
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "htmxdemo"
	}
	if cfg.Fixtures.PeopleCount == 0 {
		cfg.Fixtures.PeopleCount = 234
	}
	if cfg.Fixtures.Seed == 0 {
		cfg.Fixtures.Seed = 42
	}
	if cfg.Pagination.PerPage == 0 {
		cfg.Pagination.PerPage = 10
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"http://localhost:8000", "http://127.0.0.1:8000"}
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars.
// A missing config file is not an error: defaults are used instead.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		cfg = Default()
	}

	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DEBUG"); v != "" {
		cfg.Server.Debug = v == "true" || v == "1"
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("CSRF_STORAGE"); v != "" {
		cfg.CSRF.Storage = v
	}
	if v := os.Getenv("CSRF_SESSION_BACKEND"); v != "" {
		cfg.CSRF.SessionBackend = v
	}
	if v := os.Getenv("CSRF_TRUSTED_ORIGINS"); v != "" {
		cfg.CSRF.TrustedOrigins = splitList(v)
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
