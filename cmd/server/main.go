package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/htmx-demo/internal/api"
	"github.com/ignite/htmx-demo/internal/config"
	"github.com/ignite/htmx-demo/internal/csrf"
	"github.com/ignite/htmx-demo/internal/people"
	"github.com/ignite/htmx-demo/internal/pkg/logger"
	"github.com/ignite/htmx-demo/internal/render"
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v\n"+
			"  Hint: Run 'lsof -i :%d' to find the blocking process", port, addr, err, port)
	}
	ln.Close()
	return nil
}

// connectRedis returns nil when no address is configured. A configured but
// unreachable Redis is an error.
func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// buildCSRFStore picks where CSRF secrets are kept.
func buildCSRFStore(cfg config.CSRFConfig, redisCfg config.RedisConfig, redisClient *redis.Client) (csrf.Store, error) {
	sameSite := csrf.ParseSameSite(cfg.CookieSameSite)

	switch cfg.Storage {
	case "", "cookie":
		return csrf.NewCookieStore(csrf.CookieOptions{
			Name:     cfg.CookieName,
			MaxAge:   cfg.CookieMaxAge(),
			Secure:   cfg.CookieSecure,
			SameSite: sameSite,
		}), nil
	case "session":
		var backend csrf.SessionBackend
		switch cfg.SessionBackend {
		case "", "memory":
			backend = csrf.NewMemoryBackend()
		case "redis":
			if redisClient == nil {
				return nil, fmt.Errorf("csrf session backend redis needs redis.addr")
			}
			backend = csrf.NewRedisBackend(redisClient, redisCfg.KeyPrefix)
		default:
			return nil, fmt.Errorf("unknown csrf session backend %q", cfg.SessionBackend)
		}
		return csrf.NewSessionStore(csrf.CookieOptions{
			Name:     cfg.SessionCookieName,
			Secure:   cfg.CookieSecure,
			SameSite: sameSite,
		}, backend, cfg.SessionTTL()), nil
	default:
		return nil, fmt.Errorf("unknown csrf storage %q", cfg.Storage)
	}
}

func main() {
	log.Println("htmx demo server (cmd/server/main.go)")

	// Load configuration
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.SetLevel(logger.ParseLevel(cfg.Log.Level))
	logger.SetRedactSecrets(cfg.Log.ShouldRedact())
	if cfg.Server.Debug {
		log.Println("[config] debug mode: error pages show panic details")
	}

	// Pre-flight check: verify the target port is available
	host := cfg.Server.GetHost()
	port := cfg.Server.Port
	if err := checkPortAvailable(host, port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}
	log.Printf("Pre-flight check passed: port %d is available", port)

	renderer, err := render.New()
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	ppl := people.Generate(cfg.Fixtures.PeopleCount, cfg.Fixtures.Seed)
	logger.Info("fixtures generated", "people", len(ppl), "seed", cfg.Fixtures.Seed)

	ctx := context.Background()
	redisClient, err := connectRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("Redis pre-flight FAILED: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		logger.Info("redis connected", "addr", cfg.Redis.Addr)
	}

	csrfStore, err := buildCSRFStore(cfg.CSRF, cfg.Redis, redisClient)
	if err != nil {
		log.Fatalf("Invalid CSRF config: %v", err)
	}
	logger.Info("csrf configured", "storage", cfg.CSRF.Storage, "session_backend", cfg.CSRF.SessionBackend)

	handlers := api.NewHandlers(renderer, ppl, cfg.Pagination.PerPage, cfg.Server.Debug)
	router := api.SetupRoutes(handlers, api.RouteOptions{
		CSRFStore:          csrfStore,
		CSRFHeaderName:     cfg.CSRF.HeaderName,
		CSRFFieldName:      cfg.CSRF.FieldName,
		CSRFTrustedOrigins: cfg.CSRF.TrustedOrigins,
		AllowedOrigins:     cfg.CORS.AllowedOrigins,
		Health:             api.NewHealthChecker(renderer, len(ppl), redisClient),
	})
	server := api.NewServer(cfg.Server, router)

	// Setup graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on http://%s", server.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
