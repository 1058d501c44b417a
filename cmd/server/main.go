// Command server runs the openpost content-sharing backend.
//
// Configuration is loaded from a YAML file (discovered or passed via
// -config) with OPENPOST_* environment variable overrides. See
// pkg/config for the full loading order.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openpost-dev/openpost/pkg/auth"
	"github.com/openpost-dev/openpost/pkg/auth/token"
	"github.com/openpost-dev/openpost/pkg/config"
	"github.com/openpost-dev/openpost/pkg/observability"
	"github.com/openpost-dev/openpost/pkg/service"
	"github.com/openpost-dev/openpost/pkg/storage"
	"github.com/openpost-dev/openpost/pkg/storage/memory"
	"github.com/openpost-dev/openpost/pkg/storage/postgres"
	"github.com/openpost-dev/openpost/pkg/transport"
	transporthttp "github.com/openpost-dev/openpost/pkg/transport/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Create store.
	store, err := newStore(cfg)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer store.Close()
	logger.Info("storage ready", "type", cfg.Storage.Type)

	// Token codec and login throttling.
	codec := token.NewCodec([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenValidity)

	var limiter auth.RateLimiter
	if cfg.Auth.LoginAttemptsPerMinute > 0 {
		limiter = auth.NewInProcessLimiter(cfg.Auth.LoginAttemptsPerMinute)
	}

	// Services.
	users := service.NewUserService(store, codec, limiter)
	posts := service.NewPostService(store, store)

	// Authentication gate. Tokens are verified by the codec and their
	// subject is re-resolved against the user store on every request.
	chain := &auth.AuthChain{
		Authenticators:  []auth.Authenticator{token.NewAuthenticator(codec, users)},
		DefaultDecision: auth.No,
	}

	// Routes and middleware.
	handler := transporthttp.NewHandler(users, posts, store, cfg.Server.MaxBodyBytes)
	mux := handler.Routes(auth.Middleware(chain))
	if cfg.Observability.Metrics.Enabled {
		mux.Handle("GET "+cfg.Observability.Metrics.Path, promhttp.Handler())
	}

	var root http.Handler = mux
	root = observability.MetricsMiddleware(root)
	root = transport.Chain(
		transport.Recovery(),
		transport.RequestID(),
		transport.Logging(logger),
	)(root)

	srv := transporthttp.NewServer(root,
		transporthttp.WithAddr(fmt.Sprintf(":%d", cfg.Server.Port)),
		transporthttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		transporthttp.WithLogger(logger),
	)

	return srv.ListenAndServe()
}

// newStore creates the configured storage backend.
func newStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Type {
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return postgres.New(ctx, postgres.Config{
			DSN:            cfg.Storage.Postgres.DSN,
			MaxConns:       cfg.Storage.Postgres.MaxConns,
			MigrateOnStart: cfg.Storage.Postgres.MigrateOnStart,
		})
	default:
		return memory.New(), nil
	}
}
