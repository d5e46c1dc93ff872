package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/simple-places/pkg/simpleplaces/api"
	"github.com/tendant/simple-places/pkg/simpleplaces/config"
)

func main() {
	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	opts := []config.Option{config.WithEnv("")}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		opts = append([]config.Option{config.WithFile(path)}, opts...)
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		slog.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if cfg.DatabaseType == "postgres" {
		if err := cfg.PingPostgres(ctx); err != nil {
			slog.Error("Failed to connect to database", "err", err)
			os.Exit(1)
		}
	}

	svc, err := cfg.BuildService(ctx, logger)
	if err != nil {
		slog.Error("Failed to build service", "err", err)
		os.Exit(1)
	}

	editorial, err := editorialAuth(cfg)
	if err != nil {
		slog.Error("Failed to initialize editorial auth", "err", err)
		os.Exit(1)
	}

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	handler := api.NewHandler(svc, logger, cfg.DefaultTenant)
	server.R.Route("/api/v1", func(r chi.Router) {
		r.Use(api.DomainMiddleware(nil))
		r.Use(api.LoggingMiddleware(logger))
		r.Mount("/", handler.Routes(editorial))
	})

	slog.Info("Simple Places server starting",
		"env", cfg.Environment,
		"database", cfg.DatabaseType,
		"storage", cfg.StorageType,
		"default_tenant", cfg.DefaultTenant,
	)
	server.Run()
}

// editorialAuth picks JWT when a secret is configured and API keys
// otherwise. Development servers without either run unauthenticated.
func editorialAuth(cfg *config.ServerConfig) (func(http.Handler) http.Handler, error) {
	switch {
	case cfg.JWTSecret != "":
		return api.JWTAuth(cfg.JWTSecret), nil
	case len(cfg.APIKeys) > 0:
		return api.APIKeyAuth(cfg.APIKeys)
	case cfg.Environment == "development":
		slog.Warn("Editorial routes are not authenticated")
		return nil, nil
	default:
		return api.APIKeyAuth(nil)
	}
}
