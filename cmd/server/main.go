package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/marvelmart/shop/internal/auth"
	"github.com/marvelmart/shop/internal/catalog"
	"github.com/marvelmart/shop/internal/server"
	"github.com/marvelmart/shop/internal/state"
	"github.com/marvelmart/shop/internal/storage/sqlite"
	"github.com/marvelmart/shop/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	// Paths and knobs from env or defaults
	dbPath := getEnv("DB_PATH", "./data/shop.db")
	catalogPath := getEnv("CATALOG_PATH", "./web/products.html")
	catalogURL := os.Getenv("CATALOG_URL")
	staticPath := getEnv("STATIC_PATH", "./web/static")
	port := getEnv("PORT", "8080")
	secret := getEnv("SESSION_SECRET", "marvelmart-demo-secret")

	// Initialize SQLite-backed key-value storage
	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	// Catalog source: a URL when configured, a local file otherwise
	var source catalog.Source
	if catalogURL != "" {
		source = catalog.HTTPSource{URL: catalogURL}
		slog.Info("Catalog source", "url", catalogURL)
	} else {
		source = catalog.FileSource{Path: catalogPath}
		slog.Info("Catalog source", "path", catalogPath)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loader := catalog.NewLoader(source)
	if err := loader.Watch(ctx); err != nil {
		slog.Warn("Catalog watching disabled", "error", err)
	}

	// State model seeds itself from storage; missing or corrupt slices
	// load as empty.
	model := state.New(ctx, store)

	sessions := auth.NewSessionManager(secret, 24*time.Hour)

	srv := server.New(model, loader, sessions)
	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticPath))))
	mux.Handle("/", srv.Handler())

	// Wrap with h2c for HTTP/2 without TLS
	h2cHandler := h2c.NewHandler(mux, &http2.Server{})

	addr := ":" + port
	slog.Info("Storefront starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
