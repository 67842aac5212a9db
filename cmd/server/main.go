package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/okanebot/okane/internal/auth"
	"github.com/okanebot/okane/internal/gateway"
	"github.com/okanebot/okane/internal/ledger"
	"github.com/okanebot/okane/internal/middleware"
	"github.com/okanebot/okane/internal/presentation"
	"github.com/okanebot/okane/internal/service"
	"github.com/okanebot/okane/internal/storage/sqlite"
	"github.com/okanebot/okane/pkg/logging"
)

const stateTokenTTL = 15 * time.Minute

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	addr := getEnv("ADDR", ":8080")
	dbPath := getEnv("DB_PATH", "./data/okane.db")

	stateSecret := os.Getenv("STATE_SECRET")
	if stateSecret == "" {
		slog.Error("STATE_SECRET is required")
		os.Exit(1)
	}

	// Initialize SQLite storage
	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	engine := ledger.NewEngine(store)
	tokens := auth.NewStateTokens(stateSecret, stateTokenTTL)
	presenter := presentation.NewPresenter(engine, tokens)

	// Operator-configured admin overrides, on top of the permission flags
	// the platform gateway resolves per interaction.
	var adminIDs []string
	if ids := os.Getenv("ADMIN_IDS"); ids != "" {
		adminIDs = strings.Split(ids, ",")
	}
	oracle := auth.NewStaticOracle(adminIDs, nil)

	svc := service.New(engine, presenter, oracle)

	mux := http.NewServeMux()
	mux.Handle("/interactions", gateway.Handler(svc))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Operator endpoints are enabled only when a token hash is configured.
	if hash := os.Getenv("OPERATOR_TOKEN_HASH"); hash != "" {
		service.NewOperatorHandler(engine, auth.NewOperatorToken(hash)).Register(mux)
		slog.Info("Operator endpoints enabled")
	}

	handler := middleware.Logging(middleware.Metrics(mux))

	// Wrap with h2c so the platform gateway can speak HTTP/2 without TLS.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
