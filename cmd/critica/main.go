package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"critica/internal/authz"
	"critica/internal/config"
	"critica/internal/observability/logging"
	"critica/internal/observability/metrics"
	obsmw "critica/internal/observability/middleware"
	"critica/internal/service"
	impl "critica/internal/service/impl"
	"critica/internal/store"
	httpx "critica/internal/transport/http"
	"critica/pkg/db"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: "critica",
		Environment: env,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	slog.SetDefault(logger)

	cfg := config.Load()
	metrics.MustRegister()

	gdb, err := db.OpenGorm(db.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		logger.Error("gorm open", "error", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		logger.Error("automigrate", "error", err)
		os.Exit(1)
	}

	st := store.New(gdb)

	tokens := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:     cfg.Issuer,
		Audience:   cfg.Audience,
		AccessTTL:  cfg.AccessTTL,
		SigningKey: []byte(cfg.SigningKey),
	})
	auth := impl.NewAuthServiceImpl(st, impl.NewCodeHasher(), tokens, impl.NewLogEmailSender())

	h := httpx.NewHandler(
		auth,
		service.NewUserService(st),
		service.NewCatalogService(st),
		service.NewReviewService(st),
		cfg.DefaultPageSize,
		cfg.MaxPageSize,
	)

	router := httpx.NewRouter(h, authz.NewAuthenticator(tokens, st))

	handler := obsmw.WithRequestID(obsmw.WithMetrics(router))
	handler = httprate.LimitByIP(cfg.RateLimitPerMin, time.Minute)(handler)
	handler = cors.Handler(cors.Options{
		AllowedOrigins:   splitOrigins(cfg.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	})(handler)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("critica listening", "addr", srv.Addr, "issuer", cfg.Issuer)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func splitOrigins(raw string) []string {
	out := []string{}
	for _, o := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(o); s != "" {
			out = append(out, s)
		}
	}
	// Empty means wide open, which is the sane default for local dev.
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
