package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"idp-gateway/internal/authorize/acr"
	"idp-gateway/internal/authorize/claims"
	authhandler "idp-gateway/internal/authorize/handler"
	"idp-gateway/internal/authorize/service"
	"idp-gateway/internal/cache"
	"idp-gateway/internal/client"
	"idp-gateway/internal/gateway"
	"idp-gateway/internal/platform/config"
	"idp-gateway/internal/platform/httpserver"
	"idp-gateway/internal/platform/logger"
	"idp-gateway/internal/platform/metrics"
	redisplatform "idp-gateway/internal/platform/redis"
	"idp-gateway/internal/token"
	"idp-gateway/pkg/platform/audit/publisher"
	auditkafka "idp-gateway/pkg/platform/audit/store/kafka"
	auditmemory "idp-gateway/pkg/platform/audit/store/memory"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal services.
func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("config load failed", "error", err)
		os.Exit(1)
	}

	acrResolver, err := acr.NewFromFile(cfg.ACRMappingPath)
	if err != nil {
		log.Error("acr mapping load failed", "path", cfg.ACRMappingPath, "error", err)
		os.Exit(1)
	}
	claimsResolver := claims.NewResolver(cfg.ScopeClaims)

	uiConfigs, err := loadUIConfigs(cfg.UIConfigPath)
	if err != nil {
		log.Error("ui config load failed", "path", cfg.UIConfigPath, "error", err)
		os.Exit(1)
	}

	txnCache, redisClient := buildTransactionCache(cfg, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	registry, db := buildClientRegistry(cfg, log)
	if db != nil {
		defer db.Close()
	}

	auditPub, closeAudit := buildAuditPublisher(cfg, log)
	defer closeAudit()

	m := metrics.New()

	authn := gateway.NewHTTPAuthenticator(
		cfg.Gateway,
		gateway.WithLogger(log),
		gateway.WithLatencyObserver(m.ObserveGatewayLatency),
	)

	authSvc := service.NewService(
		registry, txnCache, authn, acrResolver, claimsResolver,
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithAuditPublisher(auditPub),
		service.WithLicenseKey(cfg.LicenseKey),
		service.WithAuthorizeScopes(cfg.AuthorizeScopes),
		service.WithUIConfigs(uiConfigs),
	)
	tokenSvc := token.NewService(
		registry, txnCache, cfg.JWTSigningKey, cfg.TokenIssuer,
		token.WithLogger(log),
		token.WithAuditPublisher(auditPub),
	)

	router := chi.NewRouter()
	authhandler.New(authSvc, log).Register(router)
	token.NewHandler(tokenSvc, log).Register(router)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				http.Error(w, "cache unreachable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting idp-gateway", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// buildTransactionCache prefers Redis and falls back to process memory for
// local development.
func buildTransactionCache(cfg config.Server, log *slog.Logger) (service.TransactionCache, *redisplatform.Client) {
	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient == nil {
		log.Warn("redis not configured, transactions held in process memory")
		return cache.NewInMemory(config.TransactionTTL), nil
	}
	return cache.NewRedis(redisClient.Client, config.TransactionTTL, config.AuthCodeTTL), redisClient
}

// buildClientRegistry prefers PostgreSQL and falls back to an empty in-memory
// registry for local development.
func buildClientRegistry(cfg config.Server, log *slog.Logger) (client.Registry, *sql.DB) {
	if cfg.Postgres.DSN == "" {
		log.Warn("postgres not configured, client registry held in process memory")
		return client.NewInMemoryRegistry(), nil
	}
	db, err := sql.Open("pgx", cfg.Postgres.DSN)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	return client.NewPostgresRegistry(db), db
}

func buildAuditPublisher(cfg config.Server, log *slog.Logger) (*publisher.Publisher, func()) {
	var store publisher.Store
	var closeStore func()
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaStore, err := auditkafka.NewStore(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("kafka audit sink connection failed", "error", err)
			os.Exit(1)
		}
		store = kafkaStore
		closeStore = kafkaStore.Close
	} else {
		log.Warn("kafka not configured, audit events held in process memory")
		store = auditmemory.NewInMemoryStore()
		closeStore = func() {}
	}

	pub := publisher.NewPublisher(store,
		publisher.WithAsyncBuffer(256),
		publisher.WithLogger(log),
	)
	return pub, func() {
		pub.Close()
		closeStore()
	}
}

func loadUIConfigs(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var configs map[string]any
	if err := json.Unmarshal(raw, &configs); err != nil {
		return nil, err
	}
	return configs, nil
}
