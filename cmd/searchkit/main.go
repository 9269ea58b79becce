package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchkit/internal/config"
	dbRedis "github.com/kailas-cloud/searchkit/internal/db/redis"
	logpkg "github.com/kailas-cloud/searchkit/internal/logger"
	"github.com/kailas-cloud/searchkit/internal/metrics"
	analyticsrepo "github.com/kailas-cloud/searchkit/internal/repository/analytics"
	"github.com/kailas-cloud/searchkit/internal/repository/querycache"
	"github.com/kailas-cloud/searchkit/internal/repository/tenant"
	chiTransport "github.com/kailas-cloud/searchkit/internal/transport/chi"
	analyticsuc "github.com/kailas-cloud/searchkit/internal/usecase/analytics"
	batchuc "github.com/kailas-cloud/searchkit/internal/usecase/batch"
	documentuc "github.com/kailas-cloud/searchkit/internal/usecase/document"
	healthuc "github.com/kailas-cloud/searchkit/internal/usecase/health"
	indexuc "github.com/kailas-cloud/searchkit/internal/usecase/index"
	searchuc "github.com/kailas-cloud/searchkit/internal/usecase/search"
	statsuc "github.com/kailas-cloud/searchkit/internal/usecase/stats"
	suggestuc "github.com/kailas-cloud/searchkit/internal/usecase/suggest"
	"github.com/kailas-cloud/searchkit/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting searchkit API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.Strings("cache_addrs", cfg.Cache.Addrs),
	)

	store := tenant.New()
	recorder := analyticsrepo.NewRecorder(0, 0)

	// Query cache: in-process LRU or a shared redis/valkey keyspace.
	var (
		cache  searchuc.Cache
		pinger healthuc.CachePinger
	)
	switch cfg.Cache.Driver {
	case config.CacheDriverMemory:
		cache = querycache.NewMemory(cfg.Search.QueryCacheSize, cfg.Search.QueryCacheTTL())
	case config.CacheDriverRedis, config.CacheDriverValkey:
		// Valkey speaks the redis protocol; one client serves both.
		kvStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer kvStore.Close()

		readiness := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := kvStore.WaitForReady(context.Background(), readiness); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to cache")

		cache = querycache.NewKV(kvStore, cfg.Cache.KeyPrefix, cfg.Search.QueryCacheTTL(), logger)
		pinger = kvStore
	default:
		logger.Fatal("Unknown cache driver", zap.String("driver", cfg.Cache.Driver))
	}

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics(func() float64 {
		totals, err := store.Totals(context.Background())
		if err != nil {
			return 0
		}
		return float64(totals.Documents)
	})

	// Create use case services
	indexSvc := indexuc.New(store, cfg.Search.MaxIndexesPerTenant).WithForgetter(recorder)
	docSvc := documentuc.New(store, cfg.Search.MaxDocumentsPerIndex).WithMetrics(metrics.IndexingTotal)
	batchSvc := batchuc.New(docSvc, docSvc, indexSvc).WithMaxBatchSize(cfg.Search.MaxBatchSize)
	analyticsSvc := analyticsuc.New(recorder, store, cfg.Search.AnalyticsEnabled())
	searchSvc := searchuc.New(store, logger).
		WithCache(cache, cfg.Search.CachingEnabled()).
		WithAnalytics(analyticsSvc).
		WithQueryTimeout(cfg.Search.QueryTimeout()).
		WithMetrics(metrics.QueriesTotal, metrics.QueryDuration, metrics.QueryCacheTotal)

	server := chiTransport.NewServer(chiTransport.Services{
		Indexes:   indexSvc,
		Documents: docSvc,
		Batch:     batchSvc,
		Search:    searchSvc,
		Suggest:   suggestuc.New(store),
		Stats:     statsuc.New(store),
		Analytics: analyticsSvc,
		Health:    healthuc.New(store, pinger),
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	r.Use(chiTransport.QueryTimeoutMiddleware(cfg.Search.QueryTimeout()))
	r.Handle("/metrics", promhttp.Handler())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
