package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/appgrid/catalogd/internal/cache"
	"github.com/appgrid/catalogd/internal/catalog"
	"github.com/appgrid/catalogd/internal/config"
	"github.com/appgrid/catalogd/internal/logging"
	"github.com/appgrid/catalogd/internal/metrics"
	"github.com/appgrid/catalogd/internal/server"
	"github.com/appgrid/catalogd/internal/upstream"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	var (
		configFile = flag.String("config", "", "path to server configuration file")
		envPrefix  = flag.String("env-prefix", "CATALOGD", "environment variable prefix")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader := config.NewLoader(*envPrefix, *configFile)
	cfg, err := loader.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Server.Logging)
	if err != nil {
		log.Fatalf("failed to configure logger: %v", err)
	}

	store := buildStore(logger.With(slog.String("component", "cache_factory")), cfg.Server.Cache)

	provider, err := upstream.NewClient(upstream.Config{
		BaseURL: cfg.Server.Upstream.BaseURL,
		Timeout: time.Duration(cfg.Server.Upstream.TimeoutSeconds) * time.Second,
	}, logger)
	if err != nil {
		logger.Error("unable to construct upstream client", slog.Any("error", err))
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(promRegistry)

	service := catalog.NewService(catalog.Options{
		Provider: provider,
		Store:    store,
		TTL:      time.Duration(cfg.Server.Cache.TTLSeconds) * time.Second,
		Epoch:    cfg.Server.Cache.Epoch,
		Logger:   logger,
		Metrics:  recorder,
	})
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := service.Close(shutdownCtx); err != nil {
			logger.Error("cache shutdown failed", slog.Any("error", err))
		}
	}()

	if *configFile != "" {
		watcher, err := loader.Watch(ctx, func(next config.Config) {
			service.Reload(ctx,
				time.Duration(next.Server.Cache.TTLSeconds)*time.Second,
				next.Server.Cache.Epoch)
			logger.Info("configuration reloaded")
		}, func(err error) {
			if err != nil {
				logger.Error("config watcher error", slog.Any("error", err))
			}
		})
		if err != nil {
			logger.Error("config watcher setup failed", slog.Any("error", err))
		} else {
			defer watcher.Stop()
		}
	}

	handler := server.NewHandler(service, logger)
	mux := http.NewServeMux()
	mux.Handle("/metrics", recorder.Handler())
	mux.HandleFunc("/healthz", handler.ServeHealth)
	mux.HandleFunc("/catalog", handler.ServeCatalog)

	srv, err := server.New(cfg, logger, mux)
	if err != nil {
		logger.Error("unable to construct server", slog.Any("error", err))
		os.Exit(1)
	}

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server terminated unexpectedly", slog.Any("error", err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}

func buildStore(logger *slog.Logger, cfg config.CacheConfig) cache.Store {
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	backend := strings.TrimSpace(strings.ToLower(cfg.Backend))
	switch backend {
	case "", "memory":
		if logger != nil {
			logger.Info("using memory cache store", slog.Duration("ttl", ttl))
		}
		return cache.NewMemory(ttl)
	case "redis":
		redisStore, err := cache.NewRedis(cache.RedisConfig{
			Address:  cfg.Redis.Address,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TLS: cache.RedisTLSConfig{
				Enabled: cfg.Redis.TLS.Enabled,
				CAFile:  cfg.Redis.TLS.CAFile,
			},
		})
		if err != nil {
			if logger != nil {
				logger.Error("redis cache initialization failed", slog.Any("error", err))
				logger.Info("falling back to memory cache")
			}
			return cache.NewMemory(ttl)
		}
		if logger != nil {
			logger.Info("using redis cache store", slog.String("address", cfg.Redis.Address))
		}
		return redisStore
	default:
		if logger != nil {
			logger.Warn("unsupported cache backend, defaulting to memory", slog.String("backend", cfg.Backend))
		}
		return cache.NewMemory(ttl)
	}
}
