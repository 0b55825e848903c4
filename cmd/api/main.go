package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/eventsapi/internal/cache"
	"github.com/geocoder89/eventsapi/internal/config"
	"github.com/geocoder89/eventsapi/internal/db"
	httpx "github.com/geocoder89/eventsapi/internal/http"
	"github.com/geocoder89/eventsapi/internal/http/handlers"
	"github.com/geocoder89/eventsapi/internal/observability"
	"github.com/geocoder89/eventsapi/internal/repo/memory"
	"github.com/geocoder89/eventsapi/internal/repo/postgres"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load the config set up
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracerConfig{
		ServiceName: cfg.ServiceName,
		Env:         cfg.Env,
		Endpoint:    cfg.OTelEndpoint,
	})
	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	store, closeStore, err := openStore(ctx, cfg, prom)
	if err != nil {
		log.Error("store init failed", "storage", cfg.Storage, "err", err)
		os.Exit(1)
	}
	defer closeStore()

	eventCache, closeCache := openCache(cfg)
	defer closeCache()

	// set up routers with the log
	router := httpx.NewRouter(cfg, httpx.Deps{
		Log:   log,
		Store: store,
		Cache: eventCache,
		Prom:  prom,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "storage", cfg.Storage)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			stop()
		}
	}()

	// Graceful shutdown

	<-ctx.Done()
	log.Info("server shutting down")

	shutdownCtx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
	}

	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error("tracer shutdown failed", "err", err)
	}

	log.Info("shutdown complete")
}

func openStore(ctx context.Context, cfg config.Config, prom *observability.Prom) (handlers.EventsStore, func(), error) {
	if cfg.Storage == "memory" {
		return memory.NewEventsRepo(), func() {}, nil
	}

	pool, err := db.NewPool(ctx, db.PoolConfig{
		URL:      cfg.DBURL,
		MaxConns: int32(cfg.DBMaxConns),
		AppName:  cfg.ServiceName,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("db connect: %w", err)
	}

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.Migrate(migrateCtx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}

	return postgres.NewEventsRepo(pool, prom), pool.Close, nil
}

func openCache(cfg config.Config) (cache.Cache, func()) {
	if cfg.RedisAddr == "" {
		return cache.NewMemory(cfg.CacheTTL), func() {}
	}

	c := cache.NewRedis(cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.CacheTTL,
		Prefix:   cfg.ServiceName + ":",
	})

	return c, func() { _ = c.Close() }
}
