package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fieldcrm/internal/config"
	"fieldcrm/internal/crm"
	"fieldcrm/internal/logger"
	"fieldcrm/internal/metrics"
	"fieldcrm/internal/server"
	"fieldcrm/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
)

const serviceName = "fieldcrm"

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "server stopped", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.App.Location()
	if err != nil {
		return err
	}

	backend, err := storage.Open(ctx, cfg, logg)
	if err != nil {
		return err
	}
	slots := storage.New(backend, logg)
	defer func() {
		err = multierr.Append(err, slots.Close())
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec := metrics.New(registry)

	store, err := crm.Load(ctx, slots,
		crm.WithLocation(loc),
		crm.WithLogger(logg),
		crm.WithMetrics(rec),
		crm.WithSeedUsers(cfg.App.SeedUsers),
	)
	if err != nil {
		return err
	}

	if cfg.App.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := server.NewRouter(server.Deps{
		Config:   cfg,
		Store:    store,
		Logger:   logg,
		Metrics:  rec,
		Gatherer: registry,
	})
	if err != nil {
		return err
	}

	addr := ":" + cfg.App.ServerPort
	srv := &http.Server{Addr: addr, Handler: router}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"backend": cfg.Store.Backend,
	})
	logg.Info(logCtx, "starting server")

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
