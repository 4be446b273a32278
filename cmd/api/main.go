package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/geocoder89/coursehub/internal/catalog"
	"github.com/geocoder89/coursehub/internal/config"
	"github.com/geocoder89/coursehub/internal/domain/course"
	"github.com/geocoder89/coursehub/internal/domain/user"
	httpx "github.com/geocoder89/coursehub/internal/http"
	"github.com/geocoder89/coursehub/internal/notifications"
	"github.com/geocoder89/coursehub/internal/observability"
	"github.com/geocoder89/coursehub/internal/session"
	"github.com/geocoder89/coursehub/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("coursehub exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	// Load the config set up
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, cfg.TracingEnabled, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer func() {
		sctx, cancel := config.WithTimeout(5 * time.Second)
		defer cancel()
		if err := shutdownTracer(sctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(reg)

	backend, closeBackend, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeBackend()

	store := storage.Instrument(backend, prom)

	creds, err := user.NewCredentialTable(user.DefaultCredentials())
	if err != nil {
		return fmt.Errorf("build credential table: %w", err)
	}

	seed, err := course.LoadSeedFile(cfg.CatalogSeedFile)
	if err != nil {
		return fmt.Errorf("load catalog seed: %w", err)
	}

	notifier := notifications.NewLogNotifier(log)

	sess := session.New(session.Options{
		Storage:         store,
		Credentials:     creds,
		Notifier:        notifier,
		Prom:            prom,
		Logger:          log,
		Delay:           cfg.AuthDelay,
		RegisterSignups: cfg.RegisterSignups,
	})

	// stores load once at start-up
	loadCtx, cancelLoad := context.WithTimeout(ctx, 10*time.Second)
	defer cancelLoad()

	if err := sess.Restore(loadCtx); err != nil {
		return err
	}

	cat := catalog.New(catalog.Options{
		Storage:                     store,
		Session:                     sess,
		Notifier:                    notifier,
		Prom:                        prom,
		Logger:                      log,
		Seed:                        seed,
		LegacyEnrollmentPersistence: cfg.LegacyEnrollmentPersistence,
	})
	if err := cat.Load(loadCtx); err != nil {
		return err
	}
	sess.Subscribe(cat.OnSession)

	var shuttingDown atomic.Bool

	router := httpx.NewRouter(httpx.Deps{
		Log:      log,
		Cfg:      cfg,
		Session:  sess,
		Catalog:  cat,
		Prom:     prom,
		Gatherer: reg,
		Ping:     func(ctx context.Context) error { return storage.Ping(ctx, backend) },

		ShuttingDown: shuttingDown.Load,
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

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "storage", cfg.StorageBackend)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		shuttingDown.Store(true)
		log.Info("server shutting down")

		sctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		log.Info("shutdown complete")
		return nil
	})

	return g.Wait()
}
