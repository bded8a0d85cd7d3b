package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/edvin/kitcatalog/internal/api"
	"github.com/edvin/kitcatalog/internal/config"
	"github.com/edvin/kitcatalog/internal/core"
	"github.com/edvin/kitcatalog/internal/db"
	"github.com/edvin/kitcatalog/internal/events"
	"github.com/edvin/kitcatalog/internal/logging"
	"github.com/edvin/kitcatalog/internal/metrics"
	"github.com/edvin/kitcatalog/internal/shell"
	"github.com/edvin/kitcatalog/internal/storage"
	"github.com/edvin/kitcatalog/internal/web"
)

func main() {
	migrateFlag := flag.Bool("migrate", false, "Run database migrations before starting")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	if *migrateFlag || cfg.MigrateOnStart {
		logger.Info().Msg("running database migrations")
		if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	catalogPool, err := db.NewCatalogPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to catalog database")
	}
	defer catalogPool.Close()

	resultsPool, err := db.NewResultsPool(ctx, cfg.ResultsDSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to results database")
	}
	defer resultsPool.Close()

	if err := metrics.RegisterPgxPoolMetrics(prometheus.DefaultRegisterer, "catalog", catalogPool); err != nil {
		logger.Fatal().Err(err).Msg("failed to register pool metrics")
	}
	if err := metrics.RegisterPgxPoolMetrics(prometheus.DefaultRegisterer, "results", resultsPool); err != nil {
		logger.Fatal().Err(err).Msg("failed to register pool metrics")
	}

	var publisher core.EventPublisher = events.Noop{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to message broker")
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		logger.Info().Str("exchange", cfg.AMQPExchange).Msg("publishing catalog events")
	}

	var manuals storage.ManualStore = storage.Disabled{}
	if cfg.ManualStorageEnabled() {
		store, err := storage.NewS3Store(ctx, storage.Options{
			Bucket:          cfg.ManualS3Bucket,
			Region:          cfg.ManualS3Region,
			Endpoint:        cfg.ManualS3Endpoint,
			PathStyle:       cfg.ManualS3PathStyle,
			AccessKeyID:     cfg.ManualS3AccessKeyID,
			SecretAccessKey: cfg.ManualS3SecretAccessKey,
			PublicBaseURL:   cfg.ManualPublicBaseURL,
		}, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure manual storage")
		}
		manuals = store
	}

	services := core.NewServices(catalogPool, resultsPool, publisher, cfg.JWTSecret, cfg.JWTIssuer)

	sh := shell.New(
		shell.NewSessionManager(services.Auth, cfg.SecureCookies),
		shell.NewCache(cfg.CacheSize, cfg.CacheTTL),
		shell.NewToaster(shell.DefaultToastSessions, shell.DefaultToastTTL),
	)
	pages, err := web.NewHandler(sh, services.Auth, services.Product)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load page templates")
	}

	srv := api.NewServer(logger, services, manuals, pages, cfg.CORSOrigins, map[string]api.Pinger{
		"catalog_db": catalogPool,
		"results_db": resultsPool,
	})

	tlsConfig, err := cfg.ServerTLS()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure TLS")
	}

	httpServer := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      srv,
		TLSConfig:    tlsConfig,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Bool("tls", tlsConfig != nil).Msg("starting kitcatalog server")
		var err error
		if tlsConfig != nil {
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
}
