// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	accountpg "github.com/assoplat/assoplat/internal/account/postgres"
	"github.com/assoplat/assoplat/internal/auth"
	"github.com/assoplat/assoplat/internal/config"
	"github.com/assoplat/assoplat/internal/logging"
	"github.com/assoplat/assoplat/internal/session"
	sessionpg "github.com/assoplat/assoplat/internal/session/postgres"
	"github.com/assoplat/assoplat/internal/store"
	"github.com/assoplat/assoplat/internal/web"
)

const (
	serviceName     = "assoplat"
	shutdownTimeout = 5 * time.Second
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server. Sessions and accounts are stored in
PostgreSQL; run "assoplat migrate up" first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServeWithDeps(cmd.Context(), cfg, cmd, nil)
		},
	}

	config.RegisterFlags(cmd.Flags())

	return cmd
}

// runServeWithDeps starts the server with injectable dependencies and blocks
// until a signal arrives, ctx is cancelled or a server fails.
func runServeWithDeps(ctx context.Context, cfg *config.Config, cmd *cobra.Command, deps *ServeDeps) error {
	deps = deps.withDefaults()

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.Setup(logging.Options{
		Service: serviceName,
		Version: version,
		Format:  cfg.LogFormat,
		Level:   level,
	}, deps.LogWriter)
	slog.SetDefault(logger)

	if cfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database URL is required (--database-url, database_url or $%s)", config.DatabaseURLEnv)
	}
	codec, err := session.CodecByName(cfg.Session.Codec)
	if err != nil {
		return err
	}

	logger.Info("starting server",
		"http_addr", cfg.HTTPAddr,
		"log_format", cfg.LogFormat,
		"session_codec", cfg.Session.Codec,
		"session_lifetime", cfg.Session.Lifetime,
	)

	pool, err := deps.PoolFactory(ctx, cfg.DatabaseURL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer pool.Close()

	logger.Info("connected to database")

	svc, err := auth.NewService(
		accountpg.NewAccountRepository(pool),
		accountpg.NewCredentialRepository(pool),
		accountpg.NewUserInfoRepository(pool),
		store.NewTransactor(pool),
		auth.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	sessions := sessionpg.NewSessionRepository(pool)
	sessionStore, err := session.NewStore(sessions, cfg.Session.StoreConfig(),
		session.WithCodec(codec),
		session.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	router := web.NewRouter(sessionStore, web.NewAuthHandlers(svc).Routes(), logger)
	apiServer := web.NewServer(cfg.HTTPAddr, otelhttp.NewHandler(router, serviceName))
	apiErrCh, err := apiServer.Start()
	if err != nil {
		return err
	}
	go monitorServerErrors(ctx, cancel, apiErrCh, "api")

	var sweeper *session.Sweeper
	if cfg.Session.SweepInterval > 0 {
		sweeper = session.NewSweeper(sessions, cfg.Session.SweepInterval)
		sweeper.SetLogger(logger)
		if err := sweeper.Start(ctx); err != nil {
			stopServer(apiServer.Stop, "api")
			return err
		}
		logger.Info("session sweeper started", "interval", cfg.Session.SweepInterval)
	}

	var obsServer ObservabilityServer
	if cfg.MetricsAddr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.MetricsAddr, version, pool.Ping,
			session.RegisterMetrics,
			auth.RegisterMetrics,
		)
		obsErrCh, err := obsServer.Start()
		if err != nil {
			if sweeper != nil {
				sweeper.Stop()
			}
			stopServer(apiServer.Stop, "api")
			return oops.With("operation", "start observability server").Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("Server started")
	logger.Info("server ready", "http_addr", apiServer.Addr())
	if deps.OnReady != nil {
		deps.OnReady(apiServer.Addr())
	}

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	logger.Info("shutting down...")

	stopServer(apiServer.Stop, "api")
	if sweeper != nil {
		sweeper.Stop()
	}
	if obsServer != nil {
		stopServer(obsServer.Stop, "observability")
	}

	logger.Info("shutdown complete")
	return nil
}

func stopServer(stop func(context.Context) error, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := stop(ctx); err != nil {
		slog.Warn("error stopping server", "server", name, "error", err)
	}
}

// monitorServerErrors cancels ctx when a server reports an error.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
