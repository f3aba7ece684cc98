package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xavierca1/cohort-crm/internal/config"
	"github.com/xavierca1/cohort-crm/internal/infra/database"
	"github.com/xavierca1/cohort-crm/internal/infra/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cohort-crm",
		Short: "CRM de leads e coortes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
		SilenceUsage: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Sobe a API HTTP e os workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Aplica o schema embutido no banco",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context())
		},
	})

	return root
}

func runMigrate(ctx context.Context) error {
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL não configurada")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := database.NewDBConnection(ctx, cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	return database.Migrate(ctx, db)
}

func runServe(parent context.Context) error {
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	flush, err := logger.InitSentry(cfg.SentryDSN, cfg.Environment)
	if err != nil {
		logrus.WithError(err).Warn("⚠️ Sentry não inicializado")
	}
	defer flush()

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := buildApp(ctx, cfg)
	defer app.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("port", cfg.Port).Info("🔥 Cohort CRM rodando")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	logrus.Info("⚠️ desligando servidor")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
