package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invoicegate/internal/app"
	"invoicegate/internal/config"
	"invoicegate/internal/handler"
	"invoicegate/internal/logging"
	"invoicegate/internal/router"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The console report goes alongside human-readable logs only.
	var console io.Writer
	if !strings.EqualFold(cfg.Log.Format, "json") {
		console = os.Stdout
	}

	a, err := app.New(ctx, cfg, logger, app.Options{Console: console})
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("shutdown cleanup failed", zap.Error(err))
		}
	}()

	if a.Scheduler != nil {
		go a.Scheduler.Start(ctx)
	}

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	r := router.Setup(router.Handlers{
		Invoice: handler.NewInvoiceHandler(a.Invoices, cfg.Upload.MaxBytes()),
		Job:     handler.NewJobHandler(a.Jobs),
		Sweep:   handler.NewSweepHandler(a.Sweeps),
		Health:  handler.NewHealthHandler(a.Health, a.Pinger),
	}, router.Options{
		Logger:             logging.Component(logger, "http"),
		Metrics:            a.Metrics,
		MetricsPath:        metricsPath,
		AllowedOrigins:     cfg.CORS.AllowedOrigins,
		MaxMultipartMemory: cfg.Upload.MaxBytes(),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("parser", cfg.Parser.Provider),
			zap.String("model", cfg.Parser.Model),
			zap.String("store", cfg.Store.Backend),
			zap.String("notifier", cfg.Notifier.Provider),
			zap.Bool("mail_monitoring", a.Scheduler != nil),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
