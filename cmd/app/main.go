// Package main starts the dispatch service: REST API, WebSocket tracking
// relay and the background dispatch/expiry sweeps.
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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"dispatch/cmd"
	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/jobs"
)

const shutdownTimeout = 5 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := cmd.ParseConfig()
	if err != nil {
		logger.Error("Configuration error", "error", err)
		os.Exit(1)
	}

	gormDB, err := gorm.Open(gormpostgres.Open(cfg.DBConnectionString()), &gorm.Config{})
	if err != nil {
		logger.Error("Database connection error", "error", err)
		os.Exit(1)
	}

	root, err := cmd.NewCompositionRoot(cfg, gormDB, logger)
	if err != nil {
		logger.Error("Composition error", "error", err)
		os.Exit(1)
	}
	defer root.Close()

	if err := root.MigrateDB(); err != nil {
		logger.Error("Migration error", "error", err)
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := httpin.NewServer(
		root.CreateCreateOrderCommandHandler(),
		root.CreateCancelOrderCommandHandler(),
		root.CreateAdvanceOrderCommandHandler(),
		root.CreateConfirmDeliveryCommandHandler(),
		root.CreateRegenerateConfirmationCodeCommandHandler(),
		root.CreateAcceptOfferCommandHandler(),
		root.CreateDeclineOfferCommandHandler(),
		root.CreateCreateCourierCommandHandler(),
		root.CreateSetCourierAvailabilityCommandHandler(),
		root.CreateReportLocationCommandHandler(),
		root.CreateGetOrderQueryHandler(),
		root.CreateGetActiveOrdersQueryHandler(),
		root.CreateGetCouriersQueryHandler(),
		root.CreateGetCourierPositionQueryHandler(),
	)
	server.RegisterRoutes(e)

	trackingHandler, err := root.CreateTrackingHandler()
	if err != nil {
		logger.Error("Tracking handler error", "error", err)
		os.Exit(1)
	}
	trackingHandler.RegisterRoutes(e)

	jobManager := jobs.NewJobManager(
		root.CreateDispatchOrdersCommandHandler(),
		root.CreateExpireOffersCommandHandler(),
		logger,
	)
	if err := jobManager.StartAll(); err != nil {
		logger.Error("Job start error", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting dispatch server", "port", cfg.HTTPPort)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application terminated with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
