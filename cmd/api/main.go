package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"azimute/internal/app"
	"azimute/internal/config"
	"azimute/internal/database/migration"
	handlers "azimute/internal/http/handler"
	"azimute/internal/http/middleware"
	"azimute/internal/logging"
	"azimute/internal/otel"
)

// maxUploadSize bounds request bodies, spreadsheets included.
const maxUploadSize = 20 << 20

// @title Azimute API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log, err := logging.New(cfg.Log, cfg.Location())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server_stopped", zap.Error(err))
	}
}

func run(cfg *config.AppConfig, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a, err := app.New(ctx, cfg, log, app.Options{Registerer: reg})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := migration.EnsureMigrated(ctx, a.DB, log, cfg.Database.Host); err != nil {
		return err
	}

	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}

	server := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    maxUploadSize,
	})

	server.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	server.Use(middleware.RequestID())
	server.Use(middleware.Logger(log))
	server.Use(promMiddleware.Handler())

	handlers.RegisterMetrics(server, reg)
	handlers.RegisterDocs(server)
	handlers.RegisterRoutes(server, a.DB, a.Services)

	go func() {
		<-ctx.Done()
		log.Info("server_shutdown")
		_ = server.ShutdownWithTimeout(10 * time.Second)
	}()

	addr := ":" + cfg.App.Port
	log.Info("server_listening", zap.String("addr", addr))
	return server.Listen(addr)
}
