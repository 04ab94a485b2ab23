package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"cache-service/core/cache"
	"cache-service/core/loader"
	"cache-service/core/logger"
	"cache-service/core/middleware/rayid"
	"cache-service/core/rpc"
	"cache-service/feature/catalog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const metricsNamespace = "catalog"

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the caching service",
	Long:  `Starts the gRPC caching service and the HTTP admin server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := loadEnvironment()
		if err != nil {
			return err
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if err := cfg.Server.Validate(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, closeStore, err := openUpstream(ctx, cfg, logg)
		if err != nil {
			return err
		}
		defer closeStore()

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		service := catalog.NewService(store, cfg.Catalog, cfg.Cache, logg, cache.NewMetrics(metricsNamespace, reg))
		grpcServer := rpc.NewServer(cfg.Server, catalog.NewGRPCServer(service), logg, rpc.NewMetrics(metricsNamespace, reg))

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// RayID first so every later log line carries it.
		app.Use(rayid.New())
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Debug("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Get("/healthz", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

		mgr := loader.NewManager()
		mgr.Register(catalog.NewFeature(service, logg))
		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		errs := make(chan error, 2)
		go func() {
			errs <- grpcServer.Listen(cfg.Server.GRPCAddress)
		}()
		go func() {
			logg.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
			errs <- app.Listen(":" + cfg.Server.Port)
		}()

		select {
		case <-ctx.Done():
			logg.Info("Shutting down servers...")
		case err = <-errs:
			if err != nil {
				logg.Error("Server stopped unexpectedly", zap.Error(err))
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		grpcServer.Shutdown(shutdownCtx)
		if shutdownErr := app.ShutdownWithContext(shutdownCtx); shutdownErr != nil {
			err = errors.Join(err, shutdownErr)
		}
		return err
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
