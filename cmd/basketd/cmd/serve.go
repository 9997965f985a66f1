package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/basketwatch/basketwatch/internal/api/handlers"
	"github.com/basketwatch/basketwatch/internal/api/middleware"
	"github.com/basketwatch/basketwatch/internal/config"
	"github.com/basketwatch/basketwatch/internal/engine"
	"github.com/basketwatch/basketwatch/internal/notify"
	"github.com/basketwatch/basketwatch/internal/store"
	"github.com/basketwatch/basketwatch/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelConnect()

	st, err := store.NewPostgresStore(
		connectCtx,
		cfg.Database.DSN(),
		store.WithPoolSize(cfg.Database.PoolSize),
	)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	runner, err := buildRunner(cfg, log)
	if err != nil {
		return fmt.Errorf("building sources: %w", err)
	}

	var notifier notify.Notifier
	if cfg.Notifications.Webhook.Enabled {
		notifier = notify.NewWebhookNotifier(
			cfg.Notifications.Webhook.URL,
			notify.WithHeaders(cfg.Notifications.Webhook.Headers),
		)
	} else {
		notifier = notify.NewNoOpNotifier(log)
	}

	eng := engine.NewEngine(st, runner, notifier,
		engine.WithLogger(log),
		engine.WithMatchConfig(cfg.Matching.MatchConfig()),
		engine.WithLocation(cfg.Location.Location()),
		engine.WithStaggerOffset(cfg.Schedule.StaggerOffset),
	)

	sched, err := engine.NewScheduler(eng, cfg.Schedule.WatchInterval, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}
	sched.Start()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Recovery(log))
	e.Use(middleware.Metrics())

	healthH := handlers.NewHealthHandler(st)
	e.GET("/healthz", healthH.Healthz)
	e.GET("/readyz", healthH.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("basketwatch API", Version))
	handlers.RegisterCompareRoutes(api, handlers.NewCompareHandler(eng))
	handlers.RegisterComparisonRoutes(api, handlers.NewComparisonsHandler(st))
	handlers.RegisterWatchRoutes(api, handlers.NewWatchHandler(st))
	handlers.RegisterJobRoutes(api, handlers.NewJobsHandler(st))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr, "sources", len(cfg.Sources))

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	<-sched.Stop().Done()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}
