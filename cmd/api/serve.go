package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	_ "repairshop/api/swagger" // swagger docs
	"repairshop/internal/config"
	"repairshop/internal/eventbus"
	"repairshop/internal/handler"
	"repairshop/internal/middleware"
	"repairshop/internal/service"
	"repairshop/internal/websocket"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		logger := config.NewLogger(cfg.Log, os.Stdout)
		slog.SetDefault(logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, logger)
	},
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	b, err := openBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.close(); err != nil {
			logger.Warn("closing storage", slog.Any("error", err))
		}
	}()

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(logger)
	go wsHub.Run(ctx)

	sinks := []service.NotificationSink{wsHub}
	if cfg.Notify.Kafka.Enabled {
		kafkaSink, err := eventbus.NewKafkaSink(eventbus.Config{
			Brokers: cfg.Notify.Kafka.Brokers,
			Topic:   cfg.Notify.Kafka.Topic,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := kafkaSink.Close(); err != nil {
				logger.Warn("closing kafka writer", slog.Any("error", err))
			}
		}()
		sinks = append(sinks, kafkaSink)
		logger.Info("publishing notifications to kafka", slog.String("topic", cfg.Notify.Kafka.Topic))
	}

	directory := service.NewClientDirectory(b.clients, cfg.Cache.ClientTTL)
	go directory.Start()
	defer directory.Stop()

	notifier := service.NewNotifier(b.notifications, logger, sinks...)
	deps := service.WorkflowDeps{
		Orders:            b.orders,
		Sequences:         b.sequences,
		Clients:           b.clients,
		Scheduled:         b.scheduled,
		Inventory:         b.inventory,
		Movements:         b.movements,
		Transactions:      b.transactions,
		Audit:             b.audit,
		TxManager:         b.txManager,
		Notifier:          notifier,
		Directory:         directory,
		Logger:            logger,
		StrictTransitions: cfg.Workflow.StrictTransitions,
		Now:               time.Now,
	}

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := handler.NewRouter(handler.Services{
		WorkOrders:    service.NewWorkOrderService(deps),
		Transactions:  service.NewTransactionService(deps),
		Inventory:     service.NewInventoryService(deps),
		Scheduled:     service.NewScheduledServiceService(deps),
		Clients:       service.NewClientService(deps),
		Taxonomy:      service.NewTaxonomyService(b.taxonomy),
		Notifications: notifier,
		Statistics:    service.NewStatisticsService(b.statistics),
		Audit:         service.NewAuditService(b.audit),
		Users:         service.NewUserService(b.users, b.clients, []byte(cfg.JWT.Secret), cfg.JWT.TTL),
	}, handler.RouterConfig{
		Secret:      []byte(cfg.JWT.Secret),
		CORSOrigins: cfg.CORS.Origins,
		Cookie:      middleware.CookieOptions{Secure: cfg.Production(), MaxAge: cfg.JWT.TTL},
		Hub:         wsHub,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", srv.Addr), slog.String("storage", cfg.Storage.Driver))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
