package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/order-desk/internal/api/http"
	"github.com/spec-kit/order-desk/internal/api/http/handlers"
	"github.com/spec-kit/order-desk/internal/config"
	"github.com/spec-kit/order-desk/internal/events"
	"github.com/spec-kit/order-desk/internal/observability"
	"github.com/spec-kit/order-desk/internal/persistence"
	"github.com/spec-kit/order-desk/internal/repository"
	"github.com/spec-kit/order-desk/internal/service"
	"github.com/spec-kit/order-desk/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	rds := persistence.NewRedis(cfg.Redis, logger)
	defer rds.Close()

	var (
		orderRepo  repository.OrderRepository
		ticketRepo repository.TicketRepository
		replyRepo  repository.TicketReplyRepository
		statsRepo  repository.StatsRepository
	)
	if pool := pg.PoolHandle(); pool != nil {
		orderRepo = repository.NewOrderRepository(pool)
		ticketRepo = repository.NewTicketRepository(pool)
		replyRepo = repository.NewTicketReplyRepository(pool)
		statsRepo = repository.NewStatsRepository(pool)
	} else {
		logger.Warn("no postgres DSN configured; using in-memory store")
		store := repository.NewMemoryStore()
		orderRepo = store.Orders()
		ticketRepo = store.Tickets()
		replyRepo = store.Replies()
		statsRepo = store.Stats()
	}

	dispatcher := events.NewInMemoryDispatcher()

	orderService := service.NewOrderService(service.OrderDependencies{
		OrderRepo:  orderRepo,
		Dispatcher: dispatcher,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		ReplyRepo:  replyRepo,
		OrderRepo:  orderRepo,
		Dispatcher: dispatcher,
	})
	statsService := service.NewStatsService(service.StatsDependencies{
		StatsRepo: statsRepo,
		Cache:     rds.Client,
		Logger:    logger,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	if cfg.Seed.OnEmpty {
		seedService := service.NewSeedService(service.SeedDependencies{
			OrderRepo:  orderRepo,
			TicketRepo: ticketRepo,
			ReplyRepo:  replyRepo,
			Logger:     logger,
			RandomSeed: cfg.Seed.RandomSeed,
		})
		if err := seedService.Run(ctx); err != nil {
			logger.Error("failed to seed sample data", zap.Error(err))
		}
	}

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, rds),
		Orders:  handlers.NewOrdersHandler(orderService, ticketService),
		Tickets: handlers.NewTicketsHandler(ticketService, orderService),
		Stats:   handlers.NewStatsHandler(statsService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
