package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grubline/order-svc/internal/cache"
	"github.com/grubline/order-svc/internal/dal/postgres"
	"github.com/grubline/order-svc/internal/dal/rabbitmq"
	"github.com/grubline/order-svc/internal/dal/redis"
	catalogrepo "github.com/grubline/order-svc/internal/dal/repositories/catalog/postgres"
	orderrepo "github.com/grubline/order-svc/internal/dal/repositories/order/postgres"
	outboxrepo "github.com/grubline/order-svc/internal/dal/repositories/outbox/postgres"
	"github.com/grubline/order-svc/internal/jaeger"
	"github.com/grubline/order-svc/internal/sequence"
	"github.com/grubline/order-svc/internal/service/services/cartsvc"
	"github.com/grubline/order-svc/internal/service/services/catalogsvc"
	"github.com/grubline/order-svc/internal/service/services/ordersvc"
	"github.com/grubline/order-svc/internal/service/services/shopsvc"
	httptransport "github.com/grubline/order-svc/internal/transport/http"
	outboxworker "github.com/grubline/order-svc/internal/worker/outbox"
	"github.com/grubline/order-svc/internal/worker/reaper"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
)

// App wires storage, services, background workers and the HTTP transport
// together and owns their lifecycle.
type App struct {
	pgClient     *postgres.Client
	redisClient  *redis.Client
	rabbitClient *rabbitmq.Client
	tracer       *tracesdk.TracerProvider

	transport    *httptransport.HTTPTransport
	reaper       *reaper.Worker
	outboxWorker *outboxworker.Worker
}

// MustNewApp creates a new App.
func MustNewApp() *App {
	tracer := jaeger.MustSetupTracing()

	pgClient := postgres.MustNewClient()
	redisClient := redis.MustNewClient()
	rabbitClient := rabbitmq.MustNewClient()

	store := cache.NewStore(redisClient.DB())
	invalidator := cache.NewInvalidator(store)
	seq := sequence.NewGenerator(redisClient.DB())

	orderService := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(pgClient),
		ordersvc.WithSequencer(seq),
	)
	cartService := cartsvc.MustNewCartService(
		cartsvc.WithPostgresClient(pgClient),
	)
	catalogService := catalogsvc.MustNewCatalogService(
		catalogsvc.WithRepository(catalogrepo.NewPostgresCatalogRepository(pgClient.Pool())),
		catalogsvc.WithCache(store, invalidator),
	)
	shopService := shopsvc.NewShopService(store)

	transport := httptransport.NewHTTPTransport(orderService, cartService, catalogService, shopService)
	transport.RegisterRoutes()

	return &App{
		pgClient:     pgClient,
		redisClient:  redisClient,
		rabbitClient: rabbitClient,
		tracer:       tracer,
		transport:    transport,
		reaper: reaper.NewWorker(
			orderrepo.NewPostgresOrderRepository(pgClient.Pool()),
			store,
		),
		outboxWorker: outboxworker.NewWorker(
			outboxrepo.NewPostgresOutboxRepository(pgClient.Pool()),
			rabbitClient,
		),
	}
}

// Run starts the workers and the HTTP transport, then blocks until a
// termination signal arrives and shuts everything down gracefully.
func (a *App) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.reaper.Start(ctx)
	go a.outboxWorker.Start(ctx)

	go func() {
		if err := a.transport.Run(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "error", err)
			cancel()
		}
	}()

	slog.Info("Order service started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	slog.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := a.transport.Shutdown(shutdownCtx); err != nil {
		slog.Error("Failed to shut down HTTP server", "error", err)
	}

	a.reaper.Stop()
	a.outboxWorker.Stop()

	if err := a.tracer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Failed to shut down tracer provider", "error", err)
	}
	if err := a.rabbitClient.Close(); err != nil {
		slog.Error("Failed to close RabbitMQ connection", "error", err)
	}
	if err := a.redisClient.Close(); err != nil {
		slog.Error("Failed to close Redis connection", "error", err)
	}
	a.pgClient.Close()

	slog.Info("Order service stopped")
}
