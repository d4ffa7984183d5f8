package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace/api"
	"marketplace/cmd"
	httpin "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/eventbus"
	"marketplace/internal/adapters/out/notify"
	postgresadapter "marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/rediscache"
	"marketplace/internal/core/ports"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	configs := getConfigs()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB := openDatabase(configs)
	redisClient := openRedis(ctx, configs, logger)
	events, amqpConn := openEventBus(configs, logger)
	hub := notify.NewHub()

	app, err := cmd.NewCompositionRoot(
		configs,
		gormDB,
		rediscache.NewCache(redisClient),
		events,
		selectNotifier(configs, hub),
		logger,
	)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	document, err := api.Load(ctx)
	if err != nil {
		log.Fatalf("Invalid OpenAPI document: %v", err)
	}

	server := httpin.NewServer(app.CreateHTTPHandlers(), hub, logger)
	e := httpin.NewRouter(server, httpin.RouterConfig{
		JWTSecret: configs.JWTSecret,
		Document:  document,
		Logger:    logger,
	})

	healthServer, grpcServer := startHealthServer(configs.GRPCPort, logger)

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}

	go startWebServer(e, configs.HTTPPort, stop, logger)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	logger.Info("Marketplace started", "http_port", configs.HTTPPort, "grpc_port", configs.GRPCPort)

	<-ctx.Done()
	logger.Info("Shutting down")

	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	jobManager.StopAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}

	hub.Close()
	grpcServer.GracefulStop()
	closeAll(logger, events, amqpConn, redisClient, gormDB)
}

func getConfigs() cmd.Config {
	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if err = configs.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	return configs
}

func openDatabase(configs cmd.Config) *gorm.DB {
	gormDB, err := gorm.Open(postgres.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err = postgresadapter.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	return gormDB
}

// openRedis never fails startup: the cache is an optimization and every read
// falls back to postgres.
func openRedis(ctx context.Context, configs cmd.Config, logger *slog.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     configs.RedisAddr,
		Password: configs.RedisPassword,
		DB:       configs.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, configs.SideEffectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unreachable, running on the database only", "addr", configs.RedisAddr, "error", err)
	}
	return client
}

// openEventBus falls back to an offline publisher when the broker is down.
// The publisher does not reconnect; a restart picks the broker up again.
func openEventBus(configs cmd.Config, logger *slog.Logger) (ports.EventPublisher, *amqp.Connection) {
	publisher, conn, err := eventbus.Dial(configs.AMQPURL, configs.AMQPExchange)
	if err != nil {
		logger.Warn("Event bus unreachable, events will be dropped", "error", err)
		return eventbus.NewOfflinePublisher(err), nil
	}
	return publisher, conn
}

func selectNotifier(configs cmd.Config, hub *notify.Hub) ports.Notifier {
	switch configs.Notifier {
	case cmd.NotifierWebhook:
		return notify.NewWebhookNotifier(configs.NotifierWebhookURL, configs.SideEffectTimeout)
	case cmd.NotifierNoop:
		return notify.Noop{}
	default:
		return hub
	}
}

func startHealthServer(port string, logger *slog.Logger) (*health.Server, *grpc.Server) {
	lis, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%s", port))
	if err != nil {
		log.Fatalf("Failed to listen on gRPC port %s: %v", port, err)
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC server stopped", "error", err)
		}
	}()
	return healthServer, grpcServer
}

func startWebServer(e interface{ Start(string) error }, port string, stop context.CancelFunc, logger *slog.Logger) {
	if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("HTTP server stopped", "error", err)
		stop()
	}
}

func closeAll(
	logger *slog.Logger,
	events ports.EventPublisher,
	amqpConn *amqp.Connection,
	redisClient *redis.Client,
	gormDB *gorm.DB,
) {
	if closer, ok := events.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("Closing publisher failed", "error", err)
		}
	}
	if amqpConn != nil {
		if err := amqpConn.Close(); err != nil {
			logger.Warn("Closing AMQP connection failed", "error", err)
		}
	}
	if err := redisClient.Close(); err != nil {
		logger.Warn("Closing Redis client failed", "error", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		if err = sqlDB.Close(); err != nil {
			logger.Warn("Closing database failed", "error", err)
		}
	}
}
