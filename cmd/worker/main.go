package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"marketplace/cmd"
	"marketplace/internal/adapters/in/eventlog"
	"marketplace/internal/adapters/out/rediscache"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

// The worker consumes order events into the structured log. Redis records
// which message ids were already handled, so redeliveries are logged once.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     configs.RedisAddr,
		Password: configs.RedisPassword,
		DB:       configs.RedisDB,
	})
	defer redisClient.Close()

	if err = redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Redis is required for event deduplication: %v", err)
	}

	conn, err := amqp.Dial(configs.AMQPURL)
	if err != nil {
		log.Fatalf("Failed to connect to event bus: %v", err)
	}
	defer conn.Close()

	handler := eventlog.NewHandler(rediscache.NewCache(redisClient), logger)
	consumer, err := eventlog.NewConsumer(conn, configs.AMQPExchange, eventlog.DefaultQueue, handler, logger)
	if err != nil {
		log.Fatalf("Failed to declare event topology: %v", err)
	}
	defer consumer.Close()

	logger.Info("Event log worker started", "queue", eventlog.DefaultQueue, "binding", eventlog.BindingKey)

	err = consumer.Run(ctx)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		logger.Info("Event log worker stopped")
	default:
		logger.Error("Event log worker failed", "error", err)
		stop()
		os.Exit(1)
	}
}
