package redis

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
)

// Client represents a Redis client. It backs both the atomic sequence
// counters and the catalog cache.
type Client struct {
	rdb *redis.Client
}

// DB returns the underlying go-redis client.
func (c *Client) DB() *redis.Client {
	return c.rdb
}

// Close closes the connection for graceful shutdown.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// MustNewClient creates a new Redis client.
func MustNewClient() *Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", os.Getenv("ORDER_REDIS_HOST"), os.Getenv("ORDER_REDIS_PORT")),
		Password: os.Getenv("ORDER_REDIS_PASSWORD"),
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis: %v", err))
	}

	slog.Info("Redis connected")

	return &Client{
		rdb: rdb,
	}
}
