package database

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis opens a Redis connection for refresh tokens and background
// jobs. An empty addr is allowed in development: the caller gets a nil
// client and token storage degrades to no-ops.
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	if addr == "" {
		log.Println("⚠️ REDIS_URI not set. Refresh tokens and background jobs are disabled.")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Println("✅ Redis connected successfully")
	return client, nil
}
