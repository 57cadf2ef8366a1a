package cache

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Dashboard stats cache keys, one entry per user
const statsKeyFmt = "invoice:stats:%d"

const statsTTL = 5 * time.Minute

var client *redis.Client

// Init initializes the Redis connection. The cache is optional: on failure
// the client stays nil and all helpers become no-ops.
func Init() error {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

// GetCachedStats returns the cached dashboard stats JSON for a user if present
func GetCachedStats(ctx context.Context, userID int) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, fmt.Sprintf(statsKeyFmt, userID)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheStats caches the dashboard stats JSON for a user
func CacheStats(ctx context.Context, userID int, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, fmt.Sprintf(statsKeyFmt, userID), data, statsTTL)
}

// InvalidateStats drops the cached stats for a user (on any invoice write)
func InvalidateStats(ctx context.Context, userID int) {
	if client == nil {
		return
	}
	client.Del(ctx, fmt.Sprintf(statsKeyFmt, userID))
}
