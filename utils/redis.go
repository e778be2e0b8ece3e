package utils

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// OpenRedisPool initializes a Redis connection pool. A non-empty dbName
// selects the logical database by index.
func OpenRedisPool(ctx context.Context, dsn string, dbName string) (*redis.Client, error) {
	opt, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse redis DSN: %w", err)
	}
	if dbName != "" {
		db, err := strconv.Atoi(dbName)
		if err != nil {
			return nil, fmt.Errorf("redis database must be a number, got %q", dbName)
		}
		opt.DB = db
	}

	// Configure connection pooling
	opt.PoolSize = 100
	opt.MinIdleConns = 2
	opt.DialTimeout = 5 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis db %d: %w", opt.DB, err)
	}

	return client, nil
}
