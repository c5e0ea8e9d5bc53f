package config

import (
	"context"
	"crypto/tls"
	"fmt"
	"math"
	"time"

	"github.com/campusdesk/swo-feedback/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// ConfigurePostgresPool builds a pgxpool.Config from DatabaseConfig, applying
// pool limits and logging only non-sensitive connection details.
func ConfigurePostgresPool(cfg *DatabaseConfig) (*pgxpool.Config, error) {
	log := logger.GetLogger()

	connStr := cfg.URL()
	log.Infow("Connecting to database",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.Name,
		"sslmode", cfg.SSLMode,
		"connection_string", logger.MaskConnectionString(connStr))

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if cfg.SSLMode == "require" {
		poolConfig.ConnConfig.TLSConfig = &tls.Config{
			ServerName: cfg.Host,
			MinVersion: tls.VersionTLS12,
		}
	}

	connMaxLife, err := time.ParseDuration(cfg.ConnMaxLife)
	if err != nil {
		log.Warnw("Invalid connection max lifetime, using default 1h", "value", cfg.ConnMaxLife, "error", err)
		connMaxLife = time.Hour
	}

	poolConfig.MaxConns = clampInt32(cfg.MaxOpenConns)
	poolConfig.MinConns = clampInt32(cfg.MaxIdleConns)
	if poolConfig.MinConns > poolConfig.MaxConns {
		poolConfig.MinConns = poolConfig.MaxConns
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "swo-feedback"
	poolConfig.MaxConnLifetime = connMaxLife
	poolConfig.HealthCheckPeriod = 30 * time.Second
	poolConfig.ConnConfig.ConnectTimeout = 5 * time.Second

	log.Infow("Configured database connection pool",
		"max_conns", poolConfig.MaxConns,
		"min_conns", poolConfig.MinConns,
		"max_conn_lifetime", connMaxLife.String())

	return poolConfig, nil
}

func clampInt32(n int) int32 {
	switch {
	case n < 0:
		return 0
	case n > math.MaxInt32:
		return math.MaxInt32
	}
	return int32(n)
}

// ConfigureRedisOptions creates redis.Options from RedisConfig. TLS is enabled
// when UseTLS is set.
func ConfigureRedisOptions(cfg *RedisConfig) *redis.Options {
	log := logger.GetLogger()

	redisOptions := &redis.Options{
		Addr:            cfg.Address,
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		ConnMaxLifetime: time.Hour,
		MaxRetries:      3,
		MinRetryBackoff: 100 * time.Millisecond,
		MaxRetryBackoff: 2 * time.Second,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
	}

	log.Infow("Configuring Redis connection",
		"address", cfg.Address,
		"db", cfg.DB,
		"pool_size", cfg.PoolSize,
		"use_tls", cfg.UseTLS)

	if cfg.UseTLS {
		redisOptions.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	return redisOptions
}

// TestRedisConnection pings Redis, retrying a few times before giving up.
func TestRedisConnection(ctx context.Context, client redis.UniversalClient, maxRetries int, retryDelay time.Duration) error {
	log := logger.GetLogger()
	var err error

	for i := 0; i < maxRetries; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err = client.Ping(pingCtx).Err()
		cancel()

		if err == nil {
			if i > 0 {
				log.Infow("Successfully connected to Redis after retries", "attempt", i+1)
			}
			return nil
		}

		if i < maxRetries-1 {
			log.Warnw("Failed to ping Redis, retrying...",
				"error", err,
				"attempt", i+1,
				"max_attempts", maxRetries)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay):
			}
		}
	}

	return fmt.Errorf("failed to ping Redis after %d attempts: %w", maxRetries, err)
}
