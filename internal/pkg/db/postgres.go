// Package db manages the PostgreSQL connection pool and schema used by the
// postgres storage driver.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"culinary-quest/internal/config"
)

const (
	defaultConnectTimeout  = 10 * time.Second
	defaultMaxConnLifetime = time.Hour
	defaultMaxConnIdleTime = 30 * time.Minute
	healthCheckPeriod      = 30 * time.Second

	applicationName = "culinary-quest"
)

// Pool wraps pgxpool.Pool with additional functionality.
type Pool struct {
	*pgxpool.Pool
}

// ParseConfig builds the pool configuration, filling unset durations with
// defaults.
func ParseConfig(cfg *config.DatabaseConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}
	// Keep a quarter of the pool warm, at least one connection.
	poolConfig.MinConns = max(1, poolConfig.MaxConns/4)

	poolConfig.ConnConfig.ConnectTimeout = orDefault(cfg.ConnectTimeout, defaultConnectTimeout)
	poolConfig.MaxConnLifetime = orDefault(cfg.MaxConnLifetime, defaultMaxConnLifetime)
	poolConfig.MaxConnIdleTime = orDefault(cfg.MaxConnIdleTime, defaultMaxConnIdleTime)
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.RuntimeParams["application_name"] = applicationName

	return poolConfig, nil
}

// NewPool connects to PostgreSQL and verifies the connection.
func NewPool(ctx context.Context, cfg *config.DatabaseConfig) (*Pool, error) {
	poolConfig, err := ParseConfig(cfg)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Name).
		Int32("max_conns", poolConfig.MaxConns).
		Msg("Connecting to PostgreSQL")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	p := &Pool{Pool: pool}
	if err := p.HealthCheck(ctx, poolConfig.ConnConfig.ConnectTimeout); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info().Msg("Successfully connected to PostgreSQL")
	return p, nil
}

// HealthCheck pings the database, giving up after timeout.
func (p *Pool) HealthCheck(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := p.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Close logs the pool statistics and closes it.
func (p *Pool) Close() {
	if p.Pool == nil {
		return
	}
	stat := p.Pool.Stat()
	log.Info().
		Int64("acquires", stat.AcquireCount()).
		Dur("acquire_wait", stat.AcquireDuration()).
		Msg("PostgreSQL connection pool closed")
	p.Pool.Close()
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
