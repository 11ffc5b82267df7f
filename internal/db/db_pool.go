package db

import (
	"context"
	"fmt"
	"log/slog"
	"nexus-gateway/internal/config"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig собирает pgxpool.Config из настроек шлюза. statement_timeout
// ограничивает запросы к журналу и FOR UPDATE блокировки.
func PoolConfig(cfg config.DBConfig) (*pgxpool.Config, error) {
	conf, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("не удалось распарсить DSN: %w", err)
	}

	conf.MaxConns = cfg.MaxConns
	conf.MinConns = cfg.MinConns
	conf.HealthCheckPeriod = cfg.HealthCheckPeriod
	conf.MaxConnLifetime = 30 * time.Minute
	conf.MaxConnIdleTime = 5 * time.Minute
	conf.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	if cfg.AppName != "" {
		conf.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	if cfg.StatementTimeout > 0 {
		conf.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(cfg.StatementTimeout.Milliseconds(), 10)
	}
	return conf, nil
}

// NewPool подключение с повторами: задержка удваивается, отмена ctx прерывает ожидание
func NewPool(ctx context.Context, cfg config.DBConfig, log *slog.Logger) (*pgxpool.Pool, error) {
	conf, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	log = log.With(
		slog.String("host", cfg.Host),
		slog.String("db", cfg.DBName),
		slog.String("application_name", cfg.AppName))

	for attempt := 1; attempt <= cfg.RetryAttempts; attempt++ {
		var pool *pgxpool.Pool
		pool, err = pgxpool.NewWithConfig(ctx, conf)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				log.Info("подключение к базе данных успешно",
					slog.Int("attempt", attempt),
					slog.Int("max_conns", int(cfg.MaxConns)))
				return pool, nil
			}
			pool.Close()
		}

		log.Warn("не удалось подключиться к базе данных",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.RetryAttempts),
			slog.String("error", err.Error()))

		if attempt == cfg.RetryAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("подключение к базе данных прервано: %w", ctx.Err())
		case <-time.After(cfg.RetryDelay * time.Duration(1<<(attempt-1))):
		}
	}

	return nil, fmt.Errorf("не удалось создать пул соединений после %d попыток: %w", cfg.RetryAttempts, err)
}
