package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"grapetracker/internal/utils/logger"
)

const defaultPingTimeout = 2 * time.Second

// Pool - то, что нужно от пула соединений (pgxpool.Pool или pgxmock)
type Pool interface {
	Ping(ctx context.Context) error
	Close()
}

// Storage - подключение к базе данных бэкенда.
// Сервер только проверяет ее доступность, схемой владеет бэкенд.
type Storage struct {
	pool        Pool
	pingTimeout time.Duration
	log         *slog.Logger
}

func New(ctx context.Context, databaseURI string, pingTimeout time.Duration, log *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(databaseURI)
	if err != nil {
		return nil, fmt.Errorf("parse database uri: %w", err)
	}
	cfg.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	return NewWithPool(pool, pingTimeout, log), nil
}

func NewWithPool(pool Pool, pingTimeout time.Duration, log *slog.Logger) *Storage {
	if pingTimeout <= 0 {
		pingTimeout = defaultPingTimeout
	}
	return &Storage{
		pool:        pool,
		pingTimeout: pingTimeout,
		log:         log.With("component", "postgres"),
	}
}

// Ping проверяет доступность базы с ограничением по времени
func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.pingTimeout)
	defer cancel()

	if err := s.pool.Ping(ctx); err != nil {
		s.log.Warn("database ping failed", logger.Err(err))
		return fmt.Errorf("database unreachable: %w", err)
	}
	return nil
}

func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}
