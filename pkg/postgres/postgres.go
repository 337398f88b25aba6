// Package postgres wraps pgxpool with a squirrel statement builder and
// small helpers shared by the repositories.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const connectTimeout = 20 * time.Second

// Executor is the subset of pgx operations repositories run. Both
// *pgxpool.Pool and pgx.Tx satisfy it, so repository code works unchanged
// inside and outside transactions.
type Executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres holds the connection pool and the placeholder-aware builder.
type Postgres struct {
	Pool    *pgxpool.Pool
	Builder squirrel.StatementBuilderType
}

// Option configures the pool before it is created.
type Option func(*pgxpool.Config)

// MaxPoolSize caps the number of pooled connections.
func MaxPoolSize(size int) Option {
	return func(cfg *pgxpool.Config) {
		if size > 0 {
			cfg.MaxConns = int32(size)
		}
	}
}

// New connects to the database and verifies the connection with a ping.
func New(url string, opts ...Option) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	for _, opt := range opts {
		opt(poolCfg)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &Postgres{
		Pool:    pool,
		Builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// InTransaction runs fn inside a transaction, committing on nil and rolling
// back on error.
func (p *Postgres) InTransaction(ctx context.Context, fn func(tx Executor) error) error {
	tx, err := p.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	return tx.Commit(ctx)
}

// Close releases the pool.
func (p *Postgres) Close() {
	p.Pool.Close()
}

// IsPgErrorUniqueViolation reports whether err is a unique constraint
// violation (SQLSTATE 23505).
func IsPgErrorUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
