package xpgx

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/cenkalti/backoff/v4"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ougirez/bloodbank/internal/pkg/logger"
)

// Pool выполняет squirrel-запросы поверх пула или открытой транзакции.
type Pool interface {
	Execx(ctx context.Context, query sq.Sqlizer) (pgconn.CommandTag, error)
	Getx(ctx context.Context, dst interface{}, query sq.Sqlizer) error
	Selectx(ctx context.Context, dst interface{}, query sq.Sqlizer) error
	// BeginFunc runs fn in a transaction; inside a transaction it opens a savepoint.
	BeginFunc(ctx context.Context, fn func(Pool) error) error
}

type conn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type pool struct {
	conn conn
}

func New(p *pgxpool.Pool) Pool {
	return &pool{conn: p}
}

// Connect opens a pgx pool and waits for the database to answer.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ParseConfig: %w", err)
	}

	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}

	err = backoff.RetryNotify(
		func() error {
			return p.Ping(ctx)
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Second), 10),
			ctx,
		),
		func(err error, wait time.Duration) {
			logger.Warnf(ctx, "postgres is not ready, retry in %s: %s", wait, err.Error())
		},
	)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return p, nil
}

func (p *pool) Execx(ctx context.Context, query sq.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("query.ToSql: %w", err)
	}
	return p.conn.Exec(ctx, sql, args...)
}

func (p *pool) Getx(ctx context.Context, dst interface{}, query sq.Sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("query.ToSql: %w", err)
	}
	return pgxscan.Get(ctx, p.conn, dst, sql, args...)
}

func (p *pool) Selectx(ctx context.Context, dst interface{}, query sq.Sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("query.ToSql: %w", err)
	}
	return pgxscan.Select(ctx, p.conn, dst, sql, args...)
}

func (p *pool) BeginFunc(ctx context.Context, fn func(Pool) error) error {
	return pgx.BeginFunc(ctx, p.conn, func(tx pgx.Tx) error {
		return fn(&pool{conn: tx})
	})
}
