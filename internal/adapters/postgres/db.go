package postgres

import (
    "context"
    "database/sql"
    "time"

    "github.com/jackc/pgx/v5/pgxpool"
    "github.com/jackc/pgx/v5/stdlib"
)

type DB struct {
    Pool *pgxpool.Pool
    Now  func() time.Time
}

func Connect(ctx context.Context, url string) (*DB, error) {
    cfg, err := pgxpool.ParseConfig(url)
    if err != nil {
        return nil, err
    }
    cfg.MaxConns = 10
    cfg.HealthCheckPeriod = 30 * time.Second
    pool, err := pgxpool.NewWithConfig(ctx, cfg)
    if err != nil {
        return nil, err
    }
    if err := pool.Ping(ctx); err != nil {
        pool.Close()
        return nil, err
    }
    return &DB{Pool: pool, Now: time.Now}, nil
}

// SQL exposes the pool through database/sql for goose.
func (db *DB) SQL() *sql.DB { return stdlib.OpenDBFromPool(db.Pool) }

func (db *DB) Close() { db.Pool.Close() }
