// Package db opens the PostgreSQL connection pool used by the repositories.
package db

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// ConnConfig parses dsn and, when useTLS is set, forces an encrypted
// connection without verifying the server certificate. Managed Postgres
// hosts commonly present certificates the runtime cannot verify.
func ConnConfig(dsn string, useTLS bool) (*pgx.ConnConfig, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	if useTLS {
		cfg.TLSConfig = &tls.Config{
			InsecureSkipVerify: true,
			ServerName:         cfg.Host,
		}
		cfg.Fallbacks = nil
	}

	return cfg, nil
}

// Open builds a *sql.DB over the pgx stdlib driver and checks it is reachable.
func Open(ctx context.Context, dsn string, useTLS bool) (*sql.DB, error) {
	cfg, err := ConnConfig(dsn, useTLS)
	if err != nil {
		return nil, err
	}

	db := stdlib.OpenDB(*cfg)

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 8*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	return db, nil
}
