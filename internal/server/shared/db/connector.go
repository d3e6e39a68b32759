// Package db opens short-lived handles to user-supplied PostgreSQL stores.
// Every handle carries a single connection and a fixed connect timeout.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/healthsync/internal/common"
	"github.com/dmitrijs2005/healthsync/internal/dbx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// ValidateConnectionString checks the store type and the DSN shape and
// returns the parsed pgx config. Errors wrap common.ErrUnsupportedStore or
// common.ErrInvalidInput and never echo the DSN.
func ValidateConnectionString(storeType, dsn string) (*pgx.ConnConfig, error) {
	if storeType != common.StoreTypePostgres {
		return nil, fmt.Errorf("%w: %q, only %s is supported", common.ErrUnsupportedStore, storeType, common.StoreTypePostgres)
	}
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("%w: connection string is required", common.ErrInvalidInput)
	}
	if !hasPostgresPrefix(dsn) {
		return nil, fmt.Errorf("%w: connection string must start with %s",
			common.ErrInvalidInput, strings.Join(common.PostgresURLPrefixes, " or "))
	}
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed connection string", common.ErrInvalidInput)
	}
	return cfg, nil
}

func hasPostgresPrefix(dsn string) bool {
	for _, p := range common.PostgresURLPrefixes {
		if strings.HasPrefix(dsn, p) {
			return true
		}
	}
	return false
}

// Connector opens validated handles with a fixed connect timeout.
type Connector struct {
	timeout time.Duration
	openDB  func(cfg pgx.ConnConfig) *sql.DB
}

// NewConnector returns a Connector whose handles give up connecting after timeout.
func NewConnector(timeout time.Duration) *Connector {
	return &Connector{
		timeout: timeout,
		openDB: func(cfg pgx.ConnConfig) *sql.DB {
			return stdlib.OpenDB(cfg)
		},
	}
}

// Open validates dsn, opens a single-connection handle and pings it.
// Connection failures wrap common.ErrConnection. The caller closes the handle.
func (c *Connector) Open(ctx context.Context, storeType, dsn string) (*sql.DB, error) {
	cfg, err := ValidateConnectionString(storeType, dsn)
	if err != nil {
		return nil, err
	}
	cfg.ConnectTimeout = c.timeout

	db := c.openDB(*cfg)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", common.ErrConnection, err)
	}
	return db, nil
}

// Opener binds storeType and dsn for use with dbx.WithConn.
func (c *Connector) Opener(storeType, dsn string) dbx.Opener {
	return func(ctx context.Context) (*sql.DB, error) {
		return c.Open(ctx, storeType, dsn)
	}
}
