package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/weiwei-tsao/airbnb-dashboard/internal/platform/config"
)

// Driver names registered by the blank imports above.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

const pingTimeout = 5 * time.Second

// DriverFor maps a dataset source to its database/sql driver.
func DriverFor(source string) (string, error) {
	switch source {
	case config.SourcePostgres:
		return DriverPostgres, nil
	case config.SourceSQLite:
		return DriverSQLite, nil
	}
	return "", fmt.Errorf("dataset source %q is not a SQL database", source)
}

// Open opens a connection pool and verifies it with a ping.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		// One writer at a time; an in-memory database is also private to its connection.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}
