package sqlstore

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// OpenSQLite opens dsn with the sqlite3 driver. In-memory databases are
// pinned to one connection so every query sees the same data.
func OpenSQLite(dsn string) (*bun.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, storeInputError("sqlstore: sqlite dsn is required")
	}
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, storeWrapError(err, "sqlstore: open sqlite")
	}
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		sqlDB.SetMaxOpenConns(1)
	}
	return bun.NewDB(sqlDB, sqlitedialect.New()), nil
}

func OpenPostgres(dsn string) (*bun.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, storeInputError("sqlstore: postgres dsn is required")
	}
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, storeWrapError(err, "sqlstore: open postgres")
	}
	return bun.NewDB(sqlDB, pgdialect.New()), nil
}

// EnsureSchema creates the sessions table when it does not exist. Deployments
// that run the embedded migrations do not need it.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return storeConfigurationError("sqlstore: bun db is required")
	}
	_, err := db.NewCreateTable().
		Model((*sessionRecord)(nil)).
		IfNotExists().
		Exec(ctx)
	return storeWrapError(err, "sqlstore: ensure sessions table")
}
