package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Lumos-Labs-HQ/seedgen/internal/config"
	"github.com/Lumos-Labs-HQ/seedgen/internal/logger"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Connection is an open database handle used to apply a seed file.
type Connection struct {
	DB     *sql.DB
	Driver string
	log    *logger.Logger
}

// DriverName maps a provider onto a registered database/sql driver. For
// PostgreSQL, postgresDriver picks between pgx and lib/pq.
func DriverName(provider, postgresDriver string) string {
	switch provider {
	case "mysql":
		return "mysql"
	case "sqlite", "sqlite3":
		return "sqlite3"
	default:
		if postgresDriver == "pq" {
			return "postgres"
		}
		return "pgx"
	}
}

// NewConnection opens and pings the database named by the configured URL
// environment variable.
func NewConnection(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Connection, error) {
	dbURL, err := cfg.GetDatabaseURL()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}

	driver := DriverName(cfg.Database.Provider, cfg.Database.Driver)
	db, err := sql.Open(driver, dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Connection{DB: db, Driver: driver, log: log}, nil
}

func (c *Connection) Close() error {
	return c.DB.Close()
}

// Apply executes statements one at a time, outside any transaction. It
// stops at the first failure and reports how many statements succeeded.
func (c *Connection) Apply(ctx context.Context, statements []string) (int, error) {
	executed := 0
	for i, stmt := range statements {
		if err := ctx.Err(); err != nil {
			return executed, err
		}
		if _, err := c.DB.ExecContext(ctx, stmt); err != nil {
			return executed, fmt.Errorf("statement %d failed: %w\n%s", i+1, err, preview(stmt))
		}
		executed++
		c.log.Debug("statement applied", "index", i+1, "driver", c.Driver)
	}
	return executed, nil
}

func preview(stmt string) string {
	const limit = 200
	if len(stmt) <= limit {
		return stmt
	}
	return stmt[:limit] + "..."
}
