package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/iliyamo/secure-user-api/internal/config"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Open connects to the configured driver and verifies the connection.
func Open(cfg config.Database) (*sql.DB, error) {
	switch cfg.Driver {
	case DriverMySQL:
		return open(DriverMySQL, mysqlDSN(cfg), 25)
	case DriverSQLite:
		// sqlite serialises writers; one connection avoids "database is locked".
		return open(DriverSQLite, SQLiteDSN(cfg.SQLitePath), 1)
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

func open(driver, dsn string, maxConns int) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	// Pool settings
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

// mysqlDSN builds the driver DSN.  parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent.
func mysqlDSN(cfg config.Database) string {
	c := mysql.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Pass
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
	c.DBName = cfg.Name
	c.ParseTime = true
	c.Loc = time.UTC
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c.FormatDSN()
}

// SQLiteDSN turns a file path into a modernc DSN with the usual pragmas.
// Values already starting with "file:" are returned unchanged so callers
// (tests in particular) can pass in-memory URIs.
func SQLiteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	return fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)",
		path,
	)
}
