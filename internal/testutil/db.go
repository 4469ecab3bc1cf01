package testutil

import (
	"database/sql"
	"fmt"
	"net/url"
	"testing"

	"github.com/iliyamo/secure-user-api/internal/config"
	"github.com/iliyamo/secure-user-api/internal/database"
)

// NewSQLiteDB opens a named shared in-memory SQLite database with all
// migrations applied.  The name is derived from t.Name() so parallel tests
// never share state.
func NewSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)", url.PathEscape(t.Name()))
	db, err := database.Open(config.Database{Driver: database.DriverSQLite, SQLitePath: dsn})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db, database.DriverSQLite); err != nil {
		_ = db.Close()
		t.Fatalf("run migrations: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
