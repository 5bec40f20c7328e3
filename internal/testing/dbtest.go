package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"seoul-store-crawler/pkg/database"
)

// DBTest provides a real DB connection for integration tests with helpers
// for isolation. It uses DATABASE_URL_TEST if set, otherwise DATABASE_URL.
// Tests are skipped if neither is present.
type DBTest struct {
	T   *testing.T
	DB  *database.DB
	SQL *sql.DB
}

func NewDBTest(t *testing.T) *DBTest {
	t.Helper()
	url := os.Getenv("DATABASE_URL_TEST")
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		t.Skip("DATABASE_URL_TEST or DATABASE_URL not set; skipping integration tests")
	}
	db, err := database.New(url)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("failed to ensure schema: %v", err)
	}

	return &DBTest{T: t, DB: db, SQL: db.Conn()}
}

func (d *DBTest) Close() {
	_ = d.DB.Close()
}

// CleanupStores removes rows created by a test, matched on place ID prefix.
func (d *DBTest) CleanupStores(prefix string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := d.SQL.ExecContext(ctx, `DELETE FROM stores WHERE diningcode_place_id LIKE ?`, prefix+"%"); err != nil {
		d.T.Logf("cleanup stores: %v", err)
	}
}
