package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"ristorante/internal/infrastructure/mongo"
	"ristorante/internal/infrastructure/mysql"
)

// SetupMySQL opens the database named by TEST_MYSQL_DSN, creates the schema
// and empties every table. The test is skipped when no DSN is configured or
// the server is unreachable.
func SetupMySQL(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set")
	}

	dsnCfg, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		t.Fatalf("invalid TEST_MYSQL_DSN: %v", err)
	}
	dsnCfg.ParseTime = true

	db, err := sql.Open("mysql", dsnCfg.FormatDSN())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}
	if err := mysql.Migrate(ctx, db); err != nil {
		db.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	cleanMySQL(t, db)
	t.Cleanup(func() {
		cleanMySQL(t, db)
		db.Close()
	})

	return db
}

func cleanMySQL(t *testing.T, db *sql.DB) {
	tables := mysql.Tables()
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", tables[i])); err != nil {
			t.Logf("failed to clean table %s: %v", tables[i], err)
		}
	}
}

// SetupMongo connects to TEST_MONGO_URL and returns a throwaway database with
// indexes in place. The database is dropped when the test ends.
func SetupMongo(t *testing.T) *mongodriver.Database {
	t.Helper()

	url := os.Getenv("TEST_MONGO_URL")
	if url == "" {
		t.Skip("TEST_MONGO_URL not set")
	}

	ctx := context.Background()
	store, err := mongo.New(ctx, mongo.Config{
		URI:      url,
		Database: "ristorante_test_" + uuid.NewString()[:8],
		Timeout:  5 * time.Second,
	})
	if err != nil {
		t.Skipf("test mongodb not available: %v", err)
	}

	if err := store.CreateIndexes(ctx); err != nil {
		_ = store.Close(ctx)
		t.Fatalf("failed to create indexes: %v", err)
	}

	t.Cleanup(func() {
		if err := store.Database().Drop(context.Background()); err != nil {
			t.Logf("failed to drop test database: %v", err)
		}
		_ = store.Close(context.Background())
	})

	return store.Database()
}
