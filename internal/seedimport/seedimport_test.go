// seedimport_test.go runs the importer against a real database and is
// skipped if PostgreSQL is not available.
package seedimport

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"promptlib/internal/database"
	"promptlib/internal/store"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "promptlib")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "promptlib")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestImportIsIdempotent(t *testing.T) {
	db := testDB(t)
	im := New(store.NewCategoryStore(db), store.NewPromptStore(db))

	suffix := uuid.New().String()[:8]
	catName := "Seed Cat " + suffix
	records := []Record{
		{Category: catName, Title: "Seed One " + suffix, Body: "body one"},
		{Category: catName, Title: "Seed Two " + suffix, Body: "body two", Status: "draft"},
		{Category: catName, Title: "", Body: "missing title"},
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM prompts WHERE title LIKE $1", "Seed %"+suffix)
		db.Exec("DELETE FROM categories WHERE name = $1", catName)
	})

	sum := im.Import(records)
	if sum.Imported != 2 || sum.Failed != 1 || sum.Skipped != 0 {
		t.Fatalf("first run: %+v, want 2 imported, 1 failed", *sum)
	}

	// Second run over the same records imports nothing new.
	sum = im.Import(records)
	if sum.Imported != 0 || sum.Skipped != 2 || sum.Failed != 1 {
		t.Fatalf("second run: %+v, want 2 skipped, 1 failed", *sum)
	}

	// The category was created once, not per record.
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories WHERE name = $1", catName).Scan(&n); err != nil {
		t.Fatalf("count categories: %v", err)
	}
	if n != 1 {
		t.Errorf("category rows = %d, want 1", n)
	}
}

func TestImportValidation(t *testing.T) {
	db := testDB(t)
	im := New(store.NewCategoryStore(db), store.NewPromptStore(db))

	sum := im.Import([]Record{
		{Category: "", Title: "t", Body: "b"},
		{Category: "c", Title: "t", Body: "b", Status: "bogus"},
	})
	if sum.Failed != 2 {
		t.Errorf("failed = %d, want 2", sum.Failed)
	}
}
