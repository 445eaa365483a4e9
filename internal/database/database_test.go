// Copyright (c) 2026 Hun Kim <khunny7@gmail.com>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "folio")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "folio")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := testDB(t)

	if err := Migrate(db); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	for _, table := range []string{"users", "blog_posts", "comments", "projects"} {
		var exists bool
		err := db.QueryRow(`
			SELECT EXISTS (
				SELECT 1 FROM information_schema.tables
				WHERE table_schema = 'public' AND table_name = $1
			)
		`, table).Scan(&exists)
		if err != nil {
			t.Fatalf("check table %s: %v", table, err)
		}
		if !exists {
			t.Errorf("table %s missing after migrate", table)
		}
	}
}

func TestSeedSkipsExistingData(t *testing.T) {
	db := testDB(t)

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	if err := Seed(db); err != nil {
		t.Fatalf("first seed: %v", err)
	}

	var before int
	if err := db.QueryRow("SELECT COUNT(*) FROM projects").Scan(&before); err != nil {
		t.Fatalf("count projects: %v", err)
	}

	if err := Seed(db); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var after int
	if err := db.QueryRow("SELECT COUNT(*) FROM projects").Scan(&after); err != nil {
		t.Fatalf("count projects: %v", err)
	}
	if after != before {
		t.Errorf("second seed added rows: %d -> %d", before, after)
	}
}
