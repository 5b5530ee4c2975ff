package database

import (
	"io/fs"
	"strings"
	"testing"
)

// TestMigrationsFS_ContainsPairedFiles は埋め込みマイグレーションに
// up/downのペアが揃っていることを検証する。
func TestMigrationsFS_ContainsPairedFiles(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("failed to read embedded migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no migration files embedded")
	}

	ups := 0
	downs := 0
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups++
		case strings.HasSuffix(name, ".down.sql"):
			downs++
		default:
			t.Errorf("unexpected migration file: %s", name)
		}
	}

	if ups != downs {
		t.Errorf("up migrations = %d, down migrations = %d, want equal", ups, downs)
	}
}

// TestInitialMigration_CreatesCoreTables は初期マイグレーションが
// コアテーブルをすべて作成することを検証する。
func TestInitialMigration_CreatesCoreTables(t *testing.T) {
	data, err := fs.ReadFile(migrationsFS, "migrations/000001_init.up.sql")
	if err != nil {
		t.Fatalf("failed to read initial migration: %v", err)
	}
	content := string(data)

	for _, table := range []string{"users", "user_profiles", "news_items", "likes", "comments"} {
		if !strings.Contains(content, "CREATE TABLE "+table) {
			t.Errorf("initial migration should create table %q", table)
		}
	}

	// いいねは (user_id, news_id) で一意であること
	if !strings.Contains(content, "UNIQUE (user_id, news_id)") {
		t.Error("likes table should enforce UNIQUE (user_id, news_id)")
	}
}
