package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSQLMigrations_HaveGooseDirectives(t *testing.T) {
	migrationsDir := repoMigrationsDir(t)

	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("ReadDir(%s): %v", migrationsDir, err)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(migrationsDir, e.Name()))
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", e.Name(), err)
		}
		s := string(b)
		if !strings.Contains(s, "-- +goose Up") {
			t.Fatalf("%s missing '-- +goose Up'", e.Name())
		}
		if !strings.Contains(s, "-- +goose Down") {
			t.Fatalf("%s missing '-- +goose Down'", e.Name())
		}
		if strings.Contains(s, "CREATE TABLE") && !strings.Contains(s, "IF NOT EXISTS") {
			t.Fatalf("%s creates a table without IF NOT EXISTS", e.Name())
		}
	}
}
