package main

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/pressly/goose/v3"
)

func repoMigrationsDir(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	// this file lives in cmd/migrate/, so repo root is ../..
	repoRoot := filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", ".."))
	return filepath.Join(repoRoot, "db", "migrations")
}

func TestCollectMigrations_ParsesMigrationsDir(t *testing.T) {
	migrations, err := goose.CollectMigrations(repoMigrationsDir(t), 0, goose.MaxVersion)
	if err != nil {
		t.Fatalf("expected migrations to parse, got error: %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("expected at least one migration")
	}
	if migrations[0].Version != 1 {
		t.Fatalf("expected first migration version 1, got %d", migrations[0].Version)
	}
}
