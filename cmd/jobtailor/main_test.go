package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jobtailor/jobtailor/internal/storage"
)

func TestLoadConfig_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9999\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != path {
		t.Errorf("resolved path: got %s, want %s", resolved, path)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("port: got %d", cfg.Server.Port)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, _, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config")
	}
}

func TestResolveResume_FromFile(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	file := filepath.Join(dir, "resume.txt")
	if err := os.WriteFile(file, []byte("Go, SQL, Docker"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	id, err := resolveResume(ctx, store, "", file, "u1")
	if err != nil {
		t.Fatal(err)
	}
	resume, err := store.GetResume(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if resume.Content != "Go, SQL, Docker" {
		t.Errorf("content: got %q", resume.Content)
	}
	if resume.UserID != "u1" {
		t.Errorf("user: got %q", resume.UserID)
	}

	// an explicit id short-circuits file handling
	got, err := resolveResume(ctx, store, "existing", "", "u1")
	if err != nil || got != "existing" {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestResolveJob_MissingFile(t *testing.T) {
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if _, err := resolveJob(context.Background(), store, "", "/does/not/exist.txt", "u1"); err == nil {
		t.Error("expected error for missing file")
	}
}
