package kvstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/m3rciful/potzbot/core/database"
)

func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "42"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get missing: err = %v, want ErrNotFound", err)
	}
	if err := s.Put(ctx, "42", []byte(`{"state":"root"}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "42", []byte(`{"state":"roll"}`)); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, err := s.Get(ctx, "42")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"state":"roll"}` {
		t.Fatalf("Get = %s", got)
	}
	if err := s.Delete(ctx, "42"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "42"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete: err = %v", err)
	}
	if err := s.Delete(ctx, "42"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exercise(t, NewMemoryStore())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	s := NewMemoryStore()
	buf := []byte("abc")
	_ = s.Put(context.Background(), "k", buf)
	buf[0] = 'x'
	got, _ := s.Get(context.Background(), "k")
	if string(got) != "abc" {
		t.Fatalf("stored value aliased caller buffer: %s", got)
	}
}

func TestSQLStoreSQLite(t *testing.T) {
	cfg := database.Config{Driver: database.DriverSQLite, Path: filepath.Join(t.TempDir(), "kv.db")}
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	ctx := context.Background()
	if err := database.RunMigrations(ctx, cfg); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer db.Close()
	exercise(t, NewSQLStore(db))
}
