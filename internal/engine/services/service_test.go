package services

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE services (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price REAL NOT NULL DEFAULT 0,
			active INTEGER NOT NULL DEFAULT 1,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		t.Fatalf("failed to create services table: %v", err)
	}

	return db
}

func TestManagerCreate(t *testing.T) {
	db := setupTestDB(t)
	mgr := NewManager(NewRepository(db))

	created, err := mgr.Create(&Service{
		Name:        "Defesa Prévia",
		Description: "Defesa administrativa em primeira instância",
		Price:       500,
	}, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" || created.ID[:4] != "svc_" {
		t.Errorf("expected svc_ prefixed id, got %q", created.ID)
	}
	if !created.Active {
		t.Error("new offering should be active")
	}

	got, err := mgr.Get(created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Defesa Prévia" || got.Price != 500 {
		t.Errorf("offering not round-tripped: %+v", got)
	}
}

func TestManagerCreateValidation(t *testing.T) {
	db := setupTestDB(t)
	mgr := NewManager(NewRepository(db))

	if _, err := mgr.Create(&Service{Name: " ", Price: 100}, time.Now()); !errors.Is(err, ErrNameRequired) {
		t.Errorf("expected ErrNameRequired, got %v", err)
	}
	if _, err := mgr.Create(&Service{Name: "Recurso", Price: -1}, time.Now()); !errors.Is(err, ErrNegativePrice) {
		t.Errorf("expected ErrNegativePrice, got %v", err)
	}
}

func TestManagerDeactivate(t *testing.T) {
	db := setupTestDB(t)
	mgr := NewManager(NewRepository(db))
	now := time.Now()

	active, err := mgr.Create(&Service{Name: "Defesa Prévia", Price: 500}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	retired, err := mgr.Create(&Service{Name: "Recurso JARI", Price: 900}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mgr.Deactivate(retired.ID, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, err := mgr.List(true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].ID != active.ID {
		t.Errorf("expected only the active offering, got %d", len(list))
	}

	all, err := mgr.List(false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected both offerings, got %d", len(all))
	}

	if err := mgr.Deactivate("svc_missing", now); !errors.Is(err, ErrServiceNotFound) {
		t.Errorf("expected ErrServiceNotFound, got %v", err)
	}
}

func TestManagerUpdate(t *testing.T) {
	db := setupTestDB(t)
	mgr := NewManager(NewRepository(db))
	now := time.Now()

	created, err := mgr.Create(&Service{Name: "Defesa Prévia", Price: 500}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := mgr.Update(created.ID, &Service{Name: "Defesa Prévia", Price: 650}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Price != 650 {
		t.Errorf("price not updated: %v", updated.Price)
	}
}
