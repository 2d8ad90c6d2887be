package clients

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
		CREATE TABLE clients (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			tax_id TEXT NOT NULL,
			identity_doc TEXT NOT NULL DEFAULT '',
			marital_status TEXT NOT NULL DEFAULT '',
			profession TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			created_by TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		t.Fatalf("failed to create clients table: %v", err)
	}

	return db
}

func testClient() *Client {
	return &Client{
		Name:          "João da Silva",
		TaxID:         "529.982.247-25",
		IdentityDoc:   "12.345.678-9",
		MaritalStatus: "casado",
		Profession:    "motorista profissional",
		Email:         "joao@example.com",
		Phone:         "(11) 98765-4321",
		Address:       "Rua das Flores, 100, São Paulo/SP",
		CreatedBy:     "usr_1",
	}
}

func TestServiceCreate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewRepository(db))
	now := time.Now()

	created, err := svc.Create(testClient(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" || created.ID[:4] != "cli_" {
		t.Errorf("expected cli_ prefixed id, got %q", created.ID)
	}

	got, err := svc.Get(created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "João da Silva" || got.TaxID != "529.982.247-25" {
		t.Errorf("client not round-tripped: %+v", got)
	}
	if got.IdentityDoc != "12.345.678-9" || got.MaritalStatus != "casado" || got.Profession != "motorista profissional" {
		t.Errorf("qualification fields not round-tripped: %+v", got)
	}
}

func TestServiceCreateValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewRepository(db))
	now := time.Now()

	tests := []struct {
		name   string
		mutate func(*Client)
	}{
		{"empty name", func(c *Client) { c.Name = "  " }},
		{"bad check digits", func(c *Client) { c.TaxID = "529.982.247-26" }},
		{"wrong length", func(c *Client) { c.TaxID = "12345" }},
		{"bad email", func(c *Client) { c.Email = "not-an-email" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testClient()
			tt.mutate(req)
			if _, err := svc.Create(req, now); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestServiceCreateCorporate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewRepository(db))

	req := testClient()
	req.Name = "Transportes Silva Ltda"
	req.TaxID = "11.222.333/0001-81"

	if _, err := svc.Create(req, time.Now()); err != nil {
		t.Fatalf("valid CNPJ rejected: %v", err)
	}
}

func TestServiceUpdate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewRepository(db))
	now := time.Now()

	created, err := svc.Create(testClient(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := testClient()
	req.Phone = "(11) 91111-2222"
	req.Profession = "despachante"
	updated, err := svc.Update(created.ID, req, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Phone != "(11) 91111-2222" {
		t.Errorf("phone not updated: %q", updated.Phone)
	}
	if updated.Profession != "despachante" {
		t.Errorf("profession not updated: %q", updated.Profession)
	}

	if _, err := svc.Update("cli_missing", testClient(), now); !errors.Is(err, ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}
}

func TestServiceUpdateIdentityImmutable(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewRepository(db))
	now := time.Now()

	created, err := svc.Create(testClient(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := testClient()
	req.Name = "José da Silva"
	if _, err := svc.Update(created.ID, req, now); !errors.Is(err, ErrIdentityImmutable) {
		t.Errorf("expected ErrIdentityImmutable on name change, got %v", err)
	}

	req = testClient()
	req.TaxID = "11.222.333/0001-81"
	if _, err := svc.Update(created.ID, req, now); !errors.Is(err, ErrIdentityImmutable) {
		t.Errorf("expected ErrIdentityImmutable on tax id change, got %v", err)
	}

	// Repeating the identity back unchanged is fine.
	if _, err := svc.Update(created.ID, testClient(), now); err != nil {
		t.Errorf("unexpected error on unchanged identity: %v", err)
	}

	got, err := svc.Get(created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "João da Silva" || got.TaxID != "529.982.247-25" {
		t.Errorf("identity changed through update: %+v", got)
	}
}

func TestServiceListSearch(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewRepository(db))
	now := time.Now()

	if _, err := svc.Create(testClient(), now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second := testClient()
	second.Name = "Maria Oliveira"
	second.TaxID = "11.222.333/0001-81"
	if _, err := svc.Create(second, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, err := svc.List("Maria", 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Maria Oliveira" {
		t.Errorf("search by name failed: %d results", len(list))
	}

	list, err = svc.List("529.982", 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].Name != "João da Silva" {
		t.Errorf("search by tax id failed: %d results", len(list))
	}

	list, err = svc.List("", 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 clients, got %d", len(list))
	}
}

func TestServiceDelete(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewRepository(db))

	created, err := svc.Create(testClient(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Delete(created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get(created.ID); !errors.Is(err, ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound after delete, got %v", err)
	}
	if err := svc.Delete(created.ID); !errors.Is(err, ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound on double delete, got %v", err)
	}
}
