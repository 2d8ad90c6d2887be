package documents

import (
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"recurso/internal/platform/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	query := `
	CREATE TABLE templates (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		body TEXT NOT NULL,
		status TEXT DEFAULT 'active',
		created_by TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := db.Exec(query); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	return db
}

func seedTemplate(t *testing.T, repo *TemplateRepository, id, body string) {
	now := time.Now().Unix()
	err := repo.Create(&Template{
		ID:        id,
		Name:      "Notificação",
		Body:      body,
		Status:    "active",
		CreatedBy: "usr_1",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("Failed to seed template: %v", err)
	}
}

func TestTemplateRepository_CRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTemplateRepository(db)

	seedTemplate(t, repo, "tpl_1", "Olá {{NOME_CLIENTE}}")

	fetched, err := repo.GetByID("tpl_1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil || fetched.Body != "Olá {{NOME_CLIENTE}}" {
		t.Errorf("unexpected template: %+v", fetched)
	}

	fetched.Body = "Prezado {{NOME_CLIENTE}}"
	if err := repo.Update(fetched); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0].Body != "Prezado {{NOME_CLIENTE}}" {
		t.Errorf("unexpected list: %+v", list)
	}

	if err := repo.Archive("tpl_1"); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	list, _ = repo.List()
	if len(list) != 0 {
		t.Errorf("archived template still listed")
	}
}

func TestRegistryResolve(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTemplateRepository(db)
	registry := NewRegistry(repo)

	seedTemplate(t, repo, "tpl_custom", "corpo")

	t.Run("Fixed model", func(t *testing.T) {
		resolved, err := registry.Resolve(string(ModelBasicDefense))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !resolved.IsFixed() || resolved.Model != ModelBasicDefense {
			t.Errorf("unexpected resolution: %+v", resolved)
		}
	})

	t.Run("Custom template", func(t *testing.T) {
		resolved, err := registry.Resolve("tpl_custom")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resolved.IsFixed() || resolved.Custom.ID != "tpl_custom" {
			t.Errorf("unexpected resolution: %+v", resolved)
		}
	})

	t.Run("Unknown id", func(t *testing.T) {
		_, err := registry.Resolve("tpl_missing")
		if !errors.Is(err, ErrTemplateNotFound) {
			t.Errorf("expected ErrTemplateNotFound, got %v", err)
		}
	})
}

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name    string
		kind    ModelKind
		fields  CaseFields
		wantErr bool
	}{
		{
			name:   "Basic model complete",
			kind:   ModelBasicDefense,
			fields: CaseFields{InfractionNumber: "AB1234", Value: 500},
		},
		{
			name:    "Basic model missing value",
			kind:    ModelBasicDefense,
			fields:  CaseFields{InfractionNumber: "AB1234"},
			wantErr: true,
		},
		{
			name:    "Full model missing process number",
			kind:    ModelFullDefense,
			fields:  CaseFields{InfractionNumber: "AB1234", Value: 500},
			wantErr: true,
		},
		{
			name:   "Full model complete",
			kind:   ModelFullDefense,
			fields: CaseFields{InfractionNumber: "AB1234", ProcessNumber: "P-1", Value: 500},
		},
		{
			name:    "Installment model missing terms",
			kind:    ModelInstallmentPlan,
			fields:  CaseFields{InfractionNumber: "AB1234", Value: 500},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequired(tt.kind, tt.fields)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequired() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestServiceGenerate_FixedEndToEnd(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(NewRegistry(NewTemplateRepository(db)))

	org := &models.Organization{Name: "Acme Legal"}
	result, err := service.Generate(GenerateInput{
		TemplateID: string(ModelBasicDefense),
		Client:     ClientInfo{Name: "Maria Silva", TaxID: "000.000.000-00"},
		Org:        org,
		Fields:     CaseFields{InfractionNumber: "AB1234", Value: 500.00},
		Now:        time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for _, want := range []string{"AB1234", "R$ 500,00", "foro da Comarca de São Paulo"} {
		if !strings.Contains(result.Content, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(result.Content, "{{") {
		t.Error("residual placeholder syntax in output")
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestServiceGenerate_CustomTemplate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTemplateRepository(db)
	service := NewService(NewRegistry(repo))

	seedTemplate(t, repo, "tpl_carta",
		"Prezado(a) {{NOME_CLIENTE}}, o recurso da infração {{NUMERO_AIT}} ({{VALOR}}) "+
			"foi protocolado por {{NOME_EMPRESA}} em {{DATA_EXTENSO}}. {{TOKEN_ERRADO}}")

	org := &models.Organization{
		Name:     "Acme Legal",
		Branding: &models.BrandingOverride{ContractName: "Acme Recursos Ltda"},
	}

	result, err := service.Generate(GenerateInput{
		TemplateID: "tpl_carta",
		Client:     ClientInfo{Name: "Maria Silva"},
		Org:        org,
		Fields:     CaseFields{InfractionNumber: "AB1234", Value: 1500.5},
		Now:        time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for _, want := range []string{
		"Maria Silva",
		"AB1234",
		"R$ 1.500,50",
		"Acme Recursos Ltda",
		"31 de agosto de 2026",
	} {
		if !strings.Contains(result.Content, want) {
			t.Errorf("output missing %q", want)
		}
	}

	if len(result.Warnings) != 1 || result.Warnings[0] != "TOKEN_ERRADO" {
		t.Errorf("Warnings = %v, want [TOKEN_ERRADO]", result.Warnings)
	}
	if strings.Contains(result.Content, "{{") {
		t.Error("residual placeholder syntax in output")
	}
}

func TestServiceGenerate_UnknownTemplate(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(NewRegistry(NewTemplateRepository(db)))

	_, err := service.Generate(GenerateInput{
		TemplateID: "tpl_nope",
		Org:        &models.Organization{Name: "Acme Legal"},
		Now:        time.Now(),
	})
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestServiceGenerate_MissingRequiredFields(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(NewRegistry(NewTemplateRepository(db)))

	_, err := service.Generate(GenerateInput{
		TemplateID: string(ModelFullDefense),
		Org:        &models.Organization{Name: "Acme Legal"},
		Fields:     CaseFields{InfractionNumber: "AB1234", Value: 500},
		Now:        time.Now(),
	})
	if err == nil {
		t.Fatal("expected validation error for missing process number")
	}
}
