package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	apiContext "recurso/internal/api/context"
	"recurso/internal/platform/auth"
	"recurso/internal/platform/config"
	"recurso/internal/platform/database"
	"recurso/internal/platform/repositories"
)

func TestTenantMiddleware(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	orgRepo := repositories.NewOrganizationRepository(db)
	pool := database.NewTenantDBPool(config.TenantDBConfig{BasePath: "/tmp", MaxConnectionsPerOrg: 1})
	mw := NewTenantMiddleware(orgRepo, pool)

	orgCols := []string{"id", "slug", "name", "tax_id", "address", "db_file_path", "plan_tier",
		"case_quota", "member_quota", "default_reminder_days", "branding", "webhook_secret",
		"created_at", "updated_at", "deleted_at"}

	t.Run("valid tenant", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/", nil)
		claims := &auth.Claims{OrganizationID: "org_123"}
		req = req.WithContext(context.WithValue(req.Context(), apiContext.Claims, claims))

		rows := sqlmock.NewRows(orgCols).
			AddRow("org_123", "silva-advogados", "Silva Advogados", "11.222.333/0001-81",
				"Av. Paulista, 1000", ":memory:", "pro", 5000, 20, 7, []byte("null"), "whsec_1",
				1234567890, 1234567890, nil)

		mock.ExpectQuery("SELECT (.+) FROM organizations WHERE id = ?").
			WithArgs("org_123").
			WillReturnRows(rows)

		rr := httptest.NewRecorder()
		handler := mw.Handle(func(w http.ResponseWriter, r *http.Request) {
			tenant := r.Context().Value(apiContext.Tenant).(*database.TenantContext)
			if tenant.OrgID != "org_123" {
				t.Errorf("expected org_123, got %s", tenant.OrgID)
			}
			if tenant.Org == nil || tenant.Org.DefaultReminderDays != 7 {
				t.Error("expected organization attached to tenant context")
			}
			if tenant.DB == nil {
				t.Error("expected tenant DB connection")
			}
			w.WriteHeader(http.StatusOK)
		})

		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rr.Code)
		}
	})

	t.Run("organization not found", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/", nil)
		claims := &auth.Claims{OrganizationID: "org_999"}
		req = req.WithContext(context.WithValue(req.Context(), apiContext.Claims, claims))

		mock.ExpectQuery("SELECT (.+) FROM organizations WHERE id = ?").
			WithArgs("org_999").
			WillReturnError(sql.ErrNoRows)

		rr := httptest.NewRecorder()
		handler := mw.Handle(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be called")
		})

		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rr.Code)
		}
	})

	t.Run("missing claims", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/", nil)

		rr := httptest.NewRecorder()
		handler := mw.Handle(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be called")
		})

		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rr.Code)
		}
	})
}

func TestRateLimiterAllow(t *testing.T) {
	rl := &RateLimiter{store: new(sync.Map)}

	for i := 0; i < 5; i++ {
		if !rl.Allow("org_1:generate", 5) {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if rl.Allow("org_1:generate", 5) {
		t.Error("request over limit should be rejected")
	}

	// Other keys have their own bucket.
	if !rl.Allow("org_2:generate", 5) {
		t.Error("different org should not share the bucket")
	}
}
