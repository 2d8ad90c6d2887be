package cases

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
		CREATE TABLE cases (
			id TEXT PRIMARY KEY,
			client_id TEXT NOT NULL,
			service_id TEXT NOT NULL,
			template_id TEXT NOT NULL,
			content TEXT NOT NULL,
			status TEXT NOT NULL,
			value REAL NOT NULL DEFAULT 0,
			details TEXT,
			reminder_enabled INTEGER NOT NULL DEFAULT 0,
			reminder_interval_days INTEGER NOT NULL DEFAULT 0,
			next_reminder_at INTEGER,
			last_contact_at INTEGER,
			created_by TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		t.Fatalf("failed to create cases table: %v", err)
	}

	return db
}

func testCase() *Case {
	return &Case{
		ClientID:   "cli_1",
		ServiceID:  "svc_1",
		TemplateID: "contestacao_basica",
		Content:    "EXCELENTÍSSIMO SENHOR DOUTOR...",
		Value:      500,
		Details: &CaseDetails{
			InfractionNumber: "AB1234",
			Plate:            "BRA2E19",
		},
		CreatedBy: "usr_1",
	}
}

func TestServiceCreate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewRepository(db), 10)
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	req := testCase()
	req.ReminderEnabled = true

	created, err := svc.Create(req, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" || created.ID[:5] != "case_" {
		t.Errorf("expected case_ prefixed id, got %q", created.ID)
	}
	if created.Status != StatusPending {
		t.Errorf("expected pending status, got %q", created.Status)
	}
	if created.ReminderIntervalDays != 10 {
		t.Errorf("expected org default interval 10, got %d", created.ReminderIntervalDays)
	}
	if created.NextReminderAt == nil {
		t.Fatal("expected next reminder to be scheduled")
	}
	if *created.NextReminderAt != now.AddDate(0, 0, 10).Unix() {
		t.Errorf("expected next reminder 10 days out, got %d", *created.NextReminderAt)
	}

	stored, err := svc.Get(created.ID, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Content != req.Content {
		t.Errorf("content snapshot not persisted")
	}
	if stored.Details == nil || stored.Details.InfractionNumber != "AB1234" {
		t.Errorf("details not round-tripped: %+v", stored.Details)
	}
}

func TestServiceCreateEmptyContent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewRepository(db), 0)

	req := testCase()
	req.Content = ""

	if _, err := svc.Create(req, time.Now()); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("expected ErrEmptyContent, got %v", err)
	}
}

func TestServiceGetDecoratesEscalation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewRepository(db), 0)
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	req := testCase()
	req.ReminderEnabled = true
	created, err := svc.Create(req, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Never contacted: always critical.
	got, err := svc.Get(created.ID, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Escalation == nil || got.Escalation.Tier != TierCritical {
		t.Errorf("expected critical tier for never-contacted case, got %+v", got.Escalation)
	}

	if _, err := svc.Notify(created.ID, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err = svc.Get(created.ID, now.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Escalation == nil || got.Escalation.Tier != TierMedium {
		t.Errorf("expected medium tier 3 days after contact, got %+v", got.Escalation)
	}
}

func TestServiceGetNoEscalationWhenDisabled(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewRepository(db), 0)
	now := time.Now()

	created, err := svc.Create(testCase(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Get(created.ID, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Escalation != nil {
		t.Errorf("disabled reminder should not carry an escalation, got %+v", got.Escalation)
	}
}

func TestServiceNotifyResetsTier(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewRepository(db), 0)
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	req := testCase()
	req.ReminderEnabled = true
	created, err := svc.Create(req, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.Notify(created.ID, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Escalation == nil || updated.Escalation.Tier != TierNormal {
		t.Errorf("expected normal tier right after contact, got %+v", updated.Escalation)
	}
	if updated.LastContactAt == nil || *updated.LastContactAt != now.Unix() {
		t.Errorf("last contact not recorded")
	}
	if updated.NextReminderAt == nil || *updated.NextReminderAt != now.AddDate(0, 0, 7).Unix() {
		t.Errorf("next reminder not moved one interval out")
	}
}

func TestServiceUpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewRepository(db), 0)
	now := time.Now()

	created, err := svc.Create(testCase(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.UpdateStatus(created.ID, StatusSigned)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != StatusSigned {
		t.Errorf("expected signed status, got %q", updated.Status)
	}

	if _, err := svc.UpdateStatus(created.ID, "bogus"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.UpdateStatus("case_missing", StatusSigned); !errors.Is(err, ErrCaseNotFound) {
		t.Errorf("expected ErrCaseNotFound, got %v", err)
	}
}

func TestServiceRegenerate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewRepository(db), 0)
	now := time.Now()

	created, err := svc.Create(testCase(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Regenerate(created.ID, "conteúdo regenerado"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Get(created.ID, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Content != "conteúdo regenerado" {
		t.Errorf("content not replaced: %q", got.Content)
	}

	if err := svc.Regenerate(created.ID, ""); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("expected ErrEmptyContent, got %v", err)
	}
}

func TestServiceSetReminder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewRepository(db), 10)
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	created, err := svc.Create(testCase(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.SetReminder(created.ID, true, 0, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.ReminderEnabled {
		t.Error("reminder not enabled")
	}
	if updated.ReminderIntervalDays != 10 {
		t.Errorf("expected org default interval 10, got %d", updated.ReminderIntervalDays)
	}

	updated, err = svc.SetReminder(created.ID, false, 0, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ReminderEnabled || updated.NextReminderAt != nil {
		t.Errorf("disable should clear scheduling: %+v", updated)
	}
}

func TestServiceListFiltersStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewRepository(db), 0)
	now := time.Now()

	first, err := svc.Create(testCase(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Create(testCase(), now.Add(time.Second)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.UpdateStatus(first.ID, StatusGranted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	granted, err := svc.List(StatusGranted, 50, 0, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(granted) != 1 || granted[0].ID != first.ID {
		t.Errorf("expected only the granted case, got %d", len(granted))
	}

	all, err := svc.List("", 50, 0, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 cases, got %d", len(all))
	}

	if _, err := svc.List("bogus", 50, 0, now); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestRepositoryListReminderEnabled(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	svc := NewService(repo, 0)
	now := time.Now()

	open := testCase()
	open.ReminderEnabled = true
	openCase, err := svc.Create(open, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	closed := testCase()
	closed.ReminderEnabled = true
	closedCase, err := svc.Create(closed, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.UpdateStatus(closedCase.ID, StatusGranted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Create(testCase(), now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, err := repo.ListReminderEnabled()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].ID != openCase.ID {
		t.Errorf("expected only the open reminder-enabled case, got %d", len(list))
	}
}
