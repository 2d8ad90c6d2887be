package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	apiContext "recurso/internal/api/context"
	"recurso/internal/platform/auth"
	"recurso/internal/platform/database"
)

// Actions recorded against case and template resources.
const (
	ActionDocumentGenerated = "document.generated"
	ActionCaseCreated       = "case.created"
	ActionCaseStatusChanged = "case.status_changed"
	ActionCaseNotified      = "case.notified"
	ActionTemplateCreated   = "template.created"
	ActionTemplateUpdated   = "template.updated"
	ActionBrandingUpdated   = "branding.updated"
)

type AuditLog struct {
	ID             string                 `json:"id"`
	OrganizationID string                 `json:"organization_id"`
	UserID         string                 `json:"user_id"`
	Action         string                 `json:"action"`
	ResourceType   string                 `json:"resource_type"`
	ResourceID     string                 `json:"resource_id"`
	Metadata       map[string]interface{} `json:"metadata"`
	CreatedAt      int64                  `json:"created_at"`
}

type Logger struct {
	globalDB *sql.DB
}

func NewLogger(db *sql.DB) *Logger {
	return &Logger{globalDB: db}
}

func (l *Logger) Log(ctx context.Context, action, resourceType, resourceID string, metadata map[string]interface{}) {
	var orgID, userID string

	if claims, ok := ctx.Value(apiContext.Claims).(*auth.Claims); ok {
		orgID = claims.OrganizationID
		userID = claims.UserID
	}
	if tenant, ok := ctx.Value(apiContext.Tenant).(*database.TenantContext); ok && orgID == "" {
		orgID = tenant.OrgID
	}

	metaJSON, _ := json.Marshal(metadata)

	entry := &AuditLog{
		ID:             "audit_" + uuid.New().String(),
		OrganizationID: orgID,
		UserID:         userID,
		Action:         action,
		ResourceType:   resourceType,
		ResourceID:     resourceID,
		Metadata:       metadata,
		CreatedAt:      time.Now().Unix(),
	}

	// Fire and forget; audit writes must not block request handling.
	go func() {
		l.globalDB.Exec(`
			INSERT INTO audit_logs (id, organization_id, user_id, action, resource_type, resource_id, metadata, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, entry.ID, entry.OrganizationID, entry.UserID, entry.Action, entry.ResourceType, entry.ResourceID, string(metaJSON), entry.CreatedAt)
	}()
}

func (l *Logger) ListByOrg(orgID string, limit, offset int) ([]*AuditLog, error) {
	rows, err := l.globalDB.Query(`
		SELECT id, organization_id, user_id, action, resource_type, resource_id, metadata, created_at
		FROM audit_logs WHERE organization_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?
	`, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*AuditLog
	for rows.Next() {
		var entry AuditLog
		var metaRaw []byte
		if err := rows.Scan(&entry.ID, &entry.OrganizationID, &entry.UserID, &entry.Action, &entry.ResourceType, &entry.ResourceID, &metaRaw, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if len(metaRaw) > 0 {
			json.Unmarshal(metaRaw, &entry.Metadata)
		}
		logs = append(logs, &entry)
	}
	return logs, rows.Err()
}
