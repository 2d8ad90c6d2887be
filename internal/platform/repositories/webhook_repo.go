package repositories

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"recurso/internal/platform/models"
)

// Webhook endpoints live in the tenant database; each organization manages
// its own delivery targets.
type WebhookRepository struct {
	db *sql.DB
}

func NewWebhookRepository(db *sql.DB) *WebhookRepository {
	return &WebhookRepository{db: db}
}

func (r *WebhookRepository) Create(webhook *models.Webhook) error {
	webhook.ID = "wh_" + uuid.New().String()
	webhook.CreatedAt = time.Now().Unix()
	webhook.UpdatedAt = webhook.CreatedAt
	webhook.Status = "active"

	eventsJSON, err := json.Marshal(webhook.Events)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		INSERT INTO webhooks (id, url, events, secret, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, webhook.ID, webhook.URL, string(eventsJSON), webhook.Secret, webhook.Status, webhook.CreatedAt, webhook.UpdatedAt)
	return err
}

func (r *WebhookRepository) List() ([]*models.Webhook, error) {
	rows, err := r.db.Query(`SELECT id, url, events, secret, status, retry_count, last_triggered_at, last_error, created_at, updated_at FROM webhooks ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var webhooks []*models.Webhook
	for rows.Next() {
		w, err := scanWebhook(rows)
		if err != nil {
			return nil, err
		}
		webhooks = append(webhooks, w)
	}
	return webhooks, rows.Err()
}

func (r *WebhookRepository) GetByEvent(eventType string) ([]*models.Webhook, error) {
	// Events are stored as a JSON array; active endpoints are fetched and
	// filtered in-process. Endpoint counts per tenant are small.
	rows, err := r.db.Query(`SELECT id, url, events, secret, status, retry_count, last_triggered_at, last_error, created_at, updated_at FROM webhooks WHERE status = 'active'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matched []*models.Webhook
	for rows.Next() {
		w, err := scanWebhook(rows)
		if err != nil {
			continue
		}
		for _, e := range w.Events {
			if e == eventType {
				matched = append(matched, w)
				break
			}
		}
	}
	return matched, nil
}

func (r *WebhookRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM webhooks WHERE id = ?`, id)
	return err
}

func (r *WebhookRepository) UpdateLastTriggered(id string, timestamp int64) error {
	_, err := r.db.Exec(`UPDATE webhooks SET last_triggered_at = ?, retry_count = 0, last_error = NULL WHERE id = ?`, timestamp, id)
	return err
}

func (r *WebhookRepository) RecordFailure(id, lastError string) error {
	_, err := r.db.Exec(`UPDATE webhooks SET retry_count = retry_count + 1, last_error = ? WHERE id = ?`, lastError, id)
	return err
}

func scanWebhook(rows *sql.Rows) (*models.Webhook, error) {
	var w models.Webhook
	var eventsStr string
	var lastTriggeredAt sql.NullInt64
	var lastError sql.NullString

	if err := rows.Scan(&w.ID, &w.URL, &eventsStr, &w.Secret, &w.Status, &w.RetryCount, &lastTriggeredAt, &lastError, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}

	if lastTriggeredAt.Valid {
		w.LastTriggeredAt = lastTriggeredAt.Int64
	}
	if lastError.Valid {
		w.LastError = lastError.String
	}
	json.Unmarshal([]byte(eventsStr), &w.Events)
	return &w, nil
}
