package cases

import (
	"database/sql"
	"encoding/json"
	"time"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const caseColumns = `id, client_id, service_id, template_id, content, status, value, details,
	reminder_enabled, reminder_interval_days, next_reminder_at, last_contact_at,
	created_by, created_at, updated_at`

func (r *Repository) Create(c *Case) error {
	detailsJSON, _ := json.Marshal(c.Details)

	_, err := r.db.Exec(`
		INSERT INTO cases (`+caseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		c.ID, c.ClientID, c.ServiceID, c.TemplateID, c.Content, c.Status, c.Value,
		string(detailsJSON), c.ReminderEnabled, c.ReminderIntervalDays,
		c.NextReminderAt, c.LastContactAt, c.CreatedBy, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (r *Repository) GetByID(id string) (*Case, error) {
	row := r.db.QueryRow(`SELECT `+caseColumns+` FROM cases WHERE id = ?`, id)
	c, err := scanCase(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (r *Repository) List(status string, limit, offset int) ([]*Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// ListReminderEnabled returns open cases whose reminder toggle is on,
// for escalation display and the daily sweep.
func (r *Repository) ListReminderEnabled() ([]*Case, error) {
	rows, err := r.db.Query(`
		SELECT ` + caseColumns + ` FROM cases
		WHERE reminder_enabled = 1 AND status NOT IN ('granted', 'denied', 'archived')
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *Repository) UpdateStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE cases SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().Unix(), id)
	return err
}

// UpdateContent replaces the stored snapshot; only the explicit regenerate
// action calls this.
func (r *Repository) UpdateContent(id, content string) error {
	_, err := r.db.Exec(`UPDATE cases SET content = ?, updated_at = ? WHERE id = ?`,
		content, time.Now().Unix(), id)
	return err
}

func (r *Repository) UpdateReminder(id string, enabled bool, intervalDays int, nextAt *int64) error {
	_, err := r.db.Exec(`
		UPDATE cases SET reminder_enabled = ?, reminder_interval_days = ?, next_reminder_at = ?, updated_at = ?
		WHERE id = ?
	`, enabled, intervalDays, nextAt, time.Now().Unix(), id)
	return err
}

func (r *Repository) RecordContact(id string, contactAt, nextAt int64) error {
	_, err := r.db.Exec(`
		UPDATE cases SET last_contact_at = ?, next_reminder_at = ?, updated_at = ? WHERE id = ?
	`, contactAt, nextAt, time.Now().Unix(), id)
	return err
}

func (r *Repository) Archive(id string) error {
	return r.UpdateStatus(id, StatusArchived)
}

func scanCase(s interface {
	Scan(dest ...interface{}) error
}) (*Case, error) {
	var c Case
	var detailsRaw []byte
	var nextAt, lastAt sql.NullInt64

	err := s.Scan(
		&c.ID, &c.ClientID, &c.ServiceID, &c.TemplateID, &c.Content, &c.Status, &c.Value,
		&detailsRaw, &c.ReminderEnabled, &c.ReminderIntervalDays, &nextAt, &lastAt,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if nextAt.Valid {
		val := nextAt.Int64
		c.NextReminderAt = &val
	}
	if lastAt.Valid {
		val := lastAt.Int64
		c.LastContactAt = &val
	}
	if len(detailsRaw) > 0 && string(detailsRaw) != "null" {
		json.Unmarshal(detailsRaw, &c.Details)
	}
	return &c, nil
}
