package documents

import (
	"database/sql"
	"time"
)

type TemplateRepository struct {
	db *sql.DB
}

func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) Create(t *Template) error {
	_, err := r.db.Exec(`
		INSERT INTO templates (id, name, description, body, status, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Name, t.Description, t.Body, t.Status, t.CreatedBy, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *TemplateRepository) GetByID(id string) (*Template, error) {
	row := r.db.QueryRow(`
		SELECT id, name, description, body, status, created_by, created_at, updated_at
		FROM templates WHERE id = ?
	`, id)

	var t Template
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Body, &t.Status, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TemplateRepository) List() ([]*Template, error) {
	rows, err := r.db.Query(`
		SELECT id, name, description, body, status, created_by, created_at, updated_at
		FROM templates WHERE status = 'active' ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*Template
	for rows.Next() {
		var t Template
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Body, &t.Status, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, &t)
	}
	return templates, rows.Err()
}

func (r *TemplateRepository) Update(t *Template) error {
	t.UpdatedAt = time.Now().Unix()
	_, err := r.db.Exec(`
		UPDATE templates SET name = ?, description = ?, body = ?, updated_at = ? WHERE id = ?
	`, t.Name, t.Description, t.Body, t.UpdatedAt, t.ID)
	return err
}

func (r *TemplateRepository) Archive(id string) error {
	_, err := r.db.Exec(`UPDATE templates SET status = 'archived', updated_at = ? WHERE id = ?`, time.Now().Unix(), id)
	return err
}
