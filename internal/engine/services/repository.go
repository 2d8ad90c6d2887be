package services

import "database/sql"

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const serviceColumns = `id, name, description, price, active, created_at, updated_at`

func (r *Repository) Create(s *Service) error {
	_, err := r.db.Exec(`
		INSERT INTO services (`+serviceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.Name, s.Description, s.Price, s.Active, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *Repository) GetByID(id string) (*Service, error) {
	row := r.db.QueryRow(`SELECT `+serviceColumns+` FROM services WHERE id = ?`, id)
	s, err := scanService(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *Repository) List(activeOnly bool) ([]*Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *Repository) Update(s *Service) error {
	_, err := r.db.Exec(`
		UPDATE services SET name = ?, description = ?, price = ?, updated_at = ? WHERE id = ?
	`, s.Name, s.Description, s.Price, s.UpdatedAt, s.ID)
	return err
}

func (r *Repository) SetActive(id string, active bool, updatedAt int64) error {
	_, err := r.db.Exec(`UPDATE services SET active = ?, updated_at = ? WHERE id = ?`,
		active, updatedAt, id)
	return err
}

func scanService(row interface {
	Scan(dest ...interface{}) error
}) (*Service, error) {
	var s Service
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Price, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
