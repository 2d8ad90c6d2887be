package clients

import "database/sql"

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const clientColumns = `id, name, tax_id, identity_doc, marital_status, profession, email, phone, address, notes, created_by, created_at, updated_at`

func (r *Repository) Create(c *Client) error {
	_, err := r.db.Exec(`
		INSERT INTO clients (`+clientColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.TaxID, c.IdentityDoc, c.MaritalStatus, c.Profession,
		c.Email, c.Phone, c.Address, c.Notes, c.CreatedBy, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *Repository) GetByID(id string) (*Client, error) {
	row := r.db.QueryRow(`SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
	c, err := scanClient(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (r *Repository) GetByTaxID(taxID string) (*Client, error) {
	row := r.db.QueryRow(`SELECT `+clientColumns+` FROM clients WHERE tax_id = ?`, taxID)
	c, err := scanClient(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (r *Repository) List(search string, limit, offset int) ([]*Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients`
	args := []interface{}{}
	if search != "" {
		query += ` WHERE name LIKE ? OR tax_id LIKE ?`
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY name ASC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update never touches name or tax_id; identity is fixed at creation.
func (r *Repository) Update(c *Client) error {
	_, err := r.db.Exec(`
		UPDATE clients SET identity_doc = ?, marital_status = ?, profession = ?, email = ?, phone = ?, address = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`, c.IdentityDoc, c.MaritalStatus, c.Profession, c.Email, c.Phone, c.Address, c.Notes, c.UpdatedAt, c.ID)
	return err
}

func (r *Repository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM clients WHERE id = ?`, id)
	return err
}

func scanClient(s interface {
	Scan(dest ...interface{}) error
}) (*Client, error) {
	var c Client
	err := s.Scan(&c.ID, &c.Name, &c.TaxID, &c.IdentityDoc, &c.MaritalStatus, &c.Profession,
		&c.Email, &c.Phone, &c.Address, &c.Notes, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
