package repositories

import (
	"database/sql"
	"encoding/json"
	"time"

	"recurso/internal/platform/models"
)

type OrganizationRepository struct {
	db *sql.DB
}

func NewOrganizationRepository(db *sql.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) BeginTx() (*sql.Tx, error) {
	return r.db.Begin()
}

const orgColumns = `id, slug, name, tax_id, address, db_file_path, plan_tier, case_quota, member_quota, default_reminder_days, branding, webhook_secret, created_at, updated_at, deleted_at`

func (r *OrganizationRepository) CreateTx(tx *sql.Tx, org *models.Organization) error {
	brandingJSON, _ := json.Marshal(org.Branding)
	_, err := tx.Exec(`
		INSERT INTO organizations (id, slug, name, tax_id, address, db_file_path, plan_tier, case_quota, member_quota, default_reminder_days, branding, webhook_secret, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, org.ID, org.Slug, org.Name, org.TaxID, org.Address, org.DBFilePath, org.PlanTier, org.CaseQuota, org.MemberQuota, org.DefaultReminderDays, string(brandingJSON), org.WebhookSecret, org.CreatedAt, org.UpdatedAt)
	return err
}

func (r *OrganizationRepository) Create(org *models.Organization) error {
	brandingJSON, _ := json.Marshal(org.Branding)
	_, err := r.db.Exec(`
		INSERT INTO organizations (id, slug, name, tax_id, address, db_file_path, plan_tier, case_quota, member_quota, default_reminder_days, branding, webhook_secret, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, org.ID, org.Slug, org.Name, org.TaxID, org.Address, org.DBFilePath, org.PlanTier, org.CaseQuota, org.MemberQuota, org.DefaultReminderDays, string(brandingJSON), org.WebhookSecret, org.CreatedAt, org.UpdatedAt)
	return err
}

func (r *OrganizationRepository) GetByID(id string) (*models.Organization, error) {
	row := r.db.QueryRow(`SELECT `+orgColumns+` FROM organizations WHERE id = ?`, id)
	return scanOrganization(row)
}

func (r *OrganizationRepository) GetBySlug(slug string) (*models.Organization, error) {
	row := r.db.QueryRow(`SELECT `+orgColumns+` FROM organizations WHERE slug = ?`, slug)
	return scanOrganization(row)
}

func (r *OrganizationRepository) List() ([]*models.Organization, error) {
	rows, err := r.db.Query(`SELECT ` + orgColumns + ` FROM organizations WHERE deleted_at IS NULL ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []*models.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

func (r *OrganizationRepository) UpdateBranding(id string, branding *models.BrandingOverride) error {
	brandingJSON, _ := json.Marshal(branding)
	_, err := r.db.Exec(`UPDATE organizations SET branding = ?, updated_at = ? WHERE id = ?`,
		string(brandingJSON), time.Now().Unix(), id)
	return err
}

func (r *OrganizationRepository) UpdateDefaultReminderDays(id string, days int) error {
	_, err := r.db.Exec(`UPDATE organizations SET default_reminder_days = ?, updated_at = ? WHERE id = ?`,
		days, time.Now().Unix(), id)
	return err
}

func scanOrganization(s interface {
	Scan(dest ...interface{}) error
}) (*models.Organization, error) {
	org := &models.Organization{}
	var brandingRaw []byte

	err := s.Scan(&org.ID, &org.Slug, &org.Name, &org.TaxID, &org.Address, &org.DBFilePath,
		&org.PlanTier, &org.CaseQuota, &org.MemberQuota, &org.DefaultReminderDays,
		&brandingRaw, &org.WebhookSecret, &org.CreatedAt, &org.UpdatedAt, &org.DeletedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if len(brandingRaw) > 0 && string(brandingRaw) != "null" {
		json.Unmarshal(brandingRaw, &org.Branding)
	}
	return org, nil
}

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateTx(tx *sql.Tx, user *models.User) error {
	_, err := tx.Exec(`
		INSERT INTO users (id, organization_id, email, email_verified, password_hash, full_name, role, avatar_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, user.ID, user.OrganizationID, user.Email, user.EmailVerified, user.PasswordHash, user.FullName, user.Role, user.AvatarURL, user.CreatedAt, user.UpdatedAt)
	return err
}

func (r *UserRepository) Create(user *models.User) error {
	_, err := r.db.Exec(`
		INSERT INTO users (id, organization_id, email, email_verified, password_hash, full_name, role, avatar_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, user.ID, user.OrganizationID, user.Email, user.EmailVerified, user.PasswordHash, user.FullName, user.Role, user.AvatarURL, user.CreatedAt, user.UpdatedAt)
	return err
}

func (r *UserRepository) GetByID(id string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(`
		SELECT id, organization_id, email, email_verified, password_hash, full_name, role, avatar_url, last_login_at, created_at, updated_at, deleted_at
		FROM users WHERE id = ?
	`, id).Scan(&user.ID, &user.OrganizationID, &user.Email, &user.EmailVerified, &user.PasswordHash, &user.FullName, &user.Role, &user.AvatarURL, &user.LastLoginAt, &user.CreatedAt, &user.UpdatedAt, &user.DeletedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(`
		SELECT id, organization_id, email, email_verified, password_hash, full_name, role, avatar_url, last_login_at, created_at, updated_at, deleted_at
		FROM users WHERE email = ?
	`, email).Scan(&user.ID, &user.OrganizationID, &user.Email, &user.EmailVerified, &user.PasswordHash, &user.FullName, &user.Role, &user.AvatarURL, &user.LastLoginAt, &user.CreatedAt, &user.UpdatedAt, &user.DeletedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) ListByOrg(orgID string) ([]*models.User, error) {
	rows, err := r.db.Query(`
		SELECT id, organization_id, email, email_verified, password_hash, full_name, role, avatar_url, last_login_at, created_at, updated_at, deleted_at
		FROM users WHERE organization_id = ? AND deleted_at IS NULL ORDER BY created_at
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.OrganizationID, &user.Email, &user.EmailVerified, &user.PasswordHash, &user.FullName, &user.Role, &user.AvatarURL, &user.LastLoginAt, &user.CreatedAt, &user.UpdatedAt, &user.DeletedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) UpdateLastLogin(userID string, timestamp int64) error {
	_, err := r.db.Exec(`UPDATE users SET last_login_at = ? WHERE id = ?`, timestamp, userID)
	return err
}

func (r *UserRepository) UpdateRole(userID, role string) error {
	_, err := r.db.Exec(`UPDATE users SET role = ?, updated_at = ? WHERE id = ?`, role, time.Now().Unix(), userID)
	return err
}

func (r *UserRepository) SoftDelete(userID string) error {
	now := time.Now().Unix()
	_, err := r.db.Exec(`UPDATE users SET deleted_at = ?, updated_at = ? WHERE id = ?`, now, now, userID)
	return err
}

type InviteRepository struct {
	db *sql.DB
}

func NewInviteRepository(db *sql.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

func (r *InviteRepository) Create(invite *models.Invite) error {
	_, err := r.db.Exec(`
		INSERT INTO invites (id, organization_id, code, email, role, invited_by, status, max_uses, current_uses, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, invite.ID, invite.OrganizationID, invite.Code, invite.Email, invite.Role, invite.InvitedBy, invite.Status, invite.MaxUses, invite.CurrentUses, invite.ExpiresAt, invite.CreatedAt, invite.UpdatedAt)
	return err
}

func (r *InviteRepository) GetByCode(code string) (*models.Invite, error) {
	invite := &models.Invite{}
	err := r.db.QueryRow(`
		SELECT id, organization_id, code, email, role, invited_by, status, max_uses, current_uses, expires_at, created_at, updated_at
		FROM invites WHERE code = ?
	`, code).Scan(&invite.ID, &invite.OrganizationID, &invite.Code, &invite.Email, &invite.Role, &invite.InvitedBy, &invite.Status, &invite.MaxUses, &invite.CurrentUses, &invite.ExpiresAt, &invite.CreatedAt, &invite.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return invite, nil
}

func (r *InviteRepository) IncrementUsesTx(tx *sql.Tx, id string) error {
	_, err := tx.Exec(`UPDATE invites SET current_uses = current_uses + 1, updated_at = ? WHERE id = ?`, time.Now().Unix(), id)
	return err
}
