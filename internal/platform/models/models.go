package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

type Organization struct {
	ID                   string            `json:"id"`
	Slug                 string            `json:"slug"`
	Name                 string            `json:"name"`
	TaxID                string            `json:"tax_id"`
	Address              string            `json:"address"`
	DBFilePath           string            `json:"db_file_path"`
	PlanTier             string            `json:"plan_tier"`
	CaseQuota            int               `json:"case_quota"`
	MemberQuota          int               `json:"member_quota"`
	DefaultReminderDays  int               `json:"default_reminder_days"`
	Branding             *BrandingOverride `json:"branding,omitempty"`
	WebhookSecret        string            `json:"webhook_secret"`
	CreatedAt            int64             `json:"created_at"`
	UpdatedAt            int64             `json:"updated_at"`
	DeletedAt            *int64            `json:"deleted_at,omitempty"`
}

// BrandingOverride lets generated documents carry an identity that differs
// from the organization's legal identity. Absent fields fall back to the
// organization's base fields.
type BrandingOverride struct {
	LogoURL         string `json:"logo_url,omitempty"`
	LetterheadURL   string `json:"letterhead_url,omitempty"`
	PrimaryColor    string `json:"primary_color,omitempty"`
	SecondaryColor  string `json:"secondary_color,omitempty"`
	HeaderStyle     string `json:"header_style,omitempty"` // elegant, classic, minimal
	ContractName    string `json:"contract_name,omitempty"`
	ContractTaxID   string `json:"contract_tax_id,omitempty"`
	ContractAddress string `json:"contract_address,omitempty"`
}

const (
	HeaderStyleElegant = "elegant"
	HeaderStyleClassic = "classic"
	HeaderStyleMinimal = "minimal"
)

func ValidHeaderStyle(s string) bool {
	switch s {
	case HeaderStyleElegant, HeaderStyleClassic, HeaderStyleMinimal:
		return true
	}
	return false
}

// Value implements the driver.Valuer interface for BrandingOverride
func (b BrandingOverride) Value() (driver.Value, error) {
	return json.Marshal(b)
}

// Scan implements the sql.Scanner interface for BrandingOverride
func (b *BrandingOverride) Scan(value interface{}) error {
	raw, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(raw, b)
}

type User struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Email          string `json:"email"`
	EmailVerified  bool   `json:"email_verified"`
	PasswordHash   string `json:"-"`
	FullName       string `json:"full_name"`
	Role           string `json:"role"`
	AvatarURL      string `json:"avatar_url,omitempty"`
	LastLoginAt    *int64 `json:"last_login_at,omitempty"`
	CreatedAt      int64  `json:"created_at"`
	UpdatedAt      int64  `json:"updated_at"`
	DeletedAt      *int64 `json:"deleted_at,omitempty"`

	Organization *Organization `json:"organization,omitempty"`
}

type Invite struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Code           string `json:"code"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"role"`
	InvitedBy      string `json:"invited_by"`
	Status         string `json:"status"`
	MaxUses        int    `json:"max_uses"`
	CurrentUses    int    `json:"current_uses"`
	ExpiresAt      int64  `json:"expires_at"`
	CreatedAt      int64  `json:"created_at"`
	UpdatedAt      int64  `json:"updated_at"`
}
