package cases

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Case is a generated legal document tied to a client, a service and its
// reminder state. Content is a snapshot: template edits never touch it;
// regeneration is an explicit action.
type Case struct {
	ID         string       `json:"id"`
	ClientID   string       `json:"client_id"`
	ServiceID  string       `json:"service_id"`
	TemplateID string       `json:"template_id"`
	Content    string       `json:"content"`
	Status     string       `json:"status"`
	Value      float64      `json:"value"`
	Details    *CaseDetails `json:"details,omitempty"` // JSON

	ReminderEnabled      bool   `json:"reminder_enabled"`
	ReminderIntervalDays int    `json:"reminder_interval_days"`
	NextReminderAt       *int64 `json:"next_reminder_at,omitempty"`
	LastContactAt        *int64 `json:"last_contact_at,omitempty"`

	CreatedBy string `json:"created_by"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`

	// Derived, populated on read.
	Escalation *Escalation `json:"escalation,omitempty"`
}

// CaseDetails holds the case-specific value set.
type CaseDetails struct {
	InfractionNumber string `json:"infraction_number,omitempty"`
	ProcessNumber    string `json:"process_number,omitempty"`
	Plate            string `json:"plate,omitempty"`
	Phase            string `json:"phase,omitempty"`
	PaymentTerms     string `json:"payment_terms,omitempty"`
}

// Value implements the driver.Valuer interface for CaseDetails
func (d CaseDetails) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements the sql.Scanner interface for CaseDetails
func (d *CaseDetails) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, d)
}

const (
	StatusPending          = "pending"
	StatusSigned           = "signed"
	StatusAwaitingJudgment = "awaiting_judgment"
	StatusGranted          = "granted"
	StatusDenied           = "denied"
	StatusArchived         = "archived"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusSigned, StatusAwaitingJudgment, StatusGranted, StatusDenied, StatusArchived:
		return true
	}
	return false
}
