package clients

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"recurso/internal/pkg/validator"
)

// Client is a person or company the firm represents. TaxID is a CPF or
// CNPJ and is check-digit validated on write. Name and TaxID identify the
// client on generated documents and never change after creation.
type Client struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	TaxID         string `json:"tax_id"`
	IdentityDoc   string `json:"identity_doc,omitempty"`
	MaritalStatus string `json:"marital_status,omitempty"`
	Profession    string `json:"profession,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	Notes         string `json:"notes,omitempty"`
	CreatedBy     string `json:"created_by"`
	CreatedAt     int64  `json:"created_at"`
	UpdatedAt     int64  `json:"updated_at"`
}

var (
	ErrClientNotFound    = errors.New("client not found")
	ErrNameRequired      = errors.New("client name is required")
	ErrIdentityImmutable = errors.New("client name and tax id cannot be changed")
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(req *Client, now time.Time) (*Client, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, ErrNameRequired
	}
	if err := validator.ValidateTaxID(req.TaxID); err != nil {
		return nil, err
	}
	if req.Email != "" {
		if err := validator.ValidateEmail(req.Email); err != nil {
			return nil, err
		}
	}

	c := &Client{
		ID:            "cli_" + uuid.New().String(),
		Name:          req.Name,
		TaxID:         req.TaxID,
		IdentityDoc:   req.IdentityDoc,
		MaritalStatus: req.MaritalStatus,
		Profession:    req.Profession,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		Notes:         req.Notes,
		CreatedBy:     req.CreatedBy,
		CreatedAt:     now.Unix(),
		UpdatedAt:     now.Unix(),
	}

	if err := s.repo.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(id string) (*Client, error) {
	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrClientNotFound
	}
	return c, nil
}

// List returns clients ordered by name; search matches name or tax id.
func (s *Service) List(search string, limit, offset int) ([]*Client, error) {
	return s.repo.List(search, limit, offset)
}

// Update replaces the staff-editable fields. Name and TaxID are identity
// fields and may only be repeated back unchanged.
func (s *Service) Update(id string, req *Client, now time.Time) (*Client, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrClientNotFound
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name != "" && req.Name != existing.Name {
		return nil, ErrIdentityImmutable
	}
	if req.TaxID != "" && req.TaxID != existing.TaxID {
		return nil, ErrIdentityImmutable
	}
	if req.Email != "" {
		if err := validator.ValidateEmail(req.Email); err != nil {
			return nil, err
		}
	}

	existing.IdentityDoc = req.IdentityDoc
	existing.MaritalStatus = req.MaritalStatus
	existing.Profession = req.Profession
	existing.Email = req.Email
	existing.Phone = req.Phone
	existing.Address = req.Address
	existing.Notes = req.Notes
	existing.UpdatedAt = now.Unix()

	if err := s.repo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *Service) Delete(id string) error {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrClientNotFound
	}
	return s.repo.Delete(id)
}
