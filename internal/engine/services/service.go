package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service is an offering of the firm, such as a basic defense or a full
// administrative appeal, with its default price.
type Service struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Active      bool    `json:"active"`
	CreatedAt   int64   `json:"created_at"`
	UpdatedAt   int64   `json:"updated_at"`
}

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrNameRequired    = errors.New("service name is required")
	ErrNegativePrice   = errors.New("service price cannot be negative")
)

type Manager struct {
	repo *Repository
}

func NewManager(repo *Repository) *Manager {
	return &Manager{repo: repo}
}

func (m *Manager) Create(req *Service, now time.Time) (*Service, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, ErrNameRequired
	}
	if req.Price < 0 {
		return nil, ErrNegativePrice
	}

	svc := &Service{
		ID:          "svc_" + uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Active:      true,
		CreatedAt:   now.Unix(),
		UpdatedAt:   now.Unix(),
	}

	if err := m.repo.Create(svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (m *Manager) Get(id string) (*Service, error) {
	svc, err := m.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}
	return svc, nil
}

// List returns offerings ordered by name; activeOnly hides retired ones.
func (m *Manager) List(activeOnly bool) ([]*Service, error) {
	return m.repo.List(activeOnly)
}

func (m *Manager) Update(id string, req *Service, now time.Time) (*Service, error) {
	existing, err := m.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrServiceNotFound
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, ErrNameRequired
	}
	if req.Price < 0 {
		return nil, ErrNegativePrice
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Price = req.Price
	existing.UpdatedAt = now.Unix()

	if err := m.repo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Deactivate retires an offering without touching cases that reference it.
func (m *Manager) Deactivate(id string, now time.Time) error {
	existing, err := m.repo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrServiceNotFound
	}
	return m.repo.SetActive(id, false, now.Unix())
}
