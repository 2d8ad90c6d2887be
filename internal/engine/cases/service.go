package cases

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo        *Repository
	orgInterval int // organization default reminder interval
}

func NewService(repo *Repository, orgDefaultInterval int) *Service {
	return &Service{repo: repo, orgInterval: orgDefaultInterval}
}

var (
	ErrCaseNotFound  = errors.New("case not found")
	ErrInvalidStatus = errors.New("invalid case status")
	ErrEmptyContent  = errors.New("case content is required")
)

// Create persists the reviewed document as a new case. Content arrives from
// the editable preview step; it is stored verbatim and then only changes via
// Regenerate.
func (s *Service) Create(req *Case, now time.Time) (*Case, error) {
	if req.Content == "" {
		return nil, ErrEmptyContent
	}

	c := &Case{
		ID:         "case_" + uuid.New().String(),
		ClientID:   req.ClientID,
		ServiceID:  req.ServiceID,
		TemplateID: req.TemplateID,
		Content:    req.Content,
		Status:     StatusPending,
		Value:      req.Value,
		Details:    req.Details,
		CreatedBy:  req.CreatedBy,
		CreatedAt:  now.Unix(),
		UpdatedAt:  now.Unix(),
	}

	if req.Status != "" {
		if !ValidStatus(req.Status) {
			return nil, ErrInvalidStatus
		}
		c.Status = req.Status
	}

	c.ReminderEnabled = req.ReminderEnabled
	c.ReminderIntervalDays = ResolveInterval(req.ReminderIntervalDays, s.orgInterval)
	if c.ReminderEnabled {
		next := now.AddDate(0, 0, c.ReminderIntervalDays).Unix()
		c.NextReminderAt = &next
	}

	if err := s.repo.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(id string, now time.Time) (*Case, error) {
	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCaseNotFound
	}
	s.decorate(c, now)
	return c, nil
}

func (s *Service) List(status string, limit, offset int, now time.Time) ([]*Case, error) {
	if status != "" && !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	list, err := s.repo.List(status, limit, offset)
	if err != nil {
		return nil, err
	}
	for _, c := range list {
		s.decorate(c, now)
	}
	return list, nil
}

func (s *Service) UpdateStatus(id, status string) (*Case, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCaseNotFound
	}
	if err := s.repo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	c.Status = status
	return c, nil
}

// Regenerate overwrites the stored snapshot with freshly generated and
// reviewed content. This is the only path that mutates Content.
func (s *Service) Regenerate(id, content string) error {
	if content == "" {
		return ErrEmptyContent
	}
	c, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrCaseNotFound
	}
	return s.repo.UpdateContent(id, content)
}

// SetReminder toggles the reminder and resolves the interval chain:
// requested value, then organization default, then 7.
func (s *Service) SetReminder(id string, enabled bool, intervalDays int, now time.Time) (*Case, error) {
	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCaseNotFound
	}

	interval := ResolveInterval(intervalDays, s.orgInterval)
	var nextAt *int64
	if enabled {
		next := now.AddDate(0, 0, interval).Unix()
		nextAt = &next
	}

	if err := s.repo.UpdateReminder(id, enabled, interval, nextAt); err != nil {
		return nil, err
	}

	c.ReminderEnabled = enabled
	c.ReminderIntervalDays = interval
	c.NextReminderAt = nextAt
	s.decorate(c, now)
	return c, nil
}

// Notify records a manual contact: last contact becomes now, the next
// reminder moves one interval out, and the tier drops back on the next read.
func (s *Service) Notify(id string, now time.Time) (*Case, error) {
	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCaseNotFound
	}

	interval := ResolveInterval(c.ReminderIntervalDays, s.orgInterval)
	contactAt := now.Unix()
	nextAt := now.AddDate(0, 0, interval).Unix()

	if err := s.repo.RecordContact(id, contactAt, nextAt); err != nil {
		return nil, err
	}

	c.LastContactAt = &contactAt
	c.NextReminderAt = &nextAt
	s.decorate(c, now)
	return c, nil
}

func (s *Service) Archive(id string) error {
	return s.repo.Archive(id)
}

func (s *Service) decorate(c *Case, now time.Time) {
	if !c.ReminderEnabled {
		return
	}
	interval := ResolveInterval(c.ReminderIntervalDays, s.orgInterval)

	var lastContact *time.Time
	if c.LastContactAt != nil {
		t := time.Unix(*c.LastContactAt, 0)
		lastContact = &t
	}

	esc := Classify(lastContact, interval, now)
	c.Escalation = &esc
}
