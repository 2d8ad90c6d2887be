package documents

import "errors"

// ErrTemplateNotFound is returned when a template identifier matches neither
// a fixed model nor a stored custom template.
var ErrTemplateNotFound = errors.New("template not found")

// Resolved is the outcome of a registry lookup: exactly one of Model or
// Custom is set.
type Resolved struct {
	Model  ModelKind
	Custom *Template
}

func (r *Resolved) IsFixed() bool {
	return r.Custom == nil
}

// Registry resolves template identifiers against the fixed model set first,
// then the organization's custom templates.
type Registry struct {
	repo *TemplateRepository
}

func NewRegistry(repo *TemplateRepository) *Registry {
	return &Registry{repo: repo}
}

func (r *Registry) Resolve(id string) (*Resolved, error) {
	if kind := ModelKind(id); kind.Valid() {
		return &Resolved{Model: kind}, nil
	}

	t, err := r.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTemplateNotFound
	}
	return &Resolved{Custom: t}, nil
}
