package documents

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Service orchestrates registry lookup, required-field validation and
// generation. Generation itself stays pure; this is the layer that enforces
// the per-model field contract before a model may be selected.
type Service struct {
	registry *Registry
}

func NewService(registry *Registry) *Service {
	return &Service{registry: registry}
}

// ValidateRequired checks a fixed model's field contract. Custom templates
// have no contract and always pass.
func ValidateRequired(kind ModelKind, fields CaseFields) error {
	errs := validation.Errors{}
	for _, name := range kind.RequiredFields() {
		var value interface{}
		switch name {
		case FieldInfractionNumber:
			value = fields.InfractionNumber
		case FieldProcessNumber:
			value = fields.ProcessNumber
		case FieldPaymentTerms:
			value = fields.PaymentTerms
		case FieldValue:
			value = fields.Value
		}
		if err := validation.Validate(value, validation.Required); err != nil {
			errs[name] = err
		}
	}
	return errs.Filter()
}

// Generate produces the document text for review. Fixed models compose
// legal prose directly; custom templates go through token substitution,
// with unresolved tokens surfaced as warnings rather than failures.
func (s *Service) Generate(in GenerateInput) (*GenerateResult, error) {
	resolved, err := s.registry.Resolve(in.TemplateID)
	if err != nil {
		return nil, err
	}

	org := ResolveIdentity(in.Org)

	if resolved.IsFixed() {
		if err := ValidateRequired(resolved.Model, in.Fields); err != nil {
			return nil, err
		}
		content := Compose(resolved.Model, ComposeInput{
			Client: in.Client,
			Org:    org,
			Fields: in.Fields,
			Now:    in.Now,
		})
		return &GenerateResult{Content: content}, nil
	}

	bindings := BuildBindings(in.Client, org, in.Fields, in.Now)
	content, unresolved := Render(resolved.Custom.Body, bindings)
	return &GenerateResult{Content: content, Warnings: unresolved}, nil
}
