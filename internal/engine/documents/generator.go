package documents

import (
	"time"

	"recurso/internal/platform/models"
)

// GenerateInput is the full snapshot a document is produced from. Now is
// supplied by the caller so the date tokens are testable.
type GenerateInput struct {
	TemplateID string
	Client     ClientInfo
	Org        *models.Organization
	Fields     CaseFields
	Now        time.Time
}

// GenerateResult is a preview: callers show it for human review and edit
// before anything is persisted.
type GenerateResult struct {
	Content  string   `json:"content"`
	Warnings []string `json:"warnings,omitempty"`
}

// BuildBindings resolves every catalog token from the input snapshot.
// Currency and date tokens are formatted here so custom templates and fixed
// models agree on conventions.
func BuildBindings(client ClientInfo, org Identity, fields CaseFields, now time.Time) map[string]string {
	return map[string]string{
		TokenClientName:    client.Name,
		TokenClientTaxID:   client.TaxID,
		TokenClientIDDoc:   client.IdentityDoc,
		TokenClientMarital: client.MaritalStatus,
		TokenClientJob:     client.Profession,
		TokenClientAddress: client.Address,
		TokenClientPhone:   client.Phone,
		TokenClientEmail:   client.Email,

		TokenOrgName:    org.Name,
		TokenOrgTaxID:   org.TaxID,
		TokenOrgAddress: org.Address,

		TokenInfraction:   fields.InfractionNumber,
		TokenProcess:      fields.ProcessNumber,
		TokenPlate:        fields.Plate,
		TokenPhase:        fields.Phase,
		TokenPaymentTerms: fields.PaymentTerms,
		TokenValue:        FormatCurrency(fields.Value),
		TokenService:      fields.ServiceName,

		TokenDateShort: FormatDate(now),
		TokenDateLong:  DateInWords(now),
	}
}
