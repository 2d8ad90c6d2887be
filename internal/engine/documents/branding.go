package documents

import "recurso/internal/platform/models"

// Identity is the organization identity as it appears on generated
// documents, after branding overrides are applied.
type Identity struct {
	Name          string
	TaxID         string
	Address       string
	LogoURL       string
	LetterheadURL string
	HeaderStyle   string
}

// ResolveIdentity applies the branding fallback chain: contract-specific
// override fields win, the organization's base identity fills the gaps.
func ResolveIdentity(org *models.Organization) Identity {
	id := Identity{
		Name:        org.Name,
		TaxID:       org.TaxID,
		Address:     org.Address,
		HeaderStyle: models.HeaderStyleClassic,
	}

	b := org.Branding
	if b == nil {
		return id
	}

	if b.ContractName != "" {
		id.Name = b.ContractName
	}
	if b.ContractTaxID != "" {
		id.TaxID = b.ContractTaxID
	}
	if b.ContractAddress != "" {
		id.Address = b.ContractAddress
	}
	if models.ValidHeaderStyle(b.HeaderStyle) {
		id.HeaderStyle = b.HeaderStyle
	}
	id.LogoURL = b.LogoURL
	id.LetterheadURL = b.LetterheadURL

	return id
}
