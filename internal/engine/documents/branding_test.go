package documents

import (
	"testing"

	"recurso/internal/platform/models"
)

func TestResolveIdentity(t *testing.T) {
	base := models.Organization{
		Name:    "Acme Legal",
		TaxID:   "11.222.333/0001-81",
		Address: "Av. Paulista, 1000, São Paulo/SP",
	}

	t.Run("No branding override", func(t *testing.T) {
		org := base
		id := ResolveIdentity(&org)
		if id.Name != "Acme Legal" {
			t.Errorf("Name = %q, want base name", id.Name)
		}
		if id.HeaderStyle != models.HeaderStyleClassic {
			t.Errorf("HeaderStyle = %q, want classic default", id.HeaderStyle)
		}
	})

	t.Run("Contract override wins", func(t *testing.T) {
		org := base
		org.Branding = &models.BrandingOverride{
			ContractName:  "Acme Recursos Ltda",
			ContractTaxID: "99.888.777/0001-00",
			HeaderStyle:   models.HeaderStyleElegant,
		}
		id := ResolveIdentity(&org)
		if id.Name != "Acme Recursos Ltda" {
			t.Errorf("Name = %q, want contract override", id.Name)
		}
		if id.TaxID != "99.888.777/0001-00" {
			t.Errorf("TaxID = %q, want contract override", id.TaxID)
		}
		// Address not overridden, falls back to base
		if id.Address != base.Address {
			t.Errorf("Address = %q, want base address", id.Address)
		}
		if id.HeaderStyle != models.HeaderStyleElegant {
			t.Errorf("HeaderStyle = %q, want elegant", id.HeaderStyle)
		}
	})

	t.Run("Name never blank when base is set", func(t *testing.T) {
		org := base
		org.Branding = &models.BrandingOverride{ContractName: ""}
		id := ResolveIdentity(&org)
		if id.Name == "" {
			t.Error("empty override must fall back to base name")
		}
	})

	t.Run("Invalid header style falls back", func(t *testing.T) {
		org := base
		org.Branding = &models.BrandingOverride{HeaderStyle: "neon"}
		id := ResolveIdentity(&org)
		if id.HeaderStyle != models.HeaderStyleClassic {
			t.Errorf("HeaderStyle = %q, want classic fallback", id.HeaderStyle)
		}
	})
}
