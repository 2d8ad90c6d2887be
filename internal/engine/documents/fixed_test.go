package documents

import (
	"strings"
	"testing"
	"time"
)

var composeNow = time.Date(2026, time.August, 31, 14, 0, 0, 0, time.UTC)

func TestModelKindRequiredFields(t *testing.T) {
	for _, kind := range FixedModels() {
		required := kind.RequiredFields()
		if len(required) == 0 {
			t.Errorf("%s declares no required fields", kind)
		}

		hasInfraction, hasValue := false, false
		for _, f := range required {
			if f == FieldInfractionNumber {
				hasInfraction = true
			}
			if f == FieldValue {
				hasValue = true
			}
		}
		if !hasInfraction || !hasValue {
			t.Errorf("%s must require infraction number and value, got %v", kind, required)
		}
	}

	if !strings.Contains(strings.Join(ModelFullDefense.RequiredFields(), ","), FieldProcessNumber) {
		t.Error("full defense model must require the administrative process number")
	}
	for _, f := range ModelBasicDefense.RequiredFields() {
		if f == FieldProcessNumber {
			t.Error("basic model must not require the process number")
		}
	}
}

func TestComposeBasicDefense(t *testing.T) {
	in := ComposeInput{
		Client: ClientInfo{Name: "Maria Silva", TaxID: "000.000.000-00"},
		Org:    Identity{Name: "Acme Legal"},
		Fields: CaseFields{InfractionNumber: "AB1234", Value: 500.00},
		Now:    composeNow,
	}

	got := Compose(ModelBasicDefense, in)

	for _, want := range []string{
		"AB1234",
		"R$ 500,00",
		"foro da Comarca de São Paulo",
		"PENDENTE DE ASSINATURA DIGITAL",
		"MARIA SILVA",
		"31 de agosto de 2026",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q", want)
		}
	}

	if strings.Contains(got, "{{") || strings.Contains(got, "}}") {
		t.Errorf("residual placeholder syntax in fixed model output")
	}
}

func TestComposeVariants(t *testing.T) {
	fields := CaseFields{
		InfractionNumber: "AIT-99",
		ProcessNumber:    "PROC-2026/001",
		PaymentTerms:     "3 parcelas mensais de R$ 200,00",
		Plate:            "BRA2E19",
		Phase:            "defesa prévia",
		Value:            600,
	}
	in := ComposeInput{
		Client: ClientInfo{Name: "João Souza", TaxID: "529.982.247-25"},
		Org:    Identity{Name: "Acme Legal", TaxID: "11.222.333/0001-81"},
		Fields: fields,
		Now:    composeNow,
	}

	tests := []struct {
		kind     ModelKind
		contains []string
		excludes []string
	}{
		{
			kind:     ModelFullDefense,
			contains: []string{"PROC-2026/001", "defesa prévia", "foro da Comarca"},
		},
		{
			kind:     ModelInstallmentPlan,
			contains: []string{"3 parcelas mensais", "foro da Comarca"},
		},
		{
			kind:     ModelBasicDefense,
			contains: []string{"AIT-99", "BRA2E19"},
			excludes: []string{"PROC-2026/001"},
		},
		{
			kind:     ModelPowerOfAttorney,
			contains: []string{"PROCURAÇÃO", "OUTORGANTE", "AIT-99", "PENDENTE DE ASSINATURA DIGITAL"},
			excludes: []string{"foro da Comarca"},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got := Compose(tt.kind, in)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("%s output missing %q", tt.kind, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("%s output should not contain %q", tt.kind, unwanted)
				}
			}
		})
	}
}

func TestComposeUnchangedByTemplateEdits(t *testing.T) {
	// Composition is pure: same snapshot, same output. Stored case content
	// only changes through an explicit regenerate action.
	in := ComposeInput{
		Client: ClientInfo{Name: "Maria Silva"},
		Org:    Identity{Name: "Acme Legal"},
		Fields: CaseFields{InfractionNumber: "AB1234", Value: 500},
		Now:    composeNow,
	}

	first := Compose(ModelBasicDefense, in)
	second := Compose(ModelBasicDefense, in)
	if first != second {
		t.Error("Compose is not deterministic for identical input")
	}
}
