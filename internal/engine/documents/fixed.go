package documents

import (
	"fmt"
	"strings"
	"time"
)

// ClientInfo is the client snapshot a document is generated from.
type ClientInfo struct {
	Name          string
	TaxID         string
	IdentityDoc   string
	MaritalStatus string
	Profession    string
	Address       string
	Phone         string
	Email         string
}

// CaseFields are the case-specific inputs to generation. Which of them are
// mandatory depends on the chosen model; custom templates take whatever is
// bound.
type CaseFields struct {
	InfractionNumber string  `json:"infraction_number"`
	ProcessNumber    string  `json:"process_number"`
	Plate            string  `json:"plate"`
	Phase            string  `json:"phase"`
	PaymentTerms     string  `json:"payment_terms"`
	Value            float64 `json:"value"`
	ServiceName      string  `json:"service_name"`
}

// Field names used in required-field declarations and validation errors.
const (
	FieldInfractionNumber = "infraction_number"
	FieldProcessNumber    = "process_number"
	FieldPaymentTerms     = "payment_terms"
	FieldValue            = "value"
)

// ModelKind identifies a built-in document model. The set is closed: every
// kind carries its required-field contract as data, and Compose matches
// exhaustively, so a new model cannot ship without both.
type ModelKind string

const (
	ModelBasicDefense    ModelKind = "contestacao_basica"
	ModelFullDefense     ModelKind = "contestacao_completa"
	ModelInstallmentPlan ModelKind = "contestacao_parcelada"
	ModelPowerOfAttorney ModelKind = "procuracao"
)

func FixedModels() []ModelKind {
	return []ModelKind{ModelBasicDefense, ModelFullDefense, ModelInstallmentPlan, ModelPowerOfAttorney}
}

func (k ModelKind) Valid() bool {
	switch k {
	case ModelBasicDefense, ModelFullDefense, ModelInstallmentPlan, ModelPowerOfAttorney:
		return true
	}
	return false
}

func (k ModelKind) Label() string {
	switch k {
	case ModelBasicDefense:
		return "Contrato — recurso de multa"
	case ModelFullDefense:
		return "Contrato — recurso com processo administrativo"
	case ModelInstallmentPlan:
		return "Contrato — recurso com pagamento parcelado"
	case ModelPowerOfAttorney:
		return "Procuração"
	}
	return string(k)
}

// RequiredFields lists the case fields that must be present before this
// model may be selected. Enforcement happens in the orchestration service,
// never inside composition.
func (k ModelKind) RequiredFields() []string {
	switch k {
	case ModelBasicDefense:
		return []string{FieldInfractionNumber, FieldValue}
	case ModelFullDefense:
		return []string{FieldInfractionNumber, FieldProcessNumber, FieldValue}
	case ModelInstallmentPlan:
		return []string{FieldInfractionNumber, FieldPaymentTerms, FieldValue}
	case ModelPowerOfAttorney:
		return []string{FieldInfractionNumber, FieldValue}
	}
	return nil
}

// ComposeInput carries everything a fixed model interpolates. Now is
// injected so generation stays a pure function.
type ComposeInput struct {
	Client ClientInfo
	Org    Identity
	Fields CaseFields
	Now    time.Time
}

const (
	// Trailing marker appended to every composed document.
	signatureMarker = "PENDENTE DE ASSINATURA DIGITAL"

	venueClause = "Fica eleito o foro da Comarca de São Paulo, Estado de São Paulo, " +
		"com renúncia expressa a qualquer outro, por mais privilegiado que seja, " +
		"para dirimir quaisquer controvérsias oriundas do presente instrumento."
)

// Compose produces the full document text for a fixed model. It performs no
// field validation; absent optional fields simply shorten the prose.
func Compose(kind ModelKind, in ComposeInput) string {
	switch kind {
	case ModelBasicDefense:
		return composeContract(in, nil)
	case ModelFullDefense:
		extra := []string{processClause(in.Fields)}
		return composeContract(in, extra)
	case ModelInstallmentPlan:
		extra := []string{installmentClause(in.Fields)}
		return composeContract(in, extra)
	case ModelPowerOfAttorney:
		return composePowerOfAttorney(in)
	}
	return ""
}

func composeContract(in ComposeInput, extraClauses []string) string {
	var b strings.Builder

	b.WriteString("CONTRATO DE PRESTAÇÃO DE SERVIÇOS\n\n")

	b.WriteString("CONTRATANTE: ")
	b.WriteString(clientQualification(in.Client))
	b.WriteString("\n\n")

	b.WriteString("CONTRATADA: ")
	b.WriteString(orgQualification(in.Org))
	b.WriteString("\n\n")

	object := fmt.Sprintf(
		"CLÁUSULA PRIMEIRA — DO OBJETO. O presente contrato tem por objeto a prestação, "+
			"pela CONTRATADA, de serviços de defesa administrativa referentes ao auto de "+
			"infração de trânsito nº %s", in.Fields.InfractionNumber)
	if in.Fields.Plate != "" {
		object += fmt.Sprintf(", lavrado contra o veículo de placa %s", in.Fields.Plate)
	}
	if in.Fields.ServiceName != "" {
		object += fmt.Sprintf(", na modalidade %s", in.Fields.ServiceName)
	}
	object += "."
	b.WriteString(object)
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf(
		"CLÁUSULA SEGUNDA — DO VALOR. Pelos serviços ora contratados, o CONTRATANTE "+
			"pagará à CONTRATADA a importância de %s.", FormatCurrency(in.Fields.Value)))
	b.WriteString("\n\n")

	b.WriteString(
		"CLÁUSULA TERCEIRA — DAS OBRIGAÇÕES. A CONTRATADA obriga-se a elaborar e protocolar " +
			"as peças de defesa cabíveis e a manter o CONTRATANTE informado sobre o andamento " +
			"do processo. O CONTRATANTE obriga-se a fornecer os documentos necessários e a " +
			"comunicar qualquer notificação recebida dos órgãos de trânsito.")
	b.WriteString("\n\n")

	clauseNames := []string{"QUARTA", "QUINTA", "SEXTA"}
	next := 0
	for _, clause := range extraClauses {
		b.WriteString(fmt.Sprintf("CLÁUSULA %s — %s", clauseNames[next], clause))
		b.WriteString("\n\n")
		next++
	}

	b.WriteString(fmt.Sprintf("CLÁUSULA %s — DO FORO. %s", clauseNames[next], venueClause))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("São Paulo, %s.\n\n", DateInWords(in.Now)))
	b.WriteString(signatureBlock(in.Client.Name, in.Org.Name))
	b.WriteString("\n" + signatureMarker + "\n")

	return b.String()
}

func processClause(f CaseFields) string {
	clause := fmt.Sprintf(
		"DO PROCESSO ADMINISTRATIVO. Os serviços abrangem o acompanhamento do processo "+
			"administrativo nº %s", f.ProcessNumber)
	if f.Phase != "" {
		clause += fmt.Sprintf(", atualmente na fase de %s", f.Phase)
	}
	clause += ", até decisão final na esfera administrativa."
	return clause
}

func installmentClause(f CaseFields) string {
	return fmt.Sprintf(
		"DO PAGAMENTO. O valor ajustado será pago nas seguintes condições: %s. "+
			"O atraso de qualquer parcela autoriza a suspensão dos serviços até a regularização.",
		f.PaymentTerms)
}

func composePowerOfAttorney(in ComposeInput) string {
	var b strings.Builder

	b.WriteString("PROCURAÇÃO\n\n")

	b.WriteString("OUTORGANTE: ")
	b.WriteString(clientQualification(in.Client))
	b.WriteString("\n\n")

	b.WriteString("OUTORGADA: ")
	b.WriteString(orgQualification(in.Org))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf(
		"Pelo presente instrumento, o OUTORGANTE nomeia e constitui a OUTORGADA sua "+
			"procuradora, com poderes específicos para representá-lo perante os órgãos e "+
			"entidades do Sistema Nacional de Trânsito, podendo requerer, protocolar e "+
			"acompanhar defesas, recursos e processos administrativos relativos ao auto de "+
			"infração nº %s, bem como obter cópias, vistas e certidões, e praticar todos os "+
			"demais atos necessários ao fiel cumprimento deste mandato.",
		in.Fields.InfractionNumber))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("São Paulo, %s.\n\n", DateInWords(in.Now)))
	b.WriteString(fmt.Sprintf("_________________________________\n%s\n", in.Client.Name))
	b.WriteString("\n" + signatureMarker + "\n")

	return b.String()
}

func clientQualification(c ClientInfo) string {
	q := strings.ToUpper(c.Name)
	if c.MaritalStatus != "" {
		q += ", " + c.MaritalStatus
	}
	if c.Profession != "" {
		q += ", " + c.Profession
	}
	if c.IdentityDoc != "" {
		q += fmt.Sprintf(", portador(a) do RG nº %s", c.IdentityDoc)
	}
	if c.TaxID != "" {
		q += fmt.Sprintf(", inscrito(a) no CPF/CNPJ sob o nº %s", c.TaxID)
	}
	if c.Address != "" {
		q += fmt.Sprintf(", residente e domiciliado(a) em %s", c.Address)
	}
	return q + "."
}

func orgQualification(o Identity) string {
	q := strings.ToUpper(o.Name)
	if o.TaxID != "" {
		q += fmt.Sprintf(", inscrita no CNPJ sob o nº %s", o.TaxID)
	}
	if o.Address != "" {
		q += fmt.Sprintf(", com sede em %s", o.Address)
	}
	return q + "."
}

func signatureBlock(clientName, orgName string) string {
	return fmt.Sprintf(
		"_________________________________\nCONTRATANTE: %s\n\n"+
			"_________________________________\nCONTRATADA: %s\n",
		clientName, orgName)
}
