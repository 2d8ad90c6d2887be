package documents

// Token is a substitution placeholder recognized inside custom template
// bodies. The catalog feeds the authoring assistant in the template editor;
// rendering itself goes through Render.
type Token struct {
	Key         string `json:"key"`   // bare key, written as {{KEY}} in bodies
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Catalog token keys. Bodies reference them as {{KEY}}.
const (
	TokenClientName    = "NOME_CLIENTE"
	TokenClientTaxID   = "CPF_CNPJ"
	TokenClientIDDoc   = "RG"
	TokenClientMarital = "ESTADO_CIVIL"
	TokenClientJob     = "PROFISSAO"
	TokenClientAddress = "ENDERECO_CLIENTE"
	TokenClientPhone   = "TELEFONE"
	TokenClientEmail   = "EMAIL"

	TokenOrgName    = "NOME_EMPRESA"
	TokenOrgTaxID   = "CNPJ_EMPRESA"
	TokenOrgAddress = "ENDERECO_EMPRESA"

	TokenInfraction   = "NUMERO_AIT"
	TokenProcess      = "NUMERO_PROCESSO"
	TokenPlate        = "PLACA"
	TokenPhase        = "FASE"
	TokenPaymentTerms = "CONDICOES_PAGAMENTO"
	TokenValue        = "VALOR"
	TokenService      = "SERVICO"

	TokenDateShort = "DATA_ATUAL"
	TokenDateLong  = "DATA_EXTENSO"
)

var catalog = []Token{
	{TokenClientName, "Nome do cliente", "Nome completo do cliente do processo"},
	{TokenClientTaxID, "CPF/CNPJ do cliente", "Documento fiscal do cliente, formatado"},
	{TokenClientIDDoc, "RG do cliente", "Documento de identidade do cliente"},
	{TokenClientMarital, "Estado civil", "Estado civil declarado pelo cliente"},
	{TokenClientJob, "Profissão", "Profissão declarada pelo cliente"},
	{TokenClientAddress, "Endereço do cliente", "Endereço completo do cliente"},
	{TokenClientPhone, "Telefone do cliente", "Telefone de contato do cliente"},
	{TokenClientEmail, "E-mail do cliente", "E-mail de contato do cliente"},
	{TokenOrgName, "Nome da empresa", "Razão social usada nos documentos gerados"},
	{TokenOrgTaxID, "CNPJ da empresa", "CNPJ usado nos documentos gerados"},
	{TokenOrgAddress, "Endereço da empresa", "Endereço usado nos documentos gerados"},
	{TokenInfraction, "Número do auto de infração", "Número do AIT informado no caso"},
	{TokenProcess, "Número do processo", "Número do processo administrativo, quando houver"},
	{TokenPlate, "Placa do veículo", "Placa do veículo autuado"},
	{TokenPhase, "Fase", "Fase aplicável do recurso (defesa prévia, JARI, CETRAN)"},
	{TokenPaymentTerms, "Condições de pagamento", "Condições de pagamento acordadas"},
	{TokenValue, "Valor", "Valor do serviço, formatado em reais"},
	{TokenService, "Serviço", "Nome do serviço contratado"},
	{TokenDateShort, "Data atual", "Data de geração no formato dd/mm/aaaa"},
	{TokenDateLong, "Data por extenso", "Data de geração por extenso"},
}

// Catalog returns the full recognized-token list in authoring order.
func Catalog() []Token {
	out := make([]Token, len(catalog))
	copy(out, catalog)
	return out
}
