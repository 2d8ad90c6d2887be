package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	apiContext "recurso/internal/api/context"
	"recurso/internal/engine/clients"
	"recurso/internal/engine/documents"
	"recurso/internal/engine/notify"
	"recurso/internal/engine/services"
	apierrors "recurso/internal/pkg/errors"
	"recurso/internal/platform/audit"
	"recurso/internal/platform/auth"
	"recurso/internal/platform/database"
	"recurso/internal/platform/models"
	"recurso/internal/platform/repositories"
)

// TemplateHandler serves the token catalog, the template registry and
// document generation previews.
type TemplateHandler struct {
	audit    *audit.Logger
	webhooks *notifyFactory
}

// notifyFactory builds a dispatcher bound to the request's tenant database.
type notifyFactory struct {
	timeout time.Duration
	retries int
}

func (f *notifyFactory) For(db *database.TenantContext) *notify.Dispatcher {
	return notify.NewDispatcher(repositories.NewWebhookRepository(db.DB), f.timeout, f.retries)
}

func NewTemplateHandler(auditLogger *audit.Logger, webhookTimeout time.Duration, webhookRetries int) *TemplateHandler {
	return &TemplateHandler{
		audit:    auditLogger,
		webhooks: &notifyFactory{timeout: webhookTimeout, retries: webhookRetries},
	}
}

func templateRepo(r *http.Request) *documents.TemplateRepository {
	tenant := r.Context().Value(apiContext.Tenant).(*database.TenantContext)
	return documents.NewTemplateRepository(tenant.DB)
}

// Tokens returns the full placeholder catalog shown in the template editor.
func (h *TemplateHandler) Tokens(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(documents.Catalog())
}

type modelSummary struct {
	ID             string   `json:"id"`
	Label          string   `json:"label"`
	Kind           string   `json:"kind"` // fixed or custom
	RequiredFields []string `json:"required_fields,omitempty"`
}

// List returns the four built-in models followed by the organization's
// active custom templates.
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	var out []modelSummary
	for _, kind := range documents.FixedModels() {
		out = append(out, modelSummary{
			ID:             string(kind),
			Label:          kind.Label(),
			Kind:           "fixed",
			RequiredFields: kind.RequiredFields(),
		})
	}

	custom, err := templateRepo(r).List()
	if err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrCodeInternal, "Database error", nil)
		return
	}
	for _, t := range custom {
		out = append(out, modelSummary{ID: t.ID, Label: t.Name, Kind: "custom"})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

type createTemplateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Body        string `json:"body"`
}

func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value(apiContext.Claims).(*auth.Claims)

	var req createTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.Name == "" || req.Body == "" {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput, "Name and body are required", nil)
		return
	}
	if documents.ModelKind(req.Name).Valid() {
		apierrors.WriteError(w, http.StatusConflict, apierrors.ErrCodeConflict, "Name collides with a built-in model", nil)
		return
	}

	t := &documents.Template{
		ID:          "tpl_" + uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Body:        req.Body,
		Status:      "active",
		CreatedBy:   claims.UserID,
		CreatedAt:   time.Now().Unix(),
		UpdatedAt:   time.Now().Unix(),
	}

	if err := templateRepo(r).Create(t); err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrCodeInternal, "Failed to create template", nil)
		return
	}

	h.audit.Log(r.Context(), audit.ActionTemplateCreated, "template", t.ID, map[string]interface{}{"name": t.Name})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(t)
}

func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)

	t, err := templateRepo(r).GetByID(params.ByName("template_id"))
	if err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrCodeInternal, "Database error", nil)
		return
	}
	if t == nil {
		apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrCodeNotFound, "Template not found", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(t)
}

func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	repo := templateRepo(r)

	t, err := repo.GetByID(params.ByName("template_id"))
	if err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrCodeInternal, "Database error", nil)
		return
	}
	if t == nil {
		apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrCodeNotFound, "Template not found", nil)
		return
	}

	var req createTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.Name != "" {
		t.Name = req.Name
	}
	if req.Description != "" {
		t.Description = req.Description
	}
	if req.Body != "" {
		t.Body = req.Body
	}

	// Template edits never touch cases generated from earlier versions.
	if err := repo.Update(t); err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrCodeInternal, "Failed to update template", nil)
		return
	}

	h.audit.Log(r.Context(), audit.ActionTemplateUpdated, "template", t.ID, nil)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(t)
}

func (h *TemplateHandler) Archive(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)

	if err := templateRepo(r).Archive(params.ByName("template_id")); err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrCodeInternal, "Failed to archive template", nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type GenerateRequest struct {
	TemplateID string               `json:"template_id"`
	ClientID   string               `json:"client_id"`
	ServiceID  string               `json:"service_id,omitempty"`
	Fields     documents.CaseFields `json:"fields"`
}

// Generate produces a document preview. Nothing is persisted here; the
// reviewed content comes back through the case creation endpoint.
func (h *TemplateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	tenant := r.Context().Value(apiContext.Tenant).(*database.TenantContext)

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	client, err := clients.NewRepository(tenant.DB).GetByID(req.ClientID)
	if err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrCodeInternal, "Database error", nil)
		return
	}
	if client == nil {
		apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrCodeNotFound, "Client not found", nil)
		return
	}

	if req.ServiceID != "" {
		svc, err := services.NewRepository(tenant.DB).GetByID(req.ServiceID)
		if err != nil {
			apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrCodeInternal, "Database error", nil)
			return
		}
		if svc == nil {
			apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrCodeNotFound, "Service not found", nil)
			return
		}
		req.Fields.ServiceName = svc.Name
		if req.Fields.Value == 0 {
			req.Fields.Value = svc.Price
		}
	}

	generator := documents.NewService(documents.NewRegistry(documents.NewTemplateRepository(tenant.DB)))
	result, err := generator.Generate(documents.GenerateInput{
		TemplateID: req.TemplateID,
		Client: documents.ClientInfo{
			Name:          client.Name,
			TaxID:         client.TaxID,
			IdentityDoc:   client.IdentityDoc,
			MaritalStatus: client.MaritalStatus,
			Profession:    client.Profession,
			Address:       client.Address,
			Phone:         client.Phone,
			Email:         client.Email,
		},
		Org:    tenant.Org,
		Fields: req.Fields,
		Now:    time.Now(),
	})
	if err != nil {
		if errors.Is(err, documents.ErrTemplateNotFound) {
			apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrCodeNotFound, "Template not found", nil)
			return
		}
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrCodeMissingFields, "Required fields missing for this model", fieldErrs)
			return
		}
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrCodeInternal, "Failed to generate document", nil)
		return
	}

	IncDocumentsGenerated()
	h.audit.Log(r.Context(), audit.ActionDocumentGenerated, "template", req.TemplateID, map[string]interface{}{
		"client_id": req.ClientID,
		"warnings":  len(result.Warnings),
	})
	h.webhooks.For(tenant).Dispatch(
		models.EventDocumentGenerated, tenant.OrgID,
		map[string]interface{}{"template_id": req.TemplateID, "client_id": req.ClientID},
	)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
