package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	apiContext "recurso/internal/api/context"
	"recurso/internal/engine/cases"
	"recurso/internal/engine/clients"
	"recurso/internal/engine/documents"
	"recurso/internal/engine/services"
	apierrors "recurso/internal/pkg/errors"
	"recurso/internal/platform/audit"
	"recurso/internal/platform/auth"
	"recurso/internal/platform/config"
	"recurso/internal/platform/database"
	"recurso/internal/platform/models"
)

type CaseHandler struct {
	audit    *audit.Logger
	webhooks *notifyFactory
	domains  config.DomainsConfig
}

func NewCaseHandler(auditLogger *audit.Logger, webhookTimeout time.Duration, webhookRetries int, domains config.DomainsConfig) *CaseHandler {
	return &CaseHandler{
		audit:    auditLogger,
		webhooks: &notifyFactory{timeout: webhookTimeout, retries: webhookRetries},
		domains:  domains,
	}
}

func caseService(r *http.Request) (*cases.Service, *database.TenantContext) {
	tenant := r.Context().Value(apiContext.Tenant).(*database.TenantContext)
	return cases.NewService(cases.NewRepository(tenant.DB), tenant.Org.DefaultReminderDays), tenant
}

// Create persists a reviewed document as a case. The content field carries
// the edited preview text; the server never regenerates it implicitly.
func (h *CaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value(apiContext.Claims).(*auth.Claims)
	svc, tenant := caseService(r)

	var req cases.Case
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	req.CreatedBy = claims.UserID

	created, err := svc.Create(&req, time.Now())
	if err != nil {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	h.audit.Log(r.Context(), audit.ActionCaseCreated, "case", created.ID, map[string]interface{}{
		"client_id":   created.ClientID,
		"template_id": created.TemplateID,
	})
	h.webhooks.For(tenant).Dispatch(models.EventCaseCreated, tenant.OrgID, created)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *CaseHandler) List(w http.ResponseWriter, r *http.Request) {
	svc, _ := caseService(r)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 50
	}

	list, err := svc.List(r.URL.Query().Get("status"), limit, (page-1)*limit, time.Now())
	if err != nil {
		if errors.Is(err, cases.ErrInvalidStatus) {
			apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput, "Invalid status filter", nil)
			return
		}
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrCodeInternal, "Database error", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func (h *CaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	svc, _ := caseService(r)
	params := r.Context().Value(apiContext.Params).(httprouter.Params)

	c, err := svc.Get(params.ByName("case_id"), time.Now())
	if err != nil {
		apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrCodeNotFound, "Case not found", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c)
}

type UpdateCaseStatusRequest struct {
	Status string `json:"status"`
}

func (h *CaseHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	svc, tenant := caseService(r)
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	caseID := params.ByName("case_id")

	var req UpdateCaseStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	updated, err := svc.UpdateStatus(caseID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, cases.ErrInvalidStatus):
			apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput, "Invalid status", nil)
		case errors.Is(err, cases.ErrCaseNotFound):
			apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrCodeNotFound, "Case not found", nil)
		default:
			apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrCodeInternal, "Failed to update status", nil)
		}
		return
	}

	h.audit.Log(r.Context(), audit.ActionCaseStatusChanged, "case", caseID, map[string]interface{}{"status": req.Status})
	h.webhooks.For(tenant).Dispatch(models.EventCaseStatusChanged, tenant.OrgID, updated)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// Regenerate rebuilds the case document from the current template and the
// case's stored values, replacing the snapshot. This is the only implicit
// content write; ordinary template edits never reach existing cases.
func (h *CaseHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	svc, tenant := caseService(r)
	params := r.Context().Value(apiContext.Params).(httprouter.Params)

	c, err := svc.Get(params.ByName("case_id"), time.Now())
	if err != nil {
		apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrCodeNotFound, "Case not found", nil)
		return
	}

	client, err := clients.NewRepository(tenant.DB).GetByID(c.ClientID)
	if err != nil || client == nil {
		apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrCodeNotFound, "Case client not found", nil)
		return
	}

	fields := documents.CaseFields{Value: c.Value}
	if c.Details != nil {
		fields.InfractionNumber = c.Details.InfractionNumber
		fields.ProcessNumber = c.Details.ProcessNumber
		fields.Plate = c.Details.Plate
		fields.Phase = c.Details.Phase
		fields.PaymentTerms = c.Details.PaymentTerms
	}
	if c.ServiceID != "" {
		offered, err := services.NewRepository(tenant.DB).GetByID(c.ServiceID)
		if err != nil {
			apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrCodeInternal, "Database error", nil)
			return
		}
		if offered != nil {
			fields.ServiceName = offered.Name
		}
	}

	generator := documents.NewService(documents.NewRegistry(documents.NewTemplateRepository(tenant.DB)))
	result, err := generator.Generate(documents.GenerateInput{
		TemplateID: c.TemplateID,
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
		Fields: fields,
		Now:    time.Now(),
	})
	if err != nil {
		if errors.Is(err, documents.ErrTemplateNotFound) {
			apierrors.WriteError(w, http.StatusConflict, apierrors.ErrCodeConflict, "Original template no longer exists", nil)
			return
		}
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrCodeInternal, "Failed to regenerate document", nil)
		return
	}

	if err := svc.Regenerate(c.ID, result.Content); err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrCodeInternal, "Failed to store regenerated content", nil)
		return
	}

	IncDocumentsGenerated()
	h.audit.Log(r.Context(), audit.ActionDocumentGenerated, "case", c.ID, map[string]interface{}{"regenerated": true})

	c.Content = result.Content
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		*cases.Case
		Warnings []string `json:"warnings,omitempty"`
	}{c, result.Warnings})
}

// Notify records a manual client contact and pushes the next reminder out.
func (h *CaseHandler) Notify(w http.ResponseWriter, r *http.Request) {
	svc, _ := caseService(r)
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	caseID := params.ByName("case_id")

	updated, err := svc.Notify(caseID, time.Now())
	if err != nil {
		if errors.Is(err, cases.ErrCaseNotFound) {
			apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrCodeNotFound, "Case not found", nil)
			return
		}
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrCodeInternal, "Failed to record contact", nil)
		return
	}

	h.audit.Log(r.Context(), audit.ActionCaseNotified, "case", caseID, nil)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

type SetReminderRequest struct {
	Enabled      bool `json:"enabled"`
	IntervalDays int  `json:"interval_days"`
}

func (h *CaseHandler) SetReminder(w http.ResponseWriter, r *http.Request) {
	svc, _ := caseService(r)
	params := r.Context().Value(apiContext.Params).(httprouter.Params)

	var req SetReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	updated, err := svc.SetReminder(params.ByName("case_id"), req.Enabled, req.IntervalDays, time.Now())
	if err != nil {
		if errors.Is(err, cases.ErrCaseNotFound) {
			apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrCodeNotFound, "Case not found", nil)
			return
		}
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrCodeInternal, "Failed to update reminder", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// QRCode renders the printable verification code for a case document.
func (h *CaseHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	svc, _ := caseService(r)
	params := r.Context().Value(apiContext.Params).(httprouter.Params)

	c, err := svc.Get(params.ByName("case_id"), time.Now())
	if err != nil {
		apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrCodeNotFound, "Case not found", nil)
		return
	}

	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	verifyURL := "https://" + h.domains.VerifyDomain + "/verify/" + c.ID

	png, err := cases.VerificationQR(verifyURL, size)
	if err != nil {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
