package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	apiContext "recurso/internal/api/context"
	"recurso/internal/pkg/errors"
	"recurso/internal/platform/database"
	"recurso/internal/platform/models"
	"recurso/internal/platform/repositories"
)

var validEvents = map[string]bool{
	models.EventCaseCreated:       true,
	models.EventCaseStatusChanged: true,
	models.EventCaseReminderDue:   true,
	models.EventDocumentGenerated: true,
}

type WebhookHandler struct{}

func NewWebhookHandler() *WebhookHandler {
	return &WebhookHandler{}
}

func webhookRepo(r *http.Request) *repositories.WebhookRepository {
	tenant := r.Context().Value(apiContext.Tenant).(*database.TenantContext)
	return repositories.NewWebhookRepository(tenant.DB)
}

func (h *WebhookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL    string   `json:"url"`
		Events []string `json:"events"`
		Secret string   `json:"secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if req.URL == "" || len(req.Events) == 0 {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "URL and events are required", nil)
		return
	}
	for _, e := range req.Events {
		if !validEvents[e] {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Unknown event type: "+e, nil)
			return
		}
	}

	webhook := &models.Webhook{
		URL:    req.URL,
		Events: req.Events,
		Secret: req.Secret,
	}
	if webhook.Secret == "" {
		webhook.Secret = "whsec_" + uuid.NewString()
	}

	if err := webhookRepo(r).Create(webhook); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to create webhook", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(webhook)
}

func (h *WebhookHandler) List(w http.ResponseWriter, r *http.Request) {
	webhooks, err := webhookRepo(r).List()
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(webhooks)
}

func (h *WebhookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)

	if err := webhookRepo(r).Delete(params.ByName("webhook_id")); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to delete webhook", nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
