package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	apiContext "recurso/internal/api/context"
	"recurso/internal/engine/clients"
	"recurso/internal/pkg/errors"
	"recurso/internal/platform/auth"
	"recurso/internal/platform/database"
)

// ClientHandler resolves its service per request from the tenant context;
// the repository is bound to the organization's own database.
type ClientHandler struct{}

func NewClientHandler() *ClientHandler {
	return &ClientHandler{}
}

func clientService(r *http.Request) *clients.Service {
	tenant := r.Context().Value(apiContext.Tenant).(*database.TenantContext)
	return clients.NewService(clients.NewRepository(tenant.DB))
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value(apiContext.Claims).(*auth.Claims)

	var req clients.Client
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	req.CreatedBy = claims.UserID

	client, err := clientService(r).Create(&req, time.Now())
	if err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(client)
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 50
	}

	list, err := clientService(r).List(r.URL.Query().Get("search"), limit, (page-1)*limit)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)

	client, err := clientService(r).Get(params.ByName("client_id"))
	if err != nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Client not found", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(client)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)

	var req clients.Client
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	client, err := clientService(r).Update(params.ByName("client_id"), &req, time.Now())
	if err != nil {
		if err == clients.ErrClientNotFound {
			errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Client not found", nil)
			return
		}
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(client)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)

	if err := clientService(r).Delete(params.ByName("client_id")); err != nil {
		if err == clients.ErrClientNotFound {
			errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Client not found", nil)
			return
		}
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to delete client", nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
