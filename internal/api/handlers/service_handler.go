package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	apiContext "recurso/internal/api/context"
	"recurso/internal/engine/services"
	"recurso/internal/pkg/errors"
	"recurso/internal/platform/database"
)

type ServiceHandler struct{}

func NewServiceHandler() *ServiceHandler {
	return &ServiceHandler{}
}

func serviceManager(r *http.Request) *services.Manager {
	tenant := r.Context().Value(apiContext.Tenant).(*database.TenantContext)
	return services.NewManager(services.NewRepository(tenant.DB))
}

func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.Service
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	svc, err := serviceManager(r).Create(&req, time.Now())
	if err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(svc)
}

func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("include_inactive") != "true"

	list, err := serviceManager(r).List(activeOnly)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func (h *ServiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)

	svc, err := serviceManager(r).Get(params.ByName("service_id"))
	if err != nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Service not found", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(svc)
}

func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)

	var req services.Service
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	svc, err := serviceManager(r).Update(params.ByName("service_id"), &req, time.Now())
	if err != nil {
		if err == services.ErrServiceNotFound {
			errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Service not found", nil)
			return
		}
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(svc)
}

func (h *ServiceHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)

	if err := serviceManager(r).Deactivate(params.ByName("service_id"), time.Now()); err != nil {
		if err == services.ErrServiceNotFound {
			errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Service not found", nil)
			return
		}
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to deactivate service", nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
