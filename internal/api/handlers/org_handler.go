package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	apiContext "recurso/internal/api/context"
	"recurso/internal/engine/cases"
	"recurso/internal/pkg/errors"
	"recurso/internal/pkg/validator"
	"recurso/internal/platform/audit"
	"recurso/internal/platform/auth"
	"recurso/internal/platform/config"
	"recurso/internal/platform/database"
	"recurso/internal/platform/models"
	"recurso/internal/platform/repositories"
)

type OrgHandler struct {
	orgRepo  *repositories.OrganizationRepository
	userRepo *repositories.UserRepository
	tokenSvc *auth.TokenService
	audit    *audit.Logger
	tenantDB config.TenantDBConfig
}

func NewOrgHandler(orgRepo *repositories.OrganizationRepository, userRepo *repositories.UserRepository, tokenSvc *auth.TokenService, auditLogger *audit.Logger, tenantDB config.TenantDBConfig) *OrgHandler {
	return &OrgHandler{
		orgRepo:  orgRepo,
		userRepo: userRepo,
		tokenSvc: tokenSvc,
		audit:    auditLogger,
		tenantDB: tenantDB,
	}
}

type CreateOrgRequest struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	TaxID    string `json:"tax_id"`
	Address  string `json:"address"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type CreateOrgResponse struct {
	Organization *models.Organization `json:"organization"`
	User         *models.User         `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// Create bootstraps a law firm: organization row, owner account and a fresh
// tenant database initialized from the tenant migrations.
func (h *OrgHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrgRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if req.Name == "" || req.Slug == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Name and slug are required", nil)
		return
	}
	if err := validator.ValidateEmail(req.Email); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}
	if req.TaxID != "" {
		if err := validator.ValidateTaxID(req.TaxID); err != nil {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
			return
		}
	}
	if len(req.Password) < 8 {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Password must be at least 8 characters", nil)
		return
	}

	existing, err := h.orgRepo.GetBySlug(req.Slug)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if existing != nil {
		errors.WriteError(w, http.StatusConflict, errors.ErrCodeConflict, "Slug already taken", nil)
		return
	}

	org := &models.Organization{
		ID:                  "org_" + uuid.NewString(),
		Slug:                req.Slug,
		Name:                req.Name,
		TaxID:               req.TaxID,
		Address:             req.Address,
		DBFilePath:          filepath.Join(h.tenantDB.BasePath, req.Slug+".db"),
		PlanTier:            "pro",
		CaseQuota:           5000,
		MemberQuota:         20,
		DefaultReminderDays: cases.DefaultIntervalDays,
		WebhookSecret:       "whsec_" + uuid.NewString(),
		CreatedAt:           time.Now().Unix(),
		UpdatedAt:           time.Now().Unix(),
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to hash password", nil)
		return
	}

	user := &models.User{
		ID:             "usr_" + uuid.NewString(),
		OrganizationID: org.ID,
		Email:          req.Email,
		EmailVerified:  false,
		PasswordHash:   string(hashedPassword),
		FullName:       req.FullName,
		Role:           "owner",
		CreatedAt:      time.Now().Unix(),
		UpdatedAt:      time.Now().Unix(),
	}

	tx, err := h.orgRepo.BeginTx()
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	defer tx.Rollback()

	if err := h.orgRepo.CreateTx(tx, org); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to create organization", nil)
		return
	}
	if err := h.userRepo.CreateTx(tx, user); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to create user", nil)
		return
	}
	if err := tx.Commit(); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	if err := initTenantDB(org.DBFilePath); err != nil {
		log.Error().Err(err).Str("org_id", org.ID).Msg("failed to initialize tenant database")
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to initialize tenant database", nil)
		return
	}

	accessToken, err := h.tokenSvc.GenerateAccessToken(user.ID, user.OrganizationID, user.Role, user.Email)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to generate token", nil)
		return
	}
	refreshToken, err := h.tokenSvc.GenerateRefreshToken(user.ID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to generate token", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(CreateOrgResponse{
		Organization: org,
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

func initTenantDB(dbPath string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	files, err := filepath.Glob(filepath.Join("migrations", "tenant", "*.sql"))
	if err != nil {
		return err
	}
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		if _, err := db.Exec(string(content)); err != nil {
			return err
		}
	}
	return nil
}

func (h *OrgHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	tenant := r.Context().Value(apiContext.Tenant).(*database.TenantContext)

	org, err := h.orgRepo.GetByID(tenant.OrgID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(org)
}

// UpdateBranding replaces the organization's document branding override.
// A null body clears the override and documents fall back to the
// organization's legal identity.
func (h *OrgHandler) UpdateBranding(w http.ResponseWriter, r *http.Request) {
	tenant := r.Context().Value(apiContext.Tenant).(*database.TenantContext)

	var req models.BrandingOverride
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if req.HeaderStyle != "" && !models.ValidHeaderStyle(req.HeaderStyle) {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid header style", nil)
		return
	}
	if req.ContractTaxID != "" {
		if err := validator.ValidateTaxID(req.ContractTaxID); err != nil {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
			return
		}
	}

	if err := h.orgRepo.UpdateBranding(tenant.OrgID, &req); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to update branding", nil)
		return
	}

	h.audit.Log(r.Context(), audit.ActionBrandingUpdated, "organization", tenant.OrgID, nil)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&req)
}

type UpdateRemindersRequest struct {
	DefaultIntervalDays int `json:"default_interval_days"`
}

func (h *OrgHandler) UpdateReminderDefaults(w http.ResponseWriter, r *http.Request) {
	tenant := r.Context().Value(apiContext.Tenant).(*database.TenantContext)

	var req UpdateRemindersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.DefaultIntervalDays < 1 || req.DefaultIntervalDays > 365 {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Interval must be between 1 and 365 days", nil)
		return
	}

	if err := h.orgRepo.UpdateDefaultReminderDays(tenant.OrgID, req.DefaultIntervalDays); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to update reminder defaults", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(req)
}

type InviteHandler struct {
	inviteRepo *repositories.InviteRepository
}

func NewInviteHandler(inviteRepo *repositories.InviteRepository) *InviteHandler {
	return &InviteHandler{inviteRepo: inviteRepo}
}

type CreateInviteRequest struct {
	Email          string `json:"email"`
	Role           string `json:"role"`
	MaxUses        int    `json:"max_uses"`
	ExpiresInHours int    `json:"expires_in_hours"`
}

func (h *InviteHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenant := r.Context().Value(apiContext.Tenant).(*database.TenantContext)
	claims := r.Context().Value(apiContext.Claims).(*auth.Claims)

	var req CreateInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	switch req.Role {
	case "admin", "member":
	default:
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Role must be admin or member", nil)
		return
	}
	if req.MaxUses < 1 {
		req.MaxUses = 1
	}
	if req.ExpiresInHours < 1 {
		req.ExpiresInHours = 72
	}

	invite := &models.Invite{
		ID:             "inv_" + uuid.NewString(),
		OrganizationID: tenant.OrgID,
		Code:           "REC-" + uuid.NewString()[:18],
		Email:          req.Email,
		Role:           req.Role,
		InvitedBy:      claims.UserID,
		Status:         "pending",
		MaxUses:        req.MaxUses,
		ExpiresAt:      time.Now().Add(time.Duration(req.ExpiresInHours) * time.Hour).Unix(),
		CreatedAt:      time.Now().Unix(),
		UpdatedAt:      time.Now().Unix(),
	}

	if err := h.inviteRepo.Create(invite); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to create invite", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(invite)
}
