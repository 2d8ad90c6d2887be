package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "recurso/internal/api/context"
	"recurso/internal/api/handlers"
	"recurso/internal/api/middleware"
	"recurso/internal/pkg/errors"
	"recurso/internal/platform/auth"
)

type Dependencies struct {
	AuthHandler      *handlers.AuthHandler
	OrgHandler       *handlers.OrgHandler
	InviteHandler    *handlers.InviteHandler
	UserHandler      *handlers.UserHandler
	ClientHandler    *handlers.ClientHandler
	ServiceHandler   *handlers.ServiceHandler
	TemplateHandler  *handlers.TemplateHandler
	CaseHandler      *handlers.CaseHandler
	WebhookHandler   *handlers.WebhookHandler
	AuditHandler     *handlers.AuditHandler
	HealthHandler    *handlers.HealthHandler
	MetricsHandler   *handlers.MetricsHandler
	AuthMiddleware   *middleware.AuthMiddleware
	TenantMiddleware *middleware.TenantMiddleware
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	router.GET("/healthz", wrap(deps.HealthHandler.Check))
	router.GET("/metrics", wrap(deps.MetricsHandler.Export))

	// Authentication
	router.POST("/api/v1/auth/signup", wrap(deps.AuthHandler.Signup))
	router.POST("/api/v1/auth/login", wrap(deps.AuthHandler.Login))
	router.POST("/api/v1/auth/refresh", wrap(deps.AuthHandler.Refresh))
	router.POST("/api/v1/auth/logout", wrap(deps.AuthHandler.Logout))

	authMid := deps.AuthMiddleware
	tenantMid := deps.TenantMiddleware
	read := middleware.RateLimit(middleware.LimitAPIRead)
	write := middleware.RateLimit(middleware.LimitAPIWrite)
	generate := middleware.RateLimit(middleware.LimitGenerate)

	// Organization management
	router.POST("/api/v1/organizations", wrap(deps.OrgHandler.Create))
	router.GET("/api/v1/organizations/current",
		chain(deps.OrgHandler.GetCurrent, authMid.Handle, tenantMid.Handle, read))
	router.PUT("/api/v1/organizations/current/branding",
		chain(deps.OrgHandler.UpdateBranding, authMid.Handle, tenantMid.Handle, requireRole("admin", "owner"), write))
	router.PUT("/api/v1/organizations/current/reminders",
		chain(deps.OrgHandler.UpdateReminderDefaults, authMid.Handle, tenantMid.Handle, requireRole("admin", "owner"), write))

	// Invites and members
	router.POST("/api/v1/invites",
		chain(deps.InviteHandler.Create, authMid.Handle, tenantMid.Handle, requireRole("admin", "owner"), write))
	router.GET("/api/v1/users",
		chain(deps.UserHandler.List, authMid.Handle, tenantMid.Handle, requireRole("admin", "owner"), read))
	router.GET("/api/v1/users/:user_id",
		chain(deps.UserHandler.Get, authMid.Handle, tenantMid.Handle, read))
	router.PATCH("/api/v1/users/:user_id/role",
		chain(deps.UserHandler.UpdateRole, authMid.Handle, tenantMid.Handle, requireRole("owner"), write))
	router.DELETE("/api/v1/users/:user_id",
		chain(deps.UserHandler.Delete, authMid.Handle, tenantMid.Handle, requireRole("owner"), write))

	// Clients
	router.POST("/api/v1/clients",
		chain(deps.ClientHandler.Create, authMid.Handle, tenantMid.Handle, write))
	router.GET("/api/v1/clients",
		chain(deps.ClientHandler.List, authMid.Handle, tenantMid.Handle, read))
	router.GET("/api/v1/clients/:client_id",
		chain(deps.ClientHandler.Get, authMid.Handle, tenantMid.Handle, read))
	router.PUT("/api/v1/clients/:client_id",
		chain(deps.ClientHandler.Update, authMid.Handle, tenantMid.Handle, write))
	router.DELETE("/api/v1/clients/:client_id",
		chain(deps.ClientHandler.Delete, authMid.Handle, tenantMid.Handle, write))

	// Service offerings
	router.POST("/api/v1/services",
		chain(deps.ServiceHandler.Create, authMid.Handle, tenantMid.Handle, requireRole("admin", "owner"), write))
	router.GET("/api/v1/services",
		chain(deps.ServiceHandler.List, authMid.Handle, tenantMid.Handle, read))
	router.GET("/api/v1/services/:service_id",
		chain(deps.ServiceHandler.Get, authMid.Handle, tenantMid.Handle, read))
	router.PUT("/api/v1/services/:service_id",
		chain(deps.ServiceHandler.Update, authMid.Handle, tenantMid.Handle, requireRole("admin", "owner"), write))
	router.DELETE("/api/v1/services/:service_id",
		chain(deps.ServiceHandler.Deactivate, authMid.Handle, tenantMid.Handle, requireRole("admin", "owner"), write))

	// Templates and generation. The token catalog lives outside the
	// /templates subtree because httprouter rejects mixing static and
	// wildcard segments.
	router.GET("/api/v1/tokens",
		chain(deps.TemplateHandler.Tokens, authMid.Handle, tenantMid.Handle, read))
	router.GET("/api/v1/templates",
		chain(deps.TemplateHandler.List, authMid.Handle, tenantMid.Handle, read))
	router.POST("/api/v1/templates",
		chain(deps.TemplateHandler.Create, authMid.Handle, tenantMid.Handle, write))
	router.GET("/api/v1/templates/:template_id",
		chain(deps.TemplateHandler.Get, authMid.Handle, tenantMid.Handle, read))
	router.PUT("/api/v1/templates/:template_id",
		chain(deps.TemplateHandler.Update, authMid.Handle, tenantMid.Handle, write))
	router.DELETE("/api/v1/templates/:template_id",
		chain(deps.TemplateHandler.Archive, authMid.Handle, tenantMid.Handle, write))
	router.POST("/api/v1/documents/generate",
		chain(deps.TemplateHandler.Generate, authMid.Handle, tenantMid.Handle, generate))

	// Cases
	router.POST("/api/v1/cases",
		chain(deps.CaseHandler.Create, authMid.Handle, tenantMid.Handle, write))
	router.GET("/api/v1/cases",
		chain(deps.CaseHandler.List, authMid.Handle, tenantMid.Handle, read))
	router.GET("/api/v1/cases/:case_id",
		chain(deps.CaseHandler.Get, authMid.Handle, tenantMid.Handle, read))
	router.PATCH("/api/v1/cases/:case_id/status",
		chain(deps.CaseHandler.UpdateStatus, authMid.Handle, tenantMid.Handle, write))
	router.POST("/api/v1/cases/:case_id/regenerate",
		chain(deps.CaseHandler.Regenerate, authMid.Handle, tenantMid.Handle, generate))
	router.POST("/api/v1/cases/:case_id/notify",
		chain(deps.CaseHandler.Notify, authMid.Handle, tenantMid.Handle, write))
	router.PUT("/api/v1/cases/:case_id/reminder",
		chain(deps.CaseHandler.SetReminder, authMid.Handle, tenantMid.Handle, write))
	router.GET("/api/v1/cases/:case_id/qr",
		chain(deps.CaseHandler.QRCode, authMid.Handle, tenantMid.Handle, read))

	// Webhooks
	router.POST("/api/v1/webhooks",
		chain(deps.WebhookHandler.Create, authMid.Handle, tenantMid.Handle, requireRole("admin", "owner"), write))
	router.GET("/api/v1/webhooks",
		chain(deps.WebhookHandler.List, authMid.Handle, tenantMid.Handle, requireRole("admin", "owner"), read))
	router.DELETE("/api/v1/webhooks/:webhook_id",
		chain(deps.WebhookHandler.Delete, authMid.Handle, tenantMid.Handle, requireRole("admin", "owner"), write))

	// Audit trail
	router.GET("/api/v1/audit",
		chain(deps.AuditHandler.List, authMid.Handle, tenantMid.Handle, requireRole("admin", "owner"), read))

	return router
}

// chain applies middlewares right to left so the first listed runs first.
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}

func requireRole(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims := r.Context().Value(apiContext.Claims).(*auth.Claims)

			allowed := false
			for _, role := range roles {
				if claims.Role == role {
					allowed = true
					break
				}
			}

			if !allowed {
				errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "Insufficient permissions", nil)
				return
			}

			next(w, r)
		}
	}
}
