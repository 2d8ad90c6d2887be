package main

import (
	"fmt"
	"log"
	"net/http"

	"recurso/internal/api"
	"recurso/internal/api/handlers"
	"recurso/internal/api/middleware"
	"recurso/internal/pkg/logger"
	"recurso/internal/platform/audit"
	"recurso/internal/platform/auth"
	"recurso/internal/platform/config"
	"recurso/internal/platform/database"
	"recurso/internal/platform/repositories"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)
	middleware.Configure(cfg.RateLimit)

	globalDB, err := database.NewGlobalDB(cfg.Database.Global)
	if err != nil {
		log.Fatalf("Failed to connect to global DB: %v", err)
	}
	defer globalDB.Close()

	globalDBWrapper := database.NewGlobalDBWrapper(globalDB)

	tenantDBPool := database.NewTenantDBPool(cfg.Database.Tenant)
	defer tenantDBPool.CloseAll()

	orgRepo := repositories.NewOrganizationRepository(globalDB)
	userRepo := repositories.NewUserRepository(globalDB)
	inviteRepo := repositories.NewInviteRepository(globalDB)

	tokenSvc := auth.NewTokenService(cfg.JWT)
	auditLogger := audit.NewLogger(globalDB)

	deps := &api.Dependencies{
		AuthHandler:      handlers.NewAuthHandler(userRepo, orgRepo, inviteRepo, tokenSvc),
		OrgHandler:       handlers.NewOrgHandler(orgRepo, userRepo, tokenSvc, auditLogger, cfg.Database.Tenant),
		InviteHandler:    handlers.NewInviteHandler(inviteRepo),
		UserHandler:      handlers.NewUserHandler(userRepo),
		ClientHandler:    handlers.NewClientHandler(),
		ServiceHandler:   handlers.NewServiceHandler(),
		TemplateHandler:  handlers.NewTemplateHandler(auditLogger, cfg.Webhooks.DeliveryTimeout, cfg.Webhooks.RetryAttempts),
		CaseHandler:      handlers.NewCaseHandler(auditLogger, cfg.Webhooks.DeliveryTimeout, cfg.Webhooks.RetryAttempts, cfg.Domains),
		WebhookHandler:   handlers.NewWebhookHandler(),
		AuditHandler:     handlers.NewAuditHandler(auditLogger),
		HealthHandler:    handlers.NewHealthHandler(globalDBWrapper),
		MetricsHandler:   handlers.NewMetricsHandler(),
		AuthMiddleware:   middleware.NewAuthMiddleware(tokenSvc),
		TenantMiddleware: middleware.NewTenantMiddleware(orgRepo, tenantDBPool),
	}
	router := api.NewRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Printf("Server starting on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
