// Package v1 provides HTTP API version 1.
package v1

import (
	"context"

	"github.com/gin-gonic/gin"

	"inventa/internal/core/id"
	"inventa/internal/core/security"
	"inventa/internal/core/sequence"
	"inventa/internal/domain"
	"inventa/internal/domain/catalogs/item"
	"inventa/internal/domain/catalogs/warehouse"
	"inventa/internal/domain/setup"
	"inventa/internal/infrastructure/http/v1/handlers"
	"inventa/internal/infrastructure/http/v1/middleware"
	"inventa/internal/infrastructure/storage/postgres"
	"inventa/internal/infrastructure/storage/postgres/catalog_repo"
	"inventa/internal/infrastructure/storage/postgres/setup_repo"
	"inventa/pkg/logger"
)

// RouterConfig holds the router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (health checks, numbering).
	Pool *postgres.Pool

	// TxManager runs repository statements and transactions.
	TxManager *postgres.TxManager

	// Sequencer generates entity numbers.
	Sequencer sequence.Generator

	// Logger for request logging.
	Logger *logger.Logger

	// Audit records entity change history; nil disables auditing.
	Audit *postgres.AuditService

	// Tokens validates bearer tokens; nil disables authentication.
	Tokens *security.TokenService

	// RequireAuth rejects unauthenticated API requests when true.
	RequireAuth bool

	// AllowTokenIssue exposes POST /auth/token (development only).
	AllowTokenIssue bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth, no tenant required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	api := router.Group("/api/v1")
	api.Use(middleware.TenantScope())

	registerAuthRoutes(api, cfg)

	protected := api.Group("")
	if cfg.Tokens != nil {
		if cfg.RequireAuth {
			protected.Use(middleware.Auth(cfg.Tokens))
		} else {
			protected.Use(middleware.OptionalAuth(cfg.Tokens))
		}
	}

	registerCatalogRoutes(protected, cfg)
	registerSetupRoutes(protected, cfg)

	return router
}

// registerAuthRoutes registers token endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.Tokens == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.Tokens, cfg.AllowTokenIssue)

	auth := rg.Group("/auth")
	auth.POST("/token", authHandler.IssueToken)
	auth.GET("/me", middleware.Auth(cfg.Tokens), authHandler.Me)
}

// registerCatalogRoutes registers item and warehouse endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	// --- ITEMS ---
	{
		repo := catalog_repo.NewItemRepo(cfg.TxManager)
		service := item.NewService(repo, cfg.TxManager, cfg.Sequencer, cfg.Logger)
		registerAuditHooks(service.Hooks(), cfg.Audit, "item", func(it *item.Item) auditState {
			return auditState{ID: it.ID, State: it}
		})
		handler := handlers.NewItemHandler(baseHandler, service)

		items := rg.Group("/items")
		RegisterCatalogRoutes(items, handler)
		items.GET("/by-sku/:sku", handler.GetBySKU)
		items.POST("/:id/toggle-active", handler.ToggleActive)
		registerHistoryRoute(items, baseHandler, cfg.Audit, "item")
	}

	// --- WAREHOUSES ---
	{
		repo := catalog_repo.NewWarehouseRepo(cfg.TxManager)
		locationRepo := catalog_repo.NewLocationRepo(cfg.TxManager)
		service := warehouse.NewService(repo, locationRepo, cfg.TxManager, cfg.Sequencer, cfg.Logger)
		registerAuditHooks(service.Hooks(), cfg.Audit, "warehouse", func(wh *warehouse.Warehouse) auditState {
			return auditState{ID: wh.ID, State: wh}
		})
		handler := handlers.NewWarehouseHandler(baseHandler, service)

		warehouses := rg.Group("/warehouses")
		warehouses.GET("/stats", handler.Stats)
		RegisterCatalogRoutes(warehouses, handler)
		warehouses.POST("/:id/toggle-active", handler.ToggleActive)
		registerHistoryRoute(warehouses, baseHandler, cfg.Audit, "warehouse")

		locations := warehouses.Group("/:id/locations")
		locations.GET("", handler.ListLocations)
		locations.POST("", handler.CreateLocation)
		locations.GET("/:locationId", handler.GetLocation)
		locations.PUT("/:locationId", handler.UpdateLocation)
		locations.DELETE("/:locationId", handler.DeleteLocation)
	}
}

// registerSetupRoutes registers inventory setup endpoints.
func registerSetupRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	setupRepo := setup_repo.NewSetupRepo(cfg.TxManager)
	itemRepo := catalog_repo.NewItemRepo(cfg.TxManager)
	warehouseRepo := catalog_repo.NewWarehouseRepo(cfg.TxManager)
	service := setup.NewService(setupRepo, itemRepo, warehouseRepo, cfg.TxManager, cfg.Sequencer, cfg.Logger)
	registerAuditHooks(service.Hooks(), cfg.Audit, "inventory_setup", func(rec *setup.InventorySetup) auditState {
		return auditState{ID: rec.ID, State: rec}
	})
	handler := handlers.NewSetupHandler(baseHandler, service)

	setups := rg.Group("/inventory-setups")
	setups.GET("", handler.List)
	setups.POST("", handler.Create)
	setups.POST("/bulk-update", handler.BulkUpdate)
	setups.POST("/toggle-status", handler.ToggleStatus)
	setups.GET("/by-item/:itemId", handler.ListByItem)
	setups.GET("/by-warehouse/:warehouseId", handler.ListByWarehouse)
	setups.GET("/:id", handler.Get)
	setups.PUT("/:id", handler.Update)
	setups.DELETE("/:id", handler.Delete)
	setups.POST("/:id/duplicate", handler.Duplicate)
	registerHistoryRoute(setups, baseHandler, cfg.Audit, "inventory_setup")
}

// auditState is the payload stored for an audited change.
type auditState struct {
	ID    id.ID
	State any
}

// registerAuditHooks wires change history recording into a service.
// Create failures surface to the caller; update and delete records are
// written after commit, so a logging failure there is reported by the
// service but does not fail the request.
func registerAuditHooks[T any](
	hooks *domain.HookRegistry[T],
	audit *postgres.AuditService,
	entityType string,
	mapState func(T) auditState,
) {
	if audit == nil {
		return
	}

	hooks.OnAfterCreate(func(ctx context.Context, rec T) error {
		s := mapState(rec)
		return audit.LogChange(ctx, entityType, s.ID, postgres.AuditActionCreate, map[string]any{"state": s.State})
	})
	hooks.OnAfterUpdate(func(ctx context.Context, rec T) error {
		s := mapState(rec)
		return audit.LogChange(ctx, entityType, s.ID, postgres.AuditActionUpdate, map[string]any{"state": s.State})
	})
	hooks.OnAfterDelete(func(ctx context.Context, rec T) error {
		s := mapState(rec)
		return audit.LogChange(ctx, entityType, s.ID, postgres.AuditActionDelete, nil)
	})
}

// registerHistoryRoute exposes GET /{entity}/:id/history when auditing is on.
func registerHistoryRoute(group *gin.RouterGroup, base *handlers.BaseHandler, audit *postgres.AuditService, entityType string) {
	if audit == nil {
		return
	}
	handler := handlers.NewAuditHandler(base, audit)
	group.GET("/:id/history", handler.History(entityType))
}
