package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/autoparts-api/internal/application/analytics"
	"github.com/jhoicas/autoparts-api/internal/application/auth"
	"github.com/jhoicas/autoparts-api/internal/application/inventory"
	"github.com/jhoicas/autoparts-api/internal/application/usecase"
	"github.com/jhoicas/autoparts-api/internal/domain/entity"
	"github.com/jhoicas/autoparts-api/internal/infrastructure/realtime"
	"github.com/jhoicas/autoparts-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	PartUC      *usecase.PartUseCase
	CategoryUC  *usecase.CategoryUseCase
	StockEngine *inventory.StockEngine
	DashboardUC *appanalytics.DashboardUseCase
	Hub         *realtime.Hub
	JWTSecret   string
	Log         *logger.Logger
}

// Router registra las rutas de la API bajo /api/v1 y el canal /ws.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/v1")
	requireAuth := AuthMiddleware(deps.JWTSecret)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh-token", authHandler.RefreshToken)
	authGroup.Get("/me", requireAuth, authHandler.Me)

	// Parts: lectura pública, escritura solo admin
	partHandler := NewPartHandler(deps.PartUC)
	inventoryHandler := NewInventoryHandler(deps.StockEngine)
	parts := api.Group("/parts")
	parts.Get("/", partHandler.List)
	parts.Get("/search/:query", partHandler.Search)
	parts.Get("/:id", partHandler.GetByID)
	parts.Post("/", requireAuth, adminOnly, partHandler.Create)
	parts.Put("/:id", requireAuth, adminOnly, partHandler.Update)
	parts.Delete("/:id", requireAuth, adminOnly, partHandler.Delete)
	parts.Patch("/:id/stock", requireAuth, adminOnly, inventoryHandler.UpdateStock)

	// Categories
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := api.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Post("/", requireAuth, adminOnly, categoryHandler.Create)

	// Dashboard (solo admin)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard := api.Group("/dashboard", requireAuth, adminOnly)
	dashboard.Get("/summary", dashboardHandler.GetSummary)
	dashboard.Get("/low-stock", dashboardHandler.GetLowStock)
	dashboard.Get("/stats", dashboardHandler.GetStats)

	// Realtime
	if deps.Hub != nil {
		rt := NewRealtimeHandler(deps.Hub, deps.JWTSecret, deps.Log)
		app.Get("/ws", rt.Upgrade, rt.Serve())
		api.Get("/realtime/stats", requireAuth, adminOnly, func(c *fiber.Ctx) error {
			return c.JSON(deps.Hub.Stats())
		})
	}
}
