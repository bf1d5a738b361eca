// routes.go
//
// The /api route table, shared by the server binary and the route-level tests
// so the two cannot drift apart.

package handlers

import (
	"github.com/garrisonhq/garrison/internal/config"
	"github.com/garrisonhq/garrison/internal/middleware"
	"github.com/garrisonhq/garrison/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RegisterRoutes wires every API route, with its role gate, onto api.
func RegisterRoutes(api fiber.Router, db *gorm.DB, cfg *config.Config) {
	api.Use(middleware.VersionMiddleware())
	api.Use(middleware.AuditLog(db))

	authHandler := &AuthHandler{DB: db, Cfg: cfg}
	assetHandler := &AssetHandler{DB: db}
	baseHandler := &BaseHandler{DB: db}
	purchaseHandler := &PurchaseHandler{DB: db}
	transferHandler := &TransferHandler{DB: db}
	assignmentHandler := &AssignmentHandler{DB: db}
	expenditureHandler := &ExpenditureHandler{DB: db, Cfg: cfg}
	dashboardHandler := &DashboardHandler{DB: db}
	userHandler := &UserHandler{DB: db, Cfg: cfg}

	requireAuth := middleware.RequireAuth(db, cfg.JWTSecret)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	// Public auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", requireAuth, authHandler.Me)

	// Assets
	assets := api.Group("/assets", requireAuth)
	assets.Get("/", assetHandler.List)
	assets.Post("/", middleware.RequireRoles(models.RoleAdmin, models.RoleLogisticsOfficer), assetHandler.Create)
	assets.Put("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleLogisticsOfficer), assetHandler.Update)
	assets.Delete("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleLogisticsOfficer), assetHandler.Delete)

	// Purchases
	purchases := api.Group("/purchases", requireAuth)
	purchases.Get("/", purchaseHandler.List)
	purchases.Post("/", middleware.RequireRoles(models.RoleAdmin, models.RoleLogisticsOfficer), purchaseHandler.Create)

	// Transfers
	transfers := api.Group("/transfers", requireAuth)
	transfers.Get("/", transferHandler.List)
	transfers.Post("/", transferHandler.Create)

	// Assignments
	assignments := api.Group("/assignments", requireAuth)
	assignments.Get("/", middleware.RequireRoles(models.RoleAdmin, models.RoleBaseCommander), assignmentHandler.List)
	assignments.Post("/", middleware.RequireRoles(models.RoleAdmin, models.RoleLogisticsOfficer, models.RoleBaseCommander), assignmentHandler.Create)
	assignments.Put("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleLogisticsOfficer, models.RoleBaseCommander), assignmentHandler.Update)

	// Expenditures
	expenditures := api.Group("/expenditures", requireAuth)
	expenditures.Get("/", expenditureHandler.List)
	expenditures.Post("/", expenditureHandler.Create)

	// Bases
	bases := api.Group("/bases", requireAuth)
	bases.Get("/", middleware.RequireRoles(models.RoleAdmin, models.RoleBaseCommander, models.RoleLogisticsOfficer), baseHandler.List)
	bases.Post("/", adminOnly, baseHandler.Create)
	bases.Put("/:id", adminOnly, baseHandler.Update)
	bases.Delete("/:id", adminOnly, baseHandler.Delete)

	// User management
	users := api.Group("/users", requireAuth, adminOnly)
	users.Get("/", userHandler.List)
	users.Post("/register", userHandler.RegisterUser)

	// Dashboard
	dashboard := api.Group("/dashboard", requireAuth)
	dashboard.Get("/metrics", adminOnly, dashboardHandler.Metrics)
	dashboard.Get("/total-assets", dashboardHandler.TotalAssets)
	dashboard.Get("/assets-by-base", dashboardHandler.AssetsByBase)
	dashboard.Get("/assets-by-type", dashboardHandler.AssetsByType)
	dashboard.Get("/recent-activity", dashboardHandler.RecentActivity)

	// Role-gate smoke route
	admin := api.Group("/admin", requireAuth, adminOnly)
	admin.Get("/admin-only", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Welcome, admin"})
	})
}
