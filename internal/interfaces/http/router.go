package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/procurement-api/internal/application/auth"
	"github.com/jhoicas/procurement-api/internal/application/category"
	"github.com/jhoicas/procurement-api/internal/application/inventory"
	"github.com/jhoicas/procurement-api/internal/application/purchasing"
	"github.com/jhoicas/procurement-api/internal/application/usecase"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	UserUC          *usecase.UserUseCase
	CategoryUC      *category.CategoryUseCase
	ProductUC       *usecase.ProductUseCase
	SupplierUC      *usecase.SupplierUseCase
	LocationUC      *usecase.LocationUseCase
	PurchaseOrderUC *purchasing.PurchaseOrderUseCase
	ShipmentUC      *purchasing.ShipmentUseCase
	LedgerUC        *inventory.LedgerUseCase
	ReplenishmentUC *inventory.ReplenishmentUseCase
	JWTSecret       string
}

// Roles por operación.
var (
	anyRole       = []string{entity.RoleAdmin, entity.RoleManager, entity.RoleBuyer, entity.RoleWarehouse}
	catalogAdmins = []string{entity.RoleAdmin, entity.RoleManager}
	purchasers    = []string{entity.RoleAdmin, entity.RoleManager, entity.RoleBuyer}
	approvers     = []string{entity.RoleAdmin, entity.RoleManager}
	receivers     = []string{entity.RoleAdmin, entity.RoleManager, entity.RoleWarehouse}
)

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	read := RequireRole(anyRole...)

	// Users (solo admin)
	users := protected.Group("/users", RequireRole(entity.RoleAdmin))
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)

	// Categories
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", read, categoryHandler.List)
	categories.Post("/", RequireRole(catalogAdmins...), categoryHandler.Create)
	categories.Get("/:id", read, categoryHandler.GetByID)
	categories.Put("/:id", RequireRole(catalogAdmins...), categoryHandler.Update)
	categories.Delete("/:id", RequireRole(catalogAdmins...), categoryHandler.Delete)
	categories.Get("/:id/tree", read, categoryHandler.GetTree)
	categories.Get("/:id/ancestors", read, categoryHandler.Ancestors)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", read, productHandler.List)
	products.Post("/", RequireRole(catalogAdmins...), productHandler.Create)
	products.Get("/:id", read, productHandler.GetByID)
	products.Put("/:id", RequireRole(catalogAdmins...), productHandler.Update)

	// Suppliers
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", read, supplierHandler.List)
	suppliers.Post("/", RequireRole(catalogAdmins...), supplierHandler.Create)
	suppliers.Get("/:id", read, supplierHandler.GetByID)
	suppliers.Put("/:id", RequireRole(catalogAdmins...), supplierHandler.Update)

	// Locations
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Get("/", read, locationHandler.List)
	locations.Post("/", RequireRole(catalogAdmins...), locationHandler.Create)
	locations.Get("/:id", read, locationHandler.GetByID)
	locations.Put("/:id", RequireRole(catalogAdmins...), locationHandler.Update)

	// Purchase orders
	orders := protected.Group("/purchase-orders")
	poHandler := NewPurchaseOrderHandler(deps.PurchaseOrderUC)
	orders.Get("/", read, poHandler.List)
	orders.Post("/", RequireRole(purchasers...), poHandler.Create)
	orders.Get("/:id", read, poHandler.GetByID)
	orders.Put("/:id", RequireRole(purchasers...), poHandler.Update)
	orders.Post("/:id/submit", RequireRole(purchasers...), poHandler.Submit)
	orders.Post("/:id/approvals", RequireRole(approvers...), poHandler.Decide)
	orders.Get("/:id/approvals", read, poHandler.ListApprovals)
	orders.Post("/:id/order", RequireRole(purchasers...), poHandler.MarkOrdered)
	orders.Post("/:id/cancel", RequireRole(purchasers...), poHandler.Cancel)
	orders.Post("/:id/receipts", RequireRole(receivers...), poHandler.Receive)
	orders.Get("/:id/pdf", read, poHandler.PDF)
	orders.Get("/:id/ubl", read, poHandler.UBL)

	// Shipments
	shipments := protected.Group("/shipments")
	shipmentHandler := NewShipmentHandler(deps.ShipmentUC)
	shipments.Get("/", read, shipmentHandler.List)
	shipments.Post("/", RequireRole(purchasers...), shipmentHandler.Create)
	shipments.Get("/tracking/:number", read, shipmentHandler.GetByTracking)
	shipments.Get("/:id", read, shipmentHandler.GetByID)
	shipments.Patch("/:id/status", read, shipmentHandler.UpdateStatus)

	// Inventory
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LedgerUC, deps.ReplenishmentUC)
	inv.Get("/analytics", read, inventoryHandler.Analytics)
	inv.Get("/replenishment-list", read, inventoryHandler.GetReplenishmentList)
	inv.Get("/", read, inventoryHandler.List)
	inv.Post("/", RequireRole(receivers...), inventoryHandler.Create)
	inv.Get("/:id", read, inventoryHandler.GetByID)
	inv.Post("/:id/adjustments", RequireRole(receivers...), inventoryHandler.Adjust)
	inv.Get("/:id/adjustments", read, inventoryHandler.ListAdjustments)
	inv.Post("/:id/counts", RequireRole(receivers...), inventoryHandler.PhysicalCount)
	inv.Get("/:id/counts", read, inventoryHandler.ListCounts)
	inv.Post("/:id/reservations", RequireRole(receivers...), inventoryHandler.Reserve)
	inv.Post("/:id/releases", RequireRole(receivers...), inventoryHandler.Release)
}
