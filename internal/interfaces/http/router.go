package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/inventory-sales-api/internal/application/analytics"
	"github.com/jhoicas/inventory-sales-api/internal/application/dto"
	"github.com/jhoicas/inventory-sales-api/internal/application/inventory"
	"github.com/jhoicas/inventory-sales-api/internal/application/sales"
	"github.com/jhoicas/inventory-sales-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC        *usecase.ProductUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	MovementQuery    *inventory.MovementQueryUseCase
	RegisterSale     *sales.RegisterSaleUseCase
	SaleQuery        *sales.SaleQueryUseCase
	Receipt          *sales.ReceiptUseCase
	DashboardUC      *appanalytics.DashboardUseCase
	StorageDriver    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", Storage: deps.StorageDriver})
	})

	api := app.Group("/api")

	// Products. Las rutas fijas van antes de /:id.
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/low-stock", productHandler.ListLowStock)
	products.Get("/category/:category", productHandler.ListByCategory)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Movements
	movements := api.Group("/movements")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.MovementQuery)
	movements.Get("/", inventoryHandler.List)
	movements.Post("/entry", inventoryHandler.RegisterEntry)
	movements.Post("/exit", inventoryHandler.RegisterExit)
	movements.Get("/product/:productId", inventoryHandler.ListByProduct)
	movements.Get("/:id", inventoryHandler.GetByID)

	// Sales
	salesGroup := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.RegisterSale, deps.SaleQuery, deps.Receipt)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Post("/", saleHandler.Register)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.DownloadReceipt)
	salesGroup.Get("/:id/movements", inventoryHandler.ListBySale)

	// Dashboard
	dashboard := api.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/stats", dashboardHandler.GetStats)
}
