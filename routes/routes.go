package routes

import (
	"procurement-app/config"
	"procurement-app/controllers"
	"procurement-app/database"
	"procurement-app/middleware"
	"procurement-app/procurement/allocation"
	"procurement-app/procurement/status"
	"procurement-app/repositories"
	"procurement-app/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the process-wide collaborators shared by every unit.
type Deps struct {
	// RemoteStock replaces the unit's inventory table as stock source when set.
	RemoteStock services.StockProvider
	Notifier    services.Notifier
	Receipts    services.ReceiptStore
	Memo        *allocation.Memo
	Logger      *zap.Logger
}

func (d Deps) stockFor(db *gorm.DB) services.StockProvider {
	if d.RemoteStock != nil {
		return d.RemoteStock
	}
	return services.NewLocalStockProvider(repositories.NewInventoryRepository(db))
}

func SetupRoutes(app *fiber.App, deps Deps) {
	SetupAuthRoutes(app)
	SetupUserRoutes(app)
	SetupWarehouseRoutes(app)
	SetupProductRoutes(app)
	SetupInventoryRoutes(app, deps)
	SetupPurchaseRequestRoutes(app, deps)
	SetupConfigurationRoutes(app)
}

func SetupWarehouseRoutes(app *fiber.App) {
	controller := &controllers.WarehouseController{}
	api := app.Group(config.MAIN_ROUTES+"/warehouses", middleware.AuthMiddleware)
	api.Use(database.InjectDBMiddleware())
	api.Get("/", controller.GetAllWarehouses)
}

func SetupConfigurationRoutes(app *fiber.App) {
	api := app.Group(config.MAIN_ROUTES+"/configurations", middleware.AuthMiddleware, middleware.RequireRole(status.RoleAdmin))
	api.Get("/business-units", database.GetAllBusinessUnit)
	api.Post("/business-units", database.CreateBusinessUnit)
}
