package routes

import (
	"procurement-app/config"
	"procurement-app/controllers"
	"procurement-app/database"
	"procurement-app/middleware"
	"procurement-app/procurement/status"
	"procurement-app/repositories"
	"procurement-app/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupPurchaseRequestRoutes(app *fiber.App, deps Deps) {
	controller := &controllers.PurchaseRequestController{
		MaxReceiptSize: int64(config.MaxReceiptSize),
		NewService: func(db *gorm.DB) controllers.PurchaseRequestService {
			return services.NewPurchaseRequestService(repositories.NewPurchaseRequestRepository(db), services.Options{
				Stock:    deps.stockFor(db),
				Notifier: deps.Notifier,
				Receipts: deps.Receipts,
				Memo:     deps.Memo,
				Workers:  config.StockFetchWorkers,
				Logger:   deps.Logger,
			})
		},
	}

	api := app.Group(config.MAIN_ROUTES+"/purchase-requests", middleware.AuthMiddleware)
	api.Use(database.InjectDBMiddleware())

	api.Get("/", controller.GetPurchaseRequests)
	api.Post("/", middleware.RequireRole(status.RoleRequester), controller.CreatePurchaseRequest)
	api.Get("/:id", controller.GetPurchaseRequestByID)
	api.Put("/:id/items", middleware.RequireRole(status.RoleRequester), controller.UpdateItems)
	api.Get("/:id/transitions", controller.GetTransitions)
	api.Get("/:id/history", controller.GetHistory)
	api.Post("/:id/allocation/preview", middleware.RequireRole(status.RoleApprover), controller.PreviewAllocation)
	api.Get("/:id/allocation/export", controller.ExportAllocation)
	api.Put("/:id/status", controller.ChangeStatus)
	api.Get("/:id/receipts", controller.GetReceipts)
	api.Post("/:id/receipts", middleware.RequireRole(status.RolePurchaser), controller.UploadReceipt)
}
