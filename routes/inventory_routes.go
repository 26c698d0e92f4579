package routes

import (
	"procurement-app/config"
	"procurement-app/controllers"
	"procurement-app/database"
	"procurement-app/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupInventoryRoutes(app *fiber.App, deps Deps) {
	inventoryController := &controllers.InventoryController{NewStock: deps.stockFor}
	api := app.Group(config.MAIN_ROUTES+"/inventory", middleware.AuthMiddleware)
	api.Use(database.InjectDBMiddleware())

	api.Get("/latest-stock", inventoryController.LatestStock)
}
