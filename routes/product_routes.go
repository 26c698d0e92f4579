package routes

import (
	"procurement-app/config"
	"procurement-app/controllers"
	"procurement-app/database"
	"procurement-app/middleware"
	"procurement-app/procurement/status"

	"github.com/gofiber/fiber/v2"
)

func SetupProductRoutes(app *fiber.App) {
	productController := &controllers.ProductController{}
	api := app.Group(config.MAIN_ROUTES+"/products", middleware.AuthMiddleware)
	api.Use(database.InjectDBMiddleware())

	api.Get("/", productController.GetAllProducts)
	api.Get("/:id", productController.GetProductByID)
	api.Post("/", middleware.RequireRole(status.RoleAdmin), productController.CreateProduct)
	api.Put("/:id", middleware.RequireRole(status.RoleAdmin), productController.UpdateProduct)
}
