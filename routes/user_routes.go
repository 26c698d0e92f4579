package routes

import (
	"procurement-app/config"
	"procurement-app/controllers"
	"procurement-app/database"
	"procurement-app/middleware"
	"procurement-app/procurement/status"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userController := controllers.NewUserController()
	api := app.Group(config.MAIN_ROUTES+"/users", middleware.AuthMiddleware, middleware.RequireRole(status.RoleAdmin))
	api.Use(database.InjectDBMiddleware())

	api.Get("/", userController.GetAllUsers)
	api.Post("/", userController.CreateUser)
	api.Put("/:id", userController.UpdateUser)
}
