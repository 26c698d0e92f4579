package routes

import (
	"procurement-app/config"
	"procurement-app/controllers"
	"procurement-app/database"
	"procurement-app/middleware"
	"procurement-app/repositories"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authController := &controllers.AuthController{
		Unit: config.DBUnit,
		Users: func(unit string) (controllers.UserStore, error) {
			db, err := database.GetDBConnection(unit)
			if err != nil {
				return nil, err
			}
			return repositories.NewUserRepository(db), nil
		},
	}

	api := app.Group(config.MAIN_ROUTES + "/auth")
	api.Post("/login", authController.Login)
	api.Get("/logout", middleware.AuthMiddleware, authController.Logout)
	api.Get("/me", middleware.AuthMiddleware, authController.Me)
}
