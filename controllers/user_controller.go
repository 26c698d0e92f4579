package controllers

import (
	"context"

	"procurement-app/database"
	"procurement-app/models"
	"procurement-app/repositories"
	"procurement-app/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserService interface {
	GetAllUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, actor services.Actor, in services.UserInput) (*models.User, error)
	UpdateUser(ctx context.Context, actor services.Actor, id uint, in services.UserUpdate) (*models.User, error)
}

type UserController struct {
	NewService func(db *gorm.DB) UserService
}

func NewUserController() *UserController {
	return &UserController{NewService: func(db *gorm.DB) UserService {
		return services.NewUserService(repositories.NewUserRepository(db))
	}}
}

func (uc *UserController) GetAllUsers(c *fiber.Ctx) error {
	users, err := uc.NewService(database.DB(c)).GetAllUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": users})
}

func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	var in services.UserInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, err := uc.NewService(database.DB(c)).CreateUser(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "User created successfully", "data": user})
}

func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid ID")
	}
	var in services.UserUpdate
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, err := uc.NewService(database.DB(c)).UpdateUser(c.UserContext(), actorFrom(c), uint(id), in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "User updated successfully", "data": user})
}
