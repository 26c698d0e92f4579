package controllers

import (
	"procurement-app/database"
	"procurement-app/repositories"

	"github.com/gofiber/fiber/v2"
)

type WarehouseController struct{}

func (wc *WarehouseController) GetAllWarehouses(c *fiber.Ctx) error {
	warehouses, err := repositories.NewInventoryRepository(database.DB(c)).Warehouses(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    warehouses,
	})
}
