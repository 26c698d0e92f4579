package controllers

import (
	"procurement-app/database"
	"procurement-app/procurement/allocation"
	"procurement-app/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type InventoryController struct {
	NewStock func(db *gorm.DB) services.StockProvider
}

// LatestStock answers GET /inventory/latest-stock?productId=&detail=true.
// data is the total over every warehouse; breakdown is only sent with
// detail=true.
func (ic *InventoryController) LatestStock(c *fiber.Ctx) error {
	productID := c.Query("productId")
	if productID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "productId is required")
	}

	breakdown, err := ic.NewStock(database.DB(c)).LatestStock(c.UserContext(), productID)
	if err != nil {
		return &allocation.StockFetchError{ProductID: productID, Err: err}
	}
	if breakdown == nil {
		breakdown = []allocation.WarehouseStockEntry{}
	}

	resp := fiber.Map{
		"success": true,
		"data":    allocation.TotalStock(breakdown),
	}
	if c.QueryBool("detail") {
		resp["breakdown"] = breakdown
	}
	return c.JSON(resp)
}
