package repositories

import (
	"context"

	"procurement-app/models"
	"procurement-app/procurement/allocation"
	"procurement-app/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db}
}

type breakdownRow struct {
	WarehouseID   types.SnowflakeID
	WarehouseName string
	Stock         decimal.Decimal
	Price         decimal.Decimal
}

// Breakdown lists the stock of productID per active warehouse, in warehouse
// code order. The calculator draws from warehouses in this order.
func (r *InventoryRepository) Breakdown(ctx context.Context, productID types.SnowflakeID) ([]allocation.WarehouseStockEntry, error) {
	var rows []breakdownRow
	err := r.db.WithContext(ctx).
		Table("inventories AS i").
		Select("w.id AS warehouse_id, w.name AS warehouse_name, SUM(i.qty_available) AS stock, MAX(i.price) AS price").
		Joins("INNER JOIN warehouses w ON w.id = i.warehouse_id").
		Where("i.product_id = ? AND w.is_active = ?", productID, true).
		Group("w.id, w.name, w.code").
		Order("w.code ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]allocation.WarehouseStockEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, allocation.WarehouseStockEntry{
			WarehouseID:       row.WarehouseID.String(),
			WarehouseName:     row.WarehouseName,
			AvailableQuantity: row.Stock,
			UnitPrice:         row.Price,
		})
	}
	return out, nil
}

func (r *InventoryRepository) Warehouses(ctx context.Context) ([]models.Warehouse, error) {
	var warehouses []models.Warehouse
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("code ASC").Find(&warehouses).Error
	return warehouses, err
}
