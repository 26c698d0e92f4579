package models

import (
	"time"

	"procurement-app/controllers/idgen"
	"procurement-app/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Warehouse struct {
	ID          types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	Code        string            `json:"code" gorm:"uniqueIndex;size:32" validate:"required"`
	Name        string            `json:"name" validate:"required"`
	Description string            `json:"description"`
	IsActive    bool              `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (w *Warehouse) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == 0 {
		w.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

type Product struct {
	ID        types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	ItemCode  string            `json:"item_code" gorm:"uniqueIndex;size:64"`
	ItemName  string            `json:"item_name"`
	Uom       string            `json:"uom"`
	Category  string            `json:"category"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == 0 {
		p.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

// Inventory is the stock of one product in one warehouse. Price is the
// warehouse's current unit cost.
type Inventory struct {
	ID           types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	WarehouseID  types.SnowflakeID `json:"warehouse_id" gorm:"index:idx_inventory_whs_product,unique"`
	WhsCode      string            `json:"whs_code"`
	ProductID    types.SnowflakeID `json:"product_id" gorm:"index:idx_inventory_whs_product,unique"`
	ItemCode     string            `json:"item_code"`
	Uom          string            `json:"uom"`
	QtyOnhand    decimal.Decimal   `json:"qty_onhand" gorm:"type:decimal(20,4);default:0"`
	QtyAvailable decimal.Decimal   `json:"qty_available" gorm:"type:decimal(20,4);default:0"`
	QtyAllocated decimal.Decimal   `json:"qty_allocated" gorm:"type:decimal(20,4);default:0"`
	Price        decimal.Decimal   `json:"price" gorm:"type:decimal(20,4);default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (i *Inventory) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == 0 {
		i.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}
