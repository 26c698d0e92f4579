package migration

import (
	"procurement-app/models"

	"gorm.io/gorm"
)

// Migrate prepares the master database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.BusinessUnit{},
	)
}

// MigrateBusinessUnit prepares one unit database.
func MigrateBusinessUnit(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.LoginLog{},
		&models.Warehouse{},
		&models.Product{},
		&models.Inventory{},
		&models.PurchaseRequest{},
		&models.PurchaseRequestItem{},
		&models.StockAllocation{},
		&models.Attachment{},
		&models.TransactionHistory{},
	)
}
