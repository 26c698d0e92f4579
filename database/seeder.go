package database

import (
	"errors"
	"fmt"

	"procurement-app/config"
	"procurement-app/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func RunSeeders(db *gorm.DB) error {
	if err := SeedUserMaster(db); err != nil {
		return err
	}
	if err := SeedWarehouse(db); err != nil {
		return err
	}
	if err := SeedProduct(db); err != nil {
		return err
	}
	return SeedInventory(db)
}

// SeedUnit registers the default unit in the master database.
func SeedUnit(master *gorm.DB) error {
	unit := models.BusinessUnit{DbName: config.DBUnit, Name: config.DBUnit}

	var existing models.BusinessUnit
	err := master.Where("db_name = ?", unit.DbName).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return master.Create(&unit).Error
	}
	return err
}

func SeedUserMaster(db *gorm.DB) error {
	users := []models.User{
		{Username: "admin", Name: "Admin", Email: "admin@example.com", Role: "admin"},
		{Username: "requester", Name: "Requester", Email: "requester@example.com", Role: "requester", Department: "Maintenance"},
		{Username: "approver", Name: "Approver", Email: "approver@example.com", Role: "approver"},
		{Username: "purchaser", Name: "Purchaser", Email: "purchaser@example.com", Role: "purchaser"},
	}

	for _, user := range users {
		var existing models.User
		err := db.Where("email = ?", user.Email).First(&existing).Error
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			if err != nil {
				return err
			}
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(user.Username), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user.Password = string(hash)
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("insert user %s: %w", user.Username, err)
		}
		config.Log.Info("seeded user", zap.String("username", user.Username))
	}
	return nil
}

func SeedWarehouse(db *gorm.DB) error {
	warehouses := []models.Warehouse{
		{Code: "CKY", Name: "Warehouse Cakung", Description: "Main warehouse"},
		{Code: "NGK", Name: "Warehouse Nagrak", Description: "Overflow warehouse"},
	}

	for _, w := range warehouses {
		var existing models.Warehouse
		err := db.Where("code = ?", w.Code).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&w).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}

func SeedProduct(db *gorm.DB) error {
	products := []models.Product{
		{ItemCode: "BRG-6204", ItemName: "Bearing 6204", Uom: "PCS", Category: "SPAREPART"},
		{ItemCode: "OIL-HYD46", ItemName: "Hydraulic oil ISO 46", Uom: "L", Category: "CONSUMABLE"},
	}

	for _, p := range products {
		var existing models.Product
		err := db.Where("item_code = ?", p.ItemCode).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&p).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}

// SeedInventory only runs on an empty inventory table.
func SeedInventory(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Inventory{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var warehouses []models.Warehouse
	if err := db.Order("code").Find(&warehouses).Error; err != nil {
		return err
	}
	var products []models.Product
	if err := db.Order("item_code").Find(&products).Error; err != nil {
		return err
	}

	for wi, w := range warehouses {
		for _, p := range products {
			qty := decimal.NewFromInt(int64(60 - wi*10))
			inv := models.Inventory{
				WarehouseID:  w.ID,
				WhsCode:      w.Code,
				ProductID:    p.ID,
				ItemCode:     p.ItemCode,
				Uom:          p.Uom,
				QtyOnhand:    qty,
				QtyAvailable: qty,
				Price:        decimal.NewFromInt(int64(10 + wi*2)),
			}
			if err := db.Create(&inv).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
