package models

import "gorm.io/gorm"

// BusinessUnit lives in the master database; DbName is the unit database
// that holds the unit's purchase requests and stock.
type BusinessUnit struct {
	gorm.Model
	DbName    string `json:"db_name" gorm:"unique"`
	Name      string `json:"name"`
	IsActive  bool   `json:"is_active" gorm:"default:true"`
	CreatedBy int    `json:"created_by"`
	UpdatedBy int    `json:"updated_by"`
	DeletedBy int    `json:"deleted_by"`
}
