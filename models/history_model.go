package models

import (
	"procurement-app/controllers/idgen"
	"time"

	"gorm.io/gorm"
)

// TransactionHistory is the audit trail of status changes.
type TransactionHistory struct {
	ID         int64  `json:"ID" gorm:"primaryKey"`
	RefNo      string `json:"ref_no" gorm:"index"`
	FromStatus string `json:"from_status"`
	Status     string `json:"status"`
	Type       string `json:"type"`
	Detail     string `json:"detail"`
	CreatedAt  time.Time
	CreatedBy  int
	UpdatedAt  time.Time
	UpdatedBy  int
	DeletedAt  gorm.DeletedAt `json:"-"`
	DeletedBy  int            `json:"-"`
}

func (u *TransactionHistory) BeforeCreate(tx *gorm.DB) (err error) {
	u.ID = idgen.GenerateID()
	return
}
