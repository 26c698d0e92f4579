package helpers

import (
	"procurement-app/models"
	"time"

	"gorm.io/gorm"
)

// InsertTransactionHistory writes one audit row. Pass the transaction handle
// when the change it records is transactional.
func InsertTransactionHistory(db *gorm.DB, refNo, fromStatus, status, txType, detail string, actor int) error {
	now := time.Now()
	history := models.TransactionHistory{
		RefNo:      refNo,
		FromStatus: fromStatus,
		Status:     status,
		Type:       txType,
		Detail:     detail,
		CreatedAt:  now,
		CreatedBy:  actor,
		UpdatedAt:  now,
		UpdatedBy:  actor,
	}

	return db.Create(&history).Error
}
