package models

import (
	"time"

	"procurement-app/controllers/idgen"
	"procurement-app/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PriceScale is the number of decimal places money columns keep. Unit prices
// are rounded to it before saving; TotalPrice is the authoritative amount and
// may differ from Quantity*UnitPrice in the last places.
const PriceScale = 4

type PurchaseRequest struct {
	ID            types.SnowflakeID     `json:"ID" gorm:"primaryKey"`
	Code          string                `json:"code" gorm:"uniqueIndex;size:32"`
	Title         string                `json:"title" validate:"required"`
	Department    string                `json:"department"`
	RequesterID   uint                  `json:"requester_id"`
	RequesterName string                `json:"requester_name"`
	Status        string                `json:"status" gorm:"index;size:32"`
	Note          string                `json:"note"`
	TotalAmount   decimal.Decimal       `json:"total_amount" gorm:"type:decimal(20,4);default:0"`
	Allocation    string                `json:"allocation,omitempty" gorm:"type:text"`
	SubmittedAt   *time.Time            `json:"submitted_at"`
	ApprovedAt    *time.Time            `json:"approved_at"`
	ApprovedBy    int                   `json:"approved_by"`
	CompletedAt   *time.Time            `json:"completed_at"`
	Items         []PurchaseRequestItem `json:"items" gorm:"foreignKey:PurchaseRequestID"`
	CreatedAt     time.Time
	CreatedBy     int
	UpdatedAt     time.Time
	UpdatedBy     int
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
	DeletedBy     int            `json:"-"`
}

func (p *PurchaseRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == 0 {
		p.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

// PurchaseRequestItem is one requested line. Split lines created on approval
// point at their parent through ParentItemID; OriginalQuantity and
// OriginalUnitPrice (and OriginalSource, when approval switched the source)
// keep the pre-approval values so the approval can be cancelled.
type PurchaseRequestItem struct {
	ID                types.SnowflakeID   `json:"ID" gorm:"primaryKey"`
	PurchaseRequestID types.SnowflakeID   `json:"purchase_request_id" gorm:"index"`
	LineNo            int                 `json:"line_no"`
	ProductID         types.SnowflakeID   `json:"product_id"`
	ItemCode          string              `json:"item_code"`
	ProductName       string              `json:"product_name"`
	Quantity          decimal.Decimal     `json:"quantity" gorm:"type:decimal(20,4)"`
	Unit              string              `json:"unit"`
	UnitPrice         decimal.Decimal     `json:"unit_price" gorm:"type:decimal(20,4)"`
	TotalPrice        decimal.Decimal     `json:"total_price" gorm:"type:decimal(20,4)"`
	SourceType        string              `json:"source_type" gorm:"size:32"`
	Note              string              `json:"note"`
	ParentItemID      *types.SnowflakeID  `json:"parent_item_id" gorm:"default:null"`
	OriginalQuantity  decimal.NullDecimal `json:"original_quantity" gorm:"type:decimal(20,4)"`
	OriginalUnitPrice decimal.NullDecimal `json:"original_unit_price" gorm:"type:decimal(20,4)"`
	OriginalSource    string              `json:"original_source,omitempty" gorm:"size:32"`
	CreatedAt         time.Time
	CreatedBy         int
	UpdatedAt         time.Time
	UpdatedBy         int
}

func (i *PurchaseRequestItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == 0 {
		i.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

func (i PurchaseRequestItem) IsSplit() bool {
	return i.ParentItemID != nil
}

// StockAllocation is one warehouse draw recorded at approval.
type StockAllocation struct {
	ID                types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	PurchaseRequestID types.SnowflakeID `json:"purchase_request_id" gorm:"index"`
	ItemID            types.SnowflakeID `json:"item_id" gorm:"index"`
	ProductID         types.SnowflakeID `json:"product_id"`
	WarehouseID       types.SnowflakeID `json:"warehouse_id"`
	WarehouseName     string            `json:"warehouse_name"`
	Quantity          decimal.Decimal   `json:"quantity" gorm:"type:decimal(20,4)"`
	UnitPrice         decimal.Decimal   `json:"unit_price" gorm:"type:decimal(20,4)"`
	TotalPrice        decimal.Decimal   `json:"total_price" gorm:"type:decimal(20,4)"`
	CreatedAt         time.Time
	CreatedBy         int
}

func (a *StockAllocation) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == 0 {
		a.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

// Attachment is a receipt photo kept in object storage.
type Attachment struct {
	ID                types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	PurchaseRequestID types.SnowflakeID `json:"purchase_request_id" gorm:"index"`
	Bucket            string            `json:"bucket"`
	ObjectKey         string            `json:"object_key"`
	FileName          string            `json:"file_name"`
	ContentType       string            `json:"content_type"`
	Size              int64             `json:"size"`
	CreatedAt         time.Time
	CreatedBy         int
}

func (a *Attachment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == 0 {
		a.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}
