package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"procurement-app/models"
	"procurement-app/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseRequestRepository struct {
	db *gorm.DB
}

func NewPurchaseRequestRepository(db *gorm.DB) *PurchaseRequestRepository {
	return &PurchaseRequestRepository{db: db}
}

// Transaction runs fn with a repository bound to one transaction.
func (r *PurchaseRequestRepository) Transaction(ctx context.Context, fn func(tx *PurchaseRequestRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PurchaseRequestRepository{db: tx})
	})
}

// DB exposes the handle, for helpers that write next to the repository
// inside the same transaction.
func (r *PurchaseRequestRepository) DB() *gorm.DB {
	return r.db
}

func (r *PurchaseRequestRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]models.PurchaseRequest, int64, error) {
	var items []models.PurchaseRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&models.PurchaseRequest{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if requester := filters["requester_id"]; requester != "" {
		query = query.Where("requester_id = ?", requester)
	}
	if search := strings.ToLower(filters["search"]); search != "" {
		query = query.Where("LOWER(title) LIKE ? OR LOWER(code) LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID loads the request with its lines in line order; split lines follow
// the originals.
func (r *PurchaseRequestRepository) FindByID(ctx context.Context, id types.SnowflakeID) (*models.PurchaseRequest, error) {
	var pr models.PurchaseRequest
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		}).
		Where("id = ?", id).
		First(&pr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pr, nil
}

// Create inserts the request with its lines. A taken code yields ErrDuplicate.
func (r *PurchaseRequestRepository) Create(ctx context.Context, pr *models.PurchaseRequest) error {
	return duplicateKey(r.db.WithContext(ctx).Create(pr).Error)
}

// LockStatus reads the request's current status and holds a row lock on the
// header until the surrounding transaction ends.
func (r *PurchaseRequestRepository) LockStatus(ctx context.Context, id types.SnowflakeID) (string, error) {
	var pr models.PurchaseRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "status").
		Where("id = ?", id).
		First(&pr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return pr.Status, nil
}

// UpdateHeaderFrom saves the header columns only if the stored status is
// still from. It reports whether a row was written.
func (r *PurchaseRequestRepository) UpdateHeaderFrom(ctx context.Context, pr *models.PurchaseRequest, from string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(pr).
		Select("*").
		Omit("Items", "CreatedAt", "CreatedBy").
		Where("status = ?", from).
		Updates(pr)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PurchaseRequestRepository) UpdateItem(ctx context.Context, item *models.PurchaseRequestItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *PurchaseRequestRepository) CreateItems(ctx context.Context, items []models.PurchaseRequestItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// ReplaceItems drops every line of the request and inserts items.
func (r *PurchaseRequestRepository) ReplaceItems(ctx context.Context, prID types.SnowflakeID, items []models.PurchaseRequestItem) error {
	if err := r.db.WithContext(ctx).Where("purchase_request_id = ?", prID).Delete(&models.PurchaseRequestItem{}).Error; err != nil {
		return err
	}
	return r.CreateItems(ctx, items)
}

func (r *PurchaseRequestRepository) DeleteSplitItems(ctx context.Context, prID types.SnowflakeID) error {
	return r.db.WithContext(ctx).
		Where("purchase_request_id = ? AND parent_item_id IS NOT NULL", prID).
		Delete(&models.PurchaseRequestItem{}).Error
}

func (r *PurchaseRequestRepository) CreateAllocations(ctx context.Context, rows []models.StockAllocation) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *PurchaseRequestRepository) DeleteAllocations(ctx context.Context, prID types.SnowflakeID) error {
	return r.db.WithContext(ctx).Where("purchase_request_id = ?", prID).Delete(&models.StockAllocation{}).Error
}

func (r *PurchaseRequestRepository) FindAllocations(ctx context.Context, prID types.SnowflakeID) ([]models.StockAllocation, error) {
	var rows []models.StockAllocation
	err := r.db.WithContext(ctx).
		Where("purchase_request_id = ?", prID).
		Order("item_id ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *PurchaseRequestRepository) CreateAttachment(ctx context.Context, a *models.Attachment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *PurchaseRequestRepository) FindAttachments(ctx context.Context, prID types.SnowflakeID) ([]models.Attachment, error) {
	var rows []models.Attachment
	err := r.db.WithContext(ctx).Where("purchase_request_id = ?", prID).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *PurchaseRequestRepository) FindHistory(ctx context.Context, code string) ([]models.TransactionHistory, error) {
	var rows []models.TransactionHistory
	err := r.db.WithContext(ctx).Where("ref_no = ?", code).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

// GenerateCode returns the next PR-{year}-{seq:04} code.
func (r *PurchaseRequestRepository) GenerateCode(ctx context.Context) (string, error) {
	year := time.Now().Format("2006")
	prefix := fmt.Sprintf("PR-%s-", year)

	var maxCode string
	err := r.db.WithContext(ctx).
		Unscoped().
		Model(&models.PurchaseRequest{}).
		Select("COALESCE(MAX(code), '')").
		Where("code LIKE ?", prefix+"%").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	return nextCode(year, maxCode), nil
}

func nextCode(year, maxCode string) string {
	var seq int
	if maxCode != "" {
		fmt.Sscanf(maxCode, "PR-"+year+"-%04d", &seq)
	}
	seq++
	return fmt.Sprintf("PR-%s-%04d", year, seq)
}
