package repositories

import (
	"context"
	"errors"
	"strings"

	"procurement-app/models"
	"procurement-app/types"

	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db}
}

// FindAll matches search against item code and name.
func (r *ProductRepository) FindAll(ctx context.Context, search string) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(item_code) LIKE ? OR LOWER(item_name) LIKE ?", like, like)
	}
	var products []models.Product
	err := query.Order("item_code ASC").Find(&products).Error
	return products, err
}

func (r *ProductRepository) FindByID(ctx context.Context, id types.SnowflakeID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}
