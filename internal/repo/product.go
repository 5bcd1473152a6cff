package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/G1-LevelUp/levelup-backend/internal/models"
)

func (r *GormRepo) GetProducts(ctx context.Context) ([]models.Producto, error) {
	var items []models.Producto
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Producto, error) {
	product := models.Producto{}
	if err := r.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a new row. The store assigns the identifier, any id
// on the input is ignored.
func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Producto) (*models.Producto, error) {
	prod.ID = 0
	if err := r.DB.WithContext(ctx).Create(prod).Error; err != nil {
		return nil, err
	}
	return prod, nil
}

// UpdateProduct replaces every field of the row matching prod.ID. It is a
// silent no-op when the id does not exist.
func (r *GormRepo) UpdateProduct(ctx context.Context, prod *models.Producto) error {
	return r.DB.WithContext(ctx).
		Model(&models.Producto{}).
		Where("id = ?", prod.ID).
		Select("*").
		Omit("id").
		Updates(prod).Error
}

// DeleteProduct removes the product and every cart row referencing it in one
// transaction, so carts never hold orphan lines. No-op when absent.
func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Producto{}, id).Error
	})
}

// SearchProducts filters the catalog by a case-insensitive substring on name
// and description. Used when no search index is configured.
func (r *GormRepo) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Producto, error) {
	pattern := "%" + q + "%"
	where := "LOWER(nombre) LIKE LOWER(?) OR LOWER(descripcion) LIKE LOWER(?)"

	var total int64
	if err := r.DB.WithContext(ctx).
		Model(&models.Producto{}).
		Where(where, pattern, pattern).
		Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Producto
	if err := r.DB.WithContext(ctx).
		Model(&models.Producto{}).
		Where(where, pattern, pattern).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}
