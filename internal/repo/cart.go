package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/G1-LevelUp/levelup-backend/internal/models"
)

// CartLine is one distinct product in a cart with its derived quantity.
type CartLine struct {
	Producto models.Producto `json:"producto"`
	Cantidad int             `json:"cantidad"`
}

// AddOneUnit puts one unit of a product into a user's cart, subject to the
// stock ceiling. Lookup, count and insert run in a single transaction with
// the product row locked, so concurrent adds for the same pair serialize and
// the cart can never hold more units than stock.
func (r *GormRepo) AddOneUnit(ctx context.Context, userID, productID uint) (uint, error) {
	var rowID uint
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Producto
		if err := lockForUpdate(tx).First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND product_id = ?", userID, productID).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(product.Stock) {
			return ErrNoStock
		}

		item := models.CartItem{UserID: userID, ProductID: productID}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		rowID = item.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return rowID, nil
}

// CountUnits returns how many rows the pair has, i.e. the quantity.
func (r *GormRepo) CountUnits(ctx context.Context, userID, productID uint) (int, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// GetCartItems groups the user's cart rows by product and resolves each
// distinct product id against the catalog. A product deleted since the rows
// were written is silently dropped from the result.
func (r *GormRepo) GetCartItems(ctx context.Context, userID uint) ([]CartLine, error) {
	var groups []struct {
		ProductID uint
		Cantidad  int
	}
	if err := r.DB.WithContext(ctx).Model(&models.CartItem{}).
		Select("product_id, COUNT(*) AS cantidad").
		Where("user_id = ?", userID).
		Group("product_id").
		Order("product_id ASC").
		Scan(&groups).Error; err != nil {
		return nil, err
	}

	lines := make([]CartLine, 0, len(groups))
	for _, g := range groups {
		product, err := r.GetProduct(ctx, g.ProductID)
		if errors.Is(err, ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, CartLine{Producto: *product, Cantidad: g.Cantidad})
	}
	return lines, nil
}

// RemoveOneUnit deletes exactly one matching row, the oldest first. No-op
// when the pair has no rows.
func (r *GormRepo) RemoveOneUnit(ctx context.Context, userID, productID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.CartItem
		err := tx.Where("user_id = ? AND product_id = ?", userID, productID).
			Order("id ASC").
			First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
}

// RemoveAllUnits deletes every row matching both ids.
func (r *GormRepo) RemoveAllUnits(ctx context.Context, userID, productID uint) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{}).Error
}

// ClearCart deletes every row for the user.
func (r *GormRepo) ClearCart(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
}
