package service

import (
	"context"
	"fmt"
	"time"

	"github.com/G1-LevelUp/levelup-backend/internal/logging"
	"github.com/G1-LevelUp/levelup-backend/internal/mykafka"
	"github.com/G1-LevelUp/levelup-backend/internal/repo"
)

type CartService struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
}

// Cart is a user's cart at read time: distinct products with quantities and
// the total in CLP. The total is computed here, never stored.
type Cart struct {
	Items []repo.CartLine `json:"items"`
	Total int             `json:"total"`
}

func (s *CartService) AddOneUnit(ctx context.Context, userID, productID uint) (uint, error) {
	if productID == 0 {
		return 0, fmt.Errorf("producto_id required: %w", ErrValidation)
	}

	rowID, err := s.Repo.AddOneUnit(ctx, userID, productID)
	if err != nil {
		return 0, err
	}

	s.cartEvent(ctx, userID, map[string]interface{}{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": productID,
	})

	return rowID, nil
}

func (s *CartService) CountUnits(ctx context.Context, userID, productID uint) (int, error) {
	return s.Repo.CountUnits(ctx, userID, productID)
}

func (s *CartService) GetCart(ctx context.Context, userID uint) (*Cart, error) {
	lines, err := s.Repo.GetCartItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, line := range lines {
		total += line.Producto.Precio * line.Cantidad
	}
	return &Cart{Items: lines, Total: total}, nil
}

func (s *CartService) RemoveOneUnit(ctx context.Context, userID, productID uint) error {
	if err := s.Repo.RemoveOneUnit(ctx, userID, productID); err != nil {
		return err
	}
	s.cartEvent(ctx, userID, map[string]interface{}{
		"type":      "cart_item_removed",
		"userID":    userID,
		"productID": productID,
	})
	return nil
}

func (s *CartService) RemoveAllUnits(ctx context.Context, userID, productID uint) error {
	if err := s.Repo.RemoveAllUnits(ctx, userID, productID); err != nil {
		return err
	}
	s.cartEvent(ctx, userID, map[string]interface{}{
		"type":      "cart_product_removed",
		"userID":    userID,
		"productID": productID,
	})
	return nil
}

func (s *CartService) Clear(ctx context.Context, userID uint) error {
	if err := s.Repo.ClearCart(ctx, userID); err != nil {
		return err
	}
	s.cartEvent(ctx, userID, map[string]interface{}{
		"type":   "cart_cleared",
		"userID": userID,
	})
	return nil
}

func (s *CartService) cartEvent(ctx context.Context, userID uint, event map[string]interface{}) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, "cart_events", fmt.Sprint(userID), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "topic", "cart_events", "error", err)
	}
}
