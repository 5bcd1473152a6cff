package service

import (
	"context"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/G1-LevelUp/levelup-backend/internal/logging"
	"github.com/G1-LevelUp/levelup-backend/internal/models"
	"github.com/G1-LevelUp/levelup-backend/internal/mykafka"
	"github.com/G1-LevelUp/levelup-backend/internal/repo"
	"github.com/G1-LevelUp/levelup-backend/internal/service/search"
)

type CatalogService struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	Index    string
}

func (s *CatalogService) GetProducts(ctx context.Context) ([]models.Producto, error) {
	return s.Repo.GetProducts(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Producto, error) {
	return s.Repo.GetProduct(ctx, id)
}

func (s *CatalogService) CreateProduct(ctx context.Context, prod *models.Producto) (*models.Producto, error) {
	created, err := s.Repo.CreateProduct(ctx, prod)
	if err != nil {
		return nil, err
	}

	s.indexProduct(ctx, created)
	s.productEvent(ctx, created.ID, map[string]interface{}{
		"type":      "product_created",
		"productID": created.ID,
		"nombre":    created.Nombre,
	})

	return created, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, prod *models.Producto) error {
	if err := s.Repo.UpdateProduct(ctx, prod); err != nil {
		return err
	}

	s.indexProduct(ctx, prod)
	s.productEvent(ctx, prod.ID, map[string]interface{}{
		"type":      "product_updated",
		"productID": prod.ID,
		"nombre":    prod.Nombre,
	})

	return nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	if s.ES != nil {
		if err := search.DeleteProduct(ctx, s.ES, s.Index, id); err != nil {
			logging.FromContext(ctx).Error("search deindex error", "productID", id, "error", err)
		}
	}
	s.productEvent(ctx, id, map[string]interface{}{
		"type":      "product_deleted",
		"productID": id,
	})

	return nil
}

// Search filters the catalog by a free-text query. Elasticsearch when it is
// wired, otherwise a substring scan on the relational store.
func (s *CatalogService) Search(ctx context.Context, q string, from, size int) (int64, []models.Producto, error) {
	if s.ES != nil {
		return search.Search(ctx, s.ES, s.Index, q, from, size)
	}
	return s.Repo.SearchProducts(ctx, q, from, size)
}

func (s *CatalogService) indexProduct(ctx context.Context, prod *models.Producto) {
	if s.ES == nil {
		return
	}
	if err := search.IndexProduct(ctx, s.ES, s.Index, prod); err != nil {
		logging.FromContext(ctx).Error("search index error", "productID", prod.ID, "error", err)
	}
}

func (s *CatalogService) productEvent(ctx context.Context, id uint, event map[string]interface{}) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, "product_events", fmt.Sprint(id), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "topic", "product_events", "error", err)
	}
}
