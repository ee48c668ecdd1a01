package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"carshop/internal/cache"
	apperrors "carshop/internal/errors"
	"carshop/internal/model"
	"carshop/internal/repository"
)

const productCacheTTL = 5 * time.Minute

// ProductService exposes catalog operations.
type ProductService interface {
	List(ctx context.Context, limit int64) ([]model.Product, error)
	Get(ctx context.Context, id primitive.ObjectID) (*model.Product, error)
	Create(ctx context.Context, product *model.Product) (*model.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*model.Product, error)
}

type productService struct {
	repo  repository.ProductRepository
	cache *cache.Client
}

// NewProductService builds a ProductService with repository and cache.
func NewProductService(repo repository.ProductRepository, cache *cache.Client) ProductService {
	return &productService{repo: repo, cache: cache}
}

func (s *productService) cacheKey(id primitive.ObjectID) string {
	return fmt.Sprintf("product:%s", id.Hex())
}

func (s *productService) List(ctx context.Context, limit int64) ([]model.Product, error) {
	return s.repo.Find(ctx, limit)
}

func (s *productService) Get(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Product
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(product); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, productCacheTTL)
	}
	return product, nil
}

// Create inserts a product. Status always starts as pending regardless of
// what the caller sent.
func (s *productService) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	product.Status = model.ProductStatusPending
	if _, err := s.repo.Insert(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (s *productService) Delete(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	product, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return product, nil
}
