package service

import (
	"context"
	"fmt"

	"carshop/internal/model"
	"carshop/internal/repository"
)

// ReviewService exposes review operations.
type ReviewService interface {
	List(ctx context.Context, limit int64) ([]model.Review, error)
	Create(ctx context.Context, review *model.Review) (*model.Review, error)
}

type reviewService struct {
	repo repository.ReviewRepository
}

// NewReviewService builds a ReviewService.
func NewReviewService(repo repository.ReviewRepository) ReviewService {
	return &reviewService{repo: repo}
}

func (s *reviewService) List(ctx context.Context, limit int64) ([]model.Review, error) {
	return s.repo.Find(ctx, limit)
}

func (s *reviewService) Create(ctx context.Context, review *model.Review) (*model.Review, error) {
	if _, err := s.repo.Insert(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}
