package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"carshop/internal/auth"
	apperrors "carshop/internal/errors"
	"carshop/internal/model"
	"carshop/internal/repository"
)

// OrderService exposes order operations, including the self-scoped listing.
type OrderService interface {
	ListForCaller(ctx context.Context, email string, limit int64) ([]model.Order, error)
	Get(ctx context.Context, id primitive.ObjectID) (*model.Order, error)
	Place(ctx context.Context, order *model.Order) (*model.Order, error)
	Ship(ctx context.Context, id primitive.ObjectID) (*model.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*model.Order, error)
}

type orderService struct {
	repo  repository.OrderRepository
	roles auth.RoleResolver
}

// NewOrderService builds an OrderService. The role resolver drives the
// admin/self-scoped split on listing.
func NewOrderService(repo repository.OrderRepository, roles auth.RoleResolver) OrderService {
	return &orderService{repo: repo, roles: roles}
}

// ListForCaller returns every order for an admin and only the caller's own
// orders otherwise. The role check comes first; the ownership filter is the
// fallback branch. A verified caller with no user record is reported as
// ErrUserNotFound so the handler can deny instead of leaking data.
func (s *orderService) ListForCaller(ctx context.Context, email string, limit int64) ([]model.Order, error) {
	role, err := s.roles.ResolveRole(ctx, email)
	if err != nil {
		return nil, err
	}
	if role == model.RoleAdmin {
		return s.repo.Find(ctx, limit)
	}
	return s.repo.FindByEmail(ctx, email, limit)
}

func (s *orderService) Get(ctx context.Context, id primitive.ObjectID) (*model.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// Place inserts an order in the placed state.
func (s *orderService) Place(ctx context.Context, order *model.Order) (*model.Order, error) {
	order.Status = model.OrderStatusPlaced
	if _, err := s.repo.Insert(ctx, order); err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}
	return order, nil
}

// Ship moves the order to shipped and returns the updated record.
func (s *orderService) Ship(ctx context.Context, id primitive.ObjectID) (*model.Order, error) {
	order, err := s.repo.UpdateStatus(ctx, id, model.OrderStatusShipped)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) Delete(ctx context.Context, id primitive.ObjectID) (*model.Order, error) {
	order, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}
