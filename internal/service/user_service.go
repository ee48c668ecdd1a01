package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"carshop/internal/cache"
	apperrors "carshop/internal/errors"
	"carshop/internal/model"
	"carshop/internal/repository"
)

const roleCacheTTL = time.Minute

// UserService exposes account operations and role resolution. It implements
// auth.RoleResolver for the authorization middleware.
type UserService interface {
	Register(ctx context.Context, name, email string) (*model.User, error)
	ResolveRole(ctx context.Context, email string) (model.Role, error)
	IsAdmin(ctx context.Context, email string) (bool, error)
	MakeAdmin(ctx context.Context, email string) (*model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) roleKey(email string) string {
	return fmt.Sprintf("user:role:%s", email)
}

// Register creates an account with the default user role. Email is the
// unique identity key, so registering an existing email returns the existing
// record instead of inserting a duplicate.
func (s *userService) Register(ctx context.Context, name, email string) (*model.User, error) {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	user := &model.User{
		Name:  name,
		Email: email,
		Role:  model.RoleUser,
	}
	if _, err := s.repo.Insert(ctx, user); err != nil {
		// Lost a race against a concurrent registration for the same email.
		// The unique index kept a single record; return that one.
		if mongo.IsDuplicateKeyError(err) {
			return s.repo.FindByEmail(ctx, email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// ResolveRole loads the role recorded for a verified email. It performs no
// authorization decision; callers branch on the returned role. A missing
// record is ErrUserNotFound, distinct from an authentication failure.
func (s *userService) ResolveRole(ctx context.Context, email string) (model.Role, error) {
	if data, _ := s.cache.Get(ctx, s.roleKey(email)); data != nil {
		var cached model.Role
		if err := json.Unmarshal(data, &cached); err == nil && cached != "" {
			return cached, nil
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", apperrors.ErrUserNotFound
		}
		return "", err
	}

	if payload, err := json.Marshal(user.Role); err == nil {
		_ = s.cache.Set(ctx, s.roleKey(email), payload, roleCacheTTL)
	}
	return user.Role, nil
}

// IsAdmin reports whether the email belongs to an admin. A verified caller
// with no user record is simply not an admin, never a fault.
func (s *userService) IsAdmin(ctx context.Context, email string) (bool, error) {
	role, err := s.ResolveRole(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return role == model.RoleAdmin, nil
}

// MakeAdmin promotes the target user to admin and returns the updated
// record. The caller's own privilege is checked by the authorization
// middleware before this runs.
func (s *userService) MakeAdmin(ctx context.Context, email string) (*model.User, error) {
	user, err := s.repo.PromoteByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	_ = s.cache.Delete(ctx, s.roleKey(email))
	return user, nil
}
