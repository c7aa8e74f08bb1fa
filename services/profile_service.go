package services

import (
	"context"
	"errors"
	"strings"

	"storefront-api/models"
	"storefront-api/repository"

	"go.uber.org/zap"
)

type ProfileService interface {
	Get(ctx context.Context, userID string) (*models.User, *ServiceError)
	// UpdateAddress merges only the address onto the profile.
	UpdateAddress(ctx context.Context, userID, address string) *ServiceError
	ListUsers(ctx context.Context) ([]models.User, *ServiceError)
}

type profileServiceImpl struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewProfileService(users repository.UserRepository, logger *zap.Logger) ProfileService {
	return &profileServiceImpl{users: users, logger: logger}
}

func (s *profileServiceImpl) Get(ctx context.Context, userID string) (*models.User, *ServiceError) {
	user, err := s.users.FindByUID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &ServiceError{StatusCode: 404, Message: "Profile not found"}
	}
	if err != nil {
		s.logger.Error("profile read failed", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Could not load your profile"}
	}
	return user, nil
}

func (s *profileServiceImpl) UpdateAddress(ctx context.Context, userID, address string) *ServiceError {
	address = strings.TrimSpace(address)
	if address == "" {
		return &ServiceError{StatusCode: 400, Message: "Address must not be empty"}
	}
	err := s.users.UpdateAddress(ctx, userID, address)
	if errors.Is(err, repository.ErrNotFound) {
		return &ServiceError{StatusCode: 404, Message: "Profile not found"}
	}
	if err != nil {
		s.logger.Error("address update failed", zap.String("user_id", userID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Could not save your address"}
	}
	return nil
}

func (s *profileServiceImpl) ListUsers(ctx context.Context) ([]models.User, *ServiceError) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		s.logger.Error("user list failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Could not load users"}
	}
	return users, nil
}
