package services

import (
	"context"
	"errors"

	"storefront-api/models"
	"storefront-api/repository"

	"go.uber.org/zap"
)

type OrderService interface {
	// History returns the caller's orders, newest first.
	History(ctx context.Context, userID string) ([]models.Order, *ServiceError)
	// Get returns one order; non-admin callers only see their own.
	Get(ctx context.Context, orderID, userID string, isAdmin bool) (*models.Order, *ServiceError)
	ListAll(ctx context.Context) ([]models.Order, *ServiceError)
	// UpdateStatus moves an order to one of the four statuses. No other
	// field of an order ever changes after creation.
	UpdateStatus(ctx context.Context, orderID, status string) *ServiceError
}

type orderServiceImpl struct {
	orders repository.OrderRepository
	logger *zap.Logger
}

func NewOrderService(orders repository.OrderRepository, logger *zap.Logger) OrderService {
	return &orderServiceImpl{orders: orders, logger: logger}
}

func (s *orderServiceImpl) History(ctx context.Context, userID string) ([]models.Order, *ServiceError) {
	orders, err := s.orders.FindByUser(ctx, userID)
	if err != nil {
		s.logger.Error("order history read failed", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Could not load your orders"}
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

func (s *orderServiceImpl) Get(ctx context.Context, orderID, userID string, isAdmin bool) (*models.Order, *ServiceError) {
	order, err := s.orders.FindByID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
	}
	if err != nil {
		s.logger.Error("order read failed", zap.String("order_id", orderID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Could not load the order"}
	}
	if !isAdmin && order.UserID != userID {
		return nil, &ServiceError{StatusCode: 403, Message: "This order belongs to another account"}
	}
	return order, nil
}

func (s *orderServiceImpl) ListAll(ctx context.Context) ([]models.Order, *ServiceError) {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		s.logger.Error("order list failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Could not load orders"}
	}
	return orders, nil
}

func (s *orderServiceImpl) UpdateStatus(ctx context.Context, orderID, status string) *ServiceError {
	if !models.ValidOrderStatus(status) {
		return &ServiceError{StatusCode: 400, Message: "Unknown order status"}
	}
	err := s.orders.UpdateStatus(ctx, orderID, status)
	if errors.Is(err, repository.ErrNotFound) {
		return &ServiceError{StatusCode: 404, Message: "Order not found"}
	}
	if err != nil {
		s.logger.Error("order status update failed", zap.String("order_id", orderID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Could not update the order"}
	}
	return nil
}
