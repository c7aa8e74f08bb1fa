package services

import (
	"context"
	"errors"

	"storefront-api/models"
	"storefront-api/repository"

	"go.uber.org/zap"
)

type CartService interface {
	// Add puts the product in the caller's cart, incrementing the quantity
	// when the line already exists.
	Add(ctx context.Context, userID, productID string) *ServiceError
	// UpdateQuantity applies delta to the stored quantity; a result of
	// zero or less removes the line instead of storing it.
	UpdateQuantity(ctx context.Context, userID, productID string, delta int) *ServiceError
	Remove(ctx context.Context, userID, productID string) *ServiceError
	View(ctx context.Context, userID string) (*models.CartView, *ServiceError)
}

type cartServiceImpl struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	logger   *zap.Logger
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository, logger *zap.Logger) CartService {
	return &cartServiceImpl{carts: carts, products: products, logger: logger}
}

func (s *cartServiceImpl) Add(ctx context.Context, userID, productID string) *ServiceError {
	product, err := s.products.FindByID(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return &ServiceError{StatusCode: 404, Message: "Product not found"}
	}
	if err != nil {
		s.logger.Error("cart add: product lookup failed", zap.String("productId", productID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Could not add to cart"}
	}

	item := &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Name:      product.Name,
		Price:     product.SellingPrice,
		ImageURL:  product.ImageURL,
	}
	if err := s.carts.AddOrIncrement(ctx, item); err != nil {
		s.logger.Error("cart add failed", zap.String("productId", productID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Could not add to cart"}
	}
	return nil
}

func (s *cartServiceImpl) UpdateQuantity(ctx context.Context, userID, productID string, delta int) *ServiceError {
	item, err := s.carts.Find(ctx, userID, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return &ServiceError{StatusCode: 404, Message: "Item is not in your cart"}
	}
	if err != nil {
		s.logger.Error("cart lookup failed", zap.String("productId", productID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Could not update the cart"}
	}

	newQuantity := item.Quantity + delta
	if newQuantity <= 0 {
		return s.Remove(ctx, userID, productID)
	}

	if err := s.carts.SetQuantity(ctx, userID, productID, newQuantity); err != nil {
		s.logger.Error("cart quantity update failed", zap.String("productId", productID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Could not update the cart"}
	}
	return nil
}

func (s *cartServiceImpl) Remove(ctx context.Context, userID, productID string) *ServiceError {
	err := s.carts.Delete(ctx, userID, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return &ServiceError{StatusCode: 404, Message: "Item is not in your cart"}
	}
	if err != nil {
		s.logger.Error("cart remove failed", zap.String("productId", productID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Could not update the cart"}
	}
	return nil
}

func (s *cartServiceImpl) View(ctx context.Context, userID string) (*models.CartView, *ServiceError) {
	items, err := s.carts.FindAll(ctx, userID)
	if err != nil {
		s.logger.Error("cart read failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Could not load your cart"}
	}
	count, err := s.carts.Count(ctx, userID)
	if err != nil {
		s.logger.Error("cart count failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Could not load your cart"}
	}

	var subtotal float64
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return &models.CartView{Items: items, Count: count, Subtotal: subtotal}, nil
}
