package services

import (
	"context"
	"errors"
	"io"
	"strings"

	"storefront-api/models"
	"storefront-api/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// CategoryAll is the implicit first tab of the catalog.
const CategoryAll = "all"

// ProductInput is the validated admin form for creating or editing a
// product. Image is optional on edit; when present it is uploaded and the
// resulting URL stored.
type ProductInput struct {
	Name         string
	Description  string
	MRP          float64
	SellingPrice float64
	Category     string
	IsNewArrival bool
	Badge        string
	Image        io.Reader
}

// BannerInput is the admin form for overwriting a settings banner.
type BannerInput struct {
	Title    string
	Subtitle string
	Image    io.Reader
}

type CatalogService interface {
	Categories(ctx context.Context) ([]models.Category, *ServiceError)
	// Products with category "all" keeps the historical behavior: only
	// new-arrival products, newest first.
	Products(ctx context.Context, category string) ([]models.Product, *ServiceError)
	Product(ctx context.Context, id string) (*models.Product, *ServiceError)
	Banner(ctx context.Context, key string) (*models.Banner, *ServiceError)

	CreateProduct(ctx context.Context, in *ProductInput) (*models.Product, *ServiceError)
	UpdateProduct(ctx context.Context, id string, in *ProductInput) *ServiceError
	DeleteProduct(ctx context.Context, id string) *ServiceError
	CreateCategory(ctx context.Context, name string) (*models.Category, *ServiceError)
	DeleteCategory(ctx context.Context, id string) *ServiceError
	PutBanner(ctx context.Context, key string, in *BannerInput) (*models.Banner, *ServiceError)
}

type catalogServiceImpl struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	settings   repository.SettingsRepository
	uploader   ImageUploader
	logger     *zap.Logger
}

func NewCatalogService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	settings repository.SettingsRepository,
	uploader ImageUploader,
	logger *zap.Logger,
) CatalogService {
	return &catalogServiceImpl{
		products:   products,
		categories: categories,
		settings:   settings,
		uploader:   uploader,
		logger:     logger,
	}
}

func (s *catalogServiceImpl) Categories(ctx context.Context) ([]models.Category, *ServiceError) {
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		s.logger.Error("category list failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Could not load categories"}
	}
	return categories, nil
}

func (s *catalogServiceImpl) Products(ctx context.Context, category string) ([]models.Product, *ServiceError) {
	var (
		products []models.Product
		err      error
	)
	if category == "" || category == CategoryAll {
		products, err = s.products.FindNewArrivals(ctx)
	} else {
		products, err = s.products.FindByCategory(ctx, category)
	}
	if err != nil {
		s.logger.Error("product list failed", zap.String("category", category), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Could not load products"}
	}
	return products, nil
}

func (s *catalogServiceImpl) Product(ctx context.Context, id string) (*models.Product, *ServiceError) {
	product, err := s.products.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
	}
	if err != nil {
		s.logger.Error("product lookup failed", zap.String("id", id), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Could not load the product"}
	}
	return product, nil
}

func (s *catalogServiceImpl) Banner(ctx context.Context, key string) (*models.Banner, *ServiceError) {
	if key != models.SettingHeroBanner && key != models.SettingPromoBanner {
		return nil, &ServiceError{StatusCode: 404, Message: "Unknown settings key"}
	}
	banner, err := s.settings.GetBanner(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		// No banner configured yet is a normal state for a fresh store.
		return &models.Banner{Key: key}, nil
	}
	if err != nil {
		s.logger.Error("banner lookup failed", zap.String("key", key), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Could not load the banner"}
	}
	return banner, nil
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, in *ProductInput) (*models.Product, *ServiceError) {
	if svcErr := validateProductInput(in); svcErr != nil {
		return nil, svcErr
	}
	if in.Image == nil {
		return nil, &ServiceError{StatusCode: 400, Message: "A product image is required"}
	}

	imageURL, err := s.uploader.Upload(ctx, in.Image, "products")
	if err != nil {
		s.logger.Error("product image upload failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 502, Message: "Image upload failed"}
	}

	product := &models.Product{
		Name:         in.Name,
		Description:  in.Description,
		MRP:          in.MRP,
		SellingPrice: in.SellingPrice,
		Category:     in.Category,
		IsNewArrival: in.IsNewArrival,
		Badge:        in.Badge,
		ImageURL:     imageURL,
	}
	if err := s.products.Create(ctx, product); err != nil {
		s.logger.Error("product create failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Could not save the product"}
	}
	return product, nil
}

func (s *catalogServiceImpl) UpdateProduct(ctx context.Context, id string, in *ProductInput) *ServiceError {
	if svcErr := validateProductInput(in); svcErr != nil {
		return svcErr
	}

	updates := bson.M{
		"name":         in.Name,
		"description":  in.Description,
		"mrp":          in.MRP,
		"sellingPrice": in.SellingPrice,
		"category":     in.Category,
		"isNewArrival": in.IsNewArrival,
		"badge":        in.Badge,
	}
	if in.Image != nil {
		imageURL, err := s.uploader.Upload(ctx, in.Image, "products")
		if err != nil {
			s.logger.Error("product image upload failed", zap.Error(err))
			return &ServiceError{StatusCode: 502, Message: "Image upload failed"}
		}
		updates["imageUrl"] = imageURL
	}

	err := s.products.Update(ctx, id, updates)
	if errors.Is(err, repository.ErrNotFound) {
		return &ServiceError{StatusCode: 404, Message: "Product not found"}
	}
	if err != nil {
		s.logger.Error("product update failed", zap.String("id", id), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Could not update the product"}
	}
	return nil
}

func (s *catalogServiceImpl) DeleteProduct(ctx context.Context, id string) *ServiceError {
	err := s.products.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return &ServiceError{StatusCode: 404, Message: "Product not found"}
	}
	if err != nil {
		s.logger.Error("product delete failed", zap.String("id", id), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Could not delete the product"}
	}
	return nil
}

func (s *catalogServiceImpl) CreateCategory(ctx context.Context, name string) (*models.Category, *ServiceError) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ServiceError{StatusCode: 400, Message: "Category name is required"}
	}
	category := &models.Category{Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		s.logger.Error("category create failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Could not save the category"}
	}
	return category, nil
}

// DeleteCategory refuses to delete a category that products still
// reference, so the catalog never holds dangling category ids.
func (s *catalogServiceImpl) DeleteCategory(ctx context.Context, id string) *ServiceError {
	count, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		s.logger.Error("category reference count failed", zap.String("id", id), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Could not delete the category"}
	}
	if count > 0 {
		return &ServiceError{StatusCode: 409, Message: "Category is still referenced by products"}
	}

	err = s.categories.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return &ServiceError{StatusCode: 404, Message: "Category not found"}
	}
	if err != nil {
		s.logger.Error("category delete failed", zap.String("id", id), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Could not delete the category"}
	}
	return nil
}

func (s *catalogServiceImpl) PutBanner(ctx context.Context, key string, in *BannerInput) (*models.Banner, *ServiceError) {
	if key != models.SettingHeroBanner && key != models.SettingPromoBanner {
		return nil, &ServiceError{StatusCode: 404, Message: "Unknown settings key"}
	}

	banner := &models.Banner{Key: key, Title: in.Title, Subtitle: in.Subtitle}
	if in.Image != nil {
		imageURL, err := s.uploader.Upload(ctx, in.Image, "banners")
		if err != nil {
			s.logger.Error("banner image upload failed", zap.Error(err))
			return nil, &ServiceError{StatusCode: 502, Message: "Image upload failed"}
		}
		banner.ImageURL = imageURL
	}

	if err := s.settings.PutBanner(ctx, banner); err != nil {
		s.logger.Error("banner save failed", zap.String("key", key), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Could not save the banner"}
	}
	return banner, nil
}

func validateProductInput(in *ProductInput) *ServiceError {
	if strings.TrimSpace(in.Name) == "" {
		return &ServiceError{StatusCode: 400, Message: "Product name is required"}
	}
	if in.SellingPrice <= 0 {
		return &ServiceError{StatusCode: 400, Message: "Selling price must be positive"}
	}
	return nil
}
