package services_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"storefront-api/models"
	"storefront-api/repository"
	"storefront-api/services"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type mockCategoryRepo struct {
	categories map[string]*models.Category
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{categories: make(map[string]*models.Category)}
}

func (m *mockCategoryRepo) FindAll(_ context.Context) ([]models.Category, error) {
	var result []models.Category
	for _, c := range m.categories {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockCategoryRepo) FindByID(_ context.Context, id string) (*models.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (m *mockCategoryRepo) Create(_ context.Context, category *models.Category) error {
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	m.categories[category.ID.Hex()] = category
	return nil
}

func (m *mockCategoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

type mockSettingsRepo struct {
	banners map[string]*models.Banner
}

func newMockSettingsRepo() *mockSettingsRepo {
	return &mockSettingsRepo{banners: make(map[string]*models.Banner)}
}

func (m *mockSettingsRepo) GetBanner(_ context.Context, key string) (*models.Banner, error) {
	b, ok := m.banners[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return b, nil
}

func (m *mockSettingsRepo) PutBanner(_ context.Context, banner *models.Banner) error {
	m.banners[banner.Key] = banner
	return nil
}

type mockUploader struct {
	uploads []string // folders of successful uploads
}

func (m *mockUploader) Upload(_ context.Context, _ io.Reader, folder string) (string, error) {
	m.uploads = append(m.uploads, folder)
	return "https://cdn.example.com/" + folder + "/uploaded.jpg", nil
}

type catalogFixture struct {
	products   *mockProductRepo
	categories *mockCategoryRepo
	settings   *mockSettingsRepo
	uploader   *mockUploader
	svc        services.CatalogService
}

func newCatalogFixture() *catalogFixture {
	f := &catalogFixture{
		products:   newMockProductRepo(),
		categories: newMockCategoryRepo(),
		settings:   newMockSettingsRepo(),
		uploader:   &mockUploader{},
	}
	logger, _ := zap.NewDevelopment()
	f.svc = services.NewCatalogService(f.products, f.categories, f.settings, f.uploader, logger)
	return f
}

func TestCatalog_Products_AllShowsOnlyNewArrivals(t *testing.T) {
	f := newCatalogFixture()
	f.products.add("p1", "Silk Saree", 100, "cat1", true)
	f.products.add("p2", "Cotton Kurta", 50, "cat1", false)
	f.products.add("p3", "Bangles", 20, "cat2", true)

	products, svcErr := f.svc.Products(context.Background(), services.CategoryAll)

	assert.Nil(t, svcErr)
	assert.Len(t, products, 2)
	for _, p := range products {
		assert.True(t, p.IsNewArrival, "the All tab only lists new arrivals")
	}
}

func TestCatalog_Products_EmptyCategoryDefaultsToAll(t *testing.T) {
	f := newCatalogFixture()
	f.products.add("p1", "Silk Saree", 100, "cat1", true)
	f.products.add("p2", "Cotton Kurta", 50, "cat1", false)

	products, svcErr := f.svc.Products(context.Background(), "")

	assert.Nil(t, svcErr)
	assert.Len(t, products, 1)
}

func TestCatalog_Products_ByCategoryIgnoresNewArrivalFlag(t *testing.T) {
	f := newCatalogFixture()
	f.products.add("p1", "Silk Saree", 100, "cat1", true)
	f.products.add("p2", "Cotton Kurta", 50, "cat1", false)
	f.products.add("p3", "Bangles", 20, "cat2", true)

	products, svcErr := f.svc.Products(context.Background(), "cat1")

	assert.Nil(t, svcErr)
	assert.Len(t, products, 2)
}

func TestCatalog_Product_NotFound(t *testing.T) {
	f := newCatalogFixture()

	_, svcErr := f.svc.Product(context.Background(), "missing")

	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestCatalog_CreateProduct_UploadsImage(t *testing.T) {
	f := newCatalogFixture()

	product, svcErr := f.svc.CreateProduct(context.Background(), &services.ProductInput{
		Name:         "Silk Saree",
		MRP:          150,
		SellingPrice: 120,
		Category:     "cat1",
		Image:        strings.NewReader("jpeg bytes"),
	})

	assert.Nil(t, svcErr)
	assert.Equal(t, []string{"products"}, f.uploader.uploads)
	assert.Equal(t, "https://cdn.example.com/products/uploaded.jpg", product.ImageURL)
	assert.False(t, product.ID.IsZero())
}

func TestCatalog_CreateProduct_RequiresImage(t *testing.T) {
	f := newCatalogFixture()

	_, svcErr := f.svc.CreateProduct(context.Background(), &services.ProductInput{
		Name:         "Silk Saree",
		SellingPrice: 120,
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestCatalog_CreateProduct_RejectsNonPositivePrice(t *testing.T) {
	f := newCatalogFixture()

	_, svcErr := f.svc.CreateProduct(context.Background(), &services.ProductInput{
		Name:         "Silk Saree",
		SellingPrice: 0,
		Image:        strings.NewReader("jpeg bytes"),
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	assert.Empty(t, f.uploader.uploads, "nothing is uploaded for invalid input")
}

func TestCatalog_UpdateProduct_KeepsImageWhenNoneUploaded(t *testing.T) {
	f := newCatalogFixture()
	p := f.products.add("p1", "Silk Saree", 100, "cat1", false)
	id := "p1"
	originalURL := p.ImageURL

	svcErr := f.svc.UpdateProduct(context.Background(), id, &services.ProductInput{
		Name:         "Silk Saree Deluxe",
		SellingPrice: 140,
	})

	assert.Nil(t, svcErr)
	assert.Equal(t, "Silk Saree Deluxe", f.products.products[id].Name)
	assert.Equal(t, originalURL, f.products.products[id].ImageURL)
	assert.Empty(t, f.uploader.uploads)
}

func TestCatalog_DeleteCategory_RefusedWhileReferenced(t *testing.T) {
	f := newCatalogFixture()
	category, svcErr := f.svc.CreateCategory(context.Background(), "Sarees")
	assert.Nil(t, svcErr)
	id := category.ID.Hex()
	f.products.add("p1", "Silk Saree", 100, id, false)

	svcErr = f.svc.DeleteCategory(context.Background(), id)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
	assert.Len(t, f.categories.categories, 1, "the category survives")

	// Once the last referencing product is gone the delete goes through.
	assert.Nil(t, f.products.Delete(context.Background(), "p1"))
	assert.Nil(t, f.svc.DeleteCategory(context.Background(), id))
	assert.Empty(t, f.categories.categories)
}

func TestCatalog_Banner_UnconfiguredKeyIsEmptyNotMissing(t *testing.T) {
	f := newCatalogFixture()

	banner, svcErr := f.svc.Banner(context.Background(), models.SettingHeroBanner)

	assert.Nil(t, svcErr)
	assert.Equal(t, models.SettingHeroBanner, banner.Key)
	assert.Empty(t, banner.ImageURL)
}

func TestCatalog_Banner_UnknownKey(t *testing.T) {
	f := newCatalogFixture()

	_, svcErr := f.svc.Banner(context.Background(), "footerBanner")

	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestCatalog_PutBanner_OverwritesWholesale(t *testing.T) {
	f := newCatalogFixture()

	_, svcErr := f.svc.PutBanner(context.Background(), models.SettingPromoBanner, &services.BannerInput{
		Title:    "Festive Sale",
		Subtitle: "Up to 40% off",
		Image:    strings.NewReader("jpeg bytes"),
	})
	assert.Nil(t, svcErr)

	// A second put without a subtitle clears it rather than merging.
	banner, svcErr := f.svc.PutBanner(context.Background(), models.SettingPromoBanner, &services.BannerInput{
		Title: "New Season",
	})
	assert.Nil(t, svcErr)
	assert.Equal(t, "New Season", banner.Title)
	assert.Empty(t, banner.Subtitle)

	stored := f.settings.banners[models.SettingPromoBanner]
	assert.Equal(t, "New Season", stored.Title)
}
