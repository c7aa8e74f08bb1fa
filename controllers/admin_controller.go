package controllers

import (
	"net/http"
	"strconv"

	"storefront-api/services"

	"github.com/gin-gonic/gin"
)

// AdminController handles the back-office screens: product/category/banner
// management, order status updates and operational listings.
type AdminController struct {
	catalogService services.CatalogService
	orderService   services.OrderService
	profileService services.ProfileService
}

func NewAdminController(
	catalogService services.CatalogService,
	orderService services.OrderService,
	profileService services.ProfileService,
) *AdminController {
	return &AdminController{
		catalogService: catalogService,
		orderService:   orderService,
		profileService: profileService,
	}
}

// productInputFromForm reads the multipart product form. The image part is
// optional; callers decide whether it is required.
func productInputFromForm(ctx *gin.Context) (*services.ProductInput, error) {
	mrp, _ := strconv.ParseFloat(ctx.PostForm("mrp"), 64)
	sellingPrice, _ := strconv.ParseFloat(ctx.PostForm("sellingPrice"), 64)
	isNewArrival, _ := strconv.ParseBool(ctx.PostForm("isNewArrival"))

	in := &services.ProductInput{
		Name:         ctx.PostForm("name"),
		Description:  ctx.PostForm("description"),
		MRP:          mrp,
		SellingPrice: sellingPrice,
		Category:     ctx.PostForm("category"),
		IsNewArrival: isNewArrival,
		Badge:        ctx.PostForm("badge"),
	}

	if fileHeader, err := ctx.FormFile("image"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return nil, err
		}
		in.Image = file
	}
	return in, nil
}

// CreateProduct handles POST /admin/products (multipart).
func (ac *AdminController) CreateProduct(ctx *gin.Context) {
	in, err := productInputFromForm(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}

	product, svcErr := ac.catalogService.CreateProduct(ctx.Request.Context(), in)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct handles PUT /admin/products/:id (multipart).
func (ac *AdminController) UpdateProduct(ctx *gin.Context) {
	in, err := productInputFromForm(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}

	if svcErr := ac.catalogService.UpdateProduct(ctx.Request.Context(), ctx.Param("id"), in); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Product updated"})
}

// DeleteProduct handles DELETE /admin/products/:id.
func (ac *AdminController) DeleteProduct(ctx *gin.Context) {
	if svcErr := ac.catalogService.DeleteProduct(ctx.Request.Context(), ctx.Param("id")); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

type createCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateCategory handles POST /admin/categories.
func (ac *AdminController) CreateCategory(ctx *gin.Context) {
	var req createCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	category, svcErr := ac.catalogService.CreateCategory(ctx.Request.Context(), req.Name)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"category": category})
}

// DeleteCategory handles DELETE /admin/categories/:id. Deletion is refused
// while products still reference the category.
func (ac *AdminController) DeleteCategory(ctx *gin.Context) {
	if svcErr := ac.catalogService.DeleteCategory(ctx.Request.Context(), ctx.Param("id")); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// PutBanner handles PUT /admin/settings/:key (multipart, image optional).
func (ac *AdminController) PutBanner(ctx *gin.Context) {
	in := &services.BannerInput{
		Title:    ctx.PostForm("title"),
		Subtitle: ctx.PostForm("subtitle"),
	}
	if fileHeader, err := ctx.FormFile("image"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
			return
		}
		in.Image = file
	}

	banner, svcErr := ac.catalogService.PutBanner(ctx.Request.Context(), ctx.Param("key"), in)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"banner": banner})
}

// ListOrders handles GET /admin/orders.
func (ac *AdminController) ListOrders(ctx *gin.Context) {
	orders, svcErr := ac.orderService.ListAll(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"orders": orders})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus handles PATCH /admin/orders/:id/status.
func (ac *AdminController) UpdateOrderStatus(ctx *gin.Context) {
	var req updateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if svcErr := ac.orderService.UpdateStatus(ctx.Request.Context(), ctx.Param("id"), req.Status); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Order status updated"})
}

// ListUsers handles GET /admin/users.
func (ac *AdminController) ListUsers(ctx *gin.Context) {
	users, svcErr := ac.profileService.ListUsers(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"users": users})
}
