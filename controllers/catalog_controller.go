package controllers

import (
	"net/http"

	"storefront-api/services"

	"github.com/gin-gonic/gin"
)

// CatalogController handles the public storefront reads.
type CatalogController struct {
	catalogService services.CatalogService
}

func NewCatalogController(catalogService services.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// Categories handles GET /categories.
func (cc *CatalogController) Categories(ctx *gin.Context) {
	categories, svcErr := cc.catalogService.Categories(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Products handles GET /products?category=<id|all>.
func (cc *CatalogController) Products(ctx *gin.Context) {
	category := ctx.DefaultQuery("category", services.CategoryAll)

	products, svcErr := cc.catalogService.Products(ctx.Request.Context(), category)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"products": products})
}

// Product handles GET /products/:id.
func (cc *CatalogController) Product(ctx *gin.Context) {
	product, svcErr := cc.catalogService.Product(ctx.Request.Context(), ctx.Param("id"))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"product": product})
}

// Banner handles GET /settings/:key (heroBanner / promoBanner).
func (cc *CatalogController) Banner(ctx *gin.Context) {
	banner, svcErr := cc.catalogService.Banner(ctx.Request.Context(), ctx.Param("key"))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"banner": banner})
}
