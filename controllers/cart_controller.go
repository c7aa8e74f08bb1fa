package controllers

import (
	"net/http"

	"storefront-api/middleware"
	"storefront-api/services"

	"github.com/gin-gonic/gin"
)

// CartController handles the authenticated cart operations.
type CartController struct {
	cartService services.CartService
}

func NewCartController(cartService services.CartService) *CartController {
	return &CartController{cartService: cartService}
}

type addToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type updateQuantityRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// Add handles POST /cart/items.
func (cc *CartController) Add(ctx *gin.Context) {
	var req addToCartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	userID := middleware.GetUserID(ctx)
	if svcErr := cc.cartService.Add(ctx.Request.Context(), userID, req.ProductID); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	cc.respondWithCart(ctx, userID, http.StatusCreated)
}

// UpdateQuantity handles PATCH /cart/items/:productId.
func (cc *CartController) UpdateQuantity(ctx *gin.Context) {
	var req updateQuantityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	userID := middleware.GetUserID(ctx)
	svcErr := cc.cartService.UpdateQuantity(ctx.Request.Context(), userID, ctx.Param("productId"), req.Delta)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	cc.respondWithCart(ctx, userID, http.StatusOK)
}

// Remove handles DELETE /cart/items/:productId.
func (cc *CartController) Remove(ctx *gin.Context) {
	userID := middleware.GetUserID(ctx)
	if svcErr := cc.cartService.Remove(ctx.Request.Context(), userID, ctx.Param("productId")); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	cc.respondWithCart(ctx, userID, http.StatusOK)
}

// View handles GET /cart.
func (cc *CartController) View(ctx *gin.Context) {
	cc.respondWithCart(ctx, middleware.GetUserID(ctx), http.StatusOK)
}

// respondWithCart re-reads the cart after every mutation so the badge
// count the client renders is always the stored truth.
func (cc *CartController) respondWithCart(ctx *gin.Context, userID string, status int) {
	view, svcErr := cc.cartService.View(ctx.Request.Context(), userID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(status, gin.H{"cart": view})
}
