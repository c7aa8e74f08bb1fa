package controllers

import (
	"net/http"

	"storefront-api/middleware"
	"storefront-api/models"
	"storefront-api/services"

	"github.com/gin-gonic/gin"
)

// CheckoutController handles the checkout/order workflow endpoints.
type CheckoutController struct {
	checkoutService services.CheckoutService
}

func NewCheckoutController(checkoutService services.CheckoutService) *CheckoutController {
	return &CheckoutController{checkoutService: checkoutService}
}

type buyNowRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// BuyNow handles POST /checkout/buy-now.
func (cc *CheckoutController) BuyNow(ctx *gin.Context) {
	var req buyNowRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	userID := middleware.GetUserID(ctx)
	if svcErr := cc.checkoutService.BuyNow(ctx.Request.Context(), userID, req.ProductID); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Checkout started"})
}

// Begin handles POST /checkout/begin.
func (cc *CheckoutController) Begin(ctx *gin.Context) {
	var req models.BeginCheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	userID := middleware.GetUserID(ctx)
	resp, svcErr := cc.checkoutService.Begin(ctx.Request.Context(), userID, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Confirm handles POST /checkout/confirm, the payment-gateway callback
// relayed by the client.
func (cc *CheckoutController) Confirm(ctx *gin.Context) {
	var req models.ConfirmPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	userID := middleware.GetUserID(ctx)
	orderID, svcErr := cc.checkoutService.Confirm(ctx.Request.Context(), userID, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"orderId": orderID})
}

// PlaceCOD handles POST /checkout/cod.
func (cc *CheckoutController) PlaceCOD(ctx *gin.Context) {
	var req models.BeginCheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	userID := middleware.GetUserID(ctx)
	orderID, svcErr := cc.checkoutService.PlaceCOD(ctx.Request.Context(), userID, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"orderId": orderID})
}
