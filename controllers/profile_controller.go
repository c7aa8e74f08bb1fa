package controllers

import (
	"net/http"

	"storefront-api/middleware"
	"storefront-api/services"

	"github.com/gin-gonic/gin"
)

// ProfileController handles the signed-in user's profile and order history.
type ProfileController struct {
	profileService services.ProfileService
	orderService   services.OrderService
}

func NewProfileController(profileService services.ProfileService, orderService services.OrderService) *ProfileController {
	return &ProfileController{profileService: profileService, orderService: orderService}
}

type updateAddressRequest struct {
	Address string `json:"address" binding:"required"`
}

// Get handles GET /profile.
func (pc *ProfileController) Get(ctx *gin.Context) {
	user, svcErr := pc.profileService.Get(ctx.Request.Context(), middleware.GetUserID(ctx))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateAddress handles PUT /profile/address.
func (pc *ProfileController) UpdateAddress(ctx *gin.Context) {
	var req updateAddressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	svcErr := pc.profileService.UpdateAddress(ctx.Request.Context(), middleware.GetUserID(ctx), req.Address)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Address updated"})
}

// Orders handles GET /orders.
func (pc *ProfileController) Orders(ctx *gin.Context) {
	orders, svcErr := pc.orderService.History(ctx.Request.Context(), middleware.GetUserID(ctx))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"orders": orders})
}

// Order handles GET /orders/:id.
func (pc *ProfileController) Order(ctx *gin.Context) {
	isAdmin := middleware.GetRole(ctx) == "admin"
	order, svcErr := pc.orderService.Get(ctx.Request.Context(), ctx.Param("id"), middleware.GetUserID(ctx), isAdmin)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"order": order})
}
