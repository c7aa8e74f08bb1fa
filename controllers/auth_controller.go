package controllers

import (
	"net/http"

	"storefront-api/services"

	"github.com/gin-gonic/gin"
)

// AuthController handles session establishment.
type AuthController struct {
	authService services.AuthService
}

func NewAuthController(authService services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

type createSessionRequest struct {
	IDToken string             `json:"idToken" binding:"required"`
	Lead    *services.LeadInfo `json:"lead,omitempty"`
}

// CreateSession handles POST /auth/session. The client signs in with the
// identity provider (phone OTP or email link) and exchanges the resulting
// ID token for a storefront session.
func (ac *AuthController) CreateSession(ctx *gin.Context) {
	var req createSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	result, svcErr := ac.authService.EstablishSession(ctx.Request.Context(), req.IDToken, req.Lead)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, result)
}
