package controllers

import (
	"net/http"

	"storefront-api/models"
	"storefront-api/services"

	"github.com/gin-gonic/gin"
)

// LeadController handles visitor lead capture.
type LeadController struct {
	leadService services.LeadService
}

func NewLeadController(leadService services.LeadService) *LeadController {
	return &LeadController{leadService: leadService}
}

// Capture handles POST /leads. Capturing the same phone twice returns the
// existing lead, so the client can always treat 200 as "visitor known".
func (lc *LeadController) Capture(ctx *gin.Context) {
	var req models.CreateLeadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	lead, svcErr := lc.leadService.Capture(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"lead": lead})
}

// List handles GET /admin/leads.
func (lc *LeadController) List(ctx *gin.Context) {
	leads, svcErr := lc.leadService.List(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"leads": leads})
}
