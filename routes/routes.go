package routes

import (
	"storefront-api/controllers"
	"storefront-api/middleware"

	"github.com/gin-gonic/gin"
)

// Controllers bundles everything Register wires onto the engine.
type Controllers struct {
	Auth     *controllers.AuthController
	Lead     *controllers.LeadController
	Catalog  *controllers.CatalogController
	Cart     *controllers.CartController
	Checkout *controllers.CheckoutController
	Profile  *controllers.ProfileController
	Admin    *controllers.AdminController
}

// Register sets up all storefront routes.
func Register(r *gin.Engine, c *Controllers, jwtSecret string) {
	// Public storefront surface.
	r.POST("/auth/session", c.Auth.CreateSession)
	r.POST("/leads", c.Lead.Capture)
	r.GET("/categories", c.Catalog.Categories)
	r.GET("/products", c.Catalog.Products)
	r.GET("/products/:id", c.Catalog.Product)
	r.GET("/settings/:key", c.Catalog.Banner)

	// Signed-in surface.
	authed := r.Group("")
	authed.Use(middleware.AuthMiddleware(jwtSecret))

	authed.GET("/cart", c.Cart.View)
	authed.POST("/cart/items", c.Cart.Add)
	authed.PATCH("/cart/items/:productId", c.Cart.UpdateQuantity)
	authed.DELETE("/cart/items/:productId", c.Cart.Remove)

	authed.POST("/checkout/buy-now", c.Checkout.BuyNow)
	authed.POST("/checkout/begin", c.Checkout.Begin)
	authed.POST("/checkout/confirm", c.Checkout.Confirm)
	authed.POST("/checkout/cod", c.Checkout.PlaceCOD)

	authed.GET("/profile", c.Profile.Get)
	authed.PUT("/profile/address", c.Profile.UpdateAddress)
	authed.GET("/orders", c.Profile.Orders)
	authed.GET("/orders/:id", c.Profile.Order)

	// Back-office surface.
	admin := authed.Group("/admin")
	admin.Use(middleware.AdminOnly())

	admin.GET("/orders", c.Admin.ListOrders)
	admin.PATCH("/orders/:id/status", c.Admin.UpdateOrderStatus)
	admin.GET("/leads", c.Lead.List)
	admin.GET("/users", c.Admin.ListUsers)

	admin.POST("/products", c.Admin.CreateProduct)
	admin.PUT("/products/:id", c.Admin.UpdateProduct)
	admin.DELETE("/products/:id", c.Admin.DeleteProduct)
	admin.POST("/categories", c.Admin.CreateCategory)
	admin.DELETE("/categories/:id", c.Admin.DeleteCategory)
	admin.PUT("/settings/:key", c.Admin.PutBanner)
}
