// internal/app/router.go
package app

import (
	adminHandler "storefront-agent/internal/handlers/admin"
	cartHandler "storefront-agent/internal/handlers/cart"
	catalogHandler "storefront-agent/internal/handlers/catalog"
	checkoutHandler "storefront-agent/internal/handlers/checkout"
	noticesHandler "storefront-agent/internal/handlers/notices"
	sessionHandler "storefront-agent/internal/handlers/session"
	wsHandler "storefront-agent/internal/handlers/websocket"
	"storefront-agent/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	SessionHandler  *sessionHandler.SessionHandler
	CartHandler     *cartHandler.CartHandler
	CheckoutHandler *checkoutHandler.CheckoutHandler
	CatalogHandler  *catalogHandler.CatalogHandler
	AdminHandler    *adminHandler.AdminHandler
	NoticesHandler  *noticesHandler.NoticesHandler
	WSHandler       *wsHandler.WebSocketHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)
	api.GET("/ws/stats", h.WSHandler.GetStats)

	// ==================== Session ====================
	sess := api.Group("/session")
	{
		sess.GET("", h.SessionHandler.Get)
		sess.POST("/login", h.SessionHandler.Login)
		sess.POST("/register", h.SessionHandler.Register)
		sess.POST("/external", h.SessionHandler.External)
		sess.POST("/logout", h.SessionHandler.Logout)
	}

	// ==================== Cart ====================
	// The cart manager gates and notifies on its own, so no middleware here.
	cart := api.Group("/cart")
	{
		cart.GET("", h.CartHandler.Get)
		cart.POST("/load", h.CartHandler.Reload)
		cart.POST("/items", h.CartHandler.AddItem)
		cart.DELETE("/items/:id/one", h.CartHandler.RemoveOne)
		cart.DELETE("/items/:id", h.CartHandler.RemoveLine)
		cart.DELETE("", h.CartHandler.Clear)
		cart.POST("/undo", h.CartHandler.Undo)
	}

	// ==================== Checkout ====================
	checkout := api.Group("/checkout")
	{
		checkout.GET("", h.CheckoutHandler.Summary)
		checkout.POST("", h.CheckoutHandler.PlaceOrder)
	}

	// ==================== Catalog ====================
	api.GET("/products", h.CatalogHandler.ListProducts)
	api.GET("/categories", h.CatalogHandler.ListCategories)

	account := api.Group("")
	account.Use(h.AuthMiddleware.Auth())
	{
		account.GET("/profile", h.CatalogHandler.GetProfile)
		account.GET("/orders", h.CatalogHandler.ListMyOrders)
		account.GET("/orders/:id", h.CatalogHandler.GetOrder)
	}

	// ==================== Back Office ====================
	admin := api.Group("/admin", h.AuthMiddleware.AdminOnly()...)
	{
		admin.GET("/orders", h.AdminHandler.ListOrders)
		admin.PATCH("/orders/:id/status", h.AdminHandler.UpdateOrderStatus)
		admin.POST("/products", h.AdminHandler.CreateProduct)
		admin.DELETE("/products/:id", h.AdminHandler.DeleteProduct)
		admin.POST("/categories", h.AdminHandler.CreateCategory)
		admin.DELETE("/categories/:id", h.AdminHandler.DeleteCategory)
	}

	// ==================== Notices ====================
	notices := api.Group("/notices")
	{
		notices.GET("", h.NoticesHandler.List)
		notices.DELETE("/:id", h.NoticesHandler.Dismiss)
	}
}
