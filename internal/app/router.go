// internal/app/router.go
package app

import (
	"net/http"

	adminHandler "dealdesk-service/internal/handlers/admin"
	dealHandler "dealdesk-service/internal/handlers/deal"
	menuHandler "dealdesk-service/internal/handlers/menu"
	merchantHandler "dealdesk-service/internal/handlers/merchant"
	"dealdesk-service/internal/middleware"
	"dealdesk-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	MerchantHandler *merchantHandler.MerchantHandler
	MenuHandler     *menuHandler.MenuHandler
	DealHandler     *dealHandler.DealHandler
	AdminHandler    *adminHandler.AdminHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "route not found")
	})

	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/register", h.MerchantHandler.Register)
		authPublic.POST("/login", h.MerchantHandler.Login)
	}

	protected := api.Group("")
	protected.Use(h.AuthMiddleware.Auth())

	protected.POST("/auth/logout", h.MerchantHandler.Logout)

	// ==================== Merchant Profile & Onboarding ====================
	me := protected.Group("/merchants/me")
	{
		me.GET("", h.MerchantHandler.GetMe)
		me.PUT("/profile", h.MerchantHandler.UpdateBusinessProfile)
		me.PUT("/location", h.MerchantHandler.UpdateLocation)
		me.POST("/complete", h.MerchantHandler.CompleteOnboarding)
	}

	// ==================== Menu ====================
	menu := protected.Group("/menu")
	{
		menu.GET("/items", h.MenuHandler.ListItems)
		menu.POST("/items", h.MenuHandler.CreateItem)
		menu.PATCH("/items/:id", h.MenuHandler.UpdateItem)
		menu.GET("/collections", h.MenuHandler.ListCollections)
		menu.POST("/collections", h.MenuHandler.CreateCollection)
		menu.GET("/collections/:id", h.MenuHandler.GetCollection)
	}

	// ==================== Deal Drafts ====================
	drafts := protected.Group("/deals/drafts")
	{
		drafts.POST("", h.DealHandler.CreateDraft)
		drafts.GET("", h.DealHandler.ListDrafts)
		drafts.GET("/:id", h.DealHandler.GetDraft)
		drafts.PATCH("/:id", h.DealHandler.UpdateDraft)
		drafts.DELETE("/:id", h.DealHandler.DeleteDraft)
		drafts.GET("/:id/summary", h.DealHandler.Summary)
		drafts.POST("/:id/items", h.DealHandler.AddItems)
		drafts.DELETE("/:id/items/:item_id", h.DealHandler.RemoveItem)
		drafts.PUT("/:id/items/:item_id/pricing", h.DealHandler.SetItemPricing)
		drafts.DELETE("/:id/items/:item_id/pricing", h.DealHandler.ClearItemPricing)
		drafts.POST("/:id/collections/:collection_id", h.DealHandler.AddCollection)
		drafts.POST("/:id/publish", h.DealHandler.PublishDraft)
	}

	// ==================== Deals ====================
	deals := protected.Group("/deals")
	{
		deals.GET("/types", h.DealHandler.DealTypes)
		deals.POST("/validate", h.DealHandler.ValidatePayload)
		deals.POST("", h.DealHandler.PublishPayload)
		deals.GET("", h.DealHandler.ListDeals)
		deals.GET("/:id", h.DealHandler.GetDeal)
		deals.POST("/:id/pause", h.DealHandler.PauseDeal)
		deals.POST("/:id/activate", h.DealHandler.ActivateDeal)
		deals.POST("/:id/cancel", h.DealHandler.CancelDeal)
	}

	protected.POST("/pricing/preview", h.DealHandler.PreviewPricing)
	protected.POST("/recurrence/occurrences", h.DealHandler.Occurrences)

	// ==================== Admin ====================
	admin := api.Group("/admin")
	admin.Use(h.AuthMiddleware.AdminOnly()...)
	{
		admin.GET("/merchants", h.AdminHandler.ListMerchants)
		admin.POST("/merchants/:id/approve", h.AdminHandler.ApproveMerchant)
		admin.POST("/merchants/:id/suspend", h.AdminHandler.SuspendMerchant)
		admin.GET("/analytics/deals", h.AdminHandler.DealAnalytics)
	}
}
