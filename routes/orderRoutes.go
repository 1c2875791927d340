package routes

import (
	"github.com/Kariqs/amexan-storefront/controllers"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(router *gin.RouterGroup, h *controllers.Handler) {
	router.POST("/checkout", h.Checkout)
	router.GET("/buy-now/:productId", h.PrepareBuyNow)
	router.POST("/buy-now", h.BuyNow)
	router.GET("/orders", h.GetOrders)
	router.GET("/orders/:orderId/items", h.GetOrderItems)
}
