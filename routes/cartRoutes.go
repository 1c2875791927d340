package routes

import (
	"github.com/Kariqs/amexan-storefront/controllers"
	"github.com/gin-gonic/gin"
)

func CartRoutes(router *gin.RouterGroup, h *controllers.Handler) {
	router.GET("/cart", h.GetCart)
	router.PUT("/cart", h.UpdateCart)
	router.DELETE("/cart", h.ClearCart)
	router.DELETE("/cart/:productId", h.RemoveCartItem)
}
