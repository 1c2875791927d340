package routes

import (
	"github.com/Kariqs/amexan-storefront/controllers"
	"github.com/gin-gonic/gin"
)

func ProductRoutes(router *gin.RouterGroup, h *controllers.Handler) {
	router.GET("/product/:id", h.GetProduct)
}
