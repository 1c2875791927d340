package routes

import (
	"github.com/Kariqs/amexan-storefront/controllers"
	"github.com/Kariqs/amexan-storefront/middlewares"
	"github.com/gin-gonic/gin"
)

func AdminRoutes(router *gin.RouterGroup, h *controllers.Handler) {
	admin := router.Group("/admin", middlewares.RequireAdmin())
	admin.PUT("/category/:id", h.UpdateCategory)
	admin.PUT("/product/:id", h.UpdateProduct)
	admin.PUT("/user/:id", h.UpdateUser)
	admin.GET("/checkout-journal", h.GetCheckoutJournal)
	admin.POST("/checkout-journal/:entryId/resolve", h.ResolveCheckoutJournalEntry)
}
