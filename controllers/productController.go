package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kariqs/amexan-storefront/models"
)

// GetProduct passes a catalog lookup through to the backend.
func (h *Handler) GetProduct(ctx *gin.Context) {
	product, err := h.Catalog.GetProduct(ctx.Request.Context(), currentIdentity(ctx), models.ID(ctx.Param("id")))
	if err != nil {
		h.fail(ctx, "Unable to fetch product", err)
		return
	}

	ctx.JSON(http.StatusOK, product)
}
