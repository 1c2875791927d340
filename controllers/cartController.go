package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kariqs/amexan-storefront/models"
)

func (h *Handler) GetCart(ctx *gin.Context) {
	cart, err := h.Carts.GetCart(ctx.Request.Context(), currentIdentity(ctx))
	if err != nil {
		h.fail(ctx, msgFailedToLoadCart, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"cart":      cart,
		"itemCount": cart.ItemCount(),
	})
}

// UpdateCart applies the body's quantity as a change to the current quantity.
func (h *Handler) UpdateCart(ctx *gin.Context) {
	var update models.CartUpdate
	if err := ctx.ShouldBindJSON(&update); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}

	mutation, err := h.Carts.AddOrUpdateItem(ctx.Request.Context(), currentIdentity(ctx), update.ProductID, update.Quantity)
	if err != nil {
		h.fail(ctx, msgFailedToSaveCart, err)
		return
	}

	message := "Cart item quantity updated"
	if mutation.Removed {
		message = "Item removed from cart"
	} else if mutation.PreviousQuantity == 0 {
		message = "Item added to cart"
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": message,
		"item":    mutation,
	})
}

func (h *Handler) RemoveCartItem(ctx *gin.Context) {
	mutation, err := h.Carts.RemoveItem(ctx.Request.Context(), currentIdentity(ctx), models.ID(ctx.Param("productId")))
	if err != nil {
		h.fail(ctx, msgFailedToSaveCart, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Item removed from cart",
		"item":    mutation,
	})
}

func (h *Handler) ClearCart(ctx *gin.Context) {
	if err := h.Carts.ClearCart(ctx.Request.Context(), currentIdentity(ctx)); err != nil {
		h.fail(ctx, msgFailedToClearCart, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart cleared"})
}
