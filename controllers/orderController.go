package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Kariqs/amexan-storefront/errs"
	"github.com/Kariqs/amexan-storefront/models"
	"github.com/Kariqs/amexan-storefront/services"
)

// buyNowRequest keeps the price as a pointer so a missing snapshot is told
// apart from a zero one.
type buyNowRequest struct {
	ProductID    models.ID        `json:"productId" binding:"required"`
	Quantity     int              `json:"quantity" binding:"required"`
	PriceAtOrder *decimal.Decimal `json:"priceAtOrder"`
}

type checkoutRequest struct {
	PaymentMethod   string `json:"paymentMethod"`
	ShippingAddress string `json:"shippingAddress"`
}

func (h *Handler) Checkout(ctx *gin.Context) {
	var req checkoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}

	result, err := h.Orders.Checkout(ctx.Request.Context(), currentIdentity(ctx), req.PaymentMethod,
		services.WithShippingAddress(req.ShippingAddress))
	if err != nil {
		h.fail(ctx, msgFailedToCheckout, err)
		return
	}

	message := "Order placed successfully"
	if !result.CartCleared {
		message = "Order placed, but the cart could not be cleared"
	}
	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message":  message,
		"checkout": result,
	})
}

// PrepareBuyNow quotes a single product. The quoted price is what BuyNow
// must be called with.
func (h *Handler) PrepareBuyNow(ctx *gin.Context) {
	quantity, err := strconv.Atoi(ctx.DefaultQuery("quantity", "1"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse quantity")
		return
	}

	quote, err := h.Orders.PrepareBuyNow(ctx.Request.Context(), currentIdentity(ctx), models.ID(ctx.Param("productId")), quantity)
	if err != nil {
		h.fail(ctx, "Unable to fetch product", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"quote": quote})
}

func (h *Handler) BuyNow(ctx *gin.Context) {
	var req buyNowRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}
	if req.PriceAtOrder == nil {
		h.fail(ctx, msgInvalidInput, errs.Validation("priceAtOrder is required"))
		return
	}

	result, err := h.Orders.BuyNow(ctx.Request.Context(), currentIdentity(ctx), req.ProductID, req.Quantity, *req.PriceAtOrder)
	if err != nil {
		h.fail(ctx, msgFailedToCheckout, err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   result,
	})
}

func (h *Handler) GetOrders(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", strconv.Itoa(services.DefaultPage)))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(services.DefaultPageLimit)))

	result, err := h.History.ListOrders(ctx.Request.Context(), currentIdentity(ctx), models.PageRequest{Page: page, Limit: limit})
	if err != nil {
		h.fail(ctx, msgFailedToLoadOrder, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"orders": result.Rows,
		"metadata": gin.H{
			"total":       result.Count,
			"currentPage": result.Page,
			"limit":       result.Limit,
			"hasPrevPage": result.Page > 1,
			"hasNextPage": result.HasNextPage(),
		},
	})
}

func (h *Handler) GetOrderItems(ctx *gin.Context) {
	items, err := h.History.GetOrderItems(ctx.Request.Context(), currentIdentity(ctx), models.ID(ctx.Param("orderId")))
	if err != nil {
		h.fail(ctx, "Failed to fetch order items", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"items": items,
		"total": services.OrderItemsTotal(items),
	})
}
