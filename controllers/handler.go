package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kariqs/amexan-storefront/errs"
	"github.com/Kariqs/amexan-storefront/identity"
	"github.com/Kariqs/amexan-storefront/middlewares"
	"github.com/Kariqs/amexan-storefront/models"
	"github.com/Kariqs/amexan-storefront/services"
)

const (
	msgInvalidInput      = "Invalid request body"
	msgJournalDisabled   = "Checkout journal is disabled"
	msgFailedToLoadCart  = "Failed to fetch cart"
	msgFailedToSaveCart  = "Unable to update cart"
	msgFailedToClearCart = "Unable to clear cart"
	msgFailedToCheckout  = "Failed to create order"
	msgFailedToLoadOrder = "Failed to fetch orders"
)

// JournalStore is the part of the checkout journal exposed to admins.
type JournalStore interface {
	Unresolved(ctx context.Context, userID string) ([]models.CheckoutJournalEntry, error)
	Resolve(ctx context.Context, entryID string) (models.CheckoutJournalEntry, error)
}

// Handler serves the storefront routes. Journal may be nil.
type Handler struct {
	Carts   *services.CartService
	Orders  *services.CheckoutService
	History *services.HistoryService
	Admin   *services.AdminService
	Catalog services.CatalogAPI
	Journal JournalStore
	Log     *zap.Logger
}

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

func respondWithError(ctx *gin.Context, statusCode int, message string, err error) {
	errMsg := ""
	if err != nil {
		errMsg = errs.Message(err)
	}
	ctx.JSON(statusCode, gin.H{
		"message": message,
		"error":   errMsg,
	})
}

// fail answers with the status that matches err's kind.
func (h *Handler) fail(ctx *gin.Context, message string, err error) {
	log := h.Log
	if log == nil {
		log = zap.NewNop()
	}
	status := errs.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error(message, zap.String("path", ctx.FullPath()), zap.Error(err))
	} else {
		log.Debug(message, zap.String("path", ctx.FullPath()), zap.Error(err))
	}
	respondWithError(ctx, status, message, err)
}

func currentIdentity(ctx *gin.Context) identity.Identity {
	id, _ := middlewares.CurrentIdentity(ctx)
	return id
}
