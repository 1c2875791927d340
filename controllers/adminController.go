package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Kariqs/amexan-storefront/identity"
	"github.com/Kariqs/amexan-storefront/models"
)

type updateRequest[T any] struct {
	Before T `json:"before"`
	After  T `json:"after"`
}

func updateResource[T any](h *Handler, ctx *gin.Context, name string, update func(context.Context, identity.Identity, models.ID, T, T) (bool, error)) {
	var req updateRequest[T]
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}

	changed, err := update(ctx.Request.Context(), currentIdentity(ctx), models.ID(ctx.Param("id")), req.Before, req.After)
	if err != nil {
		h.fail(ctx, "Failed to update "+strings.ToLower(name), err)
		return
	}

	message := "Nothing to update"
	if changed {
		message = name + " updated successfully"
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": message,
		"updated": changed,
	})
}

func (h *Handler) UpdateCategory(ctx *gin.Context) {
	updateResource(h, ctx, "Category", h.Admin.UpdateCategory)
}

func (h *Handler) UpdateProduct(ctx *gin.Context) {
	updateResource(h, ctx, "Product", h.Admin.UpdateProduct)
}

func (h *Handler) UpdateUser(ctx *gin.Context) {
	updateResource(h, ctx, "User", h.Admin.UpdateUser)
}

func (h *Handler) GetCheckoutJournal(ctx *gin.Context) {
	if h.Journal == nil {
		sendErrorResponse(ctx, http.StatusServiceUnavailable, msgJournalDisabled)
		return
	}

	entries, err := h.Journal.Unresolved(ctx.Request.Context(), ctx.Query("userId"))
	if err != nil {
		h.fail(ctx, "Unable to fetch checkout journal", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"entries": entries})
}

func (h *Handler) ResolveCheckoutJournalEntry(ctx *gin.Context) {
	if h.Journal == nil {
		sendErrorResponse(ctx, http.StatusServiceUnavailable, msgJournalDisabled)
		return
	}

	entry, err := h.Journal.Resolve(ctx.Request.Context(), ctx.Param("entryId"))
	if err != nil {
		h.fail(ctx, "Unable to resolve checkout journal entry", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Journal entry resolved",
		"entry":   entry,
	})
}
