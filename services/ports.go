package services

import (
	"context"

	"github.com/Kariqs/amexan-storefront/identity"
	"github.com/Kariqs/amexan-storefront/models"
)

// CartAPI is the remote cart resource. apiclient.Client satisfies it.
type CartAPI interface {
	GetCart(ctx context.Context, id identity.Identity) ([]models.CartEntry, error)
	UpdateCart(ctx context.Context, id identity.Identity, update models.CartUpdate) error
	ClearCart(ctx context.Context, id identity.Identity) error
}

type CatalogAPI interface {
	GetProduct(ctx context.Context, id identity.Identity, productID models.ID) (models.Product, error)
}

type OrderAPI interface {
	CreateOrder(ctx context.Context, id identity.Identity, order models.OrderRequest) (models.Order, error)
	CreateBuyNowOrder(ctx context.Context, id identity.Identity, item models.BuyNowRequest) (models.OrderItem, error)
	ListOrders(ctx context.Context, id identity.Identity, page models.PageRequest) (models.OrderPage, error)
	GetOrderItems(ctx context.Context, id identity.Identity, orderID models.ID) ([]models.OrderItem, error)
}

type PatchAPI interface {
	Patch(ctx context.Context, id identity.Identity, resource string, resourceID models.ID, patch models.Patch) error
}

// Journal keeps orders whose cart could not be cleared after checkout.
type Journal interface {
	Record(ctx context.Context, entry *models.CheckoutJournalEntry) error
}

// Notifier sends the order confirmation. Failures never undo an order.
type Notifier interface {
	OrderPlaced(ctx context.Context, id identity.Identity, order models.Order, lines []models.CartLine) error
}
