package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Kariqs/amexan-storefront/errs"
	"github.com/Kariqs/amexan-storefront/identity"
	"github.com/Kariqs/amexan-storefront/models"
)

type patchCall struct {
	Resource string
	ID       models.ID
	Patch    models.Patch
}

// fakeBackend implements every port in memory and records the calls made
// against it.
type fakeBackend struct {
	mu sync.Mutex

	carts    map[models.ID][]models.CartEntry
	products map[models.ID]models.Product
	items    map[models.ID][]models.OrderItem

	orderRequests  []models.OrderRequest
	buyNowRequests []models.BuyNowRequest
	updates        []models.CartUpdate
	patches        []patchCall
	calls          []string
	lookups        int
	listedPage     models.PageRequest
	orderPage      models.OrderPage

	// storedPrice, when set, replaces the price the buy-now endpoint keeps.
	storedPrice string

	productErrs    map[models.ID]error
	createOrderErr error
	clearCartErr   error
	getCartErr     error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		carts:       map[models.ID][]models.CartEntry{},
		products:    map[models.ID]models.Product{},
		items:       map[models.ID][]models.OrderItem{},
		productErrs: map[models.ID]error{},
	}
}

func (f *fakeBackend) addProduct(id models.ID, name, price string) {
	f.products[id] = models.Product{ID: id, Name: name, Price: decimal.RequireFromString(price)}
}

func (f *fakeBackend) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) GetCart(_ context.Context, id identity.Identity) ([]models.CartEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("get-cart")
	if f.getCartErr != nil {
		return nil, f.getCartErr
	}
	entries, ok := f.carts[id.UserID]
	if !ok {
		return nil, errs.NotFound("cart not found")
	}
	out := make([]models.CartEntry, len(entries))
	copy(out, entries)
	return out, nil
}

// UpdateCart behaves like the backend: the quantity is a delta and an entry
// that reaches zero is dropped.
func (f *fakeBackend) UpdateCart(_ context.Context, id identity.Identity, update models.CartUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("update-cart")
	f.updates = append(f.updates, update)

	entries := f.carts[id.UserID]
	for i, e := range entries {
		if e.ProductID != update.ProductID {
			continue
		}
		e.Quantity += update.Quantity
		if e.Quantity <= 0 {
			f.carts[id.UserID] = append(entries[:i], entries[i+1:]...)
		} else {
			entries[i] = e
		}
		return nil
	}
	if update.Quantity <= 0 {
		return errs.NotFound("cart item not found")
	}
	f.carts[id.UserID] = append(entries, models.CartEntry{UserID: id.UserID, ProductID: update.ProductID, Quantity: update.Quantity})
	return nil
}

func (f *fakeBackend) ClearCart(_ context.Context, id identity.Identity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("clear-cart")
	if f.clearCartErr != nil {
		return f.clearCartErr
	}
	if _, ok := f.carts[id.UserID]; !ok {
		return errs.NotFound("cart not found")
	}
	delete(f.carts, id.UserID)
	return nil
}

func (f *fakeBackend) GetProduct(_ context.Context, _ identity.Identity, productID models.ID) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if err := f.productErrs[productID]; err != nil {
		return models.Product{}, err
	}
	p, ok := f.products[productID]
	if !ok {
		return models.Product{}, errs.NotFound("product not found")
	}
	return p, nil
}

func (f *fakeBackend) CreateOrder(_ context.Context, id identity.Identity, order models.OrderRequest) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create-order")
	if f.createOrderErr != nil {
		return models.Order{}, f.createOrderErr
	}
	f.orderRequests = append(f.orderRequests, order)
	return models.Order{
		ID:              models.ID(fmt.Sprint(len(f.orderRequests))),
		UserID:          id.UserID,
		OrderStatus:     order.OrderStatus,
		PaymentStatus:   order.PaymentStatus,
		PaymentMethod:   order.PaymentMethod,
		ShippingAddress: order.ShippingAddress,
	}, nil
}

func (f *fakeBackend) CreateBuyNowOrder(_ context.Context, _ identity.Identity, item models.BuyNowRequest) (models.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("buy-now")
	if f.createOrderErr != nil {
		return models.OrderItem{}, f.createOrderErr
	}
	f.buyNowRequests = append(f.buyNowRequests, item)
	price := item.PriceAtOrder
	if f.storedPrice != "" {
		price = decimal.RequireFromString(f.storedPrice)
	}
	return models.OrderItem{
		ID:           "1",
		OrderID:      "500",
		ProductID:    item.ProductID,
		Quantity:     item.Quantity,
		PriceAtOrder: price,
	}, nil
}

func (f *fakeBackend) ListOrders(_ context.Context, _ identity.Identity, page models.PageRequest) (models.OrderPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listedPage = page
	return f.orderPage, nil
}

func (f *fakeBackend) GetOrderItems(_ context.Context, _ identity.Identity, orderID models.ID) ([]models.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, ok := f.items[orderID]
	if !ok {
		return nil, errs.NotFound("order not found")
	}
	return items, nil
}

func (f *fakeBackend) Patch(_ context.Context, _ identity.Identity, resource string, resourceID models.ID, patch models.Patch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, patchCall{Resource: resource, ID: resourceID, Patch: patch})
	return nil
}

type memoryJournal struct {
	entries []*models.CheckoutJournalEntry
	err     error
}

func (j *memoryJournal) Record(_ context.Context, entry *models.CheckoutJournalEntry) error {
	if j.err != nil {
		return j.err
	}
	j.entries = append(j.entries, entry)
	return nil
}

type recordingNotifier struct {
	orders []models.Order
	err    error
}

func (n *recordingNotifier) OrderPlaced(_ context.Context, _ identity.Identity, order models.Order, _ []models.CartLine) error {
	n.orders = append(n.orders, order)
	return n.err
}

func shopper() identity.Identity {
	return identity.Identity{UserID: "42", Token: "token"}
}

func admin() identity.Identity {
	return identity.Identity{UserID: "1", Token: "token", IsAdmin: true}
}
