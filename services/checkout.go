package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/Kariqs/amexan-storefront/errs"
	"github.com/Kariqs/amexan-storefront/identity"
	"github.com/Kariqs/amexan-storefront/models"
)

const msgEmptyCart = "cart is empty"

type CheckoutResult struct {
	Order       models.Order      `json:"order"`
	Lines       []models.CartLine `json:"lines"`
	TotalAmount decimal.Decimal   `json:"totalAmount"`
	CartCleared bool              `json:"cartCleared"`
	// ClearError is set when the order was placed but the cart could not be
	// emptied afterwards.
	ClearError     string `json:"clearError,omitempty"`
	JournalEntryID string `json:"journalEntryId,omitempty"`
}

// BuyNowQuote is the price a buy-now screen shows. It is read once and
// submitted unchanged.
type BuyNowQuote struct {
	Product      models.Product  `json:"product"`
	Quantity     int             `json:"quantity"`
	PriceAtOrder decimal.Decimal `json:"priceAtOrder"`
	Total        decimal.Decimal `json:"total"`
}

type BuyNowResult struct {
	Item  models.OrderItem `json:"item"`
	Total decimal.Decimal  `json:"total"`
}

type CheckoutOption func(*models.OrderRequest)

func WithShippingAddress(address string) CheckoutOption {
	return func(r *models.OrderRequest) {
		r.ShippingAddress = strings.TrimSpace(address)
	}
}

type CheckoutService struct {
	carts    *CartService
	orders   OrderAPI
	catalog  CatalogAPI
	journal  Journal
	notifier Notifier
	log      *zap.Logger
}

// NewCheckoutService wires the orchestrator. journal and notifier may be nil.
func NewCheckoutService(carts *CartService, orders OrderAPI, catalog CatalogAPI, journal Journal, notifier Notifier, log *zap.Logger) *CheckoutService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CheckoutService{
		carts:    carts,
		orders:   orders,
		catalog:  catalog,
		journal:  journal,
		notifier: notifier,
		log:      log.Named("checkout"),
	}
}

// Checkout turns the user's cart into an order and then empties the cart.
// The order is created first; if that fails the cart is left untouched. A
// failure to clear the cart afterwards does not fail the checkout.
func (s *CheckoutService) Checkout(ctx context.Context, id identity.Identity, paymentMethod string, opts ...CheckoutOption) (CheckoutResult, error) {
	if err := id.Require(); err != nil {
		return CheckoutResult{}, err
	}
	paymentMethod = strings.TrimSpace(paymentMethod)
	if paymentMethod == "" {
		return CheckoutResult{}, errs.Validation("payment method is required")
	}

	// Prices must be complete, so lines are never omitted here.
	cart, err := s.carts.loadCart(ctx, id, MissingProductFail)
	if err != nil {
		return CheckoutResult{}, err
	}
	if cart.IsEmpty() {
		return CheckoutResult{}, errs.Validation(msgEmptyCart)
	}

	req := models.OrderRequest{
		OrderStatus:   models.OrderStatusProcessing,
		PaymentStatus: models.PaymentStatusPaid,
		PaymentMethod: paymentMethod,
	}
	for _, opt := range opts {
		opt(&req)
	}

	order, err := s.orders.CreateOrder(ctx, id, req)
	if err != nil {
		s.log.Error("order creation failed", zap.Stringer("user", id.UserID), zap.Error(err))
		return CheckoutResult{}, err
	}
	if order.TotalAmount.IsZero() {
		order.TotalAmount = cart.TotalAmount
	}

	result := CheckoutResult{
		Order:       order,
		Lines:       cart.Lines,
		TotalAmount: cart.TotalAmount,
		CartCleared: true,
	}

	if err := s.carts.ClearCart(ctx, id); err != nil {
		result.CartCleared = false
		result.ClearError = errs.Message(err)
		s.log.Warn("order placed but cart was not cleared",
			zap.Stringer("user", id.UserID),
			zap.Stringer("order", order.ID),
			zap.Error(err))
		result.JournalEntryID = s.recordUncleared(ctx, id, order, cart, err)
	}

	s.notify(ctx, id, order, cart.Lines)

	s.log.Info("checkout complete",
		zap.Stringer("user", id.UserID),
		zap.Stringer("order", order.ID),
		zap.String("total", result.TotalAmount.StringFixed(2)),
		zap.Bool("cartCleared", result.CartCleared))
	return result, nil
}

func (s *CheckoutService) recordUncleared(ctx context.Context, id identity.Identity, order models.Order, cart models.Cart, cause error) string {
	if s.journal == nil {
		return ""
	}

	snapshot, err := json.Marshal(cart.Lines)
	if err != nil {
		s.log.Error("encoding cart snapshot", zap.Error(err))
		snapshot = []byte("[]")
	}
	entry := &models.CheckoutJournalEntry{
		EntryID:      uuid.NewString(),
		UserID:       id.UserID.String(),
		OrderID:      order.ID.String(),
		Reason:       errs.Message(cause),
		CartSnapshot: datatypes.JSON(snapshot),
	}

	// The order already exists, so the record outlives a cancelled request.
	if err := s.journal.Record(context.WithoutCancel(ctx), entry); err != nil {
		s.log.Error("recording checkout journal entry failed",
			zap.Stringer("order", order.ID),
			zap.Error(err))
		return ""
	}
	return entry.EntryID
}

func (s *CheckoutService) notify(ctx context.Context, id identity.Identity, order models.Order, lines []models.CartLine) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.OrderPlaced(ctx, id, order, lines); err != nil {
		s.log.Warn("order confirmation not sent", zap.Stringer("order", order.ID), zap.Error(err))
	}
}

// PrepareBuyNow reads the product once and freezes its price for the
// buy-now screen.
func (s *CheckoutService) PrepareBuyNow(ctx context.Context, id identity.Identity, productID models.ID, quantity int) (BuyNowQuote, error) {
	if err := id.Require(); err != nil {
		return BuyNowQuote{}, err
	}
	if quantity < 1 {
		return BuyNowQuote{}, errs.Validation("quantity must be at least 1")
	}

	product, err := s.catalog.GetProduct(ctx, id, productID)
	if err != nil {
		return BuyNowQuote{}, err
	}
	return BuyNowQuote{
		Product:      product,
		Quantity:     quantity,
		PriceAtOrder: product.Price,
		Total:        lineTotal(product.Price, quantity),
	}, nil
}

// BuyNow places a single-item order at priceAtOrder without touching the
// cart. The price is never looked up again.
func (s *CheckoutService) BuyNow(ctx context.Context, id identity.Identity, productID models.ID, quantity int, priceAtOrder decimal.Decimal) (BuyNowResult, error) {
	if err := id.Require(); err != nil {
		return BuyNowResult{}, err
	}
	switch {
	case productID.IsZero():
		return BuyNowResult{}, errs.Validation("product id is required")
	case quantity < 1:
		return BuyNowResult{}, errs.Validation("quantity must be at least 1")
	case priceAtOrder.IsNegative():
		return BuyNowResult{}, errs.Validation("price must not be negative")
	}

	item, err := s.orders.CreateBuyNowOrder(ctx, id, models.BuyNowRequest{
		ProductID:    productID,
		Quantity:     quantity,
		PriceAtOrder: priceAtOrder,
	})
	if err != nil {
		s.log.Error("buy-now order failed",
			zap.Stringer("user", id.UserID),
			zap.Stringer("product", productID),
			zap.Error(err))
		return BuyNowResult{}, err
	}
	if item.ProductID.IsZero() {
		item.ProductID = productID
	}
	if item.Quantity == 0 {
		item.Quantity = quantity
	}
	if item.PriceAtOrder.IsZero() {
		item.PriceAtOrder = priceAtOrder
	}
	// The stored item is what the user is charged for.
	if !item.PriceAtOrder.Equal(priceAtOrder) || item.Quantity != quantity {
		s.log.Warn("backend stored a different buy-now item",
			zap.Stringer("order", item.OrderID),
			zap.String("price", priceAtOrder.StringFixed(2)),
			zap.String("storedPrice", item.PriceAtOrder.StringFixed(2)),
			zap.Int("quantity", quantity),
			zap.Int("storedQuantity", item.Quantity))
	}

	return BuyNowResult{Item: item, Total: lineTotal(item.PriceAtOrder, item.Quantity)}, nil
}

func lineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
