package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Kariqs/amexan-storefront/errs"
	"github.com/Kariqs/amexan-storefront/identity"
	"github.com/Kariqs/amexan-storefront/models"
)

// OrderItemNamePolicy picks the product name shown next to a past order item.
type OrderItemNamePolicy string

const (
	// OrderItemNameLive shows the current catalog name.
	OrderItemNameLive OrderItemNamePolicy = "live"
	// OrderItemNameSnapshot shows the name stored on the item, falling back
	// to the catalog when the item carries none.
	OrderItemNameSnapshot OrderItemNamePolicy = "snapshot"
)

const (
	DefaultPage      = 1
	DefaultPageLimit = 15
	MaxPageLimit     = 100
)

func ParseOrderItemNamePolicy(s string) (OrderItemNamePolicy, error) {
	switch OrderItemNamePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderItemNameLive:
		return OrderItemNameLive, nil
	case OrderItemNameSnapshot:
		return OrderItemNameSnapshot, nil
	}
	return "", fmt.Errorf("unknown order item name policy %q", s)
}

type HistoryOptions struct {
	NamePolicy        OrderItemNamePolicy
	LookupConcurrency int
}

type HistoryService struct {
	orders      OrderAPI
	catalog     CatalogAPI
	names       OrderItemNamePolicy
	concurrency int
	log         *zap.Logger
}

func NewHistoryService(orders OrderAPI, catalog CatalogAPI, opts HistoryOptions, log *zap.Logger) *HistoryService {
	if opts.NamePolicy == "" {
		opts.NamePolicy = OrderItemNameLive
	}
	if opts.LookupConcurrency <= 0 {
		opts.LookupConcurrency = DefaultLookupConcurrency
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &HistoryService{
		orders:      orders,
		catalog:     catalog,
		names:       opts.NamePolicy,
		concurrency: opts.LookupConcurrency,
		log:         log.Named("history"),
	}
}

func (s *HistoryService) ListOrders(ctx context.Context, id identity.Identity, page models.PageRequest) (models.OrderPage, error) {
	if err := id.Require(); err != nil {
		return models.OrderPage{}, err
	}
	page = normalizePage(page)

	result, err := s.orders.ListOrders(ctx, id, page)
	if err != nil {
		return models.OrderPage{}, err
	}
	if result.Rows == nil {
		result.Rows = []models.Order{}
	}
	result.Page = page.Page
	result.Limit = page.Limit
	return result, nil
}

func normalizePage(p models.PageRequest) models.PageRequest {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// GetOrderItems returns the items of an order with a display name and line
// total. PriceAtOrder is passed through as stored.
func (s *HistoryService) GetOrderItems(ctx context.Context, id identity.Identity, orderID models.ID) ([]models.OrderItemView, error) {
	if err := id.Require(); err != nil {
		return nil, err
	}
	if orderID.IsZero() {
		return nil, errs.Validation("order id is required")
	}

	items, err := s.orders.GetOrderItems(ctx, id, orderID)
	if err != nil {
		return nil, err
	}

	views := make([]models.OrderItemView, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, item := range items {
		views[i] = models.OrderItemView{
			OrderItem: item,
			LineTotal: lineTotal(item.PriceAtOrder, item.Quantity),
		}
		if s.names == OrderItemNameSnapshot && strings.TrimSpace(item.Name) != "" {
			views[i].ProductName = item.Name
			continue
		}
		g.Go(func() error {
			product, err := s.catalog.GetProduct(gctx, id, item.ProductID)
			if err != nil {
				return errs.Fetch(fmt.Sprintf("product %s of order %s", item.ProductID, orderID), err)
			}
			views[i].ProductName = product.Name
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Warn("order items lookup failed", zap.Stringer("order", orderID), zap.Error(err))
		return nil, err
	}
	return views, nil
}

// OrderItemsTotal sums the line totals of an order's items.
func OrderItemsTotal(items []models.OrderItemView) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.PriceAtOrder.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.Round(2)
}
