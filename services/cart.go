package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Kariqs/amexan-storefront/errs"
	"github.com/Kariqs/amexan-storefront/identity"
	"github.com/Kariqs/amexan-storefront/models"
)

// MissingProductPolicy decides what GetCart does with an entry whose
// product no longer resolves.
type MissingProductPolicy string

const (
	MissingProductFail MissingProductPolicy = "fail"
	MissingProductOmit MissingProductPolicy = "omit"

	DefaultLookupConcurrency = 8
)

func ParseMissingProductPolicy(s string) (MissingProductPolicy, error) {
	switch MissingProductPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", MissingProductFail:
		return MissingProductFail, nil
	case MissingProductOmit:
		return MissingProductOmit, nil
	}
	return "", fmt.Errorf("unknown missing product policy %q", s)
}

type CartOptions struct {
	MissingProduct    MissingProductPolicy
	LookupConcurrency int
}

type CartService struct {
	carts       CartAPI
	catalog     CatalogAPI
	policy      MissingProductPolicy
	concurrency int
	log         *zap.Logger
}

func NewCartService(carts CartAPI, catalog CatalogAPI, opts CartOptions, log *zap.Logger) *CartService {
	if opts.MissingProduct == "" {
		opts.MissingProduct = MissingProductFail
	}
	if opts.LookupConcurrency <= 0 {
		opts.LookupConcurrency = DefaultLookupConcurrency
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CartService{
		carts:       carts,
		catalog:     catalog,
		policy:      opts.MissingProduct,
		concurrency: opts.LookupConcurrency,
		log:         log.Named("cart"),
	}
}

// AddOrUpdateItem applies delta to the quantity of productID in the user's
// cart. A change that would leave the quantity at or below zero removes the
// entry instead.
func (s *CartService) AddOrUpdateItem(ctx context.Context, id identity.Identity, productID models.ID, delta int) (models.CartMutation, error) {
	if delta == 0 {
		return models.CartMutation{}, errs.Validation("quantity change must not be zero")
	}
	return s.mutate(ctx, id, productID, func(previous int) (int, error) {
		if previous == 0 && delta < 0 {
			return 0, errs.Validationf("product %s is not in the cart", productID)
		}
		return delta, nil
	})
}

func (s *CartService) Increment(ctx context.Context, id identity.Identity, productID models.ID) (models.CartMutation, error) {
	return s.AddOrUpdateItem(ctx, id, productID, 1)
}

// Decrement lowers the quantity by one. At quantity 1 the entry is removed.
func (s *CartService) Decrement(ctx context.Context, id identity.Identity, productID models.ID) (models.CartMutation, error) {
	return s.AddOrUpdateItem(ctx, id, productID, -1)
}

func (s *CartService) RemoveItem(ctx context.Context, id identity.Identity, productID models.ID) (models.CartMutation, error) {
	return s.mutate(ctx, id, productID, func(previous int) (int, error) {
		if previous == 0 {
			return 0, errs.NotFound(fmt.Sprintf("product %s is not in the cart", productID))
		}
		return -previous, nil
	})
}

func (s *CartService) mutate(ctx context.Context, id identity.Identity, productID models.ID, deltaFor func(previous int) (int, error)) (models.CartMutation, error) {
	if err := id.Require(); err != nil {
		return models.CartMutation{}, err
	}
	if productID.IsZero() {
		return models.CartMutation{}, errs.Validation("product id is required")
	}

	entries, err := s.entries(ctx, id)
	if err != nil {
		return models.CartMutation{}, err
	}
	previous := quantityOf(entries, productID)

	delta, err := deltaFor(previous)
	if err != nil {
		return models.CartMutation{}, err
	}

	mutation := models.CartMutation{ProductID: productID, PreviousQuantity: previous}
	if previous+delta <= 0 {
		delta = -previous
		mutation.Removed = true
	} else {
		mutation.Quantity = previous + delta
	}

	if err := s.carts.UpdateCart(ctx, id, models.CartUpdate{ProductID: productID, Quantity: delta}); err != nil {
		return models.CartMutation{}, err
	}

	s.log.Debug("cart updated",
		zap.Stringer("user", id.UserID),
		zap.Stringer("product", productID),
		zap.Int("previous", previous),
		zap.Int("quantity", mutation.Quantity),
		zap.Bool("removed", mutation.Removed))
	return mutation, nil
}

// GetCart reads the remote cart and joins every entry to its product.
func (s *CartService) GetCart(ctx context.Context, id identity.Identity) (models.Cart, error) {
	return s.loadCart(ctx, id, s.policy)
}

func (s *CartService) loadCart(ctx context.Context, id identity.Identity, policy MissingProductPolicy) (models.Cart, error) {
	if err := id.Require(); err != nil {
		return models.Cart{}, err
	}

	entries, err := s.entries(ctx, id)
	if err != nil {
		return models.Cart{}, err
	}
	entries = coalesce(entries)

	lines := make([]models.CartLine, len(entries))
	found := make([]bool, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, entry := range entries {
		g.Go(func() error {
			product, err := s.catalog.GetProduct(gctx, id, entry.ProductID)
			if err != nil {
				if policy == MissingProductOmit && errors.Is(err, errs.ErrNotFound) {
					s.log.Warn("omitting cart entry with missing product",
						zap.Stringer("user", id.UserID),
						zap.Stringer("product", entry.ProductID),
						zap.Error(err))
					return nil
				}
				return errs.Fetch(fmt.Sprintf("product %s", entry.ProductID), err)
			}
			lines[i] = newCartLine(entry, product)
			found[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.Cart{}, err
	}

	cart := models.Cart{UserID: id.UserID, Lines: make([]models.CartLine, 0, len(lines))}
	total := decimal.Zero
	for i, line := range lines {
		if !found[i] {
			continue
		}
		cart.Lines = append(cart.Lines, line)
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	cart.TotalAmount = total.Round(2)
	return cart, nil
}

// entries reads the raw cart rows. The backend answers 404 for a user with
// no cart yet or one that was just cleared, which is an empty cart.
func (s *CartService) entries(ctx context.Context, id identity.Identity) ([]models.CartEntry, error) {
	entries, err := s.carts.GetCart(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		s.log.Debug("no cart on backend", zap.Stringer("user", id.UserID))
		return nil, nil
	}
	return entries, err
}

// ClearCart empties the user's cart. Clearing a cart the backend no longer
// knows about counts as success.
func (s *CartService) ClearCart(ctx context.Context, id identity.Identity) error {
	if err := id.Require(); err != nil {
		return err
	}
	if err := s.carts.ClearCart(ctx, id); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

func newCartLine(entry models.CartEntry, product models.Product) models.CartLine {
	return models.CartLine{
		ProductID: entry.ProductID,
		Quantity:  entry.Quantity,
		Name:      product.Name,
		Price:     product.Price,
		Image:     product.Image,
		LineTotal: lineTotal(product.Price, entry.Quantity),
	}
}

// coalesce merges duplicate product rows and drops rows below quantity 1,
// keeping the order in which products first appear.
func coalesce(entries []models.CartEntry) []models.CartEntry {
	out := make([]models.CartEntry, 0, len(entries))
	index := make(map[models.ID]int, len(entries))
	for _, e := range entries {
		if e.ProductID.IsZero() || e.Quantity < 1 {
			continue
		}
		if i, ok := index[e.ProductID]; ok {
			out[i].Quantity += e.Quantity
			continue
		}
		index[e.ProductID] = len(out)
		out = append(out, e)
	}
	return out
}

func quantityOf(entries []models.CartEntry, productID models.ID) int {
	for _, e := range coalesce(entries) {
		if e.ProductID == productID {
			return e.Quantity
		}
	}
	return 0
}
