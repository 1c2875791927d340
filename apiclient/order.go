package apiclient

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Kariqs/amexan-storefront/identity"
	"github.com/Kariqs/amexan-storefront/models"
)

func (c *Client) CreateOrder(ctx context.Context, id identity.Identity, order models.OrderRequest) (models.Order, error) {
	req, err := c.request(ctx, id)
	if err != nil {
		return models.Order{}, err
	}

	var created models.Order
	req.SetPathParam("userId", id.UserID.String()).SetBody(order).SetResult(&created)
	if err := c.execute(req, http.MethodPost, "/order/{userId}"); err != nil {
		return models.Order{}, err
	}
	return created, nil
}

// CreateBuyNowOrder places a single-item order without touching the cart.
func (c *Client) CreateBuyNowOrder(ctx context.Context, id identity.Identity, item models.BuyNowRequest) (models.OrderItem, error) {
	req, err := c.request(ctx, id)
	if err != nil {
		return models.OrderItem{}, err
	}

	var created models.OrderItem
	req.SetPathParam("userId", id.UserID.String()).SetBody(item).SetResult(&created)
	if err := c.execute(req, http.MethodPost, "/order-item/{userId}"); err != nil {
		return models.OrderItem{}, err
	}
	return created, nil
}

func (c *Client) ListOrders(ctx context.Context, id identity.Identity, page models.PageRequest) (models.OrderPage, error) {
	req, err := c.request(ctx, id)
	if err != nil {
		return models.OrderPage{}, err
	}

	var result models.OrderPage
	req.SetPathParam("userId", id.UserID.String()).SetResult(&result)
	if page.Page > 0 {
		req.SetQueryParam("page", strconv.Itoa(page.Page))
	}
	if page.Limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(page.Limit))
	}
	if err := c.execute(req, http.MethodGet, "/order/{userId}"); err != nil {
		return models.OrderPage{}, err
	}
	result.Page = page.Page
	result.Limit = page.Limit
	return result, nil
}

func (c *Client) GetOrderItems(ctx context.Context, id identity.Identity, orderID models.ID) ([]models.OrderItem, error) {
	req, err := c.request(ctx, id)
	if err != nil {
		return nil, err
	}

	var items []models.OrderItem
	req.SetPathParam("orderId", orderID.String()).SetResult(&items)
	if err := c.execute(req, http.MethodGet, "/order-item/{orderId}"); err != nil {
		return nil, err
	}
	return items, nil
}
