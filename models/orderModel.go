package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusProcessing = "Processing"
	PaymentStatusPaid     = "Paid"
	PaymentMethodCard     = "Credit Card"
)

type Order struct {
	ID              ID              `json:"id"`
	UserID          ID              `json:"userId"`
	OrderStatus     string          `json:"orderStatus"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PaymentStatus   string          `json:"paymentStatus"`
	PaymentMethod   string          `json:"paymentMethod"`
	ShippingAddress string          `json:"shippingAddress,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// OrderItem carries PriceAtOrder, the price snapshot taken when the order was placed.
type OrderItem struct {
	ID           ID              `json:"id"`
	OrderID      ID              `json:"orderId"`
	ProductID    ID              `json:"productId"`
	Name         string          `json:"name,omitempty"`
	Quantity     int             `json:"quantity"`
	PriceAtOrder decimal.Decimal `json:"priceAtOrder"`
}

// OrderItemView is an order item ready for display.
type OrderItemView struct {
	OrderItem
	ProductName string          `json:"productName"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

type OrderRequest struct {
	OrderStatus     string `json:"orderStatus"`
	PaymentStatus   string `json:"paymentStatus"`
	PaymentMethod   string `json:"paymentMethod"`
	ShippingAddress string `json:"shippingAddress,omitempty"`
}

type BuyNowRequest struct {
	ProductID    ID              `json:"productId"`
	Quantity     int             `json:"quantity"`
	PriceAtOrder decimal.Decimal `json:"priceAtOrder"`
}

// OrderPage mirrors the backend's {count, rows} listing.
type OrderPage struct {
	Count int     `json:"count"`
	Rows  []Order `json:"rows"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}

func (p OrderPage) HasNextPage() bool {
	return p.Limit > 0 && p.Page*p.Limit < p.Count
}

type PageRequest struct {
	Page  int
	Limit int
}
