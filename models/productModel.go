package models

import "github.com/shopspring/decimal"

// Product is read-only from the storefront's point of view. Admin edits
// diff it, so cleared fields must stay in its JSON form.
type Product struct {
	ID            ID              `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	CategoryID    ID              `json:"categoryId"`
	Image         string          `json:"image"`
}
