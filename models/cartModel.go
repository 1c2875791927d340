package models

import "github.com/shopspring/decimal"

type CartEntry struct {
	UserID    ID  `json:"userId,omitempty"`
	ProductID ID  `json:"productId"`
	Quantity  int `json:"quantity"`
}

// CartLine is a cart entry joined to the product it references.
type CartLine struct {
	ProductID ID              `json:"productId"`
	Quantity  int             `json:"quantity"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type Cart struct {
	UserID      ID              `json:"userId"`
	Lines       []CartLine      `json:"lines"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ItemCount is the sum of quantities, used for the cart badge.
func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// CartUpdate is the body of PUT /cart/{userId}. Quantity is a delta.
type CartUpdate struct {
	ProductID ID  `json:"productId" binding:"required"`
	Quantity  int `json:"quantity" binding:"required"`
}

// CartMutation describes the outcome of a quantity change.
type CartMutation struct {
	ProductID        ID   `json:"productId"`
	PreviousQuantity int  `json:"previousQuantity"`
	Quantity         int  `json:"quantity"`
	Removed          bool `json:"removed"`
}
