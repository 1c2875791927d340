package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Amexan storefront ❤️. Every route below except this one and /healthz needs a bearer credential.

CART
- GET "/cart" - Get the cart with product details and total
- PUT "/cart" - Change an item's quantity by {productId, quantity}
- DELETE "/cart/:productId" - Remove an item
- DELETE "/cart" - Clear the cart

ORDER
- POST "/checkout" - Place an order from the cart
- GET "/buy-now/:productId?quantity=" - Quote a single product
- POST "/buy-now" - Order a single product at the quoted price
- GET "/orders?page=&limit=" - List your orders
- GET "/orders/:orderId/items" - Get the items of an order

PRODUCT
- GET "/product/:id" - Get product by ID

ADMIN
- PUT "/admin/category/:id" - Update a category from {before, after}
- PUT "/admin/product/:id" - Update a product from {before, after}
- PUT "/admin/user/:id" - Update a user from {before, after}
- GET "/admin/checkout-journal" - Orders whose cart was not cleared
- POST "/admin/checkout-journal/:entryId/resolve" - Mark a journal entry as handled`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}

func Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
