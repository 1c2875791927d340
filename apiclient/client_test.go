package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kariqs/amexan-storefront/errs"
	"github.com/Kariqs/amexan-storefront/identity"
	"github.com/Kariqs/amexan-storefront/models"
)

type recordedPatch struct {
	Resource string
	ID       string
	Body     map[string]any
}

// fakeBackend is an in-memory stand-in for the REST collaborator.
type fakeBackend struct {
	mu       sync.Mutex
	requests int
	lastAuth string
	carts    map[string][]models.CartEntry
	products map[string]models.Product
	orders   map[string][]models.Order
	items    map[string][]models.OrderItem
	patches  []recordedPatch
	lastPage string
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &fakeBackend{
		carts:    map[string][]models.CartEntry{},
		products: map[string]models.Product{},
		orders:   map[string][]models.Order{},
		items:    map[string][]models.OrderItem{},
	}

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(b.requireAuth)
	{
		api.GET("/cart/:userId", b.getCart)
		api.PUT("/cart/:userId", b.updateCart)
		api.DELETE("/cart/:userId", b.clearCart)
		api.GET("/product/:id", b.getProduct)
		api.POST("/order/:userId", b.createOrder)
		api.GET("/order/:userId", b.listOrders)
		api.POST("/order-item/:userId", b.buyNow)
		api.GET("/order-item/:orderId", b.orderItems)
		api.PUT("/category/:id", b.patch("category"))
		api.PUT("/product/:id", b.patch("product"))
		api.PUT("/user/:id", b.patch("user"))
	}

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *fakeBackend) requireAuth(c *gin.Context) {
	b.mu.Lock()
	b.requests++
	b.lastAuth = c.GetHeader("auth")
	b.mu.Unlock()

	if !strings.HasPrefix(c.GetHeader("auth"), "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized Request", "specificMessage": "token missing"})
		return
	}
	c.Next()
}

func (b *fakeBackend) getCart(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := b.carts[c.Param("userId")]
	if entries == nil {
		entries = []models.CartEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

func (b *fakeBackend) updateCart(c *gin.Context) {
	var update models.CartUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid Request", "specificMessage": "invalid cart update"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	userID := c.Param("userId")
	entries := b.carts[userID]
	for i, e := range entries {
		if e.ProductID == update.ProductID {
			e.Quantity += update.Quantity
			if e.Quantity <= 0 {
				b.carts[userID] = append(entries[:i], entries[i+1:]...)
			} else {
				entries[i] = e
			}
			c.JSON(http.StatusOK, b.carts[userID])
			return
		}
	}
	if update.Quantity <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"specificMessage": "cart item not found"})
		return
	}
	b.carts[userID] = append(entries, models.CartEntry{UserID: models.ID(userID), ProductID: update.ProductID, Quantity: update.Quantity})
	c.JSON(http.StatusOK, b.carts[userID])
}

func (b *fakeBackend) clearCart(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.carts, c.Param("userId"))
	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}

func (b *fakeBackend) getProduct(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.products[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found", "specificMessage": "product not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (b *fakeBackend) createOrder(c *gin.Context) {
	var req models.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	userID := c.Param("userId")
	order := models.Order{
		ID:            models.ID(strconv.Itoa(len(b.orders[userID]) + 1)),
		UserID:        models.ID(userID),
		OrderStatus:   req.OrderStatus,
		PaymentStatus: req.PaymentStatus,
		PaymentMethod: req.PaymentMethod,
		CreatedAt:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	b.orders[userID] = append(b.orders[userID], order)
	c.JSON(http.StatusCreated, order)
}

func (b *fakeBackend) listOrders(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastPage = c.Query("page") + "/" + c.Query("limit")
	rows := b.orders[c.Param("userId")]
	c.JSON(http.StatusOK, gin.H{"count": len(rows), "rows": rows})
}

func (b *fakeBackend) buyNow(c *gin.Context) {
	var req models.BuyNowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order item"})
		return
	}
	c.JSON(http.StatusCreated, models.OrderItem{
		ID:           "1",
		OrderID:      "100",
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		PriceAtOrder: req.PriceAtOrder,
	})
}

func (b *fakeBackend) orderItems(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	items, ok := b.items[c.Param("orderId")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"specificMessage": "order not found"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (b *fakeBackend) patch(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid patch"})
			return
		}
		b.mu.Lock()
		b.patches = append(b.patches, recordedPatch{Resource: resource, ID: c.Param("id"), Body: body})
		b.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"message": "updated"})
	}
}

func testIdentity() identity.Identity {
	return identity.Identity{UserID: "7", Token: "header.payload.sig"}
}

func newTestClient(srv *httptest.Server) *Client {
	return New(Config{BaseURL: srv.URL + "/api/v1", Timeout: 2 * time.Second}, nil)
}

func TestCart_roundTrip(t *testing.T) {
	backend, srv := newFakeBackend(t)
	client := newTestClient(srv)
	ctx := context.Background()
	id := testIdentity()

	require.NoError(t, client.UpdateCart(ctx, id, models.CartUpdate{ProductID: "3", Quantity: 2}))
	require.NoError(t, client.UpdateCart(ctx, id, models.CartUpdate{ProductID: "3", Quantity: 1}))

	entries, err := client.GetCart(ctx, id)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ID("3"), entries[0].ProductID)
	assert.Equal(t, 3, entries[0].Quantity)
	assert.Equal(t, "Bearer header.payload.sig", backend.lastAuth)

	require.NoError(t, client.ClearCart(ctx, id))
	entries, err = client.GetCart(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGetCart_acceptsRowsWrapper(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/v1/cart/:userId", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rows": []gin.H{{"productId": 4, "quantity": 2}}})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	entries, err := newTestClient(srv).GetCart(context.Background(), testIdentity())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ID("4"), entries[0].ProductID)
}

func TestGetProduct(t *testing.T) {
	backend, srv := newFakeBackend(t)
	backend.products["9"] = models.Product{ID: "9", Name: "Desk Lamp", Price: decimal.RequireFromString("19.99")}
	client := newTestClient(srv)

	p, err := client.GetProduct(context.Background(), testIdentity(), "9")
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", p.Name)
	assert.Equal(t, "19.99", p.Price.StringFixed(2))

	_, err = client.GetProduct(context.Background(), testIdentity(), "404")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
	assert.Equal(t, "product not found", errs.Message(err))
}

func TestOrders(t *testing.T) {
	backend, srv := newFakeBackend(t)
	client := newTestClient(srv)
	ctx := context.Background()
	id := testIdentity()

	order, err := client.CreateOrder(ctx, id, models.OrderRequest{
		OrderStatus:   models.OrderStatusProcessing,
		PaymentStatus: models.PaymentStatusPaid,
		PaymentMethod: models.PaymentMethodCard,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ID("1"), order.ID)
	assert.Equal(t, "Processing", order.OrderStatus)

	page, err := client.ListOrders(ctx, id, models.PageRequest{Page: 1, Limit: 15})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Count)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "Credit Card", page.Rows[0].PaymentMethod)
	assert.Equal(t, "1/15", backend.lastPage)

	backend.items["1"] = []models.OrderItem{{ID: "1", OrderID: "1", ProductID: "3", Quantity: 2, PriceAtOrder: decimal.NewFromInt(10)}}
	items, err := client.GetOrderItems(ctx, id, "1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	_, err = client.GetOrderItems(ctx, id, "99")
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestCreateBuyNowOrder(t *testing.T) {
	_, srv := newFakeBackend(t)
	client := newTestClient(srv)

	item, err := client.CreateBuyNowOrder(context.Background(), testIdentity(), models.BuyNowRequest{
		ProductID:    "p1",
		Quantity:     3,
		PriceAtOrder: decimal.RequireFromString("7.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ID("p1"), item.ProductID)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, "7.50", item.PriceAtOrder.StringFixed(2))
}

func TestPatch_sendsOneRequest(t *testing.T) {
	backend, srv := newFakeBackend(t)
	client := newTestClient(srv)

	err := client.Patch(context.Background(), testIdentity(), ResourceProduct, "12", models.Patch{"name": "Chair", "stockQuantity": 4})
	require.NoError(t, err)
	require.Len(t, backend.patches, 1)
	assert.Equal(t, "product", backend.patches[0].Resource)
	assert.Equal(t, "12", backend.patches[0].ID)
	assert.Equal(t, "Chair", backend.patches[0].Body["name"])
	assert.EqualValues(t, 4, backend.patches[0].Body["stockQuantity"])

	err = client.Patch(context.Background(), testIdentity(), "order", "12", models.Patch{"x": 1})
	assert.True(t, errors.Is(err, errs.ErrValidation))
	assert.Len(t, backend.patches, 1)
}

func TestMissingCredential_blocksBeforeNetwork(t *testing.T) {
	backend, srv := newFakeBackend(t)
	client := newTestClient(srv)

	_, err := client.GetCart(context.Background(), identity.Identity{UserID: "7"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrAuthentication))
	assert.Equal(t, 0, backend.requests)
}

func TestErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		status  int
		body    gin.H
		kind    errs.Kind
		message string
	}{
		{http.StatusBadRequest, gin.H{"specificMessage": "quantity invalid"}, errs.KindValidation, "quantity invalid"},
		{http.StatusUnauthorized, gin.H{"message": "Unauthorized"}, errs.KindAuthentication, "Unauthorized"},
		{http.StatusForbidden, nil, errs.KindAuthentication, "Unauthorized Access"},
		{http.StatusNotFound, nil, errs.KindNotFound, "Resource Not Found"},
		{http.StatusConflict, gin.H{"message": "conflict"}, errs.KindServer, "conflict"},
		{http.StatusInternalServerError, nil, errs.KindServer, "An unexpected error occurred"},
	}
	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.status), func(t *testing.T) {
			r := gin.New()
			r.GET("/api/v1/product/:id", func(c *gin.Context) {
				if tt.body == nil {
					c.Status(tt.status)
					return
				}
				c.JSON(tt.status, tt.body)
			})
			srv := httptest.NewServer(r)
			defer srv.Close()

			_, err := newTestClient(srv).GetProduct(context.Background(), testIdentity(), "1")
			require.Error(t, err)
			kind, ok := errs.KindOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.message, errs.Message(err))
		})
	}
}

func TestNetworkError(t *testing.T) {
	_, srv := newFakeBackend(t)
	client := newTestClient(srv)
	srv.Close()

	err := client.ClearCart(context.Background(), testIdentity())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrNetwork))
}
