package apiclient

import (
	"context"
	"net/http"

	"github.com/Kariqs/amexan-storefront/errs"
	"github.com/Kariqs/amexan-storefront/identity"
	"github.com/Kariqs/amexan-storefront/models"
)

func (c *Client) GetProduct(ctx context.Context, id identity.Identity, productID models.ID) (models.Product, error) {
	if productID.IsZero() {
		return models.Product{}, errs.Validation("product id is required")
	}
	req, err := c.request(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	var product models.Product
	req.SetPathParam("id", productID.String()).SetResult(&product)
	if err := c.execute(req, http.MethodGet, "/product/{id}"); err != nil {
		return models.Product{}, err
	}
	if product.ID.IsZero() {
		product.ID = productID
	}
	return product, nil
}
