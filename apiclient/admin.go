package apiclient

import (
	"context"
	"net/http"

	"github.com/Kariqs/amexan-storefront/errs"
	"github.com/Kariqs/amexan-storefront/identity"
	"github.com/Kariqs/amexan-storefront/models"
)

const (
	ResourceCategory = "category"
	ResourceProduct  = "product"
	ResourceUser     = "user"
)

var patchableResources = map[string]bool{
	ResourceCategory: true,
	ResourceProduct:  true,
	ResourceUser:     true,
}

// Patch sends every changed field of a resource in a single PUT.
func (c *Client) Patch(ctx context.Context, id identity.Identity, resource string, resourceID models.ID, patch models.Patch) error {
	if !patchableResources[resource] {
		return errs.Validationf("unknown resource %q", resource)
	}
	if resourceID.IsZero() {
		return errs.Validation("resource id is required")
	}
	req, err := c.request(ctx, id)
	if err != nil {
		return err
	}

	req.SetPathParams(map[string]string{
		"resource": resource,
		"id":       resourceID.String(),
	}).SetBody(patch)
	return c.execute(req, http.MethodPut, "/{resource}/{id}")
}
