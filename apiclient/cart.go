package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/Kariqs/amexan-storefront/identity"
	"github.com/Kariqs/amexan-storefront/models"
)

// entryList accepts either a bare array or a {"rows": [...]} wrapper.
type entryList []models.CartEntry

func (l *entryList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var wrapped struct {
			Rows  []models.CartEntry `json:"rows"`
			Items []models.CartEntry `json:"items"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return err
		}
		if wrapped.Rows != nil {
			*l = wrapped.Rows
		} else {
			*l = wrapped.Items
		}
		return nil
	}
	var entries []models.CartEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*l = entries
	return nil
}

func (c *Client) GetCart(ctx context.Context, id identity.Identity) ([]models.CartEntry, error) {
	req, err := c.request(ctx, id)
	if err != nil {
		return nil, err
	}

	var entries entryList
	req.SetPathParam("userId", id.UserID.String()).SetResult(&entries)
	if err := c.execute(req, http.MethodGet, "/cart/{userId}"); err != nil {
		return nil, err
	}
	return entries, nil
}

// UpdateCart applies update.Quantity as a delta to the user's entry.
func (c *Client) UpdateCart(ctx context.Context, id identity.Identity, update models.CartUpdate) error {
	req, err := c.request(ctx, id)
	if err != nil {
		return err
	}

	req.SetPathParam("userId", id.UserID.String()).SetBody(update)
	return c.execute(req, http.MethodPut, "/cart/{userId}")
}

func (c *Client) ClearCart(ctx context.Context, id identity.Identity) error {
	req, err := c.request(ctx, id)
	if err != nil {
		return err
	}

	req.SetPathParam("userId", id.UserID.String())
	return c.execute(req, http.MethodDelete, "/cart/{userId}")
}
