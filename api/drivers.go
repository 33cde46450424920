package api

import (
	"context"
	"net/http"

	"food-delivery-client/models"
)

// ReportLocation posts a standalone coordinate fix for the calling driver.
func (c *Client) ReportLocation(ctx context.Context, loc models.Location) error {
	return c.do(ctx, http.MethodPost, "/drivers/location", nil, loc, nil)
}
