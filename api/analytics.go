package api

import (
	"context"
	"net/http"

	"food-delivery-client/models"
)

// Analytics fetches the platform snapshot. Admin role only.
func (c *Client) Analytics(ctx context.Context) (*models.AnalyticsSnapshot, error) {
	var snapshot models.AnalyticsSnapshot
	if err := c.do(ctx, http.MethodGet, "/analytics", nil, nil, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
