package api

import (
	"context"
	"net/http"
	"net/url"

	"food-delivery-client/models"
)

// PlaceOrderResponse wraps the created order; the payment client secret is
// returned but unused here (payments are out of the client's scope).
type PlaceOrderResponse struct {
	Order        models.Order `json:"order"`
	ClientSecret string       `json:"client_secret"`
}

// ListOrders returns orders scoped to the caller's role: own orders for
// customers, assigned deliveries for drivers, incoming orders for restaurant
// owners, everything for admins.
func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// PlaceOrder submits a new order. Customer role only.
func (c *Client) PlaceOrder(ctx context.Context, req models.OrderCreate) (*PlaceOrderResponse, error) {
	var resp PlaceOrderResponse
	if err := c.do(ctx, http.MethodPost, "/orders", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AssignDriver claims an unassigned order for the calling driver.
func (c *Client) AssignDriver(ctx context.Context, orderID string) error {
	return c.do(ctx, http.MethodPost, "/orders/"+orderID+"/assign-driver", nil, nil, nil)
}

// UpdateOrderStatus requests a status transition. The platform enforces who
// may request what; the panels additionally gate the actions they offer
// through the statemachine package.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	query := url.Values{"status": {string(status)}}
	return c.do(ctx, http.MethodPut, "/orders/"+orderID+"/status", query, nil, nil)
}
