package api

import (
	"context"
	"net/http"

	"food-delivery-client/models"
)

// ListRestaurants returns every active restaurant on the platform.
func (c *Client) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	if err := c.do(ctx, http.MethodGet, "/restaurants", nil, nil, &restaurants); err != nil {
		return nil, err
	}
	return restaurants, nil
}

// GetMenu returns a restaurant's menu items.
func (c *Client) GetMenu(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	var menu []models.MenuItem
	if err := c.do(ctx, http.MethodGet, "/restaurants/"+restaurantID+"/menu", nil, nil, &menu); err != nil {
		return nil, err
	}
	return menu, nil
}

// CreateRestaurant registers a restaurant owned by the caller. Restaurant
// role only.
func (c *Client) CreateRestaurant(ctx context.Context, req models.RestaurantCreate) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := c.do(ctx, http.MethodPost, "/restaurants", nil, req, &restaurant); err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// AddMenuItem appends an item to the caller's restaurant menu.
func (c *Client) AddMenuItem(ctx context.Context, restaurantID string, req models.MenuItemCreate) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := c.do(ctx, http.MethodPost, "/restaurants/"+restaurantID+"/menu", nil, req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}
