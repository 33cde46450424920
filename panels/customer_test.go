package panels_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-delivery-client/apitest"
	"food-delivery-client/models"
	"food-delivery-client/panels"
)

func seedRestaurantWithMenu(srv *apitest.Server) (models.Restaurant, []models.MenuItem) {
	owner := srv.SeedUser(models.User{Email: "owner@example.com", UserType: models.TypeRestaurant})
	restaurant := srv.SeedRestaurant(models.Restaurant{
		Name: "Pizza Palace", OwnerID: owner.ID, CuisineType: "Italian",
		DeliveryFee: 2.99, EstimatedDeliveryTime: 30,
	})
	pizza := srv.SeedMenuItem(restaurant.ID, models.MenuItem{Name: "Margherita", Price: 10.00, Category: "Pizza"})
	dessert := srv.SeedMenuItem(restaurant.ID, models.MenuItem{Name: "Tiramisu", Price: 5.00, Category: "Dessert"})
	return restaurant, []models.MenuItem{pizza, dessert}
}

type customerFixture struct {
	panel *panels.CustomerPanel
	rec   *recorder
	deps  panels.Deps
	user  models.User
}

func mountCustomer(t *testing.T, srv *apitest.Server) customerFixture {
	t.Helper()
	customer := srv.SeedUser(models.User{
		Email: "alice@example.com", Name: "Alice", UserType: models.TypeCustomer,
		Address: "42 Elm St", Location: &models.Location{Lat: 1, Lng: 2},
	})
	deps, rec := newDeps(t, srv, customer)
	panel := panels.NewCustomerPanel(deps)
	require.NoError(t, panel.Mount(context.Background()))
	t.Cleanup(panel.Close)
	return customerFixture{panel: panel, rec: rec, deps: deps, user: customer}
}

func TestPlaceOrderWithEmptyCartMakesNoRequest(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	seedRestaurantWithMenu(srv)

	f := mountCustomer(t, srv)
	require.NoError(t, f.panel.SelectRestaurant(f.panel.Restaurants()[0].ID))

	require.NoError(t, f.panel.PlaceOrder())

	assert.True(t, f.rec.contains("Cart is empty"))
	assert.Zero(t, srv.RequestCount(http.MethodPost, "/api/orders"))
	assert.NotNil(t, f.panel.Selected(), "screen state unchanged")
}

func TestPlaceOrderClearsCartAndRefreshesOrders(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	_, menu := seedRestaurantWithMenu(srv)

	f := mountCustomer(t, srv)
	require.NoError(t, f.panel.SelectRestaurant(f.panel.Restaurants()[0].ID))

	f.panel.AddToCart(menu[0])
	f.panel.AddToCart(menu[0])
	f.panel.AddToCart(menu[1])
	assert.InDelta(t, 25.00, f.panel.CartTotal(), 1e-9)

	require.NoError(t, f.panel.PlaceOrder())

	assert.Empty(t, f.panel.CartLines())
	orders := f.panel.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, f.user.ID, orders[0].CustomerID)
	assert.Equal(t, models.StatusPending, orders[0].Status)
	// Profile address wins over the hard-coded default.
	assert.Equal(t, "42 Elm St", orders[0].DeliveryAddress)
	// subtotal 25.00 + fee 2.99 + 8% tax 2.00
	assert.InDelta(t, 29.99, orders[0].Total, 1e-9)
}

func TestPlaceOrderFailureLeavesCartUntouched(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	_, menu := seedRestaurantWithMenu(srv)

	f := mountCustomer(t, srv)
	require.NoError(t, f.panel.SelectRestaurant(f.panel.Restaurants()[0].ID))
	f.panel.AddToCart(menu[0])

	// Make the placement fail: drop the credential behind the panel's
	// back so the platform rejects the call.
	require.NoError(t, f.deps.Session.Logout())

	err := f.panel.PlaceOrder()
	require.Error(t, err)
	assert.Len(t, f.panel.CartLines(), 1, "cart must survive a failed placement")
	assert.True(t, f.rec.contains("Not authenticated"))
}

func TestBackClearsSelectionMenuAndCart(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	_, menu := seedRestaurantWithMenu(srv)

	f := mountCustomer(t, srv)
	require.NoError(t, f.panel.SelectRestaurant(f.panel.Restaurants()[0].ID))
	f.panel.AddToCart(menu[0])

	f.panel.Back()

	assert.Nil(t, f.panel.Selected())
	assert.Empty(t, f.panel.Menu())
	assert.Empty(t, f.panel.CartLines())
}

func TestStatusPushRefreshesOrdersAndNotifies(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	seedRestaurantWithMenu(srv)

	f := mountCustomer(t, srv)
	srv.SeedOrder(models.Order{
		ID: "o1", CustomerID: f.user.ID, Status: models.StatusConfirmed, Total: 12,
	})

	// The hub may register the connection a beat after Mount returns.
	require.Eventually(t, func() bool {
		return srv.Push("customer_"+f.user.ID, map[string]any{
			"type": "order_status_update", "order_id": "o1", "status": "preparing",
		}) == nil
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return f.rec.contains("Order o1 status updated to: preparing")
	}, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		return len(f.panel.Orders()) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestLateResponseIgnoredAfterClose(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	seedRestaurantWithMenu(srv)

	f := mountCustomer(t, srv)
	require.NoError(t, f.panel.SelectRestaurant(f.panel.Restaurants()[0].ID))
	f.panel.Close()

	// The mount context is cancelled: any call the unmounted panel would
	// make fails fast and leaves its state alone.
	menu := f.panel.Menu()
	err := f.panel.SelectRestaurant(f.panel.Restaurants()[0].ID)
	assert.Error(t, err)
	assert.Equal(t, len(menu), len(f.panel.Menu()))
}
