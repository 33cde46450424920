package panels_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-delivery-client/apitest"
	"food-delivery-client/models"
	"food-delivery-client/panels"
)

func seedOwner(t *testing.T, srv *apitest.Server) models.User {
	t.Helper()
	return srv.SeedUser(models.User{
		Email: "rosa@example.com", Name: "Rosa", UserType: models.TypeRestaurant,
	})
}

func validMenuItem() panels.MenuItemForm {
	return panels.MenuItemForm{
		Name:            "Carbonara",
		Description:     "Egg, guanciale, pecorino",
		Price:           14.50,
		Category:        "Pasta",
		PreparationTime: 20,
	}
}

func TestAddMenuItemRequiresRestaurant(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	owner := seedOwner(t, srv)
	deps, rec := newDeps(t, srv, owner)
	panel := panels.NewRestaurantPanel(deps)
	require.NoError(t, panel.Mount(context.Background()))
	defer panel.Close()

	err := panel.AddMenuItem(validMenuItem())
	require.Error(t, err)
	assert.True(t, rec.contains("Please create a restaurant first"))
	assert.Empty(t, panel.Menu())
}

func TestAddMenuItemValidatesForm(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	owner := seedOwner(t, srv)
	deps, rec := newDeps(t, srv, owner)
	panel := panels.NewRestaurantPanel(deps)
	require.NoError(t, panel.Mount(context.Background()))
	defer panel.Close()
	require.NoError(t, panel.CreateRestaurant())

	form := validMenuItem()
	form.Price = 0
	require.Error(t, panel.AddMenuItem(form))
	assert.True(t, rec.contains("Invalid menu item"))
	assert.Empty(t, panel.Menu())
}

func TestCreateRestaurantThenAddItems(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	owner := seedOwner(t, srv)
	deps, rec := newDeps(t, srv, owner)
	panel := panels.NewRestaurantPanel(deps)
	require.NoError(t, panel.Mount(context.Background()))
	defer panel.Close()

	assert.Nil(t, panel.Restaurant())
	require.NoError(t, panel.CreateRestaurant())
	assert.True(t, rec.contains("Restaurant created successfully!"))

	restaurant := panel.Restaurant()
	require.NotNil(t, restaurant)
	assert.Equal(t, "My Restaurant", restaurant.Name)
	assert.Equal(t, owner.ID, restaurant.OwnerID)

	// A second create is rejected locally.
	require.Error(t, panel.CreateRestaurant())

	require.NoError(t, panel.AddMenuItem(validMenuItem()))
	menu := panel.Menu()
	require.Len(t, menu, 1)
	assert.Equal(t, "Carbonara", menu[0].Name)
	assert.Equal(t, restaurant.ID, menu[0].RestaurantID)
}

func TestMountRecoversExistingRestaurantAndMenu(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	owner := seedOwner(t, srv)
	restaurant := srv.SeedRestaurant(models.Restaurant{
		Name: "Trattoria Rosa", OwnerID: owner.ID, CuisineType: "Italian",
	})
	srv.SeedMenuItem(restaurant.ID, models.MenuItem{Name: "Lasagna", Price: 12, Category: "Pasta"})

	deps, _ := newDeps(t, srv, owner)
	panel := panels.NewRestaurantPanel(deps)
	require.NoError(t, panel.Mount(context.Background()))
	defer panel.Close()

	require.NotNil(t, panel.Restaurant())
	assert.Equal(t, restaurant.ID, panel.Restaurant().ID)
	require.Len(t, panel.Menu(), 1)
	assert.Equal(t, "Lasagna", panel.Menu()[0].Name)
}

func TestRestaurantAdvanceWalksThePreparationChain(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	owner := seedOwner(t, srv)
	restaurant := srv.SeedRestaurant(models.Restaurant{Name: "Trattoria Rosa", OwnerID: owner.ID})
	srv.SeedOrder(models.Order{
		ID: "o1", CustomerID: "c1", RestaurantID: restaurant.ID,
		Status: models.StatusPending, Total: 30,
	})

	deps, _ := newDeps(t, srv, owner)
	panel := panels.NewRestaurantPanel(deps)
	require.NoError(t, panel.Mount(context.Background()))
	defer panel.Close()

	for _, want := range []models.OrderStatus{
		models.StatusConfirmed, models.StatusPreparing, models.StatusReady,
	} {
		require.NoError(t, panel.Advance("o1"))
		order, ok := srv.Order("o1")
		require.True(t, ok)
		assert.Equal(t, want, order.Status)
	}

	// Ready hands off to the driver; no further restaurant action.
	err := panel.Advance("o1")
	require.Error(t, err)
}

func TestRestaurantActionsStopAtReady(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	owner := seedOwner(t, srv)
	deps, _ := newDeps(t, srv, owner)
	panel := panels.NewRestaurantPanel(deps)
	require.NoError(t, panel.Mount(context.Background()))
	defer panel.Close()

	expect := map[models.OrderStatus]struct {
		next models.OrderStatus
		ok   bool
	}{
		models.StatusPending:   {models.StatusConfirmed, true},
		models.StatusConfirmed: {models.StatusPreparing, true},
		models.StatusPreparing: {models.StatusReady, true},
		models.StatusReady:     {"", false},
		models.StatusPickedUp:  {"", false},
		models.StatusDelivered: {"", false},
		models.StatusCancelled: {"", false},
	}
	for status, want := range expect {
		next, ok := panel.NextAction(models.Order{Status: status})
		assert.Equal(t, want.ok, ok, status)
		assert.Equal(t, want.next, next, status)
	}
}
