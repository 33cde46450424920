package panels

import (
	"context"
	"fmt"
	"io"
	"sync"

	"food-delivery-client/models"
	"food-delivery-client/statemachine"
)

// MenuItemForm is the menu-item creation form.
type MenuItemForm struct {
	Name            string  `validate:"required"`
	Description     string  `validate:"required"`
	Price           float64 `validate:"required,gt=0"`
	Category        string  `validate:"required"`
	PreparationTime int     `validate:"gte=1"`
}

// placeholderRestaurant is the fixed profile used by the one-click create
// action; there is no restaurant form.
var placeholderRestaurant = models.RestaurantCreate{
	Name:                  "My Restaurant",
	Description:           "Delicious food delivered fast",
	Address:               "123 Restaurant St, City, State",
	Location:              models.Location{Lat: 40.7128, Lng: -74.0060},
	CuisineType:           "American",
	Phone:                 "+1234567890",
	DeliveryFee:           2.99,
	MinOrder:              10.0,
	EstimatedDeliveryTime: 30,
}

// RestaurantPanel manages the owner's restaurant, its menu, and the forward
// movement of incoming orders. Everything but restaurant creation is gated
// on a restaurant existing.
type RestaurantPanel struct {
	deps Deps

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	restaurant *models.Restaurant
	menu       []models.MenuItem
	orders     []models.Order
}

// NewRestaurantPanel builds the panel.
func NewRestaurantPanel(deps Deps) *RestaurantPanel {
	return &RestaurantPanel{deps: deps}
}

// Mount fetches incoming orders and recovers an already-created restaurant
// (and its menu) so a previous session's state is visible again.
func (p *RestaurantPanel) Mount(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	if err := p.refreshOrders(); err != nil {
		p.deps.logger().Error("fetching orders", "error", err)
	}
	if err := p.discoverRestaurant(); err != nil {
		p.deps.logger().Error("recovering restaurant", "error", err)
	}
	return nil
}

// Close unmounts the panel.
func (p *RestaurantPanel) Close() {
	if p.cancel != nil {
		p.cancel()
	}
}

// discoverRestaurant finds the caller's restaurant in the platform listing
// by owner id, then loads its menu.
func (p *RestaurantPanel) discoverRestaurant() error {
	user := p.deps.Session.CurrentUser()
	restaurants, err := p.deps.API.ListRestaurants(p.ctx)
	if err != nil {
		return err
	}
	for i := range restaurants {
		if restaurants[i].OwnerID == user.ID {
			menu, err := p.deps.API.GetMenu(p.ctx, restaurants[i].ID)
			if err != nil {
				return err
			}
			if err := p.ctx.Err(); err != nil {
				return err
			}
			p.mu.Lock()
			p.restaurant = &restaurants[i]
			p.menu = menu
			p.mu.Unlock()
			return nil
		}
	}
	return nil
}

func (p *RestaurantPanel) refreshOrders() error {
	orders, err := p.deps.API.ListOrders(p.ctx)
	if err != nil {
		return err
	}
	if err := p.ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.orders = orders
	p.mu.Unlock()
	return nil
}

// CreateRestaurant registers the placeholder restaurant for this owner.
func (p *RestaurantPanel) CreateRestaurant() error {
	p.mu.Lock()
	exists := p.restaurant != nil
	p.mu.Unlock()
	if exists {
		return fmt.Errorf("restaurant already exists")
	}

	restaurant, err := p.deps.API.CreateRestaurant(p.ctx, placeholderRestaurant)
	if err != nil {
		p.deps.notice("%s", errorDetail(err))
		return err
	}
	if err := p.ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.restaurant = restaurant
	p.mu.Unlock()
	p.deps.notice("Restaurant created successfully!")
	return nil
}

// AddMenuItem validates and submits a new menu item; on success it is
// appended to the in-memory menu.
func (p *RestaurantPanel) AddMenuItem(form MenuItemForm) error {
	if err := validate.Struct(form); err != nil {
		p.deps.notice("Invalid menu item: %v", err)
		return err
	}

	p.mu.Lock()
	restaurant := p.restaurant
	p.mu.Unlock()
	if restaurant == nil {
		p.deps.notice("Please create a restaurant first")
		return fmt.Errorf("no restaurant")
	}

	item, err := p.deps.API.AddMenuItem(p.ctx, restaurant.ID, models.MenuItemCreate{
		Name:            form.Name,
		Description:     form.Description,
		Price:           form.Price,
		Category:        form.Category,
		PreparationTime: form.PreparationTime,
	})
	if err != nil {
		p.deps.notice("%s", errorDetail(err))
		return err
	}
	if err := p.ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.menu = append(p.menu, *item)
	p.mu.Unlock()
	p.deps.notice("Menu item added successfully!")
	return nil
}

// NextAction returns the single forward action offered for an order:
// pending→confirmed→preparing→ready, nothing for driver-owned or terminal
// statuses.
func (p *RestaurantPanel) NextAction(order models.Order) (models.OrderStatus, bool) {
	return statemachine.NextAction(order.Status, statemachine.ActorRestaurant)
}

// Advance requests the order's single offered transition and re-fetches the
// order list.
func (p *RestaurantPanel) Advance(orderID string) error {
	p.mu.Lock()
	var order *models.Order
	for i := range p.orders {
		if p.orders[i].ID == orderID {
			order = &p.orders[i]
			break
		}
	}
	p.mu.Unlock()
	if order == nil {
		return fmt.Errorf("unknown order %q", orderID)
	}

	next, ok := p.NextAction(*order)
	if !ok {
		return fmt.Errorf("no restaurant action for order in status %s", order.Status)
	}
	if err := p.deps.API.UpdateOrderStatus(p.ctx, orderID, next); err != nil {
		p.deps.notice("%s", errorDetail(err))
		return err
	}
	p.deps.notice("Order marked as %s", next)
	return p.refreshOrders()
}

// Restaurant returns the owner's restaurant, or nil until one is created.
func (p *RestaurantPanel) Restaurant() *models.Restaurant {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.restaurant
}

// Menu returns the in-memory menu list.
func (p *RestaurantPanel) Menu() []models.MenuItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.menu
}

// Orders returns the restaurant's incoming orders.
func (p *RestaurantPanel) Orders() []models.Order {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.orders
}

func (p *RestaurantPanel) Render(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.restaurant == nil {
		fmt.Fprintln(w, "No restaurant yet. Use 'create' to set one up.")
	} else {
		fmt.Fprintf(w, "== %s ==\n", p.restaurant.Name)
		fmt.Fprintln(w, "Menu:")
		for _, item := range p.menu {
			fmt.Fprintf(w, "  %s  $%.2f (%s)\n", item.Name, item.Price, item.Category)
		}
	}

	fmt.Fprintln(w, "== Incoming Orders ==")
	for _, order := range p.orders {
		line := fmt.Sprintf("  #%s  %s  $%.2f  %d items",
			shortID(order.ID), order.Status, order.Total, len(order.Items))
		if next, ok := statemachine.NextAction(order.Status, statemachine.ActorRestaurant); ok {
			line += fmt.Sprintf("  [advance -> %s]", next)
		}
		fmt.Fprintln(w, line)
	}
}
