package panels

import (
	"context"
	"fmt"
	"io"
	"sync"

	"food-delivery-client/models"
	"food-delivery-client/realtime"
)

// CustomerPanel is a two-screen state machine: the restaurant list (with the
// customer's order history) and a selected restaurant's menu plus cart.
type CustomerPanel struct {
	deps Deps

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	restaurants []models.Restaurant
	selected    *models.Restaurant
	menu        []models.MenuItem
	cart        Cart
	orders      []models.Order

	channel *realtime.Channel
	wg      sync.WaitGroup
}

// NewCustomerPanel builds the panel.
func NewCustomerPanel(deps Deps) *CustomerPanel {
	return &CustomerPanel{deps: deps}
}

// Mount fetches the restaurant list and order history and opens the
// notification channel.
func (p *CustomerPanel) Mount(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	if err := p.refreshRestaurants(); err != nil {
		p.deps.logger().Error("fetching restaurants", "error", err)
	}
	if err := p.refreshOrders(); err != nil {
		p.deps.logger().Error("fetching orders", "error", err)
	}

	user := p.deps.Session.CurrentUser()
	url := p.deps.Config.WebSocketURL(string(models.TypeCustomer), user.ID)
	channel, err := realtime.Open(p.ctx, url, realtime.WithLogger(p.deps.logger()))
	if err != nil {
		// The panel still works without push; order state just goes stale
		// until the next manual refresh.
		p.deps.logger().Warn("notification channel unavailable", "error", err)
		return nil
	}
	p.channel = channel
	p.wg.Add(1)
	go p.consume()
	return nil
}

// Close unmounts the panel: the context cancellation drops any in-flight
// fetch and the channel is torn down deterministically.
func (p *CustomerPanel) Close() {
	if p.cancel != nil {
		p.cancel()
	}
	if p.channel != nil {
		p.channel.Close()
	}
	p.wg.Wait()
}

func (p *CustomerPanel) consume() {
	defer p.wg.Done()
	for msg := range p.channel.Messages() {
		switch msg.Type {
		case realtime.TypeOrderStatusUpdate:
			p.deps.notice("Order %s status updated to: %s", msg.OrderID, msg.Status)
			if err := p.refreshOrders(); err != nil {
				p.deps.logger().Error("refreshing orders after push", "error", err)
			}
		case realtime.TypeDriverAssigned:
			name := ""
			if msg.Driver != nil {
				name = msg.Driver.Name
			}
			p.deps.notice("Driver assigned to your order: %s", name)
			if err := p.refreshOrders(); err != nil {
				p.deps.logger().Error("refreshing orders after push", "error", err)
			}
		case realtime.TypeDriverLocationUpdate:
			p.deps.logger().Debug("driver location updated",
				"order_id", msg.OrderID, "location", msg.Location)
		}
	}
}

// refreshRestaurants re-fetches the restaurant list, unless the panel has
// been unmounted in the meantime.
func (p *CustomerPanel) refreshRestaurants() error {
	restaurants, err := p.deps.API.ListRestaurants(p.ctx)
	if err != nil {
		return err
	}
	return p.apply(func() { p.restaurants = restaurants })
}

// refreshOrders re-fetches the customer's order history in full; there is no
// incremental update.
func (p *CustomerPanel) refreshOrders() error {
	orders, err := p.deps.API.ListOrders(p.ctx)
	if err != nil {
		return err
	}
	return p.apply(func() { p.orders = orders })
}

// apply runs a state mutation unless the panel is unmounted: a late response
// must never touch a view the user has navigated away from.
func (p *CustomerPanel) apply(mutate func()) error {
	if err := p.ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	mutate()
	return nil
}

// SelectRestaurant fetches the menu for the restaurant and switches to the
// menu+cart screen.
func (p *CustomerPanel) SelectRestaurant(id string) error {
	p.mu.Lock()
	var target *models.Restaurant
	for i := range p.restaurants {
		if p.restaurants[i].ID == id {
			target = &p.restaurants[i]
			break
		}
	}
	p.mu.Unlock()
	if target == nil {
		return fmt.Errorf("unknown restaurant %q", id)
	}

	menu, err := p.deps.API.GetMenu(p.ctx, id)
	if err != nil {
		p.deps.notice("%s", errorDetail(err))
		return err
	}
	return p.apply(func() {
		p.selected = target
		p.menu = menu
	})
}

// Back returns to the restaurant list, clearing the selection, fetched menu
// and cart.
func (p *CustomerPanel) Back() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selected = nil
	p.menu = nil
	p.cart.Clear()
}

// AddToCart puts one unit of the menu item into the cart. Local and
// synchronous.
func (p *CustomerPanel) AddToCart(item models.MenuItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cart.Add(item)
}

// PlaceOrder submits the cart as an order. An empty cart performs no network
// call. On success the cart is cleared and the order list refreshed; on
// failure the cart is left untouched.
func (p *CustomerPanel) PlaceOrder() error {
	p.mu.Lock()
	if p.cart.Empty() {
		p.mu.Unlock()
		p.deps.notice("Cart is empty")
		return nil
	}
	if p.selected == nil {
		p.mu.Unlock()
		return fmt.Errorf("no restaurant selected")
	}
	req := models.OrderCreate{
		RestaurantID:     p.selected.ID,
		Items:            p.cart.Items(),
		DeliveryAddress:  defaultAddress,
		DeliveryLocation: defaultLocation,
	}
	p.mu.Unlock()

	if user := p.deps.Session.CurrentUser(); user != nil {
		if user.Address != "" {
			req.DeliveryAddress = user.Address
		}
		if user.Location != nil {
			req.DeliveryLocation = *user.Location
		}
	}

	if _, err := p.deps.API.PlaceOrder(p.ctx, req); err != nil {
		p.deps.notice("%s", errorDetail(err))
		return err
	}

	p.deps.notice("Order placed successfully!")
	if err := p.apply(func() { p.cart.Clear() }); err != nil {
		return err
	}
	return p.refreshOrders()
}

// Selected returns the currently browsed restaurant, or nil on the list
// screen.
func (p *CustomerPanel) Selected() *models.Restaurant {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected
}

// Restaurants returns the fetched restaurant list.
func (p *CustomerPanel) Restaurants() []models.Restaurant {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.restaurants
}

// Menu returns the selected restaurant's fetched menu.
func (p *CustomerPanel) Menu() []models.MenuItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.menu
}

// Orders returns the customer's order history.
func (p *CustomerPanel) Orders() []models.Order {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.orders
}

// CartLines returns the current cart contents.
func (p *CustomerPanel) CartLines() []CartLine {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cart.Lines()
}

// CartTotal returns the running cart sum.
func (p *CustomerPanel) CartTotal() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cart.Total()
}

func (p *CustomerPanel) Render(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.selected != nil {
		fmt.Fprintf(w, "== %s ==\n", p.selected.Name)
		for i, item := range p.menu {
			fmt.Fprintf(w, "  [%d] %s  $%.2f (%s)\n", i+1, item.Name, item.Price, item.Category)
		}
		fmt.Fprintf(w, "Cart (%d):\n", p.cart.Len())
		for _, line := range p.cart.Lines() {
			fmt.Fprintf(w, "  %s x%d  $%.2f\n", line.Name, line.Quantity, line.Price*float64(line.Quantity))
		}
		if !p.cart.Empty() {
			fmt.Fprintf(w, "  Total: $%.2f\n", p.cart.Total())
		}
		return
	}

	fmt.Fprintln(w, "== My Orders ==")
	for _, order := range p.orders {
		fmt.Fprintf(w, "  #%s  %s  $%.2f\n", shortID(order.ID), order.Status, order.Total)
	}
	fmt.Fprintln(w, "== Restaurants ==")
	for i, r := range p.restaurants {
		fmt.Fprintf(w, "  [%d] %s (%s)  ★%.1f  %dmin  $%.2f delivery\n",
			i+1, r.Name, r.CuisineType, r.Rating, r.EstimatedDeliveryTime, r.DeliveryFee)
	}
}

// shortID abbreviates an order id for display, like the platform UI does.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
