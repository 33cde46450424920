package panels

import (
	"context"
	"fmt"
	"io"
	"sync"

	"food-delivery-client/models"
	"food-delivery-client/realtime"
	"food-delivery-client/statemachine"
)

// DriverPanel maintains two collections: "available" orders, fed exclusively
// by new_order pushes, and the driver's fetched "active" deliveries. It also
// runs the continuous location reporter for the lifetime of the mount.
type DriverPanel struct {
	deps   Deps
	source LocationSource

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	available []models.Order
	active    []models.Order

	channel  *realtime.Channel
	reporter *LocationReporter
	wg       sync.WaitGroup
}

// NewDriverPanel builds the panel. source provides position fixes; pass
// a StaticLocationSource when no device integration exists.
func NewDriverPanel(deps Deps, source LocationSource) *DriverPanel {
	return &DriverPanel{deps: deps, source: source}
}

// Mount fetches assigned deliveries, opens the notification channel, and
// starts location reporting.
func (p *DriverPanel) Mount(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	if err := p.refreshActive(); err != nil {
		p.deps.logger().Error("fetching deliveries", "error", err)
	}

	user := p.deps.Session.CurrentUser()
	url := p.deps.Config.WebSocketURL(string(models.TypeDriver), user.ID)
	channel, err := realtime.Open(p.ctx, url, realtime.WithLogger(p.deps.logger()))
	if err != nil {
		p.deps.logger().Warn("notification channel unavailable", "error", err)
	} else {
		p.channel = channel
		p.wg.Add(1)
		go p.consume()
	}

	if p.source != nil {
		p.reporter = NewLocationReporter(
			p.deps.Config.LocationInterval, p.source, p.deps.API.ReportLocation, p.deps.logger())
		p.reporter.Start(p.ctx)
	}
	return nil
}

// Close unmounts the panel, stopping the channel and the location reporter.
func (p *DriverPanel) Close() {
	if p.cancel != nil {
		p.cancel()
	}
	if p.reporter != nil {
		p.reporter.Stop()
	}
	if p.channel != nil {
		p.channel.Close()
	}
	p.wg.Wait()
}

func (p *DriverPanel) consume() {
	defer p.wg.Done()
	for msg := range p.channel.Messages() {
		switch msg.Type {
		case realtime.TypeNewOrder:
			if msg.Order == nil {
				p.deps.logger().Warn("new_order push without order payload")
				continue
			}
			p.mu.Lock()
			p.available = append(p.available, *msg.Order)
			p.mu.Unlock()
			p.deps.notice("New order available!")
		case realtime.TypeOrderStatusUpdate:
			p.deps.notice("Order %s status updated to: %s", msg.OrderID, msg.Status)
			if err := p.refreshActive(); err != nil {
				p.deps.logger().Error("refreshing deliveries after push", "error", err)
			}
		}
	}
}

func (p *DriverPanel) refreshActive() error {
	orders, err := p.deps.API.ListOrders(p.ctx)
	if err != nil {
		return err
	}
	if err := p.ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.active = orders
	p.mu.Unlock()
	return nil
}

// AcceptOrder requests driver assignment for an available order. On success
// the order leaves "available" and the active list is re-fetched in full.
func (p *DriverPanel) AcceptOrder(orderID string) error {
	if err := p.deps.API.AssignDriver(p.ctx, orderID); err != nil {
		p.deps.notice("%s", errorDetail(err))
		return err
	}

	p.mu.Lock()
	kept := p.available[:0]
	for _, o := range p.available {
		if o.ID != orderID {
			kept = append(kept, o)
		}
	}
	p.available = kept
	p.mu.Unlock()

	p.deps.notice("Order accepted!")
	return p.refreshActive()
}

// NextAction returns the single status action offered for an order, if any:
// confirmed offers picked_up, picked_up offers delivered, everything else
// offers nothing.
func (p *DriverPanel) NextAction(order models.Order) (models.OrderStatus, bool) {
	return statemachine.NextAction(order.Status, statemachine.ActorDriver)
}

// Advance requests the order's single offered transition.
func (p *DriverPanel) Advance(orderID string) error {
	p.mu.Lock()
	var order *models.Order
	for i := range p.active {
		if p.active[i].ID == orderID {
			order = &p.active[i]
			break
		}
	}
	p.mu.Unlock()
	if order == nil {
		return fmt.Errorf("unknown order %q", orderID)
	}

	next, ok := p.NextAction(*order)
	if !ok {
		return fmt.Errorf("no driver action for order in status %s", order.Status)
	}
	if err := p.deps.API.UpdateOrderStatus(p.ctx, orderID, next); err != nil {
		p.deps.notice("%s", errorDetail(err))
		return err
	}
	p.deps.notice("Order marked as %s", next)
	return p.refreshActive()
}

// Available returns the push-fed unassigned orders.
func (p *DriverPanel) Available() []models.Order {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.available
}

// Active returns the driver's fetched deliveries.
func (p *DriverPanel) Active() []models.Order {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Reporter exposes the location reporter, mainly for its failure counter.
func (p *DriverPanel) Reporter() *LocationReporter {
	return p.reporter
}

func (p *DriverPanel) Render(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(w, "== Available Orders ==")
	for _, order := range p.available {
		fmt.Fprintf(w, "  #%s  to %s  earnings $%.2f\n",
			shortID(order.ID), order.DeliveryAddress, order.Total)
	}
	fmt.Fprintln(w, "== My Active Orders ==")
	for _, order := range p.active {
		line := fmt.Sprintf("  #%s  %s  $%.2f", shortID(order.ID), order.Status, order.Total)
		if next, ok := statemachine.NextAction(order.Status, statemachine.ActorDriver); ok {
			line += fmt.Sprintf("  [advance -> %s]", next)
		}
		fmt.Fprintln(w, line)
	}
}
