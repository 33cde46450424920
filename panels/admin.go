package panels

import (
	"context"
	"fmt"
	"io"
	"sync"

	"food-delivery-client/models"
)

// AdminPanel is a read-only view over the platform analytics snapshot,
// fetched once on mount.
type AdminPanel struct {
	deps Deps

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	snapshot *models.AnalyticsSnapshot
}

// NewAdminPanel builds the panel.
func NewAdminPanel(deps Deps) *AdminPanel {
	return &AdminPanel{deps: deps}
}

func (p *AdminPanel) Mount(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	snapshot, err := p.deps.API.Analytics(p.ctx)
	if err != nil {
		p.deps.notice("%s", errorDetail(err))
		return err
	}
	if err := p.ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.snapshot = snapshot
	p.mu.Unlock()
	return nil
}

func (p *AdminPanel) Close() {
	if p.cancel != nil {
		p.cancel()
	}
}

// Snapshot returns the fetched analytics, or nil before Mount completes.
func (p *AdminPanel) Snapshot() *models.AnalyticsSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

// AverageOrderValue is total revenue per completed order. Revenue only
// accrues from delivered orders, so completed_orders is both the numerator's
// source and the denominator; zero completed orders yields zero.
func (p *AdminPanel) AverageOrderValue() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.snapshot == nil || p.snapshot.CompletedOrders == 0 {
		return 0
	}
	return p.snapshot.TotalRevenue / float64(p.snapshot.CompletedOrders)
}

func (p *AdminPanel) Render(w io.Writer) {
	p.mu.Lock()
	snapshot := p.snapshot
	p.mu.Unlock()

	if snapshot == nil {
		fmt.Fprintln(w, "Loading analytics...")
		return
	}
	fmt.Fprintln(w, "== Admin Dashboard ==")
	fmt.Fprintf(w, "  Total Orders:     %d\n", snapshot.TotalOrders)
	fmt.Fprintf(w, "  Total Users:      %d\n", snapshot.TotalUsers)
	fmt.Fprintf(w, "  Restaurants:      %d\n", snapshot.TotalRestaurants)
	fmt.Fprintf(w, "  Revenue:          $%.2f\n", snapshot.TotalRevenue)
	fmt.Fprintf(w, "  Completed Orders: %d\n", snapshot.CompletedOrders)
	fmt.Fprintf(w, "  Avg Order Value:  $%.2f\n", p.AverageOrderValue())
}
