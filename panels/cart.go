package panels

import "food-delivery-client/models"

// CartLine is one menu item pending order placement. Client-local and
// ephemeral; nothing about the cart ever reaches storage.
type CartLine struct {
	MenuItemID string
	Name       string
	Price      float64
	Quantity   int
}

// Cart holds the lines for the currently browsed restaurant, keyed by menu
// item id: at most one line per item, re-adding bumps the quantity.
type Cart struct {
	lines []CartLine
}

// Add puts one unit of item into the cart.
func (c *Cart) Add(item models.MenuItem) {
	for i := range c.lines {
		if c.lines[i].MenuItemID == item.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, CartLine{
		MenuItemID: item.ID,
		Name:       item.Name,
		Price:      item.Price,
		Quantity:   1,
	})
}

// Lines returns a copy of the cart contents in insertion order; mutating the
// result does not touch the cart.
func (c *Cart) Lines() []CartLine {
	lines := make([]CartLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Total is the cart sum; simple arithmetic only, the platform computes the
// authoritative total with fees and tax.
func (c *Cart) Total() float64 {
	var sum float64
	for _, l := range c.lines {
		sum += l.Price * float64(l.Quantity)
	}
	return sum
}

// Items converts the cart into the order payload shape.
func (c *Cart) Items() []models.OrderItem {
	items := make([]models.OrderItem, 0, len(c.lines))
	for _, l := range c.lines {
		items = append(items, models.OrderItem{MenuItemID: l.MenuItemID, Quantity: l.Quantity})
	}
	return items
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}
