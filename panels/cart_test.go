package panels

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"food-delivery-client/models"
)

func TestCartAggregatesByItemID(t *testing.T) {
	var cart Cart
	burger := models.MenuItem{ID: "m1", Name: "Burger", Price: 8.50}
	fries := models.MenuItem{ID: "m2", Name: "Fries", Price: 3.25}

	cart.Add(burger)
	cart.Add(fries)
	cart.Add(burger)
	cart.Add(burger)

	lines := cart.Lines()
	assert.Len(t, lines, 2, "one line per distinct item id")
	assert.Equal(t, "m1", lines[0].MenuItemID)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, "m2", lines[1].MenuItemID)
	assert.Equal(t, 1, lines[1].Quantity)
	assert.InDelta(t, 8.50*3+3.25, cart.Total(), 1e-9)
}

func TestCartQuantityEqualsAddCount(t *testing.T) {
	// For any sequence of adds, each line's quantity equals the number of
	// adds for that id.
	var cart Cart
	counts := map[string]int{}
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("m%d", i%7)
		cart.Add(models.MenuItem{ID: id, Name: "Item " + id, Price: 1})
		counts[id]++
	}

	assert.Len(t, cart.Lines(), 7)
	for _, line := range cart.Lines() {
		assert.Equal(t, counts[line.MenuItemID], line.Quantity, line.MenuItemID)
	}
}

func TestCartLinesAreACopy(t *testing.T) {
	var cart Cart
	cart.Add(models.MenuItem{ID: "m1", Name: "Burger", Price: 8.50})

	lines := cart.Lines()
	lines[0].Quantity = 99
	lines[0].Price = 0

	fresh := cart.Lines()
	assert.Equal(t, 1, fresh[0].Quantity)
	assert.InDelta(t, 8.50, fresh[0].Price, 1e-9)
	assert.InDelta(t, 8.50, cart.Total(), 1e-9)
}

func TestCartItemsAndClear(t *testing.T) {
	var cart Cart
	cart.Add(models.MenuItem{ID: "m1", Price: 2})
	cart.Add(models.MenuItem{ID: "m1", Price: 2})

	items := cart.Items()
	assert.Equal(t, []models.OrderItem{{MenuItemID: "m1", Quantity: 2}}, items)

	cart.Clear()
	assert.True(t, cart.Empty())
	assert.Zero(t, cart.Total())
}
