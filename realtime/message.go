package realtime

import "food-delivery-client/models"

// Message types pushed by the platform.
const (
	TypeOrderStatusUpdate    = "order_status_update"
	TypeDriverAssigned       = "driver_assigned"
	TypeNewOrder             = "new_order"
	TypeDriverLocationUpdate = "driver_location_update"
)

// Message is the tagged union the platform pushes over the notification
// channel. Type selects which payload fields are populated:
//
//	order_status_update    → OrderID, Status
//	driver_assigned        → OrderID, Driver
//	new_order              → Order (driver channels only)
//	driver_location_update → OrderID, Location
type Message struct {
	Type     string             `json:"type"`
	OrderID  string             `json:"order_id,omitempty"`
	Status   models.OrderStatus `json:"status,omitempty"`
	Driver   *models.User       `json:"driver,omitempty"`
	Order    *models.Order      `json:"order,omitempty"`
	Location *models.Location   `json:"location,omitempty"`
}
