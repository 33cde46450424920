package models

import "time"

// OrderStatus represents all possible states of a food delivery order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusPickedUp  OrderStatus = "picked_up"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

type OrderItem struct {
	MenuItemID          string `json:"menu_item_id"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
}

type Order struct {
	ID                    string      `json:"id"`
	CustomerID            string      `json:"customer_id"`
	RestaurantID          string      `json:"restaurant_id"`
	DriverID              *string     `json:"driver_id,omitempty"`
	Items                 []OrderItem `json:"items"`
	Subtotal              float64     `json:"subtotal"`
	DeliveryFee           float64     `json:"delivery_fee"`
	Tax                   float64     `json:"tax"`
	Total                 float64     `json:"total"`
	Status                OrderStatus `json:"status"`
	DeliveryAddress       string      `json:"delivery_address"`
	DeliveryLocation      Location    `json:"delivery_location"`
	EstimatedDeliveryTime time.Time   `json:"estimated_delivery_time"`
	ActualDeliveryTime    *time.Time  `json:"actual_delivery_time,omitempty"`
	SpecialInstructions   string      `json:"special_instructions,omitempty"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
}

// OrderCreate is the order placement payload
type OrderCreate struct {
	RestaurantID        string      `json:"restaurant_id"`
	Items               []OrderItem `json:"items"`
	DeliveryAddress     string      `json:"delivery_address"`
	DeliveryLocation    Location    `json:"delivery_location"`
	SpecialInstructions string      `json:"special_instructions,omitempty"`
}

// AnalyticsSnapshot is the admin platform overview, recomputed server-side
// on each fetch
type AnalyticsSnapshot struct {
	TotalOrders      int     `json:"total_orders"`
	TotalUsers       int     `json:"total_users"`
	TotalRestaurants int     `json:"total_restaurants"`
	TotalRevenue     float64 `json:"total_revenue"`
	CompletedOrders  int     `json:"completed_orders"`
}
