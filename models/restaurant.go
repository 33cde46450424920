package models

import "time"

type Restaurant struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Description           string    `json:"description"`
	Address               string    `json:"address"`
	Location              Location  `json:"location"`
	CuisineType           string    `json:"cuisine_type"`
	OwnerID               string    `json:"owner_id"`
	Phone                 string    `json:"phone"`
	ImageURL              string    `json:"image_url,omitempty"`
	Rating                float64   `json:"rating"`
	IsActive              bool      `json:"is_active"`
	DeliveryFee           float64   `json:"delivery_fee"`
	MinOrder              float64   `json:"min_order"`
	EstimatedDeliveryTime int       `json:"estimated_delivery_time"` // minutes
	CreatedAt             time.Time `json:"created_at"`
}

// RestaurantCreate is the payload a restaurant owner submits once
type RestaurantCreate struct {
	Name                  string   `json:"name"`
	Description           string   `json:"description"`
	Address               string   `json:"address"`
	Location              Location `json:"location"`
	CuisineType           string   `json:"cuisine_type"`
	Phone                 string   `json:"phone"`
	ImageURL              string   `json:"image_url,omitempty"`
	DeliveryFee           float64  `json:"delivery_fee"`
	MinOrder              float64  `json:"min_order"`
	EstimatedDeliveryTime int      `json:"estimated_delivery_time"`
}

type MenuItem struct {
	ID              string    `json:"id"`
	RestaurantID    string    `json:"restaurant_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	Category        string    `json:"category"`
	ImageURL        string    `json:"image_url,omitempty"`
	IsAvailable     bool      `json:"is_available"`
	PreparationTime int       `json:"preparation_time"` // minutes
	CreatedAt       time.Time `json:"created_at"`
}

type MenuItemCreate struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	Category        string  `json:"category"`
	ImageURL        string  `json:"image_url,omitempty"`
	PreparationTime int     `json:"preparation_time"`
}
