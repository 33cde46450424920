package models

import "time"

// UserType defines the roles the platform knows about
type UserType string

const (
	TypeCustomer   UserType = "customer"
	TypeDriver     UserType = "driver"
	TypeRestaurant UserType = "restaurant"
	TypeAdmin      UserType = "admin"
)

// Valid reports whether the role is one the platform accepts.
func (t UserType) Valid() bool {
	switch t {
	case TypeCustomer, TypeDriver, TypeRestaurant, TypeAdmin:
		return true
	}
	return false
}

// Location is a lat/lng coordinate pair as the platform serializes it
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	UserType  UserType  `json:"user_type"`
	Location  *Location `json:"location,omitempty"`
	Address   string    `json:"address,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserCreate is the registration payload
type UserCreate struct {
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
	UserType UserType  `json:"user_type"`
	Location *Location `json:"location,omitempty"`
	Address  string    `json:"address,omitempty"`
}
