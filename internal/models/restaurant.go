package models

import (
	"time"

	"github.com/cockroachdb/apd/v3"
)

// Restaurant owns a menu and a bounded set of employees
type Restaurant struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Service   int       `json:"service" db:"service"`
	Headcount int       `json:"headcount" db:"headcount"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// MenuItem is a priced dish on a restaurant's menu
type MenuItem struct {
	ID           int64       `json:"id" db:"id"`
	RestaurantID int64       `json:"restaurant_id" db:"restaurant_id"`
	Name         string      `json:"name" db:"name"`
	Image        string      `json:"image" db:"image"`
	Price        apd.Decimal `json:"-" db:"price"`
	Description  string      `json:"description" db:"description"`
	Vegetarian   bool        `json:"vegetarian" db:"vegetarian"`
}

// Cheque is an order authored by a waiter. Items keep insertion order
// and may contain the same menu item more than once.
type Cheque struct {
	ID        int64      `json:"id" db:"id"`
	WaiterID  int64      `json:"waiter_id" db:"waiter_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	Items     []MenuItem `json:"items"`
}
