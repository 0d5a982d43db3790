// Package store defines the persistence contracts the admission and order
// engines depend on. Implementations live in the postgres and sqlite
// subpackages.
package store

import (
	"context"
	"errors"
	"fmt"

	"restaurant-staffing/internal/models"
)

var (
	// ErrNotFound is returned when a referenced row does not exist
	ErrNotFound = errors.New("not found")

	// ErrNoVacancy is returned by Admit when the restaurant is at its ceiling
	ErrNoVacancy = errors.New("no vacancy")
)

// Users persists employees and pending applicants
type Users interface {
	FindByID(ctx context.Context, id int64) (*models.Employee, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Save inserts e when e.ID is zero and updates the profile fields otherwise.
	// It never changes restaurant assignment or status of an existing row.
	Save(ctx context.Context, e *models.Employee) error
	// Delete removes the employee together with their cheques and cheque items
	Delete(ctx context.Context, id int64) error
	FindAllPending(ctx context.Context) ([]models.Employee, error)
	FindAllByRestaurantAndRole(ctx context.Context, restaurantID int64, role models.Role) ([]models.Employee, error)
}

// Restaurants persists restaurants and owns headcount changes
type Restaurants interface {
	FindByID(ctx context.Context, id int64) (*models.Restaurant, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	Save(ctx context.Context, r *models.Restaurant) error
	// Admit assigns a pending employee to the restaurant if the live count of
	// active employees plus one stays within ceiling. The check and the write
	// happen in one transaction. Returns the new headcount.
	Admit(ctx context.Context, restaurantID, employeeID int64, ceiling int) (int, error)
	// Release deletes an employee of the restaurant and recomputes headcount
	// from the live count. Returns the new headcount.
	Release(ctx context.Context, restaurantID, employeeID int64) (int, error)
}

// MenuItems reads and writes the restaurant catalogue
type MenuItems interface {
	FindAll(ctx context.Context) ([]models.MenuItem, error)
	FindAllByRestaurant(ctx context.Context, restaurantID int64) ([]models.MenuItem, error)
	Save(ctx context.Context, m *models.MenuItem) error
}

// Cheques persists cheques and the cheque_items join relation.
// Items are returned in link insertion order.
type Cheques interface {
	FindByID(ctx context.Context, id int64) (*models.Cheque, error)
	FindAllByWaiter(ctx context.Context, waiterID int64) ([]models.Cheque, error)
	// Create inserts the cheque and one link per entry of c.Items atomically
	Create(ctx context.Context, c *models.Cheque) error
	AddItem(ctx context.Context, chequeID, menuItemID int64) error
	// Delete clears every link of the cheque and removes the record atomically
	Delete(ctx context.Context, id int64) error
}

// Store groups the repositories of one backend
type Store interface {
	Users() Users
	Restaurants() Restaurants
	MenuItems() MenuItems
	Cheques() Cheques
	Close() error
}

// ServiceCharge returns the service value of the employee's restaurant.
// An unassigned employee has none.
func ServiceCharge(ctx context.Context, restaurants Restaurants, e *models.Employee) (int, error) {
	if e.RestaurantID == nil {
		return 0, nil
	}
	rest, err := restaurants.FindByID(ctx, *e.RestaurantID)
	if err != nil {
		return 0, fmt.Errorf("load restaurant of employee %d: %w", e.ID, err)
	}
	return rest.Service, nil
}
