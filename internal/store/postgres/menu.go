package postgres

import (
	"context"
	"fmt"

	"restaurant-staffing/internal/database"
	"restaurant-staffing/internal/models"
)

type menuItemRepo struct {
	db *database.DB
}

func (r *menuItemRepo) FindAll(ctx context.Context) ([]models.MenuItem, error) {
	return r.list(ctx, database.ListMenuItemsSQL)
}

func (r *menuItemRepo) FindAllByRestaurant(ctx context.Context, restaurantID int64) ([]models.MenuItem, error) {
	return r.list(ctx, database.ListMenuItemsByRestaurantSQL, restaurantID)
}

func (r *menuItemRepo) Save(ctx context.Context, m *models.MenuItem) error {
	err := r.db.QueryRow(ctx, database.InsertMenuItemSQL,
		m.RestaurantID, m.Name, m.Image, models.FormatDecimal(m.Price), m.Description, m.Vegetarian,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("insert menu item: %w", err)
	}
	return nil
}

func (r *menuItemRepo) list(ctx context.Context, sql string, args ...interface{}) ([]models.MenuItem, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	var out []models.MenuItem
	for rows.Next() {
		var (
			m     models.MenuItem
			price string
		)
		if err := rows.Scan(&m.ID, &m.RestaurantID, &m.Name, &m.Image, &price, &m.Description, &m.Vegetarian); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		if m.Price, err = models.ParsePrice(price); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
