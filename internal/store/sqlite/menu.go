package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"restaurant-staffing/internal/models"
)

const menuItemColumns = `id, restaurant_id, name, image, price, description, vegetarian`

type menuItemRepo struct {
	db *sql.DB
}

func scanMenuItem(row scanner) (models.MenuItem, error) {
	var (
		m     models.MenuItem
		price string
	)
	if err := row.Scan(&m.ID, &m.RestaurantID, &m.Name, &m.Image, &price, &m.Description, &m.Vegetarian); err != nil {
		return m, fmt.Errorf("scan menu item: %w", err)
	}

	p, err := models.ParsePrice(price)
	if err != nil {
		return m, err
	}
	m.Price = p
	return m, nil
}

func (r *menuItemRepo) FindAll(ctx context.Context) ([]models.MenuItem, error) {
	return r.list(ctx, `SELECT `+menuItemColumns+` FROM menu_items ORDER BY id ASC`)
}

func (r *menuItemRepo) FindAllByRestaurant(ctx context.Context, restaurantID int64) ([]models.MenuItem, error) {
	return r.list(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE restaurant_id = ? ORDER BY id ASC`, restaurantID)
}

func (r *menuItemRepo) Save(ctx context.Context, m *models.MenuItem) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO menu_items (restaurant_id, name, image, price, description, vegetarian)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`,
		m.RestaurantID, m.Name, m.Image, models.FormatDecimal(m.Price), m.Description, m.Vegetarian,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("insert menu item: %w", err)
	}
	return nil
}

func (r *menuItemRepo) list(ctx context.Context, query string, args ...any) ([]models.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	var out []models.MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
