package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"restaurant-staffing/internal/models"
	"restaurant-staffing/internal/store"
)

const dateLayout = "2006-01-02"

type chequeRepo struct {
	db *sql.DB
}

func scanCheque(row scanner) (models.Cheque, error) {
	var (
		c       models.Cheque
		created string
	)
	if err := row.Scan(&c.ID, &c.WaiterID, &created); err != nil {
		return c, err
	}

	day, err := time.Parse(dateLayout, created)
	if err != nil {
		return c, fmt.Errorf("parse cheque date %q: %w", created, err)
	}
	c.CreatedAt = day
	return c, nil
}

func (r *chequeRepo) FindByID(ctx context.Context, id int64) (*models.Cheque, error) {
	c, err := scanCheque(r.db.QueryRowContext(ctx, `SELECT id, waiter_id, created_on FROM cheques WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("find cheque %d: %w", id, notFound(err))
	}

	if c.Items, err = r.items(ctx, c.ID); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *chequeRepo) FindAllByWaiter(ctx context.Context, waiterID int64) ([]models.Cheque, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, waiter_id, created_on FROM cheques WHERE waiter_id = ? ORDER BY id ASC`, waiterID)
	if err != nil {
		return nil, fmt.Errorf("list cheques: %w", err)
	}

	var cheques []models.Cheque
	for rows.Next() {
		c, err := scanCheque(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan cheque: %w", err)
		}
		cheques = append(cheques, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cheques: %w", err)
	}

	// rows must be closed first: the pool holds a single connection
	for i := range cheques {
		if cheques[i].Items, err = r.items(ctx, cheques[i].ID); err != nil {
			return nil, err
		}
	}
	return cheques, nil
}

func (r *chequeRepo) items(ctx context.Context, chequeID int64) ([]models.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.restaurant_id, m.name, m.image, m.price, m.description, m.vegetarian
		FROM cheque_items ci
		JOIN menu_items m ON m.id = ci.menu_item_id
		WHERE ci.cheque_id = ?
		ORDER BY ci.id ASC
	`, chequeID)
	if err != nil {
		return nil, fmt.Errorf("list cheque items: %w", err)
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

func (r *chequeRepo) Create(ctx context.Context, c *models.Cheque) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO cheques (waiter_id, created_on) VALUES (?, ?) RETURNING id`,
			c.WaiterID, c.CreatedAt.Format(dateLayout),
		).Scan(&c.ID)
		if err != nil {
			return fmt.Errorf("insert cheque: %w", err)
		}

		for _, item := range c.Items {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO cheque_items (cheque_id, menu_item_id) VALUES (?, ?)`, c.ID, item.ID); err != nil {
				return fmt.Errorf("link menu item %d: %w", item.ID, err)
			}
		}
		return nil
	})
}

func (r *chequeRepo) AddItem(ctx context.Context, chequeID, menuItemID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cheque_items (cheque_id, menu_item_id) VALUES (?, ?)`, chequeID, menuItemID)
	if err != nil {
		return fmt.Errorf("link menu item %d to cheque %d: %w", menuItemID, chequeID, err)
	}
	return nil
}

func (r *chequeRepo) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cheque_items WHERE cheque_id = ?`, id); err != nil {
			return fmt.Errorf("clear cheque items: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM cheques WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete cheque %d: %w", id, err)
		}
		n, err := rowsAffected(res)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("delete cheque %d: %w", id, store.ErrNotFound)
		}
		return nil
	})
}
