package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"restaurant-staffing/internal/models"
	"restaurant-staffing/internal/store"
)

type restaurantRepo struct {
	db *sql.DB
}

func (r *restaurantRepo) FindByID(ctx context.Context, id int64) (*models.Restaurant, error) {
	var rest models.Restaurant
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, service, headcount, created_at FROM restaurants WHERE id = ?`, id,
	).Scan(&rest.ID, &rest.Name, &rest.Service, &rest.Headcount, &rest.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("find restaurant %d: %w", id, notFound(err))
	}
	return &rest, nil
}

func (r *restaurantRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM restaurants WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check restaurant %d: %w", id, err)
	}
	return exists, nil
}

func (r *restaurantRepo) Save(ctx context.Context, rest *models.Restaurant) error {
	if rest.ID == 0 {
		rest.CreatedAt = time.Now().UTC()
		err := r.db.QueryRowContext(ctx,
			`INSERT INTO restaurants (name, service, headcount, created_at) VALUES (?, ?, ?, ?) RETURNING id`,
			rest.Name, rest.Service, rest.Headcount, rest.CreatedAt,
		).Scan(&rest.ID)
		if err != nil {
			return fmt.Errorf("insert restaurant: %w", err)
		}
		return nil
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE restaurants SET name = ?, service = ? WHERE id = ?`, rest.Name, rest.Service, rest.ID)
	if err != nil {
		return fmt.Errorf("update restaurant %d: %w", rest.ID, err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("update restaurant %d: %w", rest.ID, store.ErrNotFound)
	}
	return nil
}

func (r *restaurantRepo) Admit(ctx context.Context, restaurantID, employeeID int64, ceiling int) (int, error) {
	var headcount int
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		count, err := countActive(ctx, tx, restaurantID)
		if err != nil {
			return err
		}

		count++
		if count > ceiling {
			return store.ErrNoVacancy
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE employees SET restaurant_id = ?, status = 'active' WHERE id = ? AND status = 'pending'`,
			restaurantID, employeeID)
		if err != nil {
			return fmt.Errorf("activate employee %d: %w", employeeID, err)
		}
		n, err := rowsAffected(res)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("activate employee %d: %w", employeeID, store.ErrNotFound)
		}

		if _, err := tx.ExecContext(ctx, `UPDATE restaurants SET headcount = ? WHERE id = ?`, count, restaurantID); err != nil {
			return fmt.Errorf("set headcount: %w", err)
		}

		headcount = count
		return nil
	})
	if err != nil {
		return 0, err
	}
	return headcount, nil
}

func (r *restaurantRepo) Release(ctx context.Context, restaurantID, employeeID int64) (int, error) {
	var headcount int
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := countActive(ctx, tx, restaurantID); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			`DELETE FROM employees WHERE id = ? AND restaurant_id = ?`, employeeID, restaurantID)
		if err != nil {
			return fmt.Errorf("delete employee %d: %w", employeeID, err)
		}
		n, err := rowsAffected(res)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("release employee %d: %w", employeeID, store.ErrNotFound)
		}

		if headcount, err = countActive(ctx, tx, restaurantID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `UPDATE restaurants SET headcount = ? WHERE id = ?`, headcount, restaurantID); err != nil {
			return fmt.Errorf("set headcount: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return headcount, nil
}

// countActive verifies the restaurant exists and returns its live active count
func countActive(ctx context.Context, tx *sql.Tx, restaurantID int64) (int, error) {
	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM restaurants WHERE id = ?`, restaurantID).Scan(&id); err != nil {
		return 0, fmt.Errorf("find restaurant %d: %w", restaurantID, notFound(err))
	}

	var count int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM employees WHERE restaurant_id = ? AND status = 'active'`, restaurantID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count employees: %w", err)
	}
	return count, nil
}
