package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"restaurant-staffing/internal/database"
	"restaurant-staffing/internal/models"
	"restaurant-staffing/internal/store"
)

type restaurantRepo struct {
	db *database.DB
}

func (r *restaurantRepo) FindByID(ctx context.Context, id int64) (*models.Restaurant, error) {
	var rest models.Restaurant
	err := r.db.QueryRow(ctx, database.GetRestaurantByIDSQL, id).
		Scan(&rest.ID, &rest.Name, &rest.Service, &rest.Headcount, &rest.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("find restaurant %d: %w", id, notFound(err))
	}
	return &rest, nil
}

func (r *restaurantRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, database.RestaurantExistsSQL, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check restaurant %d: %w", id, err)
	}
	return exists, nil
}

// Save inserts or updates name and service. Headcount is only written on insert;
// afterwards Admit and Release own it.
func (r *restaurantRepo) Save(ctx context.Context, rest *models.Restaurant) error {
	if rest.ID == 0 {
		err := r.db.QueryRow(ctx, database.InsertRestaurantSQL, rest.Name, rest.Service, rest.Headcount).
			Scan(&rest.ID, &rest.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert restaurant: %w", err)
		}
		return nil
	}

	tag, err := r.db.Exec(ctx, database.UpdateRestaurantSQL, rest.ID, rest.Name, rest.Service)
	if err != nil {
		return fmt.Errorf("update restaurant %d: %w", rest.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update restaurant %d: %w", rest.ID, store.ErrNotFound)
	}
	return nil
}

func (r *restaurantRepo) Admit(ctx context.Context, restaurantID, employeeID int64, ceiling int) (int, error) {
	var headcount int
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		count, err := lockAndCount(ctx, tx, restaurantID)
		if err != nil {
			return err
		}

		count++
		if count > ceiling {
			return store.ErrNoVacancy
		}

		tag, err := tx.Exec(ctx, database.ActivateEmployeeSQL, restaurantID, employeeID)
		if err != nil {
			return fmt.Errorf("activate employee %d: %w", employeeID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("activate employee %d: %w", employeeID, store.ErrNotFound)
		}

		if _, err := tx.Exec(ctx, database.SetHeadcountSQL, restaurantID, count); err != nil {
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
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := lockAndCount(ctx, tx, restaurantID); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, database.DeleteRestaurantEmployeeSQL, employeeID, restaurantID)
		if err != nil {
			return fmt.Errorf("delete employee %d: %w", employeeID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("release employee %d: %w", employeeID, store.ErrNotFound)
		}

		if err := tx.QueryRow(ctx, database.CountActiveEmployeesSQL, restaurantID).Scan(&headcount); err != nil {
			return fmt.Errorf("count employees: %w", err)
		}

		if _, err := tx.Exec(ctx, database.SetHeadcountSQL, restaurantID, headcount); err != nil {
			return fmt.Errorf("set headcount: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return headcount, nil
}

// lockAndCount takes a row lock on the restaurant so concurrent admissions
// serialize, then reads the live active employee count
func lockAndCount(ctx context.Context, tx pgx.Tx, restaurantID int64) (int, error) {
	var id int64
	if err := tx.QueryRow(ctx, database.LockRestaurantSQL, restaurantID).Scan(&id); err != nil {
		return 0, fmt.Errorf("lock restaurant %d: %w", restaurantID, notFound(err))
	}

	var count int
	if err := tx.QueryRow(ctx, database.CountActiveEmployeesSQL, restaurantID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count employees: %w", err)
	}
	return count, nil
}
