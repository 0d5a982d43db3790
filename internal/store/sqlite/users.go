package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"restaurant-staffing/internal/models"
	"restaurant-staffing/internal/store"
)

const employeeColumns = `id, first_name, last_name, email, password_hash, phone_number,
	role, status, age, experience, restaurant_id, created_at`

type userRepo struct {
	db *sql.DB
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (*models.Employee, error) {
	var e models.Employee
	err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.PasswordHash, &e.PhoneNumber,
		&e.Role, &e.Status, &e.Age, &e.Experience, &e.RestaurantID, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *userRepo) FindByID(ctx context.Context, id int64) (*models.Employee, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)
	e, err := scanEmployee(row)
	if err != nil {
		return nil, fmt.Errorf("find employee %d: %w", id, notFound(err))
	}
	return e, nil
}

func (r *userRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM employees WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check employee %d: %w", id, err)
	}
	return exists, nil
}

func (r *userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM employees WHERE email = ?)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check employee email: %w", err)
	}
	return exists, nil
}

func (r *userRepo) Save(ctx context.Context, e *models.Employee) error {
	if e.ID == 0 {
		e.CreatedAt = time.Now().UTC()
		err := r.db.QueryRowContext(ctx, `
			INSERT INTO employees
			(first_name, last_name, email, password_hash, phone_number, role, status, age, experience, restaurant_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id
		`,
			e.FirstName, e.LastName, e.Email, e.PasswordHash, e.PhoneNumber,
			string(e.Role), string(e.Status), e.Age, e.Experience, e.RestaurantID, e.CreatedAt,
		).Scan(&e.ID)
		if err != nil {
			return fmt.Errorf("insert employee: %w", err)
		}
		return nil
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE employees SET first_name = ?, last_name = ?, email = ?, password_hash = ?,
			phone_number = ?, role = ?, age = ?, experience = ?
		WHERE id = ?
	`,
		e.FirstName, e.LastName, e.Email, e.PasswordHash, e.PhoneNumber,
		string(e.Role), e.Age, e.Experience, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update employee %d: %w", e.ID, err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("update employee %d: %w", e.ID, store.ErrNotFound)
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete employee %d: %w", id, err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("delete employee %d: %w", id, store.ErrNotFound)
	}
	return nil
}

func (r *userRepo) FindAllPending(ctx context.Context) ([]models.Employee, error) {
	return r.list(ctx, `SELECT `+employeeColumns+` FROM employees WHERE status = 'pending' ORDER BY id ASC`)
}

func (r *userRepo) FindAllByRestaurantAndRole(ctx context.Context, restaurantID int64, role models.Role) ([]models.Employee, error) {
	return r.list(ctx, `
		SELECT `+employeeColumns+` FROM employees
		WHERE restaurant_id = ? AND role = ? AND status = 'active'
		ORDER BY id ASC
	`, restaurantID, string(role))
}

func (r *userRepo) list(ctx context.Context, query string, args ...any) ([]models.Employee, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var out []models.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}
