package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"restaurant-staffing/internal/database"
	"restaurant-staffing/internal/models"
	"restaurant-staffing/internal/store"
)

type userRepo struct {
	db *database.DB
}

func scanEmployee(row pgx.Row) (*models.Employee, error) {
	var e models.Employee
	err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.PasswordHash, &e.PhoneNumber,
		&e.Role, &e.Status, &e.Age, &e.Experience, &e.RestaurantID, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *userRepo) FindByID(ctx context.Context, id int64) (*models.Employee, error) {
	e, err := scanEmployee(r.db.QueryRow(ctx, database.GetEmployeeByIDSQL, id))
	if err != nil {
		return nil, fmt.Errorf("find employee %d: %w", id, notFound(err))
	}
	return e, nil
}

func (r *userRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, database.EmployeeExistsSQL, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check employee %d: %w", id, err)
	}
	return exists, nil
}

func (r *userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, database.EmployeeEmailExistsSQL, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("check employee email: %w", err)
	}
	return exists, nil
}

func (r *userRepo) Save(ctx context.Context, e *models.Employee) error {
	if e.ID == 0 {
		err := r.db.QueryRow(ctx, database.InsertEmployeeSQL,
			e.FirstName, e.LastName, e.Email, e.PasswordHash, e.PhoneNumber,
			e.Role, e.Status, e.Age, e.Experience, e.RestaurantID,
		).Scan(&e.ID, &e.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert employee: %w", err)
		}
		return nil
	}

	tag, err := r.db.Exec(ctx, database.UpdateEmployeeSQL,
		e.ID, e.FirstName, e.LastName, e.Email, e.PasswordHash, e.PhoneNumber,
		e.Role, e.Age, e.Experience,
	)
	if err != nil {
		return fmt.Errorf("update employee %d: %w", e.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update employee %d: %w", e.ID, store.ErrNotFound)
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, database.DeleteEmployeeSQL, id)
	if err != nil {
		return fmt.Errorf("delete employee %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete employee %d: %w", id, store.ErrNotFound)
	}
	return nil
}

func (r *userRepo) FindAllPending(ctx context.Context) ([]models.Employee, error) {
	return r.list(ctx, database.ListPendingEmployeesSQL)
}

func (r *userRepo) FindAllByRestaurantAndRole(ctx context.Context, restaurantID int64, role models.Role) ([]models.Employee, error) {
	return r.list(ctx, database.ListEmployeesByRestaurantAndRoleSQL, restaurantID, role)
}

func (r *userRepo) list(ctx context.Context, sql string, args ...interface{}) ([]models.Employee, error) {
	rows, err := r.db.Query(ctx, sql, args...)
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
