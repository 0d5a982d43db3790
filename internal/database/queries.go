package database

// Migration bookkeeping
const (
	CreateMigrationsTableSQL = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			migration_name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)`

	SelectAppliedMigrationsSQL = `SELECT migration_name FROM schema_migrations`

	InsertMigrationSQL = `INSERT INTO schema_migrations (migration_name) VALUES ($1)`
)

// Employee queries
const (
	employeeColumns = `id, first_name, last_name, email, password_hash, phone_number,
			   role, status, age, experience, restaurant_id, created_at`

	InsertEmployeeSQL = `
		INSERT INTO employees (first_name, last_name, email, password_hash, phone_number,
			role, status, age, experience, restaurant_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	UpdateEmployeeSQL = `
		UPDATE employees SET first_name = $2, last_name = $3, email = $4, password_hash = $5,
			phone_number = $6, role = $7, age = $8, experience = $9
		WHERE id = $1`

	GetEmployeeByIDSQL = `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	EmployeeExistsSQL = `SELECT EXISTS (SELECT 1 FROM employees WHERE id = $1)`

	EmployeeEmailExistsSQL = `SELECT EXISTS (SELECT 1 FROM employees WHERE email = $1)`

	DeleteEmployeeSQL = `DELETE FROM employees WHERE id = $1`

	ListPendingEmployeesSQL = `
		SELECT ` + employeeColumns + ` FROM employees
		WHERE status = 'pending'
		ORDER BY id ASC`

	ListEmployeesByRestaurantAndRoleSQL = `
		SELECT ` + employeeColumns + ` FROM employees
		WHERE restaurant_id = $1 AND role = $2 AND status = 'active'
		ORDER BY id ASC`
)

// Restaurant queries
const (
	InsertRestaurantSQL = `
		INSERT INTO restaurants (name, service, headcount)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	UpdateRestaurantSQL = `UPDATE restaurants SET name = $2, service = $3 WHERE id = $1`

	GetRestaurantByIDSQL = `SELECT id, name, service, headcount, created_at FROM restaurants WHERE id = $1`

	RestaurantExistsSQL = `SELECT EXISTS (SELECT 1 FROM restaurants WHERE id = $1)`

	LockRestaurantSQL = `SELECT id FROM restaurants WHERE id = $1 FOR UPDATE`

	CountActiveEmployeesSQL = `
		SELECT COUNT(*) FROM employees
		WHERE restaurant_id = $1 AND status = 'active'`

	ActivateEmployeeSQL = `
		UPDATE employees SET restaurant_id = $1, status = 'active'
		WHERE id = $2 AND status = 'pending'`

	DeleteRestaurantEmployeeSQL = `DELETE FROM employees WHERE id = $1 AND restaurant_id = $2`

	SetHeadcountSQL = `UPDATE restaurants SET headcount = $2 WHERE id = $1`
)

// Menu item queries
const (
	menuItemColumns = `id, restaurant_id, name, image, price::text, description, vegetarian`

	InsertMenuItemSQL = `
		INSERT INTO menu_items (restaurant_id, name, image, price, description, vegetarian)
		VALUES ($1, $2, $3, $4::numeric, $5, $6)
		RETURNING id`

	ListMenuItemsSQL = `SELECT ` + menuItemColumns + ` FROM menu_items ORDER BY id ASC`

	ListMenuItemsByRestaurantSQL = `
		SELECT ` + menuItemColumns + ` FROM menu_items
		WHERE restaurant_id = $1
		ORDER BY id ASC`
)

// Cheque queries
const (
	InsertChequeSQL = `
		INSERT INTO cheques (waiter_id, created_at)
		VALUES ($1, $2)
		RETURNING id`

	InsertChequeItemSQL = `INSERT INTO cheque_items (cheque_id, menu_item_id) VALUES ($1, $2)`

	GetChequeByIDSQL = `SELECT id, waiter_id, created_at FROM cheques WHERE id = $1`

	ListChequesByWaiterSQL = `
		SELECT id, waiter_id, created_at FROM cheques
		WHERE waiter_id = $1
		ORDER BY id ASC`

	ListChequeItemsSQL = `
		SELECT ci.cheque_id, m.id, m.restaurant_id, m.name, m.image, m.price::text, m.description, m.vegetarian
		FROM cheque_items ci
		JOIN menu_items m ON m.id = ci.menu_item_id
		WHERE ci.cheque_id = ANY($1)
		ORDER BY ci.cheque_id ASC, ci.id ASC`

	DeleteChequeItemsSQL = `DELETE FROM cheque_items WHERE cheque_id = $1`

	DeleteChequeSQL = `DELETE FROM cheques WHERE id = $1`
)
