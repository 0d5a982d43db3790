package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"restaurant-staffing/internal/database"
	"restaurant-staffing/internal/models"
	"restaurant-staffing/internal/store"
)

type chequeRepo struct {
	db *database.DB
}

func (r *chequeRepo) FindByID(ctx context.Context, id int64) (*models.Cheque, error) {
	var c models.Cheque
	if err := r.db.QueryRow(ctx, database.GetChequeByIDSQL, id).Scan(&c.ID, &c.WaiterID, &c.CreatedAt); err != nil {
		return nil, fmt.Errorf("find cheque %d: %w", id, notFound(err))
	}

	cheques := []models.Cheque{c}
	if err := r.loadItems(ctx, cheques); err != nil {
		return nil, err
	}
	return &cheques[0], nil
}

func (r *chequeRepo) FindAllByWaiter(ctx context.Context, waiterID int64) ([]models.Cheque, error) {
	rows, err := r.db.Query(ctx, database.ListChequesByWaiterSQL, waiterID)
	if err != nil {
		return nil, fmt.Errorf("list cheques: %w", err)
	}

	var cheques []models.Cheque
	for rows.Next() {
		var c models.Cheque
		if err := rows.Scan(&c.ID, &c.WaiterID, &c.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan cheque: %w", err)
		}
		cheques = append(cheques, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cheques: %w", err)
	}

	if err := r.loadItems(ctx, cheques); err != nil {
		return nil, err
	}
	return cheques, nil
}

// loadItems fills Items of each cheque in link order with one query
func (r *chequeRepo) loadItems(ctx context.Context, cheques []models.Cheque) error {
	if len(cheques) == 0 {
		return nil
	}

	ids := make([]int64, len(cheques))
	index := make(map[int64]int, len(cheques))
	for i, c := range cheques {
		ids[i] = c.ID
		index[c.ID] = i
	}

	rows, err := r.db.Query(ctx, database.ListChequeItemsSQL, ids)
	if err != nil {
		return fmt.Errorf("list cheque items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			chequeID int64
			m        models.MenuItem
			price    string
		)
		if err := rows.Scan(&chequeID, &m.ID, &m.RestaurantID, &m.Name, &m.Image, &price, &m.Description, &m.Vegetarian); err != nil {
			return fmt.Errorf("scan cheque item: %w", err)
		}
		if m.Price, err = models.ParsePrice(price); err != nil {
			return err
		}
		i := index[chequeID]
		cheques[i].Items = append(cheques[i].Items, m)
	}
	return rows.Err()
}

func (r *chequeRepo) Create(ctx context.Context, c *models.Cheque) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, database.InsertChequeSQL, c.WaiterID, c.CreatedAt).Scan(&c.ID); err != nil {
			return fmt.Errorf("insert cheque: %w", err)
		}

		for _, item := range c.Items {
			if _, err := tx.Exec(ctx, database.InsertChequeItemSQL, c.ID, item.ID); err != nil {
				return fmt.Errorf("link menu item %d: %w", item.ID, err)
			}
		}
		return nil
	})
}

func (r *chequeRepo) AddItem(ctx context.Context, chequeID, menuItemID int64) error {
	if _, err := r.db.Exec(ctx, database.InsertChequeItemSQL, chequeID, menuItemID); err != nil {
		return fmt.Errorf("link menu item %d to cheque %d: %w", menuItemID, chequeID, err)
	}
	return nil
}

func (r *chequeRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, database.DeleteChequeItemsSQL, id); err != nil {
			return fmt.Errorf("clear cheque items: %w", err)
		}

		tag, err := tx.Exec(ctx, database.DeleteChequeSQL, id)
		if err != nil {
			return fmt.Errorf("delete cheque %d: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("delete cheque %d: %w", id, store.ErrNotFound)
		}
		return nil
	})
}
