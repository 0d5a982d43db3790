// Package postgres implements the store contracts on PostgreSQL via pgx.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"

	"restaurant-staffing/internal/database"
	"restaurant-staffing/internal/store"
)

// Store is the PostgreSQL backend
type Store struct {
	db *database.DB
}

func New(db *database.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() store.Users             { return &userRepo{db: s.db} }
func (s *Store) Restaurants() store.Restaurants { return &restaurantRepo{db: s.db} }
func (s *Store) MenuItems() store.MenuItems     { return &menuItemRepo{db: s.db} }
func (s *Store) Cheques() store.Cheques         { return &chequeRepo{db: s.db} }

func (s *Store) Close() error {
	s.db.Close()
	return nil
}

// notFound maps pgx.ErrNoRows to store.ErrNotFound
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

var _ store.Store = (*Store)(nil)
