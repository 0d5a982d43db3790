// Package testutil holds fixtures shared by service tests: a SQLite-backed
// store in a temp dir, seed helpers and an in-memory event recorder.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"restaurant-staffing/internal/models"
	"restaurant-staffing/internal/store/sqlite"
)

// NewStore opens a fresh SQLite store that is closed when the test ends
func NewStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// SeedRestaurant inserts a restaurant with the given service charge
func SeedRestaurant(t *testing.T, s *sqlite.Store, name string, service int) *models.Restaurant {
	t.Helper()
	r := &models.Restaurant{Name: name, Service: service}
	require.NoError(t, s.Restaurants().Save(context.Background(), r))
	return r
}

// SeedApplicant inserts a pending employee with a unique email
func SeedApplicant(t *testing.T, s *sqlite.Store, n int, role models.Role) *models.Employee {
	t.Helper()
	e := &models.Employee{
		FirstName:    "Applicant",
		LastName:     fmt.Sprintf("No%d", n),
		Email:        fmt.Sprintf("applicant%d@example.com", n),
		PasswordHash: "x",
		PhoneNumber:  "+996555000000",
		Role:         role,
		Status:       models.StatusPending,
		Age:          24,
		Experience:   2,
	}
	require.NoError(t, s.Users().Save(context.Background(), e))
	return e
}

// SeedStaff inserts an employee and admits them into the restaurant
func SeedStaff(t *testing.T, s *sqlite.Store, restaurantID int64, n int, role models.Role) *models.Employee {
	t.Helper()
	e := SeedApplicant(t, s, n, role)
	_, err := s.Restaurants().Admit(context.Background(), restaurantID, e.ID, models.HeadcountCeiling)
	require.NoError(t, err)

	got, err := s.Users().FindByID(context.Background(), e.ID)
	require.NoError(t, err)
	return got
}

// SeedMenuItem inserts a menu item priced from a decimal literal
func SeedMenuItem(t *testing.T, s *sqlite.Store, restaurantID int64, name, price string) *models.MenuItem {
	t.Helper()
	m := &models.MenuItem{
		RestaurantID: restaurantID,
		Name:         name,
		Image:        name + ".jpg",
		Price:        models.MustPrice(price),
		Description:  name,
	}
	require.NoError(t, s.MenuItems().Save(context.Background(), m))
	return m
}

// RecordingPublisher keeps every published event in memory
type RecordingPublisher struct {
	mu     sync.Mutex
	events []models.StaffEvent
	Err    error
}

func (p *RecordingPublisher) PublishEvent(_ context.Context, event *models.StaffEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, *event)
	return nil
}

// Types returns the recorded event types in publish order
func (p *RecordingPublisher) Types() []models.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// Last returns the most recent event
func (p *RecordingPublisher) Last() models.StaffEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return models.StaffEvent{}
	}
	return p.events[len(p.events)-1]
}
