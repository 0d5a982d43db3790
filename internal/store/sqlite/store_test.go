package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-staffing/internal/models"
	"restaurant-staffing/internal/store"
)

func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedRestaurant(t *testing.T, s *Store, service int) *models.Restaurant {
	t.Helper()
	r := &models.Restaurant{Name: "Navat", Service: service}
	require.NoError(t, s.Restaurants().Save(context.Background(), r))
	return r
}

func seedPending(t *testing.T, s *Store, email string, role models.Role) *models.Employee {
	t.Helper()
	e := &models.Employee{
		FirstName:    "Applicant",
		LastName:     email,
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
		Status:       models.StatusPending,
		Age:          22,
		Experience:   2,
	}
	require.NoError(t, s.Users().Save(context.Background(), e))
	return e
}

func seedMenuItem(t *testing.T, s *Store, restaurantID int64, name, price string) *models.MenuItem {
	t.Helper()
	m := &models.MenuItem{RestaurantID: restaurantID, Name: name, Price: models.MustPrice(price)}
	require.NoError(t, s.MenuItems().Save(context.Background(), m))
	return m
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "iteration %d", i)
		require.NoError(t, s.Close())
	}

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestUsers_SaveAndFind(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	e := seedPending(t, s, "a@example.com", models.RoleChef)
	require.NotZero(t, e.ID)

	got, err := s.Users().FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleChef, got.Role)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Nil(t, got.RestaurantID)

	exists, err := s.Users().ExistsByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = s.Users().FindByID(ctx, 999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsers_FindAllPendingInIDOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	r := seedRestaurant(t, s, 0)

	first := seedPending(t, s, "1@example.com", models.RoleWaiter)
	admitted := seedPending(t, s, "2@example.com", models.RoleWaiter)
	third := seedPending(t, s, "3@example.com", models.RoleAdmin)

	_, err := s.Restaurants().Admit(ctx, r.ID, admitted.ID, models.HeadcountCeiling)
	require.NoError(t, err)

	pending, err := s.Users().FindAllPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, third.ID, pending[1].ID)

	waiters, err := s.Users().FindAllByRestaurantAndRole(ctx, r.ID, models.RoleWaiter)
	require.NoError(t, err)
	require.Len(t, waiters, 1)
	assert.Equal(t, admitted.ID, waiters[0].ID)
	require.NotNil(t, waiters[0].RestaurantID)
	assert.Equal(t, r.ID, *waiters[0].RestaurantID)
}

func TestRestaurants_AdmitEnforcesCeiling(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	r := seedRestaurant(t, s, 0)

	for i := 1; i <= 3; i++ {
		e := seedPending(t, s, string(rune('a'+i))+"@example.com", models.RoleChef)
		headcount, err := s.Restaurants().Admit(ctx, r.ID, e.ID, 3)
		require.NoError(t, err)
		assert.Equal(t, i, headcount)
	}

	extra := seedPending(t, s, "extra@example.com", models.RoleChef)
	_, err := s.Restaurants().Admit(ctx, r.ID, extra.ID, 3)
	assert.ErrorIs(t, err, store.ErrNoVacancy)

	got, err := s.Restaurants().FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Headcount)

	still, err := s.Users().FindByID(ctx, extra.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, still.Status)
}

func TestRestaurants_AdmitRejectsActiveEmployee(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	r := seedRestaurant(t, s, 0)
	e := seedPending(t, s, "a@example.com", models.RoleWaiter)

	_, err := s.Restaurants().Admit(ctx, r.ID, e.ID, models.HeadcountCeiling)
	require.NoError(t, err)

	_, err = s.Restaurants().Admit(ctx, r.ID, e.ID, models.HeadcountCeiling)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Restaurants().Admit(ctx, 404, e.ID, models.HeadcountCeiling)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRestaurants_ReleaseRecomputesHeadcount(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	r := seedRestaurant(t, s, 0)

	a := seedPending(t, s, "a@example.com", models.RoleWaiter)
	b := seedPending(t, s, "b@example.com", models.RoleWaiter)
	for _, e := range []*models.Employee{a, b} {
		_, err := s.Restaurants().Admit(ctx, r.ID, e.ID, models.HeadcountCeiling)
		require.NoError(t, err)
	}

	headcount, err := s.Restaurants().Release(ctx, r.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, headcount)

	exists, err := s.Users().ExistsByID(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.Restaurants().Release(ctx, r.ID, a.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCheques_CreateKeepsOrderAndDuplicates(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	r := seedRestaurant(t, s, 10)
	w := seedPending(t, s, "w@example.com", models.RoleWaiter)
	_, err := s.Restaurants().Admit(ctx, r.ID, w.ID, models.HeadcountCeiling)
	require.NoError(t, err)

	soup := seedMenuItem(t, s, r.ID, "Soup", "15.00")
	plov := seedMenuItem(t, s, r.ID, "Plov", "25.00")

	c := &models.Cheque{
		WaiterID:  w.ID,
		CreatedAt: time.Date(2024, 3, 19, 0, 0, 0, 0, time.UTC),
		Items:     []models.MenuItem{*plov, *soup, *plov},
	}
	require.NoError(t, s.Cheques().Create(ctx, c))
	require.NotZero(t, c.ID)

	got, err := s.Cheques().FindByID(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 3)
	assert.Equal(t, []int64{plov.ID, soup.ID, plov.ID}, []int64{got.Items[0].ID, got.Items[1].ID, got.Items[2].ID})
	assert.Equal(t, "25.00", models.FormatDecimal(got.Items[0].Price))
	assert.Equal(t, c.CreatedAt, got.CreatedAt)

	require.NoError(t, s.Cheques().AddItem(ctx, c.ID, soup.ID))
	all, err := s.Cheques().FindAllByWaiter(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Len(t, all[0].Items, 4)
}

func TestCheques_DeleteClearsLinks(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	r := seedRestaurant(t, s, 0)
	w := seedPending(t, s, "w@example.com", models.RoleWaiter)
	_, err := s.Restaurants().Admit(ctx, r.ID, w.ID, models.HeadcountCeiling)
	require.NoError(t, err)
	item := seedMenuItem(t, s, r.ID, "Tea", "2.50")

	c := &models.Cheque{WaiterID: w.ID, CreatedAt: time.Now().UTC(), Items: []models.MenuItem{*item, *item}}
	require.NoError(t, s.Cheques().Create(ctx, c))

	require.NoError(t, s.Cheques().Delete(ctx, c.ID))

	var links int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM cheque_items WHERE cheque_id = ?`, c.ID).Scan(&links))
	assert.Zero(t, links)

	_, err = s.Cheques().FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	cheques, err := s.Cheques().FindAllByWaiter(ctx, w.ID)
	require.NoError(t, err)
	assert.Empty(t, cheques)

	assert.ErrorIs(t, s.Cheques().Delete(ctx, c.ID), store.ErrNotFound)
}

func TestUsers_DeleteCascadesCheques(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	r := seedRestaurant(t, s, 0)
	w := seedPending(t, s, "w@example.com", models.RoleWaiter)
	_, err := s.Restaurants().Admit(ctx, r.ID, w.ID, models.HeadcountCeiling)
	require.NoError(t, err)
	item := seedMenuItem(t, s, r.ID, "Tea", "2.50")

	c := &models.Cheque{WaiterID: w.ID, CreatedAt: time.Now().UTC(), Items: []models.MenuItem{*item}}
	require.NoError(t, s.Cheques().Create(ctx, c))

	_, err = s.Restaurants().Release(ctx, r.ID, w.ID)
	require.NoError(t, err)

	var links int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM cheque_items`).Scan(&links))
	assert.Zero(t, links)
}
