package staff

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-staffing/internal/apperror"
	"restaurant-staffing/internal/logger"
	"restaurant-staffing/internal/models"
	"restaurant-staffing/internal/store/sqlite"
	"restaurant-staffing/internal/testutil"
)

func newTestService(t *testing.T) (*Service, *sqlite.Store, *testutil.RecordingPublisher) {
	t.Helper()
	st := testutil.NewStore(t)
	pub := &testutil.RecordingPublisher{}
	svc := NewService(st, pub, logger.Discard())
	svc.now = func() time.Time { return time.Date(2024, 3, 17, 12, 0, 0, 0, time.UTC) }
	return svc, st, pub
}

func validRequest() *WaiterRequest {
	return &WaiterRequest{
		FirstName:   "Timur",
		LastName:    "Asanov",
		Email:       "timur@example.com",
		Password:    "secret",
		PhoneNumber: "+996555123456",
		Experience:  2,
		DateOfBirth: "2000-01-02",
	}
}

func TestCreateWaiter(t *testing.T) {
	svc, st, pub := newTestService(t)
	ctx := context.Background()
	r := testutil.SeedRestaurant(t, st, "Navat", 10)

	resp, err := svc.CreateWaiter(ctx, r.ID, validRequest(), "req")
	require.NoError(t, err)
	assert.Equal(t, "Waiter with full name: Timur Asanov successfully saved", resp.Message)

	waiters, err := svc.ListWaiters(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, waiters, 1)
	assert.Equal(t, 24, waiters[0].Age)
	assert.Equal(t, r.ID, waiters[0].RestaurantID)

	rest, err := st.Restaurants().FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, rest.Headcount)

	last := pub.Last()
	assert.Equal(t, models.EventWaiterHired, last.Type)
	assert.Equal(t, 1, last.Headcount)
}

func TestCreateWaiter_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*WaiterRequest)
		message string
	}{
		{"no phone", func(r *WaiterRequest) { r.PhoneNumber = "" }, "Phone number is required"},
		{"short phone", func(r *WaiterRequest) { r.PhoneNumber = "+99655512345" }, "Phone number must be 13 characters long"},
		{"foreign phone", func(r *WaiterRequest) { r.PhoneNumber = "+700555123456" }, "Phone number must start with +996"},
		{"too young", func(r *WaiterRequest) { r.DateOfBirth = "2007-01-02" }, "The age of the waiter must be between 18 and 30 years old"},
		{"too old", func(r *WaiterRequest) { r.DateOfBirth = "1990-01-02" }, "The age of the waiter must be between 18 and 30 years old"},
		{"no experience", func(r *WaiterRequest) { r.Experience = 0 }, "The experience of the waiter must be at least 1 year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, st, _ := newTestService(t)
			r := testutil.SeedRestaurant(t, st, "Navat", 10)
			req := validRequest()
			tt.mutate(req)

			_, err := svc.CreateWaiter(context.Background(), r.ID, req, "req")
			require.Error(t, err)
			assert.Equal(t, apperror.CodeBadRequest, apperror.GetCode(err))
			assert.Equal(t, tt.message, err.Error())

			exists, err := st.Users().ExistsByEmail(context.Background(), req.Email)
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestCreateWaiter_DuplicateEmail(t *testing.T) {
	svc, st, _ := newTestService(t)
	r := testutil.SeedRestaurant(t, st, "Navat", 10)
	testutil.SeedApplicant(t, st, 1, models.RoleChef)

	req := validRequest()
	req.Email = "applicant1@example.com"

	_, err := svc.CreateWaiter(context.Background(), r.ID, req, "req")
	require.Error(t, err)
	assert.Equal(t, "Email must be unique", err.Error())
}

func TestCreateWaiter_UnknownRestaurant(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateWaiter(context.Background(), 404, validRequest(), "req")
	require.Error(t, err)
	assert.Equal(t, "Restaurant with id: 404 is not found", err.Error())
}

func TestCreateWaiter_FullRestaurant(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()
	r := testutil.SeedRestaurant(t, st, "Navat", 10)
	for i := 1; i <= models.HeadcountCeiling; i++ {
		testutil.SeedStaff(t, st, r.ID, i, models.RoleChef)
	}

	_, err := svc.CreateWaiter(ctx, r.ID, validRequest(), "req")
	require.Error(t, err)
	assert.Equal(t, models.NoVacanciesMessage, err.Error())

	exists, err := st.Users().ExistsByEmail(ctx, "timur@example.com")
	require.NoError(t, err)
	assert.False(t, exists, "unadmitted waiter must not linger as pending")

	rest, err := st.Restaurants().FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.HeadcountCeiling, rest.Headcount)
}

func TestGetWaiter_OnlyActiveWaiters(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()
	r := testutil.SeedRestaurant(t, st, "Navat", 10)
	waiter := testutil.SeedStaff(t, st, r.ID, 1, models.RoleWaiter)
	chef := testutil.SeedStaff(t, st, r.ID, 2, models.RoleChef)
	pending := testutil.SeedApplicant(t, st, 3, models.RoleWaiter)

	got, err := svc.GetWaiter(ctx, waiter.ID)
	require.NoError(t, err)
	assert.Equal(t, "applicant1@example.com", got.Email)

	for _, id := range []int64{chef.ID, pending.ID, 404} {
		_, err := svc.GetWaiter(ctx, id)
		assert.True(t, apperror.IsNotFound(err), "id %d", id)
	}
}

func TestUpdateWaiter(t *testing.T) {
	svc, st, pub := newTestService(t)
	ctx := context.Background()
	r := testutil.SeedRestaurant(t, st, "Navat", 10)
	waiter := testutil.SeedStaff(t, st, r.ID, 1, models.RoleWaiter)
	testutil.SeedApplicant(t, st, 2, models.RoleChef)

	req := validRequest()
	req.Email = "applicant2@example.com"
	_, err := svc.UpdateWaiter(ctx, waiter.ID, req, "req")
	require.Error(t, err)
	assert.Equal(t, "Email must be unique", err.Error())

	req.Email = "applicant1@example.com"
	resp, err := svc.UpdateWaiter(ctx, waiter.ID, req, "req")
	require.NoError(t, err)
	assert.Equal(t, "Waiter with full name: Timur Asanov successfully updated", resp.Message)

	got, err := st.Users().FindByID(ctx, waiter.ID)
	require.NoError(t, err)
	assert.Equal(t, "Timur", got.FirstName)
	assert.Equal(t, models.StatusActive, got.Status)
	require.NotNil(t, got.RestaurantID)
	assert.Equal(t, r.ID, *got.RestaurantID)
	assert.True(t, models.CheckPassword(got.PasswordHash, "secret"))

	assert.Equal(t, models.EventWaiterUpdated, pub.Last().Type)
}

func TestDeleteWaiter(t *testing.T) {
	svc, st, pub := newTestService(t)
	ctx := context.Background()
	r := testutil.SeedRestaurant(t, st, "Navat", 10)
	waiter := testutil.SeedStaff(t, st, r.ID, 1, models.RoleWaiter)
	testutil.SeedStaff(t, st, r.ID, 2, models.RoleChef)
	item := testutil.SeedMenuItem(t, st, r.ID, "Soup", "15.00")

	cheque := &models.Cheque{WaiterID: waiter.ID, CreatedAt: time.Now().UTC(), Items: []models.MenuItem{*item}}
	require.NoError(t, st.Cheques().Create(ctx, cheque))

	resp, err := svc.DeleteWaiter(ctx, r.ID, waiter.ID, "req")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Waiter with id: %d is successfully deleted", waiter.ID), resp.Message)

	rest, err := st.Restaurants().FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, rest.Headcount)

	_, err = st.Cheques().FindByID(ctx, cheque.ID)
	assert.Error(t, err)

	last := pub.Last()
	assert.Equal(t, models.EventWaiterDismissed, last.Type)
	assert.Equal(t, 1, last.Headcount)
}

func TestDeleteWaiter_WrongRestaurant(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()
	r := testutil.SeedRestaurant(t, st, "Navat", 10)
	other := testutil.SeedRestaurant(t, st, "Faiza", 5)
	waiter := testutil.SeedStaff(t, st, r.ID, 1, models.RoleWaiter)

	_, err := svc.DeleteWaiter(ctx, other.ID, waiter.ID, "req")
	assert.True(t, apperror.IsNotFound(err))

	exists, err := st.Users().ExistsByID(ctx, waiter.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}
