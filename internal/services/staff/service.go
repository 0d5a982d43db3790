package staff

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurant-staffing/internal/apperror"
	"restaurant-staffing/internal/logger"
	"restaurant-staffing/internal/models"
	"restaurant-staffing/internal/store"
)

// EventPublisher publishes waiter events after a change has committed
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *models.StaffEvent) error
}

// WaiterRequest carries the profile of a waiter hired or edited by management
type WaiterRequest struct {
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=4"`
	PhoneNumber string `json:"phone_number"`
	Experience  int    `json:"experience"`
	DateOfBirth string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
}

// WaiterResponse is the public view of a waiter
type WaiterResponse struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phone_number"`
	Age          int    `json:"age"`
	Experience   int    `json:"experience"`
	RestaurantID int64  `json:"restaurant_id"`
}

// Service manages waiters hired directly into a restaurant
type Service struct {
	users       store.Users
	restaurants store.Restaurants
	publisher   EventPublisher
	logger      *logger.Logger
	now         func() time.Time
}

// NewService creates a new staff service
func NewService(st store.Store, publisher EventPublisher, log *logger.Logger) *Service {
	return &Service{
		users:       st.Users(),
		restaurants: st.Restaurants(),
		publisher:   publisher,
		logger:      log,
		now:         time.Now,
	}
}

// CreateWaiter validates the profile and admits the waiter into the
// restaurant under the headcount ceiling
func (s *Service) CreateWaiter(ctx context.Context, restaurantID int64, req *WaiterRequest, requestID string) (*models.SimpleResponse, error) {
	if err := s.requireRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, apperror.BadRequest("Email must be unique")
	}

	waiter := &models.Employee{
		Role:   models.RoleWaiter,
		Status: models.StatusPending,
	}
	if err := s.apply(waiter, req); err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, waiter); err != nil {
		return nil, fmt.Errorf("save waiter: %w", err)
	}

	headcount, err := s.restaurants.Admit(ctx, restaurantID, waiter.ID, models.HeadcountCeiling)
	if err != nil {
		if delErr := s.users.Delete(ctx, waiter.ID); delErr != nil {
			s.logger.Error("waiter_cleanup_failed", "Failed to remove unadmitted waiter", requestID, delErr, map[string]interface{}{
				"employee_id": waiter.ID,
			})
		}
		if errors.Is(err, store.ErrNoVacancy) {
			return nil, apperror.BadRequest(models.NoVacanciesMessage)
		}
		return nil, fmt.Errorf("admit waiter: %w", err)
	}

	s.logger.Info("waiter_hired", "Waiter admitted", requestID, map[string]interface{}{
		"employee_id":   waiter.ID,
		"restaurant_id": restaurantID,
		"headcount":     headcount,
	})

	event := s.event(models.EventWaiterHired, waiter, requestID)
	event.RestaurantID = restaurantID
	event.Headcount = headcount
	s.publish(ctx, event)

	return models.OK(fmt.Sprintf("Waiter with full name: %s successfully saved", waiter.FullName())), nil
}

// ListWaiters returns the active waiters of a restaurant
func (s *Service) ListWaiters(ctx context.Context, restaurantID int64) ([]WaiterResponse, error) {
	if err := s.requireRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}

	waiters, err := s.users.FindAllByRestaurantAndRole(ctx, restaurantID, models.RoleWaiter)
	if err != nil {
		return nil, fmt.Errorf("list waiters: %w", err)
	}

	out := make([]WaiterResponse, 0, len(waiters))
	for i := range waiters {
		out = append(out, toResponse(&waiters[i]))
	}
	return out, nil
}

// GetWaiter returns one active waiter
func (s *Service) GetWaiter(ctx context.Context, waiterID int64) (*WaiterResponse, error) {
	waiter, err := s.findWaiter(ctx, waiterID)
	if err != nil {
		return nil, err
	}
	resp := toResponse(waiter)
	return &resp, nil
}

// UpdateWaiter replaces the waiter's profile. Restaurant assignment is kept.
func (s *Service) UpdateWaiter(ctx context.Context, waiterID int64, req *WaiterRequest, requestID string) (*models.SimpleResponse, error) {
	waiter, err := s.findWaiter(ctx, waiterID)
	if err != nil {
		return nil, err
	}

	if req.Email != waiter.Email {
		exists, err := s.users.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if exists {
			return nil, apperror.BadRequest("Email must be unique")
		}
	}

	if err := s.apply(waiter, req); err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, waiter); err != nil {
		return nil, fmt.Errorf("update waiter %d: %w", waiterID, err)
	}

	s.logger.Info("waiter_updated", "Waiter updated", requestID, map[string]interface{}{
		"employee_id": waiter.ID,
	})
	s.publish(ctx, s.event(models.EventWaiterUpdated, waiter, requestID))

	return models.OK(fmt.Sprintf("Waiter with full name: %s successfully updated", waiter.FullName())), nil
}

// DeleteWaiter releases the waiter from the restaurant and removes them
// together with their cheques
func (s *Service) DeleteWaiter(ctx context.Context, restaurantID, waiterID int64, requestID string) (*models.SimpleResponse, error) {
	if err := s.requireRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}

	waiter, err := s.findWaiter(ctx, waiterID)
	if err != nil {
		return nil, err
	}

	headcount, err := s.restaurants.Release(ctx, restaurantID, waiterID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NotFound("Waiter with id: %d is not found", waiterID)
		}
		return nil, fmt.Errorf("release waiter %d: %w", waiterID, err)
	}

	s.logger.Info("waiter_dismissed", "Waiter released", requestID, map[string]interface{}{
		"employee_id":   waiterID,
		"restaurant_id": restaurantID,
		"headcount":     headcount,
	})

	event := s.event(models.EventWaiterDismissed, waiter, requestID)
	event.RestaurantID = restaurantID
	event.Headcount = headcount
	s.publish(ctx, event)

	return models.OK(fmt.Sprintf("Waiter with id: %d is successfully deleted", waiterID)), nil
}

// apply copies a validated request onto e
func (s *Service) apply(e *models.Employee, req *WaiterRequest) error {
	birth, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return apperror.BadRequest("Invalid date_of_birth: %q", req.DateOfBirth)
	}
	age := models.AgeAt(birth, s.now())

	if err := models.ValidateWaiter(req.PhoneNumber, age, req.Experience); err != nil {
		return err
	}

	hash, err := models.HashPassword(req.Password)
	if err != nil {
		return err
	}

	e.FirstName = req.FirstName
	e.LastName = req.LastName
	e.Email = req.Email
	e.PasswordHash = hash
	e.PhoneNumber = req.PhoneNumber
	e.Age = age
	e.Experience = req.Experience
	return nil
}

func (s *Service) requireRestaurant(ctx context.Context, restaurantID int64) error {
	exists, err := s.restaurants.ExistsByID(ctx, restaurantID)
	if err != nil {
		return fmt.Errorf("check restaurant: %w", err)
	}
	if !exists {
		return apperror.NotFound("Restaurant with id: %d is not found", restaurantID)
	}
	return nil
}

func (s *Service) findWaiter(ctx context.Context, waiterID int64) (*models.Employee, error) {
	waiter, err := s.users.FindByID(ctx, waiterID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NotFound("Waiter with id: %d is not found", waiterID)
		}
		return nil, err
	}
	if !waiter.IsActiveWaiter() {
		return nil, apperror.NotFound("Waiter with id: %d is not found", waiterID)
	}
	return waiter, nil
}

func (s *Service) event(eventType models.EventType, waiter *models.Employee, requestID string) *models.StaffEvent {
	event := models.NewStaffEvent(eventType, requestID)
	event.EmployeeID = waiter.ID
	event.EmployeeName = waiter.FullName()
	event.Role = waiter.Role
	if waiter.RestaurantID != nil {
		event.RestaurantID = *waiter.RestaurantID
	}
	return event
}

func (s *Service) publish(ctx context.Context, event *models.StaffEvent) {
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.Error("event_publish_failed", "Failed to publish waiter event", event.RequestID, err, map[string]interface{}{
			"type": event.Type,
		})
	}
}

func toResponse(e *models.Employee) WaiterResponse {
	resp := WaiterResponse{
		ID:          e.ID,
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		Email:       e.Email,
		PhoneNumber: e.PhoneNumber,
		Age:         e.Age,
		Experience:  e.Experience,
	}
	if e.RestaurantID != nil {
		resp.RestaurantID = *e.RestaurantID
	}
	return resp
}
