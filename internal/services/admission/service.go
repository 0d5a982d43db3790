package admission

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

// EventPublisher publishes staff events after a state change has committed
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *models.StaffEvent) error
}

// StatementRequest is a submitted employment application
type StatementRequest struct {
	FirstName   string      `json:"first_name" validate:"required,max=100"`
	LastName    string      `json:"last_name" validate:"required,max=100"`
	Email       string      `json:"email" validate:"required,email"`
	Password    string      `json:"password" validate:"required,min=4"`
	PhoneNumber string      `json:"phone_number"`
	Role        models.Role `json:"role" validate:"required,oneof=chef waiter admin"`
	Experience  int         `json:"experience" validate:"gte=0"`
	DateOfBirth string      `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
}

// StatementResponse summarizes a pending application
type StatementResponse struct {
	ID          int64       `json:"id"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Email       string      `json:"email"`
	PhoneNumber string      `json:"phone_number"`
	Role        models.Role `json:"role"`
	Age         int         `json:"age"`
	Experience  int         `json:"experience"`
}

// Service admits pending applicants into restaurants
type Service struct {
	users       store.Users
	restaurants store.Restaurants
	publisher   EventPublisher
	logger      *logger.Logger
	now         func() time.Time
}

// NewService creates a new admission service
func NewService(st store.Store, publisher EventPublisher, log *logger.Logger) *Service {
	return &Service{
		users:       st.Users(),
		restaurants: st.Restaurants(),
		publisher:   publisher,
		logger:      log,
		now:         time.Now,
	}
}

// SubmitStatement stores a new pending applicant. Only the request shape is
// validated here; age and experience are not checked at intake.
func (s *Service) SubmitStatement(ctx context.Context, req *StatementRequest, requestID string) (*models.SimpleResponse, error) {
	birth, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return nil, apperror.BadRequest("Invalid date_of_birth: %q", req.DateOfBirth)
	}

	hash, err := models.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	employee := &models.Employee{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		PhoneNumber:  req.PhoneNumber,
		Role:         req.Role,
		Status:       models.StatusPending,
		Age:          models.AgeAt(birth, s.now()),
		Experience:   req.Experience,
	}

	if err := s.users.Save(ctx, employee); err != nil {
		return nil, fmt.Errorf("save statement: %w", err)
	}

	s.logger.Info("statement_submitted", "Statement saved", requestID, map[string]interface{}{
		"employee_id": employee.ID,
		"role":        employee.Role,
	})

	event := models.NewStaffEvent(models.EventStatementSubmitted, requestID)
	event.EmployeeID = employee.ID
	event.EmployeeName = employee.FullName()
	event.Role = employee.Role
	s.publish(ctx, event)

	return models.OK(fmt.Sprintf("Statement with employee: %s successfully SAVED", employee.FullName())), nil
}

// ListStatements returns all pending applicants in id order
func (s *Service) ListStatements(ctx context.Context) ([]StatementResponse, error) {
	pending, err := s.users.FindAllPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list statements: %w", err)
	}

	out := make([]StatementResponse, 0, len(pending))
	for _, e := range pending {
		out = append(out, StatementResponse{
			ID:          e.ID,
			FirstName:   e.FirstName,
			LastName:    e.LastName,
			Email:       e.Email,
			PhoneNumber: e.PhoneNumber,
			Role:        e.Role,
			Age:         e.Age,
			Experience:  e.Experience,
		})
	}
	return out, nil
}

// ResolveStatement accepts or removes a pending applicant. Every call either
// activates the applicant or deletes them; none leaves them pending.
func (s *Service) ResolveStatement(ctx context.Context, restaurantID, applicantID int64, accept bool, requestID string) (*models.SimpleResponse, error) {
	if _, err := s.restaurants.FindByID(ctx, restaurantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NotFound("Restaurant with id: %d is not found", restaurantID)
		}
		return nil, err
	}

	applicant, err := s.users.FindByID(ctx, applicantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NotFound("Employee with id: %d is not found", applicantID)
		}
		return nil, err
	}

	if !applicant.IsPending() {
		return nil, apperror.BadRequest("Employee with id: %d is not a pending statement", applicantID)
	}

	if !accept {
		return nil, s.remove(ctx, applicant, restaurantID, "rejected", requestID)
	}

	if !applicant.Role.IsStaff() {
		return nil, s.remove(ctx, applicant, restaurantID, "role_not_admissible", requestID)
	}

	headcount, err := s.restaurants.Admit(ctx, restaurantID, applicant.ID, models.HeadcountCeiling)
	switch {
	case errors.Is(err, store.ErrNoVacancy):
		return nil, s.remove(ctx, applicant, restaurantID, "no_vacancy", requestID)
	case errors.Is(err, store.ErrNotFound):
		return nil, apperror.NotFound("Employee with id: %d is not found", applicantID)
	case err != nil:
		return nil, fmt.Errorf("admit employee %d: %w", applicantID, err)
	}

	s.logger.Info("statement_accepted", "Applicant admitted", requestID, map[string]interface{}{
		"employee_id":   applicant.ID,
		"restaurant_id": restaurantID,
		"role":          applicant.Role,
		"headcount":     headcount,
	})

	event := models.NewStaffEvent(models.EventStatementAccepted, requestID)
	event.EmployeeID = applicant.ID
	event.EmployeeName = applicant.FullName()
	event.Role = applicant.Role
	event.RestaurantID = restaurantID
	event.Headcount = headcount
	s.publish(ctx, event)

	return models.OK(fmt.Sprintf("New %s with full name: %s successfully SAVED", applicant.Role.Title(), applicant.FullName())), nil
}

// remove deletes the applicant and returns the no-vacancies error, or an
// internal error if the delete itself failed
func (s *Service) remove(ctx context.Context, applicant *models.Employee, restaurantID int64, reason, requestID string) error {
	if err := s.users.Delete(ctx, applicant.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("remove applicant %d: %w", applicant.ID, err)
	}

	s.logger.Info("statement_removed", "Applicant removed", requestID, map[string]interface{}{
		"employee_id":   applicant.ID,
		"restaurant_id": restaurantID,
		"reason":        reason,
	})

	event := models.NewStaffEvent(models.EventStatementRemoved, requestID)
	event.EmployeeID = applicant.ID
	event.EmployeeName = applicant.FullName()
	event.Role = applicant.Role
	event.RestaurantID = restaurantID
	event.Reason = reason
	s.publish(ctx, event)

	return apperror.BadRequest(models.NoVacanciesMessage)
}

func (s *Service) publish(ctx context.Context, event *models.StaffEvent) {
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.Error("event_publish_failed", "Failed to publish staff event", event.RequestID, err, map[string]interface{}{
			"type": event.Type,
		})
	}
}
