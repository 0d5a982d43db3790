package order

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

const dateLayout = "2006-01-02"

// EventPublisher publishes cheque events after a change has committed
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *models.StaffEvent) error
}

// ChequeRequest selects menu items by id. Repeated ids are kept.
type ChequeRequest struct {
	MenuItemIDs []int64 `json:"menu_item_ids" validate:"dive,gt=0"`
}

// MenuItemResponse renders one cheque line
type MenuItemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Vegetarian  bool   `json:"vegetarian"`
}

// ChequeResponse is a priced view of a cheque
type ChequeResponse struct {
	ID         int64              `json:"id"`
	FirstName  string             `json:"first_name"`
	LastName   string             `json:"last_name"`
	Service    int                `json:"service"`
	Items      []MenuItemResponse `json:"items"`
	RawTotal   string             `json:"raw_total"`
	GrandTotal string             `json:"grand_total"`
	CreatedAt  string             `json:"created_at"`
}

// DailyTotalResponse is the sum of a waiter's raw totals for one day
type DailyTotalResponse struct {
	WaiterID int64  `json:"waiter_id"`
	Date     string `json:"date"`
	Cheques  int    `json:"cheques"`
	Total    string `json:"total"`
}

// Service builds, edits and prices cheques
type Service struct {
	users       store.Users
	restaurants store.Restaurants
	menu        store.MenuItems
	cheques     store.Cheques
	publisher   EventPublisher
	logger      *logger.Logger
	now         func() time.Time
}

// NewService creates a new order service
func NewService(st store.Store, publisher EventPublisher, log *logger.Logger) *Service {
	return &Service{
		users:       st.Users(),
		restaurants: st.Restaurants(),
		menu:        st.MenuItems(),
		cheques:     st.Cheques(),
		publisher:   publisher,
		logger:      log,
		now:         time.Now,
	}
}

// CreateCheque builds a cheque from the restaurant's menu. Requested ids
// that are not on this menu are ignored.
func (s *Service) CreateCheque(ctx context.Context, restaurantID, waiterID int64, req *ChequeRequest, requestID string) (*models.SimpleResponse, error) {
	if _, err := s.restaurants.FindByID(ctx, restaurantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NotFound("Restaurant with id: %d doesn't exist", restaurantID)
		}
		return nil, err
	}

	waiter, err := s.findWaiter(ctx, waiterID)
	if err != nil {
		return nil, err
	}
	if !waiter.IsActiveWaiter() {
		return nil, apperror.BadRequest("Only waiters can make an order")
	}

	menu, err := s.menu.FindAllByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}

	cheque := &models.Cheque{
		WaiterID:  waiter.ID,
		CreatedAt: today(s.now()),
		Items:     matchItems(menu, req.MenuItemIDs),
	}

	if err := s.cheques.Create(ctx, cheque); err != nil {
		return nil, fmt.Errorf("create cheque: %w", err)
	}

	s.logger.Info("cheque_created", "Cheque saved", requestID, map[string]interface{}{
		"cheque_id":     cheque.ID,
		"waiter_id":     waiter.ID,
		"restaurant_id": restaurantID,
		"items":         len(cheque.Items),
	})
	s.publish(ctx, models.EventChequeCreated, cheque.ID, waiter, requestID)

	return models.OK(fmt.Sprintf("Cheque with id: %d is successfully SAVED", cheque.ID)), nil
}

// ListCheques returns every cheque of the waiter with its totals
func (s *Service) ListCheques(ctx context.Context, waiterID int64) ([]ChequeResponse, error) {
	waiter, err := s.findWaiter(ctx, waiterID)
	if err != nil {
		return nil, err
	}

	service, err := store.ServiceCharge(ctx, s.restaurants, waiter)
	if err != nil {
		return nil, err
	}

	cheques, err := s.cheques.FindAllByWaiter(ctx, waiterID)
	if err != nil {
		return nil, fmt.Errorf("list cheques: %w", err)
	}

	out := make([]ChequeResponse, 0, len(cheques))
	for _, c := range cheques {
		view, err := priceCheque(c, waiter, service)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

// UpdateCheque appends every catalogue item whose id was requested, one
// link per match. Calling it twice with the same id adds the item twice.
func (s *Service) UpdateCheque(ctx context.Context, waiterID, chequeID int64, req *ChequeRequest, requestID string) (*models.SimpleResponse, error) {
	waiter, err := s.findWaiter(ctx, waiterID)
	if err != nil {
		return nil, err
	}

	if _, err := s.findCheque(ctx, chequeID); err != nil {
		return nil, err
	}

	catalogue, err := s.menu.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalogue: %w", err)
	}

	added := 0
	for _, item := range matchItems(catalogue, req.MenuItemIDs) {
		if err := s.cheques.AddItem(ctx, chequeID, item.ID); err != nil {
			return nil, fmt.Errorf("update cheque %d: %w", chequeID, err)
		}
		added++
	}

	s.logger.Info("cheque_updated", "Cheque updated", requestID, map[string]interface{}{
		"cheque_id": chequeID,
		"waiter_id": waiterID,
		"added":     added,
	})
	s.publish(ctx, models.EventChequeUpdated, chequeID, waiter, requestID)

	return models.OK(fmt.Sprintf("Cheque with id: %d is successfully UPDATED", chequeID)), nil
}

// DeleteCheque clears the cheque's item links and removes it. Any existing
// waiter may delete any cheque; ownership is not checked.
func (s *Service) DeleteCheque(ctx context.Context, waiterID, chequeID int64, requestID string) (*models.SimpleResponse, error) {
	waiter, err := s.findWaiter(ctx, waiterID)
	if err != nil {
		return nil, err
	}

	if _, err := s.findCheque(ctx, chequeID); err != nil {
		return nil, err
	}

	if err := s.cheques.Delete(ctx, chequeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NotFound("Cheque with id: %d doesn't exist", chequeID)
		}
		return nil, fmt.Errorf("delete cheque %d: %w", chequeID, err)
	}

	s.logger.Info("cheque_deleted", "Cheque deleted", requestID, map[string]interface{}{
		"cheque_id": chequeID,
		"waiter_id": waiterID,
	})
	s.publish(ctx, models.EventChequeDeleted, chequeID, waiter, requestID)

	return models.OK(fmt.Sprintf("Cheque with id: %d successfully DELETED", chequeID)), nil
}

// DailyTotal sums the raw totals of the waiter's cheques created on day
func (s *Service) DailyTotal(ctx context.Context, waiterID int64, day time.Time) (*DailyTotalResponse, error) {
	if _, err := s.findWaiter(ctx, waiterID); err != nil {
		return nil, err
	}

	cheques, err := s.cheques.FindAllByWaiter(ctx, waiterID)
	if err != nil {
		return nil, fmt.Errorf("list cheques: %w", err)
	}

	date := day.Format(dateLayout)
	var (
		items []models.MenuItem
		count int
	)
	for _, c := range cheques {
		if c.CreatedAt.Format(dateLayout) != date {
			continue
		}
		items = append(items, c.Items...)
		count++
	}

	total, err := models.RawTotal(items)
	if err != nil {
		return nil, err
	}

	return &DailyTotalResponse{
		WaiterID: waiterID,
		Date:     date,
		Cheques:  count,
		Total:    models.FormatDecimal(total),
	}, nil
}

func (s *Service) findWaiter(ctx context.Context, waiterID int64) (*models.Employee, error) {
	waiter, err := s.users.FindByID(ctx, waiterID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NotFound("Waiter with id: %d doesn't exist", waiterID)
		}
		return nil, err
	}
	return waiter, nil
}

func (s *Service) findCheque(ctx context.Context, chequeID int64) (*models.Cheque, error) {
	cheque, err := s.cheques.FindByID(ctx, chequeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NotFound("Cheque with id: %d doesn't exist", chequeID)
		}
		return nil, err
	}
	return cheque, nil
}

func (s *Service) publish(ctx context.Context, eventType models.EventType, chequeID int64, waiter *models.Employee, requestID string) {
	event := models.NewStaffEvent(eventType, requestID)
	event.ChequeID = chequeID
	event.EmployeeID = waiter.ID
	event.EmployeeName = waiter.FullName()
	event.Role = waiter.Role
	if waiter.RestaurantID != nil {
		event.RestaurantID = *waiter.RestaurantID
	}

	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.Error("event_publish_failed", "Failed to publish cheque event", requestID, err, map[string]interface{}{
			"type": eventType,
		})
	}
}

// matchItems walks items in order and, for each, every requested id in
// order, keeping one copy per match
func matchItems(items []models.MenuItem, ids []int64) []models.MenuItem {
	var matched []models.MenuItem
	for _, item := range items {
		for _, id := range ids {
			if item.ID == id {
				matched = append(matched, item)
			}
		}
	}
	return matched
}

func priceCheque(c models.Cheque, waiter *models.Employee, service int) (ChequeResponse, error) {
	totals, err := models.PriceCheque(c.Items, service)
	if err != nil {
		return ChequeResponse{}, err
	}

	items := make([]MenuItemResponse, 0, len(c.Items))
	for _, m := range c.Items {
		items = append(items, MenuItemResponse{
			ID:          m.ID,
			Name:        m.Name,
			Image:       m.Image,
			Price:       models.FormatDecimal(m.Price),
			Description: m.Description,
			Vegetarian:  m.Vegetarian,
		})
	}

	return ChequeResponse{
		ID:         c.ID,
		FirstName:  waiter.FirstName,
		LastName:   waiter.LastName,
		Service:    service,
		Items:      items,
		RawTotal:   models.FormatDecimal(totals.Raw),
		GrandTotal: models.FormatDecimal(totals.Grand),
		CreatedAt:  c.CreatedAt.Format(dateLayout),
	}, nil
}

func today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
