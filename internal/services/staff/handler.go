package staff

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"restaurant-staffing/internal/httpx"
	"restaurant-staffing/internal/logger"
	"restaurant-staffing/internal/models"
)

const requestTimeout = 30 * time.Second

// WaiterService is the staff behaviour the handler depends on
type WaiterService interface {
	CreateWaiter(ctx context.Context, restaurantID int64, req *WaiterRequest, requestID string) (*models.SimpleResponse, error)
	ListWaiters(ctx context.Context, restaurantID int64) ([]WaiterResponse, error)
	GetWaiter(ctx context.Context, waiterID int64) (*WaiterResponse, error)
	UpdateWaiter(ctx context.Context, waiterID int64, req *WaiterRequest, requestID string) (*models.SimpleResponse, error)
	DeleteWaiter(ctx context.Context, restaurantID, waiterID int64, requestID string) (*models.SimpleResponse, error)
}

// Handler handles HTTP requests for waiters
type Handler struct {
	service WaiterService
	logger  *logger.Logger
}

// NewHandler creates a new waiter handler
func NewHandler(service WaiterService, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// Routes mounts the waiter endpoints
func (h *Handler) Routes(r chi.Router) {
	r.Post("/restaurants/{restaurantID}/waiters", h.CreateWaiter)
	r.Get("/restaurants/{restaurantID}/waiters", h.ListWaiters)
	r.Delete("/restaurants/{restaurantID}/waiters/{waiterID}", h.DeleteWaiter)
	r.Get("/waiters/{waiterID}", h.GetWaiter)
	r.Put("/waiters/{waiterID}", h.UpdateWaiter)
}

// CreateWaiter handles POST /restaurants/{restaurantID}/waiters
func (h *Handler) CreateWaiter(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	restaurantID, err := httpx.PathID(r, "restaurantID")
	if err != nil {
		httpx.WriteServiceError(w, h.logger, "validation_failed", err, requestID)
		return
	}

	var req WaiterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteServiceError(w, h.logger, "validation_failed", err, requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	resp, err := h.service.CreateWaiter(ctx, restaurantID, &req, requestID)
	if err != nil {
		httpx.WriteServiceError(w, h.logger, "waiter_create_failed", err, requestID)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// ListWaiters handles GET /restaurants/{restaurantID}/waiters
func (h *Handler) ListWaiters(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	restaurantID, err := httpx.PathID(r, "restaurantID")
	if err != nil {
		httpx.WriteServiceError(w, h.logger, "validation_failed", err, requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	waiters, err := h.service.ListWaiters(ctx, restaurantID)
	if err != nil {
		httpx.WriteServiceError(w, h.logger, "waiter_list_failed", err, requestID)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, waiters)
}

// GetWaiter handles GET /waiters/{waiterID}
func (h *Handler) GetWaiter(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	waiterID, err := httpx.PathID(r, "waiterID")
	if err != nil {
		httpx.WriteServiceError(w, h.logger, "validation_failed", err, requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	waiter, err := h.service.GetWaiter(ctx, waiterID)
	if err != nil {
		httpx.WriteServiceError(w, h.logger, "waiter_get_failed", err, requestID)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, waiter)
}

// UpdateWaiter handles PUT /waiters/{waiterID}
func (h *Handler) UpdateWaiter(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	waiterID, err := httpx.PathID(r, "waiterID")
	if err != nil {
		httpx.WriteServiceError(w, h.logger, "validation_failed", err, requestID)
		return
	}

	var req WaiterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteServiceError(w, h.logger, "validation_failed", err, requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	resp, err := h.service.UpdateWaiter(ctx, waiterID, &req, requestID)
	if err != nil {
		httpx.WriteServiceError(w, h.logger, "waiter_update_failed", err, requestID)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// DeleteWaiter handles DELETE /restaurants/{restaurantID}/waiters/{waiterID}
func (h *Handler) DeleteWaiter(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	restaurantID, err := httpx.PathID(r, "restaurantID")
	if err != nil {
		httpx.WriteServiceError(w, h.logger, "validation_failed", err, requestID)
		return
	}
	waiterID, err := httpx.PathID(r, "waiterID")
	if err != nil {
		httpx.WriteServiceError(w, h.logger, "validation_failed", err, requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	resp, err := h.service.DeleteWaiter(ctx, restaurantID, waiterID, requestID)
	if err != nil {
		httpx.WriteServiceError(w, h.logger, "waiter_delete_failed", err, requestID)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}
