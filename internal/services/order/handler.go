package order

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"restaurant-staffing/internal/apperror"
	"restaurant-staffing/internal/httpx"
	"restaurant-staffing/internal/logger"
	"restaurant-staffing/internal/models"
)

const requestTimeout = 30 * time.Second

// ChequeService is the order behaviour the handler depends on
type ChequeService interface {
	CreateCheque(ctx context.Context, restaurantID, waiterID int64, req *ChequeRequest, requestID string) (*models.SimpleResponse, error)
	ListCheques(ctx context.Context, waiterID int64) ([]ChequeResponse, error)
	UpdateCheque(ctx context.Context, waiterID, chequeID int64, req *ChequeRequest, requestID string) (*models.SimpleResponse, error)
	DeleteCheque(ctx context.Context, waiterID, chequeID int64, requestID string) (*models.SimpleResponse, error)
	DailyTotal(ctx context.Context, waiterID int64, day time.Time) (*DailyTotalResponse, error)
}

// Handler handles HTTP requests for cheques
type Handler struct {
	service ChequeService
	logger  *logger.Logger
}

// NewHandler creates a new cheque handler
func NewHandler(service ChequeService, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// Routes mounts the cheque endpoints
func (h *Handler) Routes(r chi.Router) {
	r.Post("/restaurants/{restaurantID}/waiters/{waiterID}/cheques", h.CreateCheque)
	r.Get("/waiters/{waiterID}/cheques", h.ListCheques)
	r.Get("/waiters/{waiterID}/cheques/daily-total", h.DailyTotal)
	r.Put("/waiters/{waiterID}/cheques/{chequeID}", h.UpdateCheque)
	r.Delete("/waiters/{waiterID}/cheques/{chequeID}", h.DeleteCheque)
}

// CreateCheque handles POST /restaurants/{restaurantID}/waiters/{waiterID}/cheques
func (h *Handler) CreateCheque(w http.ResponseWriter, r *http.Request) {
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

	var req ChequeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteServiceError(w, h.logger, "validation_failed", err, requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	resp, err := h.service.CreateCheque(ctx, restaurantID, waiterID, &req, requestID)
	if err != nil {
		httpx.WriteServiceError(w, h.logger, "cheque_create_failed", err, requestID)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// ListCheques handles GET /waiters/{waiterID}/cheques
func (h *Handler) ListCheques(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	waiterID, err := httpx.PathID(r, "waiterID")
	if err != nil {
		httpx.WriteServiceError(w, h.logger, "validation_failed", err, requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	cheques, err := h.service.ListCheques(ctx, waiterID)
	if err != nil {
		httpx.WriteServiceError(w, h.logger, "cheque_list_failed", err, requestID)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, cheques)
}

// UpdateCheque handles PUT /waiters/{waiterID}/cheques/{chequeID}
func (h *Handler) UpdateCheque(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	waiterID, chequeID, err := chequePath(r)
	if err != nil {
		httpx.WriteServiceError(w, h.logger, "validation_failed", err, requestID)
		return
	}

	var req ChequeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteServiceError(w, h.logger, "validation_failed", err, requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	resp, err := h.service.UpdateCheque(ctx, waiterID, chequeID, &req, requestID)
	if err != nil {
		httpx.WriteServiceError(w, h.logger, "cheque_update_failed", err, requestID)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// DeleteCheque handles DELETE /waiters/{waiterID}/cheques/{chequeID}
func (h *Handler) DeleteCheque(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	waiterID, chequeID, err := chequePath(r)
	if err != nil {
		httpx.WriteServiceError(w, h.logger, "validation_failed", err, requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	resp, err := h.service.DeleteCheque(ctx, waiterID, chequeID, requestID)
	if err != nil {
		httpx.WriteServiceError(w, h.logger, "cheque_delete_failed", err, requestID)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// DailyTotal handles GET /waiters/{waiterID}/cheques/daily-total?date=
func (h *Handler) DailyTotal(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	waiterID, err := httpx.PathID(r, "waiterID")
	if err != nil {
		httpx.WriteServiceError(w, h.logger, "validation_failed", err, requestID)
		return
	}

	day := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		day, err = time.Parse(dateLayout, raw)
		if err != nil {
			httpx.WriteServiceError(w, h.logger, "validation_failed",
				apperror.BadRequest("Query parameter date must be in YYYY-MM-DD format"), requestID)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	total, err := h.service.DailyTotal(ctx, waiterID, day)
	if err != nil {
		httpx.WriteServiceError(w, h.logger, "cheque_daily_total_failed", err, requestID)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, total)
}

func chequePath(r *http.Request) (waiterID, chequeID int64, err error) {
	if waiterID, err = httpx.PathID(r, "waiterID"); err != nil {
		return 0, 0, err
	}
	if chequeID, err = httpx.PathID(r, "chequeID"); err != nil {
		return 0, 0, err
	}
	return waiterID, chequeID, nil
}
