package admission

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

// StatementService is the admission behaviour the handler depends on
type StatementService interface {
	SubmitStatement(ctx context.Context, req *StatementRequest, requestID string) (*models.SimpleResponse, error)
	ListStatements(ctx context.Context) ([]StatementResponse, error)
	ResolveStatement(ctx context.Context, restaurantID, applicantID int64, accept bool, requestID string) (*models.SimpleResponse, error)
}

// Handler handles HTTP requests for statements
type Handler struct {
	service StatementService
	logger  *logger.Logger
}

// NewHandler creates a new statement handler
func NewHandler(service StatementService, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// Routes mounts the statement endpoints
func (h *Handler) Routes(r chi.Router) {
	r.Post("/statements", h.SubmitStatement)
	r.Get("/statements", h.ListStatements)
	r.Post("/statements/{restaurantID}/{applicantID}", h.ResolveStatement)
}

// SubmitStatement handles POST /statements
func (h *Handler) SubmitStatement(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	var req StatementRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteServiceError(w, h.logger, "validation_failed", err, requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	resp, err := h.service.SubmitStatement(ctx, &req, requestID)
	if err != nil {
		httpx.WriteServiceError(w, h.logger, "statement_submit_failed", err, requestID)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// ListStatements handles GET /statements
func (h *Handler) ListStatements(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	statements, err := h.service.ListStatements(ctx)
	if err != nil {
		httpx.WriteServiceError(w, h.logger, "statement_list_failed", err, requestID)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, statements)
}

// ResolveStatement handles POST /statements/{restaurantID}/{applicantID}?accept=
func (h *Handler) ResolveStatement(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	restaurantID, err := httpx.PathID(r, "restaurantID")
	if err != nil {
		httpx.WriteServiceError(w, h.logger, "validation_failed", err, requestID)
		return
	}
	applicantID, err := httpx.PathID(r, "applicantID")
	if err != nil {
		httpx.WriteServiceError(w, h.logger, "validation_failed", err, requestID)
		return
	}
	accept, err := httpx.QueryBool(r, "accept")
	if err != nil {
		httpx.WriteServiceError(w, h.logger, "validation_failed", err, requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	resp, err := h.service.ResolveStatement(ctx, restaurantID, applicantID, accept, requestID)
	if err != nil {
		httpx.WriteServiceError(w, h.logger, "statement_resolve_failed", err, requestID)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}
