package admission

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-staffing/internal/apperror"
	"restaurant-staffing/internal/httpx"
	"restaurant-staffing/internal/logger"
	"restaurant-staffing/internal/models"
)

type stubService struct {
	submitFn  func(ctx context.Context, req *StatementRequest, requestID string) (*models.SimpleResponse, error)
	listFn    func(ctx context.Context) ([]StatementResponse, error)
	resolveFn func(ctx context.Context, restaurantID, applicantID int64, accept bool, requestID string) (*models.SimpleResponse, error)
}

func (s *stubService) SubmitStatement(ctx context.Context, req *StatementRequest, requestID string) (*models.SimpleResponse, error) {
	return s.submitFn(ctx, req, requestID)
}

func (s *stubService) ListStatements(ctx context.Context) ([]StatementResponse, error) {
	return s.listFn(ctx)
}

func (s *stubService) ResolveStatement(ctx context.Context, restaurantID, applicantID int64, accept bool, requestID string) (*models.SimpleResponse, error) {
	return s.resolveFn(ctx, restaurantID, applicantID, accept, requestID)
}

func newRouter(svc StatementService) http.Handler {
	r := chi.NewRouter()
	r.Use(httpx.WithLogging(logger.Discard()))
	NewHandler(svc, logger.Discard()).Routes(r)
	return r
}

func TestHandler_SubmitStatement(t *testing.T) {
	var got *StatementRequest
	svc := &stubService{
		submitFn: func(_ context.Context, req *StatementRequest, _ string) (*models.SimpleResponse, error) {
			got = req
			return models.OK("Statement with employee: Aida Bekova successfully SAVED"), nil
		},
	}

	body := `{"first_name":"Aida","last_name":"Bekova","email":"aida@example.com","password":"secret",
		"phone_number":"+996555123456","role":"waiter","experience":2,"date_of_birth":"2000-01-02"}`
	req := httptest.NewRequest(http.MethodPost, "/statements", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, models.RoleWaiter, got.Role)

	var resp models.SimpleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Statement with employee: Aida Bekova successfully SAVED", resp.Message)
}

func TestHandler_SubmitStatementValidation(t *testing.T) {
	svc := &stubService{
		submitFn: func(context.Context, *StatementRequest, string) (*models.SimpleResponse, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}

	tests := []struct {
		name string
		body string
	}{
		{"unknown role", `{"first_name":"A","last_name":"B","email":"a@b.co","password":"secret","role":"cook","date_of_birth":"2000-01-02"}`},
		{"bad date", `{"first_name":"A","last_name":"B","email":"a@b.co","password":"secret","role":"chef","date_of_birth":"02.01.2000"}`},
		{"missing email", `{"first_name":"A","last_name":"B","password":"secret","role":"chef","date_of_birth":"2000-01-02"}`},
		{"not json", `first_name=A`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/statements", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			newRouter(svc).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandler_ResolveStatement(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		err        error
		wantStatus int
		wantAccept bool
	}{
		{"accepted", "/statements/1/2?accept=true", nil, http.StatusOK, true},
		{"rejected", "/statements/1/2?accept=false", apperror.BadRequest(models.NoVacanciesMessage), http.StatusBadRequest, false},
		{"missing restaurant", "/statements/1/2?accept=true", apperror.NotFound("Restaurant with id: 1 is not found"), http.StatusNotFound, true},
		{"missing accept", "/statements/1/2", nil, http.StatusBadRequest, false},
		{"bad id", "/statements/x/2?accept=true", nil, http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAccept bool
			svc := &stubService{
				resolveFn: func(_ context.Context, restaurantID, applicantID int64, accept bool, _ string) (*models.SimpleResponse, error) {
					assert.Equal(t, int64(1), restaurantID)
					assert.Equal(t, int64(2), applicantID)
					gotAccept = accept
					if tt.err != nil {
						return nil, tt.err
					}
					return models.OK("ok"), nil
				},
			}

			rec := httptest.NewRecorder()
			newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.url, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantAccept, gotAccept)
		})
	}
}

func TestHandler_ListStatements(t *testing.T) {
	svc := &stubService{
		listFn: func(context.Context) ([]StatementResponse, error) {
			return []StatementResponse{{ID: 3, FirstName: "Aida", Role: models.RoleChef}}, nil
		},
	}

	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/statements", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var list []StatementResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, int64(3), list[0].ID)
}
