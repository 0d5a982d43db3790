package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-playground/validator/v10"

	"restaurant-staffing/internal/apperror"
)

var validate = validator.New()

// DecodeJSON decodes the body into v, rejecting unknown fields, then runs
// struct validation. Failures come back as bad_request errors.
func DecodeJSON(r *http.Request, v interface{}) error {
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		return apperror.BadRequest("Content-Type must be application/json")
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		return apperror.BadRequest("Invalid JSON format")
	}

	return Validate(v)
}

// Validate runs struct tag validation on v
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperror.BadRequest("Field %s failed on the '%s' rule", fe.Field(), fe.Tag())
	}
	return apperror.BadRequest("Invalid request: %v", err)
}

// PathID parses a positive integer URL parameter
func PathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.BadRequest("Invalid %s: %q", name, raw)
	}
	return id, nil
}

// QueryBool parses a required boolean query parameter
func QueryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, apperror.BadRequest("Query parameter %s is required", name)
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperror.BadRequest("Invalid %s: %q", name, raw)
	}
	return b, nil
}
