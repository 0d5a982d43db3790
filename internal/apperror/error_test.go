package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, ""},
		{"not found", NotFound("Waiter with id: %d doesn't exist", 3), CodeNotFound},
		{"bad request", BadRequest("Email must be unique"), CodeBadRequest},
		{"wrapped", fmt.Errorf("resolve: %w", BadRequest("no")), CodeBadRequest},
		{"plain error", errors.New("connection reset"), CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetCode(tt.err))
		})
	}
}

func TestMessageIsLiteral(t *testing.T) {
	err := NotFound("Restaurant with id: %d is not found", 42)

	assert.Equal(t, "Restaurant with id: 42 is not found", err.Error())
	assert.True(t, IsNotFound(err))
	assert.False(t, IsBadRequest(err))
}
