package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

func TestWriteError_Taxonomy(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", apperrors.NewValidationError("email is required"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unauthorized", apperrors.NewUnauthorizedError("invalid credentials"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", apperrors.NewForbiddenError("admin access required"), http.StatusForbidden, "FORBIDDEN"},
		{"not found", apperrors.NewNotFoundError("product not found"), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", apperrors.NewConflictError("out of stock"), http.StatusConflict, "CONFLICT"},
		{"deadlock", apperrors.NewDeadlockError("max retries exceeded"), http.StatusConflict, "DEADLOCK"},
		{"internal", errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/x", nil)

			WriteError(w, r, zap.NewNop(), tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.False(t, body.Success)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestWriteError_InternalHidesDetail(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/x", nil)

	WriteError(w, r, zap.NewNop(), errors.New("secret dsn leaked"))

	assert.NotContains(t, w.Body.String(), "secret dsn")
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Email string `json:"email"`
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"email":"a@b.c"}`))
	require.NoError(t, DecodeJSON(w, r, &dst))
	assert.Equal(t, "a@b.c", dst.Email)

	r = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{not json`))
	err := DecodeJSON(w, r, &dst)
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}
