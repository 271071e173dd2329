package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"storefront/internal/admin/token"
	"storefront/internal/domain"
)

func TestRequireAdmin(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Hour)
	adminToken, _ := tokens.Issue(domain.User{ID: 1, Email: "admin@shop.test", Role: domain.RoleAdmin})
	customerToken, _ := tokens.Issue(domain.User{ID: 2, Role: domain.RoleCustomer})
	foreignToken, _ := token.NewManager("other", time.Hour).Issue(domain.User{ID: 1, Role: domain.RoleAdmin})

	var seen *token.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := RequireAdmin(tokens, zap.NewNop())(next)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + adminToken, http.StatusUnauthorized},
		{"invalid", "Bearer garbage", http.StatusUnauthorized},
		{"foreign signature", "Bearer " + foreignToken, http.StatusUnauthorized},
		{"non-admin", "Bearer " + customerToken, http.StatusForbidden},
		{"admin", "Bearer " + adminToken, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/admin/session", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			h.ServeHTTP(w, r)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusNoContent {
				if assert.NotNil(t, seen) {
					assert.Equal(t, "admin@shop.test", seen.Email)
				}
			} else {
				assert.Nil(t, seen)
			}
		})
	}
}
