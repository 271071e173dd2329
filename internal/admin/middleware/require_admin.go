package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"storefront/internal/admin/token"
	apperrors "storefront/internal/errors"
	"storefront/internal/httpx"
)

type ctxKey struct{}

type TokenVerifier interface {
	Verify(raw string) (*token.Claims, error)
}

// RequireAdmin is the single authorization policy for admin routes: a valid bearer token
// carrying the admin role.
func RequireAdmin(verifier TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				httpx.WriteError(w, r, logger, apperrors.NewUnauthorizedError("missing bearer token"))
				return
			}

			claims, err := verifier.Verify(raw)
			if err != nil {
				logger.Info("rejected admin token", zap.Error(err))
				httpx.WriteError(w, r, logger, apperrors.NewUnauthorizedError("invalid or expired token"))
				return
			}

			if !claims.IsAdmin() {
				httpx.WriteError(w, r, logger, apperrors.NewForbiddenError("admin access required"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func WithClaims(ctx context.Context, c *token.Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

func ClaimsFrom(ctx context.Context) (*token.Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(*token.Claims)
	return c, ok
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, raw, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}
