package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	raw, err := m.Issue(domain.User{ID: 42, Email: "admin@shop.test", Name: "Admin", Role: domain.RoleAdmin})
	require.NoError(t, err)

	claims, err := m.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID())
	assert.Equal(t, "admin@shop.test", claims.Email)
	assert.True(t, claims.IsAdmin())
}

func TestVerify_Expired(t *testing.T) {
	m := NewManager("test-secret", time.Minute)
	m.nowFunc = func() time.Time { return time.Now().Add(-time.Hour) }
	raw, err := m.Issue(domain.User{ID: 1, Role: domain.RoleAdmin})
	require.NoError(t, err)

	m.nowFunc = time.Now
	_, err = m.Verify(raw)
	assert.Error(t, err)
}

func TestVerify_WrongSecret(t *testing.T) {
	raw, err := NewManager("one", time.Hour).Issue(domain.User{ID: 1, Role: domain.RoleAdmin})
	require.NoError(t, err)

	_, err = NewManager("two", time.Hour).Verify(raw)
	assert.Error(t, err)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{Role: domain.RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer}}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewManager("test-secret", time.Hour).Verify(raw)
	assert.Error(t, err)
}

func TestVerify_Garbage(t *testing.T) {
	_, err := NewManager("test-secret", time.Hour).Verify("not.a.token")
	assert.Error(t, err)
}
