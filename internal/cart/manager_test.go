package cart

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

type failingStorage struct{}

func (failingStorage) Load() (State, error) { return State{}, errors.New("corrupt") }
func (failingStorage) Save(State) error     { return errors.New("disk full") }

func TestManager_PersistsEveryDispatch(t *testing.T) {
	store := NewMemoryStorage()
	m := NewManager(store, zap.NewNop())

	_, err := m.Add(line(1, "10", 2))
	require.NoError(t, err)
	_, err = m.Add(line(2, "5", 1))
	require.NoError(t, err)
	_, err = m.UpdateQuantity(2, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, store.Saves())
	saved, _ := store.Load()
	assert.True(t, saved.Total.Equal(decimal.NewFromInt(35)))
}

func TestManager_RehydratesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")

	first := NewManager(NewFileStorage(path), zap.NewNop())
	_, err := first.Add(line(7, "12.50", 2))
	require.NoError(t, err)

	second := NewManager(NewFileStorage(path), zap.NewNop())
	s := second.State()
	require.Len(t, s.Items, 1)
	assert.Equal(t, int64(7), s.Items[0].ProductID)
	assert.True(t, s.Total.Equal(decimal.NewFromInt(25)))
}

func TestManager_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0o600))

	m := NewManager(NewFileStorage(path), zap.NewNop())
	assert.Empty(t, m.State().Items)
}

func TestManager_SaveFailureKeepsState(t *testing.T) {
	m := NewManager(failingStorage{}, zap.NewNop())

	_, err := m.Add(line(1, "1", 1))
	assert.Error(t, err)
	assert.Empty(t, m.State().Items)
}

func TestManager_CheckoutRequest(t *testing.T) {
	m := NewManager(NewMemoryStorage(), zap.NewNop())

	_, err := m.CheckoutRequest(nil, "bitcoin")
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)

	_, _ = m.Add(line(1, "10", 2))
	_, _ = m.Add(line(2, "5", 1))

	addr := &dto.ShippingAddressDTO{FullName: "Ada"}
	req, err := m.CheckoutRequest(addr, "bitcoin")
	require.NoError(t, err)
	require.Len(t, req.Items, 2)
	assert.Equal(t, 10.0, req.Items[0].Price)
	assert.Equal(t, 2, req.Items[0].Quantity)
	assert.Equal(t, "bitcoin", req.PaymentMethod)
	assert.Same(t, addr, req.ShippingAddress)
}
