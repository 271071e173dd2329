package cart

import (
	"sync"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

// Manager owns one cart. Every dispatched action is persisted through the Storage.
type Manager struct {
	mu      sync.Mutex
	state   State
	storage Storage
	logger  *zap.Logger
}

// NewManager rehydrates the cart from storage. An unreadable snapshot is logged and
// replaced by an empty cart.
func NewManager(storage Storage, logger *zap.Logger) *Manager {
	m := &Manager{storage: storage, logger: logger}

	saved, err := storage.Load()
	if err != nil {
		logger.Warn("discarding unreadable cart snapshot", zap.Error(err))
		saved = State{}
	}
	m.state = Reduce(State{}, Action{Type: ActionLoad, Items: saved.Items})
	return m
}

func (m *Manager) Dispatch(a Action) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := Reduce(m.state, a)
	if err := m.storage.Save(next); err != nil {
		m.logger.Error("failed to persist cart", zap.String("action", string(a.Type)), zap.Error(err))
		return m.state, err
	}
	m.state = next
	return next, nil
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{Items: cloneItems(m.state.Items), Total: m.state.Total}
}

func (m *Manager) Add(line domain.CartLine) (State, error) {
	return m.Dispatch(Action{Type: ActionAddItem, Line: line})
}

func (m *Manager) Remove(productID int64) (State, error) {
	return m.Dispatch(Action{Type: ActionRemoveItem, ProductID: productID})
}

func (m *Manager) UpdateQuantity(productID int64, quantity int) (State, error) {
	return m.Dispatch(Action{Type: ActionUpdateQuantity, ProductID: productID, Quantity: quantity})
}

func (m *Manager) Clear() (State, error) {
	return m.Dispatch(Action{Type: ActionClear})
}

func (m *Manager) Sync() (State, error) {
	return m.Dispatch(Action{Type: ActionSync})
}

// CheckoutRequest snapshots the cart into an order request.
func (m *Manager) CheckoutRequest(address *dto.ShippingAddressDTO, paymentMethod string) (dto.CreateOrderRequest, error) {
	s := m.State()
	if len(s.Items) == 0 {
		return dto.CreateOrderRequest{}, apperrors.NewValidationError("cart is empty",
			apperrors.ValidationDetail{Field: "items", Message: "items must not be empty"})
	}

	items := make([]dto.CartItemRequest, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.CartItemRequest{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price.InexactFloat64(),
			Quantity:  it.Quantity,
		})
	}

	return dto.CreateOrderRequest{
		Items:           items,
		ShippingAddress: address,
		PaymentMethod:   paymentMethod,
	}, nil
}
