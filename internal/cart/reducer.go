package cart

import (
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type ActionType string

const (
	ActionAddItem        ActionType = "ADD_ITEM"
	ActionRemoveItem     ActionType = "REMOVE_ITEM"
	ActionUpdateQuantity ActionType = "UPDATE_QUANTITY"
	ActionClear          ActionType = "CLEAR_CART"
	ActionLoad           ActionType = "LOAD_CART"
	ActionSync           ActionType = "SYNC_CART"
)

// Action carries the payload for one reducer step. Only the fields relevant to Type are read.
type Action struct {
	Type      ActionType
	Line      domain.CartLine
	ProductID int64
	Quantity  int
	Items     []domain.CartLine
}

// State is an ordered list of cart lines and the running total.
type State struct {
	Items []domain.CartLine `json:"items"`
	Total decimal.Decimal   `json:"total"`
}

func (s State) ItemCount() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

// Reduce applies a to s and returns the next state. s is never modified. The total is
// adjusted incrementally, except on load where it is summed once.
func Reduce(s State, a Action) State {
	switch a.Type {
	case ActionAddItem:
		if a.Line.Quantity <= 0 {
			return s
		}
		items := cloneItems(s.Items)
		if i := indexOf(items, a.Line.ProductID); i >= 0 {
			items[i].Quantity += a.Line.Quantity
			return State{Items: items, Total: s.Total.Add(lineTotal(items[i].Price, a.Line.Quantity))}
		}
		items = append(items, a.Line)
		return State{Items: items, Total: s.Total.Add(lineTotal(a.Line.Price, a.Line.Quantity))}

	case ActionRemoveItem:
		return remove(s, a.ProductID)

	case ActionUpdateQuantity:
		i := indexOf(s.Items, a.ProductID)
		if i < 0 {
			return s
		}
		if a.Quantity <= 0 {
			return remove(s, a.ProductID)
		}
		items := cloneItems(s.Items)
		delta := a.Quantity - items[i].Quantity
		items[i].Quantity = a.Quantity
		return State{Items: items, Total: s.Total.Add(lineTotal(items[i].Price, delta))}

	case ActionClear:
		return State{Items: []domain.CartLine{}, Total: decimal.Zero}

	case ActionLoad:
		items := make([]domain.CartLine, 0, len(a.Items))
		total := decimal.Zero
		for _, it := range a.Items {
			if it.Quantity <= 0 {
				continue
			}
			items = append(items, it)
			total = total.Add(lineTotal(it.Price, it.Quantity))
		}
		return State{Items: items, Total: total}

	case ActionSync:
		// no server-side cart yet
		return s
	}
	return s
}

func remove(s State, productID int64) State {
	i := indexOf(s.Items, productID)
	if i < 0 {
		return s
	}
	items := make([]domain.CartLine, 0, len(s.Items)-1)
	items = append(items, s.Items[:i]...)
	items = append(items, s.Items[i+1:]...)
	return State{Items: items, Total: s.Total.Sub(lineTotal(s.Items[i].Price, s.Items[i].Quantity))}
}

func lineTotal(price decimal.Decimal, qty int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty)))
}

func indexOf(items []domain.CartLine, productID int64) int {
	for i, it := range items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

func cloneItems(items []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, len(items), len(items)+1)
	copy(out, items)
	return out
}
