package cartpage

import (
	"github.com/mgallardo/cartfront-backend/internal/cartview"
	pkgerrors "github.com/mgallardo/cartfront-backend/pkg/errors"
)

// MoneyView mirrors cartview.Money on the wire.
type MoneyView struct {
	Amount    int64  `json:"amount"`
	Formatted string `json:"formatted"`
}

// LineItemView is one cart line in API responses.
type LineItemView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	UnitTotal MoneyView `json:"unitTotal"`
}

// CartSummary is the cart as the page consumes it.
type CartSummary struct {
	ID         string         `json:"id"`
	TotalItems int            `json:"totalItems"`
	SubTotal   MoneyView      `json:"subTotal"`
	Items      []LineItemView `json:"items"`
}

// SnapshotView is the watcher state as the JSON API exposes it.
type SnapshotView struct {
	CartID string       `json:"cartId"`
	Phase  string       `json:"phase"`
	Cart   *CartSummary `json:"cart,omitempty"`
	Error  *ErrorView   `json:"error,omitempty"`
}

// ErrorView carries the coded failure of the latest fetch.
type ErrorView struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newCartSummary(cart *cartview.Cart) *CartSummary {
	if cart == nil {
		return nil
	}
	summary := &CartSummary{
		ID:         cart.ID,
		TotalItems: cart.TotalItems,
		SubTotal:   MoneyView{Amount: cart.SubTotal.Amount, Formatted: cart.SubTotal.Formatted},
		Items:      make([]LineItemView, 0, len(cart.Items)),
	}
	for _, item := range cart.Items {
		summary.Items = append(summary.Items, LineItemView{
			ID:        item.ID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitTotal: MoneyView{Amount: item.UnitTotal.Amount, Formatted: item.UnitTotal.Formatted},
		})
	}
	return summary
}

func newSnapshotView(snap cartview.Snapshot) SnapshotView {
	view := SnapshotView{
		CartID: snap.CartID,
		Phase:  snap.Phase.String(),
		Cart:   newCartSummary(snap.Cart),
	}
	if snap.Err != nil {
		typed := pkgerrors.As(snap.Err)
		if typed == nil {
			typed = pkgerrors.Wrap(pkgerrors.CodeInternal, snap.Err, "cart fetch failed")
		}
		view.Error = &ErrorView{
			Code:    string(typed.Code()),
			Message: typed.Message(),
		}
	}
	return view
}
