package cartview

import (
	"encoding/json"
	"fmt"

	pkgerrors "github.com/mgallardo/cartfront-backend/pkg/errors"
)

// Money is an amount in minor currency units alongside its display string.
type Money struct {
	Amount    int64  `json:"amount"`
	Formatted string `json:"formatted"`
}

// LineItem is one entry of a cart.
type LineItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitTotal Money  `json:"unitTotal"`
}

// Cart is the aggregate fetched from the commerce API. A Cart value is only
// ever produced by decodeCart; it is either fully formed or not produced at
// all.
type Cart struct {
	ID         string     `json:"id"`
	TotalItems int        `json:"totalItems"`
	SubTotal   Money      `json:"subTotal"`
	Items      []LineItem `json:"items"`
}

type moneyWire struct {
	Amount    *int64  `json:"amount"`
	Formatted *string `json:"formatted"`
}

type lineItemWire struct {
	ID        *string    `json:"id"`
	Name      *string    `json:"name"`
	Quantity  *int       `json:"quantity"`
	UnitTotal *moneyWire `json:"unitTotal"`
}

type cartWire struct {
	ID         *string        `json:"id"`
	TotalItems *int           `json:"totalItems"`
	SubTotal   *moneyWire     `json:"subTotal"`
	Items      []lineItemWire `json:"items"`
}

// decodeCart turns the raw data.cart payload into a Cart. A missing cart
// field is a shape violation (the operation always selects it); an explicit
// null means the upstream knows no such cart and yields (nil, nil).
func decodeCart(raw json.RawMessage) (*Cart, error) {
	if len(raw) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeBadUpstream, "response data is missing the cart field")
	}
	if string(raw) == "null" {
		return nil, nil
	}

	var wire cartWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeBadUpstream, err, "cart payload is not an object")
	}

	if wire.TotalItems == nil {
		return nil, pkgerrors.New(pkgerrors.CodeBadUpstream, "cart payload is missing totalItems")
	}
	if *wire.TotalItems < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeBadUpstream, "cart totalItems is negative").
			WithDetails(map[string]any{"totalItems": *wire.TotalItems})
	}

	cart := &Cart{
		TotalItems: *wire.TotalItems,
		Items:      make([]LineItem, 0, len(wire.Items)),
	}
	if wire.ID != nil {
		cart.ID = *wire.ID
	}
	if wire.SubTotal != nil {
		cart.SubTotal = decodeMoney(*wire.SubTotal)
	}

	for i, itemWire := range wire.Items {
		item, err := decodeLineItem(itemWire)
		if err != nil {
			typed := pkgerrors.As(err)
			return nil, typed.WithDetails(map[string]any{"index": i})
		}
		cart.Items = append(cart.Items, item)
	}

	return cart, nil
}

func decodeLineItem(wire lineItemWire) (LineItem, error) {
	if wire.ID == nil || *wire.ID == "" {
		return LineItem{}, pkgerrors.New(pkgerrors.CodeBadUpstream, "line item is missing id")
	}
	if wire.Name == nil || *wire.Name == "" {
		return LineItem{}, pkgerrors.New(pkgerrors.CodeBadUpstream, fmt.Sprintf("line item %s is missing name", *wire.ID))
	}
	if wire.Quantity == nil || *wire.Quantity < 0 {
		return LineItem{}, pkgerrors.New(pkgerrors.CodeBadUpstream, fmt.Sprintf("line item %s has invalid quantity", *wire.ID))
	}

	item := LineItem{
		ID:       *wire.ID,
		Name:     *wire.Name,
		Quantity: *wire.Quantity,
	}
	if wire.UnitTotal != nil {
		item.UnitTotal = decodeMoney(*wire.UnitTotal)
	}
	return item, nil
}

func decodeMoney(wire moneyWire) Money {
	money := Money{}
	if wire.Amount != nil {
		money.Amount = *wire.Amount
	}
	if wire.Formatted != nil {
		money.Formatted = *wire.Formatted
	}
	return money
}
