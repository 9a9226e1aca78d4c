package cartpage

// SelectCartRequest switches the cart shown on the page.
type SelectCartRequest struct {
	CartID string `json:"cartId" validate:"required"`
}
