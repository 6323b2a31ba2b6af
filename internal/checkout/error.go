package checkout

import "errors"

var (
	ErrEmptyOrder      = errors.New("order has no items")
	ErrInvalidQuantity = errors.New("item quantity must be greater than zero")
	ErrInvalidProduct  = errors.New("item product id is empty")
)
