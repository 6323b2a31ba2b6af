package remote

import (
	"time"

	"ordersync-be/internal/product"
)

// Order is a persisted order as the remote service reports it, consumed
// by the order-history view.
type Order struct {
	ID        product.ID  `json:"id"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	CreatedAt time.Time   `json:"createdAt"`
}

type OrderItem struct {
	ProductID product.ID `json:"productId"`
	Quantity  int        `json:"quantity"`
}
