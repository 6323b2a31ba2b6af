package queue

import (
	"errors"
	"time"
)

var (
	// ErrDurability wraps any local write failure. It is the only error
	// class that surfaces to the user as a failed checkout.
	ErrDurability    = errors.New("order queue write failed")
	ErrOrderNotFound = errors.New("order not found")
)

type OrderItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// Order is the locally persisted record of a checkout. Rows are never
// deleted; once delivered they stay behind as an audit trail with
// Synced set.
type Order struct {
	ID        int64       `json:"id"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	CreatedAt time.Time   `json:"createdAt"`
	Synced    bool        `json:"synced"`
}
