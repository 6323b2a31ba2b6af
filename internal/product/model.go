package product

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is a product identifier. The remote service is loose about types
// and may return ids as JSON strings or numbers; both decode into the
// canonical string form. Numeric ids are re-encoded as numbers so full
// resource updates round-trip what the server sent.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("product id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string { return string(id) }

// Product is a locally cached snapshot of a remote-owned resource.
// Stock is authoritative on the remote side; the local copy is a
// best-effort view that may briefly run ahead of it.
type Product struct {
	ID          ID      `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image,omitempty"`
	SKU         string  `json:"sku,omitempty"`
	Brand       string  `json:"brand,omitempty"`
}

// DashboardStats summarizes the cached listing for the overview page.
type DashboardStats struct {
	TotalProducts int     `json:"totalProducts"`
	TotalValue    float64 `json:"totalValue"`
	LowStockCount int     `json:"lowStockCount"`
	AveragePrice  float64 `json:"averagePrice"`
}
