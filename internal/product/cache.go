package product

import "sync"

// Deduct returns a new listing where each product named in deductions
// has its stock reduced by the given quantity, clamped at zero.
// Products without a deduction pass through unchanged. Pure function,
// no network access.
func Deduct(products []Product, deductions map[string]int) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		dec := deductions[p.ID.String()]
		if dec > 0 {
			next := p.Stock - dec
			if next < 0 {
				next = 0
			}
			p.Stock = next
		}
		out[i] = p
	}
	return out
}

// Cache holds the product listing shown to the user. It is mutated two
// ways only: a full authoritative Replace after a remote fetch, or an
// optimistic ApplyDeductions after a checkout. Optimistic changes are
// superseded entirely by the next Replace; partial merges are not
// supported.
type Cache struct {
	mu       sync.RWMutex
	products []Product
}

func NewCache() *Cache {
	return &Cache{}
}

// Replace swaps the whole listing for an authoritative one.
func (c *Cache) Replace(products []Product) {
	cp := make([]Product, len(products))
	copy(cp, products)

	c.mu.Lock()
	c.products = cp
	c.mu.Unlock()
}

// ApplyDeductions optimistically reduces cached stock so the UI updates
// before remote confirmation arrives.
func (c *Cache) ApplyDeductions(deductions map[string]int) {
	c.mu.Lock()
	c.products = Deduct(c.products, deductions)
	c.mu.Unlock()
}

// Snapshot returns a copy of the current listing.
func (c *Cache) Snapshot() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cp := make([]Product, len(c.products))
	copy(cp, c.products)
	return cp
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}
