package stock

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"ordersync-be/internal/logger"
	"ordersync-be/internal/product"
	"ordersync-be/internal/queue"
)

// Gateway is the slice of the remote client the reconciler needs.
type Gateway interface {
	GetProduct(ctx context.Context, id string) (*product.Product, error)
	UpdateProductStock(ctx context.Context, id string, stock int) error
}

// BuildDeductions aggregates an order's line items into one deduction
// per product. Items referencing the same product are summed, so the
// remote side sees a single read and a single write per product.
func BuildDeductions(items []queue.OrderItem) map[string]int {
	deductions := make(map[string]int, len(items))
	for _, it := range items {
		if it.ProductID == "" || it.Quantity <= 0 {
			continue
		}
		deductions[it.ProductID] += it.Quantity
	}
	return deductions
}

// Reconciler deducts purchased quantities from authoritative remote
// stock. Every product is handled independently; failures are logged
// and dropped so one broken product never blocks its siblings or the
// checkout.
type Reconciler struct {
	gw Gateway
}

func NewReconciler(gw Gateway) *Reconciler {
	return &Reconciler{gw: gw}
}

type outcome struct {
	productID string
	err       error
}

// Apply runs one read-clamp-write pipeline per product concurrently and
// waits for every pipeline to settle. It returns the number of products
// whose stock was written; it never returns an error.
//
// The read-then-write is not atomic against concurrent writers: two
// simultaneous checkouts touching the same product can both read the
// same stale stock and undercount the total deduction. That behavior is
// inherited from the remote contract, which has no compare-and-swap.
func (r *Reconciler) Apply(ctx context.Context, deductions map[string]int) int {
	log := logger.FromCtx(ctx).With(zap.String("layer", "stock"))

	if len(deductions) == 0 {
		return 0
	}

	results := make(chan outcome, len(deductions))
	var wg sync.WaitGroup

	for id, qty := range deductions {
		wg.Add(1)
		go func(id string, qty int) {
			defer wg.Done()
			results <- outcome{productID: id, err: r.applyOne(ctx, id, qty)}
		}(id, qty)
	}

	wg.Wait()
	close(results)

	applied := 0
	for res := range results {
		if res.err != nil {
			log.Warn("stock deduction skipped",
				zap.String("product_id", res.productID),
				zap.Error(res.err),
			)
			continue
		}
		applied++
	}

	log.Info("stock reconciliation attempted",
		zap.Int("products", len(deductions)),
		zap.Int("applied", applied),
	)
	return applied
}

func (r *Reconciler) applyOne(ctx context.Context, id string, deduction int) error {
	p, err := r.gw.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	next := p.Stock - deduction
	if next < 0 {
		next = 0
	}
	return r.gw.UpdateProductStock(ctx, id, next)
}
